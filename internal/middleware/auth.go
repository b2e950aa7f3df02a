// internal/middleware/auth.go
// Authentication middleware validates JWT tokens and sets coach context

package middleware

import (
	"net/http"
	"strings"

	"rotation-planner/internal/services"

	"github.com/gin-gonic/gin"
)

// RequireAuth validates that a request has a valid JWT token.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			c.Abort()
			return
		}

		coachID, role, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("coach_id", coachID)
		c.Set("coach_role", role)
		c.Set("authenticated", true)

		c.Next()
	}
}

// OptionalAuth checks for authentication but doesn't require it.
func OptionalAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set("authenticated", false)
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if coachID, role, err := authService.ValidateToken(parts[1]); err == nil {
				c.Set("coach_id", coachID)
				c.Set("coach_role", role)
				c.Set("authenticated", true)
			}
		}

		c.Next()
	}
}

// RequireRole ensures the coach has a specific role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("coach_role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireGameOwner ensures the authenticated coach owns the game
// referenced by the :id route parameter.
func RequireGameOwner(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		coachID, _ := c.Get("coach_id")
		gameID := c.Param("id")

		isOwner, err := svc.Game.IsOwner(c.Request.Context(), gameID, coachID.(string))
		if err != nil || !isOwner {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
