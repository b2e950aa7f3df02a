// internal/api/routes.go
// Central route registration for all API endpoints.

package api

import (
	"rotation-planner/internal/middleware"
	"rotation-planner/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers authentication-related routes.
func RegisterAuthRoutes(router *gin.RouterGroup, services *services.Container) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", HandleRegister(services.Auth))
		auth.POST("/login", HandleLogin(services.Auth))
		auth.POST("/logout", middleware.RequireAuth(services.Auth), HandleLogout(services.Auth))
		auth.POST("/refresh", HandleRefreshToken(services.Auth))
	}
}

// RegisterGameRoutes registers game lifecycle and command routes.
func RegisterGameRoutes(router *gin.RouterGroup, services *services.Container) {
	games := router.Group("/games")
	{
		// Reads are open; a valid game ID is the only access control.
		games.GET("/:id", HandleGetGame(services))
		games.GET("/:id/final-stats", HandleFinalStats(services))

		games.Use(middleware.RequireAuth(services.Auth))
		games.POST("", HandleCreateGame(services))

		owned := games.Group("/:id")
		owned.Use(middleware.RequireGameOwner(services))
		{
			owned.POST("/start", HandleStartGame(services))
			owned.POST("/stop", HandleStopGame(services))
			owned.POST("/confirm-rotation", HandleConfirmRotation(services))
			owned.POST("/cancel-rotation", HandleCancelRotation(services))
			owned.POST("/emergency-substitution", HandleEmergencySubstitution(services))
			owned.POST("/foul-out", HandleFoulOut(services))
			owned.POST("/remove-player", HandleRemovePlayer(services))
			owned.POST("/return-player", HandleReturnPlayer(services))
			owned.POST("/score", HandleUpdateScore(services))
			owned.POST("/visibility-change", HandleVisibilityChange(services))
		}
	}
}
