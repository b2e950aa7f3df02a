// internal/utils/jwt.go
// JWT token generation and validation utilities

package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT claims for a coach session.
type Claims struct {
	CoachID string `json:"coach_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a new JWT token for the given coach.
func GenerateJWT(coachID, role, secret string, expiration time.Duration) (string, error) {
	claims := Claims{
		CoachID: coachID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT validates a JWT token and returns the coach ID and role.
func ValidateJWT(tokenString, secret string) (string, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return "", "", err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims.CoachID, claims.Role, nil
	}

	return "", "", fmt.Errorf("invalid token")
}
