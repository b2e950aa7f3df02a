// internal/services/container.go
// Service container provides dependency injection for all business
// logic services.

package services

import (
	"log"

	"rotation-planner/internal/config"
	"rotation-planner/internal/database"
	"rotation-planner/internal/repositories"
)

// Container holds all service instances and provides them to handlers.
type Container struct {
	Auth      *AuthService
	Game      *GameService
	Cache     *CacheService
	Analytics *AnalyticsService
}

// NewContainer creates a new service container with all dependencies.
func NewContainer(db *database.Connections, cfg *config.Config, logger *log.Logger) *Container {
	repos := repositories.NewContainer(db)

	cache := NewCacheService(db.Redis, logger)
	analytics := NewAnalyticsService(db.MongoDB, logger)
	auth := NewAuthService(repos.Coach, cfg.Auth, cache, logger)
	game := NewGameService(repos, cache, analytics, cfg.Game, logger)

	return &Container{
		Auth:      auth,
		Game:      game,
		Cache:     cache,
		Analytics: analytics,
	}
}
