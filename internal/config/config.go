// internal/config/config.go
// Configuration management using environment variables and optional
// .env files, adapted from the teacher's config loader. Payment/email
// provider sections are dropped (no such concern in this host); a
// GameDefaults section is added for engine-level knobs the host
// exposes as environment overrides.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Game        GameDefaults
	Features    FeatureFlags
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigin  string
}

// DatabaseConfig contains all database connection settings.
type DatabaseConfig struct {
	MySQL   MySQLConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig contains authentication and authorization settings.
type AuthConfig struct {
	JWTSecret          string
	JWTExpiration      time.Duration
	RefreshTokenExpiry time.Duration
	BCryptCost         int
}

// GameDefaults holds engine-level knobs read from the environment and
// the in-memory registry's cache TTL and eviction grace period. The
// host uses only SnapshotCacheTTL and EvictionGracePeriod; games take
// their engine knobs from models.DefaultGameConfig, which does not read
// the other fields.
type GameDefaults struct {
	FinalNoSubWindow   int
	CheckInterval      int
	LookAheadWindow    int
	VarianceGoal       int
	MaxEarlyVariance   int
	SnapshotCacheTTL   time.Duration
	EvictionGracePeriod time.Duration
}

// FeatureFlags allows toggling features without code changes.
type FeatureFlags struct {
	EnableWebSocket     bool
	EnableAnalyticsLog  bool
	MaintenanceMode     bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:          getEnvOrDefault("PORT", "8080"),
			ReadTimeout:   getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:  getDurationOrDefault("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:   getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			AllowedOrigin: getEnvOrDefault("ALLOWED_ORIGIN", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			MySQL: MySQLConfig{
				DSN:             getEnvOrDefault("MYSQL_DSN", ""),
				MaxOpenConns:    getIntOrDefault("MYSQL_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getIntOrDefault("MYSQL_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getDurationOrDefault("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute),
			},
			MongoDB: MongoDBConfig{
				URI:      getEnvOrDefault("MONGO_URI", ""),
				Database: getEnvOrDefault("MONGO_DATABASE", "rotation_planner"),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getIntOrDefault("REDIS_DB", 0),
			},
		},
		Auth: AuthConfig{
			JWTSecret:          getEnvOrDefault("JWT_SECRET", ""),
			JWTExpiration:      getDurationOrDefault("JWT_EXPIRATION", 15*time.Minute),
			RefreshTokenExpiry: getDurationOrDefault("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
			BCryptCost:         getIntOrDefault("BCRYPT_COST", 10),
		},
		Game: GameDefaults{
			FinalNoSubWindow:    getIntOrDefault("GAME_FINAL_NO_SUB_WINDOW", 45),
			CheckInterval:       getIntOrDefault("GAME_CHECK_INTERVAL", 15),
			LookAheadWindow:     getIntOrDefault("GAME_LOOK_AHEAD_WINDOW", 60),
			VarianceGoal:        getIntOrDefault("GAME_VARIANCE_GOAL", 60),
			MaxEarlyVariance:    getIntOrDefault("GAME_MAX_EARLY_VARIANCE", 90),
			SnapshotCacheTTL:    getDurationOrDefault("GAME_SNAPSHOT_CACHE_TTL", 24*time.Hour),
			EvictionGracePeriod: getDurationOrDefault("GAME_EVICTION_GRACE_PERIOD", 10*time.Minute),
		},
		Features: FeatureFlags{
			EnableWebSocket:    getBoolOrDefault("ENABLE_WEBSOCKET", true),
			EnableAnalyticsLog: getBoolOrDefault("ENABLE_ANALYTICS_LOG", true),
			MaintenanceMode:    getBoolOrDefault("MAINTENANCE_MODE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.Database.MySQL.DSN == "" {
		return fmt.Errorf("MYSQL_DSN is required")
	}
	if c.Database.MongoDB.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
