// internal/services/auth_service.go
// Coach authentication and authorization service, adapted from the
// teacher's user-account auth service.

package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"rotation-planner/internal/config"
	"rotation-planner/internal/models"
	"rotation-planner/internal/repositories"
	"rotation-planner/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles coach registration, login and token lifecycle.
type AuthService struct {
	coachRepo *repositories.CoachRepository
	config    config.AuthConfig
	cache     *CacheService
	logger    *log.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(coachRepo *repositories.CoachRepository, cfg config.AuthConfig, cache *CacheService, logger *log.Logger) *AuthService {
	return &AuthService{coachRepo: coachRepo, config: cfg, cache: cache, logger: logger}
}

// Register creates a new coach account.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.Coach, *models.TokenPair, error) {
	if _, err := s.coachRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, ErrEmailAlreadyExists
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	coach := &models.Coach{
		ID:           utils.GenerateUUID(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Role:         models.RoleCoach,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.coachRepo.Create(ctx, coach); err != nil {
		return nil, nil, fmt.Errorf("failed to create coach: %w", err)
	}

	tokenPair, err := s.generateTokenPair(coach)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	coach.PasswordHash = ""
	return coach, tokenPair, nil
}

// Login authenticates a coach and returns tokens.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Coach, *models.TokenPair, error) {
	coach, err := s.coachRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(coach.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokenPair, err := s.generateTokenPair(coach)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	coach.PasswordHash = ""
	return coach, tokenPair, nil
}

// RefreshToken generates new tokens using a refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	cacheKey := fmt.Sprintf("refresh_token_%s", refreshToken)
	var coachID string
	if err := s.cache.Get(cacheKey, &coachID); err != nil {
		return nil, ErrInvalidToken
	}

	coach, err := s.coachRepo.GetByID(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coach: %w", err)
	}

	s.cache.Delete(cacheKey)
	return s.generateTokenPair(coach)
}

func (s *AuthService) generateTokenPair(coach *models.Coach) (*models.TokenPair, error) {
	accessToken, err := utils.GenerateJWT(coach.ID, string(coach.Role), s.config.JWTSecret, s.config.JWTExpiration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	cacheKey := fmt.Sprintf("refresh_token_%s", refreshToken)
	if err := s.cache.Set(cacheKey, coach.ID, s.config.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("failed to cache refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.config.JWTExpiration),
	}, nil
}

// ValidateToken validates a JWT token and returns the coach ID and role.
func (s *AuthService) ValidateToken(token string) (string, string, error) {
	coachID, role, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	return coachID, role, nil
}

// Logout invalidates a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		s.cache.Delete(fmt.Sprintf("refresh_token_%s", refreshToken))
	}
	return nil
}
