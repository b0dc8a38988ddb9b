package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"car-rental/internal/dto"
	"car-rental/internal/entities"
	"car-rental/internal/repositories"
	"car-rental/pkg/config"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/utils"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	// Login returns the account for a valid credential pair.
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error)
	GetUserByID(ctx context.Context, userID string) (*entities.User, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
	cfg       config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cfg config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cfg:       cfg,
	}
}

func loginAttemptsKey(email string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	logger := s.logger.With(zap.String("email", payload.Email))
	attemptsKey := loginAttemptsKey(payload.Email)

	if s.lockedOut(ctx, attemptsKey) {
		logger.Warn("login locked out")
		return nil, apperrors.ErrTooManyAttempts.With(nil, map[string]interface{}{"email": payload.Email})
	}

	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.recordFailure(ctx, attemptsKey)
			logger.Info("login failed: unknown e-mail")
			return nil, apperrors.ErrIdentifierNotFound
		}
		return nil, err
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.recordFailure(ctx, attemptsKey)
		logger.Info("login failed: password mismatch", zap.String("userID", user.ID))
		return nil, apperrors.ErrSecretMismatch
	}

	if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
		logger.Warn("could not reset login attempts", zap.Error(err))
	}
	logger.Info("login succeeded", zap.String("userID", user.ID))
	return user, nil
}

// lockedOut fails open: when the cache is unavailable logins are not blocked.
func (s *AuthService) lockedOut(ctx context.Context, key string) bool {
	if s.cfg.MaxLoginAttempts <= 0 {
		return false
	}
	raw, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("login attempts lookup failed", zap.Error(err))
		}
		return false
	}
	attempts, _ := strconv.Atoi(raw)
	return attempts >= s.cfg.MaxLoginAttempts
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("login attempts increment failed", zap.Error(err))
		return
	}
	if attempts == 1 {
		if _, err := s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("login attempts expire failed", zap.Error(err))
		}
	}
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// the account behind a still-valid token is gone
			return nil, apperrors.ErrTokenInvalid.With(err, map[string]interface{}{"userID": userID})
		}
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return user, nil
}
