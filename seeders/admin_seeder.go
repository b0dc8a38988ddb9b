package seeders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"car-rental/internal/entities"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/utils"

	"go.uber.org/zap"
)

type AdminCredentials struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// SeedAdmin creates the first administrator. An existing account with the
// same e-mail is left as it is.
func (s *Seeder) SeedAdmin(ctx context.Context, creds AdminCredentials) error {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return fmt.Errorf("admin e-mail and password are required")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.logger.Info("admin already exists, skipping", zap.String("email", email), zap.String("role", existing.Role.String()))
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := utils.HashPassword(creds.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin, err := s.userRepo.CreateUser(ctx, &entities.User{
		Name:     creds.Name,
		Surname:  creds.Surname,
		Email:    email,
		Role:     constants.RoleAdmin,
		Password: hash,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("admin created", zap.String("userID", admin.ID), zap.String("email", email))
	return nil
}
