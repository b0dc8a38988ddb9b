package services

import (
	"context"
	"fmt"
	"time"

	"car-rental/internal/repositories"
	"car-rental/pkg/mailer"

	"go.uber.org/zap"
)

type NotificationServiceInterface interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendRentConfirmation(ctx context.Context, userID, car string, dateIn time.Time) error
}

type NotificationService struct {
	mailer   mailer.Mailer
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewNotificationService(m mailer.Mailer, userRepo repositories.UserRepositoryInterface, logger *zap.Logger) NotificationServiceInterface {
	return &NotificationService{mailer: m, userRepo: userRepo, logger: logger}
}

func (s *NotificationService) SendWelcome(ctx context.Context, to, name string) error {
	return s.mailer.Send(ctx, mailer.Message{
		To:      to,
		Subject: "Welcome to Car Rental",
		Body:    fmt.Sprintf("Hello %s,\n\nyour account has been created. You can now log in and rent a car.\n", name),
	})
}

func (s *NotificationService) SendRentConfirmation(ctx context.Context, userID, car string, dateIn time.Time) error {
	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load rent owner %s: %w", userID, err)
	}
	return s.mailer.Send(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Your rent is confirmed",
		Body: fmt.Sprintf("Hello %s,\n\nyou rented %s starting %s.\n",
			user.Name, car, dateIn.Format("2006-01-02 15:04")),
	})
}
