package seeders

import (
	"context"

	"car-rental/internal/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Seeder struct {
	userRepo repositories.UserRepositoryInterface
	carRepo  repositories.CarRepositoryInterface
	logger   *zap.Logger
}

func New(db *pgxpool.Pool, logger *zap.Logger) *Seeder {
	return &Seeder{
		userRepo: repositories.NewUserRepository(db, logger),
		carRepo:  repositories.NewCarRepository(db, logger),
		logger:   logger,
	}
}

// SeedAll runs every seeder in dependency order.
func (s *Seeder) SeedAll(ctx context.Context, admin AdminCredentials) error {
	if err := s.SeedAdmin(ctx, admin); err != nil {
		return err
	}
	return s.SeedCars(ctx)
}
