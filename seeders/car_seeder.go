package seeders

import (
	"context"
	"errors"
	"fmt"

	"car-rental/internal/entities"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

var demoCars = []entities.Car{
	{Make: "Skoda", Model: "Octavia", Plate: "ZG1234AB", Year: 2021, HP: null.IntFrom(150), CC: null.IntFrom(1498), Colour: "white", Seats: null.IntFrom(5), Price: 45, Transmission: constants.TransmissionManual},
	{Make: "Volkswagen", Model: "Golf", Plate: "ZG5678CD", Year: 2020, HP: null.IntFrom(115), CC: null.IntFrom(999), Colour: "grey", Seats: null.IntFrom(5), Price: 40, Transmission: constants.TransmissionManual},
	{Make: "Toyota", Model: "Corolla", Plate: "ST9012EF", Year: 2022, HP: null.IntFrom(122), CC: null.IntFrom(1798), Colour: "blue", Seats: null.IntFrom(5), Price: 50, Transmission: constants.TransmissionAutomatic},
	{Make: "BMW", Model: "320d", Plate: "RI3456GH", Year: 2019, HP: null.IntFrom(190), CC: null.IntFrom(1995), Colour: "black", Seats: null.IntFrom(5), Price: 75, Transmission: constants.TransmissionAutomatic},
}

// SeedCars inserts the demo fleet. Plates that already exist are skipped.
func (s *Seeder) SeedCars(ctx context.Context) error {
	created := 0
	for i := range demoCars {
		car := demoCars[i]
		if _, err := s.carRepo.CreateCar(ctx, &car); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed car %s: %w", car.Plate, err)
		}
		created++
	}
	s.logger.Info("demo cars seeded", zap.Int("created", created), zap.Int("total", len(demoCars)))
	return nil
}
