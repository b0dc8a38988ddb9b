package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"car-rental/internal/dto"
	"car-rental/internal/entities"
	"car-rental/internal/events"
	"car-rental/internal/repositories"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/eventbus"
	"car-rental/pkg/types"
	"car-rental/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type RentServiceInterface interface {
	GetRents(ctx context.Context, filter types.Filter) ([]dto.RentDTO, uint64, error)
	GetMyRents(ctx context.Context, filter types.Filter) ([]dto.RentDTO, uint64, error)
	FindRent(ctx context.Context, id string) (*dto.RentDTO, error)
	CreateRent(ctx context.Context, payload dto.CreateRentDTO) (*dto.RentDTO, error)
	ReturnRent(ctx context.Context, payload dto.ReturnRentDTO) (*dto.RentDTO, error)
	UpdateRent(ctx context.Context, id string, payload dto.UpdateRentDTO) (*dto.RentDTO, error)
	DeleteRent(ctx context.Context, id string) error
	ExportRents(ctx context.Context, filter types.Filter) (*bytes.Buffer, error)
}

type RentService struct {
	txManager repositories.TxManagerInterface
	rentRepo  repositories.RentRepositoryInterface
	carRepo   repositories.CarRepositoryInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
	now       func() time.Time
}

func NewRentService(
	txManager repositories.TxManagerInterface,
	rentRepo repositories.RentRepositoryInterface,
	carRepo repositories.CarRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) RentServiceInterface {
	return &RentService{
		txManager: txManager,
		rentRepo:  rentRepo,
		carRepo:   carRepo,
		bus:       bus,
		logger:    logger,
		now:       time.Now,
	}
}

func rentsToDTO(rents []entities.Rent) []dto.RentDTO {
	out := make([]dto.RentDTO, 0, len(rents))
	for i := range rents {
		out = append(out, dto.RentToDTO(&rents[i]))
	}
	return out
}

func (s *RentService) GetRents(ctx context.Context, filter types.Filter) ([]dto.RentDTO, uint64, error) {
	rents, total, err := s.rentRepo.GetRents(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return rentsToDTO(rents), total, nil
}

// GetMyRents lists the caller's rents regardless of any user_id filter sent.
func (s *RentService) GetMyRents(ctx context.Context, filter types.Filter) ([]dto.RentDTO, uint64, error) {
	claims, err := utils.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	if filter.Filter == nil {
		filter.Filter = make(map[string]interface{})
	}
	filter.Filter["user_id"] = claims.UserID
	return s.GetRents(ctx, filter)
}

func (s *RentService) FindRent(ctx context.Context, id string) (*dto.RentDTO, error) {
	rent, err := s.rentRepo.FindRent(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.RentToDTO(rent)
	return &out, nil
}

// CreateRent locks the car row so two concurrent rents of one car cannot both succeed.
func (s *RentService) CreateRent(ctx context.Context, payload dto.CreateRentDTO) (*dto.RentDTO, error) {
	claims, err := utils.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ownerID := claims.UserID
	if payload.UserID.Valid && payload.UserID.String != claims.UserID {
		if !claims.IsAdmin() {
			return nil, apperrors.ErrRoleMismatch.With(nil, map[string]interface{}{
				"userID": claims.UserID,
				"action": "rent-for-other-user",
			})
		}
		ownerID = payload.UserID.String
	}

	dateIn := s.now()
	if payload.DateIn.Valid {
		dateIn = payload.DateIn.Time
	}

	var (
		created *entities.Rent
		car     *entities.Car
	)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		car, err = s.carRepo.FindCarForUpdate(ctx, tx, payload.CarID)
		if err != nil {
			return err
		}

		active, err := s.rentRepo.HasActiveRent(ctx, tx, car.ID)
		if err != nil {
			return err
		}
		if active {
			return apperrors.NewConflictError("car is already rented")
		}

		created, err = s.rentRepo.CreateRent(ctx, tx, &entities.Rent{
			CarID:  car.ID,
			UserID: ownerID,
			DateIn: dateIn,
			Status: constants.RentStatusActive,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("rent created",
		zap.String("rentID", created.ID),
		zap.String("carID", created.CarID),
		zap.String("userID", created.UserID),
	)
	s.bus.Publish(ctx, events.RentCreatedEvent{
		RentID: created.ID,
		UserID: created.UserID,
		CarID:  created.CarID,
		Car:    fmt.Sprintf("%s %s (%s)", car.Make, car.Model, car.Plate),
		DateIn: created.DateIn,
	})

	out := dto.RentToDTO(created)
	return &out, nil
}

// ReturnRent closes an active rent and bills it by started day.
func (s *RentService) ReturnRent(ctx context.Context, payload dto.ReturnRentDTO) (*dto.RentDTO, error) {
	var updated *entities.Rent
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		rent, err := s.rentRepo.FindRentForUpdate(ctx, tx, payload.RentID)
		if err != nil {
			return err
		}
		if !rent.IsActive() {
			return apperrors.NewConflictError("rent is not active").With(nil, map[string]interface{}{
				"rentID": rent.ID,
				"status": rent.Status.String(),
			})
		}

		car, err := s.carRepo.FindCar(ctx, rent.CarID)
		if err != nil {
			return err
		}

		dateOut := s.now()
		rent.DateOut = null.TimeFrom(dateOut)
		rent.Price = null.Float64From(entities.ChargeFor(rent.DateIn, dateOut, car.Price))
		rent.Status = constants.RentStatusReturned

		updated, err = s.rentRepo.UpdateRent(ctx, tx, rent)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("rent returned", zap.String("rentID", updated.ID), zap.Float64("price", updated.Price.Float64))
	out := dto.RentToDTO(updated)
	return &out, nil
}

func (s *RentService) UpdateRent(ctx context.Context, id string, payload dto.UpdateRentDTO) (*dto.RentDTO, error) {
	var updated *entities.Rent
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		rent, err := s.rentRepo.FindRentForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if payload.UserID.Valid {
			rent.UserID = payload.UserID.String
		}
		if payload.DateIn.Valid {
			rent.DateIn = payload.DateIn.Time
		}
		if payload.DateOut.Valid {
			rent.DateOut = payload.DateOut
		}
		if payload.Price.Valid {
			rent.Price = payload.Price
		}
		if payload.Status.Valid {
			status := constants.RentStatus(payload.Status.Int)
			if !status.Valid() {
				return apperrors.NewBadRequestError("unknown rent status")
			}
			if status == constants.RentStatusActive && !rent.IsActive() {
				active, err := s.rentRepo.HasActiveRent(ctx, tx, rent.CarID)
				if err != nil {
					return err
				}
				if active {
					return apperrors.NewConflictError("car is already rented")
				}
			}
			rent.Status = status
		}
		if rent.DateOut.Valid && rent.DateOut.Time.Before(rent.DateIn) {
			return apperrors.NewBadRequestError("date_out is before date_in")
		}

		updated, err = s.rentRepo.UpdateRent(ctx, tx, rent)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := dto.RentToDTO(updated)
	return &out, nil
}

func (s *RentService) DeleteRent(ctx context.Context, id string) error {
	if err := s.rentRepo.DeleteRent(ctx, id); err != nil {
		return err
	}
	s.logger.Info("rent deleted", zap.String("rentID", id))
	return nil
}

var rentExportHeaders = []string{"ID", "Car", "User", "Date in", "Date out", "Price", "Status"}

// ExportRents renders the filtered rents as an XLSX workbook.
func (s *RentService) ExportRents(ctx context.Context, filter types.Filter) (*bytes.Buffer, error) {
	filter.WithPagination = false
	rents, _, err := s.rentRepo.GetRents(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Rents"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, apperrors.NewInfraError(err, nil)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, apperrors.NewInfraError(err, nil)
	}
	for i, h := range rentExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	_ = f.SetRowStyle(sheet, 1, 1, style)

	for i := range rents {
		r := &rents[i]
		row := []interface{}{r.ID, r.CarID, r.UserID, r.DateIn.Format(time.DateTime), "", "", r.Status.String()}
		if r.DateOut.Valid {
			row[4] = r.DateOut.Time.Format(time.DateTime)
		}
		if r.Price.Valid {
			row[5] = r.Price.Float64
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, apperrors.NewInfraError(err, nil)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewInfraError(err, nil)
	}
	s.logger.Info("rents exported", zap.Int("rows", len(rents)))
	return buf, nil
}
