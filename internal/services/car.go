package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"car-rental/config"
	"car-rental/internal/dto"
	"car-rental/internal/entities"
	"car-rental/internal/repositories"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/filestorage"
	"car-rental/pkg/types"
	"car-rental/pkg/validation"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

const (
	carCacheKeyPrefix = "car:"
	carListVersionKey = "cars:version"
)

type CarServiceInterface interface {
	GetCars(ctx context.Context, filter types.Filter) ([]dto.CarDTO, uint64, error)
	FindCar(ctx context.Context, id string) (*dto.CarDTO, error)
	CreateCar(ctx context.Context, payload dto.CreateCarDTO) (*dto.CarDTO, error)
	UpdateCar(ctx context.Context, id string, payload dto.UpdateCarDTO) (*dto.CarDTO, error)
	DeleteCar(ctx context.Context, id string) error
	UploadPicture(ctx context.Context, id string, fileHeader *multipart.FileHeader) (*dto.CarDTO, error)
}

type CarService struct {
	carRepo     repositories.CarRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewCarService(
	carRepo repositories.CarRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) CarServiceInterface {
	return &CarService{
		carRepo:     carRepo,
		cacheRepo:   cacheRepo,
		fileStorage: fileStorage,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

type cachedCarList struct {
	Cars  []dto.CarDTO `json:"cars"`
	Total uint64       `json:"total"`
}

// listCacheKey changes whenever a car is written, so stale lists are never read.
func (s *CarService) listCacheKey(ctx context.Context, filter types.Filter) string {
	version, err := s.cacheRepo.Get(ctx, carListVersionKey)
	if err != nil {
		version = "0"
	}

	parts := []string{filter.Search, fmt.Sprint(filter.Limit, ":", filter.Offset, ":", filter.WithPagination)}
	for _, m := range []map[string]string{filter.Sort, stringify(filter.Filter)} {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+"="+m[k])
		}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return "cars:list:" + version + ":" + hex.EncodeToString(sum[:8])
}

func stringify(m map[string]interface{}) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func (s *CarService) readCache(ctx context.Context, key string, dst interface{}) bool {
	raw, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("car cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("car cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *CarService) writeCache(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cacheRepo.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("car cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CarService) invalidate(ctx context.Context, id string) {
	if err := s.cacheRepo.Del(ctx, carCacheKeyPrefix+id); err != nil {
		s.logger.Warn("car cache invalidation failed", zap.String("carID", id), zap.Error(err))
	}
	if _, err := s.cacheRepo.Incr(ctx, carListVersionKey); err != nil {
		s.logger.Warn("car list version bump failed", zap.Error(err))
	}
}

func (s *CarService) GetCars(ctx context.Context, filter types.Filter) ([]dto.CarDTO, uint64, error) {
	key := s.listCacheKey(ctx, filter)
	var cached cachedCarList
	if s.readCache(ctx, key, &cached) {
		return cached.Cars, cached.Total, nil
	}

	cars, total, err := s.carRepo.GetCars(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CarDTO, 0, len(cars))
	for i := range cars {
		out = append(out, dto.CarToDTO(&cars[i]))
	}

	s.writeCache(ctx, key, cachedCarList{Cars: out, Total: total})
	return out, total, nil
}

func (s *CarService) FindCar(ctx context.Context, id string) (*dto.CarDTO, error) {
	var cached dto.CarDTO
	if s.readCache(ctx, carCacheKeyPrefix+id, &cached) {
		return &cached, nil
	}

	car, err := s.carRepo.FindCar(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.CarToDTO(car)
	s.writeCache(ctx, carCacheKeyPrefix+id, out)
	return &out, nil
}

func (s *CarService) CreateCar(ctx context.Context, payload dto.CreateCarDTO) (*dto.CarDTO, error) {
	car := &entities.Car{
		Make:         strings.TrimSpace(payload.Make),
		Model:        strings.TrimSpace(payload.Model),
		Plate:        validation.NormalizePlate(payload.Plate),
		Year:         payload.Year,
		HP:           payload.HP,
		CC:           payload.CC,
		Colour:       payload.Colour,
		Seats:        payload.Seats,
		Price:        payload.Price,
		Transmission: payload.Transmission,
		Description:  payload.Description,
	}
	created, err := s.carRepo.CreateCar(ctx, car)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, created.ID)
	s.logger.Info("car created", zap.String("carID", created.ID), zap.String("plate", created.Plate))

	out := dto.CarToDTO(created)
	return &out, nil
}

func (s *CarService) UpdateCar(ctx context.Context, id string, payload dto.UpdateCarDTO) (*dto.CarDTO, error) {
	car, err := s.carRepo.FindCar(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Make.Valid {
		car.Make = strings.TrimSpace(payload.Make.String)
	}
	if payload.Model.Valid {
		car.Model = strings.TrimSpace(payload.Model.String)
	}
	if payload.Plate.Valid {
		car.Plate = validation.NormalizePlate(payload.Plate.String)
	}
	if payload.Year.Valid {
		car.Year = payload.Year.Int
	}
	if payload.HP.Valid {
		car.HP = payload.HP
	}
	if payload.CC.Valid {
		car.CC = payload.CC
	}
	if payload.Colour.Valid {
		car.Colour = payload.Colour.String
	}
	if payload.Seats.Valid {
		car.Seats = payload.Seats
	}
	if payload.Price.Valid {
		car.Price = payload.Price.Float64
	}
	if payload.Transmission.Valid {
		car.Transmission = payload.Transmission.String
	}
	if payload.Description.Valid {
		car.Description = payload.Description
	}

	updated, err := s.carRepo.UpdateCar(ctx, car)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	out := dto.CarToDTO(updated)
	return &out, nil
}

func (s *CarService) DeleteCar(ctx context.Context, id string) error {
	car, err := s.carRepo.FindCar(ctx, id)
	if err != nil {
		return err
	}
	if err := s.carRepo.DeleteCar(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	if car.Picture.Valid {
		if err := s.fileStorage.Delete(car.Picture.String); err != nil {
			s.logger.Warn("car picture not removed", zap.String("carID", id), zap.Error(err))
		}
	}
	s.logger.Info("car deleted", zap.String("carID", id))
	return nil
}

func (s *CarService) UploadPicture(ctx context.Context, id string, fileHeader *multipart.FileHeader) (*dto.CarDTO, error) {
	car, err := s.carRepo.FindCar(ctx, id)
	if err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewBadRequestError("could not open uploaded file")
	}
	defer src.Close()

	if err := validation.ValidateFile(fileHeader, src, constants.UploadContextCarPicture); err != nil {
		return nil, err
	}

	rules := config.UploadContexts[constants.UploadContextCarPicture.String()]
	rel, err := s.fileStorage.Save(src, fileHeader.Filename, rules.PathPrefix)
	if err != nil {
		return nil, apperrors.NewInfraError(err, map[string]interface{}{"carID": id})
	}
	publicPath := filestorage.PublicPrefix + rel

	if err := s.carRepo.UpdatePicture(ctx, id, publicPath); err != nil {
		_ = s.fileStorage.Delete(publicPath)
		return nil, err
	}
	if car.Picture.Valid {
		if err := s.fileStorage.Delete(car.Picture.String); err != nil {
			s.logger.Warn("old car picture not removed", zap.String("carID", id), zap.Error(err))
		}
	}
	s.invalidate(ctx, id)

	car.Picture = null.StringFrom(publicPath)
	out := dto.CarToDTO(car)
	return &out, nil
}
