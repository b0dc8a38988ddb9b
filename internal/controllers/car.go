package controllers

import (
	"net/http"

	"car-rental/internal/dto"
	"car-rental/internal/services"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CarController struct {
	carService services.CarServiceInterface
	logger     *zap.Logger
}

func NewCarController(carService services.CarServiceInterface, logger *zap.Logger) *CarController {
	return &CarController{carService: carService, logger: logger}
}

func (ctrl *CarController) GetCars(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, total, err := ctrl.carService.GetCars(ctx, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "cars", http.StatusOK, total)
}

func (ctrl *CarController) FindCar(c echo.Context) error {
	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.carService.FindCar(ctx, c.Param("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "car", http.StatusOK)
}

func (ctrl *CarController) CreateCar(c echo.Context) error {
	var payload dto.CreateCarDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("invalid car payload"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.carService.CreateCar(ctx, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "car created", http.StatusCreated)
}

func (ctrl *CarController) UpdateCar(c echo.Context) error {
	var payload dto.UpdateCarDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("invalid car payload"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.carService.UpdateCar(ctx, c.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "car updated", http.StatusOK)
}

func (ctrl *CarController) DeleteCar(c echo.Context) error {
	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	if err := ctrl.carService.DeleteCar(ctx, c.Param("id")); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "car deleted", http.StatusOK)
}

func (ctrl *CarController) UploadPicture(c echo.Context) error {
	file, err := c.FormFile("picture")
	if err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("picture file is required"), ctrl.logger)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.carService.UploadPicture(ctx, c.Param("id"), file)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "picture uploaded", http.StatusOK)
}
