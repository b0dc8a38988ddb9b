package controllers

import (
	"fmt"
	"net/http"
	"time"

	"car-rental/internal/dto"
	"car-rental/internal/services"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RentController struct {
	rentService services.RentServiceInterface
	logger      *zap.Logger
}

func NewRentController(rentService services.RentServiceInterface, logger *zap.Logger) *RentController {
	return &RentController{rentService: rentService, logger: logger}
}

func (ctrl *RentController) GetRents(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, total, err := ctrl.rentService.GetRents(ctx, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "rents", http.StatusOK, total)
}

func (ctrl *RentController) GetMyRents(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, total, err := ctrl.rentService.GetMyRents(ctx, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "rents", http.StatusOK, total)
}

func (ctrl *RentController) FindRent(c echo.Context) error {
	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.rentService.FindRent(ctx, c.Param("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "rent", http.StatusOK)
}

func (ctrl *RentController) CreateRent(c echo.Context) error {
	var payload dto.CreateRentDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("invalid rent payload"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.rentService.CreateRent(ctx, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "rent created", http.StatusCreated)
}

func (ctrl *RentController) ReturnRent(c echo.Context) error {
	var payload dto.ReturnRentDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("invalid return payload"), ctrl.logger)
	}
	if id, ok := utils.ResourceIDFromContext(c.Request().Context()); ok {
		payload.RentID = id
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.rentService.ReturnRent(ctx, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "rent returned", http.StatusOK)
}

func (ctrl *RentController) UpdateRent(c echo.Context) error {
	var payload dto.UpdateRentDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("invalid rent payload"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.rentService.UpdateRent(ctx, c.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "rent updated", http.StatusOK)
}

func (ctrl *RentController) DeleteRent(c echo.Context) error {
	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	if err := ctrl.rentService.DeleteRent(ctx, c.Param("id")); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "rent deleted", http.StatusOK)
}

func (ctrl *RentController) ExportRents(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())

	ctx, cancel := utils.RequestCtx(c, time.Minute)
	defer cancel()

	buf, err := ctrl.rentService.ExportRents(ctx, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	fileName := fmt.Sprintf("rents_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
