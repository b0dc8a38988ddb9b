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

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(userService services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

func (ctrl *UserController) Register(c echo.Context) error {
	var payload dto.RegisterUserDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("invalid user payload"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.userService.Register(ctx, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "user registered", http.StatusCreated)
}

func (ctrl *UserController) CreateUser(c echo.Context) error {
	var payload dto.CreateUserDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("invalid user payload"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.userService.CreateUser(ctx, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "user created", http.StatusCreated)
}

func (ctrl *UserController) GetUsers(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, total, err := ctrl.userService.GetUsers(ctx, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "users", http.StatusOK, total)
}

func (ctrl *UserController) FindUser(c echo.Context) error {
	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.userService.FindUser(ctx, c.Param("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "user", http.StatusOK)
}

func (ctrl *UserController) UpdateUser(c echo.Context) error {
	var payload dto.UpdateUserDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("invalid user payload"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	res, err := ctrl.userService.UpdateUser(ctx, c.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "user updated", http.StatusOK)
}

func (ctrl *UserController) DeleteUser(c echo.Context) error {
	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	if err := ctrl.userService.DeleteUser(ctx, c.Param("id")); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "user deleted", http.StatusOK)
}
