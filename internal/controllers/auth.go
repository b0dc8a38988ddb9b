package controllers

import (
	"net/http"
	"time"

	"car-rental/internal/dto"
	"car-rental/internal/entities"
	"car-rental/internal/services"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/service"
	"car-rental/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService  services.AuthServiceInterface
	jwtSvc       service.JWTService
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	jwtSvc service.JWTService,
	cookieSecure bool,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService:  authService,
		jwtSvc:       jwtSvc,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("invalid login payload"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	user, err := ctrl.authService.Login(ctx, payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return ctrl.generateTokensAndRespond(c, user, "login successful")
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ctrl.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, nil, "logged out", http.StatusOK)
}

// RefreshToken issues a new pair from the refresh cookie. The role is re-read
// from storage so role changes take effect here.
func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	cookie, err := c.Cookie(constants.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return ctrl.errorResponse(c, apperrors.ErrTokenMissing)
	}

	claims, err := ctrl.jwtSvc.ValidateToken(cookie.Value)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	if !claims.IsRefreshToken {
		return ctrl.errorResponse(c, apperrors.ErrTokenInvalid.WithMessage("refresh token required"))
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	user, err := ctrl.authService.GetUserByID(ctx, claims.UserID())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return ctrl.generateTokensAndRespond(c, user, "tokens refreshed")
}

func (ctrl *AuthController) Me(c echo.Context) error {
	claims, err := utils.GetClaimsFromContext(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctx, cancel := utils.RequestCtx(c, utils.DefaultRequestTimeout)
	defer cancel()

	user, err := ctrl.authService.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, dto.UserToDTO(user), "profile", http.StatusOK)
}

func (ctrl *AuthController) generateTokensAndRespond(c echo.Context, user *entities.User, message string) error {
	accessToken, refreshToken, err := ctrl.jwtSvc.GenerateTokens(user.ID, user.FullName(), user.Role)
	if err != nil {
		return ctrl.errorResponse(c, apperrors.NewInfraError(err, map[string]interface{}{"userID": user.ID}))
	}

	c.SetCookie(&http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.jwtSvc.GetRefreshTokenTTL()),
		HttpOnly: true,
		Secure:   ctrl.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})

	return utils.SuccessResponse(c, dto.AuthResponseDTO{
		AccessToken: accessToken,
		Role:        user.Role.String(),
		User:        dto.UserToPublicDTO(user),
	}, message, http.StatusOK)
}
