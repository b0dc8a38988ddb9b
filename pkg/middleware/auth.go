package middleware

import (
	"context"
	"strings"

	"car-rental/internal/authz"
	"car-rental/internal/dto"
	"car-rental/pkg/contextkeys"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/service"
	"car-rental/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	gatekeeper *authz.Gatekeeper
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, gatekeeper *authz.Gatekeeper, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		gatekeeper: gatekeeper,
		logger:     logger,
	}
}

// Auth verifies the bearer token and stores the claims in the request context.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		setStage(c, authz.StageUnauthenticated)

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if strings.TrimSpace(authHeader) == "" {
			return m.reject(c, apperrors.ErrTokenMissing)
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return m.reject(c, apperrors.ErrTokenInvalid.With(nil, map[string]interface{}{"header": "malformed"}))
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			return m.reject(c, err)
		}

		if claims.IsRefreshToken {
			return m.reject(c, apperrors.ErrTokenInvalid.With(nil, map[string]interface{}{"userID": claims.UserID(), "token": "refresh"}))
		}

		ctx := utils.WithClaims(c.Request().Context(), &dto.UserClaims{
			UserID: claims.UserID(),
			Name:   claims.Name,
			Role:   claims.Role,
		})
		c.SetRequest(c.Request().WithContext(ctx))
		setStage(c, authz.StageTokenVerified)

		return next(c)
	}
}

// RequireRole rejects callers whose role is not in the policy.
func (m *AuthMiddleware) RequireRole(policy authz.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := utils.GetClaimsFromContext(c.Request().Context())
			if err != nil {
				return m.reject(c, err)
			}
			if err := m.gatekeeper.CheckRole(actorOf(claims), policy); err != nil {
				return m.reject(c, err)
			}
			setStage(c, authz.StageRoleChecked)
			return next(c)
		}
	}
}

// RequireOwnership admits the resource owner and admins. The resource id is
// taken from the declared source and kept in the context for the handler.
func (m *AuthMiddleware) RequireOwnership(resolver authz.OwnerResolver, source IDSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := utils.GetClaimsFromContext(c.Request().Context())
			if err != nil {
				return m.reject(c, err)
			}

			resourceID, err := source.Extract(c)
			if err != nil {
				return m.reject(c, err)
			}

			if err := m.gatekeeper.CheckOwnership(c.Request().Context(), actorOf(claims), resourceID, resolver); err != nil {
				return m.reject(c, err)
			}

			ctx := context.WithValue(c.Request().Context(), contextkeys.ResourceIDKey, resourceID)
			c.SetRequest(c.Request().WithContext(ctx))
			setStage(c, authz.StageOwnershipChecked)
			return next(c)
		}
	}
}

func (m *AuthMiddleware) reject(c echo.Context, err error) error {
	m.logger.Info("request rejected",
		zap.String("stage", string(StageOf(c))),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	setStage(c, authz.StageRejected)
	return utils.ErrorResponse(c, err, m.logger)
}

func actorOf(claims *dto.UserClaims) authz.Actor {
	return authz.Actor{ID: claims.UserID, Role: claims.Role}
}

func setStage(c echo.Context, stage authz.Stage) {
	c.Set(string(contextkeys.AuthStageKey), stage)
}

// StageOf reports the last authorization stage the request reached.
func StageOf(c echo.Context) authz.Stage {
	if s, ok := c.Get(string(contextkeys.AuthStageKey)).(authz.Stage); ok {
		return s
	}
	return authz.StageUnauthenticated
}

// Authorized marks the end of the chain; handlers are reached only after it.
func Authorized(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		setStage(c, authz.StageAuthorized)
		return next(c)
	}
}
