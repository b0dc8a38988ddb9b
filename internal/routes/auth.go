package routes

import (
	"time"

	"car-rental/internal/authz"
	"car-rental/internal/controllers"
	"car-rental/pkg/config"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// loginRateLimiter throttles login per client IP, on top of the per-account lockout.
func loginRateLimiter(cfg config.AuthConfig) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.LoginRatePerSecond),
		Burst:     cfg.LoginRateBurst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(apperrors.ErrTooManyAttempts.Code, map[string]interface{}{
				"status":  false,
				"message": apperrors.ErrTooManyAttempts.Message,
				"code":    apperrors.ErrTooManyAttempts.Reason,
			})
		},
	})
}

func runAuthRouter(api *echo.Group, authCtrl *controllers.AuthController, authMW *middleware.AuthMiddleware, cfg config.AuthConfig) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login, loginRateLimiter(cfg))
		authGroup.POST("/refresh", authCtrl.RefreshToken)
		authGroup.POST("/logout", authCtrl.Logout)
		authGroup.GET("/me", authCtrl.Me, authMW.Auth, authMW.RequireRole(authz.AnyRole), middleware.Authorized)
	}
}
