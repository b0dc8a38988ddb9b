package routes

import (
	"strings"

	"car-rental/internal/authz"
	"car-rental/internal/controllers"
	"car-rental/internal/services"
	"car-rental/pkg/config"
	"car-rental/pkg/filestorage"
	"car-rental/pkg/middleware"
	"car-rental/pkg/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Dependencies is everything the router needs. main wires the concrete
// implementations; tests may leave services nil for routes they never reach.
type Dependencies struct {
	AuthService services.AuthServiceInterface
	UserService services.UserServiceInterface
	CarService  services.CarServiceInterface
	RentService services.RentServiceInterface

	UserOwners authz.OwnerResolver
	RentOwners authz.OwnerResolver

	JWT    service.JWTService
	Config *config.Config
	Logger *zap.Logger
}

func InitRouter(e *echo.Echo, deps Dependencies) {
	logger := deps.Logger
	logger.Info("InitRouter: registering routes")

	authMW := middleware.NewAuthMiddleware(deps.JWT, authz.NewGatekeeper(logger.Named("authz")), logger.Named("auth"))
	api := e.Group("/api")

	authCtrl := controllers.NewAuthController(deps.AuthService, deps.JWT, deps.Config.Server.CookieSecure, logger.Named("auth"))
	userCtrl := controllers.NewUserController(deps.UserService, logger.Named("user"))
	carCtrl := controllers.NewCarController(deps.CarService, logger.Named("car"))
	rentCtrl := controllers.NewRentController(deps.RentService, logger.Named("rent"))

	runAuthRouter(api, authCtrl, authMW, deps.Config.Auth)
	runUserRouter(api, userCtrl, authMW, deps.UserOwners)
	runCarRouter(api, carCtrl, authMW)
	runRentRouter(api, rentCtrl, authMW, deps.RentOwners)

	e.Static(strings.TrimSuffix(filestorage.PublicPrefix, "/"), deps.Config.Upload.Dir)

	logger.Info("InitRouter: routes registered")
}
