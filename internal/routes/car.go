package routes

import (
	"car-rental/internal/authz"
	"car-rental/internal/controllers"
	"car-rental/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runCarRouter(api *echo.Group, carCtrl *controllers.CarController, authMW *middleware.AuthMiddleware) {
	cars := api.Group("/cars")

	cars.GET("", carCtrl.GetCars)
	cars.GET("/:id", carCtrl.FindCar)

	adminOnly := []echo.MiddlewareFunc{authMW.Auth, authMW.RequireRole(authz.AdminOnly), middleware.Authorized}
	cars.POST("", carCtrl.CreateCar, adminOnly...)
	cars.PUT("/:id", carCtrl.UpdateCar, adminOnly...)
	cars.DELETE("/:id", carCtrl.DeleteCar, adminOnly...)
	cars.POST("/:id/picture", carCtrl.UploadPicture, adminOnly...)
}
