package routes

import (
	"car-rental/internal/authz"
	"car-rental/internal/controllers"
	"car-rental/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runRentRouter(api *echo.Group, rentCtrl *controllers.RentController, authMW *middleware.AuthMiddleware, owners authz.OwnerResolver) {
	rents := api.Group("/rents")

	adminOnly := []echo.MiddlewareFunc{authMW.Auth, authMW.RequireRole(authz.AdminOnly), middleware.Authorized}
	anyRole := []echo.MiddlewareFunc{authMW.Auth, authMW.RequireRole(authz.AnyRole), middleware.Authorized}

	rents.GET("", rentCtrl.GetRents, adminOnly...)
	rents.GET("/export", rentCtrl.ExportRents, adminOnly...)
	rents.GET("/mine", rentCtrl.GetMyRents, anyRole...)
	rents.POST("", rentCtrl.CreateRent, anyRole...)

	rents.GET("/:id", rentCtrl.FindRent,
		authMW.Auth,
		authMW.RequireRole(authz.AnyRole),
		authMW.RequireOwnership(owners, middleware.FromParam("id")),
		middleware.Authorized,
	)
	rents.POST("/return", rentCtrl.ReturnRent,
		authMW.Auth,
		authMW.RequireRole(authz.AnyRole),
		authMW.RequireOwnership(owners, middleware.FromBody("rent_id")),
		middleware.Authorized,
	)

	rents.PUT("/:id", rentCtrl.UpdateRent, adminOnly...)
	rents.DELETE("/:id", rentCtrl.DeleteRent, adminOnly...)
}
