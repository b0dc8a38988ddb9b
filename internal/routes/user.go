package routes

import (
	"car-rental/internal/authz"
	"car-rental/internal/controllers"
	"car-rental/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runUserRouter(api *echo.Group, userCtrl *controllers.UserController, authMW *middleware.AuthMiddleware, owners authz.OwnerResolver) {
	users := api.Group("/users")

	users.POST("/register", userCtrl.Register)

	adminOnly := []echo.MiddlewareFunc{authMW.Auth, authMW.RequireRole(authz.AdminOnly), middleware.Authorized}
	users.GET("", userCtrl.GetUsers, adminOnly...)
	users.POST("", userCtrl.CreateUser, adminOnly...)

	ownProfile := []echo.MiddlewareFunc{
		authMW.Auth,
		authMW.RequireRole(authz.AnyRole),
		authMW.RequireOwnership(owners, middleware.FromParam("id")),
		middleware.Authorized,
	}
	users.GET("/:id", userCtrl.FindUser, ownProfile...)
	users.PUT("/:id", userCtrl.UpdateUser, ownProfile...)
	users.DELETE("/:id", userCtrl.DeleteUser, ownProfile...)
}
