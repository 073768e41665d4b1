package router

import (
	"github.com/labstack/echo/v4"

	"carbazaar/internal/adapter/api/handler"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler) {
	users := e.Group("/users")

	users.GET("/isExists", userHandler.IsExists)
	users.POST("/signup", userHandler.Signup)
	users.PUT("/update", userHandler.Update)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id/likes/:carId", userHandler.LikeCar)
	users.DELETE("/:id/likes/:carId", userHandler.UnlikeCar)
}
