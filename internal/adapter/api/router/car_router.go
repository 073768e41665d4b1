package router

import (
	"github.com/labstack/echo/v4"

	"carbazaar/internal/adapter/api/handler"
)

func SetupCarRouter(e *echo.Echo, carHandler *handler.CarHandler, guards Guards) {
	cars := e.Group("/cars")

	cars.GET("", carHandler.GetAllCars)
	cars.POST("", carHandler.SearchCars)
	cars.POST("/getMyCars", carHandler.GetMyCars)
	cars.POST("/post", carHandler.PostCar)
	cars.POST("/images", carHandler.UploadImages)
	cars.GET("/:id", carHandler.GetCar)

	// Admin panel
	cars.GET("/admin", carHandler.ModerationQueue, guards.admin()...)
	cars.PUT("/:id/status", carHandler.UpdateStatus, guards.admin()...)
}
