package router

import (
	"github.com/labstack/echo/v4"

	"carbazaar/internal/adapter/api/handler"
)

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, guards Guards) {
	e.GET("/ws", wsHandler.HandleWebSocket, guards.optional()...)
}
