package router

import (
	"github.com/labstack/echo/v4"

	"carbazaar/internal/adapter/api/handler"
	"carbazaar/internal/adapter/api/middleware"
)

type Handlers struct {
	Car       *handler.CarHandler
	User      *handler.UserHandler
	Chat      *handler.ChatHandler
	WebSocket *handler.WebSocketHandler
	Health    *handler.HealthHandler
}

// Guards protects admin routes. With a nil Auth the routes are open, which
// is how the service runs when AUTH_ENABLED is false.
type Guards struct {
	Auth  *middleware.AuthMiddleware
	Admin *middleware.AdminMiddleware
}

func (g Guards) admin() []echo.MiddlewareFunc {
	if g.Auth == nil || g.Admin == nil {
		return nil
	}
	return []echo.MiddlewareFunc{g.Auth.Authenticate, g.Admin.AdminOnly}
}

func (g Guards) optional() []echo.MiddlewareFunc {
	if g.Auth == nil {
		return nil
	}
	return []echo.MiddlewareFunc{g.Auth.Optional}
}

func Setup(e *echo.Echo, h Handlers, guards Guards) {
	SetupHealthRouter(e, h.Health)
	SetupCarRouter(e, h.Car, guards)
	SetupUserRouter(e, h.User)
	SetupChatRouter(e, h.Chat, guards)
	SetupWebSocketRouter(e, h.WebSocket, guards)
}
