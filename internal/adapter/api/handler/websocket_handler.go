package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"carbazaar/internal/domain/entity"
	ws "carbazaar/internal/infrastructure/websocket"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/response"
)

// AdminChecker decides whether an authenticated caller is an admin.
type AdminChecker interface {
	IsAdmin(ctx context.Context, uid, claimRole string) (bool, error)
}

type WebSocketHandler struct {
	wsManager *ws.Manager
	// admins is nil when authentication is disabled; connections are then
	// trusted to name their own user and role.
	admins AdminChecker
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, admins AdminChecker) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		admins:    admins,
	}
}

// HandleWebSocket handles GET /ws?userId=&role=. Clients receive a
// chat_updated event whenever one of their chats changes.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID := c.QueryParam("userId")
	role := c.QueryParam("role")
	if role == "" {
		role = entity.RoleUser
	}

	if userID == "" {
		return response.Error(c, errors.BadRequest("userId is required", nil))
	}
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return response.Error(c, errors.BadRequest("role must be user or admin", nil))
	}
	if h.admins != nil {
		if err := h.authorize(c, userID, role); err != nil {
			return response.Error(c, err)
		}
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(userID, role, conn)
	if !h.wsManager.Register(client) {
		conn.Close()
		return nil
	}

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}

// authorize ties the subscription to the verified caller: the uid must match
// userId, and admin subscriptions need the same check as admin routes.
func (h *WebSocketHandler) authorize(c echo.Context, userID, role string) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return errors.Unauthorized("Authentication required", nil)
	}
	if uid != userID {
		return errors.Forbidden("Cannot subscribe as another user", nil)
	}
	if role != entity.RoleAdmin {
		return nil
	}

	claimRole, _ := c.Get("role").(string)
	admin, err := h.admins.IsAdmin(c.Request().Context(), uid, claimRole)
	if err != nil {
		return errors.Internal("Failed to verify admin privileges", err)
	}
	if !admin {
		return errors.Forbidden("Admin privileges required", nil)
	}
	return nil
}
