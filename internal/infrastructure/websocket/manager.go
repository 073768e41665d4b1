package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"carbazaar/internal/domain/entity"
	"carbazaar/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32

	EventChatUpdated = "chat_updated"
)

// Client is one open connection. A user may hold several, one per tab.
type Client struct {
	UserID string
	Role   string
	Conn   *websocket.Conn
	Send   chan []byte
}

func NewClient(userID, role string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Role:   role,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
	}
}

// Event is the payload pushed to clients.
type Event struct {
	Type string       `json:"type"`
	Chat *entity.Chat `json:"chat,omitempty"`
}

type delivery struct {
	userID  string
	role    string
	payload []byte
}

// Manager tracks open connections. All client bookkeeping and every write to
// a Send channel happen on the Start goroutine.
type Manager struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	deliveries chan delivery
	// done is closed when the loop exits so senders never block on it.
	done chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan delivery, 256),
		done:       make(chan struct{}),
	}
}

// Start runs the manager loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		for {
			select {
			case client := <-m.register:
				m.clients[client] = struct{}{}
				logger.Debug("Websocket client registered: %s (%s)", client.UserID, client.Role)

			case client := <-m.unregister:
				m.remove(client)

			case d := <-m.deliveries:
				for client := range m.clients {
					if (d.userID != "" && client.UserID == d.userID) || (d.role != "" && client.Role == d.role) {
						select {
						case client.Send <- d.payload:
						default:
							logger.Warn("Websocket client %s is not reading, dropping it", client.UserID)
							m.remove(client)
						}
					}
				}

			case <-ctx.Done():
				for client := range m.clients {
					m.remove(client)
				}
				return
			}
		}
	}()
}

// Register adds client. It reports false once the manager has stopped.
func (m *Manager) Register(client *Client) bool {
	select {
	case m.register <- client:
		return true
	case <-m.done:
		return false
	}
}

// Unregister removes client and closes its Send channel. After shutdown
// every client has already been removed, so it returns at once.
func (m *Manager) Unregister(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

func (m *Manager) remove(client *Client) {
	if _, ok := m.clients[client]; ok {
		delete(m.clients, client)
		close(client.Send)
		logger.Debug("Websocket client unregistered: %s", client.UserID)
	}
}

func (m *Manager) enqueue(d delivery) {
	select {
	case m.deliveries <- d:
	default:
		logger.Warn("Websocket delivery queue full, dropping event")
	}
}

// SendToUser pushes payload to every connection of userID.
func (m *Manager) SendToUser(userID string, payload []byte) {
	m.enqueue(delivery{userID: userID, payload: payload})
}

// SendToRole pushes payload to every connection opened with role.
func (m *Manager) SendToRole(role string, payload []byte) {
	m.enqueue(delivery{role: role, payload: payload})
}

// NotifyChatUpdated tells the chat's user and all connected admins that the
// chat changed. A user connection that is itself an admin gets it once.
func (m *Manager) NotifyChatUpdated(chat *entity.Chat) {
	payload, err := json.Marshal(Event{Type: EventChatUpdated, Chat: chat})
	if err != nil {
		logger.Error("Failed to encode chat event: %v", err)
		return
	}
	m.enqueue(delivery{userID: chat.UserID, role: entity.RoleAdmin, payload: payload})
}

// ReadPump drains the connection so control frames are processed. Clients
// only receive events, so incoming data frames are discarded.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Websocket read error for %s: %v", c.UserID, err)
			}
			return
		}
	}
}

// WritePump writes queued events and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("Websocket write error for %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
