package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"ofertas/internal/domain/entity"

	"github.com/gorilla/websocket"
)

// Client is one live WebSocket connection with its authenticated principal.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	user *entity.User
}

func newClient(hub *Hub, conn *websocket.Conn, user *entity.User) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		user: user,
	}
}

// Emit queues an event to this connection only. A full buffer drops the
// event instead of blocking the caller.
func (c *Client) Emit(eventType string, payload any) {
	data, err := marshalEvent(eventType, payload)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) readPump(h *Handler) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Debug("ws read error", slog.Any("error", err))
			}

			break
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			h.logger.Debug("ws malformed frame", slog.Any("error", err))

			continue
		}

		h.dispatch(c, event)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
