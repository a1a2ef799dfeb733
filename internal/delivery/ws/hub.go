// Package ws implements the courier presence channel: a WebSocket endpoint
// through which couriers push location updates and observers subscribe to
// per-courier broadcast rooms.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Event is the wire frame for every message on the channel, both directions.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type subscription struct {
	client *Client
	room   uuid.UUID
}

type roomBroadcast struct {
	room   uuid.UUID
	sender *Client
	data   []byte
}

// Hub owns all connected clients and their room subscriptions. All maps are
// touched only by the Run goroutine, so no locking is needed.
type Hub struct {
	clients    map[*Client]struct{}
	rooms      map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	broadcast  chan roomBroadcast
	logger     *slog.Logger
}

// NewHub is the constructor for Hub. The hub loop runs for the lifetime of
// the Fx application.
func NewHub(lc fx.Lifecycle, logger *slog.Logger) *Hub {
	hub := newHub(logger)

	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go hub.Run(runCtx)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			return nil
		},
	})

	return hub
}

func newHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		broadcast:  make(chan roomBroadcast, 64),
		logger:     logger,
	}
}

// Run processes hub commands until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
			}

			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Debug("ws client connected", slog.String("user_id", client.user.ID.String()))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case sub := <-h.subscribe:
			if _, ok := h.clients[sub.client]; !ok {
				continue
			}
			if h.rooms[sub.room] == nil {
				h.rooms[sub.room] = make(map[*Client]struct{})
			}
			h.rooms[sub.room][sub.client] = struct{}{}
		case msg := <-h.broadcast:
			for client := range h.rooms[msg.room] {
				if client == msg.sender {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer, drop it rather than block the hub.
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	for room, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(client.send)
	h.logger.Debug("ws client disconnected", slog.String("user_id", client.user.ID.String()))
}

// Subscribe adds the client to a per-courier broadcast room.
func (h *Hub) Subscribe(client *Client, room uuid.UUID) {
	h.subscribe <- subscription{client: client, room: room}
}

// Broadcast fans an event out to every room member except the sender.
// Delivery is fire-and-forget; the sender is never blocked on observers.
func (h *Hub) Broadcast(room uuid.UUID, sender *Client, eventType string, payload any) {
	data, err := marshalEvent(eventType, payload)
	if err != nil {
		h.logger.Error("marshal broadcast event", slog.Any("error", err))

		return
	}
	h.broadcast <- roomBroadcast{room: room, sender: sender, data: data}
}

func marshalEvent(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Event{
		Type:      eventType,
		Payload:   raw,
		Timestamp: time.Now(),
	})
}
