// Package ws pushes live events to connected clients over websockets. The
// hub is a single goroutine owning the client set; handlers and services
// talk to it only through channels, so it needs no lock of its own.
package ws

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Event is the frame written to clients.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type delivery struct {
	userIDs []int64
	data    []byte
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliveries chan delivery

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan delivery, 256),
		logger:     logger,
	}
}

// Run owns the client set. Call it once, on its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("ws client connected", zap.Int64("user_id", client.userID))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("ws client disconnected", zap.Int64("user_id", client.userID))
			}
		case d := <-h.deliveries:
			for client := range h.clients {
				if !targeted(d.userIDs, client.userID) {
					continue
				}
				select {
				case client.send <- d.data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish fans an event out to the listed users' connections. Never blocks
// the caller: when the hub is saturated the event is dropped and logged.
func (h *Hub) Publish(userIDs []int64, event string, payload any) {
	data, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		h.logger.Error("ws event marshal failed", zap.String("event", event), zap.Error(err))
		return
	}
	ids := append([]int64(nil), userIDs...)
	select {
	case h.deliveries <- delivery{userIDs: ids, data: data}:
	default:
		h.logger.Warn("ws event dropped, hub saturated", zap.String("event", event))
	}
}

func targeted(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
