package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Hub fans pushed room documents out to every subscribed client. Each
// client is bound to exactly one room for the life of its connection.
type Hub struct {
	clients map[*Client]bool

	// Clients grouped by room code
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *RoomBroadcast

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

type RoomBroadcast struct {
	RoomCode string
	Message  []byte
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *RoomBroadcast),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case rb := <-h.broadcast:
			h.SendToRoom(rb.RoomCode, rb.Message)

		case <-ticker.C:
			h.ping()
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
}

func (h *Hub) Register(client *Client)   { h.register <- client }
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if _, ok := h.rooms[client.RoomCode]; !ok {
		h.rooms[client.RoomCode] = make(map[*Client]bool)
	}
	h.rooms[client.RoomCode][client] = true

	log.Debug().
		Str("room", client.RoomCode).
		Str("participant", client.ParticipantID).
		Int("subscribers", len(h.rooms[client.RoomCode])).
		Msg("client subscribed")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	if room, ok := h.rooms[client.RoomCode]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.RoomCode)
		}
	}

	log.Debug().
		Str("room", client.RoomCode).
		Str("participant", client.ParticipantID).
		Msg("client unsubscribed")
}

// SendToRoom pushes message to every subscriber of the room. Slow
// clients with a full send queue are skipped, not blocked on.
func (h *Hub) SendToRoom(roomCode string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomCode] {
		select {
		case client.Send <- message:
		default:
			log.Warn().
				Str("room", roomCode).
				Str("participant", client.ParticipantID).
				Msg("send queue full, dropping frame")
		}
	}
}

// PushRoomState sends a per-viewer frame to each subscriber of the
// room. build receives the subscriber's participant id so the caller
// can redact the document for that viewer.
func (h *Hub) PushRoomState(roomCode string, build func(participantID string) ([]byte, error)) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomCode] {
		message, err := build(client.ParticipantID)
		if err != nil {
			log.Error().Err(err).Str("room", roomCode).Msg("failed to build room state frame")
			continue
		}
		select {
		case client.Send <- message:
		default:
			log.Warn().
				Str("room", roomCode).
				Str("participant", client.ParticipantID).
				Msg("send queue full, dropping frame")
		}
	}
}

// Broadcast queues a room push from outside the hub goroutine.
func (h *Hub) Broadcast(roomCode string, message []byte) {
	h.broadcast <- &RoomBroadcast{RoomCode: roomCode, Message: message}
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := Message{Type: TypePing, Timestamp: time.Now()}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// RoomCount returns the number of rooms with at least one subscriber.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSubscribers lists the participant ids currently connected to a
// room. A participant with several tabs appears once.
func (h *Hub) RoomSubscribers(roomCode string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]bool)
	for client := range h.rooms[roomCode] {
		seen[client.ParticipantID] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids
}
