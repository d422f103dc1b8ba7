package websocket

import (
	"sync"

	"github.com/luchocam/ridelima/pkg/logger"
	"go.uber.org/zap"
)

// Message is the frame exchanged with connected clients
type Message struct {
	Type   string                 `json:"type"`
	TripID string                 `json:"trip_id,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// MessageHandler processes an inbound message from a client
type MessageHandler func(client *Client, msg *Message)

// Hub maintains the set of connected clients and the trip rooms they watch.
// Riders and drivers join the room of their active trip; admin clients receive
// the fleet feed by role.
type Hub struct {
	clients map[string]*Client
	trips   map[string]map[string]*Client

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan *Message

	handlers map[string]MessageHandler

	mu sync.RWMutex
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		trips:      make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan *Message, 64),
		handlers:   make(map[string]MessageHandler),
	}
}

// Run processes register/unregister/broadcast events until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case msg := <-h.Broadcast:
			h.SendToAll(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Replace an existing connection for the same user
	if existing, ok := h.clients[client.ID]; ok {
		existing.close()
	}
	h.clients[client.ID] = client

	logger.Debug("WebSocket client registered",
		zap.String("client_id", client.ID),
		zap.String("role", client.Role),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.ID]; !ok || current != client {
		return
	}
	delete(h.clients, client.ID)

	if tripID := client.GetTrip(); tripID != "" {
		h.removeFromTripLocked(client.ID, tripID)
	}
	client.close()
}

// AddClientToTrip subscribes a client to updates for a trip
func (h *Hub) AddClientToTrip(clientID, tripID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}

	if h.trips[tripID] == nil {
		h.trips[tripID] = make(map[string]*Client)
	}
	h.trips[tripID][clientID] = client
	client.setTrip(tripID)
}

// RemoveClientFromTrip unsubscribes a client from a trip's updates
func (h *Hub) RemoveClientFromTrip(clientID, tripID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromTripLocked(clientID, tripID)
}

func (h *Hub) removeFromTripLocked(clientID, tripID string) {
	room, ok := h.trips[tripID]
	if !ok {
		return
	}
	if client, ok := room[clientID]; ok {
		client.setTrip("")
	}
	delete(room, clientID)
	if len(room) == 0 {
		delete(h.trips, tripID)
	}
}

// SendToUser sends a message to a single connected user, dropping it if the
// user is not connected or their buffer is full
func (h *Hub) SendToUser(clientID string, msg *Message) {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	client.trySend(msg)
}

// SendToTrip sends a message to every client watching a trip
func (h *Hub) SendToTrip(tripID string, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.trips[tripID] {
		client.trySend(msg)
	}
}

// SendToRole sends a message to every connected client with the given role
func (h *Hub) SendToRole(role string, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.Role == role {
			client.trySend(msg)
		}
	}
}

// SendToAll broadcasts a message to every connected client
func (h *Hub) SendToAll(msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.trySend(msg)
	}
}

// RegisterHandler registers a handler for an inbound message type
func (h *Hub) RegisterHandler(msgType string, handler MessageHandler) {
	h.handlers[msgType] = handler
}

// HandleMessage dispatches an inbound message to its registered handler
func (h *Hub) HandleMessage(client *Client, msg *Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}
	logger.Debug("No handler for message type", zap.String("type", msg.Type))
}

// GetClient returns a connected client by ID
func (h *Hub) GetClient(clientID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[clientID]
	return client, ok
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetTripCount returns the number of trip rooms with at least one watcher
func (h *Hub) GetTripCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.trips)
}

// GetClientsInTrip returns the IDs of the clients watching a trip
func (h *Hub) GetClientsInTrip(tripID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.trips[tripID]))
	for id := range h.trips[tripID] {
		ids = append(ids, id)
	}
	return ids
}
