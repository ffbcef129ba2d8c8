package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Message types pushed to clients
const (
	MessageTypeNotification = "notification"
	MessageTypeUnreadCount  = "unread_count"
	MessageTypeMarkRead     = "mark_read"
	MessageTypeMarkAllRead  = "mark_all_read"
)

// Message represents a message sent over WebSocket
type Message struct {
	// Type of message, one of the MessageType constants
	Type string `json:"type"`

	// Recipient, or sender for client messages
	UserID int64 `json:"userId"`

	// Notification ID for mark_read
	ID int64 `json:"id,omitempty"`

	// Payload for server pushes
	Data interface{} `json:"data,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

type delivery struct {
	userID int64 // 0 means every connected user
	data   []byte
}

// Hub maintains the set of active clients per user and delivers messages to them
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	deliver    chan delivery
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	listenersMu      sync.RWMutex
	messageListeners []chan *Message

	// Called with the total client count after every change
	onCountChange func(int)

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:          make(map[int64]map[*Client]bool),
		deliver:          make(chan delivery, 64),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		messageListeners: []chan *Message{},
		logger:           logger,
	}
}

// OnClientCountChange sets a callback reporting the number of connected clients
func (h *Hub) OnClientCountChange(fn func(int)) {
	h.onCountChange = fn
}

// Run handles registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliver:
			h.deliverMessage(d)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true
	total := h.countLocked()
	h.mu.Unlock()

	h.reportCount(total)
	h.logger.Info().Int64("userID", client.userID).Msg("Notification client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	removed := h.removeLocked(client)
	total := h.countLocked()
	h.mu.Unlock()

	if removed {
		h.reportCount(total)
		h.logger.Info().Int64("userID", client.userID).Msg("Notification client unregistered")
	}
}

// removeLocked drops client and closes its send channel. Caller holds mu.
func (h *Hub) removeLocked(client *Client) bool {
	userClients, ok := h.clients[client.userID]
	if !ok || !userClients[client] {
		return false
	}
	delete(userClients, client)
	close(client.send)
	if len(userClients) == 0 {
		delete(h.clients, client.userID)
	}
	return true
}

func (h *Hub) countLocked() int {
	n := 0
	for _, c := range h.clients {
		n += len(c)
	}
	return n
}

func (h *Hub) reportCount(n int) {
	if h.onCountChange != nil {
		h.onCountChange(n)
	}
}

func (h *Hub) deliverMessage(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var targets []*Client
	if d.userID == 0 {
		for _, userClients := range h.clients {
			for c := range userClients {
				targets = append(targets, c)
			}
		}
	} else {
		for c := range h.clients[d.userID] {
			targets = append(targets, c)
		}
	}

	for _, client := range targets {
		select {
		case client.send <- d.data:
		default:
			// Slow consumer; the client reconnects and refetches.
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, userClients := range h.clients {
		for c := range userClients {
			h.removeLocked(c)
		}
	}
}

// SendToUser queues message for every connection of userID
func (h *Hub) SendToUser(userID int64, message *Message) {
	h.enqueue(userID, message)
}

// Broadcast queues message for every connected user
func (h *Hub) Broadcast(message *Message) {
	h.enqueue(0, message)
}

func (h *Hub) enqueue(userID int64, message *Message) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to marshal websocket message")
		return
	}

	select {
	case h.deliver <- delivery{userID: userID, data: data}:
	default:
		h.logger.Warn().Int64("userID", userID).Str("type", message.Type).Msg("Websocket delivery queue full, message dropped")
	}
}

// GetClientsCount returns the number of open connections of a user
func (h *Hub) GetClientsCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// AddMessageListener registers a channel to receive messages sent by clients
func (h *Hub) AddMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.messageListeners = append(h.messageListeners, listener)
}

// RemoveMessageListener removes a listener from the hub
func (h *Hub) RemoveMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.messageListeners {
		if l == listener {
			h.messageListeners[i] = h.messageListeners[len(h.messageListeners)-1]
			h.messageListeners = h.messageListeners[:len(h.messageListeners)-1]
			break
		}
	}
}

func (h *Hub) notifyMessageListeners(message *Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.messageListeners {
		select {
		case listener <- message:
		default:
			h.logger.Warn().Msg("Skipped slow message listener")
		}
	}
}
