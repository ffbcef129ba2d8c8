package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ReadMarker persists read state changes requested over the socket
type ReadMarker interface {
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// MessageHandler applies client control messages and answers with the new unread count
type MessageHandler struct {
	marker ReadMarker
	hub    *Hub
	logger zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(marker ReadMarker, hub *Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{marker: marker, hub: hub, logger: logger}
}

// Start consumes client messages until ctx is cancelled
func (h *MessageHandler) Start(ctx context.Context) {
	messages := make(chan *Message, 32)
	h.hub.AddMessageListener(messages)

	go func() {
		defer h.hub.RemoveMessageListener(messages)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-messages:
				h.Handle(ctx, msg)
			}
		}
	}()
}

// Handle applies one client message
func (h *MessageHandler) Handle(ctx context.Context, msg *Message) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var err error
	switch msg.Type {
	case MessageTypeMarkRead:
		err = h.marker.MarkRead(ctx, msg.UserID, msg.ID)
	case MessageTypeMarkAllRead:
		_, err = h.marker.MarkAllRead(ctx, msg.UserID)
	default:
		return
	}
	if err != nil {
		h.logger.Warn().Err(err).Int64("userID", msg.UserID).Str("type", msg.Type).Msg("Failed to apply websocket message")
		return
	}

	count, err := h.marker.UnreadCount(ctx, msg.UserID)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", msg.UserID).Msg("Failed to count unread notifications")
		return
	}
	h.hub.SendToUser(msg.UserID, &Message{Type: MessageTypeUnreadCount, UserID: msg.UserID, Data: count})
}
