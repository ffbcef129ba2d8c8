package services

import (
	"context"
	"fmt"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/email"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/websocket"
	"github.com/rs/zerolog"
)

// Pusher delivers realtime messages to connected users
type Pusher interface {
	SendToUser(userID int64, message *websocket.Message)
}

// NotificationService defines the interface for in-app notifications
type NotificationService interface {
	Notify(ctx context.Context, userIDs []int64, title, body string, link *string) (int, error)
	NotifyActiveUsers(ctx context.Context, title, body string, link *string) (int, error)
	Broadcast(ctx context.Context, req *dto.BroadcastRequest) (int, error)
	List(ctx context.Context, userID int64, unreadOnly bool, page, size int) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, notificationID int64) error
	PublishUnreadCount(ctx context.Context, userID int64)
}

type notificationServiceImpl struct {
	notificationRepo NotificationStore
	userRepo         UserStore
	pusher           Pusher
	emailService     email.EmailService
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo NotificationStore,
	userRepo UserStore,
	pusher Pusher,
	emailService email.EmailService,
	logger zerolog.Logger,
) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
		emailService:     emailService,
		logger:           logger,
	}
}

// Notify stores one notification per user and pushes it to connected clients
func (s *notificationServiceImpl) Notify(ctx context.Context, userIDs []int64, title, body string, link *string) (int, error) {
	created, err := s.notificationRepo.CreateMany(ctx, userIDs, title, body, link)
	if err != nil {
		return 0, fmt.Errorf("error creating notifications: %w", err)
	}

	for _, n := range created {
		s.pusher.SendToUser(n.UserID, &websocket.Message{
			Type:   websocket.MessageTypeNotification,
			UserID: n.UserID,
			ID:     n.ID,
			Data:   n,
		})
	}

	s.logger.Info().Int("recipients", len(created)).Str("title", title).Msg("Notifications sent")
	return len(created), nil
}

// NotifyActiveUsers notifies every active user
func (s *notificationServiceImpl) NotifyActiveUsers(ctx context.Context, title, body string, link *string) (int, error) {
	users, err := s.userRepo.ListRecipients(ctx, repositories.UserFilter{})
	if err != nil {
		return 0, fmt.Errorf("error listing recipients: %w", err)
	}
	return s.Notify(ctx, userIDs(users), title, body, link)
}

// Broadcast notifies the active users matching the request filters, optionally by email too
func (s *notificationServiceImpl) Broadcast(ctx context.Context, req *dto.BroadcastRequest) (int, error) {
	filter := repositories.UserFilter{DepartmentID: req.DepartmentID}
	if req.Role != nil {
		role := models.Role(*req.Role)
		filter.Role = &role
	}

	users, err := s.userRepo.ListRecipients(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error listing recipients: %w", err)
	}

	sent, err := s.Notify(ctx, userIDs(users), req.Title, req.Body, req.Link)
	if err != nil {
		return 0, err
	}

	if req.Email {
		link := helpers.Deref(req.Link)
		for _, u := range users {
			if err := s.emailService.SendNotificationEmail(u.Email, u.FullName(), req.Title, req.Body, link); err != nil {
				s.logger.Warn().Err(err).Int64("userID", u.ID).Msg("Failed to send notification email")
			}
		}
	}
	return sent, nil
}

// List returns one page of a user's notifications with the unread count
func (s *notificationServiceImpl) List(ctx context.Context, userID int64, unreadOnly bool, page, size int) (*dto.NotificationListResponse, error) {
	items, total, err := s.notificationRepo.List(ctx, userID, unreadOnly, repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	unread, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread notifications: %w", err)
	}

	return &dto.NotificationListResponse{
		PaginatedResponse: dto.PaginatedResponse{
			Items:      items,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Unread: unread,
	}, nil
}

// UnreadCount returns the number of unread notifications of a user
func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

// MarkRead marks one notification as read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks every notification of a user as read
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// Delete removes one notification of a user
func (s *notificationServiceImpl) Delete(ctx context.Context, userID, notificationID int64) error {
	return s.notificationRepo.Delete(ctx, userID, notificationID)
}

// PublishUnreadCount pushes the current unread count to the user's open connections
func (s *notificationServiceImpl) PublishUnreadCount(ctx context.Context, userID int64) {
	count, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to count unread notifications")
		return
	}
	s.pusher.SendToUser(userID, &websocket.Message{Type: websocket.MessageTypeUnreadCount, UserID: userID, Data: count})
}

func userIDs(users []*models.User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
