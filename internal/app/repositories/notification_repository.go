package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/dberrors"
)

// NotificationRepository handles in-app notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

var notificationColumns = []string{"id", "user_id", "title", "body", "link", "is_read", "created_at"}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var n models.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateMany inserts one notification per user in a single statement
func (r *NotificationRepository) CreateMany(ctx context.Context, userIDs []int64, title, body string, link *string) ([]*models.Notification, error) {
	if len(userIDs) == 0 {
		return []*models.Notification{}, nil
	}

	insert := psql.Insert("notifications").Columns("user_id", "title", "body", "link")
	for _, id := range userIDs {
		insert = insert.Values(id, title, body, link)
	}
	items, err := queryList(ctx, r.db, insert.Suffix("RETURNING id, user_id, title, body, link, is_read, created_at"), scanNotification)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return items, nil
}

// List returns one page of a user's notifications, newest first
func (r *NotificationRepository) List(ctx context.Context, userID int64, unreadOnly bool, page Page) ([]*models.Notification, int64, error) {
	cond := squirrel.Eq{"user_id": userID}
	if unreadOnly {
		cond["is_read"] = false
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("notifications").Where(cond))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	items, err := queryList(ctx, r.db, psql.Select(notificationColumns...).From("notifications").
		Where(cond).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).Offset(offset), scanNotification)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UnreadCount returns how many notifications of userID are unread
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("notifications").
		Where(squirrel.Eq{"user_id": userID, "is_read": false}))
}

// MarkRead marks one notification of userID as read
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	return execOne(ctx, r.db, psql.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID}), apperrors.ErrNotificationMissing)
}

// MarkAllRead marks every notification of userID as read and returns how many changed
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return exec(ctx, r.db, psql.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"user_id": userID, "is_read": false}))
}

// Delete removes one notification of userID
func (r *NotificationRepository) Delete(ctx context.Context, userID, id int64) error {
	return execOne(ctx, r.db, psql.Delete("notifications").
		Where(squirrel.Eq{"id": id, "user_id": userID}), apperrors.ErrNotificationMissing)
}
