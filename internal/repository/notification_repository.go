package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-management/internal/model"
)

const notificationColumns = "id, user_id, title, message, created_at, is_read"

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

func scanNotification(s scanner) (*model.Notification, error) {
	var n model.Notification
	if err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.CreatedAt, &n.IsRead); err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

// Create inserts n unread.  Both request handlers and the stay-event
// consumer write through it.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	n.Title = strings.TrimSpace(n.Title)
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO notifications (user_id, title, message) VALUES (?, ?, ?)",
		n.UserID, n.Title, n.Message))
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, id, nil)
	if err != nil {
		return err
	}
	*n = *got
	return nil
}

// GetByID fetches one notification; a non-nil userID restricts it to
// that recipient.
func (r *NotificationRepo) GetByID(ctx context.Context, id uint64, userID *uint64) (*model.Notification, error) {
	q := "SELECT " + notificationColumns + " FROM notifications WHERE id = ?"
	args := []any{id}
	if userID != nil {
		q += " AND user_id = ?"
		args = append(args, *userID)
	}
	return scanNotification(r.db.QueryRowContext(ctx, q, args...))
}

// List returns notifications newest first, all of them when userID is nil.
func (r *NotificationRepo) List(ctx context.Context, userID *uint64) ([]*model.Notification, error) {
	q := "SELECT " + notificationColumns + " FROM notifications"
	var args []any
	if userID != nil {
		q += " WHERE user_id = ?"
		args = append(args, *userID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY created_at DESC, id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags the recipient's notification as read.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	return affected(r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?", id, userID))
}

func (r *NotificationRepo) Delete(ctx context.Context, id, userID uint64) error {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE id = ? AND user_id = ?", id, userID))
}
