package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Arnav55278/study-vault/internal/models"
)

type CreateNotificationParams struct {
	UserID  int64
	Title   string
	Message string
	Link    *string
	Icon    string
	Type    string
}

// CreateNotification stores a notification and pushes it to the recipient's
// live websocket clients. The push is best effort; offline users pick the
// notification up from the list endpoint.
func (s *Store) CreateNotification(ctx context.Context, arg CreateNotificationParams) (*models.Notification, error) {
	if arg.Icon == "" {
		arg.Icon = "bi-bell"
	}
	if arg.Type == "" {
		arg.Type = "system"
	}

	query := `
		INSERT INTO notifications (user_id, title, message, link, icon, notification_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, title, message, link, icon, notification_type, is_read, created_at
	`
	var n models.Notification
	err := s.pool.QueryRow(ctx, query,
		arg.UserID, arg.Title, arg.Message, arg.Link, arg.Icon, arg.Type,
	).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Message, &n.Link,
		&n.Icon, &n.NotificationType, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	eventBytes, err := json.Marshal(map[string]interface{}{
		"event_type": "notification",
		"payload":    n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	s.wsHub.PublishEvent(arg.UserID, eventBytes)

	return &n, nil
}

func (q *Queries) ListNotifications(ctx context.Context, userID int64, limit int, offset int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, link, icon, notification_type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message, &n.Link,
			&n.Icon, &n.NotificationType, &n.IsRead, &n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if notifications == nil {
		return []models.Notification{}, nil
	}

	return notifications, nil
}

func (q *Queries) CountUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`,
		userID,
	).Scan(&count)
	return count, err
}

func (q *Queries) MarkNotificationRead(ctx context.Context, id int64, userID int64) (bool, error) {
	res, err := q.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) MarkAllNotificationsRead(ctx context.Context, userID int64) error {
	_, err := q.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`,
		userID,
	)
	return err
}

func (q *Queries) DeleteNotification(ctx context.Context, id int64, userID int64) (bool, error) {
	res, err := q.db.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
