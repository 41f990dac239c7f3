package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"masterokBack/internal/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r *NotificationRepository) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	query := `
               INSERT INTO notifications (user_id, message, notification_type, is_read, created_at)
               VALUES (?, ?, ?, FALSE, ?)
       `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query, n.UserID, n.Message, n.Type, now)
	if err != nil {
		return models.Notification{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Notification{}, err
	}
	n.ID = int(id)
	n.IsRead = false
	n.CreatedAt = now
	return n, nil
}

func (r *NotificationRepository) GetByUser(ctx context.Context, userID int) ([]models.Notification, error) {
	query := `
               SELECT id, user_id, message, notification_type, is_read, created_at
               FROM notifications WHERE user_id = ?
               ORDER BY created_at DESC
       `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flips the read flag. The user_id filter makes a foreign
// notification indistinguishable from a missing one.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int) error {
	var found int
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM notifications WHERE id = ? AND user_id = ?`, id, userID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotificationNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = ?`, id)
	return err
}

func (r *NotificationRepository) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM notifications WHERE is_read = TRUE AND created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
