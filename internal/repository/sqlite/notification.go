package sqlite

import (
	"context"

	"github.com/iitconnect/iitconnect/pkg/models"
)

// Notify records a notification for target. Self-notifications and
// notifications addressed to the anonymous identity are dropped silently.
func (r *SQLiteRepo) Notify(ctx context.Context, target, actor, message string) error {
	if target == "" || target == actor || target == models.AnonymousUser {
		return nil
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO notifications (username, message, is_read, created) VALUES (?, ?, 0, ?)`, target, message, now())
	return err
}

func (r *SQLiteRepo) UnreadCount(ctx context.Context, username string) (int64, error) {
	var n int64
	err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM notifications WHERE username = ? AND is_read = 0`, username).Scan(&n)
	return n, err
}

func (r *SQLiteRepo) ListRecent(ctx context.Context, username string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.conn.QueryRows(ctx, `SELECT id, username, message, is_read, created FROM notifications WHERE username = ? ORDER BY created DESC, id DESC LIMIT ?`, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var read int
		if err := rows.Scan(&n.ID, &n.Username, &n.Message, &read, &n.Created); err != nil {
			return nil, err
		}
		n.IsRead = read != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) MarkAllRead(ctx context.Context, username string) error {
	_, err := r.conn.Exec(ctx, `UPDATE notifications SET is_read = 1 WHERE username = ?`, username)
	return err
}
