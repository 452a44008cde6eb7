package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

// ToggleBookmark saves the post for the user, or removes the save when one
// already exists. Returns whether the post is saved after the call.
func (r *SQLiteRepo) ToggleBookmark(ctx context.Context, username string, postID int64) (bool, error) {
	var saved bool
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM posts WHERE id = ?`, postID).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}

		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM bookmarks WHERE username = ? AND post_id = ?`, username, postID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			_, err = tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE username = ? AND post_id = ?`, username, postID)
			saved = false
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO bookmarks (username, post_id, created) VALUES (?, ?, ?)`, username, postID, now())
		saved = true
		return err
	})
	if err != nil {
		return false, err
	}
	return saved, nil
}

func (r *SQLiteRepo) ListBookmarked(ctx context.Context, username string) ([]models.Post, error) {
	rows, err := r.conn.QueryRows(ctx, fmt.Sprintf(`SELECT %s FROM posts WHERE id IN (SELECT post_id FROM bookmarks WHERE username = ?) ORDER BY created DESC`, postColumns), username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}
