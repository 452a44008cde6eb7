package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"log/slog"

	"github.com/iitconnect/iitconnect/internal/db"
	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.PostRepo = (*SQLiteRepo)(nil)
var _ repository.AnswerRepo = (*SQLiteRepo)(nil)
var _ repository.VoteRepo = (*SQLiteRepo)(nil)
var _ repository.CommentRepo = (*SQLiteRepo)(nil)
var _ repository.FollowRepo = (*SQLiteRepo)(nil)
var _ repository.BookmarkRepo = (*SQLiteRepo)(nil)
var _ repository.NotificationRepo = (*SQLiteRepo)(nil)
var _ repository.ReportRepo = (*SQLiteRepo)(nil)
var _ repository.CourseRequestRepo = (*SQLiteRepo)(nil)
var _ repository.SchemaRepo = (*SQLiteRepo)(nil)
var _ repository.TemplateRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// isUniqueViolation reports whether err is a SQLite uniqueness constraint
// failure (duplicate registration, follow, vote row).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}

// itemAuthorTx resolves the author of a votable item inside a transaction.
// The kind dispatches through a closed switch; unknown kinds and missing
// items map to repository.ErrNotFound.
func itemAuthorTx(ctx context.Context, tx *sql.Tx, itemID int64, kind models.ItemKind) (string, error) {
	var q string
	switch kind {
	case models.KindPost:
		q = `SELECT author FROM posts WHERE id = ?`
	case models.KindAnswer:
		q = `SELECT author FROM answers WHERE id = ?`
	default:
		return "", repository.ErrNotFound
	}

	var author string
	if err := tx.QueryRowContext(ctx, q, itemID).Scan(&author); err != nil {
		if err == sql.ErrNoRows {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return author, nil
}

// recomputeReputationTx rewrites a user's reputation from their stored
// counters. The anonymous identity is exempt.
func recomputeReputationTx(ctx context.Context, tx *sql.Tx, username string) error {
	if username == models.AnonymousUser {
		return nil
	}

	var posts, answers, upvotes int64
	err := tx.QueryRowContext(ctx, `SELECT posts_count, answers_count, upvotes_received FROM users WHERE username = ?`, username).
		Scan(&posts, &answers, &upvotes)
	if err != nil {
		if err == sql.ErrNoRows {
			// content can outlive a deleted account
			return nil
		}
		return err
	}

	rep := models.ReputationScore(upvotes, posts, answers)
	_, err = tx.ExecContext(ctx, `UPDATE users SET reputation = ?, updated = ? WHERE username = ?`, rep, now(), username)
	return err
}

// notifyTx inserts a notification unless the target is the acting user or
// the anonymous identity.
func notifyTx(ctx context.Context, tx *sql.Tx, target, actor, message string) error {
	if target == "" || target == actor || target == models.AnonymousUser {
		return nil
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO notifications (username, message, is_read, created) VALUES (?, ?, 0, ?)`, target, message, now())
	return err
}
