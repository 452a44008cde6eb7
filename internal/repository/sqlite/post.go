package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

const postColumns = `id, author, subject, title, body, filename, tags, post_type, votes, is_verified, created`

// CreatePost inserts a post and, for a non-anonymous author, bumps their
// posts_count and rewrites reputation in the same transaction.
func (r *SQLiteRepo) CreatePost(ctx context.Context, p *models.Post) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("post is nil")
	}
	if !p.Type.Valid() {
		return 0, fmt.Errorf("invalid post type %q", p.Type)
	}

	var id int64
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		p.Created = now()
		verified := 0
		if p.IsVerified {
			verified = 1
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO posts (author, subject, title, body, filename, tags, post_type, votes, is_verified, created) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			p.Author, p.Subject, p.Title, p.Body, p.Filename, p.Tags, p.Type, verified, p.Created)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		if p.Author != models.AnonymousUser {
			if _, err := tx.ExecContext(ctx, `UPDATE users SET posts_count = posts_count + 1, updated = ? WHERE username = ?`, now(), p.Author); err != nil {
				return err
			}
			if err := recomputeReputationTx(ctx, tx, p.Author); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row.Scan)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns the newest posts first, optionally filtered by subject
// and post type (empty values mean no filter).
func (r *SQLiteRepo) ListPosts(ctx context.Context, subject string, postType models.PostType, limit, offset int) ([]models.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE 1=1`
	args := []any{}
	if subject != "" {
		q += ` AND subject = ?`
		args = append(args, subject)
	}
	if postType != "" {
		q += ` AND post_type = ?`
		args = append(args, postType)
	}
	q += ` ORDER BY created DESC, id DESC`
	if limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// SearchPosts matches the term against title and tags, newest first.
func (r *SQLiteRepo) SearchPosts(ctx context.Context, term string, limit, offset int) ([]models.Post, error) {
	like := "%" + term + "%"
	q := `SELECT ` + postColumns + ` FROM posts WHERE (title LIKE ? OR tags LIKE ?) ORDER BY created DESC, id DESC`
	args := []any{like, like}
	if limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// UpdatePost rewrites title and body, author-only.
func (r *SQLiteRepo) UpdatePost(ctx context.Context, id int64, author, title, body string) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		got, err := itemAuthorTx(ctx, tx, id, models.KindPost)
		if err != nil {
			return err
		}
		if got != author {
			return repository.ErrForbidden
		}
		_, err = tx.ExecContext(ctx, `UPDATE posts SET title = ?, body = ? WHERE id = ?`, title, body, id)
		return err
	})
}

// SetVerified records the AI verification verdict for an upload.
func (r *SQLiteRepo) SetVerified(ctx context.Context, id int64, verified bool) error {
	v := 0
	if verified {
		v = 1
	}
	res, err := r.conn.Exec(ctx, `UPDATE posts SET is_verified = ? WHERE id = ?`, v, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeletePost removes a post with its answers (FK cascade), its ledger rows
// and its comments, decrements the author's posts_count and rewrites their
// reputation, all in one transaction. Author-only.
func (r *SQLiteRepo) DeletePost(ctx context.Context, id int64, author string) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		got, err := itemAuthorTx(ctx, tx, id, models.KindPost)
		if err != nil {
			return err
		}
		if got != author {
			return repository.ErrForbidden
		}

		if err := removePostTx(ctx, tx, id); err != nil {
			return err
		}

		if author != models.AnonymousUser {
			if _, err := tx.ExecContext(ctx, `UPDATE users SET posts_count = posts_count - 1, updated = ? WHERE username = ?`, now(), author); err != nil {
				return err
			}
			if err := recomputeReputationTx(ctx, tx, author); err != nil {
				return err
			}
		}
		return nil
	})
}

// removePostTx deletes one post row with everything hanging off it: the
// answers (FK cascade), the ledger rows and comments of both the post and
// those answers, and the bookmarks. Counter updates stay with the callers.
func removePostTx(ctx context.Context, tx *sql.Tx, id int64) error {
	// collect answer ids before the cascade removes them
	rows, err := tx.QueryContext(ctx, `SELECT id FROM answers WHERE post_id = ?`, id)
	if err != nil {
		return err
	}
	var answerIDs []int64
	for rows.Next() {
		var aid int64
		if err := rows.Scan(&aid); err != nil {
			rows.Close()
			return err
		}
		answerIDs = append(answerIDs, aid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE item_id = ? AND item_kind = ?`, id, models.KindPost); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE target_id = ? AND target_kind = ?`, id, models.KindPost); err != nil {
		return err
	}
	for _, aid := range answerIDs {
		if err := removeAnswerRowsTx(ctx, tx, aid); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE post_id = ?`, id)
	return err
}

// removeAnswerRowsTx clears the ledger rows and comments that target one
// answer; the answer row itself is the caller's business.
func removeAnswerRowsTx(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE item_id = ? AND item_kind = ?`, id, models.KindAnswer); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE target_id = ? AND target_kind = ?`, id, models.KindAnswer)
	return err
}

func scanPost(scan func(dest ...any) error) (*models.Post, error) {
	var p models.Post
	var verified int
	if err := scan(&p.ID, &p.Author, &p.Subject, &p.Title, &p.Body, &p.Filename, &p.Tags, &p.Type, &p.Votes, &verified, &p.Created); err != nil {
		return nil, err
	}
	p.IsVerified = verified != 0
	return &p, nil
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var out []models.Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
