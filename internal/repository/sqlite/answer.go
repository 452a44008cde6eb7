package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

// AddAnswer inserts an answer to a doubt, bumps the responder's
// answers_count, rewrites their reputation and notifies the doubt's author,
// all in one transaction.
func (r *SQLiteRepo) AddAnswer(ctx context.Context, a *models.Answer) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("answer is nil")
	}
	if strings.TrimSpace(a.Body) == "" {
		return 0, fmt.Errorf("answer body is empty")
	}

	var id int64
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var owner string
		var postType models.PostType
		err := tx.QueryRowContext(ctx, `SELECT author, post_type FROM posts WHERE id = ?`, a.PostID).Scan(&owner, &postType)
		if err == sql.ErrNoRows {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		if postType != models.TypeDoubt {
			return fmt.Errorf("post %d is not a doubt", a.PostID)
		}

		a.Created = now()
		res, err := tx.ExecContext(ctx, `INSERT INTO answers (post_id, author, body, votes, created) VALUES (?, ?, ?, 0, ?)`,
			a.PostID, a.Author, a.Body, a.Created)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		if a.Author != models.AnonymousUser {
			if _, err := tx.ExecContext(ctx, `UPDATE users SET answers_count = answers_count + 1, updated = ? WHERE username = ?`, now(), a.Author); err != nil {
				return err
			}
			if err := recomputeReputationTx(ctx, tx, a.Author); err != nil {
				return err
			}
		}

		return notifyTx(ctx, tx, owner, a.Author, fmt.Sprintf("%s answered your doubt!", a.Author))
	})
	if err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

// ListByPost returns a doubt's answers, most upvoted first.
func (r *SQLiteRepo) ListByPost(ctx context.Context, postID int64) ([]models.Answer, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, post_id, author, body, votes, created FROM answers WHERE post_id = ? ORDER BY votes DESC, created ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.PostID, &a.Author, &a.Body, &a.Votes, &a.Created); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAnswer rewrites an answer's body, author-only.
func (r *SQLiteRepo) UpdateAnswer(ctx context.Context, id int64, author, body string) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		got, err := itemAuthorTx(ctx, tx, id, models.KindAnswer)
		if err != nil {
			return err
		}
		if got != author {
			return repository.ErrForbidden
		}
		_, err = tx.ExecContext(ctx, `UPDATE answers SET body = ? WHERE id = ?`, body, id)
		return err
	})
}

// DeleteAnswer removes an answer with its ledger rows and comments,
// decrements answers_count and rewrites reputation. Author-only.
func (r *SQLiteRepo) DeleteAnswer(ctx context.Context, id int64, author string) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		got, err := itemAuthorTx(ctx, tx, id, models.KindAnswer)
		if err != nil {
			return err
		}
		if got != author {
			return repository.ErrForbidden
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE item_id = ? AND item_kind = ?`, id, models.KindAnswer); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE target_id = ? AND target_kind = ?`, id, models.KindAnswer); err != nil {
			return err
		}

		if author != models.AnonymousUser {
			if _, err := tx.ExecContext(ctx, `UPDATE users SET answers_count = answers_count - 1, updated = ? WHERE username = ?`, now(), author); err != nil {
				return err
			}
			if err := recomputeReputationTx(ctx, tx, author); err != nil {
				return err
			}
		}
		return nil
	})
}
