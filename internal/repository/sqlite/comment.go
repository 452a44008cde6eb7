package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

// AddComment inserts a comment and, in the same transaction, notifies the
// owning item's author. A non-nil parent must exist and belong to the same
// (target, kind) forum. The store itself accepts any nesting depth; the
// interactive reply cap lives in internal/thread.
func (r *SQLiteRepo) AddComment(ctx context.Context, c *models.Comment) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("comment is nil")
	}
	if strings.TrimSpace(c.Body) == "" {
		return 0, fmt.Errorf("comment body is empty")
	}
	if !c.TargetKind.Valid() {
		return 0, repository.ErrNotFound
	}

	var id int64
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		owner, err := itemAuthorTx(ctx, tx, c.TargetID, c.TargetKind)
		if err != nil {
			return err
		}

		if c.ParentID != nil {
			var pTarget int64
			var pKind models.ItemKind
			err := tx.QueryRowContext(ctx, `SELECT target_id, target_kind FROM comments WHERE id = ?`, *c.ParentID).Scan(&pTarget, &pKind)
			if err == sql.ErrNoRows {
				return repository.ErrNotFound
			}
			if err != nil {
				return err
			}
			if pTarget != c.TargetID || pKind != c.TargetKind {
				return repository.ErrCrossForum
			}
		}

		c.Created = now()
		res, err := tx.ExecContext(ctx, `INSERT INTO comments (target_id, target_kind, parent_id, author, body, created) VALUES (?, ?, ?, ?, ?, ?)`,
			c.TargetID, c.TargetKind, c.ParentID, c.Author, c.Body, c.Created)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("%s commented on your %s.", c.Author, strings.ToLower(string(c.TargetKind)))
		return notifyTx(ctx, tx, owner, c.Author, msg)
	})
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

// ListReplies returns the children of parentID within a forum, or the root
// comments when parentID is nil, ordered by creation time ascending.
func (r *SQLiteRepo) ListReplies(ctx context.Context, targetID int64, kind models.ItemKind, parentID *int64) ([]models.Comment, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if parentID == nil {
		rows, err = r.conn.QueryRows(ctx, `SELECT id, target_id, target_kind, parent_id, author, body, created FROM comments WHERE target_id = ? AND target_kind = ? AND parent_id IS NULL ORDER BY created ASC, id ASC`, targetID, kind)
	} else {
		rows, err = r.conn.QueryRows(ctx, `SELECT id, target_id, target_kind, parent_id, author, body, created FROM comments WHERE target_id = ? AND target_kind = ? AND parent_id = ? ORDER BY created ASC, id ASC`, targetID, kind, *parentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

// ListThread returns every comment in a forum ordered by creation time; the
// caller builds the tree from the flat slice.
func (r *SQLiteRepo) ListThread(ctx context.Context, targetID int64, kind models.ItemKind) ([]models.Comment, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, target_id, target_kind, parent_id, author, body, created FROM comments WHERE target_id = ? AND target_kind = ? ORDER BY created ASC, id ASC`, targetID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func scanComments(rows *sql.Rows) ([]models.Comment, error) {
	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.TargetID, &c.TargetKind, &parent, &c.Author, &c.Body, &c.Created); err != nil {
			return nil, err
		}
		if parent.Valid {
			p := parent.Int64
			c.ParentID = &p
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateComment rewrites a comment's body; only its author may do so.
func (r *SQLiteRepo) UpdateComment(ctx context.Context, id int64, author, body string) error {
	return r.authorOnlyComment(ctx, id, author, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE comments SET body = ? WHERE id = ?`, body, id)
		return err
	})
}

// DeleteComment removes a comment and its whole subtree (the parent_id
// foreign key cascades), author-only.
func (r *SQLiteRepo) DeleteComment(ctx context.Context, id int64, author string) error {
	return r.authorOnlyComment(ctx, id, author, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
		return err
	})
}

func (r *SQLiteRepo) authorOnlyComment(ctx context.Context, id int64, author string, fn func(tx *sql.Tx) error) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var got string
		err := tx.QueryRowContext(ctx, `SELECT author FROM comments WHERE id = ?`, id).Scan(&got)
		if err == sql.ErrNoRows {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		if got != author {
			return repository.ErrForbidden
		}
		return fn(tx)
	})
}
