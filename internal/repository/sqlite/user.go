package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

const userColumns = `username, password_hash, full_name, college, year, branch, bio, posts_count, answers_count, upvotes_received, reputation, is_active, created, updated`

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	if u.Username == "" || u.Username == models.AnonymousUser {
		return fmt.Errorf("invalid username %q", u.Username)
	}

	ts := now()
	u.Created, u.Updated = ts, ts
	u.IsActive = true
	_, err := r.conn.Exec(ctx, `INSERT INTO users (username, password_hash, full_name, college, year, branch, bio, is_active, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		u.Username, u.PasswordHash, u.FullName, u.College, u.Year, u.Branch, u.Bio, ts, ts)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *SQLiteRepo) GetUser(ctx context.Context, username string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	var u models.User
	var active int
	err := row.Scan(&u.Username, &u.PasswordHash, &u.FullName, &u.College, &u.Year, &u.Branch, &u.Bio,
		&u.PostsCount, &u.AnswersCount, &u.UpvotesReceived, &u.Reputation, &active, &u.Created, &u.Updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.IsActive = active != 0
	return &u, nil
}

// UpdateProfile writes the editable profile fields; counters and reputation
// are owned by the content operations and never set from here.
func (r *SQLiteRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	res, err := r.conn.Exec(ctx, `UPDATE users SET full_name = ?, college = ?, year = ?, branch = ?, bio = ?, updated = ? WHERE username = ?`,
		u.FullName, u.College, u.Year, u.Branch, u.Bio, now(), u.Username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ChangeUsername renames a user and every reference to them, atomically.
func (r *SQLiteRepo) ChangeUsername(ctx context.Context, oldName, newName string) error {
	if newName == "" || newName == models.AnonymousUser {
		return fmt.Errorf("invalid username %q", newName)
	}

	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users SET username = ?, updated = ? WHERE username = ?`, newName, now(), oldName)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}

		stmts := []struct{ query string }{
			{`UPDATE posts SET author = ? WHERE author = ?`},
			{`UPDATE answers SET author = ? WHERE author = ?`},
			{`UPDATE comments SET author = ? WHERE author = ?`},
			{`UPDATE votes SET voter = ? WHERE voter = ?`},
			{`UPDATE bookmarks SET username = ? WHERE username = ?`},
			{`UPDATE notifications SET username = ? WHERE username = ?`},
			{`UPDATE follows SET follower = ? WHERE follower = ?`},
			{`UPDATE follows SET followee = ? WHERE followee = ?`},
		}
		for _, s := range stmts {
			if _, err := tx.ExecContext(ctx, s.query, newName, oldName); err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// SetActive flips the soft-deactivation flag.
func (r *SQLiteRepo) SetActive(ctx context.Context, username string, active bool) error {
	v := 0
	if active {
		v = 1
	}
	res, err := r.conn.Exec(ctx, `UPDATE users SET is_active = ?, updated = ? WHERE username = ?`, v, now(), username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteUser hard-deletes an account and the content it owns, including the
// ledger rows, comments and bookmarks other users left on that content.
func (r *SQLiteRepo) DeleteUser(ctx context.Context, username string) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}

		// each owned post takes its full per-post cleanup with it
		postIDs, err := collectIDs(ctx, tx, `SELECT id FROM posts WHERE author = ?`, username)
		if err != nil {
			return err
		}
		for _, pid := range postIDs {
			if err := removePostTx(ctx, tx, pid); err != nil {
				return err
			}
		}

		// answers left on other users' posts, with the rows targeting them
		answerIDs, err := collectIDs(ctx, tx, `SELECT id FROM answers WHERE author = ?`, username)
		if err != nil {
			return err
		}
		for _, aid := range answerIDs {
			if err := removeAnswerRowsTx(ctx, tx, aid); err != nil {
				return err
			}
		}

		for _, q := range []string{
			`DELETE FROM answers WHERE author = ?`,
			`DELETE FROM comments WHERE author = ?`,
			`DELETE FROM votes WHERE voter = ?`,
			`DELETE FROM bookmarks WHERE username = ?`,
			`DELETE FROM notifications WHERE username = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, username); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM follows WHERE follower = ? OR followee = ?`, username, username); err != nil {
			return err
		}
		return nil
	})
}

func collectIDs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Leaderboard returns the top users by reputation, highest first, skipping
// zero scores.
func (r *SQLiteRepo) Leaderboard(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.conn.QueryRows(ctx, `SELECT `+userColumns+` FROM users WHERE reputation > 0 ORDER BY reputation DESC, username ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		var active int
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.FullName, &u.College, &u.Year, &u.Branch, &u.Bio,
			&u.PostsCount, &u.AnswersCount, &u.UpvotesReceived, &u.Reputation, &active, &u.Created, &u.Updated); err != nil {
			return nil, err
		}
		u.IsActive = active != 0
		out = append(out, u)
	}
	return out, rows.Err()
}
