package sqlite

import (
	"context"
	"fmt"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

func (r *SQLiteRepo) Follow(ctx context.Context, follower, followee string) error {
	if follower == followee {
		return fmt.Errorf("cannot follow yourself")
	}
	if followee == models.AnonymousUser {
		return repository.ErrNotFound
	}

	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM users WHERE username = ?`, followee).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO follows (follower, followee, created) VALUES (?, ?, ?)`, follower, followee, now())
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *SQLiteRepo) Unfollow(ctx context.Context, follower, followee string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM follows WHERE follower = ? AND followee = ?`, follower, followee)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) ListFollowers(ctx context.Context, followee string) ([]string, error) {
	return r.listFollowEdge(ctx, `SELECT follower FROM follows WHERE followee = ? ORDER BY created ASC`, followee)
}

func (r *SQLiteRepo) ListFollowing(ctx context.Context, follower string) ([]string, error) {
	return r.listFollowEdge(ctx, `SELECT followee FROM follows WHERE follower = ? ORDER BY created ASC`, follower)
}

func (r *SQLiteRepo) listFollowEdge(ctx context.Context, query, who string) ([]string, error) {
	rows, err := r.conn.QueryRows(ctx, query, who)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
