package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

// CastVote applies one voter action to the ledger and refreshes everything
// derived from it, in a single transaction:
//
//   - no existing row: insert with the given direction
//   - same direction:  toggle-off, delete the row
//   - opposite:        swing, overwrite the stored direction
//
// The item's displayed total is then recomputed as the sum of the ledger for
// that item, never adjusted incrementally; the author's upvotes_received
// moves by the net change and their reputation is rewritten from counters.
func (r *SQLiteRepo) CastVote(ctx context.Context, voter string, itemID int64, kind models.ItemKind, direction int) (*repository.VoteResult, error) {
	if direction != 1 && direction != -1 {
		return nil, fmt.Errorf("direction must be +1 or -1, got %d", direction)
	}
	if !kind.Valid() {
		return nil, repository.ErrNotFound
	}

	var res repository.VoteResult
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		author, err := itemAuthorTx(ctx, tx, itemID, kind)
		if err != nil {
			return err
		}

		var existing int
		err = tx.QueryRowContext(ctx, `SELECT direction FROM votes WHERE voter = ? AND item_id = ? AND item_kind = ?`, voter, itemID, kind).Scan(&existing)

		var net int
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.ExecContext(ctx, `INSERT INTO votes (voter, item_id, item_kind, direction, created) VALUES (?, ?, ?, ?, ?)`, voter, itemID, kind, direction, now()); err != nil {
				return err
			}
			net = direction
		case err != nil:
			return err
		case existing == direction:
			if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE voter = ? AND item_id = ? AND item_kind = ?`, voter, itemID, kind); err != nil {
				return err
			}
			net = -direction
			res.Removed = true
		default:
			if _, err := tx.ExecContext(ctx, `UPDATE votes SET direction = ?, created = ? WHERE voter = ? AND item_id = ? AND item_kind = ?`, direction, now(), voter, itemID, kind); err != nil {
				return err
			}
			net = 2 * direction
		}

		total, err := refreshItemTotalTx(ctx, tx, itemID, kind)
		if err != nil {
			return err
		}
		res.Total = total
		res.Net = net

		if author != models.AnonymousUser {
			if _, err := tx.ExecContext(ctx, `UPDATE users SET upvotes_received = upvotes_received + ?, updated = ? WHERE username = ?`, net, now(), author); err != nil {
				return err
			}
			if err := recomputeReputationTx(ctx, tx, author); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// refreshItemTotalTx rewrites the item's cached total from the ledger and
// returns it.
func refreshItemTotalTx(ctx context.Context, tx *sql.Tx, itemID int64, kind models.ItemKind) (int64, error) {
	var total int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(direction), 0) FROM votes WHERE item_id = ? AND item_kind = ?`, itemID, kind).Scan(&total); err != nil {
		return 0, err
	}

	var q string
	switch kind {
	case models.KindPost:
		q = `UPDATE posts SET votes = ? WHERE id = ?`
	case models.KindAnswer:
		q = `UPDATE answers SET votes = ? WHERE id = ?`
	default:
		return 0, repository.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, q, total, itemID); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *SQLiteRepo) GetVote(ctx context.Context, voter string, itemID int64, kind models.ItemKind) (*models.Vote, error) {
	row := r.conn.QueryRow(ctx, `SELECT voter, item_id, item_kind, direction, created FROM votes WHERE voter = ? AND item_id = ? AND item_kind = ?`, voter, itemID, kind)
	var v models.Vote
	if err := row.Scan(&v.Voter, &v.ItemID, &v.ItemKind, &v.Direction, &v.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
