package db_test

import (
	"context"
	"path/filepath"
	"testing"

	dbpkg "github.com/iitconnect/iitconnect/internal/db"
)

// Foreign key enforcement must hold on every pooled connection, not just the
// first one opened.
func TestForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()

	d, err := dbpkg.New(ctx, filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	// drop idle connections so each statement runs on a fresh one
	d.GetConn().SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var on int
		if err := d.QueryRow(ctx, `PRAGMA foreign_keys`).Scan(&on); err != nil {
			t.Fatalf("read pragma: %v", err)
		}
		if on != 1 {
			t.Fatalf("connection %d: foreign_keys = %d, want 1", i, on)
		}
	}
}

func TestNewDSNWithExistingParams(t *testing.T) {
	ctx := context.Background()

	d, err := dbpkg.New(ctx, filepath.Join(t.TempDir(), "test.db")+"?cache=shared", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	var on int
	if err := d.QueryRow(ctx, `PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("read pragma: %v", err)
	}
	if on != 1 {
		t.Fatalf("foreign_keys = %d, want 1", on)
	}
}
