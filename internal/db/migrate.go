package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrate applies migrations and optional seed files found in the repository.
// It creates a `schema_migrations` table to track applied migrations and applies
// any SQL files in `db/migrations/` that have not yet been recorded. Seed files
// (AI output schemas and prompt templates) are applied idempotently.
func Migrate(ctx context.Context, d *DB, migrationFS embed.FS, seedFS embed.FS) error {
	// ensure migrations table exists
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	// embedded migrations are provided under "migrations/..." in the top-level db package
	migDir := "migrations"

	entries, err := fs.ReadDir(migrationFS, migDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// collect .sql files and sort
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		// use filename (without extension) as migration version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			// already applied
			continue
		}

		p := path.Join(migDir, fname)
		b, err := fs.ReadFile(migrationFS, p)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec migration %s: %w", fname, err)
		}

		if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", fname, err)
		}
	}

	return Seed(ctx, d, seedFS)
}

// Seed loads the packaged AI output schemas and prompt templates. Schema files
// are named seed/schema_<version>.json; template files seed/template_<name>_<version>.txt
// where <version> also names the schema the template's output must match
// (summary and doubt templates produce free text and carry no schema).
// Rows that already exist are left alone, so templates edited in the database
// survive restarts; shipping new packaged text means bumping the version.
func Seed(ctx context.Context, d *DB, seedFS embed.FS) error {
	entries, err := fs.ReadDir(seedFS, "seed")
	if err != nil {
		// seeding is optional
		return nil
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		b, err := fs.ReadFile(seedFS, path.Join("seed", name))
		if err != nil {
			return fmt.Errorf("read seed %s: %w", name, err)
		}

		switch {
		case strings.HasPrefix(name, "schema_") && strings.HasSuffix(name, ".json"):
			version := strings.TrimSuffix(strings.TrimPrefix(name, "schema_"), ".json")
			if _, err := d.Exec(ctx, `INSERT OR IGNORE INTO ai_schemas (version, description, schema_json, created, updated) VALUES (?, ?, ?, strftime('%s','now'), strftime('%s','now'))`, version, "packaged "+version+" output schema", string(b)); err != nil {
				return fmt.Errorf("seed schema %s: %w", name, err)
			}
		case strings.HasPrefix(name, "template_") && strings.HasSuffix(name, ".txt"):
			base := strings.TrimSuffix(strings.TrimPrefix(name, "template_"), ".txt")
			idx := strings.LastIndex(base, "_")
			if idx <= 0 {
				continue
			}
			tname, version := base[:idx], base[idx+1:]
			var schemaVer any
			var n int
			if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM ai_schemas WHERE version = ?`, tname).Scan(&n); err == nil && n > 0 {
				schemaVer = tname
			}
			if _, err := d.Exec(ctx, `INSERT OR IGNORE INTO ai_templates (name, version, template_text, schema_version, metadata, created, updated) VALUES (?, ?, ?, ?, ?, strftime('%s','now'), strftime('%s','now'))`, tname, version, string(b), schemaVer, `{"owner":"system"}`); err != nil {
				return fmt.Errorf("seed template %s: %w", name, err)
			}
		}
	}

	return nil
}
