package sqlite

import (
	"context"
	"database/sql"

	"github.com/iitconnect/iitconnect/pkg/models"
)

// CreateTemplate inserts or updates a prompt template by (name, version).
func (r *SQLiteRepo) CreateTemplate(ctx context.Context, name, version, templateText string, schemaVersion, metadata *string) (int64, error) {
	res, err := r.conn.Exec(ctx, `INSERT INTO ai_templates (name, version, template_text, schema_version, metadata, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(name, version) DO UPDATE SET template_text=excluded.template_text, schema_version=excluded.schema_version, metadata=excluded.metadata, updated=excluded.updated`,
		name, version, templateText, schemaVersion, metadata, now(), now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) GetTemplate(ctx context.Context, name, version string) (*models.Template, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, version, template_text, schema_version, metadata, created, updated FROM ai_templates WHERE name = ? AND version = ?`, name, version)
	var t models.Template
	var schemaVer, metadata sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Version, &t.TemplateTxt, &schemaVer, &metadata, &t.Created, &t.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if schemaVer.Valid {
		t.SchemaVer = &schemaVer.String
	}
	if metadata.Valid {
		t.Metadata = &metadata.String
	}
	return &t, nil
}

func (r *SQLiteRepo) ListTemplates(ctx context.Context) ([]models.Template, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, version, template_text, schema_version, metadata, created, updated FROM ai_templates ORDER BY name, version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Template
	for rows.Next() {
		var t models.Template
		var schemaVer, metadata sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.Version, &t.TemplateTxt, &schemaVer, &metadata, &t.Created, &t.Updated); err != nil {
			return nil, err
		}
		if schemaVer.Valid {
			t.SchemaVer = &schemaVer.String
		}
		if metadata.Valid {
			t.Metadata = &metadata.String
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) DeleteTemplate(ctx context.Context, name, version string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM ai_templates WHERE name = ? AND version = ?`, name, version)
	return err
}
