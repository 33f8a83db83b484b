package postgres

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS node_context (
		node_id    TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (node_id, key)
	)`,
	`CREATE TABLE IF NOT EXISTS flow_variables (
		scope      TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (scope, key)
	)`,
}

// EnsureSchema creates the context and variable tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrap(err, "ensure schema")
		}
	}
	return nil
}
