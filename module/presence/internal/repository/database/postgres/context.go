package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/nandanugg/geopresence/module/presence/internal/repository/database"
)

var _ database.ContextStore = (*ContextRepo)(nil)

type ContextRepo struct {
	db *sql.DB
}

func NewContextRepo(db *sql.DB) *ContextRepo {
	return &ContextRepo{db: db}
}

func (r *ContextRepo) Get(ctx context.Context, nodeID, key string) (any, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT value FROM node_context WHERE node_id = $1 AND key = $2`,
		nodeID, key,
	)
	return scanValue(row, "node context: get")
}

func (r *ContextRepo) Set(ctx context.Context, nodeID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return eris.Wrap(err, "node context: encode value")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO node_context (node_id, key, value, updated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (node_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		nodeID, key, string(raw),
	)
	return eris.Wrap(err, "node context: set")
}

func (r *ContextRepo) Clear(ctx context.Context, nodeID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM node_context WHERE node_id = $1`, nodeID)
	return eris.Wrap(err, "node context: clear")
}

func scanValue(row *sql.Row, op string) (any, bool, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, eris.Wrap(err, op)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, eris.Wrap(err, op+": decode value")
	}
	return v, true, nil
}
