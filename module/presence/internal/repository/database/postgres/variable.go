package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/nandanugg/geopresence/module/presence/internal/repository/database"
)

var _ database.VariableRepository = (*VariableRepo)(nil)

type VariableRepo struct {
	db *sql.DB
}

func NewVariableRepo(db *sql.DB) *VariableRepo {
	return &VariableRepo{db: db}
}

func (r *VariableRepo) Get(ctx context.Context, scope, key string) (any, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT value FROM flow_variables WHERE scope = $1 AND key = $2`,
		scope, key,
	)
	return scanValue(row, "variables: get")
}

func (r *VariableRepo) Set(ctx context.Context, scope, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return eris.Wrap(err, "variables: encode value")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO flow_variables (scope, key, value, updated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		scope, key, string(raw),
	)
	return eris.Wrap(err, "variables: set")
}

func (r *VariableRepo) Delete(ctx context.Context, scope, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM flow_variables WHERE scope = $1 AND key = $2`, scope, key)
	return eris.Wrap(err, "variables: delete")
}
