package config

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"
)

const (
	postgresMaxOpenConns    = 10
	postgresConnMaxIdleTime = 5 * time.Minute
	postgresPingTimeout     = 5 * time.Second
)

// NewPostgres opens the node context store. Evaluations hold a connection
// only for single row reads and upserts, so the pool stays small.
func NewPostgres(cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, eris.Wrap(err, "postgres open")
	}
	db.SetMaxOpenConns(postgresMaxOpenConns)
	db.SetMaxIdleConns(postgresMaxOpenConns / 2)
	db.SetConnMaxIdleTime(postgresConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), postgresPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "postgres ping")
	}
	return db, nil
}
