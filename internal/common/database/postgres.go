// internal/common/database/postgres.go

// Package database holds the storage client wrappers: Postgres for program
// document requirements, Redis for the requirements cache, Elasticsearch for
// the generation audit trail.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"loandoc-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the connection pool holding program requirement data.
// The raw *sql.DB is exposed so the requirements source can query it directly.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection.
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
