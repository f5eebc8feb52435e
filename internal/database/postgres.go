package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-app/internal/config"
	"todo-app/pkg/logger"

	"github.com/lib/pq"
)

// OpenPostgres opens and pings a connection pool sized from cfg.
func OpenPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBPoolSize)
	db.SetMaxIdleConns(max(cfg.DBPoolSize/2, 1))
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info(ctx, "Database pool initialized", "max_open", cfg.DBPoolSize)
	return db, nil
}

// MigrateOrCreateSchema creates the todos table keyed by (user_id, todo_id) if it is missing.
func MigrateOrCreateSchema(ctx context.Context, db *sql.DB, table string) error {
	q := `CREATE TABLE IF NOT EXISTS ` + pq.QuoteIdentifier(table) + ` (
		user_id    TEXT    NOT NULL,
		todo_id    TEXT    NOT NULL,
		title      TEXT    NOT NULL,
		completed  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT    NOT NULL,
		PRIMARY KEY (user_id, todo_id)
	)`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	logger.Info(ctx, "Schema ensured", "table", table)
	return nil
}
