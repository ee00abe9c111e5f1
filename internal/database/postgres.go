// Package database implements the persistent store collaborator on top of
// PostgreSQL via pgx connection pools.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool against databaseURL and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations creates the schema when it does not exist yet. The schema is
// small enough that idempotent DDL beats a migration tool here.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			team_id      TEXT PRIMARY KEY,
			team_name    TEXT NOT NULL,
			team_address TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS team_tasks (
			task_id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			title           TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			team_assigned   TEXT NOT NULL REFERENCES teams(team_id),
			status          TEXT NOT NULL DEFAULT 'PENDING',
			priority        TEXT NOT NULL,
			creation_date   TIMESTAMPTZ NOT NULL DEFAULT now(),
			start_date      TIMESTAMPTZ,
			completion_date TIMESTAMPTZ,
			deadline        TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS team_tasks_team_status_idx
			ON team_tasks (team_assigned, status)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
