// Package db provides optional PostgreSQL persistence for pipeline runs and
// their artifacts. The pipeline works fully without it; persistence exists
// for auditing what was generated for which posting.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the runs and artifacts tables when they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS application_runs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			job_url TEXT NOT NULL,
			company TEXT NOT NULL DEFAULT '',
			job_title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			output_dir TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		);
		CREATE TABLE IF NOT EXISTS run_artifacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			run_id UUID NOT NULL REFERENCES application_runs(id) ON DELETE CASCADE,
			stage TEXT NOT NULL,
			content JSONB,
			text_content TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (run_id, stage)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CreateRun records the start of a pipeline run and returns its ID.
func (db *DB) CreateRun(ctx context.Context, jobURL string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO application_runs (job_url, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		jobURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun records the run's final status and output location.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status, company, jobTitle, outputDir string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE application_runs
		 SET status = $1, company = $2, job_title = $3, output_dir = $4, completed_at = NOW()
		 WHERE id = $5`,
		status, company, jobTitle, outputDir, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a pipeline stage, replacing any
// earlier artifact for the same stage.
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, stage string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, stage, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, stage) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, stage, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", stage, err)
	}
	return nil
}

// SaveTextArtifact stores a text artifact for a pipeline stage.
func (db *DB) SaveTextArtifact(ctx context.Context, runID uuid.UUID, stage, text string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, stage, text_content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, stage) DO UPDATE SET text_content = $3, created_at = NOW()`,
		runID, stage, text,
	)
	if err != nil {
		return fmt.Errorf("failed to save text artifact %s: %w", stage, err)
	}
	return nil
}

