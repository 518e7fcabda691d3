package postgres

import (
	"context"
	"encoding/json"
	"time"

	"procova/domain/core"
	"procova/domain/design"
	"procova/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// EnsureSchema creates the estimation_runs table if it does not exist
func (r *RunRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS estimation_runs (
			id UUID PRIMARY KEY,
			dataset TEXT NOT NULL,
			branch TEXT NOT NULL,
			outcome TEXT NOT NULL,
			covariates JSONB NOT NULL DEFAULT '[]',
			interaction BOOLEAN NOT NULL DEFAULT FALSE,
			n INTEGER NOT NULL,
			ratio DOUBLE PRECISION NOT NULL,
			ate DOUBLE PRECISION NOT NULL,
			margin DOUBLE PRECISION NOT NULL,
			alpha DOUBLE PRECISION NOT NULL,
			results JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// Save inserts an estimation run
func (r *RunRepositoryImpl) Save(ctx context.Context, run *design.Run) error {
	covariatesJSON, _ := json.Marshal(run.Covariates)
	resultsJSON, _ := json.Marshal(run.Results)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO estimation_runs (
			id, dataset, branch, outcome, covariates, interaction,
			n, ratio, ate, margin, alpha, results, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		run.ID.String(), run.Dataset, run.Branch, run.Outcome, covariatesJSON, run.Interaction,
		run.Design.N, run.Design.Ratio, run.Design.ATE, run.Design.Margin, run.Design.Alpha,
		resultsJSON, run.CreatedAt.Time())
	return err
}

// ListRecent returns the most recent runs, newest first
func (r *RunRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*design.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, dataset, branch, outcome, covariates, interaction,
		       n, ratio, ate, margin, alpha, results, created_at
		FROM estimation_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*design.Run
	for rows.Next() {
		var (
			run            design.Run
			id             string
			covariatesJSON []byte
			resultsJSON    []byte
			createdAt      time.Time
		)
		if err := rows.Scan(&id, &run.Dataset, &run.Branch, &run.Outcome, &covariatesJSON, &run.Interaction,
			&run.Design.N, &run.Design.Ratio, &run.Design.ATE, &run.Design.Margin, &run.Design.Alpha,
			&resultsJSON, &createdAt); err != nil {
			return nil, err
		}
		run.ID = core.RunID(id)
		run.CreatedAt = core.Timestamp(createdAt)
		if err := json.Unmarshal(covariatesJSON, &run.Covariates); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
