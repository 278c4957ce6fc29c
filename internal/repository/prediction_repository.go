package repository

import (
	"context"
	"encoding/json"

	"mood-swing/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const createPredictionsTable = `
CREATE TABLE IF NOT EXISTS prediction_runs (
    id            BIGSERIAL PRIMARY KEY,
    symbol        TEXT             NOT NULL,
    run_at        TIMESTAMPTZ      NOT NULL,
    prob_down     DOUBLE PRECISION NOT NULL,
    prob_up       DOUBLE PRECISION NOT NULL,
    best_accuracy DOUBLE PRECISION NOT NULL,
    cv_mean       DOUBLE PRECISION NOT NULL,
    cv_std        DOUBLE PRECISION NOT NULL,
    params_json   TEXT             NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_prediction_runs_symbol_time
    ON prediction_runs (symbol, run_at DESC);
`

// PredictionRepository keeps a history of pipeline runs so the dashboard
// can chart how the model's outlook and accuracy drift over time.
type PredictionRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewPredictionRepository(pool PgxPool, tracer trace.Tracer) *PredictionRepository {
	return &PredictionRepository{pool: pool, tracer: tracer}
}

func (r *PredictionRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "prediction-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createPredictionsTable)
	return err
}

func (r *PredictionRepository) InsertRun(ctx context.Context, run domain.PredictionRun) (*domain.PredictionRun, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.insert-run")
	defer span.End()

	params := run.ParamsJSON
	if params == "" || !json.Valid([]byte(params)) {
		params = "{}"
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO prediction_runs
		     (symbol, run_at, prob_down, prob_up, best_accuracy, cv_mean, cv_std, params_json)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		run.Symbol, run.RunAt.UTC(), run.ProbDown, run.ProbUp,
		run.BestAccuracy, run.CVMean, run.CVStd, params,
	)
	if err := row.Scan(&run.ID); err != nil {
		return nil, err
	}
	run.ParamsJSON = params
	return &run, nil
}

// RecentRuns returns the latest runs for a symbol, newest first.
func (r *PredictionRepository) RecentRuns(ctx context.Context, symbol string, limit int) ([]domain.PredictionRun, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.recent-runs")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, symbol, run_at, prob_down, prob_up, best_accuracy, cv_mean, cv_std, params_json
		 FROM prediction_runs
		 WHERE symbol = $1
		 ORDER BY run_at DESC
		 LIMIT $2`,
		symbol, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.PredictionRun
	for rows.Next() {
		var run domain.PredictionRun
		if err := rows.Scan(&run.ID, &run.Symbol, &run.RunAt, &run.ProbDown, &run.ProbUp,
			&run.BestAccuracy, &run.CVMean, &run.CVStd, &run.ParamsJSON); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
