// Package storage implements the experiment store on libsql/Turso.
// The store treats experiments as append-only: one transaction writes
// the experiment row and every result row together, so a partial
// experiment can never be observed.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/llmetrics/llmetrics/internal/domain"
	"github.com/llmetrics/llmetrics/internal/ports"
)

var _ ports.ExperimentStore = (*Store)(nil)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS experiments (
	id         TEXT PRIMARY KEY,
	prompt     TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS model_results (
	experiment_id     TEXT    NOT NULL REFERENCES experiments(id),
	position          INTEGER NOT NULL,
	model_name        TEXT    NOT NULL,
	response          TEXT    NOT NULL,
	response_seconds  REAL    NOT NULL,
	token_count       INTEGER NOT NULL,
	prompt_tokens     INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	cost_usd          REAL    NOT NULL,
	accuracy          REAL    NOT NULL,
	relevancy         REAL    NOT NULL,
	UNIQUE (experiment_id, model_name)
);

CREATE INDEX IF NOT EXISTS idx_model_results_model
	ON model_results (model_name);
`

// Open connects to a libsql database. databaseURL may be a remote Turso
// URL or a local "file:" path; authToken is appended for remote URLs
// and ignored when empty.
func Open(databaseURL, authToken string) (*sql.DB, error) {
	connStr := databaseURL
	if authToken != "" {
		connStr += "?authToken=" + authToken
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("open libsql database: %w", err)
	}

	// Turso aggressively closes idle streams, so keep connections fresh
	// rather than pooled.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Store persists experiments and serves the dashboard's read queries.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store and bootstraps the schema.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	// The libsql driver executes only one statement per Exec call, so
	// the schema is applied statement by statement.
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, domain.NewStoreError("bootstrap", err)
		}
	}
	return &Store{db: db}, nil
}

// CreateExperiment writes one experiment and all of its result rows in
// a single transaction. Either everything is persisted or nothing is.
func (s *Store) CreateExperiment(ctx context.Context, prompt string, results []domain.ModelResult) (domain.Experiment, error) {
	experiment := domain.NewExperiment(prompt, results)
	if err := experiment.Validate(); err != nil {
		return domain.Experiment{}, domain.NewStoreError("create", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Experiment{}, domain.NewStoreError("create", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO experiments (id, prompt, created_at) VALUES (?, ?, ?)`,
		experiment.ID, experiment.Prompt, experiment.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		return domain.Experiment{}, domain.NewStoreError("create", fmt.Errorf("insert experiment: %w", err))
	}

	for i, result := range experiment.Results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO model_results (
				experiment_id, position, model_name, response, response_seconds,
				token_count, prompt_tokens, completion_tokens, cost_usd, accuracy, relevancy
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			experiment.ID, i, result.ModelName, result.ResponseText, result.ResponseSeconds,
			result.TokenCount, result.PromptTokens, result.CompletionTokens,
			result.CostUSD, result.AccuracyPercent, result.RelevancyPercent,
		)
		if err != nil {
			return domain.Experiment{}, domain.NewStoreError("create",
				fmt.Errorf("insert result for %s: %w", result.ModelName, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Experiment{}, domain.NewStoreError("create", err)
	}

	return experiment, nil
}

// ListExperiments returns the most recent experiments with their
// results, newest first. Results keep their settlement order.
func (s *Store) ListExperiments(ctx context.Context, limit int) ([]domain.Experiment, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prompt, created_at FROM experiments ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	defer rows.Close()

	var experiments []domain.Experiment
	for rows.Next() {
		var exp domain.Experiment
		var createdAt string
		if err := rows.Scan(&exp.ID, &exp.Prompt, &createdAt); err != nil {
			return nil, domain.NewStoreError("list", fmt.Errorf("scan experiment: %w", err))
		}
		if exp.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, domain.NewStoreError("list", fmt.Errorf("parse created_at: %w", err))
		}
		experiments = append(experiments, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list", err)
	}

	for i := range experiments {
		if experiments[i].Results, err = s.resultsFor(ctx, experiments[i].ID); err != nil {
			return nil, err
		}
	}

	return experiments, nil
}

func (s *Store) resultsFor(ctx context.Context, experimentID string) ([]domain.ModelResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model_name, response, response_seconds, token_count, prompt_tokens,
			completion_tokens, cost_usd, accuracy, relevancy
		FROM model_results WHERE experiment_id = ? ORDER BY position`, experimentID)
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	defer rows.Close()

	var results []domain.ModelResult
	for rows.Next() {
		var r domain.ModelResult
		if err := rows.Scan(&r.ModelName, &r.ResponseText, &r.ResponseSeconds,
			&r.TokenCount, &r.PromptTokens, &r.CompletionTokens,
			&r.CostUSD, &r.AccuracyPercent, &r.RelevancyPercent); err != nil {
			return nil, domain.NewStoreError("list", fmt.Errorf("scan result: %w", err))
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ModelAggregates returns per-model summary statistics across all
// persisted experiments, feeding the analytics dashboard.
func (s *Store) ModelAggregates(ctx context.Context) ([]ports.ModelAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model_name, COUNT(*), AVG(accuracy), AVG(relevancy),
			AVG(response_seconds), SUM(cost_usd), SUM(token_count)
		FROM model_results GROUP BY model_name ORDER BY model_name`)
	if err != nil {
		return nil, domain.NewStoreError("aggregate", err)
	}
	defer rows.Close()

	var aggregates []ports.ModelAggregate
	for rows.Next() {
		var a ports.ModelAggregate
		if err := rows.Scan(&a.ModelName, &a.Experiments, &a.AvgAccuracy, &a.AvgRelevancy,
			&a.AvgResponseTime, &a.TotalCost, &a.TotalTokens); err != nil {
			return nil, domain.NewStoreError("aggregate", fmt.Errorf("scan aggregate: %w", err))
		}
		aggregates = append(aggregates, a)
	}
	return aggregates, rows.Err()
}
