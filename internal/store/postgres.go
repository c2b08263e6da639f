package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	_ "github.com/lib/pq"
	"github.com/sony/gobreaker"
	"github.com/walksync/walksync/internal/model"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// PostgresStore persists walks and run status in Postgres. Writes run
// through a circuit breaker with bounded retries, matching the rest of the
// service's treatment of the database as an unreliable dependency.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
	cb     *gobreaker.CircuitBreaker
}

func NewPostgresStore(config ProviderConfig, logger *zap.Logger, meter metric.Meter) (*PostgresStore, error) {
	if meter != nil {
		InitStoreMetrics(meter)
	}
	pgLogger := logger.Named("postgres")

	connStr, ok := config.ExtraDetails["conn_str"].(string)
	if !ok {
		return nil, fmt.Errorf("conn_str is required for Postgres store")
	}

	dbConn, err := sql.Open("postgres", connStr)
	if err != nil {
		pgLogger.Error("failed to open Postgres connection", zap.Error(err))
		return nil, fmt.Errorf("failed to open Postgres connection: %w", err)
	}

	if err := dbConn.Ping(); err != nil {
		pgLogger.Error("failed to ping Postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	// Automatically create tables if they do not exist
	if _, err := dbConn.Exec(model.Schema); err != nil {
		pgLogger.Error("failed to create initial tables", zap.Error(err))
		return nil, fmt.Errorf("failed to create initial tables: %w", err)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "PostgresDB",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})

	pgLogger.Info("Postgres store initialized successfully")
	return &PostgresStore{
		db:     dbConn,
		logger: pgLogger,
		cb:     cb,
	}, nil
}

// UpsertWalk inserts or updates one walk keyed by id, refreshing last_seen.
func (p *PostgresStore) UpsertWalk(ctx context.Context, walk model.WalkRecord) error {
	var opErr error
	retry.Do(
		func() error {
			_, err := p.cb.Execute(func() (interface{}, error) {
				_, err := p.db.ExecContext(ctx, `
					INSERT INTO walks (id, group_name, title, difficulty, distance, walk_date, location, details_url, description, last_seen)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
					ON CONFLICT (id) DO UPDATE SET
						group_name = EXCLUDED.group_name,
						title = EXCLUDED.title,
						difficulty = EXCLUDED.difficulty,
						distance = EXCLUDED.distance,
						walk_date = EXCLUDED.walk_date,
						location = EXCLUDED.location,
						details_url = EXCLUDED.details_url,
						description = EXCLUDED.description,
						last_seen = now()
				`, walk.ID, walk.GroupName, walk.Title, walk.Difficulty, walk.Distance,
					nullableTime(walk.WalkDate), walk.Location, walk.DetailsURL, walk.Description)
				if err != nil {
					return nil, fmt.Errorf("failed to upsert walk: %w", err)
				}
				return nil, nil
			})
			opErr = err
			return err
		},
		retry.Attempts(3),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("retrying UpsertWalk", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if opErr == nil {
		recordUpsert(ctx, "ok")
	} else {
		recordUpsert(ctx, "error")
	}
	return opErr
}

// ListWalks returns all walks ordered by walk_date ascending. Rows without
// a date sort first; NULLS FIRST makes the store's null-ordering explicit
// rather than relying on the engine default.
func (p *PostgresStore) ListWalks(ctx context.Context) ([]model.WalkRecord, error) {
	var result []model.WalkRecord
	var opErr error
	retry.Do(
		func() error {
			res, err := p.cb.Execute(func() (interface{}, error) {
				return p.queryWalks(ctx)
			})
			if err == nil {
				result = res.([]model.WalkRecord)
			}
			opErr = err
			return err
		},
		retry.Attempts(3),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("retrying ListWalks", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if opErr == nil {
		recordQuery(ctx, "list_walks")
	}
	return result, opErr
}

func (p *PostgresStore) queryWalks(ctx context.Context) ([]model.WalkRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, group_name, title, difficulty, distance, walk_date, location, details_url, description, last_seen
		FROM walks
		ORDER BY walk_date ASC NULLS FIRST
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query walks: %w", err)
	}
	defer rows.Close()

	var walks []model.WalkRecord
	for rows.Next() {
		var w model.WalkRecord
		var walkDate sql.NullTime
		if err := rows.Scan(&w.ID, &w.GroupName, &w.Title, &w.Difficulty, &w.Distance,
			&walkDate, &w.Location, &w.DetailsURL, &w.Description, &w.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan walk row: %w", err)
		}
		if walkDate.Valid {
			t := walkDate.Time
			w.WalkDate = &t
		}
		walks = append(walks, w)
	}
	return walks, rows.Err()
}

// UpdateRunStatus upserts the singleton status row. The COALESCE keeps the
// previously recorded success timestamp when a failed run passes nil.
func (p *PostgresStore) UpdateRunStatus(ctx context.Context, status model.RunStatus) error {
	var opErr error
	retry.Do(
		func() error {
			_, err := p.cb.Execute(func() (interface{}, error) {
				_, err := p.db.ExecContext(ctx, `
					INSERT INTO scraper_status (id, last_successful_run, last_run_status, last_error_message)
					VALUES (1, $1, $2, $3)
					ON CONFLICT (id) DO UPDATE SET
						last_successful_run = COALESCE(EXCLUDED.last_successful_run, scraper_status.last_successful_run),
						last_run_status = EXCLUDED.last_run_status,
						last_error_message = EXCLUDED.last_error_message
				`, nullableTime(status.LastSuccessfulRun), status.LastRunStatus, status.LastErrorMessage)
				if err != nil {
					return nil, fmt.Errorf("failed to upsert run status: %w", err)
				}
				return nil, nil
			})
			opErr = err
			return err
		},
		retry.Attempts(3),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("retrying UpdateRunStatus", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	return opErr
}

// GetRunStatus reads the singleton status row. A missing row means the
// scraper has never reported in, which is not an error.
func (p *PostgresStore) GetRunStatus(ctx context.Context) (*model.RunStatus, error) {
	var result *model.RunStatus
	var opErr error
	retry.Do(
		func() error {
			res, err := p.cb.Execute(func() (interface{}, error) {
				return p.queryRunStatus(ctx)
			})
			if err == nil {
				result = res.(*model.RunStatus)
			}
			opErr = err
			return err
		},
		retry.Attempts(3),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("retrying GetRunStatus", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if opErr == nil {
		recordQuery(ctx, "get_run_status")
	}
	return result, opErr
}

func (p *PostgresStore) queryRunStatus(ctx context.Context) (*model.RunStatus, error) {
	var status model.RunStatus
	var lastRun sql.NullTime
	var lastErr sql.NullString

	err := p.db.QueryRowContext(ctx, `
		SELECT last_successful_run, last_run_status, last_error_message
		FROM scraper_status
		WHERE id = 1
	`).Scan(&lastRun, &status.LastRunStatus, &lastErr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run status: %w", err)
	}

	if lastRun.Valid {
		t := lastRun.Time
		status.LastSuccessfulRun = &t
	}
	if lastErr.Valid {
		msg := lastErr.String
		status.LastErrorMessage = &msg
	}
	return &status, nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
