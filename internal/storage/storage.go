// Package storage persists analysis results in Postgres. Persistence is
// optional for the whole application; callers must treat a nil *Store as
// "storage disabled".
package storage

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"atscan/internal/config"
	"atscan/internal/errors"
	"atscan/internal/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker/v2"
)

const defaultPageSize = 20

// Store provides persistence for analysis results backed by a pgx pool.
// All queries run behind an optional circuit breaker so a failing database
// degrades history endpoints without stalling analysis traffic.
type Store struct {
	pool   *pgxpool.Pool
	cfg    config.StorageConfig
	cb     *gobreaker.CircuitBreaker[any]
	logger *errors.Logger
}

// New connects to Postgres, verifies connectivity and ensures the schema.
// Returns (nil, nil) when storage is not configured.
func New(ctx context.Context, cfg config.StorageConfig, logger *errors.Logger) (*Store, error) {
	if !cfg.Enabled() {
		if logger != nil {
			logger.Debug("Storage disabled, running stateless")
		}
		return nil, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid storage DSN", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageUnavailable, "failed to open connection pool", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStorageUnavailable, "failed to ping database", err)
	}

	s := &Store{
		pool:   pool,
		cfg:    cfg,
		cb:     newStorageBreaker(cfg.CircuitBreaker, logger),
		logger: logger,
	}

	if err := s.ensureSchema(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("Storage connected",
			"max_conns", poolCfg.MaxConns,
			"circuit_breaker", cfg.CircuitBreaker.Enabled)
	}
	return s, nil
}

// newStorageBreaker builds the breaker from configuration; nil when disabled.
func newStorageBreaker(cfg config.CircuitBreakerConfig, logger *errors.Logger) *gobreaker.CircuitBreaker[any] {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        "storage",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String())
			}
		},
	}
	return gobreaker.NewCircuitBreaker[any](settings)
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS analyses (
	id UUID PRIMARY KEY,
	file_name TEXT NOT NULL DEFAULT '',
	job_title TEXT NOT NULL DEFAULT '',
	job_description TEXT NOT NULL DEFAULT '',
	overall_score INT NOT NULL,
	result JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
`)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageUnavailable, "failed to ensure schema", err)
	}
	return nil
}

// execute runs fn behind the circuit breaker when one is configured.
func (s *Store) execute(fn func() (any, error)) (any, error) {
	if s.cb == nil {
		return fn()
	}
	return s.cb.Execute(fn)
}

func (s *Store) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

// Save persists one analysis and returns its assigned ID.
func (s *Store) Save(ctx context.Context, a types.StoredAnalysis) (types.StoredAnalysis, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	resultJSON, err := json.Marshal(a.Result)
	if err != nil {
		return types.StoredAnalysis{}, errors.NewInternalError(errors.ErrCodeAnalysisFailed, "failed to encode analysis result", err)
	}

	_, err = s.execute(func() (any, error) {
		qctx, cancel := s.queryCtx(ctx)
		defer cancel()
		_, execErr := s.pool.Exec(qctx, `
INSERT INTO analyses (id, file_name, job_title, job_description, overall_score, result, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, a.ID, a.FileName, a.JobTitle, a.JobDescription, a.Result.OverallScore, resultJSON, a.CreatedAt)
		return nil, execErr
	})
	if err != nil {
		if s.logger != nil {
			s.logger.LogError(err, "Failed to save analysis", "id", a.ID.String())
		}
		return types.StoredAnalysis{}, errors.NewStorageError(errors.ErrCodeStorageUnavailable, "failed to save analysis", err)
	}

	if s.logger != nil {
		s.logger.Debug("Analysis saved", "id", a.ID.String(), "overall_score", a.Result.OverallScore)
	}
	return a, nil
}

// GetByID fetches one stored analysis.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (types.StoredAnalysis, error) {
	res, err := s.execute(func() (any, error) {
		qctx, cancel := s.queryCtx(ctx)
		defer cancel()

		row := s.pool.QueryRow(qctx, `
SELECT id, file_name, job_title, job_description, result, created_at
FROM analyses WHERE id = $1
`, id)

		var a types.StoredAnalysis
		var resultBytes []byte
		if err := row.Scan(&a.ID, &a.FileName, &a.JobTitle, &a.JobDescription, &resultBytes, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultBytes, &a.Result); err != nil {
			return nil, fmt.Errorf("decode stored result: %w", err)
		}
		a.CreatedAt = a.CreatedAt.UTC()
		return a, nil
	})
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return types.StoredAnalysis{}, errors.NewStorageError(errors.ErrCodeNotFound,
				fmt.Sprintf("analysis %s not found", id), err)
		}
		return types.StoredAnalysis{}, errors.NewStorageError(errors.ErrCodeStorageUnavailable, "failed to fetch analysis", err)
	}
	return res.(types.StoredAnalysis), nil
}

// List returns a page of stored analyses, newest first. Page numbering is
// 1-based; out-of-range values fall back to sane defaults.
func (s *Store) List(ctx context.Context, page, pageSize int) (types.AnalysisHistory, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}
	offset := (page - 1) * pageSize

	res, err := s.execute(func() (any, error) {
		qctx, cancel := s.queryCtx(ctx)
		defer cancel()

		var total int
		if err := s.pool.QueryRow(qctx, `SELECT COUNT(*) FROM analyses`).Scan(&total); err != nil {
			return nil, err
		}

		rows, err := s.pool.Query(qctx, `
SELECT id, file_name, job_title, job_description, result, created_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, pageSize, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		history := types.AnalysisHistory{
			Analyses:   []types.StoredAnalysis{},
			TotalCount: total,
			Page:       page,
			PageSize:   pageSize,
		}
		for rows.Next() {
			var a types.StoredAnalysis
			var resultBytes []byte
			if err := rows.Scan(&a.ID, &a.FileName, &a.JobTitle, &a.JobDescription, &resultBytes, &a.CreatedAt); err != nil {
				return nil, err
			}
			if err := json.Unmarshal(resultBytes, &a.Result); err != nil {
				return nil, fmt.Errorf("decode stored result: %w", err)
			}
			a.CreatedAt = a.CreatedAt.UTC()
			history.Analyses = append(history.Analyses, a)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return history, nil
	})
	if err != nil {
		return types.AnalysisHistory{}, errors.NewStorageError(errors.ErrCodeStorageUnavailable, "failed to list analyses", err)
	}
	return res.(types.AnalysisHistory), nil
}

// Delete removes one stored analysis.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.execute(func() (any, error) {
		qctx, cancel := s.queryCtx(ctx)
		defer cancel()
		tag, execErr := s.pool.Exec(qctx, `DELETE FROM analyses WHERE id = $1`, id)
		if execErr != nil {
			return nil, execErr
		}
		return tag.RowsAffected(), nil
	})
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageUnavailable, "failed to delete analysis", err)
	}
	if res.(int64) == 0 {
		return errors.NewStorageError(errors.ErrCodeNotFound,
			fmt.Sprintf("analysis %s not found", id), nil)
	}
	return nil
}

// Ping verifies database connectivity for health checks.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.pool.Ping(ctx)
	})
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageUnavailable, "database ping failed", err)
	}
	return nil
}

// Stats reports pool and circuit breaker statistics for diagnostics.
func (s *Store) Stats() map[string]any {
	stats := map[string]any{
		"enabled": true,
	}
	if s.pool != nil {
		poolStats := s.pool.Stat()
		stats["pool"] = map[string]any{
			"total_conns":    poolStats.TotalConns(),
			"idle_conns":     poolStats.IdleConns(),
			"acquired_conns": poolStats.AcquiredConns(),
			"max_conns":      poolStats.MaxConns(),
		}
	}
	if s.cb != nil {
		stats["circuit_breaker"] = map[string]any{
			"state":  s.cb.State().String(),
			"counts": s.cb.Counts(),
		}
	} else {
		stats["circuit_breaker"] = map[string]any{"enabled": false}
	}
	return stats
}

// IsHealthy reports whether the circuit breaker allows traffic.
func (s *Store) IsHealthy() bool {
	if s == nil {
		return true
	}
	if s.cb == nil {
		return true
	}
	return s.cb.State() == gobreaker.StateClosed
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}
