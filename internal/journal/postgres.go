package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Postgres persists runs in a single runs table with the trade log and
// performance record stored as JSON columns.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(connStr string) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p := &Postgres{db: db}
	if err := p.migrate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) migrate() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id UUID PRIMARY KEY,
			ticker TEXT NOT NULL,
			strategy TEXT NOT NULL,
			mode TEXT NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			trades JSONB NOT NULL,
			performance JSONB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate runs table: %w", err)
	}
	return nil
}

// executeWithTransaction wraps fn in a transaction with rollback on error.
func (p *Postgres) executeWithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if fnErr := fn(tx); fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction rollback failed: %w (original error: %v)", rbErr, fnErr)
		}
		return fnErr
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("transaction commit failed: %w", commitErr)
	}
	return nil
}

func (p *Postgres) SaveRun(ctx context.Context, r Run) error {
	trades, err := json.Marshal(r.Trades)
	if err != nil {
		return fmt.Errorf("encode trades: %w", err)
	}
	perf, err := json.Marshal(r.Performance)
	if err != nil {
		return fmt.Errorf("encode performance: %w", err)
	}

	return p.executeWithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, ticker, strategy, mode, started_at, finished_at, trades, performance)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (id) DO UPDATE SET
				finished_at=EXCLUDED.finished_at, trades=EXCLUDED.trades,
				performance=EXCLUDED.performance`,
			r.ID, r.Ticker, r.Strategy, r.Mode, r.StartedAt, r.FinishedAt, trades, perf)
		if err != nil {
			return fmt.Errorf("failed to save run %s: %w", r.ID, err)
		}
		return nil
	})
}

func (p *Postgres) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, ticker, strategy, mode, started_at, finished_at, trades, performance
		FROM runs WHERE id = $1`, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, ErrNotFound
	}
	return r, err
}

func (p *Postgres) ListRuns(ctx context.Context, ticker string) ([]Run, error) {
	query := `
		SELECT id, ticker, strategy, mode, started_at, finished_at, trades, performance
		FROM runs`
	args := []any{}
	if ticker != "" {
		query += ` WHERE ticker = $1`
		args = append(args, ticker)
	}
	query += ` ORDER BY started_at`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	var trades, perf []byte
	if err := s.Scan(&r.ID, &r.Ticker, &r.Strategy, &r.Mode, &r.StartedAt, &r.FinishedAt, &trades, &perf); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal(trades, &r.Trades); err != nil {
		return Run{}, fmt.Errorf("decode trades: %w", err)
	}
	if err := json.Unmarshal(perf, &r.Performance); err != nil {
		return Run{}, fmt.Errorf("decode performance: %w", err)
	}
	return r, nil
}
