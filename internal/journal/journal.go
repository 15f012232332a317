// Package journal persists completed backtest runs.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/algonex/algonex/internal/engine"
)

var ErrNotFound = errors.New("run not found")

// Run is one completed backtest: the configuration summary, the trade log
// and the resulting performance record.
type Run struct {
	ID          uuid.UUID          `json:"id"`
	Ticker      string             `json:"ticker"`
	Strategy    string             `json:"strategy"`
	Mode        string             `json:"mode"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Trades      []engine.Trade     `json:"trades"`
	Performance engine.Performance `json:"performance"`
}

// NewRun stamps a fresh run record with an ID.
func NewRun(ticker, strategyName, mode string) Run {
	return Run{
		ID:        uuid.New(),
		Ticker:    ticker,
		Strategy:  strategyName,
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}
}

// Journal stores and retrieves runs.
type Journal interface {
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id uuid.UUID) (Run, error)
	ListRuns(ctx context.Context, ticker string) ([]Run, error)
}
