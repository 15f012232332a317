// Package engine drives strategies over price series, extracts trades from
// the decision stream and scores the resulting trade log.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/algonex/algonex/internal/candle"
	"github.com/algonex/algonex/internal/ml"
	"github.com/algonex/algonex/internal/strategy"
)

// ErrInsufficientData is returned for an empty price series. Short but
// non-empty series degrade to all-hold signals instead.
var ErrInsufficientData = errors.New("insufficient price data")

// Action is the trade direction.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Trade is one entry in the trade log. Trades are ordered by timestamp and
// never mutated after creation.
type Trade struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// Engine runs strategies and scores trade logs against a starting capital.
type Engine struct {
	initialCapital float64
	log            zerolog.Logger
}

// EngineOption adjusts engine construction.
type EngineOption func(*Engine)

// WithLogger attaches a logger. The default engine is silent.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

func New(initialCapital float64, opts ...EngineOption) *Engine {
	e := &Engine{
		initialCapital: initialCapital,
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run generates the strategy's decision stream and converts position events
// into trades: a +1.0 position diff buys at that row's close, a -1.0 sells.
// Other diff values, including the -2.0 of a direct buy-to-sell signal
// flip, produce no trade.
func (e *Engine) Run(strat strategy.Strategy, s candle.Series) (*strategy.Decision, []Trade, error) {
	if len(s) == 0 {
		return nil, nil, fmt.Errorf("%w: empty series", ErrInsufficientData)
	}

	decision, err := strat.GenerateSignals(s)
	if err != nil {
		return nil, nil, fmt.Errorf("generate signals: %w", err)
	}

	var trades []Trade
	for i, p := range decision.Positions {
		switch p {
		case 1.0:
			trades = append(trades, Trade{Action: Buy, Timestamp: s[i].Timestamp, Price: s[i].Close})
		case -1.0:
			trades = append(trades, Trade{Action: Sell, Timestamp: s[i].Timestamp, Price: s[i].Close})
		}
	}

	e.log.Debug().
		Str("strategy", strat.Name()).
		Int("candles", len(s)).
		Int("trades", len(trades)).
		Msg("strategy run complete")
	return decision, trades, nil
}

// RunML runs a model signal directly: no position diff, every +1 row is a
// BUY and every -1 row a SELL at that row's close.
func (e *Engine) RunML(fn ml.SignalFunc, s candle.Series) (ml.Prediction, []Trade, error) {
	if len(s) == 0 {
		return ml.Prediction{}, nil, fmt.Errorf("%w: empty series", ErrInsufficientData)
	}

	pred, err := fn(s)
	if err != nil {
		return ml.Prediction{}, nil, fmt.Errorf("ml signal: %w", err)
	}
	if len(pred.Signals) != len(s) {
		return ml.Prediction{}, nil, fmt.Errorf("%w: got %d signals for %d candles", ml.ErrMisaligned, len(pred.Signals), len(s))
	}

	var trades []Trade
	for i, sig := range pred.Signals {
		switch {
		case sig > 0:
			trades = append(trades, Trade{Action: Buy, Timestamp: s[i].Timestamp, Price: s[i].Close})
		case sig < 0:
			trades = append(trades, Trade{Action: Sell, Timestamp: s[i].Timestamp, Price: s[i].Close})
		}
	}

	e.log.Debug().
		Int("candles", len(s)).
		Int("trades", len(trades)).
		Msg("ml run complete")
	return pred, trades, nil
}

// Metrics scores a trade log against the engine's initial capital.
func (e *Engine) Metrics(trades []Trade) Performance {
	return ComputePerformance(trades, e.initialCapital)
}

// InitialCapital returns the capital the engine scores against.
func (e *Engine) InitialCapital() float64 { return e.initialCapital }
