// Package ml defines the contract between the engine and an external
// prediction model. Training happens outside this repo; the engine only
// consumes signals.
package ml

import (
	"errors"

	"github.com/algonex/algonex/internal/candle"
)

var ErrMisaligned = errors.New("ml signals not aligned with series")

// Prediction holds model output for one series. Signals is aligned with the
// input candles and takes values in {-1, 0, +1}. Metrics is an opaque
// diagnostic bag the model may attach; the engine passes it through
// untouched.
type Prediction struct {
	Signals []float64
	Metrics map[string]any
}

// SignalFunc produces a prediction for a candle series. Implementations
// must return one signal per candle.
type SignalFunc func(s candle.Series) (Prediction, error)

// NaiveMomentum is the reference SignalFunc: it votes the sign of the
// previous bar's return. The first bar has no history and holds.
func NaiveMomentum(s candle.Series) (Prediction, error) {
	signals := make([]float64, len(s))
	hits, calls := 0, 0
	for i := 1; i < len(s); i++ {
		switch {
		case s[i-1].Close > openOrPrev(s, i-1):
			signals[i] = 1
		case s[i-1].Close < openOrPrev(s, i-1):
			signals[i] = -1
		}
		if i+1 < len(s) && signals[i] != 0 {
			calls++
			next := s[i+1].Close - s[i].Close
			if (next > 0 && signals[i] > 0) || (next < 0 && signals[i] < 0) {
				hits++
			}
		}
	}

	metrics := map[string]any{
		"model":             "naive_momentum",
		"directional_calls": calls,
	}
	if calls > 0 {
		metrics["hit_rate"] = float64(hits) / float64(calls)
	}
	return Prediction{Signals: signals, Metrics: metrics}, nil
}

// openOrPrev returns the reference price the bar's return is measured
// against: the previous close when it exists, the bar's open otherwise.
func openOrPrev(s candle.Series, i int) float64 {
	if i == 0 {
		return s[i].Open
	}
	return s[i-1].Close
}
