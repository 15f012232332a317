package strategy

import (
	"fmt"

	"github.com/algonex/algonex/internal/candle"
	"github.com/algonex/algonex/internal/ml"
)

// Hybrid folds a model's signal into the composite arithmetic as one more
// weighted voter. The model participates in both the weighted sum and the
// agreement count.
type Hybrid struct {
	indicators []Weighted
	signalFn   ml.SignalFunc
	weights    []float64
	threshold  float64
	confirm    bool
}

// NewHybrid builds a hybrid strategy from 1 to 3 weighted indicators plus a
// model vote at mlWeight. All weights, the model's included, are
// normalized together.
func NewHybrid(indicators []Weighted, mlWeight float64, fn ml.SignalFunc, opts ...Option) (*Hybrid, error) {
	if len(indicators) < 1 || len(indicators) > 3 {
		return nil, fmt.Errorf("%w: need 1 to 3 indicators, got %d", ErrConfiguration, len(indicators))
	}
	if mlWeight < 0 || mlWeight > 1 {
		return nil, fmt.Errorf("%w: ml weight %v outside [0, 1]", ErrConfiguration, mlWeight)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil ml signal function", ErrConfiguration)
	}

	raw := make([]float64, 0, len(indicators)+1)
	for _, w := range indicators {
		raw = append(raw, w.Weight)
	}
	raw = append(raw, mlWeight)
	weights, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	base := &Composite{threshold: defaultThreshold, confirm: true}
	for _, opt := range opts {
		opt(base)
	}
	return &Hybrid{
		indicators: indicators,
		signalFn:   fn,
		weights:    weights,
		threshold:  base.threshold,
		confirm:    base.confirm,
	}, nil
}

func (h *Hybrid) Name() string { return "hybrid_ml" }

func (h *Hybrid) WarmupPeriod() int {
	max := 0
	for _, w := range h.indicators {
		if p := w.Indicator.MinPeriods(); p > max {
			max = p
		}
	}
	return max
}

func (h *Hybrid) GenerateSignals(s candle.Series) (*Decision, error) {
	pred, err := h.signalFn(s)
	if err != nil {
		return nil, fmt.Errorf("ml signal: %w", err)
	}
	if len(pred.Signals) != len(s) {
		return nil, fmt.Errorf("%w: got %d signals for %d candles", ml.ErrMisaligned, len(pred.Signals), len(s))
	}

	names := make([]string, 0, len(h.indicators)+1)
	votes := make([][]float64, 0, len(h.indicators)+1)
	for _, w := range h.indicators {
		names = append(names, w.Indicator.Name())
		votes = append(votes, w.Indicator.Signals(s))
	}
	names = append(names, "ml")
	votes = append(votes, pred.Signals)

	composite := make([]float64, len(s))
	for i := range s {
		for j, v := range votes {
			composite[i] += h.weights[j] * v[i]
		}
	}

	signal := resolve(composite, votes, h.threshold, h.confirm)
	return &Decision{
		Names:     names,
		Votes:     votes,
		Composite: composite,
		Signal:    signal,
		Positions: positions(signal),
		MLMetrics: pred.Metrics,
	}, nil
}
