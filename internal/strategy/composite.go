package strategy

import (
	"fmt"
	"strings"

	"github.com/algonex/algonex/internal/candle"
)

const defaultThreshold = 0.5

// Composite merges 1 to 3 weighted indicators into one decision stream.
type Composite struct {
	indicators []Weighted
	weights    []float64
	threshold  float64
	confirm    bool
}

// Option adjusts composite construction defaults.
type Option func(*Composite)

// WithThreshold sets the absolute composite value a row must cross before
// a discrete signal fires.
func WithThreshold(t float64) Option {
	return func(c *Composite) { c.threshold = t }
}

// WithConfirmation toggles the majority-agreement requirement. Enabled by
// default; it has no effect with a single indicator.
func WithConfirmation(on bool) Option {
	return func(c *Composite) { c.confirm = on }
}

// NewComposite builds a strategy from 1 to 3 weighted indicators. Weights
// are normalized to sum to 1.0 here and never renormalized afterwards.
func NewComposite(indicators []Weighted, opts ...Option) (*Composite, error) {
	if len(indicators) < 1 || len(indicators) > 3 {
		return nil, fmt.Errorf("%w: need 1 to 3 indicators, got %d", ErrConfiguration, len(indicators))
	}

	raw := make([]float64, len(indicators))
	for i, w := range indicators {
		raw[i] = w.Weight
	}
	weights, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	c := &Composite{
		indicators: indicators,
		weights:    weights,
		threshold:  defaultThreshold,
		confirm:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Composite) Name() string {
	names := make([]string, len(c.indicators))
	for i, w := range c.indicators {
		names[i] = w.Indicator.Name()
	}
	return "composite(" + strings.Join(names, ",") + ")"
}

func (c *Composite) WarmupPeriod() int {
	max := 0
	for _, w := range c.indicators {
		if p := w.Indicator.MinPeriods(); p > max {
			max = p
		}
	}
	return max
}

func (c *Composite) GenerateSignals(s candle.Series) (*Decision, error) {
	names := make([]string, len(c.indicators))
	votes := make([][]float64, len(c.indicators))
	for i, w := range c.indicators {
		names[i] = w.Indicator.Name()
		votes[i] = w.Indicator.Signals(s)
	}

	composite := make([]float64, len(s))
	for i := range s {
		for j, v := range votes {
			composite[i] += c.weights[j] * v[i]
		}
	}

	signal := resolve(composite, votes, c.threshold, c.confirm)
	return &Decision{
		Names:     names,
		Votes:     votes,
		Composite: composite,
		Signal:    signal,
		Positions: positions(signal),
	}, nil
}

// Weights returns the normalized weights in construction order.
func (c *Composite) Weights() []float64 {
	out := make([]float64, len(c.weights))
	copy(out, c.weights)
	return out
}
