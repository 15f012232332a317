// Package strategy combines weighted indicator votes into one decision
// stream per price series.
package strategy

import (
	"errors"

	"github.com/algonex/algonex/internal/candle"
	"github.com/algonex/algonex/internal/indicator"
)

// ErrConfiguration marks construction-time errors: bad indicator counts,
// non-positive total weight, out-of-range ml weight.
var ErrConfiguration = errors.New("invalid strategy configuration")

// Weighted pairs an indicator with its raw (pre-normalization) weight.
type Weighted struct {
	Indicator indicator.Indicator
	Weight    float64
}

// Decision is the full output table of one generate-signals pass, aligned
// row for row with the input series.
type Decision struct {
	// Names and Votes hold each voter's name and raw signal series, in
	// construction order. Diagnostic only.
	Names []string
	Votes [][]float64

	// Composite is the continuous weighted sum, generally in [-1, 1].
	Composite []float64

	// Signal is the discrete resolution of Composite in {-1, 0, +1}.
	Signal []float64

	// Positions is the first difference of Signal. Index 0 is always 0;
	// a +1 entry marks a buy event, a -1 a sell event.
	Positions []float64

	// MLMetrics carries the model's diagnostic bag on hybrid runs, nil
	// otherwise.
	MLMetrics map[string]any
}

// Strategy turns a price series into a decision stream.
type Strategy interface {
	Name() string
	GenerateSignals(s candle.Series) (*Decision, error)

	// WarmupPeriod is the longest indicator window in the strategy. Rows
	// before it always hold.
	WarmupPeriod() int
}

// normalize scales weights to sum to 1.0. The sum must be positive.
func normalize(weights []float64) ([]float64, error) {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil, errors.New("total weight must be positive")
	}
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / total
	}
	return out, nil
}

// resolve maps the composite series to discrete signals. With confirmation
// enabled and more than one voter, a threshold crossing also needs at least
// minAgreement voters on that side.
func resolve(composite []float64, votes [][]float64, threshold float64, confirm bool) []float64 {
	n := len(votes)
	minAgreement := n / 2
	if minAgreement < 1 {
		minAgreement = 1
	}

	out := make([]float64, len(composite))
	for i, c := range composite {
		switch {
		case c > threshold:
			if !confirm || n <= 1 || countVotes(votes, i, 1) >= minAgreement {
				out[i] = 1
			}
		case c < -threshold:
			if !confirm || n <= 1 || countVotes(votes, i, -1) >= minAgreement {
				out[i] = -1
			}
		}
	}
	return out
}

func countVotes(votes [][]float64, i, direction int) int {
	count := 0
	for _, v := range votes {
		if direction > 0 && v[i] > 0 {
			count++
		} else if direction < 0 && v[i] < 0 {
			count++
		}
	}
	return count
}

// positions returns the first difference of the discrete signal. Index 0
// carries no event.
func positions(signal []float64) []float64 {
	out := make([]float64, len(signal))
	for i := 1; i < len(signal); i++ {
		out[i] = signal[i] - signal[i-1]
	}
	return out
}
