package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algonex/algonex/internal/candle"
)

func makeSeries(closes []float64) candle.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(candle.Series, len(closes))
	for i, c := range closes {
		s[i] = candle.Candle{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000 + 10*float64(i),
		}
	}
	return s
}

// waveSeries is a noisy sinusoid long enough to warm up every indicator.
func waveSeries(n int) candle.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5) + 0.3*float64(i%7)
	}
	return makeSeries(closes)
}

func TestAllIndicatorsSignalContract(t *testing.T) {
	reg := NewRegistry()
	s := waveSeries(80)

	for _, typ := range reg.Types() {
		t.Run(typ, func(t *testing.T) {
			ind, err := reg.Build(typ, nil)
			require.NoError(t, err)

			signals := ind.Signals(s)
			require.Len(t, signals, len(s))

			for i, v := range signals {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "index %d not finite", i)
				assert.Contains(t, []float64{-1, 0, 1}, v, "index %d outside vote set", i)
			}

			for i := 0; i < ind.MinPeriods() && i < len(s); i++ {
				assert.Zero(t, signals[i], "index %d inside warmup must hold", i)
			}
		})
	}
}

func TestAllIndicatorsIdempotent(t *testing.T) {
	reg := NewRegistry()
	s := waveSeries(80)

	for _, typ := range reg.Types() {
		t.Run(typ, func(t *testing.T) {
			ind, err := reg.Build(typ, nil)
			require.NoError(t, err)

			first := ind.Signals(s)
			second := ind.Signals(s)
			assert.Equal(t, first, second)
		})
	}
}

// Signals at index i must depend only on rows 0..i: truncating the series
// cannot change earlier values.
func TestAllIndicatorsNoLookAhead(t *testing.T) {
	reg := NewRegistry()
	s := waveSeries(80)
	prefix := s[:60]

	for _, typ := range reg.Types() {
		t.Run(typ, func(t *testing.T) {
			ind, err := reg.Build(typ, nil)
			require.NoError(t, err)

			full := ind.Signals(s)
			short := ind.Signals(prefix)
			assert.Equal(t, full[:60], short)
		})
	}
}

func TestRollingHelpers(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	mean := rollingMean(values, 3)
	assert.True(t, math.IsNaN(mean[0]))
	assert.True(t, math.IsNaN(mean[1]))
	assert.InDelta(t, 2.0, mean[2], 1e-12)
	assert.InDelta(t, 4.0, mean[4], 1e-12)

	maxs := rollingMax(values, 2)
	assert.InDelta(t, 2.0, maxs[1], 1e-12)
	assert.InDelta(t, 5.0, maxs[4], 1e-12)

	mins := rollingMin([]float64{5, 3, 4, 1, 2}, 2)
	assert.InDelta(t, 3.0, mins[1], 1e-12)
	assert.InDelta(t, 1.0, mins[4], 1e-12)

	// Sample standard deviation of {1,2,3} is 1.
	std := rollingStd(values, 3)
	assert.InDelta(t, 1.0, std[2], 1e-12)

	d := diff(values)
	assert.Equal(t, []float64{0, 1, 1, 1, 1}, d)
}

func TestEMASeed(t *testing.T) {
	out := ema([]float64{10, 20, 30}, 2)
	// alpha = 2/3: seeded with the first value, then folded forward.
	assert.InDelta(t, 10.0, out[0], 1e-12)
	assert.InDelta(t, 10+2.0/3*10, out[1], 1e-9)
}
