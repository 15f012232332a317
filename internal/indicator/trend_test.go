package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverageCrossover(t *testing.T) {
	// Short mean overtakes the long mean at index 6 and stays above.
	s := makeSeries([]float64{102, 103, 105, 104, 106, 108, 107, 109, 111, 110})
	ma := NewMovingAverage(3, 6)

	signals := ma.Signals(s)
	require.Len(t, signals, 10)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 1, 1, 1, 1}, signals)
}

func TestMovingAverageSpread(t *testing.T) {
	s := makeSeries([]float64{102, 103, 105, 104, 106, 108, 107, 109, 111, 110})
	ma := NewMovingAverage(3, 6)

	spread := ma.Calculate(s)
	assert.True(t, math.IsNaN(spread[4]))
	// index 6: SMA3 = 107, SMA6 = 105.5
	assert.InDelta(t, 1.5, spread[6], 1e-9)
	// index 9: SMA3 = 110, SMA6 = 108.5
	assert.InDelta(t, 1.5, spread[9], 1e-9)
}

func TestMovingAverageShortSeries(t *testing.T) {
	s := makeSeries([]float64{100, 101, 102})
	ma := NewMovingAverage(3, 6)

	signals := ma.Signals(s)
	assert.Equal(t, []float64{0, 0, 0}, signals)
}

func TestEMACrossoverUptrend(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	e := NewEMACrossover(5, 10)

	signals := e.Signals(makeSeries(closes))
	// In a steady uptrend the short EMA leads the long one after warmup.
	for i := e.MinPeriods(); i < len(signals); i++ {
		assert.Equal(t, 1.0, signals[i], "index %d", i)
	}
	for i := 0; i < e.MinPeriods(); i++ {
		assert.Zero(t, signals[i])
	}
}

func TestMACDVotesOnlyBuyOrHold(t *testing.T) {
	s := waveSeries(80)
	m := NewMACD(12, 26, 9)

	for i, v := range m.Signals(s) {
		assert.Contains(t, []float64{0, 1}, v, "index %d", i)
	}
}

func TestParabolicSARFlipsOnBreach(t *testing.T) {
	// Rally then collapse: the SAR must flip from below price to above it.
	closes := []float64{100, 102, 104, 106, 108, 110, 104, 98, 94, 90}
	s := makeSeries(closes)
	sar := NewParabolicSAR(0.02, 0.2)

	levels := sar.Calculate(s)
	signals := sar.Signals(s)

	// Uptrend leg: stop level trails below price.
	assert.Less(t, levels[3], closes[3])
	assert.Equal(t, 1.0, signals[3])

	// After the collapse the stop sits above price and the vote drops out.
	assert.Greater(t, levels[9], closes[9])
	assert.Zero(t, signals[9])
}

func TestParabolicSARTinySeries(t *testing.T) {
	sar := NewParabolicSAR(0.02, 0.2)
	assert.Equal(t, []float64{0}, sar.Signals(makeSeries([]float64{100})))
}

func TestFibonacciRetracementVote(t *testing.T) {
	// Price runs up then pulls back under the retracement level.
	closes := []float64{100, 104, 108, 112, 116, 120, 110, 105, 103, 102}
	f := NewFibonacci(5, 0.618)
	s := makeSeries(closes)

	levels := f.Calculate(s)
	signals := f.Signals(s)

	assert.True(t, math.IsNaN(levels[3]))
	for i := f.MinPeriods(); i < len(s); i++ {
		want := 0.0
		if closes[i] < levels[i] {
			want = 1.0
		}
		assert.Equal(t, want, signals[i], "index %d", i)
	}
	// The deep pullback rows must vote buy.
	assert.Equal(t, 1.0, signals[8])
	assert.Equal(t, 1.0, signals[9])
}

func TestADXStrongTrendRegime(t *testing.T) {
	// A long one-way move is the strongest possible trend.
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 2*float64(i)
	}
	a := NewADX(5, 25)
	signals := a.Signals(makeSeries(closes))

	for i := 0; i < a.MinPeriods(); i++ {
		assert.Zero(t, signals[i])
	}
	for i := a.MinPeriods() + 2; i < len(signals); i++ {
		assert.Equal(t, 1.0, signals[i], "index %d", i)
	}
}
