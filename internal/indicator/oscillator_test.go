package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSIVShape(t *testing.T) {
	// Five straight down days push RSI to 20, the recovery lifts it to 100.
	s := makeSeries([]float64{100, 95, 90, 85, 80, 85, 90, 95, 100, 105})
	r := NewRSI(5, 70, 30)

	rsi := r.Calculate(s)
	assert.InDelta(t, 20.0, rsi[5], 1e-6)
	assert.InDelta(t, 40.0, rsi[6], 1e-6)
	assert.InDelta(t, 60.0, rsi[7], 1e-6)
	assert.InDelta(t, 80.0, rsi[8], 1e-6)
	assert.InDelta(t, 100.0, rsi[9], 1e-6)

	signals := r.Signals(s)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 1, 0, 0, -1, -1}, signals)
}

func TestRSIFlatPrices(t *testing.T) {
	s := makeSeries([]float64{50, 50, 50, 50, 50, 50, 50, 50})
	r := NewRSI(5, 70, 30)

	// No gains and no losses: the epsilon keeps the ratio at zero.
	rsi := r.Calculate(s)
	for i := 5; i < len(s); i++ {
		assert.InDelta(t, 0.0, rsi[i], 1e-6)
	}
}

func TestCMOExtremes(t *testing.T) {
	up := makeSeries([]float64{100, 101, 102, 103, 104, 105, 106, 107})
	c := NewCMO(5, 50, -50)

	cmo := c.Calculate(up)
	for i := 5; i < len(up); i++ {
		assert.InDelta(t, 100.0, cmo[i], 1e-6)
	}
	signals := c.Signals(up)
	for i := 5; i < len(up); i++ {
		assert.Equal(t, -1.0, signals[i], "index %d", i)
	}

	down := makeSeries([]float64{107, 106, 105, 104, 103, 102, 101, 100})
	signals = c.Signals(down)
	for i := 5; i < len(down); i++ {
		assert.Equal(t, 1.0, signals[i], "index %d", i)
	}
}

func TestStochasticRange(t *testing.T) {
	s := waveSeries(40)
	st := NewStochastic(5, 3, 80, 20)

	k := st.Calculate(s)
	for i := 4; i < len(s); i++ {
		assert.GreaterOrEqual(t, k[i], 0.0)
		assert.LessOrEqual(t, k[i], 100.0)
	}

	d := st.D(s)
	// %D is a smoothing of %K and needs both windows.
	require.Len(t, d, len(s))
	for i := 6; i < len(s); i++ {
		assert.GreaterOrEqual(t, d[i], 0.0)
		assert.LessOrEqual(t, d[i], 100.0)
	}
}

func TestStochasticAtRangeExtremes(t *testing.T) {
	// Close pinned at the rolling high: %K near 100, vote sell.
	up := makeSeries([]float64{100, 102, 104, 106, 108, 110, 112})
	st := NewStochastic(5, 3, 80, 20)

	k := st.Calculate(up)
	signals := st.Signals(up)
	for i := 4; i < len(up); i++ {
		assert.Greater(t, k[i], 80.0)
		assert.Equal(t, -1.0, signals[i], "index %d", i)
	}
}

func TestWilliamsRSignConvention(t *testing.T) {
	// Close at the top of the range: %R near 0, overbought, vote sell.
	up := makeSeries([]float64{100, 102, 104, 106, 108, 110, 112})
	w := NewWilliamsR(5, -20, -80)

	r := w.Calculate(up)
	signals := w.Signals(up)
	for i := 4; i < len(up); i++ {
		assert.Greater(t, r[i], -20.0)
		assert.LessOrEqual(t, r[i], 0.0)
		assert.Equal(t, -1.0, signals[i], "index %d", i)
	}

	down := makeSeries([]float64{112, 110, 108, 106, 104, 102, 100})
	r = w.Calculate(down)
	signals = w.Signals(down)
	for i := 4; i < len(down); i++ {
		assert.Less(t, r[i], -80.0)
		assert.Equal(t, 1.0, signals[i], "index %d", i)
	}
}

func TestIBSPositionInRange(t *testing.T) {
	ib := NewIBS(0.8, 0.2)
	s := makeSeries([]float64{100})

	// makeSeries pins close mid-range, so IBS is 0.5 and the vote holds.
	ibs := ib.Calculate(s)
	assert.InDelta(t, 0.5, ibs[0], 1e-6)
	assert.Equal(t, []float64{0}, ib.Signals(s))

	// Close at the low: IBS 0, vote buy. Close at the high: IBS 1, vote sell.
	low := s
	low[0].Close = low[0].Low
	assert.Equal(t, []float64{1}, ib.Signals(low))

	high := makeSeries([]float64{100})
	high[0].Close = high[0].High
	assert.Equal(t, []float64{-1}, ib.Signals(high))
}

func TestRVIDirectionSplit(t *testing.T) {
	// Choppy but rising closes keep most volatility on up days.
	closes := []float64{100, 102, 101, 104, 103, 106, 105, 108, 107, 110, 109, 112}
	r := NewRVI(3, 60, 40)
	s := makeSeries(closes)

	rvi := r.Calculate(s)
	for i := r.MinPeriods(); i < len(s); i++ {
		assert.GreaterOrEqual(t, rvi[i], 0.0)
		assert.LessOrEqual(t, rvi[i], 100.0)
	}

	signals := r.Signals(s)
	for i := 0; i < r.MinPeriods(); i++ {
		assert.Zero(t, signals[i])
	}
}
