package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBollingerPercentB(t *testing.T) {
	// A spike out of a quiet range lands above the upper band.
	closes := []float64{100, 101, 100, 101, 100, 101, 100, 101, 100, 110}
	b := NewBollinger(5, 2)
	s := makeSeries(closes)

	pctB := b.Calculate(s)
	assert.True(t, math.IsNaN(pctB[3]))
	assert.Greater(t, pctB[9], 0.8)

	signals := b.Signals(s)
	assert.Equal(t, -1.0, signals[9])
	for i := 0; i < b.MinPeriods(); i++ {
		assert.Zero(t, signals[i])
	}
}

func TestBollingerLowerBand(t *testing.T) {
	closes := []float64{100, 101, 100, 101, 100, 101, 100, 101, 100, 90}
	b := NewBollinger(5, 2)

	signals := b.Signals(makeSeries(closes))
	assert.Equal(t, 1.0, signals[9])
}

func TestMeanReversionZScore(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 102, 100, 100, 100, 100, 110}
	m := NewMeanReversion(5, 1.0)
	s := makeSeries(closes)

	z := m.Calculate(s)
	// Index 9: mean of {100,100,100,100,110} is 102, std is ~4.47.
	assert.InDelta(t, 1.789, z[9], 1e-3)

	signals := m.Signals(s)
	assert.Equal(t, -1.0, signals[9])
}

func TestMeanReversionFlatSeries(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100, 100, 100, 100}
	m := NewMeanReversion(5, 1.0)
	s := makeSeries(closes)

	// Zero variance: the epsilon keeps z finite and the vote holds.
	z := m.Calculate(s)
	for i := 4; i < len(s); i++ {
		assert.False(t, math.IsNaN(z[i]) || math.IsInf(z[i], 0))
		assert.InDelta(t, 0.0, z[i], 1e-6)
	}
	assert.Equal(t, make([]float64, len(s)), m.Signals(s))
}

func TestTrueRanges(t *testing.T) {
	s := makeSeries([]float64{100, 105})
	tr := trueRanges(s)

	// First bar: high minus low. Second: gap up dominates the bar range.
	assert.InDelta(t, 2.0, tr[0], 1e-12)
	assert.InDelta(t, 6.0, tr[1], 1e-12)
}

func TestATRBandsBreakout(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 120}
	a := NewATRBands(5, 2)
	s := makeSeries(closes)

	signals := a.Signals(s)
	// The spike clears mean + 2*ATR by a wide margin.
	assert.Equal(t, -1.0, signals[9])
	for i := a.MinPeriods(); i < 9; i++ {
		assert.Zero(t, signals[i])
	}
}

func TestStdDevBands(t *testing.T) {
	closes := []float64{100, 101, 100, 101, 100, 101, 100, 101, 100, 85}
	sd := NewStdDevBands(5, 1)
	s := makeSeries(closes)

	std := sd.Calculate(s)
	assert.True(t, math.IsNaN(std[3]))
	assert.False(t, math.IsNaN(std[4]))

	signals := sd.Signals(s)
	assert.Equal(t, 1.0, signals[9])
}
