package indicator

import (
	"math"

	"github.com/algonex/algonex/internal/candle"
)

// Bollinger votes mean reversion on %B: +1 when the close sits in the
// bottom fifth of the band range, -1 in the top fifth.
type Bollinger struct {
	Window int
	NumStd float64
}

func NewBollinger(window int, numStd float64) *Bollinger {
	return &Bollinger{Window: window, NumStd: numStd}
}

func (b *Bollinger) Name() string    { return "bollinger" }
func (b *Bollinger) MinPeriods() int { return b.Window }

// Calculate returns %B, the close's position between the bands. 0 is the
// lower band, 1 the upper.
func (b *Bollinger) Calculate(s candle.Series) []float64 {
	closes := s.Closes()
	mid := rollingMean(closes, b.Window)
	std := rollingStd(closes, b.Window)
	out := nanSeries(len(s))
	for i := b.Window - 1; i < len(s); i++ {
		lower := mid[i] - b.NumStd*std[i]
		width := 2 * b.NumStd * std[i]
		out[i] = (closes[i] - lower) / (width + eps)
	}
	return out
}

func (b *Bollinger) Signals(s candle.Series) []float64 {
	pctB := b.Calculate(s)
	out := make([]float64, len(s))
	for i, v := range pctB {
		switch {
		case math.IsNaN(v):
		case v < 0.2:
			out[i] = 1
		case v > 0.8:
			out[i] = -1
		}
	}
	return maskWarmup(out, b.MinPeriods())
}

// MeanReversion trades the z-score of the close against its rolling mean.
type MeanReversion struct {
	Window int
	EntryZ float64
}

func NewMeanReversion(window int, entryZ float64) *MeanReversion {
	return &MeanReversion{Window: window, EntryZ: entryZ}
}

func (m *MeanReversion) Name() string    { return "mean_reversion" }
func (m *MeanReversion) MinPeriods() int { return m.Window }

// Calculate returns the rolling z-score.
func (m *MeanReversion) Calculate(s candle.Series) []float64 {
	closes := s.Closes()
	mean := rollingMean(closes, m.Window)
	std := rollingStd(closes, m.Window)
	out := nanSeries(len(s))
	for i := m.Window - 1; i < len(s); i++ {
		out[i] = (closes[i] - mean[i]) / (std[i] + eps)
	}
	return out
}

func (m *MeanReversion) Signals(s candle.Series) []float64 {
	z := m.Calculate(s)
	out := make([]float64, len(s))
	for i, v := range z {
		switch {
		case math.IsNaN(v):
		case v < -m.EntryZ:
			out[i] = 1
		case v > m.EntryZ:
			out[i] = -1
		}
	}
	return maskWarmup(out, m.MinPeriods())
}

// ATRBands builds bands around the rolling mean at a multiple of the
// average true range and trades reversion against them.
type ATRBands struct {
	Period     int
	Multiplier float64
}

func NewATRBands(period int, multiplier float64) *ATRBands {
	return &ATRBands{Period: period, Multiplier: multiplier}
}

func (a *ATRBands) Name() string    { return "atr" }
func (a *ATRBands) MinPeriods() int { return a.Period }

// Calculate returns the average true range.
func (a *ATRBands) Calculate(s candle.Series) []float64 {
	tr := trueRanges(s)
	return rollingMean(tr, a.Period)
}

func (a *ATRBands) Signals(s candle.Series) []float64 {
	closes := s.Closes()
	mid := rollingMean(closes, a.Period)
	atr := a.Calculate(s)
	out := make([]float64, len(s))
	for i := a.Period - 1; i < len(s); i++ {
		upper := mid[i] + a.Multiplier*atr[i]
		lower := mid[i] - a.Multiplier*atr[i]
		switch {
		case closes[i] < lower:
			out[i] = 1
		case closes[i] > upper:
			out[i] = -1
		}
	}
	return maskWarmup(out, a.MinPeriods())
}

// trueRanges returns the per-bar true range. The first bar has no previous
// close, so its range is high minus low.
func trueRanges(s candle.Series) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		hl := s[i].High - s[i].Low
		if i == 0 {
			out[i] = hl
			continue
		}
		hc := math.Abs(s[i].High - s[i-1].Close)
		lc := math.Abs(s[i].Low - s[i-1].Close)
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// StdDevBands is a volatility breakout filter on plain standard deviation
// bands around the rolling mean.
type StdDevBands struct {
	Period     int
	Multiplier float64
}

func NewStdDevBands(period int, multiplier float64) *StdDevBands {
	return &StdDevBands{Period: period, Multiplier: multiplier}
}

func (sd *StdDevBands) Name() string    { return "std" }
func (sd *StdDevBands) MinPeriods() int { return sd.Period }

// Calculate returns the rolling standard deviation of the close.
func (sd *StdDevBands) Calculate(s candle.Series) []float64 {
	return rollingStd(s.Closes(), sd.Period)
}

func (sd *StdDevBands) Signals(s candle.Series) []float64 {
	closes := s.Closes()
	mid := rollingMean(closes, sd.Period)
	std := sd.Calculate(s)
	out := make([]float64, len(s))
	for i := sd.Period - 1; i < len(s); i++ {
		upper := mid[i] + sd.Multiplier*std[i]
		lower := mid[i] - sd.Multiplier*std[i]
		switch {
		case closes[i] < lower:
			out[i] = 1
		case closes[i] > upper:
			out[i] = -1
		}
	}
	return maskWarmup(out, sd.MinPeriods())
}
