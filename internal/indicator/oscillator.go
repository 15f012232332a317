package indicator

import (
	"math"

	"github.com/algonex/algonex/internal/candle"
)

// RSI votes +1 when the index drops below the oversold threshold and -1 when
// it rises above the overbought threshold. Gains and losses are rolling
// means over the period.
type RSI struct {
	Period     int
	Overbought float64
	Oversold   float64
}

func NewRSI(period int, overbought, oversold float64) *RSI {
	return &RSI{Period: period, Overbought: overbought, Oversold: oversold}
}

func (r *RSI) Name() string    { return "rsi" }
func (r *RSI) MinPeriods() int { return r.Period }

// Calculate returns the RSI series in [0, 100].
func (r *RSI) Calculate(s candle.Series) []float64 {
	deltas := diff(s.Closes())
	gains := make([]float64, len(deltas))
	losses := make([]float64, len(deltas))
	for i, d := range deltas {
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	out := nanSeries(len(s))
	for i := r.Period; i < len(s); i++ {
		var gain, loss float64
		for j := i - r.Period + 1; j <= i; j++ {
			gain += gains[j]
			loss += losses[j]
		}
		rs := gain / (loss + eps)
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

func (r *RSI) Signals(s candle.Series) []float64 {
	rsi := r.Calculate(s)
	return maskWarmup(thresholdOscillator(rsi, r.Overbought, r.Oversold), r.MinPeriods())
}

// thresholdOscillator maps an oscillator series to votes: +1 below oversold,
// -1 above overbought. NaN maps to hold.
func thresholdOscillator(values []float64, overbought, oversold float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
		case v < oversold:
			out[i] = 1
		case v > overbought:
			out[i] = -1
		}
	}
	return out
}

// CMO is the Chande Momentum Oscillator in [-100, 100]. Oversold is a
// negative threshold.
type CMO struct {
	Period     int
	Overbought float64
	Oversold   float64
}

func NewCMO(period int, overbought, oversold float64) *CMO {
	return &CMO{Period: period, Overbought: overbought, Oversold: oversold}
}

func (c *CMO) Name() string    { return "cmo" }
func (c *CMO) MinPeriods() int { return c.Period }

func (c *CMO) Calculate(s candle.Series) []float64 {
	deltas := diff(s.Closes())
	out := nanSeries(len(s))
	for i := c.Period; i < len(s); i++ {
		var up, down float64
		for j := i - c.Period + 1; j <= i; j++ {
			if deltas[j] > 0 {
				up += deltas[j]
			} else {
				down += -deltas[j]
			}
		}
		out[i] = 100 * (up - down) / (up + down + eps)
	}
	return out
}

func (c *CMO) Signals(s candle.Series) []float64 {
	cmo := c.Calculate(s)
	return maskWarmup(thresholdOscillator(cmo, c.Overbought, c.Oversold), c.MinPeriods())
}

// Stochastic is the %K oscillator over the rolling high/low range. %D (the
// smoothed %K) is exposed through D for diagnostics.
type Stochastic struct {
	KPeriod    int
	DPeriod    int
	Overbought float64
	Oversold   float64
}

func NewStochastic(kPeriod, dPeriod int, overbought, oversold float64) *Stochastic {
	return &Stochastic{KPeriod: kPeriod, DPeriod: dPeriod, Overbought: overbought, Oversold: oversold}
}

func (st *Stochastic) Name() string    { return "stochastic" }
func (st *Stochastic) MinPeriods() int { return st.KPeriod }

// Calculate returns %K.
func (st *Stochastic) Calculate(s candle.Series) []float64 {
	highs := rollingMax(s.Highs(), st.KPeriod)
	lows := rollingMin(s.Lows(), st.KPeriod)
	out := nanSeries(len(s))
	for i := st.KPeriod - 1; i < len(s); i++ {
		out[i] = 100 * (s[i].Close - lows[i]) / (highs[i] - lows[i] + eps)
	}
	return out
}

// D returns the %D line, the DPeriod moving average of %K.
func (st *Stochastic) D(s candle.Series) []float64 {
	k := st.Calculate(s)
	out := nanSeries(len(s))
	for i := st.KPeriod + st.DPeriod - 2; i < len(s); i++ {
		sum := 0.0
		for j := i - st.DPeriod + 1; j <= i; j++ {
			sum += k[j]
		}
		out[i] = sum / float64(st.DPeriod)
	}
	return out
}

func (st *Stochastic) Signals(s candle.Series) []float64 {
	k := st.Calculate(s)
	return maskWarmup(thresholdOscillator(k, st.Overbought, st.Oversold), st.MinPeriods())
}

// WilliamsR is %R in [-100, 0] with the inverted sign convention: oversold
// sits near -100, overbought near 0.
type WilliamsR struct {
	Period     int
	Overbought float64
	Oversold   float64
}

func NewWilliamsR(period int, overbought, oversold float64) *WilliamsR {
	return &WilliamsR{Period: period, Overbought: overbought, Oversold: oversold}
}

func (w *WilliamsR) Name() string    { return "williams_r" }
func (w *WilliamsR) MinPeriods() int { return w.Period }

func (w *WilliamsR) Calculate(s candle.Series) []float64 {
	highs := rollingMax(s.Highs(), w.Period)
	lows := rollingMin(s.Lows(), w.Period)
	out := nanSeries(len(s))
	for i := w.Period - 1; i < len(s); i++ {
		out[i] = -100 * (highs[i] - s[i].Close) / (highs[i] - lows[i] + eps)
	}
	return out
}

func (w *WilliamsR) Signals(s candle.Series) []float64 {
	r := w.Calculate(s)
	return maskWarmup(thresholdOscillator(r, w.Overbought, w.Oversold), w.MinPeriods())
}

// IBS is the internal bar strength: the position of the close within the
// day's high-low range. It needs only the current bar.
type IBS struct {
	Overbought float64
	Oversold   float64
}

func NewIBS(overbought, oversold float64) *IBS {
	return &IBS{Overbought: overbought, Oversold: oversold}
}

func (ib *IBS) Name() string    { return "ibs" }
func (ib *IBS) MinPeriods() int { return 0 }

func (ib *IBS) Calculate(s candle.Series) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = (s[i].Close - s[i].Low) / (s[i].High - s[i].Low + eps)
	}
	return out
}

func (ib *IBS) Signals(s candle.Series) []float64 {
	ibs := ib.Calculate(s)
	return thresholdOscillator(ibs, ib.Overbought, ib.Oversold)
}

// RVI is the relative volatility index: the share of recent volatility that
// occurred on up moves, in [0, 100], thresholded like RSI.
type RVI struct {
	Period     int
	Overbought float64
	Oversold   float64
}

func NewRVI(period int, overbought, oversold float64) *RVI {
	return &RVI{Period: period, Overbought: overbought, Oversold: oversold}
}

func (r *RVI) Name() string    { return "rvi" }
func (r *RVI) MinPeriods() int { return 2 * r.Period }

func (r *RVI) Calculate(s candle.Series) []float64 {
	closes := s.Closes()
	std := rollingStd(closes, r.Period)
	deltas := diff(closes)

	up := make([]float64, len(s))
	down := make([]float64, len(s))
	for i := r.Period - 1; i < len(s); i++ {
		if deltas[i] > 0 {
			up[i] = std[i]
		} else if deltas[i] < 0 {
			down[i] = std[i]
		}
	}

	out := nanSeries(len(s))
	for i := 2*r.Period - 2; i < len(s); i++ {
		var upSum, downSum float64
		for j := i - r.Period + 1; j <= i; j++ {
			upSum += up[j]
			downSum += down[j]
		}
		out[i] = 100 * upSum / (upSum + downSum + eps)
	}
	return out
}

func (r *RVI) Signals(s candle.Series) []float64 {
	rvi := r.Calculate(s)
	return maskWarmup(thresholdOscillator(rvi, r.Overbought, r.Oversold), r.MinPeriods())
}
