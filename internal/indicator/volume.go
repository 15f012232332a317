package indicator

import (
	"github.com/algonex/algonex/internal/candle"
)

// MoneyFlowIndex is a volume-weighted RSI over typical-price money flows.
type MoneyFlowIndex struct {
	Period     int
	Overbought float64
	Oversold   float64
}

func NewMoneyFlowIndex(period int, overbought, oversold float64) *MoneyFlowIndex {
	return &MoneyFlowIndex{Period: period, Overbought: overbought, Oversold: oversold}
}

func (m *MoneyFlowIndex) Name() string    { return "mfi" }
func (m *MoneyFlowIndex) MinPeriods() int { return m.Period }

func (m *MoneyFlowIndex) Calculate(s candle.Series) []float64 {
	tp := typicalPrices(s)
	pos := make([]float64, len(s))
	neg := make([]float64, len(s))
	for i := 1; i < len(s); i++ {
		flow := tp[i] * s[i].Volume
		if tp[i] > tp[i-1] {
			pos[i] = flow
		} else if tp[i] < tp[i-1] {
			neg[i] = flow
		}
	}

	out := nanSeries(len(s))
	for i := m.Period; i < len(s); i++ {
		var posSum, negSum float64
		for j := i - m.Period + 1; j <= i; j++ {
			posSum += pos[j]
			negSum += neg[j]
		}
		ratio := posSum / (negSum + eps)
		out[i] = 100 - 100/(1+ratio)
	}
	return out
}

func (m *MoneyFlowIndex) Signals(s candle.Series) []float64 {
	mfi := m.Calculate(s)
	return maskWarmup(thresholdOscillator(mfi, m.Overbought, m.Oversold), m.MinPeriods())
}

// OBV votes bullish while cumulative on-balance volume runs above its own
// moving average.
type OBV struct {
	Period int
}

func NewOBV(period int) *OBV {
	return &OBV{Period: period}
}

func (o *OBV) Name() string    { return "obv" }
func (o *OBV) MinPeriods() int { return o.Period }

// Calculate returns the cumulative on-balance volume line.
func (o *OBV) Calculate(s candle.Series) []float64 {
	out := make([]float64, len(s))
	for i := 1; i < len(s); i++ {
		out[i] = out[i-1]
		if s[i].Close > s[i-1].Close {
			out[i] += s[i].Volume
		} else if s[i].Close < s[i-1].Close {
			out[i] -= s[i].Volume
		}
	}
	return out
}

func (o *OBV) Signals(s candle.Series) []float64 {
	obv := o.Calculate(s)
	avg := rollingMean(obv, o.Period)
	out := make([]float64, len(s))
	for i := o.Period - 1; i < len(s); i++ {
		if obv[i] > avg[i] {
			out[i] = 1
		}
	}
	return maskWarmup(out, o.MinPeriods())
}

// VWAP votes bullish while the close trades above the rolling
// volume-weighted average price.
type VWAP struct {
	Period int
}

func NewVWAP(period int) *VWAP {
	return &VWAP{Period: period}
}

func (v *VWAP) Name() string    { return "vwap" }
func (v *VWAP) MinPeriods() int { return v.Period }

func (v *VWAP) Calculate(s candle.Series) []float64 {
	tp := typicalPrices(s)
	out := nanSeries(len(s))
	for i := v.Period - 1; i < len(s); i++ {
		var pv, vol float64
		for j := i - v.Period + 1; j <= i; j++ {
			pv += tp[j] * s[j].Volume
			vol += s[j].Volume
		}
		out[i] = pv / (vol + eps)
	}
	return out
}

func (v *VWAP) Signals(s candle.Series) []float64 {
	vwap := v.Calculate(s)
	out := make([]float64, len(s))
	for i := v.Period - 1; i < len(s); i++ {
		if s[i].Close > vwap[i] {
			out[i] = 1
		}
	}
	return maskWarmup(out, v.MinPeriods())
}
