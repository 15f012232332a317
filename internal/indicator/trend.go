package indicator

import (
	"math"

	"github.com/algonex/algonex/internal/candle"
)

// MovingAverage is a simple moving average crossover. It votes +1 while the
// short mean sits above the long mean, 0 otherwise.
type MovingAverage struct {
	ShortWindow int
	LongWindow  int
}

func NewMovingAverage(short, long int) *MovingAverage {
	return &MovingAverage{ShortWindow: short, LongWindow: long}
}

func (m *MovingAverage) Name() string    { return "ma" }
func (m *MovingAverage) MinPeriods() int { return m.LongWindow }

// Calculate returns the short-minus-long moving average spread.
func (m *MovingAverage) Calculate(s candle.Series) []float64 {
	closes := s.Closes()
	short := rollingMean(closes, m.ShortWindow)
	long := rollingMean(closes, m.LongWindow)
	out := nanSeries(len(s))
	for i := range out {
		if !math.IsNaN(short[i]) && !math.IsNaN(long[i]) {
			out[i] = short[i] - long[i]
		}
	}
	return out
}

func (m *MovingAverage) Signals(s candle.Series) []float64 {
	spread := m.Calculate(s)
	out := make([]float64, len(s))
	for i := m.MinPeriods(); i < len(s); i++ {
		if spread[i] > 0 {
			out[i] = 1
		}
	}
	return maskWarmup(out, m.MinPeriods())
}

// EMACrossover is the exponential-average analogue of MovingAverage.
type EMACrossover struct {
	ShortWindow int
	LongWindow  int
}

func NewEMACrossover(short, long int) *EMACrossover {
	return &EMACrossover{ShortWindow: short, LongWindow: long}
}

func (e *EMACrossover) Name() string    { return "ema" }
func (e *EMACrossover) MinPeriods() int { return e.LongWindow }

func (e *EMACrossover) Calculate(s candle.Series) []float64 {
	closes := s.Closes()
	short := ema(closes, e.ShortWindow)
	long := ema(closes, e.LongWindow)
	out := make([]float64, len(s))
	for i := range out {
		out[i] = short[i] - long[i]
	}
	return out
}

func (e *EMACrossover) Signals(s candle.Series) []float64 {
	spread := e.Calculate(s)
	out := make([]float64, len(s))
	for i := range out {
		if spread[i] > 0 {
			out[i] = 1
		}
	}
	return maskWarmup(out, e.MinPeriods())
}

// MACD votes +1 while the MACD line sits above its own signal line.
type MACD struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{FastPeriod: fast, SlowPeriod: slow, SignalPeriod: signal}
}

func (m *MACD) Name() string    { return "macd" }
func (m *MACD) MinPeriods() int { return m.SlowPeriod + m.SignalPeriod }

// Calculate returns the MACD histogram (MACD line minus signal line).
func (m *MACD) Calculate(s candle.Series) []float64 {
	closes := s.Closes()
	fast := ema(closes, m.FastPeriod)
	slow := ema(closes, m.SlowPeriod)
	line := make([]float64, len(s))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	signal := ema(line, m.SignalPeriod)
	out := make([]float64, len(s))
	for i := range out {
		out[i] = line[i] - signal[i]
	}
	return out
}

func (m *MACD) Signals(s candle.Series) []float64 {
	hist := m.Calculate(s)
	out := make([]float64, len(s))
	for i := range out {
		if hist[i] > 0 {
			out[i] = 1
		}
	}
	return maskWarmup(out, m.MinPeriods())
}

// PPO is MACD with the spread normalized as a percentage of the slow average.
type PPO struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

func NewPPO(fast, slow, signal int) *PPO {
	return &PPO{FastPeriod: fast, SlowPeriod: slow, SignalPeriod: signal}
}

func (p *PPO) Name() string    { return "ppo" }
func (p *PPO) MinPeriods() int { return p.SlowPeriod + p.SignalPeriod }

func (p *PPO) Calculate(s candle.Series) []float64 {
	closes := s.Closes()
	fast := ema(closes, p.FastPeriod)
	slow := ema(closes, p.SlowPeriod)
	line := make([]float64, len(s))
	for i := range line {
		line[i] = 100 * (fast[i] - slow[i]) / (slow[i] + eps)
	}
	signal := ema(line, p.SignalPeriod)
	out := make([]float64, len(s))
	for i := range out {
		out[i] = line[i] - signal[i]
	}
	return out
}

func (p *PPO) Signals(s candle.Series) []float64 {
	hist := p.Calculate(s)
	out := make([]float64, len(s))
	for i := range out {
		if hist[i] > 0 {
			out[i] = 1
		}
	}
	return maskWarmup(out, p.MinPeriods())
}

// ParabolicSAR is the stop-and-reverse trend follower. It carries the running
// stop level, extreme point, and acceleration factor across the whole series
// and is recomputed from the first candle on every call.
type ParabolicSAR struct {
	AccelStep float64
	AccelMax  float64
}

func NewParabolicSAR(step, max float64) *ParabolicSAR {
	return &ParabolicSAR{AccelStep: step, AccelMax: max}
}

func (p *ParabolicSAR) Name() string    { return "sar" }
func (p *ParabolicSAR) MinPeriods() int { return 1 }

// Calculate returns the SAR stop level per candle via an explicit fold over
// the ordered series.
func (p *ParabolicSAR) Calculate(s candle.Series) []float64 {
	out := nanSeries(len(s))
	if len(s) < 2 {
		return out
	}

	uptrend := s[1].Close >= s[0].Close
	var sar, ep float64
	if uptrend {
		sar = s[0].Low
		ep = s[0].High
	} else {
		sar = s[0].High
		ep = s[0].Low
	}
	af := p.AccelStep

	for i := 1; i < len(s); i++ {
		sar += af * (ep - sar)

		if uptrend {
			if s[i].Low < sar {
				// Stop breached: flip to downtrend and reset state.
				uptrend = false
				sar = ep
				ep = s[i].Low
				af = p.AccelStep
			} else if s[i].High > ep {
				ep = s[i].High
				af = math.Min(af+p.AccelStep, p.AccelMax)
			}
		} else {
			if s[i].High > sar {
				uptrend = true
				sar = ep
				ep = s[i].High
				af = p.AccelStep
			} else if s[i].Low < ep {
				ep = s[i].Low
				af = math.Min(af+p.AccelStep, p.AccelMax)
			}
		}
		out[i] = sar
	}
	return out
}

func (p *ParabolicSAR) Signals(s candle.Series) []float64 {
	sar := p.Calculate(s)
	out := make([]float64, len(s))
	for i := 1; i < len(s); i++ {
		if s[i].Close > sar[i] {
			out[i] = 1
		}
	}
	return maskWarmup(out, p.MinPeriods())
}

// Fibonacci votes +1 while the close trades below the retracement level
// computed from the rolling swing high/low.
type Fibonacci struct {
	Period      int
	Retracement float64
}

func NewFibonacci(period int, retracement float64) *Fibonacci {
	return &Fibonacci{Period: period, Retracement: retracement}
}

func (f *Fibonacci) Name() string    { return "fibonacci" }
func (f *Fibonacci) MinPeriods() int { return f.Period }

// Calculate returns the retracement level per candle.
func (f *Fibonacci) Calculate(s candle.Series) []float64 {
	highs := rollingMax(s.Highs(), f.Period)
	lows := rollingMin(s.Lows(), f.Period)
	out := nanSeries(len(s))
	for i := range out {
		if !math.IsNaN(highs[i]) && !math.IsNaN(lows[i]) {
			out[i] = highs[i] - f.Retracement*(highs[i]-lows[i])
		}
	}
	return out
}

func (f *Fibonacci) Signals(s candle.Series) []float64 {
	level := f.Calculate(s)
	out := make([]float64, len(s))
	for i := f.MinPeriods(); i < len(s); i++ {
		if s[i].Close < level[i] {
			out[i] = 1
		}
	}
	return maskWarmup(out, f.MinPeriods())
}

// ADX measures trend strength regardless of direction: +1 while the regime
// is trending (ADX above threshold), 0 in a weak-trend regime.
type ADX struct {
	Period    int
	Threshold float64
}

func NewADX(period int, threshold float64) *ADX {
	return &ADX{Period: period, Threshold: threshold}
}

func (a *ADX) Name() string    { return "adx" }
func (a *ADX) MinPeriods() int { return 2 * a.Period }

// Calculate returns the ADX series.
func (a *ADX) Calculate(s candle.Series) []float64 {
	n := len(s)
	out := nanSeries(n)
	if n < 2 {
		return out
	}

	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		hl := s[i].High - s[i].Low
		hc := math.Abs(s[i].High - s[i-1].Close)
		lc := math.Abs(s[i].Low - s[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))

		up := s[i].High - s[i-1].High
		down := s[i-1].Low - s[i].Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	trSum := rollingSum(tr, a.Period)
	plusSum := rollingSum(plusDM, a.Period)
	minusSum := rollingSum(minusDM, a.Period)

	dx := nanSeries(n)
	for i := a.Period - 1; i < n; i++ {
		plusDI := 100 * plusSum[i] / (trSum[i] + eps)
		minusDI := 100 * minusSum[i] / (trSum[i] + eps)
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI + eps)
	}

	for i := 2*a.Period - 2; i < n; i++ {
		sum := 0.0
		for j := i - a.Period + 1; j <= i; j++ {
			sum += dx[j]
		}
		out[i] = sum / float64(a.Period)
	}
	return out
}

func (a *ADX) Signals(s candle.Series) []float64 {
	adx := a.Calculate(s)
	out := make([]float64, len(s))
	for i := a.MinPeriods(); i < len(s); i++ {
		if adx[i] > a.Threshold {
			out[i] = 1
		}
	}
	return maskWarmup(out, a.MinPeriods())
}
