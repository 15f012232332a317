// Package indicator provides technical analysis indicators for financial markets.
package indicator

import (
	"math"

	"github.com/algonex/algonex/internal/candle"
)

// eps pads denominators that can legitimately reach zero on flat price or
// volume runs, so degenerate windows never surface NaN/Inf.
const eps = 1e-10

// Indicator computes a raw numeric series from price data and converts it
// into a directional vote per timestamp.
//
// Signals returns one value per candle, each in {-1, 0, +1} (sell/hold/buy).
// Every index before MinPeriods is 0 (hold): not enough history yet. Values
// at index i depend only on candles 0..i.
//
// Calculate exposes the underlying numeric series (RSI level, MACD line, SAR
// stop, ...) for diagnostics; warmup positions are NaN there, matching the
// convention of the signal mask.
type Indicator interface {
	Name() string
	MinPeriods() int
	Calculate(s candle.Series) []float64
	Signals(s candle.Series) []float64
}

// nanSeries returns a slice of n NaNs.
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// maskWarmup zeroes every signal before the indicator's first valid index.
func maskWarmup(signals []float64, minPeriods int) []float64 {
	for i := 0; i < minPeriods && i < len(signals); i++ {
		signals[i] = 0
	}
	return signals
}

// rollingMean computes the simple moving average over a full window of size
// window. Indices before window-1 are NaN.
func rollingMean(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// rollingSum computes the moving sum over a full window. Indices before
// window-1 are NaN.
func rollingSum(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum
		}
	}
	return out
}

// rollingStd computes the sample standard deviation over a full window.
// Indices before window-1 are NaN.
func rollingStd(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 1 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		mean := 0.0
		for j := i - window + 1; j <= i; j++ {
			mean += values[j]
		}
		mean /= float64(window)
		variance := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		out[i] = math.Sqrt(variance / float64(window-1))
	}
	return out
}

// rollingMax computes the highest value over a full window.
func rollingMax(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		max := values[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			if values[j] > max {
				max = values[j]
			}
		}
		out[i] = max
	}
	return out
}

// rollingMin computes the lowest value over a full window.
func rollingMin(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		min := values[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			if values[j] < min {
				min = values[j]
			}
		}
		out[i] = min
	}
	return out
}

// ema computes an exponential moving average seeded with the first value,
// alpha = 2/(span+1). Defined from index 0.
func ema(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// diff computes first differences; index 0 is 0.
func diff(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// typicalPrices returns (high+low+close)/3 per candle.
func typicalPrices(s candle.Series) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = (s[i].High + s[i].Low + s[i].Close) / 3.0
	}
	return out
}
