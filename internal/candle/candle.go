// Package candle
package candle

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Candle is a single OHLCV row of a price series.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Validate checks if a candle has valid data.
func (c *Candle) Validate() error {
	if c.Timestamp.IsZero() {
		return errors.New("candle timestamp is zero")
	}
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return errors.New("candle prices must be positive")
	}
	if c.High < c.Low {
		return errors.New("candle high cannot be less than low")
	}
	if c.Open < c.Low || c.Open > c.High {
		return errors.New("candle open price must be between high and low")
	}
	if c.Close < c.Low || c.Close > c.High {
		return errors.New("candle close price must be between high and low")
	}
	if c.Volume < 0 {
		return errors.New("candle volume cannot be negative")
	}
	return nil
}

// Series is a chronologically ordered price table. Indicators and strategies
// read it but never mutate it.
type Series []Candle

// Validate checks the series invariants: non-empty, valid rows, and strictly
// increasing timestamps.
func (s Series) Validate() error {
	if len(s) == 0 {
		return errors.New("series is empty")
	}
	for i := range s {
		if err := s[i].Validate(); err != nil {
			return fmt.Errorf("invalid candle at index %d (%s): %w", i, s[i].Timestamp.Format(time.RFC3339), err)
		}
		if i > 0 && !s[i].Timestamp.After(s[i-1].Timestamp) {
			return fmt.Errorf("timestamps not strictly increasing at index %d (%s)", i, s[i].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// Sanitize returns a copy of the series sorted by timestamp, with duplicate
// timestamps and rows with missing (non-positive) OHLC values dropped. The
// first occurrence of a duplicated timestamp wins.
func (s Series) Sanitize() Series {
	out := make(Series, 0, len(s))
	for _, c := range s {
		if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	dedup := out[:0]
	for _, c := range out {
		if len(dedup) > 0 && c.Timestamp.Equal(dedup[len(dedup)-1].Timestamp) {
			continue
		}
		dedup = append(dedup, c)
	}
	return dedup
}

// Between returns the sub-series with timestamps in [from, to). A zero bound
// is open-ended.
func (s Series) Between(from, to time.Time) Series {
	out := make(Series, 0, len(s))
	for _, c := range s {
		if !from.IsZero() && c.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !c.Timestamp.Before(to) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s Series) Opens() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Open
	}
	return out
}

func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].High
	}
	return out
}

func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Low
	}
	return out
}

func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Close
	}
	return out
}

func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Volume
	}
	return out
}

func (s Series) Timestamps() []time.Time {
	out := make([]time.Time, len(s))
	for i := range s {
		out[i] = s[i].Timestamp
	}
	return out
}
