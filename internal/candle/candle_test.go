package candle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func validCandle(n int, close float64) Candle {
	return Candle{
		Timestamp: day(n),
		Open:      close,
		High:      close + 1,
		Low:       close - 1,
		Close:     close,
		Volume:    1000,
	}
}

func TestCandleValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Candle)
		wantErr bool
	}{
		{name: "valid candle", mutate: func(c *Candle) {}},
		{name: "zero timestamp", mutate: func(c *Candle) { c.Timestamp = time.Time{} }, wantErr: true},
		{name: "non-positive close", mutate: func(c *Candle) { c.Close = 0 }, wantErr: true},
		{name: "high below low", mutate: func(c *Candle) { c.High = c.Low - 1 }, wantErr: true},
		{name: "open outside range", mutate: func(c *Candle) { c.Open = c.High + 5 }, wantErr: true},
		{name: "close outside range", mutate: func(c *Candle) { c.Close = c.Low - 5 }, wantErr: true},
		{name: "negative volume", mutate: func(c *Candle) { c.Volume = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandle(0, 100)
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSeriesValidate(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		assert.Error(t, Series{}.Validate())
	})

	t.Run("ordered series", func(t *testing.T) {
		s := Series{validCandle(0, 100), validCandle(1, 101), validCandle(2, 102)}
		assert.NoError(t, s.Validate())
	})

	t.Run("duplicate timestamp", func(t *testing.T) {
		s := Series{validCandle(0, 100), validCandle(0, 101)}
		assert.Error(t, s.Validate())
	})

	t.Run("out of order", func(t *testing.T) {
		s := Series{validCandle(1, 100), validCandle(0, 101)}
		assert.Error(t, s.Validate())
	})
}

func TestSeriesSanitize(t *testing.T) {
	bad := validCandle(2, 100)
	bad.Close = 0

	s := Series{
		validCandle(3, 103),
		validCandle(0, 100),
		bad,
		validCandle(0, 999), // duplicate timestamp, first occurrence wins
		validCandle(1, 101),
	}

	out := s.Sanitize()
	require.NoError(t, out.Validate())
	require.Len(t, out, 3)
	assert.Equal(t, 100.0, out[0].Close)
	assert.Equal(t, 101.0, out[1].Close)
	assert.Equal(t, 103.0, out[2].Close)
}

func TestSeriesBetween(t *testing.T) {
	s := Series{validCandle(0, 100), validCandle(1, 101), validCandle(2, 102), validCandle(3, 103)}

	sub := s.Between(day(1), day(3))
	require.Len(t, sub, 2)
	assert.Equal(t, 101.0, sub[0].Close)
	assert.Equal(t, 102.0, sub[1].Close)

	assert.Len(t, s.Between(time.Time{}, time.Time{}), 4)
	assert.Len(t, s.Between(day(2), time.Time{}), 2)
}

func TestSeriesAccessors(t *testing.T) {
	s := Series{validCandle(0, 100), validCandle(1, 102)}

	assert.Equal(t, []float64{100, 102}, s.Closes())
	assert.Equal(t, []float64{101, 103}, s.Highs())
	assert.Equal(t, []float64{99, 101}, s.Lows())
	assert.Equal(t, []float64{100, 102}, s.Opens())
	assert.Equal(t, []float64{1000, 1000}, s.Volumes())
	assert.Equal(t, []time.Time{day(0), day(1)}, s.Timestamps())
}
