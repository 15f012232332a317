package candle

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads a price series from a CSV file with a header row of
// Date,Open,High,Low,Close,Volume. Dates are parsed as 2006-01-02 or RFC3339.
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "open", "high", "low", "close", "volume"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, required)
		}
	}

	series := make(Series, 0, len(rows)-1)
	for i, row := range rows[1:] {
		ts, err := parseDate(row[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		c := Candle{Timestamp: ts}
		for _, field := range []struct {
			name string
			dst  *float64
		}{
			{"open", &c.Open},
			{"high", &c.High},
			{"low", &c.Low},
			{"close", &c.Close},
			{"volume", &c.Volume},
		} {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[cols[field.name]]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: parsing %s: %w", path, i+2, field.name, err)
			}
			*field.dst = v
		}
		series = append(series, c)
	}
	return series, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
