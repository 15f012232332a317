// Package backtest wires a configured run together: load prices, build the
// strategy, run the engine, score and export.
package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/algonex/algonex/internal/candle"
	"github.com/algonex/algonex/internal/config"
	"github.com/algonex/algonex/internal/engine"
	"github.com/algonex/algonex/internal/indicator"
	"github.com/algonex/algonex/internal/ml"
	"github.com/algonex/algonex/internal/strategy"
)

// Summary counts the trade log by direction.
type Summary struct {
	Total int `json:"total"`
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// Result is one completed backtest.
type Result struct {
	StrategyName string
	Mode         string
	Trades       []engine.Trade
	Performance  engine.Performance
	Summary      Summary
	MLMetrics    map[string]any
}

// Run executes the configured backtest over an already-loaded series.
func Run(cfg config.Config, s candle.Series, log zerolog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	eng := engine.New(cfg.InitialCapital, engine.WithLogger(log))
	res := &Result{Mode: cfg.Mode}

	switch cfg.Mode {
	case "ml":
		pred, trades, err := eng.RunML(ml.NaiveMomentum, s)
		if err != nil {
			return nil, err
		}
		res.StrategyName = "ml"
		res.Trades = trades
		res.MLMetrics = pred.Metrics
	default:
		strat, err := buildStrategy(cfg)
		if err != nil {
			return nil, err
		}
		decision, trades, err := eng.Run(strat, s)
		if err != nil {
			return nil, err
		}
		res.StrategyName = strat.Name()
		res.Trades = trades
		res.MLMetrics = decision.MLMetrics
	}

	res.Performance = eng.Metrics(res.Trades)
	res.Summary = summarize(res.Trades)

	log.Info().
		Str("strategy", res.StrategyName).
		Int("trades", res.Summary.Total).
		Float64("total_return", res.Performance.TotalReturn).
		Float64("win_rate", res.Performance.WinRate).
		Float64("sharpe_ratio", res.Performance.SharpeRatio).
		Float64("max_drawdown", res.Performance.MaxDrawdown).
		Float64("final_value", res.Performance.FinalPortfolioValue).
		Msg("backtest complete")

	if cfg.OutputDir != "" {
		if err := Export(cfg.OutputDir, res, cfg.InitialCapital); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// LoadSeries reads and cleans the configured CSV price file.
func LoadSeries(path string) (candle.Series, error) {
	s, err := candle.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	s = s.Sanitize()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("price data: %w", err)
	}
	return s, nil
}

func buildStrategy(cfg config.Config) (strategy.Strategy, error) {
	types, weights, params := cfg.IndicatorParams()
	weighted, err := strategy.BuildWeighted(indicator.NewRegistry(), types, weights, params)
	if err != nil {
		return nil, err
	}

	opts := []strategy.Option{
		strategy.WithThreshold(cfg.SignalThreshold),
		strategy.WithConfirmation(cfg.RequireConfirmation),
	}
	if cfg.Mode == "hybrid" {
		return strategy.NewHybrid(weighted, cfg.MLWeight, ml.NaiveMomentum, opts...)
	}
	return strategy.NewComposite(weighted, opts...)
}

func summarize(trades []engine.Trade) Summary {
	s := Summary{Total: len(trades)}
	for _, t := range trades {
		if t.Action == engine.Buy {
			s.Buys++
		} else {
			s.Sells++
		}
	}
	return s
}

// Export writes trades.csv and equity.csv into dir.
func Export(dir string, res *Result, initialCapital float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tradeRows := [][]string{{"action", "timestamp", "price"}}
	for _, t := range res.Trades {
		tradeRows = append(tradeRows, []string{
			string(t.Action),
			t.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(t.Price, 'f', -1, 64),
		})
	}
	if err := saveCSV(filepath.Join(dir, "trades.csv"), tradeRows); err != nil {
		return err
	}

	equityRows := [][]string{{"timestamp", "equity"}}
	for _, p := range equityCurve(res.Trades, initialCapital) {
		equityRows = append(equityRows, []string{
			p.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(p.Equity, 'f', -1, 64),
		})
	}
	return saveCSV(filepath.Join(dir, "equity.csv"), equityRows)
}

type equityPoint struct {
	Timestamp time.Time
	Equity    float64
}

// equityCurve replays the ledger and samples equity at each closed trade.
func equityCurve(trades []engine.Trade, initialCapital float64) []equityPoint {
	cash := initialCapital
	shares := 0.0
	holding := false

	var out []equityPoint
	for _, t := range trades {
		switch {
		case t.Action == engine.Buy && !holding:
			shares = cash / t.Price
			cash = 0
			holding = true
		case t.Action == engine.Sell && holding:
			cash = shares * t.Price
			shares = 0
			holding = false
			out = append(out, equityPoint{Timestamp: t.Timestamp, Equity: cash})
		}
	}
	return out
}

func saveCSV(filename string, rows [][]string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
