package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/algonex/algonex/internal/backtest"
	"github.com/algonex/algonex/internal/config"
	"github.com/algonex/algonex/internal/journal"
	"github.com/algonex/algonex/internal/logx"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	log := logx.New(cfg.LogLevel)

	series, err := backtest.LoadSeries(cfg.DataFile)
	if err != nil {
		return err
	}
	log.Info().
		Str("ticker", cfg.Ticker).
		Str("file", cfg.DataFile).
		Int("candles", len(series)).
		Msg("price data loaded")

	started := time.Now().UTC()
	res, err := backtest.Run(cfg, series, log)
	if err != nil {
		return err
	}

	printResult(res)

	if cfg.DBConnStr != "" {
		if err := persist(cfg, res, started); err != nil {
			log.Error().Err(err).Msg("failed to persist run")
		} else {
			log.Info().Msg("run persisted")
		}
	}
	return nil
}

func printResult(res *backtest.Result) {
	p := res.Performance
	fmt.Printf("strategy:        %s\n", res.StrategyName)
	fmt.Printf("trades:          %d (%d buys, %d sells)\n", res.Summary.Total, res.Summary.Buys, res.Summary.Sells)
	fmt.Printf("total return:    %.4f\n", p.TotalReturn)
	fmt.Printf("win rate:        %.4f\n", p.WinRate)
	fmt.Printf("sharpe ratio:    %.4f\n", p.SharpeRatio)
	fmt.Printf("max drawdown:    %.4f\n", p.MaxDrawdown)
	fmt.Printf("final value:     %.2f\n", p.FinalPortfolioValue)
	fmt.Printf("profit/loss:     %.2f\n", p.TotalProfitLoss)
	if len(res.MLMetrics) > 0 {
		fmt.Printf("ml metrics:      %v\n", res.MLMetrics)
	}
}

func persist(cfg config.Config, res *backtest.Result, started time.Time) error {
	pg, err := journal.NewPostgres(cfg.DBConnStr)
	if err != nil {
		return err
	}
	defer pg.Close()

	run := journal.NewRun(cfg.Ticker, res.StrategyName, res.Mode)
	run.StartedAt = started
	run.FinishedAt = time.Now().UTC()
	run.Trades = res.Trades
	run.Performance = res.Performance

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return pg.SaveRun(ctx, run)
}
