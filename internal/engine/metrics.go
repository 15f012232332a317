package engine

import (
	"gonum.org/v1/gonum/stat"
)

// Performance summarizes a trade log scored against an initial capital.
type Performance struct {
	WinRate             float64 `json:"win_rate"`
	TotalReturn         float64 `json:"total_return"`
	SharpeRatio         float64 `json:"sharpe_ratio"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	FinalPortfolioValue float64 `json:"final_portfolio_value"`
	TotalProfitLoss     float64 `json:"total_profit_loss"`
	TotalTrades         int     `json:"total_trades"`
	ClosedTrades        int     `json:"closed_trades"`
}

// ComputePerformance walks the trade log with a long-only single-position
// ledger. A BUY while flat converts all cash to shares at that price, a
// SELL while holding converts back and realizes one trade return. BUY
// while holding and SELL while flat are ignored.
func ComputePerformance(trades []Trade, initialCapital float64) Performance {
	if len(trades) == 0 {
		return Performance{FinalPortfolioValue: initialCapital}
	}

	cash := initialCapital
	shares := 0.0
	entryPrice := 0.0
	holding := false

	var returns []float64
	equity := []float64{initialCapital}
	wins := 0

	for _, t := range trades {
		switch {
		case t.Action == Buy && !holding:
			shares = cash / t.Price
			entryPrice = t.Price
			cash = 0
			holding = true
		case t.Action == Sell && holding:
			cash = shares * t.Price
			shares = 0
			holding = false

			r := (t.Price - entryPrice) / entryPrice
			returns = append(returns, r)
			if r > 0 {
				wins++
			}
			equity = append(equity, cash)
		}
	}

	// Any still-open position is marked to the last trade's price.
	finalValue := cash
	if holding {
		finalValue += shares * trades[len(trades)-1].Price
	}

	perf := Performance{
		TotalReturn:         (finalValue - initialCapital) / initialCapital,
		FinalPortfolioValue: finalValue,
		TotalProfitLoss:     finalValue - initialCapital,
		TotalTrades:         len(trades),
		ClosedTrades:        len(returns),
	}
	if len(returns) > 0 {
		perf.WinRate = float64(wins) / float64(len(returns))
	}
	if len(returns) >= 2 {
		std := stat.StdDev(returns, nil)
		if std > 0 {
			perf.SharpeRatio = stat.Mean(returns, nil) / std
		}
	}
	perf.MaxDrawdown = maxDrawdown(equity)
	return perf
}

// maxDrawdown is the largest relative peak-to-trough decline over the
// equity curve.
func maxDrawdown(equity []float64) float64 {
	peak := 0.0
	maxDD := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
