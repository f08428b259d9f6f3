// backend/src/processors/risk_metrics_processor.go
package processors

import (
	"math"
	"sort"

	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/utils"
)

// RiskMetricsProcessor computes aggregate performance statistics. It is
// stateless: Compute is a pure function over an immutable trade snapshot and
// is safe to call concurrently.
type RiskMetricsProcessor struct{}

func NewRiskMetricsProcessor() *RiskMetricsProcessor {
	return &RiskMetricsProcessor{}
}

// Compute partitions trades into wins (pnl>0) and losses (pnl<0); breakeven
// trades count toward the total but toward neither side of the win rate.
// Trades with non-finite pnl are excluded from every ratio and reported via
// ExcludedTrades. The balance series drives the drawdown figure and may be
// empty.
func (p *RiskMetricsProcessor) Compute(trades []models.Trade, balances []float64) models.RiskMetrics {
	m := models.RiskMetrics{}

	ordered := SortChronological(trades)

	var grossWin, grossLoss, netPnL float64
	finite := 0
	streak := 0
	for _, t := range ordered {
		m.TotalTrades++
		if !isFinite(t.PnL) {
			m.ExcludedTrades++
			continue
		}
		finite++
		netPnL += t.PnL

		switch {
		case t.PnL > 0:
			m.Wins++
			grossWin += t.PnL
			if t.PnL > m.LargestWin {
				m.LargestWin = t.PnL
			}
			if streak > 0 {
				streak++
			} else {
				streak = 1
			}
			if streak > m.BestStreak {
				m.BestStreak = streak
			}
		case t.PnL < 0:
			m.Losses++
			grossLoss += -t.PnL
			if t.PnL < m.LargestLoss {
				m.LargestLoss = t.PnL
			}
			if streak < 0 {
				streak--
			} else {
				streak = -1
			}
			if streak < m.WorstStreak {
				m.WorstStreak = streak
			}
		default:
			// Breakeven neither extends nor resets a streak.
			m.Breakeven++
		}
	}
	m.CurrentStreak = streak

	if m.Wins+m.Losses > 0 {
		m.WinRate = float64(m.Wins) / float64(m.Wins+m.Losses)
	}
	if m.Wins > 0 {
		m.AverageWin = grossWin / float64(m.Wins)
	}
	if m.Losses > 0 {
		m.AverageLoss = grossLoss / float64(m.Losses)
	}
	if finite > 0 {
		m.Expectancy = netPnL / float64(finite)
	}

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossWin / grossLoss
	case grossWin > 0:
		m.ProfitFactor = models.InfiniteProfitFactor
	default:
		m.ProfitFactor = 0
	}

	m.MaxDrawdownPct = MaxDrawdownPct(balances)
	return m
}

// MaxDrawdownPct is the largest peak-to-trough decline of the running
// balance series, as a percentage of the peak. The peak only moves forward.
// An empty series has zero drawdown.
func MaxDrawdownPct(balances []float64) float64 {
	if len(balances) == 0 {
		return 0
	}
	peak := balances[0]
	maxDD := 0.0
	for _, b := range balances {
		if b > peak {
			peak = b
		}
		if peak > 0 {
			if dd := (peak - b) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return utils.RoundFloat(maxDD, 2)
}

// BuildBalanceSeries turns a starting balance plus chronological trades into
// the running-balance points Compute's drawdown expects. Non-finite pnl
// values are carried through as no-ops.
func BuildBalanceSeries(trades []models.Trade, startingBalance float64) []float64 {
	ordered := SortChronological(trades)
	series := make([]float64, 0, len(ordered)+1)
	balance := startingBalance
	series = append(series, balance)
	for _, t := range ordered {
		if isFinite(t.PnL) {
			balance += t.PnL
		}
		series = append(series, balance)
	}
	return series
}

// SortChronological returns a copy sorted by timestamp. Undated trades carry
// a zero timestamp and therefore sort before every dated trade, matching the
// store's NULLs-first date ordering. The sort is stable so trades sharing a
// timestamp keep their original insertion order, which is the documented
// tie-break for streak walking.
func SortChronological(trades []models.Trade) []models.Trade {
	ordered := make([]models.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp().Before(ordered[j].Timestamp())
	})
	return ordered
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
