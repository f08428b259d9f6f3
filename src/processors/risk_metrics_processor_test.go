package processors

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradevault/backend/src/models"
)

func tradesFromPnLs(pnls ...float64) []models.Trade {
	trades := make([]models.Trade, len(pnls))
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, pnl := range pnls {
		trades[i] = models.Trade{
			Pair:      "EURUSD",
			Direction: models.Long,
			Entry:     1.0,
			PnL:       pnl,
			Date:      day.AddDate(0, 0, i),
		}
	}
	return trades
}

func TestComputeStreakWalk(t *testing.T) {
	trades := tradesFromPnLs(10, 10, -5, 10, -5, -5, -5, 10, 10, 10)

	m := NewRiskMetricsProcessor().Compute(trades, nil)

	assert.Equal(t, 10, m.TotalTrades)
	assert.Equal(t, 6, m.Wins)
	assert.Equal(t, 4, m.Losses)
	assert.Equal(t, 3, m.CurrentStreak)
	assert.Equal(t, 3, m.BestStreak)
	assert.Equal(t, -3, m.WorstStreak)
}

func TestComputeRatios(t *testing.T) {
	trades := tradesFromPnLs(10, 10, -5, 10, -5, -5, -5, 10, 10, 10)

	m := NewRiskMetricsProcessor().Compute(trades, nil)

	assert.InDelta(t, 0.6, m.WinRate, 1e-9)
	assert.InDelta(t, 10.0, m.AverageWin, 1e-9)
	assert.InDelta(t, 5.0, m.AverageLoss, 1e-9, "average loss is a positive magnitude")
	assert.InDelta(t, 10.0, m.LargestWin, 1e-9)
	assert.InDelta(t, -5.0, m.LargestLoss, 1e-9)
	assert.InDelta(t, 3.0, m.ProfitFactor, 1e-9) // 60 gross win / 20 gross loss
	assert.InDelta(t, 4.0, m.Expectancy, 1e-9)   // net 40 over 10 trades
}

func TestComputeAllLosing(t *testing.T) {
	trades := tradesFromPnLs(-10, -20, -5)

	m := NewRiskMetricsProcessor().Compute(trades, nil)

	assert.Zero(t, m.Wins)
	assert.Equal(t, 3, m.Losses)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.ProfitFactor, "no gross win means a zero profit factor")
	assert.Negative(t, m.Expectancy)
	assert.Equal(t, -3, m.CurrentStreak)
	assert.Equal(t, -3, m.WorstStreak)
	assert.Zero(t, m.BestStreak)
}

func TestComputeZeroLossSentinel(t *testing.T) {
	trades := tradesFromPnLs(10, 20)

	m := NewRiskMetricsProcessor().Compute(trades, nil)

	assert.Equal(t, models.InfiniteProfitFactor, m.ProfitFactor)
	assert.False(t, math.IsInf(m.ProfitFactor, 0), "sentinel must survive JSON encoding")
}

func TestComputeBreakevenTrades(t *testing.T) {
	trades := tradesFromPnLs(10, 0, -10, 0)

	m := NewRiskMetricsProcessor().Compute(trades, nil)

	assert.Equal(t, 4, m.TotalTrades)
	assert.Equal(t, 2, m.Breakeven)
	assert.InDelta(t, 0.5, m.WinRate, 1e-9, "breakeven trades stay out of the win rate")
	// Streak walk: +1, hold, -1, hold.
	assert.Equal(t, -1, m.CurrentStreak)
	assert.Equal(t, 1, m.BestStreak)
	assert.Equal(t, -1, m.WorstStreak)
}

func TestComputeExcludesNonFinitePnL(t *testing.T) {
	trades := tradesFromPnLs(10, math.NaN(), -5, math.Inf(1))

	m := NewRiskMetricsProcessor().Compute(trades, nil)

	assert.Equal(t, 4, m.TotalTrades)
	assert.Equal(t, 2, m.ExcludedTrades)
	assert.Equal(t, 1, m.Wins)
	assert.Equal(t, 1, m.Losses)
	assert.InDelta(t, 2.5, m.Expectancy, 1e-9, "expectancy averages only finite trades")
	assert.False(t, math.IsNaN(m.ProfitFactor))
}

func TestComputeEmpty(t *testing.T) {
	m := NewRiskMetricsProcessor().Compute(nil, nil)

	assert.Zero(t, m.TotalTrades)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.ProfitFactor)
	assert.Zero(t, m.MaxDrawdownPct)
}

func TestMaxDrawdownPct(t *testing.T) {
	// Peak 120, trough 90: 25% drawdown. The later run to 130 does not erase it.
	balances := []float64{100, 120, 90, 110, 130}
	assert.InDelta(t, 25.0, MaxDrawdownPct(balances), 1e-9)

	assert.Zero(t, MaxDrawdownPct(nil))
	assert.Zero(t, MaxDrawdownPct([]float64{100, 110, 120}), "monotone growth has no drawdown")
}

func TestBuildBalanceSeries(t *testing.T) {
	trades := tradesFromPnLs(50, -20, math.NaN(), 10)

	series := BuildBalanceSeries(trades, 1000)

	assert.Equal(t, []float64{1000, 1050, 1030, 1030, 1040}, series,
		"non-finite pnl carries the balance through unchanged")
}

func TestSortChronological(t *testing.T) {
	jan := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	trades := []models.Trade{
		{ID: "c", Date: jan(3)},
		{ID: "a1", Date: jan(1)},
		{ID: "a2", Date: jan(1)},
		{ID: "b", Date: jan(2)},
	}

	ordered := SortChronological(trades)

	require.Len(t, ordered, 4)
	assert.Equal(t, "a1", ordered[0].ID)
	assert.Equal(t, "a2", ordered[1].ID, "equal timestamps keep insertion order")
	assert.Equal(t, "b", ordered[2].ID)
	assert.Equal(t, "c", ordered[3].ID)

	assert.Equal(t, "c", trades[0].ID, "input slice is not mutated")
}

func TestSortChronologicalMixedDatedAndUndated(t *testing.T) {
	jan := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	trades := []models.Trade{
		{ID: "late", Date: jan(9)},
		{ID: "undated1"},
		{ID: "early", Date: jan(1)},
		{ID: "undated2"},
	}

	ordered := SortChronological(trades)

	require.Len(t, ordered, 4)
	assert.Equal(t, "undated1", ordered[0].ID, "undated trades sort before every dated trade")
	assert.Equal(t, "undated2", ordered[1].ID, "undated trades keep insertion order among themselves")
	assert.Equal(t, "early", ordered[2].ID)
	assert.Equal(t, "late", ordered[3].ID, "dated trades stay chronological despite undated neighbors")
}

func TestComputeStreaksWithUndatedNeighbors(t *testing.T) {
	jan := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	// Walk order after sorting: the undated loss first, then Jan 1 and Jan 9
	// wins. A comparator that stopped ordering around the undated trade would
	// walk Jan 9 before Jan 1 and report the wrong current streak.
	trades := []models.Trade{
		{PnL: 10, Date: jan(9)},
		{PnL: -5},
		{PnL: 10, Date: jan(1)},
	}

	m := NewRiskMetricsProcessor().Compute(trades, nil)
	assert.Equal(t, 2, m.CurrentStreak)
	assert.Equal(t, 2, m.BestStreak)
	assert.Equal(t, -1, m.WorstStreak)
}

func TestSortChronologicalUndatedKeepInsertionOrder(t *testing.T) {
	trades := []models.Trade{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	ordered := SortChronological(trades)
	for i, trade := range ordered {
		assert.Equal(t, trades[i].ID, trade.ID)
	}
}

func TestComputeClockTimeOrdering(t *testing.T) {
	// Same calendar day; the clock time decides the walk order.
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		{PnL: 10, Date: day, ClockTime: "15:00"},
		{PnL: -5, Date: day, ClockTime: "09:00"},
	}

	m := NewRiskMetricsProcessor().Compute(trades, nil)
	assert.Equal(t, 1, m.CurrentStreak, "the 15:00 win is chronologically last")
}
