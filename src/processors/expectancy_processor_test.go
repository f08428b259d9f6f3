package processors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradevault/backend/src/models"
)

func setupTrades(setup string, pnls ...float64) []models.Trade {
	trades := tradesFromPnLs(pnls...)
	for i := range trades {
		trades[i].Setup = setup
	}
	return trades
}

func TestExpectancyGroupsBySetup(t *testing.T) {
	trades := append(
		setupTrades("Breakout", 20, -10, 20),
		setupTrades("Reversal", -10, -10, 5)...,
	)

	result := NewExpectancyProcessor().Compute(trades, 10)
	require.Len(t, result, 2)

	// Sorted descending by expectancy, so Breakout comes first.
	breakout := result[0]
	assert.Equal(t, "Breakout", breakout.Setup)
	assert.Equal(t, 3, breakout.TradeCount)
	assert.InDelta(t, 2.0/3.0, breakout.WinRate, 1e-9)
	assert.InDelta(t, 2.0, breakout.AvgWinR, 1e-9)
	assert.InDelta(t, 1.0, breakout.AvgLossR, 1e-9)
	assert.InDelta(t, 1.0, breakout.Expectancy, 1e-9)

	reversal := result[1]
	assert.Equal(t, "Reversal", reversal.Setup)
	assert.Negative(t, reversal.Expectancy)
}

func TestExpectancyMatchesMeanR(t *testing.T) {
	// winRate*avgWinR - (1-winRate)*avgLossR is algebraically the mean
	// R-multiple when breakeven trades are absent.
	pnls := []float64{37, -12, 25, -8, 14, -30, 9}
	trades := setupTrades("Swing", pnls...)

	result := NewExpectancyProcessor().Compute(trades, 10)
	require.Len(t, result, 1)

	var mean float64
	for _, pnl := range pnls {
		mean += pnl / 10
	}
	mean /= float64(len(pnls))
	assert.InDelta(t, mean, result[0].Expectancy, 1e-9)
}

func TestExpectancyEmptySetupGroupsAsUnknown(t *testing.T) {
	trades := setupTrades("", 10, -5)

	result := NewExpectancyProcessor().Compute(trades, 10)
	require.Len(t, result, 1)
	assert.Equal(t, models.DefaultSetup, result[0].Setup)
	assert.Equal(t, 2, result[0].TradeCount)
}

func TestExpectancySingleTradeGroupSurvives(t *testing.T) {
	trades := setupTrades("OneOff", 10)

	result := NewExpectancyProcessor().Compute(trades, 10)
	require.Len(t, result, 1, "no minimum-sample filtering at this layer")
	assert.Equal(t, 1, result[0].TradeCount)
	assert.InDelta(t, 1.0, result[0].WinRate, 1e-9)
}

func TestExpectancySortOrder(t *testing.T) {
	trades := append(append(
		setupTrades("Loser", -20, -20),
		setupTrades("Flat", 0, 0)...),
		setupTrades("Winner", 30, 30)...,
	)

	result := NewExpectancyProcessor().Compute(trades, 10)
	require.Len(t, result, 3)
	assert.Equal(t, "Winner", result[0].Setup)
	assert.Equal(t, "Flat", result[1].Setup)
	assert.Equal(t, "Loser", result[2].Setup)
}

func TestExpectancyTieBreaksByName(t *testing.T) {
	trades := append(
		setupTrades("Beta", 10),
		setupTrades("Alpha", 10)...,
	)

	result := NewExpectancyProcessor().Compute(trades, 10)
	require.Len(t, result, 2)
	assert.Equal(t, "Alpha", result[0].Setup)
	assert.Equal(t, "Beta", result[1].Setup)
}

func TestExpectancyIgnoresNonFinite(t *testing.T) {
	trades := setupTrades("Swing", 10, math.NaN(), -5)

	result := NewExpectancyProcessor().Compute(trades, 10)
	require.Len(t, result, 1)
	assert.Equal(t, 2, result[0].TradeCount)
}

func TestExpectancyInvalidBaseRisk(t *testing.T) {
	assert.Empty(t, NewExpectancyProcessor().Compute(setupTrades("x", 10), 0))
}
