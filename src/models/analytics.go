// backend/src/models/analytics.go
package models

import "math"

// InfiniteProfitFactor is the explicit sentinel returned when gross wins are
// positive and gross losses are zero. It is an ordinary encodable float so it
// survives JSON serialization, unlike math.Inf.
const InfiniteProfitFactor = math.MaxFloat64

// RiskMetrics aggregates performance statistics over a trade list. Derived
// on demand, never persisted.
type RiskMetrics struct {
	TotalTrades    int     `json:"total_trades"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Breakeven      int     `json:"breakeven"`
	ExcludedTrades int     `json:"excluded_trades"` // non-finite pnl, kept out of ratios
	WinRate        float64 `json:"win_rate"`
	AverageWin     float64 `json:"average_win"`
	AverageLoss    float64 `json:"average_loss"` // reported as a positive magnitude
	LargestWin     float64 `json:"largest_win"`
	LargestLoss    float64 `json:"largest_loss"`
	ProfitFactor   float64 `json:"profit_factor"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	CurrentStreak  int     `json:"current_streak"` // >0 consecutive wins, <0 losses
	BestStreak     int     `json:"best_streak"`
	WorstStreak    int     `json:"worst_streak"`
	Expectancy     float64 `json:"expectancy"` // currency-denominated
}

// SetupExpectancy is the per-setup edge summary, R-denominated.
type SetupExpectancy struct {
	Setup      string  `json:"setup"`
	TradeCount int     `json:"trade_count"`
	WinRate    float64 `json:"win_rate"`
	AvgWinR    float64 `json:"avg_win_r"`
	AvgLossR   float64 `json:"avg_loss_r"` // always >= 0
	Expectancy float64 `json:"expectancy"` // winRate*avgWinR - (1-winRate)*avgLossR
}

// ECDFPoint is one step of the empirical cumulative distribution of
// R-multiples. Cumulative is non-decreasing in R and reaches 1 at the
// maximum observed value.
type ECDFPoint struct {
	R          float64 `json:"r"`
	Cumulative float64 `json:"cumulative"`
}

// RDistribution bundles the ECDF with common percentile queries.
type RDistribution struct {
	Points   []ECDFPoint `json:"points"`
	MedianR  float64     `json:"median_r"`
	P90R     float64     `json:"p90_r"`
	BaseRisk float64     `json:"base_risk"`
}

// SessionCell is one (session, hour) bucket of the time-of-day heatmap.
type SessionCell struct {
	Session  string  `json:"session"`
	Hour     int     `json:"hour"`
	Count    int     `json:"count"`
	WinRate  float64 `json:"win_rate"`
	TotalPnL float64 `json:"total_pnl"`
}

// SessionHeatmap is the full grid plus the counts of trades left out of it:
// UntimedTrades carried no clock time, ExcludedTrades had a non-finite pnl.
type SessionHeatmap struct {
	Cells          []SessionCell `json:"cells"`
	UntimedTrades  int           `json:"untimed_trades"`
	ExcludedTrades int           `json:"excluded_trades"`
	BoundaryHours  [3]int        `json:"boundary_hours"`
}
