// backend/src/models/canonical.go
package models

import "time"

// CanonicalField identifies one of the fixed trade attributes the import
// pipeline knows how to populate, independent of how the source file names
// its columns.
type CanonicalField string

const (
	FieldPair       CanonicalField = "pair"
	FieldDirection  CanonicalField = "direction"
	FieldEntry      CanonicalField = "entry"
	FieldExit       CanonicalField = "exit"
	FieldPnL        CanonicalField = "pnl"
	FieldLots       CanonicalField = "lots"
	FieldDate       CanonicalField = "date"
	FieldTime       CanonicalField = "time"
	FieldSetup      CanonicalField = "setup"
	FieldEmotion    CanonicalField = "emotion"
	FieldNotes      CanonicalField = "notes"
	FieldStopLoss   CanonicalField = "stopLoss"
	FieldTakeProfit CanonicalField = "takeProfit"
)

// CanonicalFields lists every field in declaration order. The column mapper
// relies on this order to break scoring ties deterministically.
var CanonicalFields = []CanonicalField{
	FieldPair, FieldDirection, FieldEntry, FieldExit, FieldPnL, FieldLots,
	FieldDate, FieldTime, FieldSetup, FieldEmotion, FieldNotes,
	FieldStopLoss, FieldTakeProfit,
}

type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// DefaultSetup is used when the source file carries no setup column or the
// cell is empty.
const DefaultSetup = "Unknown"

// Trade is the canonical, unified representation of a single closed trade.
// The row normalizer is the only producer; once created a Trade is never
// mutated by the pipeline. A zero Date means the source had no usable date
// column; ClockTime is empty when no time-of-day was present.
type Trade struct {
	ID         string    `json:"id"`
	Pair       string    `json:"pair"`
	Direction  Direction `json:"direction"`
	Entry      float64   `json:"entry"`
	Exit       float64   `json:"exit"`
	Lots       float64   `json:"lots"`
	PnL        float64   `json:"pnl"`
	Date       time.Time `json:"date"`
	ClockTime  string    `json:"time,omitempty"` // "15:04", empty when unknown
	Setup      string    `json:"setup"`
	Emotion    string    `json:"emotion,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	StopLoss   *float64  `json:"stop_loss,omitempty"`
	TakeProfit *float64  `json:"take_profit,omitempty"`
}

// HasDate reports whether the trade carries a calendar date.
func (t *Trade) HasDate() bool {
	return !t.Date.IsZero()
}

// Timestamp combines date and clock time for chronological ordering.
// Trades without a clock time sort at midnight of their date.
func (t *Trade) Timestamp() time.Time {
	if t.ClockTime == "" {
		return t.Date
	}
	clock, err := time.Parse("15:04", t.ClockTime)
	if err != nil {
		return t.Date
	}
	return t.Date.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}

// Hour returns the local hour-of-day for session bucketing, and false when
// the trade has no clock time.
func (t *Trade) Hour() (int, bool) {
	if t.ClockTime == "" {
		return 0, false
	}
	clock, err := time.Parse("15:04", t.ClockTime)
	if err != nil {
		return 0, false
	}
	return clock.Hour(), true
}
