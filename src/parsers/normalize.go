// backend/src/parsers/normalize.go
package parsers

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/security/validation"
	"github.com/username/tradevault/backend/src/utils"
)

var pairPattern = regexp.MustCompile(`^[A-Z0-9]{3,8}$`)

// minTickSize is the tolerance below which entry and exit are considered
// equal and flagged as suspicious (5-digit FX pricing).
const minTickSize = 0.00001

// requiredFields must coerce successfully for a row to produce a Trade.
var requiredFields = []models.CanonicalField{
	models.FieldPair, models.FieldDirection, models.FieldEntry, models.FieldPnL,
}

// NormalizeRows converts mapped raw rows into canonical Trades. Rows missing
// a required field are skipped with every failure for that row recorded as an
// ImportError; optional-field failures degrade to warnings and the Trade is
// still emitted. This function never panics on bad input. Partial failure is
// the contract: good rows import even when later rows are malformed.
func NormalizeRows(table *models.RawTable, mappings []models.ColumnMapping) (trades []models.Trade, errs []models.ImportError, warnings []string, skipped int) {
	columnFor := make(map[models.CanonicalField]string)
	for _, m := range mappings {
		if m.Target != nil {
			columnFor[*m.Target] = m.Source
		}
	}

	// An entirely unmapped required column is a file-level warning, not a
	// per-row rejection: the affected values stay at their zero value. Rows
	// are only skipped when a mapped required cell is missing or invalid.
	for _, field := range requiredFields {
		if _, ok := columnFor[field]; !ok {
			warnings = append(warnings, fmt.Sprintf("no column mapped for required field %q; imported values will be incomplete", field))
		}
	}
	if _, ok := columnFor[models.FieldDate]; !ok {
		warnings = append(warnings, "no date column recognized; trades will be imported without dates")
	}

	trades = make([]models.Trade, 0, len(table.Rows))
	for i := range table.Rows {
		rowNum := i + 1
		trade, rowErrs, rowWarnings := normalizeRow(table, i, rowNum, columnFor)
		warnings = append(warnings, rowWarnings...)
		if trade == nil {
			errs = append(errs, rowErrs...)
			skipped++
			continue
		}
		trades = append(trades, *trade)
	}
	return trades, errs, warnings, skipped
}

// normalizeRow returns nil when the row must be skipped; rowErrs then holds
// every coercion/validation failure for the row, in column order.
func normalizeRow(table *models.RawTable, row, rowNum int, columnFor map[models.CanonicalField]string) (*models.Trade, []models.ImportError, []string) {
	var rowErrs []models.ImportError
	var optionalErrs []models.ImportError
	var rowWarnings []string
	reject := false

	fail := func(field models.CanonicalField, value, msg string) {
		rowErrs = append(rowErrs, models.ImportError{
			Row: rowNum, Column: columnFor[field], Value: value, Message: msg,
		})
		reject = true
	}
	// Optional-field failures are warnings on an emitted Trade, but when the
	// row ends up skipped they are reported as ImportErrors alongside the
	// required-field failures.
	warn := func(field models.CanonicalField, value, msg string) {
		optionalErrs = append(optionalErrs, models.ImportError{
			Row: rowNum, Column: columnFor[field], Value: value, Message: msg,
		})
		rowWarnings = append(rowWarnings, fmt.Sprintf("row %d, column %q (%q): %s", rowNum, columnFor[field], value, msg))
	}
	cell := func(field models.CanonicalField) (string, bool) {
		col, ok := columnFor[field]
		if !ok {
			return "", false
		}
		return strings.TrimSpace(table.Cell(row, col)), true
	}

	trade := models.Trade{ID: uuid.NewString(), Setup: models.DefaultSetup}

	// pair
	if raw, ok := cell(models.FieldPair); ok {
		pair := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
		if !pairPattern.MatchString(pair) {
			fail(models.FieldPair, raw, "pair must be 3-8 alphanumeric characters")
		} else {
			trade.Pair = pair
		}
	}

	// direction
	if raw, ok := cell(models.FieldDirection); ok {
		switch strings.ToLower(raw) {
		case "buy", "long", "b":
			trade.Direction = models.Long
		case "sell", "short", "s":
			trade.Direction = models.Short
		default:
			fail(models.FieldDirection, raw, "unrecognized direction, expected buy/sell/long/short")
		}
	}

	// entry
	if raw, ok := cell(models.FieldEntry); ok {
		if v, err := utils.ParseDecimal(raw); err != nil {
			fail(models.FieldEntry, raw, "entry price is not numeric")
		} else if v <= 0 {
			fail(models.FieldEntry, raw, "entry price must be positive")
		} else {
			trade.Entry = v
		}
	}

	// pnl
	if raw, ok := cell(models.FieldPnL); ok {
		if v, err := utils.ParseDecimal(raw); err != nil {
			fail(models.FieldPnL, raw, "profit/loss is not numeric")
		} else {
			trade.PnL = v
		}
	}

	// exit (optional)
	if raw, ok := cell(models.FieldExit); ok && raw != "" {
		if v, err := utils.ParseDecimal(raw); err != nil || v < 0 {
			warn(models.FieldExit, raw, "exit price unparseable, left absent")
		} else {
			trade.Exit = v
		}
	}

	// lots (optional)
	if raw, ok := cell(models.FieldLots); ok && raw != "" {
		if v, err := utils.ParseDecimal(raw); err != nil || v < 0 {
			warn(models.FieldLots, raw, "lot size unparseable, left absent")
		} else {
			trade.Lots = v
		}
	}

	// date + time (optional)
	if raw, ok := cell(models.FieldDate); ok && raw != "" {
		if date, clock, err := utils.CoerceDate(raw); err != nil {
			warn(models.FieldDate, raw, "unrecognized date, trade imported without date")
		} else {
			trade.Date = date
			trade.ClockTime = clock
		}
	}
	if raw, ok := cell(models.FieldTime); ok && raw != "" && trade.ClockTime == "" {
		if clock, err := utils.CoerceClock(raw); err != nil {
			warn(models.FieldTime, raw, "unrecognized time, left absent")
		} else {
			trade.ClockTime = clock
		}
	}

	// stop loss / take profit (optional)
	if raw, ok := cell(models.FieldStopLoss); ok && raw != "" {
		if v, err := utils.ParseDecimal(raw); err != nil || v <= 0 {
			warn(models.FieldStopLoss, raw, "stop loss unparseable, left absent")
		} else {
			trade.StopLoss = &v
		}
	}
	if raw, ok := cell(models.FieldTakeProfit); ok && raw != "" {
		if v, err := utils.ParseDecimal(raw); err != nil || v <= 0 {
			warn(models.FieldTakeProfit, raw, "take profit unparseable, left absent")
		} else {
			trade.TakeProfit = &v
		}
	}

	// free text (optional, sanitized since HTML reports are untrusted input)
	if raw, ok := cell(models.FieldSetup); ok {
		if clean := validation.CleanFreeText(raw); clean != "" {
			trade.Setup = clean
		}
	}
	if raw, ok := cell(models.FieldEmotion); ok {
		trade.Emotion = validation.CleanFreeText(raw)
	}
	if raw, ok := cell(models.FieldNotes); ok {
		trade.Notes = validation.CleanFreeText(raw)
	}

	if reject {
		return nil, append(rowErrs, optionalErrs...), nil
	}

	if trade.Exit > 0 && math.Abs(trade.Entry-trade.Exit) < minTickSize {
		rowWarnings = append(rowWarnings, fmt.Sprintf("row %d: entry and exit are equal within the minimum tick", rowNum))
	}

	return &trade, nil, rowWarnings
}
