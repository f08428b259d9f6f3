package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradevault/backend/src/models"
)

const sampleCSV = "Date,Symbol,Type,Price,Close,Lots,Profit\n" +
	"2024-01-05,EURUSD,buy,1.0850,1.0900,0.10,50.00\n"

func TestRunImportCSV(t *testing.T) {
	result := RunImport(sampleCSV, "trades.csv", models.ImportConfig{})

	require.True(t, result.Success)
	assert.Equal(t, models.FileTypeDelimited, result.FileType)
	assert.Empty(t, result.FileErrors)
	assert.Empty(t, result.Errors)
	assert.Zero(t, result.SkippedRowCount)

	require.Len(t, result.Trades, 1)
	trade := result.Trades[0]
	assert.Equal(t, "EURUSD", trade.Pair)
	assert.Equal(t, models.Long, trade.Direction)
	assert.InDelta(t, 1.0850, trade.Entry, 1e-9)
	assert.InDelta(t, 1.0900, trade.Exit, 1e-9)
	assert.InDelta(t, 0.10, trade.Lots, 1e-9)
	assert.InDelta(t, 50.00, trade.PnL, 1e-9)
	assert.Equal(t, "2024-01-05", trade.Date.Format("2006-01-02"))
}

func TestRunImportBadRequiredCellSkipsRow(t *testing.T) {
	content := "Date,Symbol,Type,Price,Close,Lots,Profit\n" +
		"2024-01-05,EURUSD,buy,1.0850,1.0900,0.10,abc\n"

	result := RunImport(content, "trades.csv", models.ImportConfig{})

	require.True(t, result.Success, "row-level failure is not a file-level failure")
	assert.Empty(t, result.Trades)
	assert.Equal(t, 1, result.SkippedRowCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Profit", result.Errors[0].Column)
	assert.Equal(t, "abc", result.Errors[0].Value)
}

func TestRunImportNoDateColumn(t *testing.T) {
	content := "Ticket,Symbol,Type,Profit\n" +
		"100001,EURUSD,buy,50.00\n" +
		"100002,GBPUSD,sell,-20.00\n"

	result := RunImport(content, "trades.csv", models.ImportConfig{})

	require.True(t, result.Success)
	require.Len(t, result.Trades, 2)
	for _, trade := range result.Trades {
		assert.False(t, trade.HasDate())
	}

	found := false
	for _, w := range result.Warnings {
		if w == "no date column recognized; trades will be imported without dates" {
			found = true
		}
	}
	assert.True(t, found, "missing date mapping must surface as a warning")
}

func TestRunImportUnknownFormat(t *testing.T) {
	result := RunImport("Dear customer,\nyour statement is attached.\n", "letter.txt", models.ImportConfig{})

	assert.False(t, result.Success)
	assert.Equal(t, models.FileTypeUnknown, result.FileType)
	assert.Empty(t, result.Trades)
	require.Len(t, result.FileErrors, 1)
	assert.Contains(t, result.FileErrors[0], "unrecognized file format")
}

func TestRunImportHTMLStatement(t *testing.T) {
	content := `<!DOCTYPE html>
<html><head><title>Statement: 1234567</title></head><body>
<table>
<tr><td><b>Account: 1234567</b></td></tr>
<tr><td><b>Currency: USD</b></td></tr>
<tr><td>Initial Deposit:</td><td>5 000.00</td></tr>
</table>
<table>
<tr><th>Ticket</th><th>Open Time</th><th>Type</th><th>Size</th><th>Item</th><th>Price</th><th>Close Price</th><th>Profit</th></tr>
<tr><td>1</td><td>2024.01.05 09:30:00</td><td>buy</td><td>0.10</td><td>eurusd</td><td>1.08500</td><td>1.09000</td><td>50.00</td></tr>
<tr><td>2</td><td>2024.01.06 14:10:00</td><td>sell</td><td>0.20</td><td>gbpusd</td><td>1.26500</td><td>1.26700</td><td>-40.00</td></tr>
</table>
</body></html>`

	result := RunImport(content, "statement.html", models.ImportConfig{})

	require.True(t, result.Success)
	assert.Equal(t, models.FileTypeBrokerHTML, result.FileType)
	require.Len(t, result.Trades, 2)
	assert.Equal(t, "EURUSD", result.Trades[0].Pair)
	assert.Equal(t, models.Short, result.Trades[1].Direction)
	assert.Equal(t, "09:30", result.Trades[0].ClockTime)

	require.NotNil(t, result.Account)
	assert.Equal(t, "1234567", result.Account.AccountNumber)
	require.NotNil(t, result.StartingBalance)
	assert.InDelta(t, 5000.0, *result.StartingBalance, 1e-9)
}

func TestRunImportOverridesApplied(t *testing.T) {
	content := "When,Instrument,Way,In,Result\n" +
		"2024-01-05,EURUSD,buy,1.0850,50.00\n"

	cfg := models.ImportConfig{Overrides: []models.MappingOverride{
		{Source: "When", Target: models.FieldDate},
		{Source: "Way", Target: models.FieldDirection},
		{Source: "In", Target: models.FieldEntry},
	}}
	result := RunImport(content, "custom.csv", cfg)

	require.True(t, result.Success)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, "2024-01-05", result.Trades[0].Date.Format("2006-01-02"))
	assert.Equal(t, models.Long, result.Trades[0].Direction)
	assert.InDelta(t, 1.0850, result.Trades[0].Entry, 1e-9)
}

func TestRunImportRowConservation(t *testing.T) {
	content := "Symbol,Type,Price,Profit\n" +
		"EURUSD,buy,1.0850,50.00\n" +
		"GBPUSD,hold,1.2650,-20.00\n" +
		"USDJPY,sell,151.20,bad\n" +
		"AUDUSD,sell,0.6550,12.00\n"

	result := RunImport(content, "trades.csv", models.ImportConfig{})

	require.True(t, result.Success)
	assert.Equal(t, 4, len(result.Trades)+result.SkippedRowCount,
		"every source row is either a trade or counted as skipped")
	assert.Len(t, result.Trades, 2)
	assert.Equal(t, 2, result.SkippedRowCount)
}

func TestRunImportDeterministicModuloIDs(t *testing.T) {
	first := RunImport(sampleCSV, "trades.csv", models.ImportConfig{})
	second := RunImport(sampleCSV, "trades.csv", models.ImportConfig{})

	require.Equal(t, len(first.Trades), len(second.Trades))
	for i := range first.Trades {
		a, b := first.Trades[i], second.Trades[i]
		assert.NotEqual(t, a.ID, b.ID, "identifiers are freshly generated per run")
		a.ID, b.ID = "", ""
		assert.Equal(t, a, b)
	}
	assert.Equal(t, first.Mappings, second.Mappings)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first.Errors, second.Errors)
}
