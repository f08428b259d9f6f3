// backend/src/services/trade_store.go
package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/username/tradevault/backend/src/database"
	"github.com/username/tradevault/backend/src/logger"
	"github.com/username/tradevault/backend/src/models"
)

const storedDateLayout = "2006-01-02"

const metaStartingBalance = "starting_balance"

// fetchStoredTrades loads the whole journal ordered by date then insertion
// order, which is the documented chronological tie-break.
func fetchStoredTrades() ([]models.Trade, error) {
	rows, err := database.DB.Query(`
		SELECT id, pair, direction, entry, exit, lots, pnl, date, clock_time,
		       setup, emotion, notes, stop_loss, take_profit
		FROM trades ORDER BY date ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var date, clock, setup, emotion, notes sql.NullString
		var exit, lots, stopLoss, takeProfit sql.NullFloat64
		if err := rows.Scan(&t.ID, &t.Pair, &t.Direction, &t.Entry, &exit, &lots, &t.PnL,
			&date, &clock, &setup, &emotion, &notes, &stopLoss, &takeProfit); err != nil {
			return nil, fmt.Errorf("error scanning trade row: %w", err)
		}
		if date.Valid && date.String != "" {
			if d, perr := time.Parse(storedDateLayout, date.String); perr == nil {
				t.Date = d
			}
		}
		t.ClockTime = clock.String
		t.Setup = setup.String
		if t.Setup == "" {
			t.Setup = models.DefaultSetup
		}
		t.Emotion = emotion.String
		t.Notes = notes.String
		t.Exit = exit.Float64
		t.Lots = lots.Float64
		if stopLoss.Valid {
			v := stopLoss.Float64
			t.StopLoss = &v
		}
		if takeProfit.Valid {
			v := takeProfit.Float64
			t.TakeProfit = &v
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

// insertTrades stores a batch inside one transaction. INSERT OR IGNORE skips
// rows whose id is already present, which protects against retrying the same
// batch after a partial failure. It does not dedupe re-imports of the same
// file, since every import run mints fresh ids for its trades.
func insertTrades(trades []models.Trade) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT OR IGNORE INTO trades
		(id, pair, direction, entry, exit, lots, pnl, date, clock_time, setup, emotion, notes, stop_loss, take_profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		var date any
		if t.HasDate() {
			date = t.Date.Format(storedDateLayout)
		}
		if _, err := stmt.Exec(t.ID, t.Pair, string(t.Direction), t.Entry, t.Exit, t.Lots, t.PnL,
			date, t.ClockTime, t.Setup, t.Emotion, t.Notes, t.StopLoss, t.TakeProfit); err != nil {
			return fmt.Errorf("error inserting trade %s: %w", t.ID, err)
		}
	}
	return dbTx.Commit()
}

func deleteAllTrades() error {
	if _, err := database.DB.Exec(`DELETE FROM trades`); err != nil {
		return fmt.Errorf("error deleting trades: %w", err)
	}
	return nil
}

func saveStartingBalance(balance float64) {
	_, err := database.DB.Exec(`INSERT INTO journal_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaStartingBalance, strconv.FormatFloat(balance, 'f', -1, 64))
	if err != nil {
		logger.L.Warn("Failed to persist starting balance", "error", err)
	}
}

// loadStartingBalance returns the stored opening balance, or the provided
// fallback when none was ever imported.
func loadStartingBalance(fallback float64) float64 {
	var value string
	err := database.DB.QueryRow(`SELECT value FROM journal_meta WHERE key = ?`, metaStartingBalance).Scan(&value)
	if err != nil {
		return fallback
	}
	balance, perr := strconv.ParseFloat(value, 64)
	if perr != nil {
		return fallback
	}
	return balance
}
