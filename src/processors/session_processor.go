// backend/src/processors/session_processor.go
package processors

import (
	"sort"

	"github.com/username/tradevault/backend/src/models"
)

// SessionNames label the three buckets in boundary order.
var SessionNames = [3]string{"Asia", "London", "New York"}

// SessionProcessor buckets trades by time of day. Stateless and safe for
// concurrent use.
type SessionProcessor struct{}

func NewSessionProcessor() *SessionProcessor {
	return &SessionProcessor{}
}

// Compute buckets each timed trade into one of three sessions defined by the
// configured start hours (boundaries wrap around midnight), then sub-buckets
// by hour. Cells carry count, win rate and total pnl. Trades without a clock
// time cannot be bucketed and are counted as untimed; trades with non-finite
// pnl are counted as excluded. Both counts are reported rather than silently
// dropped.
func (p *SessionProcessor) Compute(trades []models.Trade, boundaries [3]int) models.SessionHeatmap {
	heatmap := models.SessionHeatmap{
		Cells:         []models.SessionCell{},
		BoundaryHours: boundaries,
	}

	type bucket struct {
		count   int
		wins    int
		decided int // trades counted toward win rate (non-breakeven)
		pnl     float64
	}
	type cellKey struct {
		session int
		hour    int
	}
	buckets := make(map[cellKey]*bucket)

	for _, t := range trades {
		hour, ok := t.Hour()
		if !ok {
			heatmap.UntimedTrades++
			continue
		}
		if !isFinite(t.PnL) {
			heatmap.ExcludedTrades++
			continue
		}
		key := cellKey{session: sessionIndex(hour, boundaries), hour: hour}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.pnl += t.PnL
		if t.PnL != 0 {
			b.decided++
			if t.PnL > 0 {
				b.wins++
			}
		}
	}

	for key, b := range buckets {
		cell := models.SessionCell{
			Session:  SessionNames[key.session],
			Hour:     key.hour,
			Count:    b.count,
			TotalPnL: b.pnl,
		}
		if b.decided > 0 {
			cell.WinRate = float64(b.wins) / float64(b.decided)
		}
		heatmap.Cells = append(heatmap.Cells, cell)
	}

	sort.Slice(heatmap.Cells, func(i, j int) bool {
		if heatmap.Cells[i].Session != heatmap.Cells[j].Session {
			return sessionRank(heatmap.Cells[i].Session) < sessionRank(heatmap.Cells[j].Session)
		}
		return heatmap.Cells[i].Hour < heatmap.Cells[j].Hour
	})
	return heatmap
}

// sessionIndex maps an hour to the session whose start hour most recently
// passed. Hours before the first boundary wrap into the last session.
func sessionIndex(hour int, boundaries [3]int) int {
	switch {
	case hour >= boundaries[2]:
		return 2
	case hour >= boundaries[1]:
		return 1
	case hour >= boundaries[0]:
		return 0
	default:
		return 2 // before the first session start: previous day's last session
	}
}

func sessionRank(name string) int {
	for i, s := range SessionNames {
		if s == name {
			return i
		}
	}
	return len(SessionNames)
}
