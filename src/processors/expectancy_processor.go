// backend/src/processors/expectancy_processor.go
package processors

import (
	"sort"

	"github.com/username/tradevault/backend/src/models"
)

// ExpectancyProcessor groups trades by setup and computes the R-denominated
// edge of each group. Stateless and safe for concurrent use.
type ExpectancyProcessor struct{}

func NewExpectancyProcessor() *ExpectancyProcessor {
	return &ExpectancyProcessor{}
}

// Compute groups case-sensitively by the setup field (an empty setup counts
// as "Unknown"), computes winRate, avgWinR, avgLossR and the expectancy
// winRate*avgWinR - (1-winRate)*avgLossR per group, and returns the groups
// sorted descending by expectancy (name ascending on ties, so the order is
// reproducible). No minimum-sample filtering happens here: a one-trade setup
// still produces its statistically weak entry; display filtering is a
// presentation policy.
func (p *ExpectancyProcessor) Compute(trades []models.Trade, baseRisk float64) []models.SetupExpectancy {
	if baseRisk <= 0 {
		return []models.SetupExpectancy{}
	}

	groups := make(map[string][]float64)
	for _, t := range trades {
		if !isFinite(t.PnL) {
			continue
		}
		setup := t.Setup
		if setup == "" {
			setup = models.DefaultSetup
		}
		groups[setup] = append(groups[setup], t.PnL/baseRisk)
	}

	result := make([]models.SetupExpectancy, 0, len(groups))
	for setup, rs := range groups {
		var winSum, lossSum float64
		wins, losses := 0, 0
		for _, r := range rs {
			switch {
			case r > 0:
				wins++
				winSum += r
			case r < 0:
				losses++
				lossSum += -r
			}
		}

		e := models.SetupExpectancy{Setup: setup, TradeCount: len(rs)}
		if len(rs) > 0 {
			e.WinRate = float64(wins) / float64(len(rs))
		}
		if wins > 0 {
			e.AvgWinR = winSum / float64(wins)
		}
		if losses > 0 {
			e.AvgLossR = lossSum / float64(losses)
		}
		e.Expectancy = e.WinRate*e.AvgWinR - (1-e.WinRate)*e.AvgLossR
		result = append(result, e)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Expectancy != result[j].Expectancy {
			return result[i].Expectancy > result[j].Expectancy
		}
		return result[i].Setup < result[j].Setup
	})
	return result
}
