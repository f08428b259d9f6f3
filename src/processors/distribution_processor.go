// backend/src/processors/distribution_processor.go
package processors

import (
	"sort"

	"github.com/username/tradevault/backend/src/models"
)

// DistributionProcessor builds the empirical distribution of R-multiples.
// Stateless and safe for concurrent use.
type DistributionProcessor struct{}

func NewDistributionProcessor() *DistributionProcessor {
	return &DistributionProcessor{}
}

// Compute normalizes every finite pnl by the base risk unit and assembles the
// ECDF plus the median and 90th-percentile queries.
func (p *DistributionProcessor) Compute(trades []models.Trade, baseRisk float64) models.RDistribution {
	rs := RMultiples(trades, baseRisk)
	return models.RDistribution{
		Points:   ECDF(rs),
		MedianR:  Percentile(rs, 0.5),
		P90R:     Percentile(rs, 0.9),
		BaseRisk: baseRisk,
	}
}

// RMultiples returns each trade's pnl expressed as a multiple of the base
// risk unit. Non-finite pnl values are dropped so a single corrupt record
// cannot poison the distribution.
func RMultiples(trades []models.Trade, baseRisk float64) []float64 {
	if baseRisk <= 0 {
		return nil
	}
	rs := make([]float64, 0, len(trades))
	for _, t := range trades {
		if isFinite(t.PnL) {
			rs = append(rs, t.PnL/baseRisk)
		}
	}
	return rs
}

// ECDF builds the step function: points are sorted ascending by R, duplicate
// values collapse into a single step whose height is their combined
// multiplicity over the total, and the last point's cumulative is exactly 1.
func ECDF(rs []float64) []models.ECDFPoint {
	if len(rs) == 0 {
		return []models.ECDFPoint{}
	}
	sorted := make([]float64, len(rs))
	copy(sorted, rs)
	sort.Float64s(sorted)

	total := float64(len(sorted))
	points := make([]models.ECDFPoint, 0, len(sorted))
	for i := 0; i < len(sorted); i++ {
		// Skip forward over duplicates; the step lands on the last occurrence.
		if i+1 < len(sorted) && sorted[i+1] == sorted[i] {
			continue
		}
		points = append(points, models.ECDFPoint{
			R:          sorted[i],
			Cumulative: float64(i+1) / total,
		})
	}
	return points
}

// Percentile answers quantile queries over the R sample with linear
// interpolation between the two bracketing order statistics; a quantile that
// lands exactly on a data point returns that value. q is clamped to [0,1].
func Percentile(rs []float64, q float64) float64 {
	if len(rs) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	sorted := make([]float64, len(rs))
	copy(sorted, rs)
	sort.Float64s(sorted)

	rank := q * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
