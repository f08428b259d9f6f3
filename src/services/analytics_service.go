// backend/src/services/analytics_service.go
package services

import (
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/username/tradevault/backend/src/logger"
	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/processors"
)

// AnalyticsConfig carries the typed knobs the engine needs, replacing the
// loose settings bag the dashboards used to pass around.
type AnalyticsConfig struct {
	BaseRisk               float64
	SessionBoundaries      [3]int
	DefaultStartingBalance float64
}

type analyticsServiceImpl struct {
	cfg         AnalyticsConfig
	resultCache *cache.Cache

	riskProcessor       *processors.RiskMetricsProcessor
	distProcessor       *processors.DistributionProcessor
	expectancyProcessor *processors.ExpectancyProcessor
	sessionProcessor    *processors.SessionProcessor
}

func NewAnalyticsService(cfg AnalyticsConfig, resultCache *cache.Cache) AnalyticsService {
	return &analyticsServiceImpl{
		cfg:                 cfg,
		resultCache:         resultCache,
		riskProcessor:       processors.NewRiskMetricsProcessor(),
		distProcessor:       processors.NewDistributionProcessor(),
		expectancyProcessor: processors.NewExpectancyProcessor(),
		sessionProcessor:    processors.NewSessionProcessor(),
	}
}

func (s *analyticsServiceImpl) GetRiskMetrics() (*models.RiskMetrics, error) {
	if cached, found := s.resultCache.Get(ckRiskMetrics); found {
		return cached.(*models.RiskMetrics), nil
	}
	trades, err := fetchStoredTrades()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	balances := processors.BuildBalanceSeries(trades, loadStartingBalance(s.cfg.DefaultStartingBalance))
	metrics := s.riskProcessor.Compute(trades, balances)

	s.resultCache.Set(ckRiskMetrics, &metrics, cache.NoExpiration)
	logger.L.Debug("Computed risk metrics", "trades", metrics.TotalTrades)
	return &metrics, nil
}

// GetSetupExpectancies applies the minimum-trades display filter on top of
// the processor output; the engine itself never filters.
func (s *analyticsServiceImpl) GetSetupExpectancies(minTrades int) ([]models.SetupExpectancy, error) {
	var all []models.SetupExpectancy
	if cached, found := s.resultCache.Get(ckExpectancies); found {
		all = cached.([]models.SetupExpectancy)
	} else {
		trades, err := fetchStoredTrades()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
		}
		all = s.expectancyProcessor.Compute(trades, s.cfg.BaseRisk)
		s.resultCache.Set(ckExpectancies, all, cache.NoExpiration)
	}

	if minTrades <= 1 {
		return all, nil
	}
	filtered := make([]models.SetupExpectancy, 0, len(all))
	for _, e := range all {
		if e.TradeCount >= minTrades {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (s *analyticsServiceImpl) GetRDistribution() (*models.RDistribution, error) {
	if cached, found := s.resultCache.Get(ckRDistribution); found {
		return cached.(*models.RDistribution), nil
	}
	trades, err := fetchStoredTrades()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	dist := s.distProcessor.Compute(trades, s.cfg.BaseRisk)
	s.resultCache.Set(ckRDistribution, &dist, cache.NoExpiration)
	return &dist, nil
}

func (s *analyticsServiceImpl) GetSessionHeatmap() (*models.SessionHeatmap, error) {
	if cached, found := s.resultCache.Get(ckSessionGrid); found {
		return cached.(*models.SessionHeatmap), nil
	}
	trades, err := fetchStoredTrades()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	heatmap := s.sessionProcessor.Compute(trades, s.cfg.SessionBoundaries)
	s.resultCache.Set(ckSessionGrid, &heatmap, cache.NoExpiration)
	return &heatmap, nil
}
