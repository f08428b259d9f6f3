// backend/src/services/import_service.go
package services

import (
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/tradevault/backend/src/logger"
	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/parsers"
)

const (
	ckLatestImportResult = "latest_import_result"

	// analytics cache keys, owned here so an import can invalidate them
	ckRiskMetrics   = "res_risk_metrics"
	ckExpectancies  = "res_setup_expectancies"
	ckRDistribution = "res_r_distribution"
	ckSessionGrid   = "res_session_heatmap"
)

type importServiceImpl struct {
	resultCache *cache.Cache
}

func NewImportService(resultCache *cache.Cache) ImportService {
	return &importServiceImpl{resultCache: resultCache}
}

// ProcessUpload runs the import pipeline on the uploaded content and, when
// the file was readable, persists the imported trades. A pipeline-level
// failure (unknown format, no table) is not a Go error: it comes back as an
// ImportResult with Success=false so the caller can show the messages.
func (s *importServiceImpl) ProcessUpload(fileReader io.Reader, filename string, cfg models.ImportConfig) (*models.ImportResult, error) {
	start := time.Now()
	logger.L.Info("ProcessUpload START", "filename", filename)

	content, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadingFailed, err)
	}

	result := parsers.RunImport(string(content), filename, cfg)
	if !result.Success {
		logger.L.Warn("Import failed at file level", "filename", filename, "fileErrors", result.FileErrors)
		s.resultCache.Set(ckLatestImportResult, result, DefaultCacheExpiration)
		return result, nil
	}

	if len(result.Trades) > 0 {
		if err := insertTrades(result.Trades); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
		}
	}
	if result.StartingBalance != nil {
		saveStartingBalance(*result.StartingBalance)
	}

	s.invalidateAnalyticsCache()
	s.resultCache.Set(ckLatestImportResult, result, DefaultCacheExpiration)

	logger.L.Info("ProcessUpload END",
		"filename", filename,
		"trades", len(result.Trades),
		"skipped", result.SkippedRowCount,
		"duration", time.Since(start))
	return result, nil
}

func (s *importServiceImpl) GetLatestImportResult() (*models.ImportResult, bool) {
	if cached, found := s.resultCache.Get(ckLatestImportResult); found {
		return cached.(*models.ImportResult), true
	}
	return nil, false
}

func (s *importServiceImpl) GetTrades() ([]models.Trade, error) {
	return fetchStoredTrades()
}

func (s *importServiceImpl) DeleteAllTrades() error {
	if err := deleteAllTrades(); err != nil {
		return err
	}
	s.invalidateAnalyticsCache()
	s.resultCache.Delete(ckLatestImportResult)
	logger.L.Info("Deleted all trades and invalidated caches")
	return nil
}

func (s *importServiceImpl) invalidateAnalyticsCache() {
	for _, key := range []string{ckRiskMetrics, ckExpectancies, ckRDistribution, ckSessionGrid} {
		s.resultCache.Delete(key)
	}
}
