package services

import (
	"errors"
	"io"
	"time"

	"github.com/username/tradevault/backend/src/models"
)

var (
	ErrReadingFailed    = errors.New("reading upload failed")
	ErrStorageFailed    = errors.New("storing trades failed")
	ErrProcessingFailed = errors.New("computing analytics failed")
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// ImportService is the orchestration layer around the import pipeline:
// run the pipeline on an uploaded file, persist the resulting trades and
// expose the stored journal.
type ImportService interface {
	ProcessUpload(fileReader io.Reader, filename string, cfg models.ImportConfig) (*models.ImportResult, error)
	GetLatestImportResult() (*models.ImportResult, bool)
	GetTrades() ([]models.Trade, error)
	DeleteAllTrades() error
}

// AnalyticsService computes dashboard statistics over the stored journal.
// Results are cached until the next import or delete.
type AnalyticsService interface {
	GetRiskMetrics() (*models.RiskMetrics, error)
	GetSetupExpectancies(minTrades int) ([]models.SetupExpectancy, error)
	GetRDistribution() (*models.RDistribution, error)
	GetSessionHeatmap() (*models.SessionHeatmap, error)
}
