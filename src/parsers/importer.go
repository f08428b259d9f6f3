// backend/src/parsers/importer.go
package parsers

import (
	"github.com/username/tradevault/backend/src/logger"
	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/parsers/mt4report"
)

// RunImport executes the whole pipeline on in-memory content: format
// detection, tabular parsing, column mapping, row normalization and (for
// broker reports) account extraction. It always returns a result: fatal
// file-level conditions surface as Success=false with FileErrors, never as a
// panic or error value. Re-running on identical input and config yields the
// same trades modulo identifiers.
func RunImport(content, filename string, cfg models.ImportConfig) *models.ImportResult {
	result := &models.ImportResult{
		Trades:   []models.Trade{},
		Errors:   []models.ImportError{},
		Warnings: []string{},
	}

	result.FileType = DetectFileType(content, filename)
	if result.FileType == models.FileTypeUnknown {
		result.FileErrors = append(result.FileErrors, "unrecognized file format: expected delimited text or a broker HTML report")
		return result
	}

	parser, err := GetParser(result.FileType)
	if err != nil {
		result.FileErrors = append(result.FileErrors, err.Error())
		return result
	}

	table, parseWarnings, err := parser.Parse(content)
	if err != nil {
		result.FileErrors = append(result.FileErrors, err.Error())
		return result
	}
	result.Warnings = append(result.Warnings, parseWarnings...)

	mappings, mapWarnings := MapColumns(table, cfg.Overrides)
	result.Mappings = mappings
	result.Warnings = append(result.Warnings, mapWarnings...)

	trades, errs, normWarnings, skipped := NormalizeRows(table, mappings)
	result.Trades = trades
	result.Errors = append(result.Errors, errs...)
	result.Warnings = append(result.Warnings, normWarnings...)
	result.SkippedRowCount = skipped

	if result.FileType == models.FileTypeBrokerHTML {
		account, deposit := mt4report.ExtractAccountInfo(content)
		result.Account = account
		result.StartingBalance = deposit
	}

	result.Success = true
	if logger.L != nil {
		logger.L.Info("Import pipeline finished",
			"fileType", result.FileType,
			"trades", len(result.Trades),
			"skipped", result.SkippedRowCount,
			"errors", len(result.Errors),
			"warnings", len(result.Warnings))
	}
	return result
}
