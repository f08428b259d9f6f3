// backend/src/models/models.go
package models

// FileType classifies raw import content.
type FileType string

const (
	FileTypeDelimited  FileType = "delimited"
	FileTypeBrokerHTML FileType = "broker-html"
	FileTypeUnknown    FileType = "unknown"
)

// RawTable is the format-independent output of the tabular parser: an
// ordered header row plus string cells, one slice per source row. It is
// produced once per import and treated as immutable afterwards.
type RawTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Cell returns the value of the named column in the given row, or "" when
// the column is unknown or the row is ragged.
func (t *RawTable) Cell(row int, header string) string {
	for i, h := range t.Headers {
		if h == header {
			if row >= 0 && row < len(t.Rows) && i < len(t.Rows[row]) {
				return t.Rows[row][i]
			}
			return ""
		}
	}
	return ""
}

// ColumnMapping ties one source column to at most one canonical field.
// Target is nil for columns the mapper could not place; SampleValues holds
// the first few non-empty cells so an operator can review the guess.
type ColumnMapping struct {
	Source       string          `json:"source"`
	Target       *CanonicalField `json:"target,omitempty"`
	SampleValues []string        `json:"sample_values,omitempty"`
}

// MappingOverride is a caller-supplied source-header-to-field assignment
// that takes precedence over the mapper's own scoring.
type MappingOverride struct {
	Source string         `json:"source"`
	Target CanonicalField `json:"target"`
}

// ImportError records one recoverable, row-scoped failure. Row is 1-based
// and matches the source file. Errors are accumulated, never thrown.
type ImportError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// AccountInfo holds best-effort account metadata pulled from a broker
// report header. Every field is optional; absence is not an error.
type AccountInfo struct {
	Name          string `json:"name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Broker        string `json:"broker,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// ImportResult is everything a single import run produced. When Success is
// true, len(Trades)+SkippedRowCount equals the source row count. FileErrors
// carries file-level fatal messages (Success=false, zero trades).
type ImportResult struct {
	Success         bool            `json:"success"`
	FileType        FileType        `json:"file_type"`
	Trades          []Trade         `json:"trades"`
	Mappings        []ColumnMapping `json:"mappings,omitempty"`
	Errors          []ImportError   `json:"errors"`
	Warnings        []string        `json:"warnings"`
	FileErrors      []string        `json:"file_errors,omitempty"`
	SkippedRowCount int             `json:"skipped_row_count"`
	Account         *AccountInfo    `json:"account,omitempty"`
	StartingBalance *float64        `json:"starting_balance,omitempty"`
}

// ImportConfig carries the caller-supplied knobs for one import run.
// It replaces what the UI used to pass around as an untyped settings bag.
type ImportConfig struct {
	Overrides []MappingOverride `json:"overrides,omitempty"`
}
