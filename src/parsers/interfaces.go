// backend/src/parsers/interfaces.go
package parsers

import (
	"github.com/username/tradevault/backend/src/models"
)

// TableParser turns raw file content into a RawTable. Implementations exist
// per source format (delimited text, broker HTML report). The second return
// value carries non-fatal parse warnings; the error is a file-level fatal.
type TableParser interface {
	Parse(content string) (*models.RawTable, []string, error)
}
