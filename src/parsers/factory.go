// backend/src/parsers/factory.go
package parsers

import (
	"fmt"

	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/parsers/delimited"
	"github.com/username/tradevault/backend/src/parsers/mt4report"
)

func GetParser(fileType models.FileType) (TableParser, error) {
	switch fileType {
	case models.FileTypeDelimited:
		return delimited.NewParser(), nil
	case models.FileTypeBrokerHTML:
		return mt4report.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for file type: %s", fileType)
	}
}
