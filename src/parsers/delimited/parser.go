// backend/src/parsers/delimited/parser.go
package delimited

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/utils"
)

// sampleLines is how many lines past the first are checked when validating
// separator consistency.
const sampleLines = 10

type DelimitedParser struct{}

func NewParser() *DelimitedParser {
	return &DelimitedParser{}
}

// Parse sniffs the separator, reads the content with encoding/csv (quoted
// fields unescaped, embedded separators kept intact) and returns a RawTable.
// A mostly-numeric first line is demoted to data and synthetic headers are
// generated with a warning.
func (p *DelimitedParser) Parse(content string) (*models.RawTable, []string, error) {
	sep, err := detectSeparator(content)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read delimited records: %w", err)
	}

	var rows [][]string
	for _, record := range records {
		if isBlankRecord(record) {
			continue
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no rows found in delimited content")
	}

	var warnings []string
	headers := rows[0]
	if mostlyNumeric(headers) {
		headers = make([]string, len(rows[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("Column %d", i+1)
		}
		warnings = append(warnings, "first line looks like data, not headers; generated synthetic column names")
	} else {
		rows = rows[1:]
	}

	return &models.RawTable{Headers: headers, Rows: rows}, warnings, nil
}

// detectSeparator counts candidate separators on the first non-empty line and
// picks the most frequent one that keeps the column count consistent across a
// sample of subsequent lines.
func detectSeparator(content string) (rune, error) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
	}
	if len(lines) == 0 {
		return 0, fmt.Errorf("empty content")
	}

	first := lines[0]
	sample := lines[1:]
	if len(sample) > sampleLines {
		sample = sample[:sampleLines]
	}

	bestSep := rune(0)
	bestConsistent := -1
	bestCount := 0
	for _, sep := range []rune{',', ';', '\t'} {
		count := strings.Count(first, string(sep))
		if count == 0 {
			continue
		}
		consistent := 0
		for _, line := range sample {
			if strings.Count(line, string(sep)) == count {
				consistent++
			}
		}
		if consistent > bestConsistent || (consistent == bestConsistent && count > bestCount) {
			bestSep, bestConsistent, bestCount = sep, consistent, count
		}
	}
	if bestSep == 0 {
		return 0, fmt.Errorf("no field separator found on first line")
	}
	return bestSep, nil
}

// mostlyNumeric reports whether more than half of the non-empty cells parse
// as numbers, which means the line is data rather than a header row.
func mostlyNumeric(cells []string) bool {
	nonEmpty, numeric := 0, 0
	for _, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		nonEmpty++
		if utils.LooksNumeric(cell) {
			numeric++
		}
	}
	return nonEmpty > 0 && numeric*2 > nonEmpty
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
