// backend/src/parsers/mt4report/parser.go
package mt4report

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/username/tradevault/backend/src/models"
)

// ledgerKeywords identify a table header row as a trade ledger. A table
// qualifies when at least two of these appear among its header cells; the
// qualifying table with the most body rows wins (statements usually carry a
// small account-summary table next to the big ledger).
var ledgerKeywords = []string{
	"symbol", "type", "profit", "ticket", "price", "size", "lots", "item", "volume",
}

type ReportParser struct{}

func NewParser() *ReportParser {
	return &ReportParser{}
}

// Parse locates the trade-ledger table inside a broker HTML report and emits
// it as a RawTable. Other tables (account summaries) are ignored here; the
// account extractor scans for those separately.
func (p *ReportParser) Parse(content string) (*models.RawTable, []string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML report: %w", err)
	}

	var best [][]string
	for _, table := range collectTables(doc) {
		if len(table) < 2 {
			continue
		}
		if headerScore(table[0]) < 2 {
			continue
		}
		if len(table) > len(best) {
			best = table
		}
	}
	if best == nil {
		return nil, nil, fmt.Errorf("no trade ledger table found in HTML report")
	}

	headers := make([]string, len(best[0]))
	for i, cell := range best[0] {
		if cell == "" {
			cell = fmt.Sprintf("Column %d", i+1)
		}
		headers[i] = cell
	}

	var rows [][]string
	var warnings []string
	for _, row := range best[1:] {
		// Section titles and summary lines render as near-empty rows.
		if countNonEmpty(row) < 2 {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("trade ledger table has no data rows")
	}

	return &models.RawTable{Headers: headers, Rows: rows}, warnings, nil
}

func headerScore(cells []string) int {
	score := 0
	for _, cell := range cells {
		lower := strings.ToLower(cell)
		for _, kw := range ledgerKeywords {
			if strings.Contains(lower, kw) {
				score++
				break
			}
		}
	}
	return score
}

func countNonEmpty(cells []string) int {
	n := 0
	for _, cell := range cells {
		if cell != "" {
			n++
		}
	}
	return n
}

// collectTables walks the DOM and returns every table as rows of cell texts.
// Rows belonging to nested tables are credited to the inner table only.
func collectTables(root *html.Node) [][][]string {
	var tables [][][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, extractRows(n))
			// Nested tables are still visited through extractRows' skip rule.
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return tables
}

func extractRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				if n != table {
					return // nested table, handled on its own
				}
			case "tr":
				if row := extractCells(n); row != nil {
					rows = append(rows, row)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

func extractCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, collapseWhitespace(textContent(c)))
		}
	}
	return cells
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
