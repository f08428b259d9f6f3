// backend/src/parsers/mt4report/account.go
package mt4report

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/utils"
)

// accountLabels maps label keywords to AccountInfo fields. The scan is
// best-effort keyword matching in the same spirit as the column mapper;
// a missing label is simply an absent field, never an error.
var accountLabels = map[string][]string{
	"name":     {"name", "client", "account holder"},
	"account":  {"account", "account number", "login"},
	"broker":   {"broker", "company", "server"},
	"currency": {"currency"},
	"deposit":  {"initial deposit", "deposit", "initial balance"},
}

// ExtractAccountInfo pulls account metadata and the opening balance out of a
// broker HTML report. It scans all text fragments for label/value pairs,
// independent of the trade ledger table. Returns nil when nothing was found.
func ExtractAccountInfo(content string) (*models.AccountInfo, *float64) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, nil
	}

	fragments := collectFragments(doc)
	info := &models.AccountInfo{}
	var deposit *float64

	for i, frag := range fragments {
		label, value := splitLabelValue(frag)
		if label == "" {
			continue
		}
		if value == "" && i+1 < len(fragments) {
			// "Currency:" in one cell, "USD" in the next.
			value = strings.TrimSpace(fragments[i+1])
		}
		if value == "" {
			continue
		}

		switch classifyLabel(label) {
		case "name":
			if info.Name == "" {
				info.Name = value
			}
		case "account":
			if info.AccountNumber == "" {
				info.AccountNumber = firstToken(value)
			}
		case "broker":
			if info.Broker == "" {
				info.Broker = value
			}
		case "currency":
			if info.Currency == "" {
				info.Currency = strings.ToUpper(firstToken(value))
			}
		case "deposit":
			if deposit == nil {
				if v, perr := utils.ParseDecimal(value); perr == nil {
					deposit = &v
				}
			}
		}
	}

	if (models.AccountInfo{}) == *info && deposit == nil {
		return nil, nil
	}
	return info, deposit
}

// collectFragments returns the trimmed text of every cell and bold element in
// document order. Statement headers put labels in <b> or small summary cells.
// A matched element contributes its combined text exactly once; the walk does
// not descend into it again, so a <b> label inside a cell cannot produce a
// duplicate fragment that would shadow the real value in the next cell.
func collectFragments(root *html.Node) []string {
	var fragments []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th" || n.Data == "b" || n.Data == "title") {
			if text := collapseWhitespace(textContent(n)); text != "" {
				fragments = append(fragments, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return fragments
}

// splitLabelValue splits "Account: 12345" style fragments. A fragment with no
// colon is returned as a bare label so the next fragment can supply the value.
func splitLabelValue(frag string) (label, value string) {
	if idx := strings.Index(frag, ":"); idx >= 0 {
		return strings.TrimSpace(frag[:idx]), strings.TrimSpace(frag[idx+1:])
	}
	return strings.TrimSpace(frag), ""
}

func classifyLabel(label string) string {
	lower := strings.ToLower(label)
	// More specific label phrases first so "account holder" lands on name,
	// not on the account-number bucket.
	for _, key := range []string{"deposit", "currency", "broker", "name", "account"} {
		for _, kw := range accountLabels[key] {
			if lower == kw || strings.HasPrefix(lower, kw) {
				return key
			}
		}
	}
	return ""
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
