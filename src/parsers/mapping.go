// backend/src/parsers/mapping.go
package parsers

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/utils"
)

const maxSampleValues = 3

// minMappingScore is the similarity threshold below which a column stays
// unmapped and must be assigned by the caller.
const minMappingScore = 2

// fieldKeywords is the declarative header-to-field scoring table. Keywords
// are stored in normalized (lowercase, alphanumeric-only) form; "p/l"
// therefore appears as "pl". Extending the mapper means adding a keyword
// here, not touching control flow.
var fieldKeywords = map[models.CanonicalField][]string{
	models.FieldPair:       {"symbol", "pair", "instrument", "ticker", "item", "market", "product"},
	models.FieldDirection:  {"type", "side", "direction", "action", "buysell"},
	models.FieldEntry:      {"entry", "open", "openprice", "entryprice", "price", "buyprice"},
	models.FieldExit:       {"exit", "close", "closeprice", "exitprice", "sellprice"},
	models.FieldPnL:        {"profit", "pl", "pnl", "net", "netprofit", "profitloss", "gainloss", "result"},
	models.FieldLots:       {"lots", "size", "volume", "qty", "quantity", "units", "contracts", "shares"},
	models.FieldDate:       {"date", "opendate", "closedate", "opentime", "closetime", "datetime", "day"},
	models.FieldTime:       {"time", "hour", "clocktime"},
	models.FieldSetup:      {"setup", "strategy", "system", "playbook", "pattern"},
	models.FieldEmotion:    {"emotion", "mood", "feeling", "psychology"},
	models.FieldNotes:      {"notes", "note", "comment", "comments", "description", "remarks"},
	models.FieldStopLoss:   {"stoploss", "sl", "stop"},
	models.FieldTakeProfit: {"takeprofit", "tp", "target"},
}

// MapColumns heuristically assigns each source header to at most one
// canonical field. Caller-supplied overrides win outright. When two columns
// contend for the same field, the first one in source order keeps it and a
// warning is emitted, so the outcome is deterministic. The mapper performs no
// validation of the data itself.
func MapColumns(table *models.RawTable, overrides []models.MappingOverride) ([]models.ColumnMapping, []string) {
	var warnings []string
	taken := make(map[models.CanonicalField]string) // field -> claiming header

	overrideFor := make(map[string]models.CanonicalField)
	for _, o := range overrides {
		if prev, ok := overrideFor[o.Source]; ok && prev != o.Target {
			warnings = append(warnings, fmt.Sprintf("conflicting overrides for column %q; keeping %q", o.Source, prev))
			continue
		}
		overrideFor[o.Source] = o.Target
	}

	mappings := make([]models.ColumnMapping, 0, len(table.Headers))
	for _, header := range table.Headers {
		mapping := models.ColumnMapping{Source: header}

		target, ok := overrideFor[header]
		if !ok {
			target, ok = scoreHeader(header)
		}
		if ok {
			if holder, claimed := taken[target]; claimed {
				warnings = append(warnings, fmt.Sprintf(
					"column %q also matches field %q already mapped from %q; leaving it unmapped", header, target, holder))
			} else {
				taken[target] = header
				t := target
				mapping.Target = &t
			}
		}
		mappings = append(mappings, mapping)
	}

	attachSampleValues(table, mappings)
	return mappings, warnings
}

// scoreHeader returns the best-scoring canonical field for a header, or false
// when nothing reaches the threshold. Fields are tried in declaration order
// and only a strictly better score displaces the current best, which makes
// ties deterministic.
func scoreHeader(header string) (models.CanonicalField, bool) {
	joined, tokens := normalizeHeader(header)
	if joined == "" {
		return "", false
	}

	var best models.CanonicalField
	bestScore := 0
	for _, field := range models.CanonicalFields {
		score := 0
		for _, kw := range fieldKeywords[field] {
			s := keywordScore(joined, tokens, kw)
			if s > score {
				score = s
			}
		}
		if score > bestScore {
			best, bestScore = field, score
		}
	}
	if bestScore < minMappingScore {
		return "", false
	}
	return best, true
}

// keywordScore grades one keyword against a normalized header: exact match
// beats token membership beats substring containment.
func keywordScore(joined string, tokens map[string]bool, kw string) int {
	switch {
	case joined == kw:
		return 3
	case tokens[kw]:
		return 2
	case len(kw) >= 4 && strings.Contains(joined, kw):
		return 1
	default:
		return 0
	}
}

// normalizeHeader lowercases and strips punctuation, returning both the
// joined form ("Open Time" -> "opentime") and the token set.
func normalizeHeader(header string) (string, map[string]bool) {
	var joined strings.Builder
	var current strings.Builder
	tokens := make(map[string]bool)

	flush := func() {
		if current.Len() > 0 {
			tokens[current.String()] = true
			current.Reset()
		}
	}
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			joined.WriteRune(r)
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return joined.String(), tokens
}

// attachSampleValues records up to three non-empty cells per column so an
// operator can review the auto-mapping. Purely informational.
func attachSampleValues(table *models.RawTable, mappings []models.ColumnMapping) {
	for i := range mappings {
		limit := utils.MinInt(len(table.Rows), 50)
		for row := 0; row < limit && len(mappings[i].SampleValues) < maxSampleValues; row++ {
			if v := table.Cell(row, mappings[i].Source); v != "" {
				mappings[i].SampleValues = append(mappings[i].SampleValues, v)
			}
		}
	}
}
