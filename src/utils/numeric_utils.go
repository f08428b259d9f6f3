// backend/src/utils/numeric_utils.go
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// currencyRunes are stripped before numeric parsing. Broker exports love to
// decorate amounts with symbols and non-breaking spaces.
const currencyRunes = "$€£¥% "

// ParseDecimal coerces a human-formatted number ("1,234.56", "1 234,56",
// "$50.00", "(12.50)") into a float64. Thousands separators and currency
// symbols are ignored; when both '.' and ',' appear, the rightmost one is the
// decimal separator. A lone comma is treated as a decimal separator.
func ParseDecimal(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(currencyRunes, r) || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if negative {
		v = -v
	}
	return v, nil
}

// LooksNumeric reports whether a cell parses as a number once currency
// decoration is stripped. Used by the header heuristics.
func LooksNumeric(cell string) bool {
	_, err := ParseDecimal(cell)
	return err == nil
}
