// backend/src/parsers/detect.go
package parsers

import (
	"path/filepath"
	"strings"

	"github.com/username/tradevault/backend/src/models"
)

// htmlOpeners are document tags an HTML statement export may start with.
var htmlOpeners = []string{"<!doctype", "<html", "<head", "<meta", "<body", "<table"}

// reportMarkers are phrases that identify a broker trade-history report even
// when the file does not open with a document tag (MT4/MT5 statements embed
// these as section titles).
var reportMarkers = []string{
	"closed transactions",
	"trade history report",
	"account history",
	"statement:",
}

// DetectFileType classifies raw import content. The filename extension is
// only a hint; the content itself always wins. Unknown content is a fatal
// file-level condition for the caller, never a panic.
func DetectFileType(content, filename string) models.FileType {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return models.FileTypeUnknown
	}
	lower := strings.ToLower(trimmed)

	for _, opener := range htmlOpeners {
		if strings.HasPrefix(lower, opener) {
			return models.FileTypeBrokerHTML
		}
	}
	if strings.Contains(lower, "<table") {
		for _, marker := range reportMarkers {
			if strings.Contains(lower, marker) {
				return models.FileTypeBrokerHTML
			}
		}
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext == ".htm" || ext == ".html" {
		if strings.Contains(lower, "<table") {
			return models.FileTypeBrokerHTML
		}
	}

	if hasDominantSeparator(trimmed) {
		return models.FileTypeDelimited
	}
	return models.FileTypeUnknown
}

// hasDominantSeparator reports whether the content has at least one newline
// and a single candidate separator occurring on a majority of its lines.
func hasDominantSeparator(content string) bool {
	if !strings.ContainsRune(content, '\n') {
		return false
	}
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return false
	}

	for _, sep := range []string{",", ";", "\t"} {
		withSep := 0
		for _, line := range lines {
			if strings.Contains(line, sep) {
				withSep++
			}
		}
		if withSep*2 > len(lines) {
			return true
		}
	}
	return false
}
