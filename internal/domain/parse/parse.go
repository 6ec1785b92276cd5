// Package parse turns decoded upload text into typed rows. Four parsers
// share the separator sniffing, quoted-field handling, and header
// detection; each tolerates malformed lines by dropping and recording
// them instead of failing the batch.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SkipReason says why a line was dropped.
type SkipReason string

const (
	SkipShape    SkipReason = "shape"
	SkipCategory SkipReason = "category"
	SkipDate     SkipReason = "date"
)

// Skip records one dropped line for the batch report.
type Skip struct {
	Line   string
	Reason SkipReason
}

var (
	columnSplit = regexp.MustCompile(`\t+| {2,}`)
	dashSplit   = regexp.MustCompile(`\s*[–—]\s*|\s+-\s+`)
)

// lines splits decoded text into trimmed, non-blank lines.
func lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// splitFields splits one line into fields. Semicolon wins over comma when
// present; free-pasted tables without either fall back to tabs or runs of
// two-plus spaces. A double quote toggles literal mode in which the
// separator is ordinary text.
func splitFields(line string) []string {
	var sep rune
	switch {
	case strings.ContainsRune(line, ';'):
		sep = ';'
	case strings.ContainsRune(line, ','):
		sep = ','
	default:
		parts := columnSplit.Split(line, -1)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	}

	var (
		out      []string
		field    strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == sep && !inQuotes:
			out = append(out, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	out = append(out, strings.TrimSpace(field.String()))
	return out
}

// Keywords that make the first non-blank line look like a header row, and
// keywords that mark it as real data instead. Matched against whole
// fields, not substrings: team names legitimately contain "team".
var (
	headerKeywords = []string{"name", "team", "date", "rider", "rank", "ranking", "speciality", "specialty", "year", "start", "end"}
	rowKeywords    = []string{"stage"}
)

// isHeader reports whether the already-split line is a column header to
// skip.
func isHeader(fields []string) bool {
	for _, f := range fields {
		key := strings.ToLower(strings.TrimSpace(f))
		for _, kw := range rowKeywords {
			if key == kw {
				return false
			}
		}
	}
	for _, f := range fields {
		key := strings.ToLower(strings.TrimSpace(f))
		for _, kw := range headerKeywords {
			if key == kw {
				return true
			}
		}
	}
	return false
}

// parseDayMonth reads "dd.mm" or "dd/mm", taking the year from the
// separate year column.
func parseDayMonth(s string, year int) (time.Time, error) {
	s = strings.TrimSpace(s)
	sep := "."
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("date %q: missing day or month", s)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("date %q: out of range", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// trimTrailingDigits removes a numeric tail (a distance accidentally
// captured into a location field) along with stray punctuation.
func trimTrailingDigits(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "0123456789.,"))
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
