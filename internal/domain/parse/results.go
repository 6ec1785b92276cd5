package parse

import (
	"strconv"
	"strings"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/normalize"
)

// defaultDSQPenalty is the fantasy-point penalty for a disqualification.
const defaultDSQPenalty = -20

// ResultOption configures the result-table parser.
type ResultOption func(*resultConfig)

type resultConfig struct {
	dsqPenalty float64
}

// WithDSQPenalty overrides the fixed penalty applied on disqualification.
func WithDSQPenalty(penalty float64) ResultOption {
	return func(c *resultConfig) {
		c.dsqPenalty = penalty
	}
}

// nonFinishStatuses are the recognized row-leading status codes.
var nonFinishStatuses = map[string]model.Status{
	"DNF": model.StatusDidNotFinish,
	"DNS": model.StatusDidNotStart,
	"DSQ": model.StatusDisqualified,
	"DQ":  model.StatusDisqualified,
	"OTL": model.StatusOutTimeLimit,
}

// Jersey keyword sets per classification, in normalization-key form,
// English and Czech.
var jerseyKeywords = map[string][]string{
	"general":   {"leader", "yellow", "gc", "celkove"},
	"mountains": {"mountain", "kom", "polka", "vrchar"},
	"points":    {"points", "green", "bodovaci"},
	"youth":     {"youth", "white", "mlady"},
}

// Results parses a pasted result table, shared by race results and stage
// results. A row begins with a numeric rank or a known non-finish status;
// rows with fewer than four fields continue onto the next physical line.
func Results(text string, opts ...ResultOption) ([]model.ResultRow, []Skip) {
	cfg := resultConfig{dsqPenalty: defaultDSQPenalty}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		rows  []model.ResultRow
		skips []Skip
	)

	src := lines(text)
	for i := 0; i < len(src); i++ {
		line := src[i]
		fields := splitResultFields(line)
		if i == 0 && isHeader(fields) {
			continue
		}
		rank, status, ok := leadField(fields[0])
		if !ok {
			skips = append(skips, Skip{Line: line, Reason: SkipShape})
			continue
		}

		// Sources that wrap one result onto two physical lines put the
		// team, points, and time on the continuation.
		if len(fields) < 4 && i+1 < len(src) {
			i++
			fields = append(fields, splitResultFields(src[i])...)
		}
		if len(fields) < 2 {
			skips = append(skips, Skip{Line: line, Reason: SkipShape})
			continue
		}

		row := model.ResultRow{
			Rank:   rank,
			Status: status,
			Rider:  normalize.ReorderSurnameFirst(normalize.Repair(fields[1])),
		}
		if len(fields) >= 3 {
			row.Team = normalize.Repair(fields[2])
		}

		// Wrapped rows deliver time and points in either order after the
		// team, so the remaining cells are classified by shape rather
		// than position.
		var rest []string
		if len(fields) > 3 {
			rest = fields[3:]
		}
		for _, f := range rest {
			if strings.Contains(f, ":") {
				row.Time = strings.TrimSpace(f)
				break
			}
		}
		row.Jerseys = detectJerseys(rest)
		row.Points = trailingPoints(rest)

		switch status {
		case model.StatusDidNotFinish, model.StatusDidNotStart:
			row.Points = 0
		case model.StatusDisqualified:
			row.Points = cfg.dsqPenalty
		}

		rows = append(rows, row)
	}

	return rows, skips
}

// splitResultFields splits on comma or tab, whichever the line uses.
func splitResultFields(line string) []string {
	sep := ","
	if strings.Contains(line, "\t") {
		sep = "\t"
	}
	parts := strings.Split(line, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// leadField reads the rank-or-status field that opens every result row.
func leadField(s string) (rank int, status model.Status, ok bool) {
	s = strings.TrimSpace(strings.TrimSuffix(s, "."))
	if st, found := nonFinishStatuses[strings.ToUpper(s)]; found {
		return 0, st, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, "", false
	}
	return n, model.StatusFinished, true
}

func detectJerseys(fields []string) model.Jerseys {
	var j model.Jerseys
	for _, f := range fields {
		key := normalize.Key(f)
		if key == "" {
			continue
		}
		j.General = j.General || matchesAny(key, jerseyKeywords["general"])
		j.Mountains = j.Mountains || matchesAny(key, jerseyKeywords["mountains"])
		j.Points = j.Points || matchesAny(key, jerseyKeywords["points"])
		j.Youth = j.Youth || matchesAny(key, jerseyKeywords["youth"])
	}
	return j
}

func matchesAny(key string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// trailingPoints returns the last trailing field that parses as a number,
// or zero when none does.
func trailingPoints(fields []string) float64 {
	for i := len(fields) - 1; i >= 0; i-- {
		if v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64); err == nil {
			return v
		}
	}
	return 0
}
