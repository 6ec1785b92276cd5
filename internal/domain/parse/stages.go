package parse

import (
	"strconv"
	"strings"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/normalize"
)

// Phrases marking a rest-day row, in normalization-key form. The upstream
// pastes come in English and Czech.
var restDayPhrases = []string{"rest-day", "restday", "den-volna", "volno"}

// Stages parses a pasted multi-column stage table: date, weekday, stage
// description, distance. Rest-day rows produce no stage; they flag the
// previous stage instead. Stage numbers are assigned sequentially starting
// at 1, skipping rest-day rows.
func Stages(text string) ([]model.StageRow, []Skip) {
	var (
		rows  []model.StageRow
		skips []Skip
	)

	for _, line := range lines(text) {
		if isRestDay(line) {
			if len(rows) > 0 {
				rows[len(rows)-1].RestDayAfter = true
			}
			continue
		}

		fields := splitFields(line)
		if len(fields) < 4 {
			skips = append(skips, Skip{Line: line, Reason: SkipShape})
			continue
		}

		// Descriptions with internal column-width spacing split into
		// extra fields; everything between the weekday and the distance
		// belongs to the description.
		desc := strings.Join(fields[2:len(fields)-1], " ")
		row := model.StageRow{
			Date:       fields[0],
			Weekday:    fields[1],
			Number:     len(rows) + 1,
			Kind:       stageKind(desc),
			DistanceKM: parseDistance(fields[len(fields)-1]),
		}
		row.Name, row.Start, row.Finish = splitDescription(desc)

		rows = append(rows, row)
	}

	return rows, skips
}

func isRestDay(line string) bool {
	key := normalize.Key(line)
	for _, phrase := range restDayPhrases {
		if strings.Contains(key, phrase) {
			return true
		}
	}
	return false
}

func stageKind(desc string) model.StageKind {
	d := strings.ToLower(desc)
	switch {
	case strings.Contains(d, "(itt)"):
		return model.StageITT
	case strings.Contains(d, "(ttt)"):
		return model.StageTTT
	case strings.Contains(d, "prologue"), strings.Contains(d, "prolog"):
		return model.StagePrologue
	default:
		return model.StageRoad
	}
}

// splitDescription extracts the stage name and the start/finish locations.
// The name sits left of "|" or ":"; the remainder splits on dash variants
// into start and finish. A distance tail that leaked into the finish text
// is trimmed off.
func splitDescription(desc string) (name, start, finish string) {
	rest := desc
	idx := strings.IndexAny(desc, "|:")
	if idx >= 0 {
		name = strings.TrimSpace(desc[:idx])
		rest = strings.TrimSpace(desc[idx+1:])
	} else {
		name = strings.TrimSpace(desc)
	}

	parts := dashSplit.Split(rest, 2)
	switch {
	case len(parts) == 2:
		start = strings.TrimSpace(parts[0])
		finish = trimTrailingDigits(parts[1])
	case idx >= 0:
		// Single location after the separator: a circuit stage.
		start = rest
		finish = trimTrailingDigits(rest)
	}
	return name, start, finish
}

func parseDistance(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "km"))
	s = strings.ReplaceAll(s, ",", ".")
	km, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return km
}
