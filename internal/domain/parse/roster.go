package parse

import (
	"strconv"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/normalize"
)

// Roster parses a roster CSV: name, team, ranking, profile link,
// speciality, and an optional photo link accepted only with an http(s)
// scheme. Rows whose speciality maps to no known category are dropped.
func Roster(text string) ([]model.RosterRow, []Skip) {
	var (
		rows  []model.RosterRow
		skips []Skip
	)

	for i, line := range lines(text) {
		fields := splitFields(line)
		if i == 0 && isHeader(fields) {
			continue
		}
		if len(fields) < 5 {
			skips = append(skips, Skip{Line: line, Reason: SkipShape})
			continue
		}

		category, ok := model.ParseCategory(normalize.Key(fields[4]))
		if !ok {
			skips = append(skips, Skip{Line: line, Reason: SkipCategory})
			continue
		}

		row := model.RosterRow{
			Name:       normalize.ReorderSurnameFirst(normalize.Repair(fields[0])),
			Team:       normalize.Repair(fields[1]),
			ProfileURL: fields[3],
			Category:   category,
		}
		if ranking, err := strconv.Atoi(fields[2]); err == nil && ranking > 0 {
			row.Ranking = ranking
		}
		if len(fields) >= 6 && isHTTPURL(fields[5]) {
			row.PhotoURL = fields[5]
		}

		rows = append(rows, row)
	}

	return rows, skips
}
