package parse

import (
	"strconv"
	"strings"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/normalize"
)

// Competition tiers inferred from the race-name gazetteer.
const (
	TierWorldTour   = "world-tour"
	TierProSeries   = "pro-series"
	TierContinental = "continental"
)

// Duration thresholds, in days, for classifying a race.
const (
	grandTourMinDays = 18
)

// raceGazetteer maps race-name keywords (in normalization-key form) to
// country and competition tier. First match wins, so the more specific
// keywords sit on top.
var raceGazetteer = []struct {
	keyword string
	country string
	tier    string
}{
	{"tour-de-france", "France", TierWorldTour},
	{"giro", "Italy", TierWorldTour},
	{"vuelta", "Spain", TierWorldTour},
	{"roubaix", "France", TierWorldTour},
	{"sanremo", "Italy", TierWorldTour},
	{"san-remo", "Italy", TierWorldTour},
	{"lombardia", "Italy", TierWorldTour},
	{"tirreno", "Italy", TierWorldTour},
	{"liege", "Belgium", TierWorldTour},
	{"vlaanderen", "Belgium", TierWorldTour},
	{"ronde", "Belgium", TierWorldTour},
	{"gent", "Belgium", TierWorldTour},
	{"dauphine", "France", TierWorldTour},
	{"paris", "France", TierWorldTour},
	{"suisse", "Switzerland", TierWorldTour},
	{"romandie", "Switzerland", TierWorldTour},
	{"pologne", "Poland", TierWorldTour},
	{"slovenska", "Slovakia", TierProSeries},
	{"czech", "Czech Republic", TierProSeries},
}

// Races parses a race calendar CSV: start date, end date or blank, year,
// name, optional url. Dates carry no year of their own; the year column
// supplies it. A blank end date means a one-day race.
func Races(text string) ([]model.RaceRow, []Skip) {
	var (
		rows  []model.RaceRow
		skips []Skip
	)

	for i, line := range lines(text) {
		fields := splitFields(line)
		if i == 0 && isHeader(fields) {
			continue
		}
		if len(fields) < 4 {
			skips = append(skips, Skip{Line: line, Reason: SkipShape})
			continue
		}

		year, err := strconv.Atoi(fields[2])
		if err != nil {
			skips = append(skips, Skip{Line: line, Reason: SkipShape})
			continue
		}

		start, err := parseDayMonth(fields[0], year)
		if err != nil {
			skips = append(skips, Skip{Line: line, Reason: SkipDate})
			continue
		}

		row := model.RaceRow{
			Name:  fields[3],
			Start: start,
			Year:  year,
			Type:  model.RaceOneDay,
			Tier:  TierContinental,
		}
		if fields[1] != "" {
			end, err := parseDayMonth(fields[1], year)
			if err != nil {
				skips = append(skips, Skip{Line: line, Reason: SkipDate})
				continue
			}
			row.End = end
			days := int(end.Sub(start).Hours()/24) + 1
			switch {
			case days >= grandTourMinDays:
				row.Type = model.RaceGrandTour
			case days > 1:
				row.Type = model.RaceStage
			}
		}
		if len(fields) >= 5 && isHTTPURL(fields[4]) {
			row.URL = fields[4]
		}

		nameKey := normalize.Key(row.Name)
		for _, g := range raceGazetteer {
			if strings.Contains(nameKey, g.keyword) {
				row.Country = g.country
				row.Tier = g.tier
				break
			}
		}
		row.ID = nameKey + "-" + strconv.Itoa(year)

		rows = append(rows, row)
	}

	return rows, skips
}
