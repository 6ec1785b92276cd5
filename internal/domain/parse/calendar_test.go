package parse_test

import (
	"testing"
	"time"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/parse"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRaces(t *testing.T) {
	Convey("Given race calendar uploads", t, func() {
		Convey("When the end date is blank", func() {
			rows, skips := parse.Races("13.04,,2026,Paris-Roubaix,https://race.example/roubaix")

			Convey("Then the race is one-day with a zero end", func() {
				So(skips, ShouldBeEmpty)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Type, ShouldEqual, model.RaceOneDay)
				So(rows[0].Start, ShouldResemble, time.Date(2026, time.April, 13, 0, 0, 0, 0, time.UTC))
				So(rows[0].End.IsZero(), ShouldBeTrue)
				So(rows[0].Year, ShouldEqual, 2026)
				So(rows[0].ID, ShouldEqual, "paris-roubaix-2026")
				So(rows[0].URL, ShouldEqual, "https://race.example/roubaix")
			})

			Convey("And the gazetteer fills country and tier", func() {
				So(rows[0].Country, ShouldEqual, "France")
				So(rows[0].Tier, ShouldEqual, parse.TierWorldTour)
			})
		})

		Convey("When the race spans eighteen days or more", func() {
			rows, skips := parse.Races("04.07,26.07,2026,Tour de France,https://race.example/tdf")

			So(skips, ShouldBeEmpty)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Type, ShouldEqual, model.RaceGrandTour)
			So(rows[0].End, ShouldResemble, time.Date(2026, time.July, 26, 0, 0, 0, 0, time.UTC))
			So(rows[0].Country, ShouldEqual, "France")
		})

		Convey("When the race spans a handful of days", func() {
			rows, _ := parse.Races("07.06,14.06,2026,Criterium du Dauphine")

			So(rows, ShouldHaveLength, 1)
			So(rows[0].Type, ShouldEqual, model.RaceStage)
			So(rows[0].Country, ShouldEqual, "France")
			So(rows[0].Tier, ShouldEqual, parse.TierWorldTour)
		})

		Convey("When the race name is not in the gazetteer", func() {
			rows, _ := parse.Races("01.02,,2026,Clasica de Almeria")

			So(rows, ShouldHaveLength, 1)
			So(rows[0].Country, ShouldBeEmpty)
			So(rows[0].Tier, ShouldEqual, parse.TierContinental)
		})

		Convey("When dates use slashes instead of dots", func() {
			rows, skips := parse.Races("13/04,,2026,Paris-Roubaix")

			So(skips, ShouldBeEmpty)
			So(rows[0].Start.Day(), ShouldEqual, 13)
			So(rows[0].Start.Month(), ShouldEqual, time.April)
		})

		Convey("When the year column is not numeric", func() {
			rows, skips := parse.Races("13.04,,twenty-six,Paris-Roubaix")

			So(rows, ShouldBeEmpty)
			So(skips, ShouldHaveLength, 1)
			So(skips[0].Reason, ShouldEqual, parse.SkipShape)
		})

		Convey("When a date is out of range", func() {
			rows, skips := parse.Races("99.99,,2026,Paris-Roubaix")

			So(rows, ShouldBeEmpty)
			So(skips, ShouldHaveLength, 1)
			So(skips[0].Reason, ShouldEqual, parse.SkipDate)
		})

		Convey("When the upload starts with a header row", func() {
			text := "Start,End,Year,Name,URL\n01.03,,2026,Strade Bianche"
			rows, skips := parse.Races(text)

			So(skips, ShouldBeEmpty)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Name, ShouldEqual, "Strade Bianche")
		})
	})
}
