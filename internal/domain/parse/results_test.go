package parse_test

import (
	"testing"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/parse"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResults(t *testing.T) {
	Convey("Given pasted result tables", t, func() {
		Convey("When parsing ranked finishers under a header", func() {
			text := "Rank,Rider,Team,Time,Points\n" +
				"1,POGACAR Tadej,UAE Team Emirates,4:35:12,100\n" +
				"2.,Vingegaard Jonas,Team Visma,4:35:20,80"
			rows, skips := parse.Results(text)

			Convey("Then ranks, names, and points come through", func() {
				So(skips, ShouldBeEmpty)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[0].Status, ShouldEqual, model.StatusFinished)
				So(rows[0].Rider, ShouldEqual, "Tadej Pogacar")
				So(rows[0].Time, ShouldEqual, "4:35:12")
				So(rows[0].Points, ShouldEqual, 100)
			})

			Convey("And a trailing dot on the rank is tolerated", func() {
				So(rows[1].Rank, ShouldEqual, 2)
				So(rows[1].Points, ShouldEqual, 80)
			})
		})

		Convey("When rows lead with a non-finish status", func() {
			text := "DNF,ROGLIC Primoz,Red Bull,,\n" +
				"DNS,EVENEPOEL Remco,Soudal,,\n" +
				"DSQ,NOVAK Adam,Test Team,,\n" +
				"OTL,CAVENDISH Mark,Astana,4:59:59,5"
			rows, skips := parse.Results(text)

			So(skips, ShouldBeEmpty)
			So(rows, ShouldHaveLength, 4)

			Convey("Then DNF and DNS score zero", func() {
				So(rows[0].Status, ShouldEqual, model.StatusDidNotFinish)
				So(rows[0].Points, ShouldEqual, 0)
				So(rows[1].Status, ShouldEqual, model.StatusDidNotStart)
				So(rows[1].Points, ShouldEqual, 0)
			})

			Convey("Then disqualification takes the fixed penalty", func() {
				So(rows[2].Status, ShouldEqual, model.StatusDisqualified)
				So(rows[2].Points, ShouldEqual, -20)
			})

			Convey("Then outside-time-limit keeps its listed points", func() {
				So(rows[3].Status, ShouldEqual, model.StatusOutTimeLimit)
				So(rows[3].Points, ShouldEqual, 5)
			})
		})

		Convey("When the penalty is configured", func() {
			rows, _ := parse.Results("DSQ,NOVAK Adam,Test Team,,", parse.WithDSQPenalty(-50))

			So(rows[0].Points, ShouldEqual, -50)
		})

		Convey("When a short row ends the input with no continuation left", func() {
			text := "1,POGACAR Tadej,UAE Team Emirates,4:35:12,100\n" +
				"2,Tadej Pogacar,UAE Team Emirates"
			rows, skips := parse.Results(text)

			Convey("Then the row still parses instead of aborting the batch", func() {
				So(skips, ShouldBeEmpty)
				So(rows, ShouldHaveLength, 2)
				So(rows[1].Rank, ShouldEqual, 2)
				So(rows[1].Team, ShouldEqual, "UAE Team Emirates")
				So(rows[1].Time, ShouldBeEmpty)
				So(rows[1].Points, ShouldEqual, 0)
			})
		})

		Convey("When the input is a single rank-and-rider line", func() {
			rows, skips := parse.Results("1,Tadej Pogacar,UAE Team Emirates")

			So(skips, ShouldBeEmpty)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Rider, ShouldEqual, "Tadej Pogacar")
		})

		Convey("When a result wraps onto a continuation line", func() {
			text := "3,VAN AERT Wout\n" +
				"Team Visma,4:36:00,60"
			rows, skips := parse.Results(text)

			Convey("Then the two physical lines form one row", func() {
				So(skips, ShouldBeEmpty)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Rank, ShouldEqual, 3)
				So(rows[0].Rider, ShouldEqual, "Wout Van Aert")
				So(rows[0].Team, ShouldEqual, "Team Visma")
				So(rows[0].Time, ShouldEqual, "4:36:00")
				So(rows[0].Points, ShouldEqual, 60)
			})
		})

		Convey("When a continuation lists points before the time", func() {
			text := "3,VAN AERT Wout\n" +
				"Team Visma,60,4:36:00"
			rows, skips := parse.Results(text)

			Convey("Then the cells are classified by shape, not position", func() {
				So(skips, ShouldBeEmpty)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Team, ShouldEqual, "Team Visma")
				So(rows[0].Time, ShouldEqual, "4:36:00")
				So(rows[0].Points, ShouldEqual, 60)
			})
		})

		Convey("When trailing cells carry jersey markers", func() {
			text := "1,POGACAR Tadej,UAE Team Emirates,4:35:12,Yellow,100\n" +
				"2,NOVAK Adam,Test Team,4:36:00,vrchař,40\n" +
				"3,MARTINEZ Lenny,Bahrain,4:36:10,White Green,30"
			rows, _ := parse.Results(text)

			So(rows[0].Jerseys.General, ShouldBeTrue)
			So(rows[1].Jerseys.Mountains, ShouldBeTrue)
			So(rows[2].Jerseys.Youth, ShouldBeTrue)
			So(rows[2].Jerseys.Points, ShouldBeTrue)
			So(rows[0].Jerseys.Mountains, ShouldBeFalse)
		})

		Convey("When a line leads with something unrecognizable", func() {
			rows, skips := parse.Results("winner,POGACAR Tadej,UAE,4:35:12,100")

			So(rows, ShouldBeEmpty)
			So(skips, ShouldHaveLength, 1)
			So(skips[0].Reason, ShouldEqual, parse.SkipShape)
		})

		Convey("When the table is tab-separated", func() {
			rows, skips := parse.Results("1\tPOGACAR Tadej\tUAE Team Emirates\t4:35:12\t100")

			So(skips, ShouldBeEmpty)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Rider, ShouldEqual, "Tadej Pogacar")
			So(rows[0].Points, ShouldEqual, 100)
		})

		Convey("When a zero or negative rank leads the line", func() {
			rows, skips := parse.Results("0,NOVAK Adam,Test Team,4:40:00,1")

			So(rows, ShouldBeEmpty)
			So(skips, ShouldHaveLength, 1)
		})
	})
}
