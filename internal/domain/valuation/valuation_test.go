package valuation_test

import (
	"fmt"
	"testing"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/valuation"
	. "github.com/smartystreets/goconvey/convey"
)

// rankedBatch builds n entries of one category ranked 1..n.
func rankedBatch(n int, cat model.Category) []model.RosterEntry {
	out := make([]model.RosterEntry, n)
	for i := range out {
		out[i] = model.RosterEntry{
			ID:       fmt.Sprintf("id-%d", i+1),
			Ranking:  i + 1,
			Category: cat,
		}
	}
	return out
}

func countPrice(entries []model.RosterEntry, price float64) int {
	n := 0
	for _, e := range entries {
		if e.Price == price {
			n++
		}
	}
	return n
}

func TestPriceLargeCategory(t *testing.T) {
	Convey("Given one hundred ranked riders in one category", t, func() {
		engine := valuation.New()
		priced := engine.Price(rankedBatch(100, model.CategoryGC))

		Convey("Then the single best-ranked rider takes the maximum price", func() {
			So(countPrice(priced, 10.0), ShouldEqual, 1)
			So(priced[0].Price, ShouldEqual, 10.0)
		})

		Convey("Then the top band holds two riders at the top tier", func() {
			So(countPrice(priced, 8.0), ShouldEqual, 2)
			So(priced[1].Price, ShouldEqual, 8.0)
			So(priced[2].Price, ShouldEqual, 8.0)
		})

		Convey("Then the bottom band holds five riders at the floor", func() {
			So(countPrice(priced, 1.0), ShouldEqual, 5)
			for i := 95; i < 100; i++ {
				So(priced[i].Price, ShouldEqual, 1.0)
			}
		})

		Convey("Then the middle interpolates between the two middle tiers", func() {
			So(priced[3].Price, ShouldEqual, 6.5)
			So(priced[94].Price, ShouldEqual, 2.0)
		})

		Convey("Then prices never increase as ranking worsens", func() {
			for i := 1; i < len(priced); i++ {
				So(priced[i].Price, ShouldBeLessThanOrEqualTo, priced[i-1].Price)
			}
		})

		Convey("Then every price stays inside the configured bounds", func() {
			for _, e := range priced {
				So(e.Price, ShouldBeBetweenOrEqual, engine.MinPrice(), engine.MaxPrice())
			}
		})
	})
}

func TestPriceSmallCategories(t *testing.T) {
	Convey("Given very small categories", t, func() {
		engine := valuation.New()

		Convey("When the batch holds a single ranked rider", func() {
			priced := engine.Price(rankedBatch(1, model.CategorySprinter))

			Convey("Then the rider is the overall best and takes the maximum", func() {
				So(priced[0].Price, ShouldEqual, 10.0)
			})
		})

		Convey("When the batch holds two riders", func() {
			priced := engine.Price(rankedBatch(2, model.CategorySprinter))

			So(priced[0].Price, ShouldEqual, 10.0)
			So(priced[1].Price, ShouldEqual, 8.0)
		})

		Convey("When the batch holds three riders", func() {
			priced := engine.Price(rankedBatch(3, model.CategorySprinter))

			Convey("Then the band floors of one entry each apply", func() {
				So(priced[0].Price, ShouldEqual, 10.0)
				So(priced[1].Price, ShouldEqual, 8.0)
				So(priced[2].Price, ShouldEqual, 1.0)
			})
		})

		Convey("When a category's middle shrinks to a single rider", func() {
			priced := engine.Price(rankedBatch(4, model.CategorySprinter))

			Convey("Then the midpoint of the middle tiers applies", func() {
				So(priced[0].Price, ShouldEqual, 10.0)
				So(priced[1].Price, ShouldEqual, 8.0)
				So(priced[2].Price, ShouldEqual, 4.3)
				So(priced[3].Price, ShouldEqual, 1.0)
			})
		})
	})
}

func TestPriceAcrossCategories(t *testing.T) {
	Convey("Given riders spread over several categories", t, func() {
		engine := valuation.New()
		batch := []model.RosterEntry{
			{ID: "gc-1", Ranking: 1, Category: model.CategoryGC},
			{ID: "gc-2", Ranking: 5, Category: model.CategoryGC},
			{ID: "sp-1", Ranking: 2, Category: model.CategorySprinter},
			{ID: "sp-2", Ranking: 9, Category: model.CategorySprinter},
		}
		priced := engine.Price(batch)

		Convey("Then only the overall best crosses category lines", func() {
			So(priced[0].Price, ShouldEqual, 10.0)
			So(countPrice(priced, 10.0), ShouldEqual, 1)
		})

		Convey("Then each remaining category prices independently", func() {
			So(priced[1].Price, ShouldEqual, 8.0)
			So(priced[2].Price, ShouldEqual, 8.0)
			So(priced[3].Price, ShouldEqual, 1.0)
		})
	})
}

func TestPriceUnrankedAndEmpty(t *testing.T) {
	Convey("Given degenerate batches", t, func() {
		engine := valuation.New()

		Convey("When every rider is unranked", func() {
			batch := []model.RosterEntry{
				{ID: "a", Category: model.CategoryClimber},
				{ID: "b", Category: model.CategoryClimber},
				{ID: "c", Category: model.CategoryClimber},
			}
			priced := engine.Price(batch)

			Convey("Then nobody takes the maximum and input order holds", func() {
				So(countPrice(priced, 10.0), ShouldEqual, 0)
				So(priced[0].Price, ShouldEqual, 8.0)
				So(priced[1].Price, ShouldEqual, 4.3)
				So(priced[2].Price, ShouldEqual, 1.0)
			})
		})

		Convey("When ranked and unranked mix", func() {
			batch := []model.RosterEntry{
				{ID: "u", Category: model.CategoryClimber},
				{ID: "r1", Ranking: 3, Category: model.CategoryClimber},
				{ID: "r2", Ranking: 7, Category: model.CategoryClimber},
			}
			priced := engine.Price(batch)

			Convey("Then unranked riders sort after ranked ones", func() {
				So(priced[1].Price, ShouldEqual, 10.0)
				So(priced[2].Price, ShouldEqual, 8.0)
				So(priced[0].Price, ShouldEqual, 1.0)
			})
		})

		Convey("When the batch is empty", func() {
			So(engine.Price(nil), ShouldBeEmpty)
		})

		Convey("When pricing runs", func() {
			batch := rankedBatch(5, model.CategoryGC)
			_ = engine.Price(batch)

			Convey("Then the input batch is not mutated", func() {
				for _, e := range batch {
					So(e.Price, ShouldEqual, 0)
				}
			})
		})
	})
}

func TestEngineOptions(t *testing.T) {
	Convey("Given engine configuration options", t, func() {
		Convey("When tiers are overridden with a valid ordering", func() {
			engine := valuation.New(valuation.WithTiers(20, 15, 10, 4, 2))

			So(engine.MaxPrice(), ShouldEqual, 20.0)
			So(engine.MinPrice(), ShouldEqual, 2.0)
		})

		Convey("When tiers break the non-increasing order", func() {
			engine := valuation.New(valuation.WithTiers(1, 8, 6.5, 2, 1))

			Convey("Then the override is ignored", func() {
				So(engine.MaxPrice(), ShouldEqual, 10.0)
			})
		})

		Convey("When bands are widened", func() {
			engine := valuation.New(valuation.WithBands(20, 20))
			priced := engine.Price(rankedBatch(11, model.CategoryGC))

			// 10 riders remain after the best: top band ceil(10*0.2)=2,
			// bottom band 2.
			So(countPrice(priced, 8.0), ShouldEqual, 2)
			So(countPrice(priced, 1.0), ShouldEqual, 2)
		})
	})
}
