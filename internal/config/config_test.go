package config_test

import (
	"context"
	"testing"

	"github.com/mveron/gruppetto/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewConfig(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg, convey.ShouldNotBeNil)
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Season, convey.ShouldEqual, 2026)
			convey.So(cfg.SampleCap, convey.ShouldEqual, 10)
		})

		convey.Convey("Then the price tiers should be non-increasing", func() {
			convey.So(cfg.PriceMax, convey.ShouldEqual, 10.0)
			convey.So(cfg.PriceTop, convey.ShouldEqual, 8.0)
			convey.So(cfg.PriceMidHigh, convey.ShouldEqual, 6.5)
			convey.So(cfg.PriceMidLow, convey.ShouldEqual, 2.0)
			convey.So(cfg.PriceMin, convey.ShouldEqual, 1.0)
			convey.So(cfg.TopBandPercent, convey.ShouldEqual, 2.0)
			convey.So(cfg.BottomBandPercent, convey.ShouldEqual, 5.0)
			convey.So(cfg.DSQPenalty, convey.ShouldEqual, -20.0)
		})

		convey.Convey("Then the pipeline defaults should be positive", func() {
			convey.So(cfg.ChunkSize, convey.ShouldEqual, 50)
			convey.So(cfg.ChunkTimeoutMS, convey.ShouldEqual, 5_000)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
		})
	})
}
