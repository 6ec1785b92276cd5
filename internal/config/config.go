// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Season selects the roster snapshot season.
	Season int `koanf:"season"`

	// Price tiers, best to worst. The single best-ranked rider in a batch
	// takes PriceMax; the per-category bands take PriceTop and PriceMin;
	// the middle interpolates PriceMidHigh down to PriceMidLow.
	PriceMax     float64 `koanf:"price_max"`
	PriceTop     float64 `koanf:"price_top"`
	PriceMidHigh float64 `koanf:"price_mid_high"`
	PriceMidLow  float64 `koanf:"price_mid_low"`
	PriceMin     float64 `koanf:"price_min"`

	// TopBandPercent and BottomBandPercent size the per-category bands.
	TopBandPercent    float64 `koanf:"top_band_percent"`
	BottomBandPercent float64 `koanf:"bottom_band_percent"`

	// DSQPenalty is the fantasy-point penalty for a disqualification.
	DSQPenalty float64 `koanf:"dsq_penalty"`

	// SampleCap bounds the offending-line samples kept in batch reports.
	SampleCap int `koanf:"sample_cap"`

	// ChunkSize is the number of deltas submitted to the sink per chunk.
	ChunkSize int `koanf:"chunk_size"`

	// ChunkTimeoutMS bounds each chunk submission.
	ChunkTimeoutMS int `koanf:"chunk_timeout_ms"`

	// QueueSize bounds the in-memory delta queue.
	QueueSize int `koanf:"queue_size"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Season:            2026,
		PriceMax:          10.0,
		PriceTop:          8.0,
		PriceMidHigh:      6.5,
		PriceMidLow:       2.0,
		PriceMin:          1.0,
		TopBandPercent:    2.0,
		BottomBandPercent: 5.0,
		DSQPenalty:        -20,
		SampleCap:         10,
		ChunkSize:         50,
		ChunkTimeoutMS:    5_000,
		QueueSize:         10_000,
	}
}
