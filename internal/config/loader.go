package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if GRUPPETTO_CONFIG is set
//  3. env (prefix GRUPPETTO_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("GRUPPETTO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GRUPPETTO_CHUNK_SIZE, GRUPPETTO_PRICE_MAX, ...
	// Map env keys like GRUPPETTO_CHUNK_SIZE -> chunk_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GRUPPETTO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "gruppetto_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the valuation invariants cannot hold
// under.
func validate(cfg *Config) error {
	if cfg.PriceMin <= 0 {
		return fmt.Errorf("%w: price_min must be positive", ErrInvalidConfig)
	}
	if !(cfg.PriceMax >= cfg.PriceTop && cfg.PriceTop >= cfg.PriceMidHigh &&
		cfg.PriceMidHigh >= cfg.PriceMidLow && cfg.PriceMidLow >= cfg.PriceMin) {
		return fmt.Errorf("%w: price tiers must be non-increasing", ErrInvalidConfig)
	}
	if cfg.TopBandPercent <= 0 || cfg.BottomBandPercent <= 0 ||
		cfg.TopBandPercent+cfg.BottomBandPercent >= 100 {
		return fmt.Errorf("%w: band percentages out of range", ErrInvalidConfig)
	}
	if cfg.ChunkSize <= 0 || cfg.QueueSize <= 0 || cfg.ChunkTimeoutMS <= 0 {
		return fmt.Errorf("%w: pipeline sizes must be positive", ErrInvalidConfig)
	}
	return nil
}
