// Command gruppetto ingests pasted or exported sports text (rosters, race
// calendars, stage schedules, result tables), reconciles it against the
// canonical roster, and prints the resulting deltas and report as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mveron/gruppetto/internal/adapters/pipeline"
	"github.com/mveron/gruppetto/internal/adapters/roster"
	"github.com/mveron/gruppetto/internal/config"
	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/reconcile"
	"github.com/mveron/gruppetto/internal/domain/valuation"
	"github.com/mveron/gruppetto/pkg/logger"
	"github.com/mveron/gruppetto/pkg/metrics"
)

func main() {
	mode := flag.String("mode", "", "Input kind: roster, races, stages, or results (required)")
	inPath := flag.String("in", "", "Path to the input text file (required)")
	rosterPath := flag.String("roster", "", "Path to the roster CSV (required for -mode results)")
	metricsAddr := flag.String("metrics-addr", "", "Optional address to serve Prometheus metrics on (e.g. :9091)")
	flag.Parse()

	if *mode == "" || *inPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -mode and -in are required.")
		flag.Usage()
		os.Exit(1)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics listener stopped", logger.Error(err))
			}
		}()
	}

	engine := reconcile.New(
		reconcile.WithLogger(log),
		reconcile.WithValuer(valuation.New(
			valuation.WithTiers(cfg.PriceMax, cfg.PriceTop, cfg.PriceMidHigh, cfg.PriceMidLow, cfg.PriceMin),
			valuation.WithBands(cfg.TopBandPercent, cfg.BottomBandPercent),
		)),
		reconcile.WithDSQPenalty(cfg.DSQPenalty),
		reconcile.WithSampleCap(cfg.SampleCap),
	)

	batch, err := runBatch(ctx, engine, cfg, *mode, *inPath, *rosterPath)
	if err != nil {
		log.Error(ctx, "ingestion failed", logger.String("mode", *mode), logger.Error(err))
		os.Exit(1)
	}

	// Forward the deltas the way the production orchestration does:
	// chunked, sequential, per-chunk timeout. The CLI sink just counts.
	sink := &countingSink{}
	pipe := pipeline.New(sink,
		pipeline.WithChunkSize(cfg.ChunkSize),
		pipeline.WithChunkTimeout(time.Duration(cfg.ChunkTimeoutMS)*time.Millisecond),
		pipeline.WithQueueSize(cfg.QueueSize),
		pipeline.WithLogger(log),
	)
	pipe.Start(ctx)
	pipe.EnqueueAll(ctx, batch.Deltas)
	if err := pipe.Shutdown(ctx); err != nil {
		log.Warn(ctx, "pipeline did not drain cleanly", logger.Error(err))
	}

	out, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		log.Error(ctx, "failed to render report", logger.Error(err))
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// runBatch dispatches one ingestion call per mode.
func runBatch(ctx context.Context, engine *reconcile.Engine, cfg *config.Config, mode, inPath, rosterPath string) (reconcile.Batch, error) {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return reconcile.Batch{}, fmt.Errorf("read input: %w", err)
	}

	switch mode {
	case "roster":
		return engine.IngestRoster(ctx, raw)
	case "races":
		return engine.IngestRaces(ctx, raw)
	case "stages":
		return engine.IngestStages(ctx, raw)
	case "results":
		snapshot, err := loadSnapshot(ctx, engine, cfg.Season, rosterPath)
		if err != nil {
			return reconcile.Batch{}, err
		}
		return engine.IngestResults(ctx, raw, snapshot)
	default:
		return reconcile.Batch{}, fmt.Errorf("unknown mode %q", mode)
	}
}

// loadSnapshot builds the roster snapshot the results mode matches
// against, going through the same provider interface the production
// orchestration uses.
func loadSnapshot(ctx context.Context, engine *reconcile.Engine, season int, rosterPath string) ([]model.RosterEntry, error) {
	if rosterPath == "" {
		return nil, errors.New("-roster is required for -mode results")
	}
	raw, err := os.ReadFile(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	batch, err := engine.IngestRoster(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	entries := make([]model.RosterEntry, 0, len(batch.Deltas))
	for _, d := range batch.Deltas {
		if d.Kind == model.DeltaNewEntry && d.Entry != nil {
			entries = append(entries, *d.Entry)
		}
	}
	provider := roster.NewInMemoryProvider()
	provider.Load(season, entries)
	return provider.Snapshot(ctx, season)
}

// countingSink accepts every delta; the real persistence sink lives
// outside this repository.
type countingSink struct{}

func (s *countingSink) Apply(_ context.Context, deltas []model.Delta) ([]pipeline.ItemResult, error) {
	results := make([]pipeline.ItemResult, len(deltas))
	for i := range deltas {
		results[i] = pipeline.ItemResult{Index: i}
	}
	return results, nil
}
