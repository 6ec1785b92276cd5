// Package reconcile drives one ingestion batch: decode, parse, match and
// valuate, then assemble delta records and a report. The engine holds no
// state between batches; every call receives its inputs and returns pure
// data for the persistence and reporting collaborators.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mveron/gruppetto/internal/domain/decode"
	"github.com/mveron/gruppetto/internal/domain/match"
	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/normalize"
	"github.com/mveron/gruppetto/internal/domain/parse"
	"github.com/mveron/gruppetto/internal/domain/valuation"
	"github.com/mveron/gruppetto/pkg/logger"
	"github.com/mveron/gruppetto/pkg/metrics"
)

// Source labels for reports and metrics.
const (
	SourceRoster  = "roster"
	SourceRaces   = "races"
	SourceStages  = "stages"
	SourceResults = "results"
)

const defaultSampleCap = 10

// Batch is the pure outcome of one ingestion call: the deltas for the
// persistence collaborator and the report for the reporting collaborator.
type Batch struct {
	Deltas []model.Delta `json:"deltas"`
	Report model.Report  `json:"report"`
}

// Engine sequences the pipeline components for a batch.
type Engine struct {
	valuer     *valuation.Engine
	dsqPenalty float64
	sampleCap  int
	log        logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithValuer sets the valuation engine used for roster batches.
func WithValuer(v *valuation.Engine) Option {
	return func(e *Engine) {
		if v != nil {
			e.valuer = v
		}
	}
}

// WithDSQPenalty sets the fantasy-point penalty for disqualified results.
func WithDSQPenalty(penalty float64) Option {
	return func(e *Engine) {
		if penalty < 0 {
			e.dsqPenalty = penalty
		}
	}
}

// WithSampleCap bounds the offending-line samples kept in a report.
func WithSampleCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.sampleCap = n
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		valuer:     valuation.New(),
		dsqPenalty: -20,
		sampleCap:  defaultSampleCap,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get().Named("reconcile")
	}
	return e
}

// IngestRoster decodes and parses a roster upload, prices the whole batch,
// and emits one NewEntry delta per row.
func (e *Engine) IngestRoster(ctx context.Context, raw []byte) (Batch, error) {
	text, report, err := e.decode(raw, SourceRoster)
	if err != nil {
		return Batch{}, err
	}

	rows, skips := parse.Roster(text)
	e.fillSkips(&report, skips)
	if len(rows) == 0 {
		metrics.RecordBatch(SourceRoster, "failed")
		return Batch{Report: report}, fmt.Errorf("%w: %d lines skipped", ErrEmptyBatch, len(skips))
	}
	report.RowsParsed = len(rows)

	entries := make([]model.RosterEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFromRow(row))
	}
	entries = e.valuer.Price(entries)

	batch := Batch{Report: report}
	for i := range entries {
		entry := entries[i]
		batch.Deltas = append(batch.Deltas, model.Delta{
			Kind:  model.DeltaNewEntry,
			Entry: &entry,
			Price: entry.Price,
		})
		metrics.RecordRowParsed(SourceRoster)
	}
	batch.Report.RowsApplied = len(batch.Deltas)

	e.log.Info(ctx, "roster batch ingested",
		logger.Int("rows", len(rows)),
		logger.Int("skipped", batch.Report.RowsSkipped),
	)
	metrics.RecordBatch(SourceRoster, "ok")
	return batch, nil
}

// IngestRaces decodes and parses a race calendar upload into RaceRecord
// deltas.
func (e *Engine) IngestRaces(ctx context.Context, raw []byte) (Batch, error) {
	text, report, err := e.decode(raw, SourceRaces)
	if err != nil {
		return Batch{}, err
	}

	rows, skips := parse.Races(text)
	e.fillSkips(&report, skips)
	if len(rows) == 0 {
		metrics.RecordBatch(SourceRaces, "failed")
		return Batch{Report: report}, fmt.Errorf("%w: %d lines skipped", ErrEmptyBatch, len(skips))
	}
	report.RowsParsed = len(rows)

	batch := Batch{Report: report}
	for i := range rows {
		race := rows[i]
		batch.Deltas = append(batch.Deltas, model.Delta{Kind: model.DeltaRaceRecord, Race: &race})
		metrics.RecordRowParsed(SourceRaces)
	}
	batch.Report.RowsApplied = len(batch.Deltas)

	e.log.Info(ctx, "race calendar batch ingested", logger.Int("rows", len(rows)))
	metrics.RecordBatch(SourceRaces, "ok")
	return batch, nil
}

// IngestStages decodes and parses a pasted stage schedule into StageRecord
// deltas.
func (e *Engine) IngestStages(ctx context.Context, raw []byte) (Batch, error) {
	text, report, err := e.decode(raw, SourceStages)
	if err != nil {
		return Batch{}, err
	}

	rows, skips := parse.Stages(text)
	e.fillSkips(&report, skips)
	if len(rows) == 0 {
		metrics.RecordBatch(SourceStages, "failed")
		return Batch{Report: report}, fmt.Errorf("%w: %d lines skipped", ErrEmptyBatch, len(skips))
	}
	report.RowsParsed = len(rows)

	batch := Batch{Report: report}
	for i := range rows {
		stage := rows[i]
		batch.Deltas = append(batch.Deltas, model.Delta{Kind: model.DeltaStageRecord, Stage: &stage})
		metrics.RecordRowParsed(SourceStages)
	}
	batch.Report.RowsApplied = len(batch.Deltas)

	e.log.Info(ctx, "stage schedule batch ingested", logger.Int("rows", len(rows)))
	metrics.RecordBatch(SourceStages, "ok")
	return batch, nil
}

// IngestResults decodes and parses a pasted result table, resolves every
// rider name against the roster snapshot, and emits ScoreUpdate deltas
// for resolved rows. Unresolved names land in the report, not in deltas.
func (e *Engine) IngestResults(ctx context.Context, raw []byte, roster []model.RosterEntry) (Batch, error) {
	text, report, err := e.decode(raw, SourceResults)
	if err != nil {
		return Batch{}, err
	}

	rows, skips := parse.Results(text, parse.WithDSQPenalty(e.dsqPenalty))
	e.fillSkips(&report, skips)
	if len(rows) == 0 {
		metrics.RecordBatch(SourceResults, "failed")
		return Batch{Report: report}, fmt.Errorf("%w: %d lines skipped", ErrEmptyBatch, len(skips))
	}
	report.RowsParsed = len(rows)

	matcher := match.New(roster)
	batch := Batch{Report: report}
	for _, row := range rows {
		metrics.RecordRowParsed(SourceResults)
		outcome := matcher.Resolve(row.Rider)
		if !outcome.Resolved() {
			metrics.RecordNameUnresolved()
			if outcome.Strategy == model.MatchAmbiguous {
				batch.Report.Ambiguous++
			} else {
				batch.Report.NotFound++
			}
			if len(batch.Report.Unresolved) < e.sampleCap {
				batch.Report.Unresolved = append(batch.Report.Unresolved, row.Rider)
			}
			continue
		}

		metrics.RecordMatch(outcome.Strategy.String())
		batch.Report.RowsMatched++
		batch.Deltas = append(batch.Deltas, model.Delta{
			Kind:    model.DeltaScoreUpdate,
			EntryID: outcome.Entry.ID,
			Rider:   row.Rider,
			Points:  row.Points,
		})
	}
	batch.Report.RowsApplied = len(batch.Deltas)

	e.log.Info(ctx, "result batch ingested",
		logger.Int("rows", len(rows)),
		logger.Int("matched", batch.Report.RowsMatched),
		logger.Int("unresolved", batch.Report.Ambiguous+batch.Report.NotFound),
	)
	metrics.RecordBatch(SourceResults, "ok")
	return batch, nil
}

// decode runs the byte decoder and seeds the batch report.
func (e *Engine) decode(raw []byte, source string) (string, model.Report, error) {
	report := model.Report{Source: source}
	if len(raw) == 0 {
		metrics.RecordBatch(source, "failed")
		return "", report, fmt.Errorf("%s: %w", source, ErrEmptyInput)
	}
	text, clean := decode.Text(raw)
	if !clean {
		report.DecodeFallback = true
		metrics.RecordDecodeFallback()
	}
	return text, report, nil
}

// fillSkips folds parser skips into the report, keeping a capped sample.
func (e *Engine) fillSkips(report *model.Report, skips []parse.Skip) {
	for _, s := range skips {
		report.RowsSkipped++
		if s.Reason == parse.SkipCategory {
			report.CategoryUnresolved++
		}
		metrics.RecordRowSkipped(report.Source, string(s.Reason))
		if len(report.SkippedSample) < e.sampleCap {
			report.SkippedSample = append(report.SkippedSample, s.Line)
		}
	}
}

// entryFromRow builds a canonical entry from a parsed roster row. The name
// converter has already put rows into "Given Surname" order, so the last
// token is the surname.
func entryFromRow(row model.RosterRow) model.RosterEntry {
	given, family := splitName(row.Name)
	return model.RosterEntry{
		ID:         uuid.NewString(),
		GivenName:  given,
		FamilyName: family,
		FullName:   row.Name,
		Team:       row.Team,
		Ranking:    row.Ranking,
		Category:   row.Category,
		PhotoURL:   row.PhotoURL,
	}
}

func splitName(full string) (given, family string) {
	fields := strings.Fields(normalize.Repair(full))
	if len(fields) < 2 {
		return strings.Join(fields, " "), ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}
