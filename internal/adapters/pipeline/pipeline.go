// Package pipeline forwards delta records to the persistence collaborator
// in fixed-size chunks: sequential chunk submission, a per-chunk timeout,
// and no retry at this layer. Retry policy, if any, belongs to the sink.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/pkg/logger"
	"github.com/mveron/gruppetto/pkg/metrics"
)

// Default pipeline configuration constants.
const (
	defaultChunkSize    = 50
	defaultQueueSize    = 10000
	defaultChunkTimeout = 5 * time.Second
	shutdownTimeout     = 30 * time.Second
)

// ItemResult reports the sink's verdict on one delta within a chunk.
type ItemResult struct {
	Index int
	Err   error
}

// Sink accepts structured deltas and returns per-item success/failure.
// Implementations live outside the engine (remote document store, blob
// storage).
type Sink interface {
	Apply(ctx context.Context, deltas []model.Delta) ([]ItemResult, error)
}

// Stats counts what the pipeline has pushed through so far.
type Stats struct {
	ChunksOK     int
	ChunksFailed int
	Applied      int
	Failed       int
}

// Pipeline drains a bounded queue of deltas into the sink.
type Pipeline struct {
	sink         Sink
	chunkSize    int
	chunkTimeout time.Duration
	queue        chan model.Delta

	mu    sync.Mutex
	stats Stats

	shutdown chan struct{}
	done     chan struct{}
	closeOne sync.Once

	log logger.Logger
}

// New creates a Pipeline with default configuration.
func New(sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		sink:         sink,
		chunkSize:    defaultChunkSize,
		chunkTimeout: defaultChunkTimeout,
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue == nil {
		p.queue = make(chan model.Delta, defaultQueueSize)
	}
	if p.log == nil {
		p.log = logger.Get().Named("pipeline")
	}
	return p
}

// Start launches the single submission loop. Chunks go out sequentially;
// bounded concurrency comes from the queue, not parallel submissions.
func (p *Pipeline) Start(ctx context.Context) {
	go p.run(ctx)
}

// Enqueue adds a delta for submission. Returns false when the queue is
// full or the pipeline is shutting down.
func (p *Pipeline) Enqueue(ctx context.Context, d model.Delta) bool {
	select {
	case <-p.shutdown:
		return false
	case <-ctx.Done():
		return false
	default:
	}

	select {
	case p.queue <- d:
		metrics.UpdatePipelineQueueSize(len(p.queue))
		return true
	default:
		return false
	}
}

// EnqueueAll enqueues a batch, reporting how many deltas were accepted.
func (p *Pipeline) EnqueueAll(ctx context.Context, deltas []model.Delta) int {
	accepted := 0
	for _, d := range deltas {
		if !p.Enqueue(ctx, d) {
			break
		}
		accepted++
	}
	return accepted
}

// Shutdown stops accepting deltas, flushes what is queued, and waits for
// the loop to finish or the context to expire.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.closeOne.Do(func() { close(p.shutdown) })

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		p.log.Warn(ctx, "pipeline shutdown timed out")
		return ctx.Err()
	}
}

// Stats returns a copy of the running counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Pipeline) run(ctx context.Context) {
	defer close(p.done)

	chunk := make([]model.Delta, 0, p.chunkSize)
	flush := func() {
		if len(chunk) > 0 {
			p.submit(ctx, chunk)
			chunk = chunk[:0]
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			// Drain whatever is already queued, then flush.
			for {
				select {
				case d := <-p.queue:
					chunk = append(chunk, d)
					if len(chunk) == p.chunkSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case d := <-p.queue:
			metrics.UpdatePipelineQueueSize(len(p.queue))
			chunk = append(chunk, d)
			if len(chunk) == p.chunkSize {
				flush()
			}
		}
	}
}

// submit sends one chunk to the sink under the per-chunk timeout. A failed
// chunk is recorded and dropped; the next chunk still goes out.
func (p *Pipeline) submit(ctx context.Context, chunk []model.Delta) {
	start := time.Now()
	subCtx, cancel := context.WithTimeout(ctx, p.chunkTimeout)
	defer cancel()

	results, err := p.sink.Apply(subCtx, chunk)
	metrics.RecordChunkSubmitLatency(float64(time.Since(start).Milliseconds()))

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.stats.ChunksFailed++
		p.stats.Failed += len(chunk)
		metrics.RecordChunkSubmitted("failed")
		metrics.RecordDeltasFailed(len(chunk))
		p.log.Error(ctx, "chunk submission failed",
			logger.Int("size", len(chunk)),
			logger.Error(err),
		)
		return
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.stats.ChunksOK++
	p.stats.Applied += len(chunk) - failed
	p.stats.Failed += failed
	metrics.RecordChunkSubmitted("ok")
	metrics.RecordDeltasApplied(len(chunk) - failed)
	metrics.RecordDeltasFailed(failed)
}
