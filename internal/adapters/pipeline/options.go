package pipeline

import (
	"time"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithChunkSize sets the number of deltas per sink submission.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithChunkTimeout bounds each chunk submission.
func WithChunkTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) {
		if timeout > 0 {
			p.chunkTimeout = timeout
		}
	}
}

// WithQueueSize bounds the in-memory delta queue.
func WithQueueSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.queue = make(chan model.Delta, size)
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}
