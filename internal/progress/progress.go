// Package progress implements per-job cancellation and throttled progress
// publishing (C10). It carries no ambient state: one Publisher is created
// per job and threaded explicitly through the pipeline.
package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tayzer/compareengine/internal/pipeline"
)

const throttleInterval = 250 * time.Millisecond

// Sink receives progress events. Implementations may be called concurrently
// and are expected to never block the caller for long; a slow or failing
// sink is logged and otherwise ignored (spec §5, "publish failures are
// logged and swallowed, never surfaced to the job").
type Sink interface {
	Publish(pipeline.ProgressEvent)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(pipeline.ProgressEvent)

func (f SinkFunc) Publish(e pipeline.ProgressEvent) { f(e) }

// Publisher throttles EXECUTING-phase progress to at most one emission per
// throttleInterval per job, while always flushing at phase boundaries
// (spec §4.7 "Progress publishing"). Percent is monotonic within a run
// except at a terminal Failed/Cancelled transition (spec §5).
type Publisher struct {
	jobID  string
	sink   Sink
	logger *slog.Logger

	mu          sync.Mutex
	lastPublish time.Time
	lastPercent float64
	terminal    bool
}

// NewPublisher returns a Publisher for one job. sink may be nil, in which
// case events are simply dropped (useful for folder-compare runs with no
// external progress consumer).
func NewPublisher(jobID string, sink Sink) *Publisher {
	return &Publisher{
		jobID:  jobID,
		sink:   sink,
		logger: slog.Default().With("component", "progress", "job_id", jobID),
	}
}

// Publish emits an event, throttled unless force is true. force must be set
// at every phase boundary (spec §4.7). Publish never returns an error; sink
// panics are recovered and logged, matching the "swallowed" contract.
func (p *Publisher) Publish(phase pipeline.Phase, percent float64, message string, completed, total int, force bool) {
	p.mu.Lock()
	if p.terminal {
		p.mu.Unlock()
		return
	}
	if percent < p.lastPercent && phase != pipeline.PhaseFailed && phase != pipeline.PhaseCancelled {
		percent = p.lastPercent
	}
	now := time.Now()
	if !force && now.Sub(p.lastPublish) < throttleInterval {
		p.mu.Unlock()
		return
	}
	p.lastPublish = now
	p.lastPercent = percent
	if phase == pipeline.PhaseCompleted || phase == pipeline.PhaseFailed || phase == pipeline.PhaseCancelled {
		p.terminal = true
	}
	p.mu.Unlock()

	event := pipeline.ProgressEvent{
		JobID:           p.jobID,
		Phase:           phase,
		PercentComplete: percent,
		Message:         message,
		Timestamp:       now,
		CompletedItems:  completed,
		TotalItems:      total,
	}
	p.safePublish(event)
}

// Percent returns the last published percent value, used by a job to report
// cancellation at the last observed percent rather than resetting to zero
// (spec §4.10).
func (p *Publisher) Percent() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPercent
}

// PublishError force-flushes a terminal Failed event carrying errorMessage.
func (p *Publisher) PublishError(percent float64, errorMessage string) {
	p.mu.Lock()
	p.terminal = true
	p.mu.Unlock()
	p.safePublish(pipeline.ProgressEvent{
		JobID:           p.jobID,
		Phase:           pipeline.PhaseFailed,
		PercentComplete: percent,
		Timestamp:       time.Now(),
		ErrorMessage:    errorMessage,
	})
}

func (p *Publisher) safePublish(event pipeline.ProgressEvent) {
	if p.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("progress sink panicked", "error", r)
		}
	}()
	p.sink.Publish(event)
}

// CancelToken is one job's cooperative cancellation handle (spec §4.10).
// It wraps a context.Context so suspension points can select on ctx.Done()
// directly. Cancelled reports whether that context is done, whether through
// Cancel or through the parent context's cancellation or deadline.
type CancelToken struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewCancelToken derives a cancellable token from parent.
func NewCancelToken(parent context.Context) *CancelToken {
	ctx, cancel := context.WithCancel(parent)
	return &CancelToken{ctx: ctx, cancel: cancel}
}

// Context returns the underlying context for suspension points to select on.
func (c *CancelToken) Context() context.Context {
	return c.ctx
}

// Cancel requests cancellation. Safe to call multiple times.
func (c *CancelToken) Cancel() {
	c.cancel()
}

// Cancelled reports whether cancellation has been requested.
func (c *CancelToken) Cancelled() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}
