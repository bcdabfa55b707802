package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayzer/compareengine/internal/pipeline"
)

type recordingSink struct {
	mu     sync.Mutex
	events []pipeline.ProgressEvent
}

func (r *recordingSink) Publish(e pipeline.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestPublisher_ForcePublishAlwaysEmits(t *testing.T) {
	t.Parallel()
	sink := &recordingSink{}
	p := NewPublisher("job-1", sink)

	p.Publish(pipeline.PhaseInitializing, 0, "start", 0, 0, true)
	p.Publish(pipeline.PhaseExecuting, 50, "halfway", 5, 10, true)
	assert.Equal(t, 2, sink.count())
}

func TestPublisher_ThrottlesNonForcedPublishes(t *testing.T) {
	t.Parallel()
	sink := &recordingSink{}
	p := NewPublisher("job-1", sink)

	p.Publish(pipeline.PhaseExecuting, 10, "", 1, 10, true)
	p.Publish(pipeline.PhaseExecuting, 20, "", 2, 10, false)
	p.Publish(pipeline.PhaseExecuting, 30, "", 3, 10, false)
	assert.Equal(t, 1, sink.count())
}

func TestPublisher_TerminalPhaseSuppressesFurtherEvents(t *testing.T) {
	t.Parallel()
	sink := &recordingSink{}
	p := NewPublisher("job-1", sink)

	p.Publish(pipeline.PhaseCompleted, 100, "done", 10, 10, true)
	p.Publish(pipeline.PhaseExecuting, 50, "late", 5, 10, true)
	assert.Equal(t, 1, sink.count())
}

func TestPublisher_SinkPanicIsSwallowed(t *testing.T) {
	t.Parallel()
	p := NewPublisher("job-1", SinkFunc(func(pipeline.ProgressEvent) {
		panic("boom")
	}))
	assert.NotPanics(t, func() {
		p.Publish(pipeline.PhaseInitializing, 0, "start", 0, 0, true)
	})
}

func TestPublisher_NilSinkIsSafe(t *testing.T) {
	t.Parallel()
	p := NewPublisher("job-1", nil)
	assert.NotPanics(t, func() {
		p.Publish(pipeline.PhaseInitializing, 0, "start", 0, 0, true)
	})
}

func TestCancelToken_CancelledAfterCancel(t *testing.T) {
	t.Parallel()
	tok := NewCancelToken(context.Background())
	require.False(t, tok.Cancelled())
	tok.Cancel()
	assert.True(t, tok.Cancelled())
}

func TestCancelToken_HonorsParentDeadline(t *testing.T) {
	t.Parallel()
	parent, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	tok := NewCancelToken(parent)
	<-tok.Context().Done()
	assert.True(t, tok.Cancelled())
}
