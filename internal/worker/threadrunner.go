// Package worker implements ThreadRunner: a generic single-shot worker
// lifecycle used by the RipEngine — start once, observe completion,
// cancel cooperatively, join for the result. The Aggregator does not use
// it: CueSheetBuilder.Run executes on the caller's goroutine.
package worker

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ThreadRunner runs fn exactly once on its own goroutine. fn receives a
// canceled func it should poll between units of work; Cancel only sets
// the flag fn observes, it never interrupts fn forcibly.
type ThreadRunner struct {
	fn func(canceled func() bool) error

	once     sync.Once
	done     chan struct{}
	canceled atomic.Bool
	err      error
}

// NewThreadRunner builds a runner around fn. Nothing runs until Start.
func NewThreadRunner(fn func(canceled func() bool) error) *ThreadRunner {
	return &ThreadRunner{fn: fn, done: make(chan struct{})}
}

// Start launches fn on a new goroutine. Calling Start more than once is a
// no-op after the first call — a ThreadRunner is single-shot.
func (r *ThreadRunner) Start() {
	r.once.Do(func() {
		go func() {
			defer close(r.done)
			r.err = r.fn(r.canceled.Load)
		}()
	})
}

// Cancel sets the cooperative cancellation flag fn polls. Safe to call
// from any goroutine, before or after Start, any number of times.
func (r *ThreadRunner) Cancel() { r.canceled.Store(true) }

// Stop is an alias for Cancel, named for callers that think in terms of
// a start/stop/join/wait-done/cancel lifecycle rather than cancellation.
func (r *ThreadRunner) Stop() { r.Cancel() }

// Done returns a channel that closes once fn has returned.
func (r *ThreadRunner) Done() <-chan struct{} { return r.done }

// WaitDone blocks until fn has returned, discarding its error.
func (r *ThreadRunner) WaitDone() { <-r.done }

// Join blocks until fn has returned and yields its error. Calling Join
// before Start blocks forever, matching the single-shot contract: a
// ThreadRunner that is never started never finishes.
func (r *ThreadRunner) Join() error {
	<-r.done
	return r.err
}

// ErrNotStarted is returned by TryJoin when fn has not yet completed.
var ErrNotStarted = errors.New("threadrunner: not done")

// TryJoin returns fn's error without blocking if it has completed, or
// ErrNotStarted otherwise.
func (r *ThreadRunner) TryJoin() error {
	select {
	case <-r.done:
		return r.err
	default:
		return ErrNotStarted
	}
}
