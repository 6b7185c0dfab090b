// Package rip implements the producer/multi-consumer ripping pipeline:
// one worker streams sectors from a Source and fans each sector out to
// every locked Sink, honoring the preamble/frame/postamble lifecycle and
// cooperative cancellation.
package rip

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cuesmith/cuesmith/internal/sink"
	"github.com/cuesmith/cuesmith/internal/source"
	"github.com/cuesmith/cuesmith/internal/worker"
)

// deriveSign turns a fresh UUID into a non-zero Sign, the RipEngine's own
// lock identity for the duration of one session.
func deriveSign() sink.Sign {
	for {
		id := uuid.New()
		var v uint64
		for _, b := range id {
			v = v<<8 | uint64(b)
		}
		if v != 0 {
			return sink.Sign(v)
		}
	}
}

// RipEngine drives the streaming loop: lock every sink, write a preamble
// to each, stream sectors to all of them, write a postamble to each
// (even on cancel), then unlock all.
type RipEngine struct {
	src   source.Source
	sinks []sink.Sink
	sign  sink.Sign

	runner   *worker.ThreadRunner
	canceled atomic.Bool

	framesWritten []int // parallel to sinks, for tests/observability
}

// NewRipEngine builds an engine over src, writing to every sink in the
// order given. Lock order, preamble order, and postamble/unlock order all
// follow this same slice order.
func NewRipEngine(src source.Source, sinks []sink.Sink) *RipEngine {
	e := &RipEngine{
		src:           src,
		sinks:         sinks,
		sign:          deriveSign(),
		framesWritten: make([]int, len(sinks)),
	}
	e.runner = worker.NewThreadRunner(func(canceled func() bool) error {
		return e.run(canceled)
	})
	return e
}

// Start launches the ripping session on its own goroutine.
func (e *RipEngine) Start() { e.runner.Start() }

// Join blocks until Start's session completes and returns its error.
func (e *RipEngine) Join() error { return e.runner.Join() }

// WaitDone blocks until the session completes, discarding its error.
func (e *RipEngine) WaitDone() { e.runner.WaitDone() }

// Cancel sets the cooperative cancellation flag; safe to call from any
// goroutine while the session is in flight.
func (e *RipEngine) Cancel() { e.runner.Cancel() }

// Canceled reports whether the most recent run ended because Cancel was
// observed before end-of-disc.
func (e *RipEngine) Canceled() bool { return e.canceled.Load() }

// FramesWritten reports, for diagnostics, how many frames sink i
// received during the last run.
func (e *RipEngine) FramesWritten(i int) int { return e.framesWritten[i] }

// Run executes one ripping session synchronously on the calling
// goroutine — a convenience for callers (and tests) that do not need the
// Start/Join split. It must not be called concurrently with itself or a
// second time on the same engine; a RipEngine is single-shot, started
// once and joined.
func (e *RipEngine) Run() error {
	e.Start()
	return e.Join()
}

func (e *RipEngine) run(canceled func() bool) error {
	locked := make([]bool, len(e.sinks))
	unlockAll := func() {
		for i := len(locked) - 1; i >= 0; i-- {
			if locked[i] {
				e.sinks[i].Unlock(e.sign)
				locked[i] = false
			}
		}
	}

	for i, s := range e.sinks {
		if err := s.Lock(e.sign); err != nil {
			unlockAll()
			return errors.Wrapf(err, "ripengine: lock sink %d", i)
		}
		locked[i] = true
	}

	for i, s := range e.sinks {
		if err := s.WritePreamble(e.sign); err != nil {
			unlockAll()
			return errors.Wrapf(err, "ripengine: preamble sink %d", i)
		}
	}

	for {
		if canceled() {
			e.canceled.Store(true)
			break
		}
		sample, ok := e.src.ReadNextSector()
		if !ok {
			break
		}
		for i, s := range e.sinks {
			n, err := s.WriteFrame(sample, e.src.SectorSampleCount(), e.sign)
			if err != nil {
				e.writePostambleAll()
				unlockAll()
				return errors.Wrapf(err, "ripengine: frame sink %d", i)
			}
			if n > 0 {
				e.framesWritten[i]++
			}
		}
	}

	postErr := e.writePostambleAll()
	unlockAll()
	return postErr
}

// writePostambleAll writes the postamble to every sink regardless of
// per-sink failure, returning the first error encountered so a partial
// failure does not skip the remaining sinks' postambles — even on
// cancel, so partial output is still well-formed.
func (e *RipEngine) writePostambleAll() error {
	var first error
	for i, s := range e.sinks {
		if err := s.WritePostamble(e.sign); err != nil && first == nil {
			first = errors.Wrapf(err, "ripengine: postamble sink %d", i)
		}
	}
	return first
}
