package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThreadRunnerJoinWaitsForCompletion(t *testing.T) {
	r := NewThreadRunner(func(canceled func() bool) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	r.Start()
	require.NoError(t, r.Join())
}

func TestThreadRunnerPropagatesError(t *testing.T) {
	want := errors.New("boom")
	r := NewThreadRunner(func(canceled func() bool) error { return want })
	r.Start()
	require.Equal(t, want, r.Join())
}

func TestThreadRunnerCancelObservedByWorker(t *testing.T) {
	started := make(chan struct{})
	r := NewThreadRunner(func(canceled func() bool) error {
		close(started)
		for !canceled() {
		}
		return nil
	})
	r.Start()
	<-started
	r.Cancel()
	require.NoError(t, r.Join())
}

func TestThreadRunnerStartIsIdempotent(t *testing.T) {
	var n int
	done := make(chan struct{})
	r := NewThreadRunner(func(canceled func() bool) error {
		n++
		close(done)
		return nil
	})
	r.Start()
	r.Start()
	<-done
	r.WaitDone()
	require.Equal(t, 1, n)
}

func TestThreadRunnerTryJoinBeforeDone(t *testing.T) {
	gate := make(chan struct{})
	r := NewThreadRunner(func(canceled func() bool) error {
		<-gate
		return nil
	})
	r.Start()
	require.Equal(t, ErrNotStarted, r.TryJoin())
	close(gate)
	require.NoError(t, r.Join())
}
