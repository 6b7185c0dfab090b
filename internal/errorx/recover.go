// Package errorx provides panic-safety helpers for the worker goroutines
// spawned by the rip engine and the aggregator.
package errorx

import (
	"log/slog"
	"runtime/debug"
)

// Recover must be deferred at the top of any function that runs on its own
// goroutine. If ignore is true a caught panic is logged and swallowed;
// otherwise it is re-raised after logging so the process crashes loudly.
func Recover(ignore bool) (hasCaught bool) {
	err := recover()
	if err != nil {
		slog.Error("catch panic", slog.Any("error", err), slog.Any("stack", debug.Stack()))
		if ignore {
			hasCaught = true
			return
		}
		panic(err)
	}
	return
}

func PanicRecoverWrapper(ignorePanic bool, f func()) {
	defer Recover(ignorePanic)
	f()
}

// Go starts f on a new goroutine wrapped in Recover. A panic in f is
// logged; it is swallowed only when ignorePanic is true, and otherwise
// re-raised, which still ends the process.
func Go(f func(), ignorePanic ...bool) {
	var ignore bool
	if len(ignorePanic) > 0 {
		ignore = ignorePanic[0]
	}
	go PanicRecoverWrapper(ignore, f)
}

// WaitGoStart starts f on a goroutine through a wrapper goroutine and
// blocks until the wrapper has launched it; f itself may not have begun
// running when WaitGoStart returns.
func WaitGoStart(f func(), ignorePanic ...bool) {
	wait := make(chan struct{})
	Go(func() {
		Go(f, ignorePanic...)
		wait <- struct{}{}
	}, ignorePanic...)
	<-wait
}
