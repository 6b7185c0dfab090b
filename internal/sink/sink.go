// Package sink implements an output file with an exclusive per-session
// lock-sign and a fixed preamble/frame/postamble life-cycle. Two variants
// are provided: WAVE and a lossless-packed container built on the FLAC
// metadata-block format.
package sink

import (
	"github.com/cuesmith/cuesmith/internal/types"
)

// Sign is the opaque, caller-chosen, non-zero token a Sink's lock holder
// must present verbatim to every subsequent write/unlock call.
type Sign uint64

// Sink is the contract every output-file variant implements.
type Sink interface {
	// IsLocked reports whether any sign currently holds the lock.
	IsLocked() bool
	// Lock blocks until the lock is free or already held by sign, then
	// takes it.
	Lock(sign Sign) error
	// TryLock takes the lock without blocking, reporting success. A sign
	// that already holds the lock re-acquires it and succeeds, as Lock
	// also does without blocking.
	TryLock(sign Sign) bool
	// Unlock releases the lock iff sign matches the current holder.
	Unlock(sign Sign) bool
	// WaitTillUnlock blocks the caller until the lock becomes free.
	WaitTillUnlock()

	WritePreamble(sign Sign) error
	WriteFrame(samples []byte, nSamples int, sign Sign) (int, error)
	WritePostamble(sign Sign) error

	// CuesheetEmbeddable reports whether SetCueSheet can succeed.
	CuesheetEmbeddable() bool
	// SetCueSheet embeds the merged cue sheet, or fails with
	// *types.UnsupportedError when the variant cannot embed one.
	SetCueSheet(cs *types.CueSheet, sign Sign) error

	// Path returns the file this sink owns.
	Path() string
}
