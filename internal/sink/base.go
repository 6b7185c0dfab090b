package sink

import (
	"sync"

	"github.com/cuesmith/cuesmith/internal/types"
)

type phase uint8

const (
	phaseUnlocked phase = iota
	phaseLocked
	phasePreamble
	phaseStreaming
	phasePostamble
)

// base implements the lock-sign protocol and preamble/frame/postamble
// phase machine shared by every Sink variant. Concrete sinks
// embed it and call checkWrite before touching the underlying file.
type base struct {
	mu    sync.Mutex
	cond  *sync.Cond
	sign  Sign
	phase phase
	path  string
}

func newBase(path string) *base {
	b := &base{path: path}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *base) Path() string { return b.path }

func (b *base) IsLocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sign != 0
}

func (b *base) Lock(sign Sign) error {
	if sign == 0 {
		return &types.ProtocolViolationError{Msg: "lock sign must be non-zero"}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.sign != 0 && b.sign != sign {
		b.cond.Wait()
	}
	b.sign = sign
	b.phase = phaseLocked
	return nil
}

func (b *base) TryLock(sign Sign) bool {
	if sign == 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sign != 0 && b.sign != sign {
		return false
	}
	b.sign = sign
	b.phase = phaseLocked
	return true
}

func (b *base) Unlock(sign Sign) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sign != sign {
		return false
	}
	b.sign = 0
	b.phase = phaseUnlocked
	b.cond.Broadcast()
	return true
}

func (b *base) WaitTillUnlock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.sign != 0 {
		b.cond.Wait()
	}
}

// checkWrite verifies sign ownership and the expected current phase
// before a write-side call proceeds; callers move to the next phase
// with advance once the write succeeds.
func (b *base) checkWrite(sign Sign, allowed ...phase) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sign != sign || sign == 0 {
		return &types.NotOwnerError{Msg: "lock sign mismatch"}
	}
	for _, p := range allowed {
		if b.phase == p {
			return nil
		}
	}
	return &types.ProtocolViolationError{Msg: "call not valid in current phase"}
}

func (b *base) advance(to phase) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phase = to
}
