package provider

import (
	"fmt"

	"github.com/cuesmith/cuesmith/internal/cuetext"
	"github.com/cuesmith/cuesmith/internal/types"
)

// TrackLengthsSeconds derives each track's length in whole seconds from
// its INDEX 01 offsets and the disc's total sector count, the same
// quantity the Provider's multi-disc alignment and the
// freedb-style disc id both need.
func TrackLengthsSeconds(cs *types.CueSheet, totalSectors int) []int {
	out := make([]int, 0, len(cs.Tracks))
	offsets := make([]int, 0, len(cs.Tracks))
	for _, t := range cs.Tracks {
		sec := 0
		if idx := t.Index01(); idx != nil {
			sec = idx.Time
		}
		offsets = append(offsets, sec)
	}
	for i := range offsets {
		end := totalSectors
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		out = append(out, (end-offsets[i])/cuetext.FramesPerSecond)
	}
	return out
}

func digitSum(n int) int {
	s := 0
	if n < 0 {
		n = -n
	}
	for n > 0 {
		s += n % 10
		n /= 10
	}
	return s
}

// FreedbDiscID computes the classic freedb disc identifier: an 8-hex-digit
// string folding a checksum of each track's first-index offset, the
// total playing time, and the track count. Both the primary and
// freedb-like providers key their disc-direct query on this id.
func FreedbDiscID(cs *types.CueSheet, totalSectors int) string {
	var checksum int
	var firstOffsetSeconds int
	for i, t := range cs.Tracks {
		sec := 0
		if idx := t.Index01(); idx != nil {
			sec = idx.Time / cuetext.FramesPerSecond
		}
		if i == 0 {
			firstOffsetSeconds = sec
		}
		checksum += digitSum(sec)
	}
	totalSeconds := totalSectors / cuetext.FramesPerSecond
	totalTime := totalSeconds - firstOffsetSeconds
	id := (checksum%0xff)<<24 | (totalTime&0xffff)<<8 | (len(cs.Tracks) & 0xff)
	return fmt.Sprintf("%08x", id)
}
