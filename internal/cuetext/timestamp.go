// Package cuetext renders a CueSheet to CDRWIN cue-sheet text
// and parses it back with a strict subset parser, so Render and Parse
// together form a lossless round trip.
package cuetext

import "fmt"

// FramesPerSecond is the CDDA sector rate used by mm:ss:ff timestamps.
const FramesPerSecond = 75

// FormatTimestamp renders a sector count as mm:ss:ff.
func FormatTimestamp(sectors int) string {
	if sectors < 0 {
		sectors = 0
	}
	totalSeconds := sectors / FramesPerSecond
	frames := sectors % FramesPerSecond
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, frames)
}

// ParseTimestamp parses an mm:ss:ff string back into a sector count.
func ParseTimestamp(s string) (int, error) {
	var mm, ss, ff int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &mm, &ss, &ff); err != nil {
		return 0, fmt.Errorf("cuetext: invalid timestamp %q: %w", s, err)
	}
	if ss < 0 || ss >= 60 || ff < 0 || ff >= FramesPerSecond {
		return 0, fmt.Errorf("cuetext: timestamp %q out of range", s)
	}
	return (mm*60+ss)*FramesPerSecond + ff, nil
}
