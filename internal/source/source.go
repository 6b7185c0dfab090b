// Package source implements the Source contract: a producer
// of fixed-size CDDA sectors and the preliminary cue-sheet derived from
// the disc's table of contents.
package source

import "github.com/cuesmith/cuesmith/internal/types"

// TimeUnit selects the unit Length reports in.
type TimeUnit uint8

const (
	UnitSectors TimeUnit = iota
	UnitSeconds
	UnitHalfWords
	UnitBytes
)

// SectorBytes is the size of one CDDA sector: 2352 bytes of 16-bit
// stereo PCM at 44.1kHz (GLOSSARY "CDDA sector").
const SectorBytes = 2352

// SectorHalfWords is the sector size expressed in 16-bit samples.
const SectorHalfWords = SectorBytes / 2

// FramesPerSecond is the CDDA sector rate.
const FramesPerSecond = 75

// Source exposes the physical (or fixture) CD device.
type Source interface {
	Path() string
	SectorSampleCount() int
	ReadNextSector() ([]byte, bool) // borrowed slice valid until the next call; ok=false at end of disc
	Rewind()
	Length(unit TimeUnit) int
	BuildCueSheet() (*types.CueSheet, error)
	SkipFirstTrackPreGap() bool
	SetSkipFirstTrackPreGap(bool)
}

// ConvertLength converts a sector count into the requested unit.
func ConvertLength(sectors int, unit TimeUnit) int {
	switch unit {
	case UnitSeconds:
		return sectors / FramesPerSecond
	case UnitHalfWords:
		return sectors * SectorHalfWords
	case UnitBytes:
		return sectors * SectorBytes
	default:
		return sectors
	}
}
