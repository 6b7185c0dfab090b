package source

import (
	"github.com/cuesmith/cuesmith/internal/types"
)

// TOCEntry is one table-of-contents entry: a track's start offset and
// optional per-track metadata, the inputs BuildCueSheet turns into
// populated Track records.
type TOCEntry struct {
	Number        int
	StartSector   int // sector offset of INDEX 01
	PregapSectors int // non-zero only meaningful on track 1
	ISRC          string
}

// FixtureSource is a deterministic, hardware-free Source: reading a real
// optical drive requires platform-specific ioctls reached via libcue and
// OS-level CD-ROM APIs, which cannot be exercised in a portable, testable
// way (DESIGN.md). FixtureSource generates each sector's bytes from a
// caller-supplied function instead, so the streaming and cue-sheet logic
// downstream of Source can be driven and tested end to end.
type FixtureSource struct {
	path         string
	toc          []TOCEntry
	totalSectors int
	catalog      string
	genSector    func(index int) []byte

	pos                  int
	skipFirstTrackPreGap bool
}

// NewFixtureSource builds a fixture over toc (1..N, in order),
// totalSectors of audio, disc catalog (MCN), and a sector generator.
func NewFixtureSource(path string, toc []TOCEntry, totalSectors int, catalog string, genSector func(index int) []byte) *FixtureSource {
	return &FixtureSource{
		path:         path,
		toc:          toc,
		totalSectors: totalSectors,
		catalog:      catalog,
		genSector:    genSector,
	}
}

func (s *FixtureSource) Path() string { return s.path }

func (s *FixtureSource) SectorSampleCount() int { return SectorHalfWords }

func (s *FixtureSource) ReadNextSector() ([]byte, bool) {
	if s.pos >= s.totalSectors {
		return nil, false
	}
	data := s.genSector(s.pos)
	s.pos++
	return data, true
}

func (s *FixtureSource) Rewind() { s.pos = 0 }

func (s *FixtureSource) Length(unit TimeUnit) int {
	return ConvertLength(s.totalSectors, unit)
}

func (s *FixtureSource) SkipFirstTrackPreGap() bool { return s.skipFirstTrackPreGap }

func (s *FixtureSource) SetSkipFirstTrackPreGap(v bool) { s.skipFirstTrackPreGap = v }

// BuildCueSheet derives a preliminary cue sheet from the table of
// contents: one track per TOC entry, a validated catalog, validated
// per-track ISRC (silently dropped if malformed), and an index 0 when
// track 1 reports a pregap.
func (s *FixtureSource) BuildCueSheet() (*types.CueSheet, error) {
	cs := types.NewCueSheet()
	if types.ValidateCatalog(s.catalog) == nil {
		_ = cs.SetCatalog(s.catalog)
	}

	for _, e := range s.toc {
		t := types.NewTrack(e.Number, types.TrackTypeAudio)
		if types.ValidateISRC(e.ISRC) == nil {
			_ = t.SetISRC(e.ISRC)
		}
		if e.Number == 1 && e.PregapSectors > 0 && !s.skipFirstTrackPreGap {
			_ = t.AddIndex(types.Index{Number: 0, Time: e.StartSector - e.PregapSectors})
		}
		_ = t.AddIndex(types.Index{Number: 1, Time: e.StartSector})
		if err := cs.AddTrack(t); err != nil {
			return nil, err
		}
	}
	return cs, nil
}
