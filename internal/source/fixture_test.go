package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuesmith/cuesmith/internal/types"
)

func patternSector(i int) []byte {
	b := make([]byte, SectorBytes)
	for j := range b {
		b[j] = byte((i*7 + j) & 0xff)
	}
	return b
}

func TestFixtureSourceEmitsExactSectorCount(t *testing.T) {
	toc := []TOCEntry{{Number: 1, StartSector: 0}}
	s := NewFixtureSource("/dev/fixture", toc, 25, "", patternSector)

	var count int
	for {
		data, ok := s.ReadNextSector()
		if !ok {
			break
		}
		require.Len(t, data, SectorBytes)
		count++
	}
	require.Equal(t, 25, count)
}

func TestFixtureSourceRewindReplaysSameSectors(t *testing.T) {
	toc := []TOCEntry{{Number: 1, StartSector: 0}}
	s := NewFixtureSource("/dev/fixture", toc, 5, "", patternSector)

	first, _ := s.ReadNextSector()
	s.Rewind()
	replay, ok := s.ReadNextSector()
	require.True(t, ok)
	require.Equal(t, first, replay)
}

func TestFixtureSourceLengthConversions(t *testing.T) {
	s := NewFixtureSource("/dev/fixture", nil, 150, "", patternSector)
	require.Equal(t, 150, s.Length(UnitSectors))
	require.Equal(t, 2, s.Length(UnitSeconds))
	require.Equal(t, 150*SectorBytes, s.Length(UnitBytes))
	require.Equal(t, 150*SectorHalfWords, s.Length(UnitHalfWords))
}

func indexByNumber(tr *types.Track, n int) (types.Index, bool) {
	for _, idx := range tr.Indexes {
		if idx.Number == n {
			return idx, true
		}
	}
	return types.Index{}, false
}

func TestFixtureSourceBuildCueSheetOneTrackPerTOCEntry(t *testing.T) {
	toc := []TOCEntry{
		{Number: 1, StartSector: 0, PregapSectors: 150, ISRC: "USRC17607839"},
		{Number: 2, StartSector: 1200, ISRC: "not-an-isrc"},
	}
	s := NewFixtureSource("/dev/fixture", toc, 2000, "0123456789012", patternSector)

	cs, err := s.BuildCueSheet()
	require.NoError(t, err)
	require.Equal(t, "0123456789012", cs.Catalog)
	require.Len(t, cs.Tracks, 2)

	t1 := cs.Tracks[0]
	require.Equal(t, "USRC17607839", t1.ISRC)
	idx0, ok := indexByNumber(t1, 0)
	require.True(t, ok)
	require.Equal(t, -150, idx0.Time)

	t2 := cs.Tracks[1]
	require.Empty(t, t2.ISRC) // malformed ISRC silently dropped
	idx1, ok := indexByNumber(t2, 1)
	require.True(t, ok)
	require.Equal(t, 1200, idx1.Time)
}

func TestFixtureSourceSkipFirstTrackPreGapOmitsIndex0(t *testing.T) {
	toc := []TOCEntry{{Number: 1, StartSector: 0, PregapSectors: 150}}
	s := NewFixtureSource("/dev/fixture", toc, 2000, "", patternSector)
	s.SetSkipFirstTrackPreGap(true)

	cs, err := s.BuildCueSheet()
	require.NoError(t, err)
	_, ok := indexByNumber(cs.Tracks[0], 0)
	require.False(t, ok)
}

func TestFixtureSourceBadCatalogDroppedSilently(t *testing.T) {
	s := NewFixtureSource("/dev/fixture", []TOCEntry{{Number: 1}}, 100, "not-a-catalog", patternSector)
	cs, err := s.BuildCueSheet()
	require.NoError(t, err)
	require.Empty(t, cs.Catalog)
}
