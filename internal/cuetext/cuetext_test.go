package cuetext

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuesmith/cuesmith/internal/types"
)

func buildSampleCueSheet(t *testing.T) *types.CueSheet {
	t.Helper()
	cs := types.NewCueSheet()
	require.NoError(t, cs.SetCatalog("1234567890123"))
	cs.FileName = "album.flac"
	cs.FileType = types.FileTypeWAVE
	cs.Title = "Greatest Hits"
	cs.Performer = "Some Artist"
	cs.Songwriter = "Some Writer"
	cs.AddRem("GENRE Rock")
	cs.AddRem("DATE 1999")

	t1 := types.NewTrack(1, types.TrackTypeAudio)
	t1.Title = "Opening Track"
	t1.Performer = "Some Artist"
	require.NoError(t, t1.SetISRC("USRC17607839"))
	t1.Flags = types.FlagDCP | types.FlagPRE
	require.NoError(t, t1.AddIndex(types.Index{Number: 1, Time: 0}))
	require.NoError(t, cs.AddTrack(t1))

	t2 := types.NewTrack(2, types.TrackTypeAudio)
	t2.Title = "Second Track"
	t2.Performer = "Some Artist"
	t2.Pregap = 150
	require.NoError(t, t2.AddIndex(types.Index{Number: 0, Time: 28650}))
	require.NoError(t, t2.AddIndex(types.Index{Number: 1, Time: 28800}))
	require.NoError(t, cs.AddTrack(t2))

	return cs
}

func TestRenderParseRoundTrip(t *testing.T) {
	cs := buildSampleCueSheet(t)

	text, err := Render(cs)
	require.NoError(t, err)
	require.NotEmpty(t, text)

	parsed, err := Parse(text)
	require.NoError(t, err)

	require.Equal(t, cs, parsed)
}

func TestFormatParseTimestamp(t *testing.T) {
	cases := []int{0, 1, 74, 75, 28800, 449999}
	for _, sectors := range cases {
		s := FormatTimestamp(sectors)
		got, err := ParseTimestamp(s)
		require.NoError(t, err)
		require.Equal(t, sectors, got)
	}
}

func TestParseRejectsUnknownDirective(t *testing.T) {
	_, err := Parse("BOGUS foo\n")
	require.Error(t, err)
}

func TestParseRejectsOutOfRangeTimestamp(t *testing.T) {
	_, err := ParseTimestamp("00:60:00")
	require.Error(t, err)
}
