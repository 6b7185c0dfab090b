package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCueSheet_SetCatalog(t *testing.T) {
	cs := NewCueSheet()
	require.NoError(t, cs.SetCatalog(""))
	require.NoError(t, cs.SetCatalog("1234567890123"))
	assert.Error(t, cs.SetCatalog("123"))
	assert.Error(t, cs.SetCatalog("12345678901234"))
	assert.Error(t, cs.SetCatalog("abcdefghijklm"))
}

func TestCueSheet_AddTrack_Sequence(t *testing.T) {
	cs := NewCueSheet()
	require.NoError(t, cs.AddTrack(NewTrack(1, TrackTypeAudio)))
	require.NoError(t, cs.AddTrack(NewTrack(2, TrackTypeAudio)))
	assert.Error(t, cs.AddTrack(NewTrack(4, TrackTypeAudio)), "should reject out-of-sequence track")
	assert.Error(t, cs.AddTrack(NewTrack(2, TrackTypeAudio)), "should reject duplicate track number")
}

func TestCueSheet_CompactRems(t *testing.T) {
	cs := NewCueSheet()
	cs.AddRem("")
	cs.AddRem("GENRE Jazz")
	cs.AddRem("")
	cs.AddRem("DATE 1959")
	cs.CompactRems()
	assert.Equal(t, []string{"GENRE Jazz", "DATE 1959"}, cs.Rems)
}

func TestCueSheet_Validate(t *testing.T) {
	cs := NewCueSheet()
	tr := NewTrack(1, TrackTypeAudio)
	require.NoError(t, tr.AddIndex(Index{Number: 1, Time: 0}))
	require.NoError(t, cs.AddTrack(tr))
	assert.NoError(t, cs.Validate())

	cs.Catalog = "not-13-digits"
	assert.Error(t, cs.Validate())
}

func TestTrack_AddIndex_SortedStrictlyIncreasing(t *testing.T) {
	tr := NewTrack(1, TrackTypeAudio)
	require.NoError(t, tr.AddIndex(Index{Number: 1, Time: 150}))
	require.NoError(t, tr.AddIndex(Index{Number: 0, Time: 0}))
	require.Len(t, tr.Indexes, 2)
	assert.Equal(t, 0, tr.Indexes[0].Number)
	assert.Equal(t, 1, tr.Indexes[1].Number)
	assert.Error(t, tr.AddIndex(Index{Number: 1, Time: 999}), "duplicate index number")
}

func TestTrack_SetISRC(t *testing.T) {
	tr := NewTrack(1, TrackTypeAudio)
	require.NoError(t, tr.SetISRC("USRC17607839"))
	assert.Error(t, tr.SetISRC("bad-isrc"))
}

func TestFlags_String(t *testing.T) {
	f := FlagDCP | FlagPRE
	assert.Equal(t, "DCP PRE", f.String())
	assert.Equal(t, "", Flags(0).String())
}
