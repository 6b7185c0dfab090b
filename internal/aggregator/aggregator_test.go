package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuesmith/cuesmith/internal/provider"
	"github.com/cuesmith/cuesmith/internal/types"
)

// fakeProvider is a minimal in-memory Provider stand-in for exercising
// the Aggregator's phase walk without real network access.
type fakeProvider struct {
	id       provider.ProviderId
	caps     provider.CapabilitySet
	matches  []provider.Match
	queryErr error
	cleared  bool

	onQueryByDisc func() (int, error)
	onQueryLinked func(primary provider.Provider) (int, error)
	onSearchByUPC func(upc string) (int, error)
}

func (f *fakeProvider) Capabilities() provider.CapabilitySet { return f.caps }
func (f *fakeProvider) Kind() provider.ProviderId            { return f.id }
func (f *fakeProvider) Clear()                               { f.cleared = true; f.matches = nil }

func (f *fakeProvider) QueryByDisc(_ *types.CueSheet, _ int, _ string) (int, error) {
	if f.onQueryByDisc != nil {
		return f.onQueryByDisc()
	}
	return len(f.matches), f.queryErr
}

func (f *fakeProvider) QueryLinked(primary provider.Provider, _ string) (int, error) {
	if f.onQueryLinked != nil {
		return f.onQueryLinked(primary)
	}
	return len(f.matches), nil
}

func (f *fakeProvider) SearchByUPC(upc, _ string) (int, error) {
	if f.onSearchByUPC != nil {
		return f.onSearchByUPC(upc)
	}
	return len(f.matches), nil
}

func (f *fakeProvider) SearchByArtistTitle(_, _, _ string) (int, error) { return 0, nil }

func (f *fakeProvider) NMatches() int { return len(f.matches) }

func (f *fakeProvider) Match(i int) (*provider.Match, error) {
	if i < 0 || i >= len(f.matches) {
		return nil, &types.IndexOutOfRangeError{Index: i, Bound: len(f.matches)}
	}
	return &f.matches[i], nil
}

func (f *fakeProvider) TrackMatch(i, t int) (*provider.TrackMatch, error) {
	m, err := f.Match(i)
	if err != nil {
		return nil, err
	}
	if t < 1 || t > len(m.Tracks) {
		return nil, &types.IndexOutOfRangeError{Index: t, Bound: len(m.Tracks) + 1}
	}
	return &m.Tracks[t-1], nil
}

func (f *fakeProvider) SetPreferredSize(_, _ int) {}

func prelimCueSheet(t *testing.T, nTracks int) *types.CueSheet {
	t.Helper()
	cs := types.NewCueSheet()
	for i := 1; i <= nTracks; i++ {
		tr := types.NewTrack(i, types.TrackTypeAudio)
		require.NoError(t, tr.AddIndex(types.Index{Number: 1, Time: (i - 1) * 1000}))
		require.NoError(t, cs.AddTrack(tr))
	}
	return cs
}

func TestAggregatorCombineAnyMergesAllProviders(t *testing.T) {
	p1 := &fakeProvider{
		id:   provider.IDPrimary,
		caps: provider.CapQueryByDisc | provider.CapYieldsReleaseData,
		matches: []provider.Match{
			{ReleaseID: "r1", AlbumTitle: "Moonbeams", AlbumArtist: "Evans", Genre: "Jazz"},
		},
	}
	p2 := &fakeProvider{
		id:   provider.IDHub,
		caps: provider.CapQueryByDisc | provider.CapYieldsReleaseData,
		matches: []provider.Match{
			{ReleaseID: "r2", AlbumTitle: "Ignored", Date: "1959"},
		},
	}

	cs := prelimCueSheet(t, 1)
	b := NewCueSheetBuilder(cs, 10000, Options{
		Providers:               []provider.Provider{p1, p2},
		RemWishList:             []types.RemFieldKind{types.RemGENRE, types.RemDATE},
		Policy:                  CombineAny,
		ContinueOnProviderError: true,
	})
	require.NoError(t, b.Run())

	result := b.GetCueSheet()
	require.True(t, b.FoundRelease())
	require.Equal(t, "Moonbeams", result.Title) // filled by p1, not overwritten by p2
	require.Equal(t, "Evans", result.Performer)
	require.Contains(t, result.Rems, "GENRE Jazz")
	require.Contains(t, result.Rems, "DATE 1959")
}

func TestAggregatorPickOneStopsAfterFirstMerge(t *testing.T) {
	p1 := &fakeProvider{
		id:      provider.IDPrimary,
		caps:    provider.CapQueryByDisc | provider.CapYieldsReleaseData,
		matches: []provider.Match{{ReleaseID: "r1", AlbumTitle: "First"}},
	}
	p2 := &fakeProvider{
		id:      provider.IDHub,
		caps:    provider.CapQueryByDisc | provider.CapYieldsReleaseData,
		matches: []provider.Match{{ReleaseID: "r2", AlbumTitle: "Second"}},
	}

	cs := prelimCueSheet(t, 1)
	b := NewCueSheetBuilder(cs, 10000, Options{
		Providers: []provider.Provider{p1, p2},
		Policy:    PickOne,
	})
	require.NoError(t, b.Run())
	require.Equal(t, "First", b.GetCueSheet().Title)
}

func TestAggregatorCombineUPCBoundNoMatchLeavesPreliminaryCueSheet(t *testing.T) {
	p1 := &fakeProvider{
		id:      provider.IDPrimary,
		caps:    provider.CapQueryByDisc | provider.CapYieldsReleaseData | provider.CapSearchByUPC,
		matches: []provider.Match{{ReleaseID: "r1", AlbumTitle: "Title", AlbumUPC: "A"}},
		// The barcode search for "B" finds nothing either.
		onSearchByUPC: func(string) (int, error) { return 0, nil },
	}

	cs := prelimCueSheet(t, 1)
	b := NewCueSheetBuilder(cs, 10000, Options{
		Providers:   []provider.Provider{p1},
		Policy:      CombineUPCBound,
		UPC:         "B",
		RemWishList: []types.RemFieldKind{types.RemGENRE},
	})
	require.NoError(t, b.Run())

	require.False(t, b.FoundRelease())
	require.Equal(t, "", b.GetCueSheet().Title)
	require.Empty(t, b.GetCueSheet().Rems)
}

func TestAggregatorRequireUPCMatchExcludesUnmatchedProviders(t *testing.T) {
	p1 := &fakeProvider{
		id:      provider.IDPrimary,
		caps:    provider.CapQueryByDisc | provider.CapYieldsReleaseData,
		matches: []provider.Match{{ReleaseID: "r1", AlbumTitle: "Title", AlbumUPC: "A"}},
	}

	cs := prelimCueSheet(t, 1)
	b := NewCueSheetBuilder(cs, 10000, Options{
		Providers:       []provider.Provider{p1},
		Policy:          CombineAny,
		UPC:             "B", // does not match p1's "A"
		RequireUPCMatch: true,
	})
	require.NoError(t, b.Run())
	require.False(t, b.FoundRelease())
	require.Equal(t, "", b.GetCueSheet().Title)
}

func TestAggregatorDoubleRunFailsAlreadyRunning(t *testing.T) {
	cs := prelimCueSheet(t, 1)
	b := NewCueSheetBuilder(cs, 10000, Options{})
	require.NoError(t, b.Run())
	err := b.Run()
	require.Error(t, err)
	var are *types.AlreadyRunningError
	require.ErrorAs(t, err, &are)
}

func TestAggregatorSetUPCFailsAfterStart(t *testing.T) {
	cs := prelimCueSheet(t, 1)
	b := NewCueSheetBuilder(cs, 10000, Options{})
	require.NoError(t, b.Run())
	err := b.SetUPC("X")
	require.Error(t, err)
}

func TestAggregatorContinueOnErrorClearsFaultingProvider(t *testing.T) {
	p1 := &fakeProvider{
		id:            provider.IDPrimary,
		caps:          provider.CapQueryByDisc,
		onQueryByDisc: func() (int, error) { return 0, &types.TransportError{Kind: types.TransportTimeout} },
	}
	p2 := &fakeProvider{
		id:      provider.IDHub,
		caps:    provider.CapQueryByDisc | provider.CapYieldsReleaseData,
		matches: []provider.Match{{ReleaseID: "r2", AlbumTitle: "Fallback"}},
	}

	cs := prelimCueSheet(t, 1)
	b := NewCueSheetBuilder(cs, 10000, Options{
		Providers: []provider.Provider{p1, p2},
		Policy:    CombineAny,
	})
	require.NoError(t, b.Run())
	require.True(t, p1.cleared)
	require.Equal(t, "Fallback", b.GetCueSheet().Title)
	require.Len(t, b.Faults(), 1)
}

func TestAggregatorDiscNumberOnlyMaterializedForMultiDisc(t *testing.T) {
	p1 := &fakeProvider{
		id:      provider.IDPrimary,
		caps:    provider.CapQueryByDisc | provider.CapYieldsReleaseData,
		matches: []provider.Match{{ReleaseID: "r1", AlbumTitle: "T", DiscNumber: 2, TotalDiscs: 1}},
	}
	cs := prelimCueSheet(t, 1)
	b := NewCueSheetBuilder(cs, 10000, Options{
		Providers:   []provider.Provider{p1},
		Policy:      CombineAny,
		RemWishList: []types.RemFieldKind{types.RemDISC, types.RemDISCS},
	})
	require.NoError(t, b.Run())
	require.Empty(t, b.GetCueSheet().Rems)
}
