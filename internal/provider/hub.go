package provider

import (
	"strconv"

	lastfm_go "github.com/shkh/lastfm-go"

	"github.com/cuesmith/cuesmith/internal/types"
)

// HubProvider is a search-by-artist-title metadata source backed by the
// real last.fm API: it contributes genre (from top tags) and release
// date, and is never the primary linkage hub itself despite the config
// id "hub" — it sits second in the default preference list, after
// "primary".
type HubProvider struct {
	base
	api *lastfm_go.Api
}

// NewHubProvider wraps an already-constructed lastfm_go.Api so callers
// control key/secret provisioning and retry policy once, centrally.
func NewHubProvider(api *lastfm_go.Api) *HubProvider {
	return &HubProvider{
		base: newBase(IDHub, CapSearchByArtistTitle|CapYieldsReleaseData),
		api:  api,
	}
}

func (p *HubProvider) QueryByDisc(_ *types.CueSheet, _ int, _ string) (int, error) { return 0, nil }
func (p *HubProvider) QueryLinked(_ Provider, _ string) (int, error)               { return 0, nil }
func (p *HubProvider) SearchByUPC(_, _ string) (int, error)                        { return 0, nil }

func (p *HubProvider) SearchByArtistTitle(title, artist, narrowDown string) (int, error) {
	p.matches = nil

	args := map[string]interface{}{"album": title}
	if narrowDown != "" {
		args["album"] = narrowDown
	}
	result, err := p.api.Album.Search(args)
	if err != nil {
		if lastfmErr, ok := err.(*lastfm_go.LastfmError); ok {
			return 0, classifyLastfmError(lastfmErr)
		}
		return 0, &types.TransportError{Kind: types.TransportProtocol, Err: err}
	}

	for _, am := range result.AlbumMatches {
		if artist != "" && am.Artist != artist {
			continue
		}
		info, err := p.api.Album.GetInfo(map[string]interface{}{
			"artist": am.Artist,
			"album":  am.Name,
		})
		if err != nil {
			continue
		}

		m := Match{
			ReleaseID:   am.Id,
			AlbumTitle:  am.Name,
			AlbumArtist: am.Artist,
			Date:        info.ReleaseDate,
		}
		if len(info.TopTags) > 0 {
			m.Genre = info.TopTags[0].Name
		}
		for _, tr := range info.Tracks {
			length, _ := strconv.Atoi(tr.Duration)
			m.Tracks = append(m.Tracks, TrackMatch{
				Title:  tr.Name,
				Artist: tr.Artist.Name,
				Length: length,
			})
		}
		p.matches = append(p.matches, m)
	}
	return len(p.matches), nil
}

func classifyLastfmError(e *lastfm_go.LastfmError) error {
	switch e.Code {
	case 8, 16, 29: // operation failed / temporary error / rate limited
		return &types.TransportError{Kind: types.TransportRateLimited, Err: e}
	case 6, 7: // invalid parameter / no matches
		return &types.DecodeError{Kind: types.SchemaMismatch, Err: e}
	default:
		return &types.TransportError{Kind: types.TransportProtocol, Err: e}
	}
}
