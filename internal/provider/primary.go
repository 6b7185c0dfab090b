package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/cuesmith/cuesmith/internal/transport"
	"github.com/cuesmith/cuesmith/internal/types"
)

// mbTrack and mbRelease model the JSON schema of a MusicBrainz-style
// disc-lookup response. Parsing this wire format is a system boundary,
// not domain logic, so encoding/json is used directly; no library in the
// pack parses this particular schema (DESIGN.md).
//
// SubTracks models an index track's nested movements (e.g. a classical
// work split into parts that are listed under one CD track number): each
// entry becomes its own CueSheet track, titled per composeSubTrackTitles.
type mbTrack struct {
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Composer  string    `json:"composer"`
	ISRC      string    `json:"isrc"`
	Length    int       `json:"length"` // seconds
	SubTracks []mbTrack `json:"sub_tracks,omitempty"`
}

type mbDisc struct {
	Number int       `json:"number"`
	Tracks []mbTrack `json:"tracks"`
}

type mbRelease struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Artist        string            `json:"artist"`
	Composer      string            `json:"composer"`
	UPC           string            `json:"upc"`
	Label         string            `json:"label"`
	CatalogNumber string            `json:"catalog_number"`
	ASIN          string            `json:"asin"`
	Date          string            `json:"date"`
	Country       string            `json:"country"`
	Genre         string            `json:"genre"`
	TotalDiscs    int               `json:"total_discs"`
	Discs         []mbDisc          `json:"discs"`
	Relations     map[string]string `json:"relations"`
}

type mbDiscLookupResponse struct {
	Releases []mbRelease `json:"releases"`
}

// PrimaryProvider is the designated linkage hub: it is queried directly
// by disc id and its matches expose relation URLs other providers link
// off of.
type PrimaryProvider struct {
	base
	transport *transport.Transport
	baseURL   string
	timeout   time.Duration
}

// NewPrimaryProvider constructs the disc-direct primary provider, pointed
// at baseURL (e.g. a MusicBrainz-compatible disc-lookup endpoint).
func NewPrimaryProvider(tr *transport.Transport, baseURL string, timeout time.Duration) *PrimaryProvider {
	return &PrimaryProvider{
		base:      newBase(IDPrimary, CapQueryByDisc|CapYieldsReleaseData),
		transport: tr,
		baseURL:   baseURL,
		timeout:   timeout,
	}
}

func (p *PrimaryProvider) QueryByDisc(cs *types.CueSheet, lengthSectors int, upc string) (int, error) {
	p.matches = nil

	discID := FreedbDiscID(cs, lengthSectors)
	url := fmt.Sprintf("%s/discid/%s", p.baseURL, discID)
	params := map[string]string{}
	if upc != "" {
		params["upc"] = upc
	}

	resp, err := p.transport.Get(url, params, p.timeout)
	if err != nil {
		return 0, err
	}

	var parsed mbDiscLookupResponse
	if err := json.Unmarshal(resp.Content(), &parsed); err != nil {
		return 0, &types.DecodeError{Kind: types.Malformed, Err: err}
	}

	cdLengths := TrackLengthsSeconds(cs, lengthSectors)

	for _, rel := range parsed.Releases {
		disc, discNumber, ok := selectDisc(cdLengths, rel.Discs)
		if !ok {
			continue
		}

		m := Match{
			ReleaseID:     rel.ID,
			AlbumTitle:    rel.Title,
			AlbumArtist:   rel.Artist,
			AlbumComposer: rel.Composer,
			AlbumUPC:      rel.UPC,
			AlbumLabel:    rel.Label,
			AlbumCatNo:    rel.CatalogNumber,
			AlbumASIN:     rel.ASIN,
			Genre:         rel.Genre,
			Date:          rel.Date,
			Country:       rel.Country,
			DiscNumber:    discNumber,
			TotalDiscs:    rel.TotalDiscs,
			Relations:     rel.Relations,
		}
		for _, tr := range disc.Tracks {
			m.Tracks = append(m.Tracks, composeSubTrackTitles(tr)...)
		}
		p.matches = append(p.matches, m)
	}
	return len(p.matches), nil
}

// QueryLinked, SearchByUPC and SearchByArtistTitle are no-ops: the
// primary provider does not declare those capabilities, so the
// Aggregator never calls them for real work.
func (p *PrimaryProvider) QueryLinked(_ Provider, _ string) (int, error)        { return 0, nil }
func (p *PrimaryProvider) SearchByUPC(_, _ string) (int, error)                 { return 0, nil }
func (p *PrimaryProvider) SearchByArtistTitle(_, _, _ string) (int, error)      { return 0, nil }

// selectDisc handles a multi-disc release: for a release with D>1
// discs, pick the leftmost disc whose track-length sequence
// minimises the sum of squared differences to the CD's track lengths;
// discard the match if no disc has a matching track count. Track counts
// and lengths are compared against the leaf level (sub-tracks expanded),
// since those are what the drive actually reports as separate CD tracks.
func selectDisc(cdLengths []int, discs []mbDisc) (mbDisc, int, bool) {
	if len(discs) == 0 {
		return mbDisc{}, 0, false
	}
	if len(discs) == 1 {
		if len(discLeafLengths(discs[0].Tracks)) != len(cdLengths) {
			return mbDisc{}, 0, false
		}
		return discs[0], discs[0].Number, true
	}

	bestIdx := -1
	bestScore := -1
	for i, disc := range discs {
		lens := discLeafLengths(disc.Tracks)
		if len(lens) != len(cdLengths) {
			continue
		}
		score := 0
		for j, l := range lens {
			d := l - cdLengths[j]
			score += d * d
		}
		if bestIdx == -1 || score < bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	if bestIdx == -1 {
		return mbDisc{}, 0, false
	}
	return discs[bestIdx], discs[bestIdx].Number, true
}

// discLeafLengths flattens a disc's track list to one length per actual
// CD track, expanding any index track's sub-tracks in place.
func discLeafLengths(tracks []mbTrack) []int {
	lens := make([]int, 0, len(tracks))
	for _, tr := range tracks {
		if len(tr.SubTracks) == 0 {
			lens = append(lens, tr.Length)
			continue
		}
		for _, sub := range tr.SubTracks {
			lens = append(lens, sub.Length)
		}
	}
	return lens
}

// arabicNumeralRe and romanNumeralRe detect whether a sub-track title
// already carries its own movement number, in either notation.
var (
	arabicNumeralRe = regexp.MustCompile(`\d`)
	romanNumeralRe  = regexp.MustCompile(`(?i)\bM{0,4}(CM|CD|D?C{0,3})(XC|XL|L?X{0,3})(IX|IV|V?I{0,3})\b`)
)

func titleCarriesOwnIndex(title string) bool {
	if arabicNumeralRe.MatchString(title) {
		return true
	}
	// romanNumeralRe also matches the empty string at every word boundary,
	// so only a non-empty match counts as a numeral.
	for _, m := range romanNumeralRe.FindAllString(title, -1) {
		if m != "" {
			return true
		}
	}
	return false
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// composeSubTrackTitles expands one MusicBrainz-style track into the
// CueSheet tracks it represents. A plain track (no nested movements)
// passes through unchanged. An index track with exactly one sub-track
// is rendered using that sub-track's own title alone — there's nothing
// to disambiguate. An index track with several sub-tracks renders each
// as "parent-title: [n]. sub-title", except sub-titles that already
// carry an Arabic or Roman movement number, which drop the "[n]".
func composeSubTrackTitles(tr mbTrack) []TrackMatch {
	if len(tr.SubTracks) == 0 {
		return []TrackMatch{{
			Title:    tr.Title,
			Artist:   tr.Artist,
			Composer: tr.Composer,
			ISRC:     tr.ISRC,
			Length:   tr.Length,
		}}
	}
	if len(tr.SubTracks) == 1 {
		sub := tr.SubTracks[0]
		return []TrackMatch{{
			Title:    coalesce(sub.Title, tr.Title),
			Artist:   coalesce(sub.Artist, tr.Artist),
			Composer: coalesce(sub.Composer, tr.Composer),
			ISRC:     sub.ISRC,
			Length:   sub.Length,
		}}
	}

	out := make([]TrackMatch, 0, len(tr.SubTracks))
	for i, sub := range tr.SubTracks {
		var title string
		if titleCarriesOwnIndex(sub.Title) {
			title = fmt.Sprintf("%s: %s", tr.Title, sub.Title)
		} else {
			title = fmt.Sprintf("%s: [%d]. %s", tr.Title, i+1, sub.Title)
		}
		out = append(out, TrackMatch{
			Title:    title,
			Artist:   coalesce(sub.Artist, tr.Artist),
			Composer: coalesce(sub.Composer, tr.Composer),
			ISRC:     sub.ISRC,
			Length:   sub.Length,
		})
	}
	return out
}
