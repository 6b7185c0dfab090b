// Package provider implements the capability-typed metadata sources the
// Aggregator walks: a single Provider interface covers every source, with
// unsupported operations reduced to a capability check instead of a
// type-specific branch.
package provider

import (
	"github.com/cuesmith/cuesmith/internal/types"
)

// CapabilitySet is the bit-set describing which query shapes and accessor
// groups a Provider offers.
type CapabilitySet uint8

const (
	CapQueryByDisc CapabilitySet = 1 << iota
	CapLinkedFromPrimary
	CapSearchByUPC
	CapSearchByArtistTitle
	CapYieldsReleaseData
	CapYieldsCoverImages
)

// Has reports whether every bit in want is present in c.
func (c CapabilitySet) Has(want CapabilitySet) bool { return c&want == want }

// ProviderId names a Provider kind; it is also the vocabulary used by
// Config.General.DatabasePreferenceList.
type ProviderId string

const (
	IDPrimary ProviderId = "primary"
	IDHub     ProviderId = "hub"
	IDFreedb  ProviderId = "freedb-like"
	IDImages  ProviderId = "images"
)

// ImageSize is the quantised cover-art size bucket requested via
// SetPreferredSize.
type ImageSize uint8

const (
	ImageSmall  ImageSize = iota // <=75px
	ImageMedium                  // <=160px
	ImageLarge                   // <=252px
	ImageMega                    // anything larger
)

// QuantizeImageSize maps a requested pixel dimension to the nearest
// size bucket a cover-image provider understands.
func QuantizeImageSize(px int) ImageSize {
	switch {
	case px <= 75:
		return ImageSmall
	case px <= 160:
		return ImageMedium
	case px <= 252:
		return ImageLarge
	default:
		return ImageMega
	}
}

// TrackMatch is one track of a Match's release.
type TrackMatch struct {
	Title    string
	Artist   string
	Composer string
	ISRC     string
	Length   int // seconds
}

// Match is one candidate release a Provider has matched, grouping every
// field a release can carry (release id, album title, genre, per-track
// detail, relation URLs, cover-art bytes) into a single bounds-checked
// record rather than a dozen separate getters.
type Match struct {
	ReleaseID     string
	AlbumTitle    string
	AlbumArtist   string
	AlbumComposer string
	AlbumUPC      string
	AlbumLabel    string
	AlbumCatNo    string
	AlbumASIN     string
	Genre         string
	Date          string
	Country       string
	DiscNumber    int
	TotalDiscs    int
	Tracks        []TrackMatch

	// Relations holds relation_url(type) entries; populated only by the
	// primary provider.
	Relations map[string]string

	// Cover-image fields; populated only by yields-cover-images providers.
	HasFront   bool
	HasBack    bool
	FrontURL   string
	BackURL    string
	FrontBytes []byte
	BackBytes  []byte
}

// Provider is the uniform contract every metadata source implements.
type Provider interface {
	Capabilities() CapabilitySet
	Kind() ProviderId
	Clear()

	QueryByDisc(cs *types.CueSheet, lengthSectors int, upc string) (int, error)
	QueryLinked(primary Provider, upc string) (int, error)
	SearchByUPC(upc, narrowDown string) (int, error)
	SearchByArtistTitle(title, artist, narrowDown string) (int, error)

	NMatches() int
	Match(i int) (*Match, error)
	TrackMatch(i, trackNumber int) (*TrackMatch, error)

	SetPreferredSize(width, height int)
}
