package provider

import "github.com/cuesmith/cuesmith/internal/types"

// base implements the bounds-checked parts of Provider (NMatches, Match,
// TrackMatch, Clear, SetPreferredSize) that every concrete provider
// shares verbatim; only the four Query* methods vary per capability.
type base struct {
	kind     ProviderId
	caps     CapabilitySet
	matches  []Match
	prefSize ImageSize
}

func newBase(kind ProviderId, caps CapabilitySet) base {
	return base{kind: kind, caps: caps}
}

func (b *base) Capabilities() CapabilitySet { return b.caps }
func (b *base) Kind() ProviderId            { return b.kind }

func (b *base) Clear() { b.matches = nil }

func (b *base) NMatches() int { return len(b.matches) }

func (b *base) Match(i int) (*Match, error) {
	if i < 0 || i >= len(b.matches) {
		return nil, &types.IndexOutOfRangeError{Index: i, Bound: len(b.matches)}
	}
	return &b.matches[i], nil
}

func (b *base) TrackMatch(i, trackNumber int) (*TrackMatch, error) {
	m, err := b.Match(i)
	if err != nil {
		return nil, err
	}
	if trackNumber < 1 || trackNumber > len(m.Tracks) {
		return nil, &types.IndexOutOfRangeError{Index: trackNumber, Bound: len(m.Tracks) + 1}
	}
	return &m.Tracks[trackNumber-1], nil
}

func (b *base) SetPreferredSize(width, height int) {
	px := width
	if height > px {
		px = height
	}
	b.prefSize = QuantizeImageSize(px)
}
