package types

import "strings"

// ArtistKind distinguishes a solo performer from a group, which affects
// Artist.LastName (a group has no surname). The filename formatter's
// "lastname" variables split the cue sheet's text fields and do not use it.
type ArtistKind uint8

const (
	ArtistUnknown ArtistKind = iota
	ArtistPerson
	ArtistGroup
)

// Artist is a single contributor plus the phrase used to join it with the
// artist that follows it when concatenating a multi-artist credit.
type Artist struct {
	Name   string
	Type   ArtistKind
	Joiner string // e.g. " & ", " feat. "
}

// JoinArtists concatenates a list of artists using each artist's Joiner
// field (the joiner of the last artist is never emitted).
func JoinArtists(artists []Artist) string {
	var b strings.Builder
	for i, a := range artists {
		b.WriteString(a.Name)
		if i < len(artists)-1 {
			if a.Joiner != "" {
				b.WriteString(a.Joiner)
			} else {
				b.WriteString(", ")
			}
		}
	}
	return b.String()
}

// LastName returns a's last space-separated word, or the full group name
// if a is not a person (matching the original generator's caveat that
// "lastname" should be used with caution on group names).
func (a Artist) LastName() string {
	if a.Type == ArtistGroup {
		return a.Name
	}
	fields := strings.Fields(a.Name)
	if len(fields) == 0 {
		return a.Name
	}
	return fields[len(fields)-1]
}
