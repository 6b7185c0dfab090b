// Package types holds the value types shared by every cuesmith component:
// the in-memory CueSheet record, its Tracks and Indexes, Artists and the
// REM-field wish list, plus the invariants each must satisfy.
package types

import (
	"fmt"
	"regexp"
)

var (
	catalogRe = regexp.MustCompile(`^[0-9]{13}$`)
	isrcRe    = regexp.MustCompile(`^[A-Z]{2}[A-Za-z0-9]{3}[0-9]{7}$`)
)

// FileType is the FILE line's audio encoding tag in a CDRWIN cue sheet.
type FileType uint8

const (
	FileTypeUnknown FileType = iota
	FileTypeBinaryLE
	FileTypeBinaryBE
	FileTypeAIFF
	FileTypeWAVE
	FileTypeMP3
)

func (t FileType) String() string {
	switch t {
	case FileTypeBinaryLE:
		return "BINARY"
	case FileTypeBinaryBE:
		return "MOTOROLA"
	case FileTypeAIFF:
		return "AIFF"
	case FileTypeWAVE:
		return "WAVE"
	case FileTypeMP3:
		return "MP3"
	default:
		return ""
	}
}

// ParseFileType accepts the bareword that follows FILE "<name>" in a cue
// sheet and returns the matching FileType.
func ParseFileType(s string) (FileType, bool) {
	switch s {
	case "BINARY":
		return FileTypeBinaryLE, true
	case "MOTOROLA":
		return FileTypeBinaryBE, true
	case "AIFF":
		return FileTypeAIFF, true
	case "WAVE":
		return FileTypeWAVE, true
	case "MP3":
		return FileTypeMP3, true
	default:
		return FileTypeUnknown, false
	}
}

// CueSheet is the canonical in-memory record assembled by the Aggregator
// from a Source's preliminary cue sheet, then merged with provider data.
type CueSheet struct {
	Catalog     string // empty, or exactly 13 decimal digits (MCN/UPC/EAN)
	CDTextPath  string
	FileName    string
	FileType    FileType
	Performer   string
	Songwriter  string
	Title       string
	Rems        []string // ordered "TAG value" strings
	Tracks      []*Track // ordered 1..N
}

// NewCueSheet returns an empty, valid CueSheet.
func NewCueSheet() *CueSheet {
	return &CueSheet{}
}

// SetCatalog validates and sets the 13-digit MCN. An empty string clears it.
func (c *CueSheet) SetCatalog(catalog string) error {
	if catalog != "" && !catalogRe.MatchString(catalog) {
		return fmt.Errorf("cuesheet: invalid catalog %q: must be empty or 13 digits", catalog)
	}
	c.Catalog = catalog
	return nil
}

// AddRem appends a free-form "TAG value" line, preserving request order.
func (c *CueSheet) AddRem(rem string) {
	c.Rems = append(c.Rems, rem)
}

// CompactRems removes every empty rem string in place, preserving order
// of the remaining entries.
func (c *CueSheet) CompactRems() {
	out := c.Rems[:0]
	for _, r := range c.Rems {
		if r != "" {
			out = append(out, r)
		}
	}
	c.Rems = out
}

// AddTrack appends a new Track numbered len(Tracks)+1, enforcing the
// strictly-increasing 1..N invariant and the N<=99 bound.
func (c *CueSheet) AddTrack(t *Track) error {
	next := len(c.Tracks) + 1
	if next > 99 {
		return fmt.Errorf("cuesheet: track count would exceed 99")
	}
	if t.Number != next {
		return fmt.Errorf("cuesheet: track number %d out of sequence, expected %d", t.Number, next)
	}
	c.Tracks = append(c.Tracks, t)
	return nil
}

// Track looks up a track by its 1-based number, or nil if out of range.
func (c *CueSheet) Track(number int) *Track {
	if number < 1 || number > len(c.Tracks) {
		return nil
	}
	return c.Tracks[number-1]
}

// Validate checks the CueSheet-level invariants plus every track's own
// invariants.
func (c *CueSheet) Validate() error {
	if c.Catalog != "" && !catalogRe.MatchString(c.Catalog) {
		return fmt.Errorf("cuesheet: invalid catalog %q", c.Catalog)
	}
	if len(c.Tracks) > 99 {
		return fmt.Errorf("cuesheet: %d tracks exceeds the 99-track limit", len(c.Tracks))
	}
	for i, t := range c.Tracks {
		if t.Number != i+1 {
			return fmt.Errorf("cuesheet: track sequence broken at position %d: number=%d", i, t.Number)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("cuesheet: track %d: %w", t.Number, err)
		}
	}
	return nil
}

// ValidateISRC reports whether s is empty or a well-formed ISRC.
func ValidateISRC(s string) error {
	if s != "" && !isrcRe.MatchString(s) {
		return fmt.Errorf("types: invalid ISRC %q", s)
	}
	return nil
}

// ValidateCatalog reports whether s is empty or a well-formed 13-digit MCN.
func ValidateCatalog(s string) error {
	if s != "" && !catalogRe.MatchString(s) {
		return fmt.Errorf("types: invalid catalog %q", s)
	}
	return nil
}
