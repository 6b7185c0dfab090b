package types

import "fmt"

// TrackType is the mode bareword that follows TRACK <NN> in a cue sheet.
type TrackType uint8

const (
	TrackTypeAudio TrackType = iota
	TrackTypeCDG
	TrackTypeMode1_2048
	TrackTypeMode1_2352
	TrackTypeMode2_2336
	TrackTypeMode2_2352
	TrackTypeCDI_2336
	TrackTypeCDI_2352
)

var trackTypeNames = map[TrackType]string{
	TrackTypeAudio:      "AUDIO",
	TrackTypeCDG:        "CDG",
	TrackTypeMode1_2048: "MODE1/2048",
	TrackTypeMode1_2352: "MODE1/2352",
	TrackTypeMode2_2336: "MODE2/2336",
	TrackTypeMode2_2352: "MODE2/2352",
	TrackTypeCDI_2336:   "CDI/2336",
	TrackTypeCDI_2352:   "CDI/2352",
}

func (t TrackType) String() string {
	if s, ok := trackTypeNames[t]; ok {
		return s
	}
	return "AUDIO"
}

// ParseTrackType accepts the bareword following TRACK <NN> and returns the
// matching TrackType.
func ParseTrackType(s string) (TrackType, bool) {
	for k, v := range trackTypeNames {
		if v == s {
			return k, true
		}
	}
	return TrackTypeAudio, false
}

// Flags is the track FLAGS bitset: DCP, 4CH, PRE, SCMS, DATA.
type Flags uint8

const (
	FlagDCP Flags = 1 << iota
	Flag4CH
	FlagPRE
	FlagSCMS
	FlagDATA
)

var flagOrder = []struct {
	bit  Flags
	name string
}{
	{FlagDCP, "DCP"},
	{Flag4CH, "4CH"},
	{FlagPRE, "PRE"},
	{FlagSCMS, "SCMS"},
	{FlagDATA, "DATA"},
}

// String renders the subset of set flags, space separated, in the fixed
// order the FLAGS line is conventionally written.
func (f Flags) String() string {
	var out string
	for _, fo := range flagOrder {
		if f&fo.bit != 0 {
			if out != "" {
				out += " "
			}
			out += fo.name
		}
	}
	return out
}

// Has reports whether every bit in want is set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Track is an ordered record keyed by Number in [1,99].
type Track struct {
	Number     int
	Type       TrackType
	Flags      Flags
	Title      string
	Performer  string
	Songwriter string
	ISRC       string
	Pregap     int // sectors
	Postgap    int // sectors
	Indexes    []Index
	Rems       []string
}

// NewTrack constructs a Track with the given 1-based number and type.
func NewTrack(number int, typ TrackType) *Track {
	return &Track{Number: number, Type: typ}
}

// SetISRC validates and sets the track ISRC; an empty string clears it.
func (t *Track) SetISRC(isrc string) error {
	if err := ValidateISRC(isrc); err != nil {
		return err
	}
	t.ISRC = isrc
	return nil
}

// AddIndex inserts an index keeping Indexes sorted and strictly increasing
// by Number, rejecting duplicates and out-of-range numbers.
func (t *Track) AddIndex(idx Index) error {
	if idx.Number < 0 || idx.Number > 99 {
		return fmt.Errorf("track %d: index number %d out of [0,99]", t.Number, idx.Number)
	}
	pos := len(t.Indexes)
	for i, existing := range t.Indexes {
		if existing.Number == idx.Number {
			return fmt.Errorf("track %d: duplicate index %d", t.Number, idx.Number)
		}
		if existing.Number > idx.Number {
			pos = i
			break
		}
	}
	t.Indexes = append(t.Indexes, Index{})
	copy(t.Indexes[pos+1:], t.Indexes[pos:])
	t.Indexes[pos] = idx
	return nil
}

// Index01 returns INDEX 01, the canonical track-start index, or nil if the
// track has not yet been populated by a Source.
func (t *Track) Index01() *Index {
	for i := range t.Indexes {
		if t.Indexes[i].Number == 1 {
			return &t.Indexes[i]
		}
	}
	return nil
}

// Validate checks the per-track invariants: track and index numbering
// and ISRC shape. Flag combinations are not checked.
func (t *Track) Validate() error {
	if t.Number < 1 || t.Number > 99 {
		return fmt.Errorf("track number %d out of [1,99]", t.Number)
	}
	if err := ValidateISRC(t.ISRC); err != nil {
		return err
	}
	last := -1
	for _, idx := range t.Indexes {
		if idx.Number < 0 || idx.Number > 99 {
			return fmt.Errorf("index number %d out of [0,99]", idx.Number)
		}
		if idx.Number <= last {
			return fmt.Errorf("indexes not strictly increasing: %d after %d", idx.Number, last)
		}
		last = idx.Number
	}
	return nil
}

// Index is the pair (Number, Time) measured in CD sectors. Number 0
// designates the pregap.
type Index struct {
	Number int
	Time   int // sectors, 75/sec
}
