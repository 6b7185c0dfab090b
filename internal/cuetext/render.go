package cuetext

import (
	"fmt"
	"strings"

	"github.com/cuesmith/cuesmith/internal/types"
)

// quoteIfNeeded double-quotes s when it contains whitespace (file names
// containing a space are double-quoted, otherwise bare), generalised to
// every free-text field so the Parse/Render round trip is lossless.
func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

// Render produces the CDRWIN cue-sheet text for a populated CueSheet.
func Render(cs *types.CueSheet) (string, error) {
	if err := cs.Validate(); err != nil {
		return "", fmt.Errorf("cuetext: cannot render invalid cuesheet: %w", err)
	}

	var b strings.Builder

	if cs.Catalog != "" {
		fmt.Fprintf(&b, "CATALOG %s\n", cs.Catalog)
	}
	if cs.FileName != "" {
		fmt.Fprintf(&b, "FILE %s %s\n", quoteIfNeeded(cs.FileName), cs.FileType.String())
	}
	if cs.CDTextPath != "" {
		fmt.Fprintf(&b, "CDTEXTFILE %s\n", quoteIfNeeded(cs.CDTextPath))
	}
	if cs.Title != "" {
		fmt.Fprintf(&b, "TITLE %s\n", quoteIfNeeded(cs.Title))
	}
	if cs.Performer != "" {
		fmt.Fprintf(&b, "PERFORMER %s\n", quoteIfNeeded(cs.Performer))
	}
	if cs.Songwriter != "" {
		fmt.Fprintf(&b, "SONGWRITER %s\n", quoteIfNeeded(cs.Songwriter))
	}
	for _, rem := range cs.Rems {
		fmt.Fprintf(&b, "REM %s\n", rem)
	}

	for _, t := range cs.Tracks {
		fmt.Fprintf(&b, "TRACK %02d %s\n", t.Number, t.Type.String())
		if t.Flags != 0 {
			fmt.Fprintf(&b, "  FLAGS %s\n", t.Flags.String())
		}
		if t.Title != "" {
			fmt.Fprintf(&b, "  TITLE %s\n", quoteIfNeeded(t.Title))
		}
		if t.Performer != "" {
			fmt.Fprintf(&b, "  PERFORMER %s\n", quoteIfNeeded(t.Performer))
		}
		if t.Songwriter != "" {
			fmt.Fprintf(&b, "  SONGWRITER %s\n", quoteIfNeeded(t.Songwriter))
		}
		if t.ISRC != "" {
			fmt.Fprintf(&b, "  ISRC %s\n", t.ISRC)
		}
		for _, rem := range t.Rems {
			fmt.Fprintf(&b, "  REM %s\n", rem)
		}
		if t.Pregap > 0 {
			fmt.Fprintf(&b, "  PREGAP %s\n", FormatTimestamp(t.Pregap))
		}
		for _, idx := range t.Indexes {
			fmt.Fprintf(&b, "  INDEX %02d %s\n", idx.Number, FormatTimestamp(idx.Time))
		}
		if t.Postgap > 0 {
			fmt.Fprintf(&b, "  POSTGAP %s\n", FormatTimestamp(t.Postgap))
		}
	}

	return b.String(), nil
}
