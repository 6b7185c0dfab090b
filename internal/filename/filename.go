// Package filename implements a foobar2000/CUETools-style title-
// formatting grammar rendered against a populated cue sheet.
package filename

import (
	"strings"

	"github.com/cuesmith/cuesmith/internal/types"
)

// Context supplies the field values a template can reference. Disc and
// Discs are supplied by the caller (the Aggregator's DiscNumber/TotalDiscs,
// or the empty string when not applicable) rather than read off the
// cue sheet, since CueSheet carries them only as REM text once merged.
type Context struct {
	CS    *types.CueSheet
	Disc  string
	Discs string
}

// rem returns the value of REM <tag> <value>, case-insensitively, or ""
// if absent.
func (c *Context) rem(tag string) (string, bool) {
	tag = strings.ToUpper(tag)
	for _, r := range c.CS.Rems {
		fields := strings.SplitN(r, " ", 2)
		if len(fields) == 2 && strings.EqualFold(fields[0], tag) {
			return fields[1], true
		}
	}
	return "", false
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

func lastWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		return s[i+1:]
	}
	return s
}

// resolve looks up a field by its scheme name. ok is false only for a
// genuinely unknown name; an unknown name and a resolved-to-empty value
// are treated identically (both suppress an enclosing group), so callers
// generally only need the returned string.
func (c *Context) resolve(name string) (string, bool) {
	artist := func() string {
		if c.CS.Performer != "" {
			return c.CS.Performer
		}
		return c.CS.Songwriter
	}

	switch name {
	case "artist", "album artist":
		return artist(), true
	case "performer":
		return c.CS.Performer, true
	case "songwriter":
		return c.CS.Songwriter, true
	case "artist first":
		return firstWord(artist()), true
	case "artist lastname":
		return lastWord(artist()), true
	case "performer first":
		return firstWord(c.CS.Performer), true
	case "performer lastname":
		return lastWord(c.CS.Performer), true
	case "songwriter first":
		return firstWord(c.CS.Songwriter), true
	case "songwriter lastname":
		return lastWord(c.CS.Songwriter), true
	case "album":
		return c.CS.Title, true
	case "disc", "discnumber":
		return c.Disc, true
	case "discs", "totaldiscs":
		return c.Discs, true
	}
	if v, ok := c.rem(name); ok {
		return v, true
	}
	return "", false
}

// Render expands template against ctx, returning the formatted string or
// a *types.TemplateError pointing at the offending rune offset.
func Render(template string, ctx *Context) (string, error) {
	p := &parser{src: []rune(template)}
	nodes, err := p.parseSequence(nil)
	if err != nil {
		return "", err
	}
	if p.pos != len(p.src) {
		return "", p.errAt(p.pos, "unmatched closing bracket")
	}
	text, _, err := evalNodes(nodes, ctx)
	return text, err
}
