package cuetext

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/cuesmith/cuesmith/internal/types"
)

// tokenize splits a line into whitespace-separated fields, treating a
// double-quoted run as a single field with the quotes stripped.
func tokenize(line string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' || r == '\t':
			if inQuotes {
				cur.WriteRune(r)
			} else {
				flush()
			}
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// Parse reads a strict CDRWIN-subset cue sheet back into a CueSheet, the
// counterpart to Render used to prove the two are a lossless round trip.
func Parse(text string) (*types.CueSheet, error) {
	cs := types.NewCueSheet()
	var cur *types.Track

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := tokenize(line)
		if len(tokens) == 0 {
			continue
		}
		directive := strings.ToUpper(tokens[0])
		rest := tokens[1:]

		switch directive {
		case "CATALOG":
			if len(rest) != 1 {
				return nil, parseErr(lineNo, "CATALOG requires exactly one argument")
			}
			if err := cs.SetCatalog(rest[0]); err != nil {
				return nil, parseErr(lineNo, err.Error())
			}
		case "FILE":
			if len(rest) != 2 {
				return nil, parseErr(lineNo, "FILE requires name and type")
			}
			cs.FileName = rest[0]
			ft, ok := types.ParseFileType(rest[1])
			if !ok {
				return nil, parseErr(lineNo, fmt.Sprintf("unknown FILE type %q", rest[1]))
			}
			cs.FileType = ft
		case "CDTEXTFILE":
			if len(rest) != 1 {
				return nil, parseErr(lineNo, "CDTEXTFILE requires one argument")
			}
			cs.CDTextPath = rest[0]
		case "TITLE":
			text := strings.Join(rest, " ")
			if cur != nil {
				cur.Title = text
			} else {
				cs.Title = text
			}
		case "PERFORMER":
			text := strings.Join(rest, " ")
			if cur != nil {
				cur.Performer = text
			} else {
				cs.Performer = text
			}
		case "SONGWRITER":
			text := strings.Join(rest, " ")
			if cur != nil {
				cur.Songwriter = text
			} else {
				cs.Songwriter = text
			}
		case "ISRC":
			if cur == nil {
				return nil, parseErr(lineNo, "ISRC outside of a TRACK")
			}
			if len(rest) != 1 {
				return nil, parseErr(lineNo, "ISRC requires one argument")
			}
			if err := cur.SetISRC(rest[0]); err != nil {
				return nil, parseErr(lineNo, err.Error())
			}
		case "REM":
			value := strings.Join(rest, " ")
			if cur != nil {
				cur.Rems = append(cur.Rems, value)
			} else {
				cs.Rems = append(cs.Rems, value)
			}
		case "FLAGS":
			if cur == nil {
				return nil, parseErr(lineNo, "FLAGS outside of a TRACK")
			}
			cur.Flags = parseFlags(rest)
		case "TRACK":
			if len(rest) != 2 {
				return nil, parseErr(lineNo, "TRACK requires number and type")
			}
			num, err := strconv.Atoi(rest[0])
			if err != nil {
				return nil, parseErr(lineNo, "bad TRACK number")
			}
			typ, ok := types.ParseTrackType(rest[1])
			if !ok {
				return nil, parseErr(lineNo, fmt.Sprintf("unknown TRACK type %q", rest[1]))
			}
			cur = types.NewTrack(num, typ)
			if err := cs.AddTrack(cur); err != nil {
				return nil, parseErr(lineNo, err.Error())
			}
		case "PREGAP":
			if cur == nil || len(rest) != 1 {
				return nil, parseErr(lineNo, "bad PREGAP")
			}
			sec, err := ParseTimestamp(rest[0])
			if err != nil {
				return nil, parseErr(lineNo, err.Error())
			}
			cur.Pregap = sec
		case "POSTGAP":
			if cur == nil || len(rest) != 1 {
				return nil, parseErr(lineNo, "bad POSTGAP")
			}
			sec, err := ParseTimestamp(rest[0])
			if err != nil {
				return nil, parseErr(lineNo, err.Error())
			}
			cur.Postgap = sec
		case "INDEX":
			if cur == nil || len(rest) != 2 {
				return nil, parseErr(lineNo, "bad INDEX")
			}
			num, err := strconv.Atoi(rest[0])
			if err != nil {
				return nil, parseErr(lineNo, "bad INDEX number")
			}
			sec, err := ParseTimestamp(rest[1])
			if err != nil {
				return nil, parseErr(lineNo, err.Error())
			}
			if err := cur.AddIndex(types.Index{Number: num, Time: sec}); err != nil {
				return nil, parseErr(lineNo, err.Error())
			}
		default:
			return nil, parseErr(lineNo, fmt.Sprintf("unknown directive %q", tokens[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := cs.Validate(); err != nil {
		return nil, fmt.Errorf("cuetext: parsed cuesheet is invalid: %w", err)
	}
	return cs, nil
}

func parseErr(line int, msg string) error {
	return fmt.Errorf("cuetext: line %d: %s", line, msg)
}

var flagBits = map[string]types.Flags{
	"DCP":  types.FlagDCP,
	"4CH":  types.Flag4CH,
	"PRE":  types.FlagPRE,
	"SCMS": types.FlagSCMS,
	"DATA": types.FlagDATA,
}

func parseFlags(tokens []string) types.Flags {
	var f types.Flags
	for _, tok := range tokens {
		f |= flagBits[strings.ToUpper(tok)]
	}
	return f
}
