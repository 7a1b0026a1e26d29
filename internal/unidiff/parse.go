package unidiff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// hunkHeaderRe matches "@@ -start[,count] +start[,count] @@" with anything after the trailing @@ tolerated (section headings are common).
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Parse scans diffText into a Diff.
//
// Scanning rules:
//   - a line beginning "@@" starts a new hunk; its header must parse or the whole parse fails with ErrMalformedHunk
//   - "---"/"+++" file-trailer lines are skipped
//   - "-" (but not "---") is a Removed line, "+" (but not "+++") is Added, a single leading space is Context
//   - any other line terminates line accumulation for the current hunk; a later "@@" may still start a new one (generators like to interleave prose)
//
// A diff with no hunks parses successfully as an empty Diff; rejecting that is the validator's job.
func Parse(diffText string) (Diff, error) {
	var d Diff
	var cur *Hunk
	accumulating := false

	for _, raw := range strings.Split(strings.ReplaceAll(diffText, "\r\n", "\n"), "\n") {
		switch {
		case strings.HasPrefix(raw, "@@"):
			m := hunkHeaderRe.FindStringSubmatch(raw)
			if m == nil {
				return Diff{}, fmt.Errorf("%w: bad header %q", ErrMalformedHunk, raw)
			}
			h := Hunk{
				OldStart: mustAtoi(m[1]),
				OldCount: atoiDefault(m[2], 1),
				NewStart: mustAtoi(m[3]),
				NewCount: atoiDefault(m[4], 1),
			}
			d.Hunks = append(d.Hunks, h)
			cur = &d.Hunks[len(d.Hunks)-1]
			accumulating = true

		case strings.HasPrefix(raw, "---"), strings.HasPrefix(raw, "+++"):
			// File trailers; carry no hunk content.

		case cur != nil && accumulating && strings.HasPrefix(raw, "-"):
			cur.Lines = append(cur.Lines, Line{Op: Removed, Text: raw[1:]})

		case cur != nil && accumulating && strings.HasPrefix(raw, "+"):
			cur.Lines = append(cur.Lines, Line{Op: Added, Text: raw[1:]})

		case cur != nil && accumulating && strings.HasPrefix(raw, " "):
			cur.Lines = append(cur.Lines, Line{Op: Context, Text: raw[1:]})

		default:
			// Blank lines, prose, fences: stop feeding the current hunk.
			accumulating = false
		}
	}
	return d, nil
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s) // guarded by the regexp: \d+ always parses
	return n
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
