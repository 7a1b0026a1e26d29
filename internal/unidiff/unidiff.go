// Package unidiff parses, validates, renders, and applies unified-diff patches against a single document.
//
// The package deals in the de facto standard wire format: "@@ -a,b +c,d @@" hunk headers, "+"/"-"/" " line prefixes, and optional "---"/"+++" file trailers. A
// parsed patch is held as an explicit structure (ordered Hunks of tagged Lines) rather than re-scanned raw text, so parsing, validation, and application are
// independently testable.
//
// Application prefers an external unified-diff facility (go-gitdiff) and falls back to a self-contained applier when the facility is unavailable or rejects the
// patch. Generator-produced patches are frequently sloppy — trailing garbage, prose around the hunks, off-by-one counts — so every malformed-input condition is an
// error value, never a panic.
package unidiff

import "errors"

// LineOp tags a hunk line.
type LineOp int

const (
	Context LineOp = iota
	Added
	Removed
)

// String returns the unified-diff prefix for the op.
func (op LineOp) String() string {
	switch op {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return " "
	}
}

// Line is one tagged line of a hunk. Text carries no line terminator.
type Line struct {
	Op   LineOp
	Text string
}

// Hunk is one contiguous change region. Starts are 1-based per the wire format; counts default to 1 when the header omits them.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Diff is a parsed unified diff.
//
// Invariant: Hunks are ordered by OldStart ascending and do not overlap in the original document's line space. The parser preserves hunk order as written;
// generator output violating the invariant surfaces as application errors, not corruption.
type Diff struct {
	Hunks []Hunk
}

// RemovedLines is the total count of Removed lines across all hunks.
func (d Diff) RemovedLines() int {
	n := 0
	for _, h := range d.Hunks {
		for _, ln := range h.Lines {
			if ln.Op == Removed {
				n++
			}
		}
	}
	return n
}

// AddedLines is the total count of Added lines across all hunks.
func (d Diff) AddedLines() int {
	n := 0
	for _, h := range d.Hunks {
		for _, ln := range h.Lines {
			if ln.Op == Added {
				n++
			}
		}
	}
	return n
}

// Patch-application error taxonomy. MalformedHunk and OutOfRange are terminal for a patch attempt; ToolUnavailable and ToolRejected are recovered internally by
// the fallback applier.
var (
	ErrMalformedHunk   = errors.New("unidiff: malformed hunk")
	ErrOutOfRange      = errors.New("unidiff: hunk cursor out of range")
	ErrToolUnavailable = errors.New("unidiff: patch tool unavailable")
	ErrToolRejected    = errors.New("unidiff: patch tool rejected patch")
)
