package unidiff

import "strings"

// Reason enumerates why a generated diff was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	NoHunkHeader
	MultipleFileTrailers
	MetadataRemoval
	ExcessiveRemoval
)

func (r Reason) String() string {
	switch r {
	case NoHunkHeader:
		return "no hunk header"
	case MultipleFileTrailers:
		return "multiple file trailers"
	case MetadataRemoval:
		return "metadata removal"
	case ExcessiveRemoval:
		return "excessive removal"
	default:
		return "none"
	}
}

// Verdict is the validator's decision. Rejection is a safety gate, not an error: callers log the reason and move on.
type Verdict struct {
	OK     bool
	Reason Reason
}

func accepted() Verdict       { return Verdict{OK: true} }
func rejected(r Reason) Verdict { return Verdict{Reason: r} }

// Rules carries the validator's tunable knobs. The defaults are historical heuristics, preserved as configuration rather than constants baked into the checks.
type Rules struct {
	// MaxRemovedLines rejects diffs whose total Removed-line count exceeds it. A large removal count means the generator rewrote content instead of making a
	// targeted change.
	MaxRemovedLines int

	// ProtectedKeys are lowercase front-matter field prefixes that must never appear on a Removed line. Removing document metadata is never an acceptable
	// automated edit.
	ProtectedKeys []string
}

// DefaultRules returns the rules the tool has always shipped with.
func DefaultRules() Rules {
	return Rules{
		MaxRemovedLines: 10,
		ProtectedKeys:   []string{"title:", "author:", "description:", "ms.author:", "ms.date:"},
	}
}

// Validate inspects raw diff text for structural soundness and destructive-change heuristics before the patch is trusted.
//
// Checks run in a fixed order and the first trigger wins: NoHunkHeader, MultipleFileTrailers, MetadataRemoval, ExcessiveRemoval. The function is pure; it never
// touches the document the diff targets.
func Validate(diffText string, rules Rules) Verdict {
	lines := strings.Split(strings.ReplaceAll(diffText, "\r\n", "\n"), "\n")

	hasHunk := false
	trailers := 0
	removed := 0
	for _, ln := range lines {
		switch {
		case strings.HasPrefix(ln, "@@"):
			hasHunk = true
		case strings.HasPrefix(ln, "+++"):
			trailers++
		}
	}
	if !hasHunk {
		return rejected(NoHunkHeader)
	}
	if trailers > 1 {
		return rejected(MultipleFileTrailers)
	}

	for _, ln := range lines {
		if !strings.HasPrefix(ln, "-") || strings.HasPrefix(ln, "---") {
			continue
		}
		removedText := strings.ToLower(strings.TrimSpace(ln[1:]))
		for _, key := range rules.ProtectedKeys {
			if strings.Contains(removedText, key) {
				return rejected(MetadataRemoval)
			}
		}
		removed++
	}
	if removed > rules.MaxRemovedLines {
		return rejected(ExcessiveRemoval)
	}

	return accepted()
}
