package locate

// Default margins for a context window, in lines. Tunable via configuration; these mirror the windows the tool has always used.
const (
	DefaultMarginBefore = 30
	DefaultMarginAfter  = 30
)

// Window is a bounded, read-only slice view over a document's lines.
//
// The bounds are the containment guarantee for windowed edits: whatever a generator returns is spliced back into [StartLine, EndLine) and nowhere else, so a
// rewrite outside the window is structurally impossible rather than merely discouraged.
type Window struct {
	StartLine int // inclusive, 0-based
	EndLine   int // exclusive; EndLine <= len(document lines)
	Lines     []string
}

// ExtractWindow carves the window around a located reference region. start is the match's starting document line and span is the reference's line count (the
// region the edit is expected to touch); before/after are margins in lines. Bounds are clamped to [0, len(docLines)].
func ExtractWindow(docLines []string, start, span, before, after int) Window {
	ws := start - before
	if ws < 0 {
		ws = 0
	}
	we := start + span + after
	if we > len(docLines) {
		we = len(docLines)
	}
	if we < ws {
		we = ws
	}
	return Window{StartLine: ws, EndLine: we, Lines: docLines[ws:we]}
}

// Splice replaces the window's range inside docLines with replacement, returning a new slice. Lines outside [StartLine, EndLine) are byte-identical to the input.
func (w Window) Splice(docLines, replacement []string) []string {
	out := make([]string, 0, len(docLines)-len(w.Lines)+len(replacement))
	out = append(out, docLines[:w.StartLine]...)
	out = append(out, replacement...)
	out = append(out, docLines[w.EndLine:]...)
	return out
}
