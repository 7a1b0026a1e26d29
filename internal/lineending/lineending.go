// Package lineending detects and restores a document's line-ending style so the rest of the pipeline can work on LF-only text.
//
// All comparison and patching logic in this module assumes "\n" separators. Detect is called once per document, Normalize is applied to every piece of inbound
// text (document, reference, suggestion), and Restore is applied exactly once, to the final output.
package lineending

import "strings"

// Style is a document's line-ending convention.
type Style int

const (
	LF Style = iota
	CRLF
)

// String returns the conventional name of the style.
func (s Style) String() string {
	if s == CRLF {
		return "CRLF"
	}
	return "LF"
}

// Detect returns CRLF if text contains at least one "\r\n", else LF. Mixed-ending documents are treated as CRLF; exact round-tripping is only guaranteed for
// homogeneous inputs.
func Detect(text string) Style {
	if strings.Contains(text, "\r\n") {
		return CRLF
	}
	return LF
}

// Normalize replaces every "\r\n" with "\n". Normalizing already-normalized text is a no-op.
func Normalize(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// Restore converts LF-normalized text back to style. For LF it is the identity.
func Restore(text string, style Style) string {
	if style != CRLF {
		return text
	}
	return strings.ReplaceAll(text, "\n", "\r\n")
}

// Split splits LF-normalized text into lines without separators. Split("") is a single empty line, matching how the rest of the module counts lines.
func Split(text string) []string {
	return strings.Split(text, "\n")
}

// Join is the inverse of Split.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}
