package unidiff

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/docmender/docmender/internal/lineending"
)

// Apply applies unified-diff text to a single document and returns the updated text.
//
// The primary path hands the patch to go-gitdiff. That facility is strict about headers and context, which is what we want when it works; when it cannot parse
// the patch, finds anything other than exactly one file, or fails to apply, the error maps to ErrToolRejected and the self-contained applier takes over. Errors
// from the fallback (ErrMalformedHunk, ErrOutOfRange) are final.
func Apply(originalText, diffText string) (string, error) {
	out, err := applyWithTool(originalText, diffText)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, ErrToolRejected) && !errors.Is(err, ErrToolUnavailable) {
		return "", err
	}
	return ApplyManual(originalText, diffText)
}

func applyWithTool(originalText, diffText string) (string, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(diffText))
	if err != nil {
		return "", fmt.Errorf("%w: parse: %v", ErrToolRejected, err)
	}
	if len(files) != 1 {
		return "", fmt.Errorf("%w: want exactly one file, got %d", ErrToolRejected, len(files))
	}
	var out bytes.Buffer
	if err := gitdiff.Apply(&out, strings.NewReader(originalText), files[0]); err != nil {
		return "", fmt.Errorf("%w: apply: %v", ErrToolRejected, err)
	}
	return out.String(), nil
}

// ApplyManual is the self-contained patch applier, used when no external patch facility can be trusted with the input.
//
// It parses diffText and applies each hunk against a mutable copy of the document's lines with a running cursor seeded from the hunk's OldStart (1-based on the
// wire, 0-based here): Context advances the cursor, Removed deletes the line at the cursor without advancing, Added inserts at the cursor and advances by one.
// When the document's endings are CRLF, inserted lines get a CRLF terminator so the result cannot end up with mixed endings mid-document.
func ApplyManual(originalText, diffText string) (string, error) {
	d, err := Parse(diffText)
	if err != nil {
		return "", err
	}
	style := lineending.Detect(originalText)
	lines, err := applyParsed(strings.Split(originalText, "\n"), d, style)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func applyParsed(lines []string, d Diff, style lineending.Style) ([]string, error) {
	result := make([]string, len(lines))
	copy(result, lines)

	for hi, h := range d.Hunks {
		cursor := h.OldStart - 1
		if cursor < 0 {
			return nil, fmt.Errorf("%w: hunk %d: old start %d", ErrOutOfRange, hi+1, h.OldStart)
		}
		for _, ln := range h.Lines {
			switch ln.Op {
			case Context:
				cursor++
			case Removed:
				if cursor >= len(result) {
					return nil, fmt.Errorf("%w: hunk %d: remove at %d of %d lines", ErrOutOfRange, hi+1, cursor, len(result))
				}
				result = append(result[:cursor], result[cursor+1:]...)
			case Added:
				if cursor > len(result) {
					return nil, fmt.Errorf("%w: hunk %d: insert at %d of %d lines", ErrOutOfRange, hi+1, cursor, len(result))
				}
				text := ln.Text
				if style == lineending.CRLF && !strings.HasSuffix(text, "\r") {
					text += "\r"
				}
				result = append(result[:cursor], append([]string{text}, result[cursor:]...)...)
				cursor++
			}
		}
	}
	return result, nil
}
