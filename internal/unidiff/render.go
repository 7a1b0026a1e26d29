package unidiff

import (
	"fmt"
	"strings"
)

// Render writes d back out as unified diff text. When fromName and toName are both non-empty, "--- "/"+++" trailers are emitted first; otherwise only hunks.
//
// Render(Parse(x)) is not byte-identical to x in general (prose and trailers are dropped), but Parse(Render(d)) reproduces d.
func Render(d Diff, fromName, toName string) string {
	var b strings.Builder
	if fromName != "" && toName != "" {
		fmt.Fprintf(&b, "--- %s\n", fromName)
		fmt.Fprintf(&b, "+++ %s\n", toName)
	}
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%s +%s @@\n", renderRange(h.OldStart, h.OldCount), renderRange(h.NewStart, h.NewCount))
		for _, ln := range h.Lines {
			b.WriteString(ln.Op.String())
			b.WriteString(ln.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
