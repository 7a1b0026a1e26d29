// Package locate finds the region of a document that a fuzzy reference passage is talking about.
//
// The reference text a change request carries is frequently not an exact substring of the document (whitespace drift, small rewordings, stale copies). Locate
// aligns the reference's lines against the document's lines and reports where the strongest contiguous overlap sits, so a bounded edit can be aimed at the right
// neighborhood.
package locate

// Match is the best-matching location of a reference passage inside a document.
//
// Confidence is the matched block's size relative to the reference's size, in [0,1]. A Match is ephemeral: callers consume it to carve a Window and discard it.
type Match struct {
	StartLine  int     // 0-based document line where the matched block starts
	Length     int     // number of contiguous matching lines
	Confidence float64 // Length / len(referenceLines)
}

// Locate returns the longest common contiguous block between refLines and docLines, expressed as a location in the document.
//
// This is a longest-matching-block alignment (the anchor step of a sequence matcher), not a full edit-distance alignment: cost is O(n*m) in lines, which is fine
// for the short passages change requests carry. Ties on block length are broken toward the lowest document index, so results are deterministic.
//
// ok is false when there is no common line at all (or either input is empty); callers must then fall back to whole-document strategies.
func Locate(docLines, refLines []string) (Match, bool) {
	if len(docLines) == 0 || len(refLines) == 0 {
		return Match{}, false
	}

	// lengths[j] is the length of the common suffix of refLines[:i+1] and docLines[:j+1] for the current i. Rolling row keeps this O(m) in space.
	lengths := make([]int, len(docLines))
	prev := make([]int, len(docLines))

	best := Match{StartLine: -1}
	for i := range refLines {
		lengths, prev = prev, lengths
		for j := range docLines {
			if refLines[i] != docLines[j] {
				lengths[j] = 0
				continue
			}
			n := 1
			if j > 0 {
				n += prev[j-1]
			}
			lengths[j] = n

			start := j - n + 1
			if n > best.Length || (n == best.Length && start < best.StartLine) {
				best.StartLine = start
				best.Length = n
			}
		}
	}

	if best.Length == 0 {
		return Match{}, false
	}
	best.Confidence = float64(best.Length) / float64(len(refLines))
	return best, true
}

// SimilarEnough reports whether m covers at least minRatio of the reference. The threshold is a product-level heuristic (historically 0.70) and is carried in
// configuration rather than hard-coded here.
func SimilarEnough(m Match, minRatio float64) bool {
	return m.Confidence >= minRatio
}
