// Package u16 provides a non-owning UTF-16-indexed text slice and a
// half-open integer interval, mirroring minikin's U16StringPiece and Range.
package u16

// Range is a half-open interval [Start, End) of codeunit or rune indices.
type Range struct {
	Start, End int
}

// Len returns the number of elements in the range.
func (r Range) Len() int { return r.End - r.Start }

// IsEmpty reports whether the range contains no elements.
func (r Range) IsEmpty() bool { return r.End <= r.Start }

// Contains reports whether i falls within the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Intersect returns the intersection of r and o. If the ranges do not
// overlap, the result is empty (Start == End == the larger of r.Start and
// o.Start).
func (r Range) Intersect(o Range) Range {
	start := max(r.Start, o.Start)
	end := min(r.End, o.End)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// StringPiece is a non-owning view over a buffer of UTF-16 code units
// (represented as runes here, since Go's shaping stack operates on runes
// rather than raw UTF-16 code units) restricted to a sub-Range.
type StringPiece struct {
	Buf   []rune
	Bound Range
}

// NewStringPiece returns a StringPiece over the whole buffer.
func NewStringPiece(buf []rune) StringPiece {
	return StringPiece{Buf: buf, Bound: Range{Start: 0, End: len(buf)}}
}

// Sub returns a new StringPiece over the given sub-range of codeunits,
// which must fall within p's current bound.
func (p StringPiece) Sub(r Range) StringPiece {
	return StringPiece{Buf: p.Buf, Bound: Range{Start: p.Bound.Start + r.Start, End: p.Bound.Start + r.End}}
}

// Runes returns the slice of runes covered by the bound.
func (p StringPiece) Runes() []rune {
	return p.Buf[p.Bound.Start:p.Bound.End]
}

// Len returns the number of codeunits in the bound.
func (p StringPiece) Len() int { return p.Bound.Len() }

// At returns the codeunit at position i relative to the start of the
// underlying buffer (not relative to Bound), matching the original's
// absolute indexing convention.
func (p StringPiece) At(i int) rune { return p.Buf[i] }
