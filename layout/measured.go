package layout

import (
	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/internal/u16"
	"github.com/minikin-go/minikin/locale"
)

// HyphenBreak is a precomputed candidate break inside a word: its
// codeunit offset, the HyphenationType at that position, and the measured
// width of the piece before/after the break (with the appropriate hyphen
// glyph edit applied), per spec.md §4.8.
type HyphenBreak struct {
	Offset         int
	Type           hyphenation.HyphenationType
	FirstPartWidth float32
	SecondPartWidth float32
}

// LineMetrics summarizes one measured range's vertical extent and any
// piece whose ink bounds overshoot its advance box.
type LineMetrics struct {
	Extent      Extent
	HasOverhang bool
}

// MeasuredText is the per-codeunit measurement buffer line breaking
// consumes: widths, run metadata, and precomputed hyphenation breaks, per
// spec.md §4.8.
type MeasuredText struct {
	text    []rune
	runs    []Run
	widths  []float32
	extents []Extent
	bounds  []Extent // per-codeunit copy of the piece extent, only valid if computeBounds
	hasBounds bool

	hyphenBreaks map[int][]HyphenBreak // keyed by word start offset

	layout *Layout
	breaker WordBreaker
}

// BuildOptions controls which optional passes MeasuredText.Build performs,
// per spec.md §4.8's build(...) parameter list.
type BuildOptions struct {
	ComputeHyphenation bool
	ComputeFullLayout  bool
	ComputeBounds      bool
	IgnoreKerning      bool
	Hint               GlyphScoreHint
}

// Build measures every run's widths (and optionally bounds and hyphen
// break candidates) over the full text buffer, which runs must cover in
// order without gaps, per spec.md §4.8.
func Build(text []rune, runs []Run, cache *Cache, breaker WordBreaker, opts BuildOptions) *MeasuredText {
	if breaker == nil {
		breaker = NewWordBreaker()
	}
	mt := &MeasuredText{
		text:         text,
		runs:         runs,
		widths:       make([]float32, len(text)),
		extents:      make([]Extent, len(text)),
		hasBounds:    opts.ComputeBounds,
		hyphenBreaks: map[int][]HyphenBreak{},
		layout:       NewLayout(cache),
		breaker:      breaker,
	}
	if opts.ComputeBounds {
		mt.bounds = make([]Extent, len(text))
	}

	for _, run := range runs {
		r := run.Range()
		if sr, ok := run.(*StyleRun); ok {
			sr.Layouter = mt.layout
			if opts.IgnoreKerning {
				sr.Paint.DisableCache = true
			}
			if sr.Paint.Hint == nil {
				sr.Paint.Hint = opts.Hint
			}
		}
		mt.measureRun(run, r)
		if opts.ComputeHyphenation && run.CanHyphenate() {
			mt.computeHyphenBreaks(run, r)
		}
	}
	return mt
}

func (mt *MeasuredText) measureRun(run Run, r u16.Range) {
	out := make([]float32, r.Len())
	run.MeasureHyphenPiece(mt.text, r, hyphenation.StartEditNone, hyphenation.EndEditNone, out)
	copy(mt.widths[r.Start:r.End], out)

	if sr, ok := run.(*StyleRun); ok && mt.layout != nil {
		piece := mt.layout.shapePiece(mt.text, r, run.IsRTL(), sr.Paint, hyphenation.StartEditNone, hyphenation.EndEditNone)
		for i := r.Start; i < r.End; i++ {
			mt.extents[i] = piece.Extent
		}
		if mt.hasBounds {
			for i := r.Start; i < r.End; i++ {
				mt.bounds[i] = piece.Extent
			}
		}
	}
}

func (mt *MeasuredText) computeHyphenBreaks(run Run, r u16.Range) {
	hy := hyphenation.NewHyphenator(hyphenation.Options{})
	bounds := mt.breaker.Boundaries(mt.text, r, run.LineBreakWordStyle())
	start := r.Start
	for _, end := range bounds {
		if end <= start {
			start = end
			continue
		}
		word := mt.text[start:end]
		locales, _ := locale.Default.Get(run.LocaleListID())
		types := hy.Hyphenate(word, locales.Primary().Script())
		var breaks []HyphenBreak
		for i, ty := range types {
			if ty == hyphenation.DontBreak {
				continue
			}
			offset := start + i
			firstAdv := make([]float32, offset-start+1)
			run.MeasureHyphenPiece(mt.text, u16.Range{Start: start, End: offset + 1}, hyphenation.StartEditNone, hyphenation.EditForThisLine(ty), firstAdv)
			secondAdv := make([]float32, end-offset-1)
			run.MeasureHyphenPiece(mt.text, u16.Range{Start: offset + 1, End: end}, hyphenation.EditForNextLine(ty), hyphenation.EndEditNone, secondAdv)
			breaks = append(breaks, HyphenBreak{
				Offset:          offset,
				Type:            ty,
				FirstPartWidth:  sum(firstAdv),
				SecondPartWidth: sum(secondAdv),
			})
		}
		if len(breaks) > 0 {
			mt.hyphenBreaks[start] = breaks
		}
		start = end
	}
}

func sum(vs []float32) float32 {
	var s float32
	for _, v := range vs {
		s += v
	}
	return s
}

// Widths returns the per-codeunit advance array for the whole buffer.
func (mt *MeasuredText) Widths() []float32 { return mt.widths }

// Text returns the measured text buffer.
func (mt *MeasuredText) Text() []rune { return mt.text }

// Runs returns the styled/replacement runs covering the buffer, in order.
func (mt *MeasuredText) Runs() []Run { return mt.runs }

// HyphenBreaksForWord returns the precomputed hyphen-break candidates for
// the word starting at codeunit wordStart, or nil if none were computed or
// the word cannot hyphenate.
func (mt *MeasuredText) HyphenBreaksForWord(wordStart int) []HyphenBreak {
	return mt.hyphenBreaks[wordStart]
}

// GetExtent returns the union of every codeunit's vertical extent across r.
func (mt *MeasuredText) GetExtent(r u16.Range) Extent {
	var e Extent
	first := true
	for i := r.Start; i < r.End && i < len(mt.extents); i++ {
		if first {
			e = mt.extents[i]
			first = false
			continue
		}
		e = e.Union(mt.extents[i])
	}
	return e
}

// GetBounds returns the same union as GetExtent, but over the bounds array;
// only meaningful when BuildOptions.ComputeBounds was set. Build fills that
// array with the same piece extents as GetExtent's, not with ink bounds.
func (mt *MeasuredText) GetBounds(r u16.Range) (Extent, bool) {
	if !mt.hasBounds {
		return Extent{}, false
	}
	var e Extent
	first := true
	for i := r.Start; i < r.End && i < len(mt.bounds); i++ {
		if first {
			e = mt.bounds[i]
			first = false
			continue
		}
		e = e.Union(mt.bounds[i])
	}
	return e, true
}

// GetLineMetrics summarizes r's extent and whether any piece's ink bounds
// overshoot its advance box.
func (mt *MeasuredText) GetLineMetrics(r u16.Range) LineMetrics {
	return LineMetrics{Extent: mt.GetExtent(r), HasOverhang: mt.HasOverhang(r)}
}

// HasOverhang reports whether any codeunit in r has bounds that extend
// beyond its extent, per spec.md §4.8. Since Build stores each piece's
// extent as its bounds, this is false for any MeasuredText Build produced.
func (mt *MeasuredText) HasOverhang(r u16.Range) bool {
	if !mt.hasBounds {
		return false
	}
	for i := r.Start; i < r.End && i < len(mt.bounds); i++ {
		if mt.bounds[i].Ascent < mt.extents[i].Ascent || mt.bounds[i].Descent > mt.extents[i].Descent {
			return true
		}
	}
	return false
}

// BuildLayout rebuilds a Layout result over subrange, possibly reusing
// cached pieces from the shared LayoutCache, per spec.md §4.8. contextRange
// is accepted but not used: shaping sees only subrange.
func (mt *MeasuredText) BuildLayout(subrange, contextRange u16.Range, paint *MinikinPaint, startEdit hyphenation.StartHyphenEdit, endEdit hyphenation.EndHyphenEdit) *Result {
	_ = contextRange
	return mt.layout.DoLayout(mt.text, subrange, BidiDefaultLTR, paint, startEdit, endEdit, RunFlagWholeLine)
}
