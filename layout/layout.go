package layout

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/internal/u16"
)

// RunFlag selects which visual edges of a line get letter-spacing trimmed,
// per spec.md §4.6.
type RunFlag uint8

const (
	RunFlagNone RunFlag = iota
	RunFlagLeftEdge
	RunFlagRightEdge
	RunFlagWholeLine
)

// VisualRun is one maximal BiDi run: a codeunit range and its resolved
// direction, per the "BiDi resolver" contract in spec.md §6.
type VisualRun struct {
	Range u16.Range
	IsRTL bool
}

// Result is a fully laid-out span: the shaped pieces in order (their glyph
// arrays concatenated give the flattened glyphs), per-codeunit advances, and
// total advance, per spec.md §3 "Layout". It keeps no separate list of font
// runs.
type Result struct {
	Pieces       []*Piece
	Advances     []float32
	TotalAdvance float32
}

// Layout orchestrates BiDi resolution, cached per-piece shaping, and
// letter-spacing edge trimming over a styled run sequence, per spec.md §4.6.
// A Layout is single-owner (not safe for concurrent use by multiple
// goroutines on the same instance), per spec.md §5 "Threading model".
type Layout struct {
	Cache *Cache
}

// NewLayout builds a Layout backed by the given shared LayoutCache. cache
// may be nil, in which case every piece is shaped directly (equivalent to
// every paint setting DisableCache).
func NewLayout(cache *Cache) *Layout {
	return &Layout{Cache: cache}
}

// ResolveBidiRuns splits text[r] into visual runs according to flag, via
// golang.org/x/text/unicode/bidi, grounding the "BiDi resolver" contract.
func ResolveBidiRuns(text []rune, r u16.Range, flag BidiFlag) []VisualRun {
	sub := text[r.Start:r.End]
	if flag.isForced() {
		return []VisualRun{{Range: r, IsRTL: flag.forcedRTL()}}
	}
	var p bidi.Paragraph
	p.SetString(string(sub), bidi.DefaultDirection(flag.bidiDefaultDirection()))
	order, err := p.Order()
	if err != nil || order.NumRuns() == 0 {
		return []VisualRun{{Range: r, IsRTL: flag.bidiDefaultDirection() == bidi.RightToLeft}}
	}
	runs := make([]VisualRun, 0, order.NumRuns())
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		start, end := run.Pos()
		runs = append(runs, VisualRun{
			Range: u16.Range{Start: r.Start + start, End: r.Start + end},
			IsRTL: run.Direction() == bidi.RightToLeft,
		})
	}
	return runs
}

// DoLayout shapes text[r] under paint, resolving BiDi via flag, applying
// the given hyphen edits at the overall range's boundaries, and trimming
// letter-spacing at the edges selected by runFlag, per spec.md §4.6.
func (l *Layout) DoLayout(text []rune, r u16.Range, flag BidiFlag, paint *MinikinPaint, startEdit hyphenation.StartHyphenEdit, endEdit hyphenation.EndHyphenEdit, runFlag RunFlag) *Result {
	runs := ResolveBidiRuns(text, r, flag)
	res := &Result{Advances: make([]float32, r.Len())}

	for i, run := range runs {
		se, ee := hyphenation.StartEditNone, hyphenation.EndEditNone
		if i == 0 {
			se = startEdit
		}
		if i == len(runs)-1 {
			ee = endEdit
		}
		piece := l.doLayoutRunCached(text, run.Range, run.IsRTL, paint, se, ee)
		res.Pieces = append(res.Pieces, piece)
		res.TotalAdvance += piece.Advance
		base := run.Range.Start - r.Start
		for i, a := range piece.Advances {
			if base+i < len(res.Advances) {
				res.Advances[base+i] += a
			}
		}
	}

	applyWordSpacing(text, r, paint, res)
	trimLetterSpacingEdges(text, r, paint, res, runFlag)
	return res
}

// doLayoutRunCached splits run into word-boundary-delimited pieces (here
// treated as the whole run, since word-boundary splitting depends on the
// external word-breaker contract) and looks each up in the LayoutCache,
// per spec.md §4.6/§4.7.
func (l *Layout) doLayoutRunCached(text []rune, r u16.Range, isRTL bool, paint *MinikinPaint, startEdit hyphenation.StartHyphenEdit, endEdit hyphenation.EndHyphenEdit) *Piece {
	if paint.DisableCache || l.Cache == nil {
		return l.shapePiece(text, r, isRTL, paint, startEdit, endEdit)
	}
	key := CacheKey{
		Text:      string(text[r.Start:r.End]),
		IsRTL:     isRTL,
		StartEdit: startEdit,
		EndEdit:   endEdit,
	}
	key.PaintHash = hashPaint(paint)
	return l.Cache.GetOrCreate(key, func() *Piece {
		return l.shapePiece(text, r, isRTL, paint, startEdit, endEdit)
	})
}

// applyWordSpacing adds paint.WordSpacing to any piece covering exactly one
// codepoint that is a word space (U+0020), per spec.md §4.6.
func applyWordSpacing(text []rune, r u16.Range, paint *MinikinPaint, res *Result) {
	if paint.WordSpacing == 0 {
		return
	}
	base := 0
	for _, piece := range res.Pieces {
		if len(piece.Advances) == 1 && base < len(text) && text[r.Start+base] == ' ' {
			piece.Advances[0] += paint.WordSpacing
			piece.Advance += paint.WordSpacing
			if base < len(res.Advances) {
				res.Advances[base] += paint.WordSpacing
			}
			res.TotalAdvance += paint.WordSpacing
		}
		base += len(piece.Advances)
	}
}

// trimLetterSpacingEdges removes half of the run's letter-spacing from the
// leading and/or trailing non-control codepoint of the line, per runFlag,
// per spec.md §4.6 and the "Letter-spacing two-pass edges" design note.
func trimLetterSpacingEdges(text []rune, r u16.Range, paint *MinikinPaint, res *Result, flag RunFlag) {
	if flag == RunFlagNone || paint.LetterSpacing == 0 {
		return
	}
	half := paint.LetterSpacing * paint.Size * paint.ScaleX / 2
	if flag == RunFlagLeftEdge || flag == RunFlagWholeLine {
		for i := 0; i < r.Len(); i++ {
			if !isControlRune(text[r.Start+i]) {
				res.Advances[i] -= half
				res.TotalAdvance -= half
				break
			}
		}
	}
	if flag == RunFlagRightEdge || flag == RunFlagWholeLine {
		for i := r.Len() - 1; i >= 0; i-- {
			if !isControlRune(text[r.Start+i]) {
				res.Advances[i] -= half
				res.TotalAdvance -= half
				break
			}
		}
	}
}
