// Package layout implements shaping-driven text layout: per-piece glyph
// shaping (LayoutPiece), paragraph/run orchestration with BiDi resolution
// and letter-spacing edge trimming (Layout), a bounded LRU shape cache, and
// the per-codeunit measurement buffer consumed by line breaking
// (MeasuredText).
package layout

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/minikin-go/minikin/font"
	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/internal/hasher"
	"github.com/minikin-go/minikin/internal/u16"
	"github.com/minikin-go/minikin/locale"
)

// FamilyVariant mirrors font.FamilyVariant at the paint layer (kept as its
// own type so layout doesn't need to import font for this one enum at
// every call site that only cares about variant selection).
type FamilyVariant = font.FamilyVariant

// GlyphScoreHint re-exports font.FontCollection's itemization hint so
// callers of this package don't need to import font just to pass one
// through Build or MinikinPaint.
type GlyphScoreHint = font.GlyphScoreHint

// MinikinPaint is the styling bundle attached to a StyleRun: everything
// that affects shaping output or the LayoutCache key, per spec.md §3.
type MinikinPaint struct {
	Collection           *font.FontCollection
	Size                  float32
	ScaleX                float32
	SkewX                 float32
	LetterSpacing         float32 // em fraction
	WordSpacing           float32 // px
	LocaleListID          locale.ID
	Style                 font.FontStyle
	Variant               FamilyVariant
	FontFeatureSettings   string
	FontVariationSettings []font.FontVariation
	// FakedFontOverride lets a caller pin a specific FakedFont (e.g. when
	// re-shaping with a forced fallback), bypassing itemization.
	FakedFontOverride *font.FakedFont
	// Hint disambiguates color-emoji family ties during itemization; if nil,
	// shapePiece falls back to font.TagSequenceGlyphHint{}.
	Hint GlyphScoreHint
	// DisableCache marks paints whose feature set (e.g. inter-character
	// justification) cannot be safely cache-keyed; such paints always
	// shape directly rather than consulting the LayoutCache, per
	// spec.md §4.7.
	DisableCache bool
}

// hashInto folds every shaping-relevant field of p into h, for use as part
// of a LayoutCache key. Hash equality is structural across all fields, per
// spec.md §3 "MinikinPaint".
func (p *MinikinPaint) hashInto(h *hasher.Hasher) {
	h.UpdateFloat32(p.Size)
	h.UpdateFloat32(p.ScaleX)
	h.UpdateFloat32(p.SkewX)
	h.UpdateFloat32(p.LetterSpacing)
	h.UpdateFloat32(p.WordSpacing)
	h.Update(uint32(p.LocaleListID))
	h.Update(uint32(p.Style.Weight))
	h.Update(uint32(p.Style.Slant))
	h.Update(uint32(p.Variant))
	h.UpdateString(p.FontFeatureSettings)
	for _, v := range p.FontVariationSettings {
		h.Update(uint32(v.Tag))
		h.UpdateFloat32(v.Value)
	}
}

// LineBreakWordStyle selects how aggressively the word breaker groups
// codepoints into breakable units, per the "Word breaker" contract in
// spec.md §6.
type LineBreakWordStyle uint8

const (
	LineBreakWordStyleNone LineBreakWordStyle = iota
	LineBreakWordStylePhrase
	LineBreakWordStyleAuto
)

// Run is the polymorphic per-span capability set MeasuredText and the line
// breakers consult, per spec.md §3 "Run (polymorphic)".
type Run interface {
	Range() u16.Range
	IsRTL() bool
	CanBreak() bool
	CanHyphenate() bool
	LineBreakStyle() LineBreakWordStyle
	LineBreakWordStyle() LineBreakWordStyle
	LocaleListID() locale.ID
	LetterSpacingInPx() float32
	// MeasureHyphenPiece measures text[subrange] with the given hyphen
	// edits applied at its boundaries, writing one advance per codeunit of
	// subrange into outAdvances (len(outAdvances) == subrange.Len()).
	MeasureHyphenPiece(text []rune, subrange u16.Range, startEdit hyphenation.StartHyphenEdit, endEdit hyphenation.EndHyphenEdit, outAdvances []float32) float32
}

// StyleRun is a maximal span of text sharing one MinikinPaint.
type StyleRun struct {
	Range_      u16.Range
	RTL         bool
	Paint       *MinikinPaint
	BreakStyle  LineBreakWordStyle
	WordStyle   LineBreakWordStyle
	Hyphenatable bool
	Layouter    *Layout // set by Build; used for measurement
}

func (r *StyleRun) Range() u16.Range                  { return r.Range_ }
func (r *StyleRun) IsRTL() bool                        { return r.RTL }
func (r *StyleRun) CanBreak() bool                     { return true }
func (r *StyleRun) CanHyphenate() bool                 { return r.Hyphenatable }
func (r *StyleRun) LineBreakStyle() LineBreakWordStyle { return r.BreakStyle }
func (r *StyleRun) LineBreakWordStyle() LineBreakWordStyle { return r.WordStyle }
func (r *StyleRun) LocaleListID() locale.ID            { return r.Paint.LocaleListID }
func (r *StyleRun) LetterSpacingInPx() float32 {
	return r.Paint.LetterSpacing * r.Paint.Size * r.Paint.ScaleX
}

// MeasureHyphenPiece shapes text[subrange] (with hyphen edits applied at
// its boundaries) via the owning Layout, writing per-codeunit advances.
func (r *StyleRun) MeasureHyphenPiece(text []rune, subrange u16.Range, startEdit hyphenation.StartHyphenEdit, endEdit hyphenation.EndHyphenEdit, outAdvances []float32) float32 {
	if r.Layouter == nil {
		return 0
	}
	piece := r.Layouter.shapePiece(text, subrange, r.RTL, r.Paint, startEdit, endEdit)
	copy(outAdvances, piece.Advances)
	return piece.Advance
}

// ReplacementRun is a fixed-width span (e.g. an inline image or embedded
// object): its entire width is attributed to the first codeunit of its
// range, and it never breaks or hyphenates mid-run.
type ReplacementRun struct {
	Range_ u16.Range
	RTL    bool
	Width  float32
	Locale locale.ID
}

func (r *ReplacementRun) Range() u16.Range                      { return r.Range_ }
func (r *ReplacementRun) IsRTL() bool                            { return r.RTL }
func (r *ReplacementRun) CanBreak() bool                         { return false }
func (r *ReplacementRun) CanHyphenate() bool                     { return false }
func (r *ReplacementRun) LineBreakStyle() LineBreakWordStyle     { return LineBreakWordStyleNone }
func (r *ReplacementRun) LineBreakWordStyle() LineBreakWordStyle { return LineBreakWordStyleNone }
func (r *ReplacementRun) LocaleListID() locale.ID                { return r.Locale }
func (r *ReplacementRun) LetterSpacingInPx() float32             { return 0 }
func (r *ReplacementRun) MeasureHyphenPiece(text []rune, subrange u16.Range, startEdit hyphenation.StartHyphenEdit, endEdit hyphenation.EndHyphenEdit, outAdvances []float32) float32 {
	if len(outAdvances) > 0 {
		outAdvances[0] = r.Width
		for i := 1; i < len(outAdvances); i++ {
			outAdvances[i] = 0
		}
	}
	return r.Width
}

// BidiFlag selects the paragraph's base-direction resolution mode, per the
// "BiDi resolver" contract in spec.md §6.
type BidiFlag uint8

const (
	BidiLTR BidiFlag = iota
	BidiRTL
	BidiDefaultLTR
	BidiDefaultRTL
	BidiForceLTR
	BidiForceRTL
)

// bidiDefaultDirection maps a BidiFlag to the golang.org/x/text/unicode/bidi
// default direction used when the flag requests paragraph-level detection.
func (f BidiFlag) bidiDefaultDirection() bidi.Direction {
	switch f {
	case BidiRTL, BidiDefaultRTL, BidiForceRTL:
		return bidi.RightToLeft
	default:
		return bidi.LeftToRight
	}
}

func (f BidiFlag) isForced() bool { return f == BidiForceLTR || f == BidiForceRTL }
func (f BidiFlag) forcedRTL() bool { return f == BidiForceRTL }
