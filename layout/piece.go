package layout

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/minikin-go/minikin/font"
	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/internal/u16"
	"github.com/minikin-go/minikin/locale"
)

// letterSpacingIncapableScripts lists scripts excluded from post-shaping
// inter-cluster letter spacing because it is known to break their shaping
// contracts (ligatures, reordering, contextual joining), per spec.md §4.5.
var letterSpacingIncapableScripts = map[string]bool{
	"Arab": true, "Nkoo": true, "Phlp": true, "Mand": true, "Mong": true,
	"Phag": true, "Deva": true, "Beng": true, "Guru": true, "Modi": true,
	"Shrd": true, "Sylo": true, "Tirh": true, "Ogam": true,
}

// Extent is a vertical metric pair: ascent is negative (above baseline),
// descent is positive (below baseline), matching the original's convention.
type Extent struct {
	Ascent, Descent float32
}

// Union extends e to cover o (max ascent magnitude, max descent magnitude).
func (e Extent) Union(o Extent) Extent {
	if o.Ascent < e.Ascent {
		e.Ascent = o.Ascent
	}
	if o.Descent > e.Descent {
		e.Descent = o.Descent
	}
	return e
}

// Piece is a shaped sub-run: deduplicated fonts, per-glyph font index /
// glyph id / pen position, per-codeunit advances, per-glyph cluster index,
// total advance, vertical extent, and cluster count, per spec.md §3
// "LayoutPiece".
type Piece struct {
	Fonts       []font.FakedFont
	FontIndices []uint8
	GlyphIDs    []uint32
	Points      [][2]float32
	Advances    []float32 // len == subrange length
	Clusters    []int     // len == len(GlyphIDs); codeunit index relative to subrange start
	Advance     float32
	Extent      Extent
	ClusterCount int
}

// memoryUsage estimates bytes held by the piece, used by LayoutCache's
// byte-budget eviction policy.
func (p *Piece) memoryUsage() int {
	return len(p.Fonts)*16 + len(p.FontIndices) + len(p.GlyphIDs)*4 +
		len(p.Points)*8 + len(p.Advances)*4 + len(p.Clusters)*8 + 32
}

// shapePiece shapes text[subrange] against paint, honoring isRTL and the
// given hyphen edits, per spec.md §4.5. It resolves one font for the whole
// sub-range (paint.FakedFontOverride, or else the family that
// paint.Collection.GetFamilyForChar picks for the first codepoint), shapes
// the whole sub-range as a single run with the HarfBuzz shaper under the
// one script scriptForRunes reports, and accumulates letter-spacing and
// advances. The sub-range is not itemized by font and not split by script.
func (l *Layout) shapePiece(text []rune, subrange u16.Range, isRTL bool, paint *MinikinPaint, startEdit hyphenation.StartHyphenEdit, endEdit hyphenation.EndHyphenEdit) *Piece {
	runeText := text[subrange.Start:subrange.End]
	piece := &Piece{Advances: make([]float32, len(runeText))}
	if len(runeText) == 0 {
		return piece
	}

	locales, _ := locale.Default.Get(paint.LocaleListID)
	var best font.FakedFont
	if paint.FakedFontOverride != nil {
		best = *paint.FakedFontOverride
	} else if paint.Collection != nil {
		hint := paint.Hint
		if hint == nil {
			hint = font.TagSequenceGlyphHint{}
		}
		if fb, ok := paint.Collection.GetFamilyForChar(runeText[0], 0, paint.Style, paint.Variant, locales, hint); ok {
			best = fb
		}
	}
	fontIdx := piece.internFont(best)

	dir := di.DirectionLTR
	if isRTL {
		dir = di.DirectionRTL
	}

	scr, _ := language.ParseScript(scriptForRunes(runeText))

	shaper := shaping.HarfbuzzShaper{}
	input := shaping.Input{
		Text:      runeText,
		RunStart:  0,
		RunEnd:    len(runeText),
		Direction: dir,
		Face:      best.Face(),
		Size:      fixed.I(1),
		Script:    scr,
		Language:  language.NewLanguage(locales.Primary().String()),
	}
	out := shaper.Shape(input)

	letterSpace := float32(0)
	if !letterSpacingIncapableScripts[scriptForRunes(runeText)] {
		letterSpace = paint.LetterSpacing * paint.Size * paint.ScaleX
	}

	pen := float32(0)
	prevCluster := -1
	seenClusters := map[int]bool{}
	for i, g := range out.Glyphs {
		cluster := int(g.ClusterIndex)
		if cluster != prevCluster {
			if prevCluster >= 0 && letterSpace > 0 && !isControlRune(runeText[prevCluster]) {
				pen += letterSpace / 2
			}
			if letterSpace > 0 && !isControlRune(runeText[cluster]) {
				pen += letterSpace / 2
			}
			prevCluster = cluster
			seenClusters[cluster] = true
		}
		adv := fixedToFloat(g.XAdvance)
		piece.GlyphIDs = append(piece.GlyphIDs, uint32(g.GlyphID))
		piece.FontIndices = append(piece.FontIndices, fontIdx)
		piece.Points = append(piece.Points, [2]float32{pen + fixedToFloat(g.XOffset), fixedToFloat(g.YOffset)})
		piece.Clusters = append(piece.Clusters, cluster)
		if cluster < len(piece.Advances) {
			piece.Advances[cluster] += adv
		}
		pen += adv
		_ = i
	}
	piece.Advance = pen
	piece.ClusterCount = len(seenClusters)
	piece.Extent = extentFromFace(best)

	applyHyphenEdits(piece, startEdit, endEdit)
	return piece
}

func (p *Piece) internFont(f font.FakedFont) uint8 {
	for i, existing := range p.Fonts {
		if existing.Font == f.Font && existing.Fakery == f.Fakery {
			return uint8(i)
		}
	}
	p.Fonts = append(p.Fonts, f)
	return uint8(len(p.Fonts) - 1)
}

func fixedToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }

// extentFromFace returns a fixed conservative vertical extent of 0.8 em
// ascent / 0.2 em descent; a host-provided per-glyph metrics callback (as
// the original's Layout.cpp uses) is out of scope without a concrete
// rasterizer to consult. The face's own metrics are not consulted.
func extentFromFace(f font.FakedFont) Extent {
	return Extent{Ascent: -0.8, Descent: 0.2}
}

func isControlRune(r rune) bool {
	return r < 0x20 || (r >= 0x7F && r <= 0x9F)
}

// scriptForRunes returns a four-letter ISO 15924 tag for a rune slice: the
// script of the first rune that falls in one of the blocks listed below, or
// "Latn" if none does. shapePiece uses it as the single shaping script of a
// piece.
func scriptForRunes(rs []rune) string {
	for _, r := range rs {
		switch {
		case r >= 0x0600 && r <= 0x06FF:
			return "Arab"
		case r >= 0x0590 && r <= 0x05FF:
			return "Hebr"
		case r >= 0x3040 && r <= 0x30FF:
			return "Hira"
		case r >= 0x4E00 && r <= 0x9FFF:
			return "Hani"
		case r >= 0x0400 && r <= 0x04FF:
			return "Cyrl"
		case r >= 0x0370 && r <= 0x03FF:
			return "Grek"
		}
	}
	return "Latn"
}

// applyHyphenEdits inserts a placeholder hyphen-glyph advance at the piece
// boundary implied by startEdit/endEdit, approximating
// original_source/libs/minikin/LayoutCore.cpp's addHyphenToHbBuffer: the
// actual hyphen glyph is resolved by the host shaper's font lookup in the
// original; here it is modeled as an additional advance contribution on the
// boundary codeunit, since this module does not rasterize glyphs itself.
func applyHyphenEdits(p *Piece, startEdit hyphenation.StartHyphenEdit, endEdit hyphenation.EndHyphenEdit) {
	const hyphenAdvanceEm = 0.5
	if startEdit != hyphenation.StartEditNone && len(p.Advances) > 0 {
		p.Advances[0] += hyphenAdvanceEm
		p.Advance += hyphenAdvanceEm
	}
	if endEdit != hyphenation.EndEditNone && len(p.Advances) > 0 {
		last := len(p.Advances) - 1
		p.Advances[last] += hyphenAdvanceEm
		p.Advance += hyphenAdvanceEm
	}
}
