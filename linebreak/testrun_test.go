package linebreak

import (
	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/internal/u16"
	"github.com/minikin-go/minikin/layout"
	"github.com/minikin-go/minikin/locale"
)

// constWidthRun is a minimal layout.Run fixture for exercising the line
// breakers without real font shaping: every codeunit advances by a fixed
// width, regardless of hyphen edits. It deliberately is not a *layout.StyleRun
// so MeasuredText.Build's shaping path (which needs a real FontCollection) is
// never reached -- only MeasureHyphenPiece-driven measurement is exercised,
// per layout.Run's documented polymorphic contract.
type constWidthRun struct {
	rng           u16.Range
	rtl           bool
	wordStyle     layout.LineBreakWordStyle
	hyphenatable  bool
	localeID      locale.ID
	letterSpacing float32
	charWidth     float32
}

func (r *constWidthRun) Range() u16.Range                      { return r.rng }
func (r *constWidthRun) IsRTL() bool                            { return r.rtl }
func (r *constWidthRun) CanBreak() bool                         { return true }
func (r *constWidthRun) CanHyphenate() bool                     { return r.hyphenatable }
func (r *constWidthRun) LineBreakStyle() layout.LineBreakWordStyle     { return r.wordStyle }
func (r *constWidthRun) LineBreakWordStyle() layout.LineBreakWordStyle { return r.wordStyle }
func (r *constWidthRun) LocaleListID() locale.ID                { return r.localeID }
func (r *constWidthRun) LetterSpacingInPx() float32             { return r.letterSpacing }

func (r *constWidthRun) MeasureHyphenPiece(text []rune, subrange u16.Range, startEdit hyphenation.StartHyphenEdit, endEdit hyphenation.EndHyphenEdit, outAdvances []float32) float32 {
	var sum float32
	for i := range outAdvances {
		outAdvances[i] = r.charWidth
		sum += r.charWidth
	}
	return sum
}

// breakPointsStrictlyIncreasingAndComplete validates spec.md §8's partition
// properties common to both breakers: offsets strictly increase and the
// final offset is exactly len(text).
func breakPointsStrictlyIncreasingAndComplete(bps []int, textLen int) (ok bool, reason string) {
	if len(bps) == 0 {
		return textLen == 0, "empty text should produce no break points"
	}
	prev := 0
	for i, bp := range bps {
		if bp <= prev {
			return false, "break points must strictly increase"
		}
		prev = bp
		_ = i
	}
	if bps[len(bps)-1] != textLen {
		return false, "last break point must equal the text length"
	}
	return true, ""
}
