// Package linebreak implements the two line-breaking strategies consuming
// a layout.MeasuredText: GreedyLineBreaker (single-pass, word/hyphen/
// fallback/grapheme cascade) and OptimalLineBreaker (dynamic-programming
// minimization of a weighted penalty sum), per spec.md §4.9-4.10.
package linebreak

import (
	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/layout"
	"github.com/minikin-go/minikin/locale"
)

// BreakStrategy selects the line breaker's optimization goal.
type BreakStrategy uint8

const (
	StrategyGreedy BreakStrategy = iota
	StrategyHighQuality
	StrategyBalanced
)

// HyphenationFrequency controls how eagerly the breaker reaches for
// hyphenation candidates.
type HyphenationFrequency uint8

const (
	HyphenationNone HyphenationFrequency = iota
	HyphenationNormal
	HyphenationFull
)

// lbwAutoHeuristicsLineCount is the line-count threshold below which an
// Auto-resolved LineBreakWordStyle is worth retrying with Phrase forced,
// per spec.md §4.9 "Phrase-based retry". The original's defining constant
// was not present in the retrieved source excerpt; 2 is chosen so that a
// single-line paragraph (fewer than 2 lines) is the case that gets retried,
// since a phrase-aware re-break can plausibly still improve it (any longer
// paragraph has already proven phrase breaking unnecessary).
const lbwAutoHeuristicsLineCount = 2

// LineWidth supplies the available width for each line number, e.g. for
// first-line indents; GetAt clamps to the last configured value once line
// numbers exceed the configured slice, per spec.md §4.2 "LineWidth".
type LineWidth struct {
	Values []float32
}

// NewUniformLineWidth returns a LineWidth that is w on every line.
func NewUniformLineWidth(w float32) LineWidth { return LineWidth{Values: []float32{w}} }

// GetAt returns the width available to line n.
func (l LineWidth) GetAt(n int) float32 {
	if len(l.Values) == 0 {
		return 0
	}
	if n >= len(l.Values) {
		return l.Values[len(l.Values)-1]
	}
	return l.Values[n]
}

// GetMin returns the narrowest width across all configured lines.
func (l LineWidth) GetMin() float32 {
	if len(l.Values) == 0 {
		return 0
	}
	m := l.Values[0]
	for _, v := range l.Values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// TabStops maps a running advance to the next tab stop.
type TabStops struct {
	Stops   []float32
	Default float32 // spacing used past the last configured stop
}

// NextTab returns the smallest configured stop greater than advance, or
// the next multiple of Default past the last configured stop.
func (t TabStops) NextTab(advance float32) float32 {
	for _, s := range t.Stops {
		if s > advance {
			return s
		}
	}
	d := t.Default
	if d <= 0 {
		d = 1
	}
	base := float32(0)
	if len(t.Stops) > 0 {
		base = t.Stops[len(t.Stops)-1]
	}
	if advance < base {
		return base
	}
	n := float32(int((advance-base)/d) + 1)
	return base + n*d
}

const charTab = '\t'

func isLineEndSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', 0x2028, 0x2029:
		return true
	default:
		return false
	}
}

// Result is the line-by-line outcome of a break pass: break offsets, the
// width consumed by each line, per-line vertical extent/bounds, and a
// packed flag word (tab bit plus hyphen edit), per spec.md §4.9 "getResult".
type Result struct {
	BreakPoints []int
	Widths      []float32
	Ascents     []float32
	Descents    []float32
	Bounds      []layout.Extent
	Flags       []uint32
}

const tabBit = uint32(1) << 29

func packHyphenEdit(start hyphenation.StartHyphenEdit, end hyphenation.EndHyphenEdit) uint32 {
	return uint32(start)<<8 | uint32(end)
}

// resolveWordStyleAuto maps an Auto LineBreakWordStyle to a concrete style
// and reports whether a phrase-forced retry is worth attempting, per
// spec.md §4.9 "Phrase-based retry". force overrides the resolution to
// Phrase unconditionally (used by the retry pass itself).
func resolveWordStyleAuto(style layout.LineBreakWordStyle, locales locale.List, force bool) (layout.LineBreakWordStyle, bool) {
	if force {
		return layout.LineBreakWordStylePhrase, false
	}
	if style != layout.LineBreakWordStyleAuto {
		return style, false
	}
	if isPhraseFriendlyLocale(locales) {
		return layout.LineBreakWordStyleNone, true
	}
	return layout.LineBreakWordStyleNone, false
}

// isPhraseFriendlyLocale reports whether the primary locale's language is
// one where phrase-based (bunsetsu-like) word breaking materially improves
// line breaks over plain character-class breaking -- CJK languages, per
// spec.md §4.9's motivating use case.
func isPhraseFriendlyLocale(locales locale.List) bool {
	switch locales.Primary().LanguageBase() {
	case "ja", "zh", "ko":
		return true
	default:
		return false
	}
}
