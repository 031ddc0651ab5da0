// Package hyphenation implements pattern- and script-aware word
// hyphenation: given a word's codepoints, it produces a parallel array of
// HyphenationType values describing where and how a line may break inside
// the word.
package hyphenation

import "github.com/go-text/typesetting/language"

// HyphenationType is the closed set of ways a single inter-codepoint
// position within a word may break, per spec.md §3.
type HyphenationType uint8

const (
	DontBreak HyphenationType = iota
	BreakAndDontInsertHyphen
	BreakAndInsertHyphen
	BreakAndInsertArmenianHyphen
	BreakAndInsertMaqaf
	BreakAndInsertUCASHyphen
	BreakAndInsertHyphenAtNextLine
	BreakAndReplaceWithHyphen
	BreakAndInsertHyphenAndZWJ
)

// StartHyphenEdit / EndHyphenEdit describe how the start of the next line
// or the end of the current line must be visually modified to render a
// soft break, per spec.md §3 "HyphenEdit".
type StartHyphenEdit uint8
type EndHyphenEdit uint8

const (
	StartEditNone StartHyphenEdit = iota
	StartEditInsertHyphen
	StartEditInsertArmenianHyphen
	StartEditInsertMaqaf
	StartEditInsertUCASHyphen
)

const (
	EndEditNone EndHyphenEdit = iota
	EndEditInsertHyphen
	EndEditReplaceWithHyphen
	EndEditInsertHyphenAndZWJ
	EndEditInsertArmenianHyphen
	EndEditInsertMaqaf
	EndEditInsertUCASHyphen
)

// EditForThisLine returns the end-of-line edit implied by t, applied to the
// line ending at the break.
func EditForThisLine(t HyphenationType) EndHyphenEdit {
	switch t {
	case BreakAndInsertHyphen, BreakAndInsertHyphenAtNextLine:
		return EndEditInsertHyphen
	case BreakAndReplaceWithHyphen:
		return EndEditReplaceWithHyphen
	case BreakAndInsertHyphenAndZWJ:
		return EndEditInsertHyphenAndZWJ
	case BreakAndInsertArmenianHyphen:
		return EndEditInsertArmenianHyphen
	case BreakAndInsertMaqaf:
		return EndEditInsertMaqaf
	case BreakAndInsertUCASHyphen:
		return EndEditInsertUCASHyphen
	default:
		return EndEditNone
	}
}

// EditForNextLine returns the start-of-next-line edit implied by t.
func EditForNextLine(t HyphenationType) StartHyphenEdit {
	switch t {
	case BreakAndInsertHyphenAtNextLine:
		return StartEditInsertHyphen
	default:
		return StartEditNone
	}
}

// Hyphenator hyphenates words of a single detected script according to the
// spec.md §4.4 rule table. The zero value is not usable; build one with
// NewHyphenator.
type Hyphenator struct {
	minPrefix int
	minSuffix int
	patterns  map[string][]int
}

// Options configures a Hyphenator.
type Options struct {
	MinPrefix int
	MinSuffix int
	// Patterns overrides the default pattern dictionary. Nil uses the
	// built-in en-US subset.
	Patterns map[string][]int
}

// NewHyphenator builds a Hyphenator. Defaults: minPrefix=1, minSuffix=2,
// matching the worked en-US example in spec.md §8 ("table" -> "tab-le").
func NewHyphenator(opts Options) *Hyphenator {
	h := &Hyphenator{minPrefix: opts.MinPrefix, minSuffix: opts.MinSuffix, patterns: opts.Patterns}
	if h.minPrefix == 0 {
		h.minPrefix = 1
	}
	if h.minSuffix == 0 {
		h.minSuffix = 2
	}
	if h.patterns == nil {
		h.patterns = enUSPatterns
	}
	return h
}

// Hyphenate returns one HyphenationType per codepoint of word, per spec.md
// §4.4 and §8's "Hyphenation bound" / "Hyphenator round-trip" invariants.
func (h *Hyphenator) Hyphenate(word []rune, scr language.Script) []HyphenationType {
	out := make([]HyphenationType, len(word))
	if len(word) < h.minPrefix+h.minSuffix {
		return out
	}

	rule := scriptRuleFor(scr)

	for i, ch := range word {
		switch {
		case ch == softHyphen && i > 0 && i < len(word)-1:
			out[i] = softHyphenBreakType(rule)
		case (ch == hardHyphen || ch == hyphenMinus) && i > 0:
			if rule == ruleDefault && isPolishSlovenianHyphenRepeat(word, i) {
				out[i] = BreakAndInsertHyphenAtNextLine
			} else {
				out[i] = BreakAndDontInsertHyphen
			}
		case isMiddleDot(ch) && isCatalanGeminateContext(word, i):
			out[i] = BreakAndReplaceWithHyphen
		}
	}

	if rule == ruleDefault {
		h.applyAutomaticPatterns(word, out)
	}

	for i := 0; i < h.minPrefix && i < len(out); i++ {
		out[i] = DontBreak
	}
	for i := len(out) - h.minSuffix; i < len(out); i++ {
		if i >= 0 {
			out[i] = DontBreak
		}
	}
	return out
}

func softHyphenBreakType(rule scriptRule) HyphenationType {
	switch rule {
	case ruleArabicJoining:
		return BreakAndInsertHyphenAndZWJ
	case ruleHebrewMaqaf:
		return BreakAndInsertMaqaf
	case ruleArmenianHyphen:
		return BreakAndInsertArmenianHyphen
	case ruleUCASHyphen:
		return BreakAndInsertUCASHyphen
	case ruleNoVisibleHyphen:
		return BreakAndDontInsertHyphen
	default:
		return BreakAndInsertHyphen
	}
}

// isPolishSlovenianHyphenRepeat is a simplification: the real rule keys off
// the word's detected locale (pl/sl), not the script; callers needing that
// distinction should pass a Hyphenator configured with the Polish/Slovenian
// pattern set, which is outside the scope of the demo pattern table here.
func isPolishSlovenianHyphenRepeat(word []rune, at int) bool { return false }

func isMiddleDot(ch rune) bool {
	return ch == middleDot || ch == 0xA78F
}

// isCatalanGeminateContext reports whether the middle dot at index i sits
// between an 'l'/'L' on both sides (l·l / L·L), per spec.md §4.4.
func isCatalanGeminateContext(word []rune, i int) bool {
	if i <= 0 || i >= len(word)-1 {
		return false
	}
	before := toLowerRune(word[i-1])
	after := toLowerRune(word[i+1])
	return before == 'l' && after == 'l'
}

// applyAutomaticPatterns fills in BreakAndInsertHyphen at every position the
// Liang pattern dictionary marks as an odd-level gap, skipping positions
// already assigned a manual break above.
func (h *Hyphenator) applyAutomaticPatterns(word []rune, out []HyphenationType) {
	dotted := make([]rune, 0, len(word)+2)
	dotted = append(dotted, '.')
	dotted = append(dotted, word...)
	dotted = append(dotted, '.')

	levels := applyPatterns(dotted, h.patterns)
	// levels[g] is the gap immediately before dotted[g]; dotted[0] is the
	// leading '.' and dotted[k+1] == word[k], so the gap between word[k]
	// and word[k+1] (the break represented by out[k], "break after
	// codepoint k") is levels[k+2].
	for k := 0; k < len(word)-1; k++ {
		if out[k] != DontBreak {
			continue
		}
		if oddLevel(levels[k+2]) {
			out[k] = BreakAndInsertHyphen
		}
	}
}
