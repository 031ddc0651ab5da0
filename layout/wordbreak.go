package layout

import (
	"unicode"

	"github.com/minikin-go/minikin/internal/u16"
)

// WordBreaker is the locale-aware word-boundary iterator MeasuredText and
// the line breakers consume, per spec.md §6 "Word breaker (consumed)": a
// boundary offset stream plus breakBadness() for email/URL contexts and
// wordRange() for the word containing a position.
type WordBreaker interface {
	// Boundaries returns every word-break offset within text[r], in
	// ascending order, honoring style.
	Boundaries(text []rune, r u16.Range, style LineBreakWordStyle) []int
	// BreakBadness scores how undesirable breaking at offset is (e.g. mid
	// email-address or mid-URL); higher is worse. 0 means ordinary.
	BreakBadness(text []rune, offset int) int
	// WordRange returns the [start,end) span of the word containing offset.
	WordRange(text []rune, offset int) (start, end int)
}

// simpleWordBreaker is a Unicode-property word breaker: boundaries fall at
// whitespace and most punctuation transitions. It approximates UAX #29 word
// boundaries without the full locale-specific tailoring a production word
// breaker (e.g. ICU's RuleBasedBreakIterator, which the original consumes as
// an external collaborator per spec.md §6) would apply — no such breaker is
// available in this module's dependency corpus, so this stands in as the
// default implementation of the consumed WordBreaker contract. Its
// Boundaries ignores style: every LineBreakWordStyle yields the same
// boundaries.
type simpleWordBreaker struct{}

// NewWordBreaker returns the default WordBreaker.
func NewWordBreaker() WordBreaker { return simpleWordBreaker{} }

// isNonBreakingPunct reports punctuation that stays attached to its surrounding
// token rather than starting a break by itself: apostrophes and hyphens
// (contractions/compounds), plus '@', '.', '/' so email addresses and URLs
// stay intact as a single word for BreakBadness/WordRange to examine --
// a following space still produces an ordinary break after them.
func isNonBreakingPunct(r rune) bool {
	switch r {
	case '\'', '-', '@', '.', '/':
		return true
	default:
		return false
	}
}

func isBreakingRune(r rune) bool {
	return unicode.IsSpace(r) || (unicode.IsPunct(r) && !isNonBreakingPunct(r))
}

func (simpleWordBreaker) Boundaries(text []rune, r u16.Range, style LineBreakWordStyle) []int {
	var out []int
	inBreaker := false
	for i := r.Start; i < r.End; i++ {
		breaking := isBreakingRune(text[i])
		if breaking != inBreaker {
			out = append(out, i)
			inBreaker = breaking
		}
	}
	out = append(out, r.End)
	return out
}

func (simpleWordBreaker) BreakBadness(text []rune, offset int) int {
	start, end := simpleWordBreaker{}.WordRange(text, offset)
	word := text[start:end]
	hasAt, hasDot, hasSlash := false, false, false
	for _, ch := range word {
		switch ch {
		case '@':
			hasAt = true
		case '.':
			hasDot = true
		case '/':
			hasSlash = true
		}
	}
	switch {
	case hasAt && hasDot:
		return 2 // looks like an email address
	case hasSlash || (hasDot && len(word) > 4):
		return 1 // looks like a URL
	default:
		return 0
	}
}

func (simpleWordBreaker) WordRange(text []rune, offset int) (int, int) {
	start, end := offset, offset
	for start > 0 && !isBreakingRune(text[start-1]) {
		start--
	}
	for end < len(text) && !isBreakingRune(text[end]) {
		end++
	}
	return start, end
}
