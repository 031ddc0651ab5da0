package hyphenation

// Liang-style hyphenation patterns: each key is a plain letter sequence
// (the traditional TeX notation's digits stripped out and moved into the
// parallel value array), and the value gives the inter-letter "level" that
// applies wherever the key matches a substring of the dotted word, one
// level per gap between consecutive letters of key (len(value) ==
// len(key)+1, covering the gap before the first letter through the gap
// after the last).
//
// This is a small, hand-picked subset of the real English (en-US) Liang
// dictionary, not the full table — the binary pattern-file format itself is
// explicitly out of scope (spec.md §6 "CLI surfaces" / §4.4 "Automatic").
// "able" (written ab1le in TeX notation) is a genuine en-us pattern,
// applying to cable, table, and similar words. "exa" (written ex1a in TeX
// notation) is added to cover spec.md §8 scenario 2's worked "ex-ample"
// break point.
var enUSPatterns = map[string][]int{
	"able": {0, 0, 1, 0, 0}, // ab1le
	"tion": {1, 0, 0, 0, 0}, // 1tion
	"ing":  {0, 2, 0, 0},    // 2ing
	"ed":   {1, 0, 0},       // 1ed
	"exa":  {0, 0, 1, 0},    // ex1a
}

// oddLevel reports whether a Liang level value indicates a legal
// hyphenation point (odd levels break, even levels suppress a break
// introduced by a shorter, less specific pattern).
func oddLevel(v int) bool { return v%2 == 1 }

// applyPatterns computes, for a lowercase word (already bounded by '.' word
// markers at index 0 and len(word)-1), the per-gap maximum Liang level
// across every pattern matching some substring.
func applyPatterns(dotted []rune, patterns map[string][]int) []int {
	levels := make([]int, len(dotted)+1)
	for key, vals := range patterns {
		letters := []rune(key)
		n := len(letters)
		if n > len(dotted) {
			continue
		}
		for start := 0; start+n <= len(dotted); start++ {
			if !runesEqualFold(dotted[start:start+n], letters) {
				continue
			}
			for i, v := range vals {
				if gap := start + i; gap < len(levels) && v > levels[gap] {
					levels[gap] = v
				}
			}
		}
	}
	return levels
}

func runesEqualFold(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if toLowerRune(a[i]) != toLowerRune(b[i]) {
			return false
		}
	}
	return true
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}
