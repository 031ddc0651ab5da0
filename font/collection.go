package font

import (
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/minikin-go/minikin/internal/bitset"
	"github.com/minikin-go/minikin/internal/diag"
	"github.com/minikin-go/minikin/internal/u16"
	"github.com/minikin-go/minikin/locale"
)

// maxFamilyCount is the hard cap on families in a single FontCollection: the
// per-page coverage index packs a family index into one byte, per
// original_source/libs/minikin/FontCollection.cpp.
const maxFamilyCount = 254

// maxFamilyVecLen is the cap on the flat family-index vector length; beyond
// this the per-page ranges could not be represented as 16-bit offsets.
const maxFamilyVecLen = 65535

// pageBits / pageSize: coverage is indexed in fixed-size codepoint pages to
// bound memory use for a sparse codepoint space, per FontCollection.cpp.
const (
	pageBits = 8
	pageSize = 1 << pageBits
)

// doesNotNeedFontSupport reports whether ch is a format character that
// should never force a run/font break by itself, exact list from
// original_source/libs/minikin/FontCollection.cpp.
func doesNotNeedFontSupport(ch rune) bool {
	switch {
	case ch == 0x00AD: // SOFT HYPHEN
		return true
	case ch == 0x034F: // COMBINING GRAPHEME JOINER
		return true
	case ch == 0x061C: // ARABIC LETTER MARK
		return true
	case ch >= 0x200C && ch <= 0x200F: // ZWNJ..RTL MARK (includes ZWJ, 0x200D)
		return true
	case ch >= 0x202A && ch <= 0x202E: // LRE..RLO
		return true
	case ch >= 0x2066 && ch <= 0x2069: // LRI..PDI
		return true
	case ch == 0xFEFF: // BOM
		return true
	case isVariationSelector(ch):
		return true
	default:
		return false
	}
}

func isVariationSelector(ch rune) bool {
	return (ch >= 0xFE00 && ch <= 0xFE0F) || (ch >= 0xE0100 && ch <= 0xE01EF)
}

// zwj is the ZERO WIDTH JOINER codepoint; it is filtered out by
// doesNotNeedFontSupport before the emoji-break-boundary decision runs, so
// the boundary rule only ever observes it as prevCh.
const zwj = 0x200D

// isRegionalIndicator reports whether ch is one of the 26 REGIONAL
// INDICATOR SYMBOL LETTER codepoints used to build flag-emoji pairs.
func isRegionalIndicator(ch rune) bool {
	return ch >= 0x1F1E6 && ch <= 0x1F1FF
}

// isEmojiModifier reports whether ch is an EMOJI MODIFIER (Fitzpatrick
// skin-tone modifier, U+1F3FB..U+1F3FF).
func isEmojiModifier(ch rune) bool {
	return ch >= 0x1F3FB && ch <= 0x1F3FF
}

// isEmojiKeycapOrTag reports whether ch is a keycap combiner or one of the
// tag-sequence codepoints used by subdivision-flag emoji.
func isEmojiKeycapOrTag(ch rune) bool {
	switch {
	case ch == 0x20E3: // COMBINING ENCLOSING KEYCAP
		return true
	case ch == 0xE0001: // LANGUAGE TAG (tag sequence start)
		return true
	case ch >= 0xE0020 && ch <= 0xE007F: // TAG characters, incl. CANCEL TAG
		return true
	default:
		return false
	}
}

// isEmojiPictographRange reports whether ch falls in one of the common
// emoji pictograph blocks. Used as the base-character approximation for the
// combining-mark/emoji-modifier run-migration workaround below; a precise
// Emoji_Modifier_Base property table is out of scope here.
func isEmojiPictographRange(ch rune) bool {
	switch {
	case ch >= 0x1F300 && ch <= 0x1F5FF:
		return true
	case ch >= 0x1F600 && ch <= 0x1F64F:
		return true
	case ch >= 0x1F680 && ch <= 0x1F6FF:
		return true
	case ch >= 0x1F900 && ch <= 0x1F9FF:
		return true
	default:
		return false
	}
}

// isEmojiBase approximates Emoji_Modifier_Base: a pictographic codepoint
// that can be followed by an emoji modifier.
func isEmojiBase(ch rune) bool {
	return isEmojiPictographRange(ch) && !isEmojiModifier(ch)
}

// isEmojiBreakBoundary reports whether the transition from prev to ch inside
// a color-emoji run must end the run, per FontCollection::itemize: break
// unless ch is an emoji modifier, or (prev, ch) are both regional
// indicators, or ch is a keycap/tag character, or prev == ZWJ (ch == ZWJ
// cannot reach here: doesNotNeedFontSupport filters it out beforehand).
func isEmojiBreakBoundary(prev, ch rune) bool {
	exception := isEmojiModifier(ch) ||
		(isRegionalIndicator(prev) && isRegionalIndicator(ch)) ||
		isEmojiKeycapOrTag(ch) ||
		prev == zwj
	return !exception
}

// stickyAllowlist is the exact set of codepoints that may continue a run on
// the current family (or any family covering the whole color-emoji run)
// rather than forcing a break, from FontCollection.cpp.
var stickyAllowlist = map[rune]bool{
	'!':    true,
	',':    true,
	'-':    true,
	'.':    true,
	':':    true,
	';':    true,
	'?':    true,
	0x00A0: true, // NBSP
	0x2010: true, // HYPHEN
	0x2011: true, // NB_HYPHEN
	0x202F: true, // NNBSP
	0x2640: true, // FEMALE SIGN
	0x2642: true, // MALE SIGN
	0x2695: true, // STAFF OF AESCULAPIUS
}

const (
	unsupportedFontScore = uint32(0)
	firstFontScore       = ^uint32(0)
)

// FontCollection is a priority-ordered list of FontFamily with a per-page
// coverage index for fallback lookup, per spec.md §4.3.
type FontCollection struct {
	families []*FontFamily
	// pages[pageIndex] lists, for that 256-codepoint page, the indices into
	// families that have at least one supported codepoint in the page,
	// ordered by descending priority (insertion order), mirroring the
	// original's Range-over-flat-vector layout collapsed to a simple slice
	// per page (Go has no packing pressure requiring the flat encoding).
	pages map[uint32][]int
	// maxCoverage is the union of all family coverage, used to fast-reject
	// codepoints nothing in the collection supports.
	maxCoverage bitset.SparseBitSet
}

// NewFontCollection builds a FontCollection from priority-ordered families
// (index 0 is highest priority / the "default" family), per
// FontCollection::FontCollection. family count is capped at maxFamilyCount;
// additional families are dropped from the page index (but still queryable
// by GetFamilyAt) since packing them would overflow the one-byte index.
func NewFontCollection(families []*FontFamily) *FontCollection {
	fc := &FontCollection{
		families: families,
		pages:    make(map[uint32][]int),
	}
	indexed := len(families)
	if indexed > maxFamilyCount {
		indexed = maxFamilyCount
	}
	vecLen := 0
	for i := 0; i < indexed; i++ {
		fam := families[i]
		cov := fam.Coverage()
		fc.maxCoverage.Union(cov)
		for page := range iteratePages(cov) {
			if vecLen >= maxFamilyVecLen {
				break
			}
			fc.pages[page] = append(fc.pages[page], i)
			vecLen++
		}
	}
	return fc
}

// iteratePages yields, in ascending order, every page index that has at
// least one set bit in cov.
func iteratePages(cov *bitset.SparseBitSet) []uint32 {
	var pages []uint32
	var cur uint32
	seen := map[uint32]bool{}
	for {
		v, ok := cov.NextSetBit(cur)
		if !ok {
			break
		}
		page := v / pageSize
		if !seen[page] {
			seen[page] = true
			pages = append(pages, page)
		}
		cur = (page + 1) * pageSize
	}
	return pages
}

// Families returns the collection's priority-ordered families.
func (fc *FontCollection) Families() []*FontFamily { return fc.families }

// GetFamilyAt returns the family at priority index i.
func (fc *FontCollection) GetFamilyAt(i int) *FontFamily { return fc.families[i] }

// ItemizeResult is one contiguous run produced by Itemize: a codeunit
// range sharing a single resolved FakedFont.
type ItemizeResult struct {
	Range u16.Range
	Font  FakedFont
}

// GlyphScoreHint lets callers disambiguate tag-sequence color-emoji lookups
// (e.g. flag sequences, ZWJ sequences) by reporting whether a font's glyph
// for a tag-sequence base character is the "plain" glyph or a penalized
// fallback rendering, per getGlyphScore/TAG_SEQUENCE_FALLBACK_PENALTY in
// FontCollection.cpp. A nil hint means no penalty is ever applied.
type GlyphScoreHint interface {
	IsFallbackTagSequenceGlyph(fam *FontFamily, ch, vs rune) bool
}

const tagSequenceFallbackPenalty = uint32(0x10000)

// TagSequenceGlyphHint is the default GlyphScoreHint: a non-color-emoji
// family is treated as producing a squashed placeholder glyph for a
// tag-sequence base character (regional indicator, keycap, or tag
// character), per the TAG_SEQUENCE_FALLBACK_PENALTY rationale in
// FontCollection.cpp's getGlyphScore.
type TagSequenceGlyphHint struct{}

func (TagSequenceGlyphHint) IsFallbackTagSequenceGlyph(fam *FontFamily, ch, vs rune) bool {
	if fam == nil {
		return false
	}
	if !isRegionalIndicator(ch) && !isEmojiKeycapOrTag(ch) {
		return false
	}
	return !fam.IsColorEmojiFamily()
}

// candidateFamilies scores every family's coverage of (ch, vs) against
// style, variant and locales and returns every family tied for the highest
// score, per FontCollection::getBestFont: ties are kept (rather than
// resolved here) so callers with a color-emoji tie set can disambiguate via
// GlyphScoreHint instead of losing the other candidates outright.
func (fc *FontCollection) candidateFamilies(ch, vs rune, style FontStyle, variant FamilyVariant, locales locale.List) []*FontFamily {
	bestScore := unsupportedFontScore
	var winners []*FontFamily
	for _, fam := range fc.families {
		score := fc.calcFamilyScore(fam, ch, vs, style, variant, locales)
		if score == unsupportedFontScore {
			continue
		}
		if score == firstFontScore {
			return []*FontFamily{fam}
		}
		switch {
		case len(winners) == 0 || score > bestScore:
			bestScore = score
			winners = winners[:0]
			winners = append(winners, fam)
		case score == bestScore:
			winners = append(winners, fam)
		}
	}
	return winners
}

// pickFromFamilySet resolves a tie set of candidate families to the single
// FakedFont to use, per FontCollection::getBestFont's glyph-score
// disambiguation: when the set has more than one family and the highest
// priority one is color-emoji, each candidate is scored via hint (standing
// in for the original's shaped-glyph-count comparison, since font doesn't
// depend on a shaper) and the lowest-penalty family wins ties.
func pickFromFamilySet(families []*FontFamily, ch, vs rune, style FontStyle, hint GlyphScoreHint) FakedFont {
	if len(families) == 0 {
		return FakedFont{}
	}
	best := families[0]
	if len(families) > 1 && hint != nil && best.IsColorEmojiFamily() {
		bestPenalty := glyphPenalty(hint, best, ch, vs)
		for _, fam := range families[1:] {
			if p := glyphPenalty(hint, fam, ch, vs); p < bestPenalty {
				best = fam
				bestPenalty = p
			}
		}
	}
	return best.GetClosestMatch(style)
}

func glyphPenalty(hint GlyphScoreHint, fam *FontFamily, ch, vs rune) uint32 {
	if hint.IsFallbackTagSequenceGlyph(fam, ch, vs) {
		return tagSequenceFallbackPenalty
	}
	return 0
}

// getBestFont resolves the best single FakedFont for (ch, vs), or reports
// false if nothing in the collection supports it, per
// FontCollection::getBestFont.
func (fc *FontCollection) getBestFont(ch, vs rune, style FontStyle, variant FamilyVariant, locales locale.List, hint GlyphScoreHint) (FakedFont, bool) {
	families := fc.candidateFamilies(ch, vs, style, variant, locales)
	if len(families) == 0 {
		return FakedFont{}, false
	}
	return pickFromFamilySet(families, ch, vs, style, hint), true
}

// calcFamilyScore combines coverage, locale, and variant scoring into the
// single ranking value used to pick a fallback family, per
// FontCollection::calcFamilyScore: coverageScore<<29 | localeScore<<1 |
// variantScore.
func (fc *FontCollection) calcFamilyScore(fam *FontFamily, ch, vs rune, style FontStyle, variant FamilyVariant, locales locale.List) uint32 {
	coverageScore := fc.calcCoverageScore(fam, ch, vs, locales)
	if coverageScore == unsupportedFontScore {
		return unsupportedFontScore
	}
	if coverageScore == firstFontScore {
		return firstFontScore
	}
	localeScore := calcLocaleMatchingScore(fam.LocaleListID(), locales)
	variantScore := calcVariantMatchingScore(fam.Variant(), variant)
	return coverageScore<<29 | localeScore<<1 | variantScore
}

// calcCoverageScore mirrors FontCollection::calcCoverageScore exactly: 0 if
// uncovered, UINT32_MAX if this is the primary (index 0 / custom-fallback)
// family and either there's no VS or the VS glyph is present, 3 if an
// explicit VS has a cmap-fmt14 glyph, otherwise an emoji-style-match-based
// score of 2, 1, or 1.
func (fc *FontCollection) calcCoverageScore(fam *FontFamily, ch, vs rune, locales locale.List) uint32 {
	hasBase := fam.HasGlyph(ch, 0)
	hasVSGlyph := vs != 0 && fam.HasGlyph(ch, vs)
	if !hasBase && !hasVSGlyph {
		return unsupportedFontScore
	}
	isPrimary := fam.IsCustomFallback() || fam == fc.families[0]
	if (vs == 0 || hasVSGlyph) && isPrimary {
		return firstFontScore
	}
	if vs != 0 && hasVSGlyph {
		return 3
	}
	wantsColorEmoji := vs == emojiStyleVS
	wantsTextEmoji := vs == textStyleVS
	if !wantsColorEmoji && !wantsTextEmoji {
		style := locales.Primary().EmojiStyle()
		wantsColorEmoji = style == locale.EmojiStyleEmoji
		wantsTextEmoji = style == locale.EmojiStyleText
	}
	switch {
	case wantsColorEmoji == fam.IsColorEmojiFamily() && (wantsColorEmoji || wantsTextEmoji):
		return 2
	case vs != 0:
		return 1
	default:
		return 1
	}
}

// fontLocaleLimit caps how many requested locales are consulted when
// scoring a family's locale match, per FONT_LOCALE_LIMIT in
// FontCollection.cpp.
const fontLocaleLimit = 4

// calcLocaleMatchingScore computes a base-5 Horner-accumulated locale match
// score across up to fontLocaleLimit requested locales, per
// FontCollection::calcLocaleMatchingScore. Per-locale comparison is
// approximated as an exact-match / same-script / same-language-base ladder
// (script/region subtleties live behind locale.Locale, not reimplemented
// here), producing a score in {0..4} per locale as the original's
// calcScoreFor does.
func calcLocaleMatchingScore(famLocaleID locale.ID, requested locale.List) uint32 {
	famList, ok := locale.Default.Get(famLocaleID)
	if !ok || famList.Len() == 0 {
		famList = locale.List{}
	}
	var score uint32
	n := requested.Len()
	if n > fontLocaleLimit {
		n = fontLocaleLimit
	}
	for i := 0; i < n; i++ {
		score = score*5 + uint32(localeScoreFor(requested.Locales()[i], famList))
	}
	return score
}

func localeScoreFor(want locale.Locale, famList locale.List) int {
	best := 0
	for _, have := range famList.Locales() {
		s := 0
		switch {
		case want.String() == have.String():
			s = 4
		case want.Script() == have.Script() && want.Script() != 0:
			s = 3
		case want.LanguageBase() == have.LanguageBase() && want.LanguageBase() != "":
			s = 2
		}
		if s > best {
			best = s
		}
	}
	return best
}

// calcVariantMatchingScore mirrors FontCollection::calcVariantMatchingScore:
// 1 if the family is the default variant, 1 if it matches the requested
// variant exactly, 1 if the request is unspecified (default) and the family
// is compact; 0 otherwise.
func calcVariantMatchingScore(famVariant, requested FamilyVariant) uint32 {
	switch {
	case famVariant == VariantDefault:
		return 1
	case famVariant == requested:
		return 1
	case requested == VariantDefault && famVariant == VariantCompact:
		return 1
	default:
		return 0
	}
}

// anyFamilyCovers reports whether any family in the set has a glyph for
// (ch, vs).
func anyFamilyCovers(families []*FontFamily, ch, vs rune) bool {
	for _, fam := range families {
		if fam.HasGlyph(ch, vs) {
			return true
		}
	}
	return false
}

// intersectFamilies returns the families present in both a and b, preserving
// a's relative order, per the current/new family-set narrowing step of
// FontCollection::itemize's color-emoji run handling.
func intersectFamilies(a, b []*FontFamily) []*FontFamily {
	var out []*FontFamily
	for _, fa := range a {
		for _, fb := range b {
			if fa == fb {
				out = append(out, fa)
				break
			}
		}
	}
	return out
}

// Itemize splits text into contiguous runs, each assigned the best-scoring
// FakedFont for the whole run, per FontCollection::itemize and spec.md §4.3.
//
// vsIndices, if non-nil, is consulted for the variation selector following
// each codepoint (index i holds the VS attached to rune i, or 0); it stands
// in for minikin's inline UTF-16 NEXT_CHECKED lookahead since this
// implementation works over already-decoded runes.
//
// runMax caps the number of runs returned: once runMax+2 runs have been
// tentatively produced, itemization stops scanning and the result is
// truncated to the first runMax entries. runMax <= 0 means unlimited.
func (fc *FontCollection) Itemize(text []rune, style FontStyle, locales locale.List, variant FamilyVariant, vsIndices []rune, runMax int, hint GlyphScoreHint) []ItemizeResult {
	n := len(text)
	if n == 0 {
		return nil
	}

	type runState struct {
		start    int
		families []*FontFamily
	}

	var results []ItemizeResult
	var cur *runState
	anyFamilyEverAssigned := false

	tentativeLimit := 0
	if runMax > 0 {
		tentativeLimit = runMax + 2
	}

	flush := func(end int) {
		if cur == nil || end <= cur.start {
			return
		}
		fnt := FakedFont{}
		if len(cur.families) > 0 {
			firstCh := text[cur.start]
			var vs rune
			if vsIndices != nil && cur.start < len(vsIndices) {
				vs = vsIndices[cur.start]
			}
			fnt = pickFromFamilySet(cur.families, firstCh, vs, style, hint)
		}
		results = append(results, ItemizeResult{Range: u16.Range{Start: cur.start, End: end}, Font: fnt})
	}

	i := 0
	truncatedEarly := false
	for ; i < n; i++ {
		ch := text[i]
		var vs rune
		if vsIndices != nil && i < len(vsIndices) {
			vs = vsIndices[i]
		}

		if doesNotNeedFontSupport(ch) {
			continue
		}

		var prevCh rune
		if i > 0 {
			prevCh = text[i-1]
		}

		if cur != nil && (stickyAllowlist[ch] || isCombiningMark(ch)) && anyFamilyCovers(cur.families, ch, vs) {
			continue
		}

		newFamilies := fc.candidateFamilies(ch, vs, style, variant, locales)
		if len(newFamilies) == 0 {
			diag.Logger().WithField("codepoint", ch).Debug("font: no family covers codepoint, continuing run unassigned")
			continue
		}
		anyFamilyEverAssigned = true

		if cur == nil {
			cur = &runState{start: i, families: newFamilies}
			continue
		}

		if cur.families[0].IsColorEmojiFamily() {
			inter := intersectFamilies(cur.families, newFamilies)
			if len(inter) > 0 && !isEmojiBreakBoundary(prevCh, ch) {
				cur.families = inter
				continue
			}
		} else if newFamilies[0] == cur.families[0] {
			continue
		}

		breakAt := i
		migrate := isCombiningMark(ch) || (isEmojiModifier(ch) && isEmojiBase(prevCh))
		if migrate && breakAt > cur.start && anyFamilyCovers(newFamilies, prevCh, 0) {
			breakAt--
		}
		flush(breakAt)
		cur = &runState{start: breakAt, families: newFamilies}

		if tentativeLimit > 0 && len(results) >= tentativeLimit {
			truncatedEarly = true
			i++
			break
		}
	}
	if truncatedEarly {
		flush(i)
	} else {
		flush(n)
	}

	if !anyFamilyEverAssigned && len(results) == 0 {
		fnt := FakedFont{}
		if len(fc.families) > 0 {
			fnt = fc.families[0].GetClosestMatch(style)
		}
		results = append(results, ItemizeResult{Range: u16.Range{Start: 0, End: n}, Font: fnt})
	}

	if runMax > 0 && len(results) > runMax {
		results = results[:runMax]
	}
	return results
}

// isCombiningMark reports whether ch is a Unicode combining mark (general
// category Mn, Mc, or Me), used for the sticky-continuation and
// run-migration rules in Itemize.
func isCombiningMark(ch rune) bool {
	return unicode.Is(unicode.Mn, ch) || unicode.Is(unicode.Mc, ch) || unicode.Is(unicode.Me, ch)
}

// GetFamilyForChar resolves the single best family covering (ch, vs) under
// style, variant and locales, falling back to an NFD-decomposed base
// character if no family covers the precomposed form, per
// FontCollection::getFamilyForChar's decomposition-fallback path (grounded
// on golang.org/x/text/unicode/norm rather than a hand-rolled decomposition
// table, since none of the original's data tables are in scope here).
func (fc *FontCollection) GetFamilyForChar(ch, vs rune, style FontStyle, variant FamilyVariant, locales locale.List, hint GlyphScoreHint) (FakedFont, bool) {
	if best, ok := fc.getBestFont(ch, vs, style, variant, locales, hint); ok {
		return best, true
	}
	decomposed := norm.NFD.String(string(ch))
	for _, r := range decomposed {
		if r == ch {
			continue
		}
		if best, ok := fc.getBestFont(r, vs, style, variant, locales, hint); ok {
			return best, true
		}
	}
	return FakedFont{}, false
}

// CreateCollectionWithVariation returns a new FontCollection with settings
// applied to every family via FontFamily.CreateFamilyWithVariation,
// preserving priority order; families unaffected by the settings are
// reused unmodified, per FontCollection::createCollectionWithVariation.
func (fc *FontCollection) CreateCollectionWithVariation(settings []FontVariation, buildVariant func(base *Font, settings []FontVariation) *Font) *FontCollection {
	newFamilies := make([]*FontFamily, len(fc.families))
	changed := false
	for i, fam := range fc.families {
		if nf := fam.CreateFamilyWithVariation(settings, buildVariant); nf != nil {
			newFamilies[i] = nf
			changed = true
		} else {
			newFamilies[i] = fam
		}
	}
	if !changed {
		return fc
	}
	return NewFontCollection(newFamilies)
}
