package font

import (
	"golang.org/x/exp/slices"

	"github.com/minikin-go/minikin/internal/bitset"
	"github.com/minikin-go/minikin/locale"
)

// FamilyVariant distinguishes this module's own font-shape variant from
// BCP-47 locale variants, per spec.md §3 "FontFamily".
type FamilyVariant uint8

const (
	VariantDefault FamilyVariant = iota
	VariantCompact
	VariantElegant
)

// vsIndex maps a variation-selector codepoint to a small index used to
// index FontFamily.vsCoverage. Variation selectors are U+FE00-U+FE0F and
// U+E0100-U+E01EF, per the GLOSSARY entry "Variation selector".
func vsIndex(vs rune) (int, bool) {
	switch {
	case vs >= 0xFE00 && vs <= 0xFE0F:
		return int(vs - 0xFE00), true
	case vs >= 0xE0100 && vs <= 0xE01EF:
		return int(vs-0xE0100) + 16, true
	default:
		return 0, false
	}
}

const (
	emojiStyleVS = 0xFE0F
	textStyleVS  = 0xFE0E
)

// FontFamily is an ordered set of style-variant Fonts sharing a union
// coverage bitset and cmap-format-14 variation-selector coverage. Immutable
// after computeCoverage, per spec.md §3.
type FontFamily struct {
	localeListID     locale.ID
	variant          FamilyVariant
	fonts            []*Font
	coverage         bitset.SparseBitSet
	vsCoverage       []bitset.SparseBitSet // indexed by vsIndex
	supportedAxes    []AxisTag
	isColorEmoji     bool
	isCustomFallback bool
}

// FamilyOptions configures NewFontFamily.
type FamilyOptions struct {
	LocaleListID     locale.ID
	Variant          FamilyVariant
	IsColorEmoji     bool
	IsCustomFallback bool
}

// CoverageSource supplies a family's coverage data, decoupling FontFamily
// construction from any particular cmap-reading implementation (the
// concrete reader lives wherever Fonts are loaded from disk/face data).
type CoverageSource interface {
	// Coverage returns the set of codepoints the family's closest-matching
	// font has a glyph for.
	Coverage() bitset.SparseBitSet
	// VSCoverage returns, for each populated variation-selector index, the
	// set of base codepoints with a cmap-fmt14 glyph for that selector.
	VSCoverage() map[int]bitset.SparseBitSet
}

// NewFontFamily builds a FontFamily from an ordered slice of Fonts and a
// CoverageSource (computeCoverage in the original), per spec.md §4.2.
func NewFontFamily(fonts []*Font, cov CoverageSource, opts FamilyOptions) *FontFamily {
	fam := &FontFamily{
		localeListID:     opts.LocaleListID,
		variant:          opts.Variant,
		fonts:            fonts,
		isColorEmoji:     opts.IsColorEmoji,
		isCustomFallback: opts.IsCustomFallback,
	}
	if cov != nil {
		fam.coverage = cov.Coverage()
		vsc := cov.VSCoverage()
		if len(vsc) > 0 {
			maxIdx := 0
			for idx := range vsc {
				if idx > maxIdx {
					maxIdx = idx
				}
			}
			fam.vsCoverage = make([]bitset.SparseBitSet, maxIdx+1)
			for idx, bs := range vsc {
				fam.vsCoverage[idx] = bs
			}
		}
	}
	axisSet := map[AxisTag]bool{}
	for _, f := range fonts {
		for _, a := range f.SupportedAxes() {
			axisSet[a] = true
		}
	}
	axes := make([]AxisTag, 0, len(axisSet))
	for a := range axisSet {
		axes = append(axes, a)
	}
	slices.Sort(axes)
	fam.supportedAxes = axes
	return fam
}

// LocaleListID returns the family's informational locale-list id.
func (fam *FontFamily) LocaleListID() locale.ID { return fam.localeListID }

// Variant returns the family's font-shape variant.
func (fam *FontFamily) Variant() FamilyVariant { return fam.variant }

// IsColorEmojiFamily reports whether this family is a color-emoji font
// family, relevant to itemization's emoji-break and tag-sequence logic.
func (fam *FontFamily) IsColorEmojiFamily() bool { return fam.isColorEmoji }

// IsCustomFallback reports whether this is a developer-specified custom
// fallback family, treated as primary before system fallback.
func (fam *FontFamily) IsCustomFallback() bool { return fam.isCustomFallback }

// Coverage returns the family's union coverage bitset.
func (fam *FontFamily) Coverage() *bitset.SparseBitSet { return &fam.coverage }

// HasGlyph reports whether the family can render ch, optionally as the
// variation sequence (ch, vs). If vs == 0, only base coverage is checked.
func (fam *FontFamily) HasGlyph(ch rune, vs rune) bool {
	if vs == 0 {
		return fam.coverage.Has(uint32(ch))
	}
	idx, ok := vsIndex(vs)
	if !ok || idx >= len(fam.vsCoverage) {
		return false
	}
	return fam.vsCoverage[idx].Has(uint32(ch))
}

// GetClosestMatch returns the Font in the family whose style is closest to
// wanted, plus the FontFakery needed to approximate any mismatch, per
// spec.md §4.2: score = |wantedWeight/100 - fontWeight/100| + (slant
// differs ? 2 : 0); ties broken by insertion order.
func (fam *FontFamily) GetClosestMatch(wanted FontStyle) FakedFont {
	bestIdx := 0
	bestScore := -1
	for i, f := range fam.fonts {
		score := abs(wanted.WeightBucket()-f.Style().WeightBucket()) * 1
		if wanted.Slant != f.Style().Slant {
			score += 2
		}
		if bestScore == -1 || score < bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if len(fam.fonts) == 0 {
		return FakedFont{}
	}
	chosen := fam.fonts[bestIdx]
	fakery := NoFakery
	if wanted.Weight >= 600 && wanted.Weight-chosen.Style().Weight >= 200 {
		fakery.FakeBold = true
	}
	if wanted.Slant == Italic && chosen.Style().Slant == Upright {
		fakery.FakeItalic = true
	}
	return FakedFont{Font: chosen, Fakery: fakery}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CreateFamilyWithVariation returns a new FontFamily with the given
// variation settings applied to every font that supports at least one of
// the requested axes (others are reused unmodified), or nil if none of the
// settings' axis tags intersect the family's supported axes, per
// spec.md §4.2. buildVariant constructs a replacement Font for a given
// base Font and the variation settings it should carry.
func (fam *FontFamily) CreateFamilyWithVariation(settings []FontVariation, buildVariant func(base *Font, settings []FontVariation) *Font) *FontFamily {
	any := false
	for _, s := range settings {
		if _, ok := slices.BinarySearch(fam.supportedAxes, s.Tag); ok {
			any = true
			break
		}
	}
	if !any {
		return nil
	}
	newFonts := make([]*Font, len(fam.fonts))
	for i, f := range fam.fonts {
		supportsAny := false
		for _, s := range settings {
			if f.IsAxisSupported(s.Tag) {
				supportsAny = true
				break
			}
		}
		if supportsAny {
			newFonts[i] = buildVariant(f, settings)
		} else {
			newFonts[i] = f
		}
	}
	clone := *fam
	clone.fonts = newFonts
	return &clone
}

// Fonts returns the family's ordered fonts. Callers must not mutate it.
func (fam *FontFamily) Fonts() []*Font { return fam.fonts }

// SupportedAxes returns the family's sorted union of supported axes.
func (fam *FontFamily) SupportedAxes() []AxisTag { return fam.supportedAxes }
