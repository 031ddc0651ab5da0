package font

import (
	"testing"

	"github.com/minikin-go/minikin/internal/bitset"
)

// fakeCoverage is a minimal CoverageSource test fixture: a fixed set of
// base codepoints plus an optional variation-selector coverage map.
type fakeCoverage struct {
	runes []rune
	vs    map[int][]rune
}

func (f fakeCoverage) Coverage() bitset.SparseBitSet {
	var bs bitset.SparseBitSet
	for _, r := range f.runes {
		bs.Add(uint32(r))
	}
	return bs
}

func (f fakeCoverage) VSCoverage() map[int]bitset.SparseBitSet {
	if len(f.vs) == 0 {
		return nil
	}
	out := make(map[int]bitset.SparseBitSet, len(f.vs))
	for idx, runes := range f.vs {
		var bs bitset.SparseBitSet
		for _, r := range runes {
			bs.Add(uint32(r))
		}
		out[idx] = bs
	}
	return out
}

func newTestFont(weight int, slant Slant) *Font {
	return Build(nil, FontStyle{Weight: weight, Slant: slant}, nil, 0)
}

func TestNewFontFamilyHasGlyph(t *testing.T) {
	fam := NewFontFamily([]*Font{newTestFont(400, Upright)}, fakeCoverage{runes: []rune{'a', 'b', 0x4E2D}}, FamilyOptions{})

	if !fam.HasGlyph('a', 0) {
		t.Errorf("HasGlyph('a') = false, want true")
	}
	if fam.HasGlyph('z', 0) {
		t.Errorf("HasGlyph('z') = true, want false")
	}
	if !fam.HasGlyph(0x4E2D, 0) {
		t.Errorf("HasGlyph(U+4E2D) = false, want true")
	}
}

func TestFontFamilyVSCoverage(t *testing.T) {
	fam := NewFontFamily([]*Font{newTestFont(400, Upright)}, fakeCoverage{
		runes: []rune{0x2764}, // HEAVY BLACK HEART
		vs:    map[int][]rune{15: {0x2764}},
	}, FamilyOptions{})

	if !fam.HasGlyph(0x2764, emojiStyleVS) {
		t.Errorf("HasGlyph(heart, emoji VS) = false, want true")
	}
	if fam.HasGlyph(0x2764, textStyleVS) {
		t.Errorf("HasGlyph(heart, text VS) = true, want false (not registered for that VS index)")
	}
	if fam.HasGlyph('x', emojiStyleVS) {
		t.Errorf("HasGlyph('x', emoji VS) = true, want false")
	}
}

func TestFontFamilyNilCoverageSource(t *testing.T) {
	fam := NewFontFamily([]*Font{newTestFont(400, Upright)}, nil, FamilyOptions{})
	if fam.HasGlyph('a', 0) {
		t.Errorf("HasGlyph with nil CoverageSource should report no coverage")
	}
}

func TestGetClosestMatchPrefersNearestWeight(t *testing.T) {
	fam := NewFontFamily([]*Font{
		newTestFont(400, Upright),
		newTestFont(700, Upright),
	}, fakeCoverage{runes: []rune{'a'}}, FamilyOptions{})

	got := fam.GetClosestMatch(FontStyle{Weight: 600, Slant: Upright})
	if got.Font.Style().Weight != 700 {
		t.Errorf("GetClosestMatch(600) chose weight %d, want 700", got.Font.Style().Weight)
	}
	if got.Fakery.FakeBold || got.Fakery.FakeItalic {
		t.Errorf("unexpected fakery for a well-matched font: %+v", got.Fakery)
	}
}

func TestGetClosestMatchFakesBoldWhenFarBelowRequested(t *testing.T) {
	fam := NewFontFamily([]*Font{newTestFont(400, Upright)}, fakeCoverage{runes: []rune{'a'}}, FamilyOptions{})

	got := fam.GetClosestMatch(FontStyle{Weight: 900, Slant: Upright})
	if !got.Fakery.FakeBold {
		t.Errorf("expected FakeBold when requested weight is 500 over the only available font")
	}
}

func TestGetClosestMatchFakesItalicWhenOnlyUprightAvailable(t *testing.T) {
	fam := NewFontFamily([]*Font{newTestFont(400, Upright)}, fakeCoverage{runes: []rune{'a'}}, FamilyOptions{})

	got := fam.GetClosestMatch(FontStyle{Weight: 400, Slant: Italic})
	if !got.Fakery.FakeItalic {
		t.Errorf("expected FakeItalic when only an upright font is available")
	}
}

func TestGetClosestMatchEmptyFamily(t *testing.T) {
	fam := NewFontFamily(nil, fakeCoverage{}, FamilyOptions{})
	got := fam.GetClosestMatch(FontStyle{Weight: 400})
	if got.Font != nil {
		t.Errorf("GetClosestMatch on an empty family should return a zero FakedFont")
	}
}

func TestCreateFamilyWithVariationNoMatchingAxisReturnsNil(t *testing.T) {
	fam := NewFontFamily([]*Font{Build(nil, FontStyle{Weight: 400}, []AxisTag{tagWght}, 0)},
		fakeCoverage{runes: []rune{'a'}}, FamilyOptions{})

	got := fam.CreateFamilyWithVariation([]FontVariation{{Tag: NewAxisTag('s', 'l', 'n', 't'), Value: -10}}, func(base *Font, settings []FontVariation) *Font {
		t.Fatalf("buildVariant should not be called when no axis matches")
		return base
	})
	if got != nil {
		t.Errorf("CreateFamilyWithVariation with no matching axis should return nil, got %+v", got)
	}
}

func TestCreateFamilyWithVariationAppliesToSupportingFonts(t *testing.T) {
	supporting := Build(nil, FontStyle{Weight: 400}, []AxisTag{tagWght}, 0)
	nonSupporting := Build(nil, FontStyle{Weight: 700}, nil, 0)
	fam := NewFontFamily([]*Font{supporting, nonSupporting}, fakeCoverage{runes: []rune{'a'}}, FamilyOptions{})

	var built []*Font
	got := fam.CreateFamilyWithVariation([]FontVariation{{Tag: tagWght, Value: 550}}, func(base *Font, settings []FontVariation) *Font {
		nf := Build(nil, base.Style(), base.SupportedAxes(), base.LocaleListID())
		built = append(built, nf)
		return nf
	})
	if got == nil {
		t.Fatalf("expected a non-nil variant family")
	}
	if len(built) != 1 {
		t.Fatalf("buildVariant should be called exactly once (for the supporting font), got %d calls", len(built))
	}
	if got.Fonts()[0] != built[0] {
		t.Errorf("variant family's first font should be the rebuilt one")
	}
	if got.Fonts()[1] != nonSupporting {
		t.Errorf("variant family's second font should be reused unmodified")
	}
	// The original family must be untouched.
	if fam.Fonts()[0] != supporting {
		t.Errorf("CreateFamilyWithVariation mutated the original family's fonts")
	}
}
