package font

import (
	"bytes"
	"testing"

	gotext "github.com/go-text/typesetting/font"

	"github.com/minikin-go/minikin/locale"
)

func nilFaceResolver(TypefaceMetadata) gotext.Face { return nil }

func TestWriteReadFontRoundTrip(t *testing.T) {
	f := Build(nil, FontStyle{Weight: 650, Slant: Italic}, []AxisTag{tagItal, tagWght}, locale.ID(7))

	var buf bytes.Buffer
	WriteFont(&buf, f, TypefaceMetadata("face-id-1"))

	got, err := ReadFont(bytes.NewReader(buf.Bytes()), nilFaceResolver)
	if err != nil {
		t.Fatalf("ReadFont: %v", err)
	}
	if got.Style() != f.Style() {
		t.Errorf("Style() = %+v, want %+v", got.Style(), f.Style())
	}
	if got.LocaleListID() != f.LocaleListID() {
		t.Errorf("LocaleListID() = %v, want %v", got.LocaleListID(), f.LocaleListID())
	}
	if !got.IsAxisSupported(tagWght) || !got.IsAxisSupported(tagItal) {
		t.Errorf("round-tripped font lost its supported axes: %v", got.SupportedAxes())
	}
}

func TestWriteReadFontFamilyRoundTrip(t *testing.T) {
	f1 := Build(nil, FontStyle{Weight: 400}, nil, 0)
	f2 := Build(nil, FontStyle{Weight: 700}, nil, 0)
	fam := NewFontFamily([]*Font{f1, f2}, fakeCoverage{
		runes: []rune{'a', 'b', 0x4E2D},
		vs:    map[int][]rune{15: {0x2764}},
	}, FamilyOptions{
		LocaleListID:     locale.ID(3),
		Variant:          VariantCompact,
		IsColorEmoji:     true,
		IsCustomFallback: false,
	})

	var buf bytes.Buffer
	WriteFontFamily(&buf, fam, []TypefaceMetadata{TypefaceMetadata("m1"), TypefaceMetadata("m2")})

	got, err := ReadFontFamily(bytes.NewReader(buf.Bytes()), nilFaceResolver)
	if err != nil {
		t.Fatalf("ReadFontFamily: %v", err)
	}
	if got.LocaleListID() != fam.LocaleListID() {
		t.Errorf("LocaleListID() = %v, want %v", got.LocaleListID(), fam.LocaleListID())
	}
	if got.Variant() != fam.Variant() {
		t.Errorf("Variant() = %v, want %v", got.Variant(), fam.Variant())
	}
	if got.IsColorEmojiFamily() != fam.IsColorEmojiFamily() {
		t.Errorf("IsColorEmojiFamily() = %v, want %v", got.IsColorEmojiFamily(), fam.IsColorEmojiFamily())
	}
	if len(got.Fonts()) != len(fam.Fonts()) {
		t.Fatalf("Fonts() len = %d, want %d", len(got.Fonts()), len(fam.Fonts()))
	}
	if !got.HasGlyph('a', 0) || !got.HasGlyph(0x4E2D, 0) {
		t.Errorf("round-tripped family lost its base coverage")
	}
	if got.HasGlyph('z', 0) {
		t.Errorf("round-tripped family gained coverage it shouldn't have")
	}
	if !got.HasGlyph(0x2764, emojiStyleVS) {
		t.Errorf("round-tripped family lost its variation-selector coverage")
	}
}

func TestFontCollectionBlobPageEncoding(t *testing.T) {
	fam := NewFontFamily([]*Font{Build(nil, FontStyle{Weight: 400}, nil, 0)},
		fakeCoverage{runes: []rune{'a', 'b', 0x0301}}, FamilyOptions{})
	fc := NewFontCollection([]*FontFamily{fam})

	blob := toCollectionBlob(fc)
	if len(blob.FamilyIndex) != 1 {
		t.Fatalf("FamilyIndex = %v, want one entry", blob.FamilyIndex)
	}
	// 'a','b' (U+0061-62) fall in page 0; U+0301 falls in a later page, so
	// the single family should be indexed under two distinct page ranges.
	if len(blob.Ranges) != 2 {
		t.Fatalf("Ranges = %+v, want 2 page entries (ASCII page + combining-mark page)", blob.Ranges)
	}

	var buf bytes.Buffer
	WriteFontCollection(&buf, fc)
	if buf.Len() == 0 {
		t.Errorf("WriteFontCollection produced no bytes")
	}
}
