// Package font implements the font-itemization and fallback-scoring layer:
// single font handles (Font), style-variant families (FontFamily), and
// priority-ordered collections with coverage-indexed fallback (FontCollection).
package font

import (
	"sort"
	"sync"
	"sync/atomic"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/exp/slices"

	"github.com/minikin-go/minikin/locale"
)

// AxisTag is a 32-bit big-endian-packed 4-byte OpenType variation axis tag,
// e.g. the bytes 'w','g','h','t' for "wght".
type AxisTag uint32

// NewAxisTag packs four ASCII bytes into an AxisTag.
func NewAxisTag(a, b, c, d byte) AxisTag {
	return AxisTag(a)<<24 | AxisTag(b)<<16 | AxisTag(c)<<8 | AxisTag(d)
}

func (t AxisTag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

var (
	tagWght = NewAxisTag('w', 'g', 'h', 't')
	tagItal = NewAxisTag('i', 't', 'a', 'l')
)

// Slant distinguishes upright from italic/oblique rendering.
type Slant uint8

const (
	Upright Slant = iota
	Italic
)

// FontStyle is a requested or described style: an integer weight in
// [1,1000] and a slant.
type FontStyle struct {
	Weight int
	Slant  Slant
}

// WeightBucket returns the coarse weight bucket used for style matching
// (weight/100), per spec.md §3.
func (s FontStyle) WeightBucket() int { return s.Weight / 100 }

// FontFakery is a packed 16-bit field describing synthetic emphasis and
// variable-axis overrides applied at render time: fakeBold, fakeItalic, a
// wght override in [-1,1023] (-1 = no override), and an ital override in
// {-1,0,1} (-1 = no override). Modeled as a struct with a Pack/Unpack pair
// rather than raw bit-twiddling call sites, grounding the bit layout of
// original_source/include/minikin/FontFakery.h.
type FontFakery struct {
	FakeBold   bool
	FakeItalic bool
	WghtAdjust int16 // -1 means "no override"
	ItalAdjust int8  // -1 means "no override"
}

// NoFakery is the "no adjustment" fakery value.
var NoFakery = FontFakery{WghtAdjust: -1, ItalAdjust: -1}

// Pack encodes the fakery into a 16-bit wire representation: bit 0
// fakeBold, bit 1 fakeItalic, bits 2-12 wght (offset by 1, 0 = none), bits
// 13-14 ital (offset by 1, 0 = none).
func (f FontFakery) Pack() uint16 {
	var v uint16
	if f.FakeBold {
		v |= 1
	}
	if f.FakeItalic {
		v |= 1 << 1
	}
	if f.WghtAdjust >= 0 {
		v |= uint16(f.WghtAdjust+1) << 2
	}
	if f.ItalAdjust >= -1 && f.ItalAdjust <= 1 {
		v |= uint16(f.ItalAdjust+1) << 13
	}
	return v
}

// UnpackFontFakery decodes a packed fakery value produced by Pack.
func UnpackFontFakery(v uint16) FontFakery {
	f := FontFakery{
		FakeBold:   v&1 != 0,
		FakeItalic: v&(1<<1) != 0,
		WghtAdjust: -1,
		ItalAdjust: -1,
	}
	if wght := (v >> 2) & 0x7FF; wght != 0 {
		f.WghtAdjust = int16(wght) - 1
	}
	if ital := (v >> 13) & 0x3; ital != 0 {
		f.ItalAdjust = int8(ital) - 1
	}
	return f
}

// FontVariation is a single OpenType variation axis setting. Sorted by tag
// when kept as a settings list, per spec.md §3.
type FontVariation struct {
	Tag   AxisTag
	Value float32
}

// SortVariations sorts variation settings by tag, the canonical order for
// hashing and binary search.
func SortVariations(v []FontVariation) {
	sort.Slice(v, func(i, j int) bool { return v[i].Tag < v[j].Tag })
}

// adjustKey packs a requested (wght, ital) override pair into the 13-bit
// key minikin's Font.h uses for its adjusted-font cache: {hasWght | hasItal
// | italValue | wght10bits}, per original_source/include/minikin/Font.h.
type adjustKey uint16

func packAdjustKey(wght int16, ital int8) adjustKey {
	var k uint16
	if wght >= 0 {
		k |= 1 << 12
		k |= uint16(wght) & 0x3FF
	}
	if ital >= 0 {
		k |= 1 << 11
		if ital == 1 {
			k |= 1 << 10
		}
	}
	return adjustKey(k)
}

// externalRefs holds the expensive shaper-native resource for a Font: the
// parsed typeface Face. Constructed under a single-winner compare-exchange,
// per spec.md §5 "Lazy construction", grounding
// original_source/include/minikin/Font.h's ExternalRefs.
type externalRefs struct {
	face gotext.Face
}

// Font is a single font-file handle: a shaper-native Face (built lazily),
// style, a sorted supported-axes array, an informational locale-list id,
// and a mutex-guarded cache of (wght,ital) axis-override variation sets.
type Font struct {
	style         FontStyle
	localeListID  locale.ID
	supportedAxes []AxisTag
	baseVariation []FontVariation

	refs      atomic.Pointer[externalRefs]
	buildRefs func() *externalRefs

	adjustMu    sync.Mutex
	adjustCache map[adjustKey][]FontVariation
}

// Build constructs a Font from a shaper-native Face and an explicit set of
// supported variation axes (the axes exposed by the Face's fvar table, read
// by the caller — typically font/collection construction code that already
// has the opentype table reader open). If style is the zero value it
// should have been derived from the face's OS/2 metadata by the caller; a
// missing OS/2 table degrades to FontStyle{Weight: 400} rather than
// failing, per spec.md §7.
func Build(face gotext.Face, style FontStyle, supportedAxes []AxisTag, localeListID locale.ID) *Font {
	if style.Weight == 0 {
		style.Weight = 400
	}
	axes := slices.Clone(supportedAxes)
	slices.Sort(axes)
	f := &Font{
		style:         style,
		localeListID:  localeListID,
		supportedAxes: axes,
	}
	f.buildRefs = func() *externalRefs { return &externalRefs{face: face} }
	return f
}

// Style returns the font's style.
func (f *Font) Style() FontStyle { return f.style }

// LocaleListID returns the font's informational locale-list id.
func (f *Font) LocaleListID() locale.ID { return f.localeListID }

// IsAxisSupported reports whether tag is one of the font's variation axes,
// via binary search of the sorted supported-axes array.
func (f *Font) IsAxisSupported(tag AxisTag) bool {
	_, ok := slices.BinarySearch(f.supportedAxes, tag)
	return ok
}

// SupportedAxes returns the sorted supported-axes array. Callers must not
// mutate the returned slice.
func (f *Font) SupportedAxes() []AxisTag { return f.supportedAxes }

// BaseFace lazily constructs and returns the shaper-native Face, using a
// single-winner compare-exchange: concurrent callers may race to build,
// but only one build is ever observably installed, per spec.md §5
// "Multiple threads racing to construct may build concurrently; exactly
// one instance is installed".
func (f *Font) BaseFace() gotext.Face {
	if p := f.refs.Load(); p != nil {
		return p.face
	}
	built := f.buildRefs()
	if f.refs.CompareAndSwap(nil, built) {
		return built.face
	}
	return f.refs.Load().face
}

// GetAdjustedVariations returns the variation-axis settings to shape with
// for the given (wght, ital) override, merging them with the font's base
// variation settings (other existing variations preserved). wght < 0 or
// ital < 0 means "no override for that axis"; (-1,-1) returns the base
// settings unchanged. Results are cached under a mutex keyed by the packed
// 13-bit adjustment key, per spec.md §4.1.
func (f *Font) GetAdjustedVariations(wght int16, ital int8) []FontVariation {
	if wght < 0 && ital < 0 {
		return f.baseVariation
	}
	key := packAdjustKey(wght, ital)
	f.adjustMu.Lock()
	defer f.adjustMu.Unlock()
	if f.adjustCache == nil {
		f.adjustCache = make(map[adjustKey][]FontVariation)
	}
	if vars, ok := f.adjustCache[key]; ok {
		return vars
	}
	merged := mergeVariations(f.baseVariation, wght, ital)
	f.adjustCache[key] = merged
	return merged
}

func mergeVariations(base []FontVariation, wght int16, ital int8) []FontVariation {
	out := make([]FontVariation, 0, len(base)+2)
	seen := map[AxisTag]bool{}
	if wght >= 0 {
		out = append(out, FontVariation{Tag: tagWght, Value: float32(wght)})
		seen[tagWght] = true
	}
	if ital >= 0 {
		out = append(out, FontVariation{Tag: tagItal, Value: float32(ital)})
		seen[tagItal] = true
	}
	for _, v := range base {
		if !seen[v.Tag] {
			out = append(out, v)
		}
	}
	SortVariations(out)
	return out
}

// FakedFont is a non-owning reference to a Font plus the fakery to apply
// when rendering glyphs from it. Its lifetime is bounded by the longest
// holder of the enclosing FontCollection, per spec.md §3 "Ownership".
type FakedFont struct {
	Font   *Font
	Fakery FontFakery
}

// Face returns the shaper-native face to shape against. Axis overrides
// carried by Fakery are applied by the caller via Variations(), not baked
// into the Face itself, since go-text/typesetting shapes variable-axis
// adjustments through shaping.Input rather than mutated Face instances.
func (ff FakedFont) Face() gotext.Face { return ff.Font.BaseFace() }

// Variations returns the variation settings to pass to the shaper for this
// faked font.
func (ff FakedFont) Variations() []FontVariation {
	return ff.Font.GetAdjustedVariations(ff.Fakery.WghtAdjust, ff.Fakery.ItalAdjust)
}
