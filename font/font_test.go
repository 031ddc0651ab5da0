package font

import (
	"sync"
	"testing"
)

func TestFontFakeryPackRoundTrip(t *testing.T) {
	cases := []FontFakery{
		NoFakery,
		{FakeBold: true, WghtAdjust: -1, ItalAdjust: -1},
		{FakeItalic: true, WghtAdjust: -1, ItalAdjust: -1},
		{FakeBold: true, FakeItalic: true, WghtAdjust: 250, ItalAdjust: 1},
		{WghtAdjust: 0, ItalAdjust: 0},
		{WghtAdjust: 1023, ItalAdjust: -1},
	}
	for _, c := range cases {
		got := UnpackFontFakery(c.Pack())
		if got != c {
			t.Errorf("Pack/Unpack round trip: got %+v, want %+v", got, c)
		}
	}
}

func TestBuildDefaultsZeroWeightTo400(t *testing.T) {
	f := Build(nil, FontStyle{Slant: Italic}, nil, 0)
	if f.Style().Weight != 400 {
		t.Errorf("Build with zero weight: Style().Weight = %d, want 400", f.Style().Weight)
	}
	if f.Style().Slant != Italic {
		t.Errorf("Build should preserve the requested slant")
	}
}

func TestBuildPreservesExplicitWeight(t *testing.T) {
	f := Build(nil, FontStyle{Weight: 900}, nil, 0)
	if f.Style().Weight != 900 {
		t.Errorf("Style().Weight = %d, want 900", f.Style().Weight)
	}
}

func TestIsAxisSupported(t *testing.T) {
	f := Build(nil, FontStyle{Weight: 400}, []AxisTag{tagItal, tagWght}, 0)
	if !f.IsAxisSupported(tagWght) || !f.IsAxisSupported(tagItal) {
		t.Errorf("expected both registered axes to be supported")
	}
	if f.IsAxisSupported(NewAxisTag('s', 'l', 'n', 't')) {
		t.Errorf("unregistered axis reported as supported")
	}
}

func TestBaseFaceCompareAndSwapSingleWinner(t *testing.T) {
	f := Build(nil, FontStyle{Weight: 400}, nil, 0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.BaseFace()
		}()
	}
	wg.Wait()

	// BaseFace must be idempotent regardless of how many goroutines raced to
	// build it; nil is itself the Face value here since Build was passed nil.
	if f.BaseFace() != nil {
		t.Errorf("BaseFace() = %v, want nil (the face passed to Build)", f.BaseFace())
	}
}

func TestGetAdjustedVariationsNoOverrideReturnsBase(t *testing.T) {
	f := Build(nil, FontStyle{Weight: 400}, nil, 0)
	f.baseVariation = []FontVariation{{Tag: tagWght, Value: 400}}

	got := f.GetAdjustedVariations(-1, -1)
	if len(got) != 1 || got[0].Tag != tagWght || got[0].Value != 400 {
		t.Errorf("GetAdjustedVariations(-1,-1) = %+v, want the base variation unchanged", got)
	}
}

func TestGetAdjustedVariationsOverridesAndMerges(t *testing.T) {
	f := Build(nil, FontStyle{Weight: 400}, nil, 0)
	f.baseVariation = []FontVariation{{Tag: NewAxisTag('o', 'p', 's', 'z'), Value: 14}}

	got := f.GetAdjustedVariations(650, 1)
	var sawWght, sawItal, sawOpsz bool
	for _, v := range got {
		switch v.Tag {
		case tagWght:
			sawWght = v.Value == 650
		case tagItal:
			sawItal = v.Value == 1
		case NewAxisTag('o', 'p', 's', 'z'):
			sawOpsz = v.Value == 14
		}
	}
	if !sawWght || !sawItal || !sawOpsz {
		t.Errorf("GetAdjustedVariations(650,1) = %+v, want wght=650, ital=1, opsz=14 all present", got)
	}
}

func TestGetAdjustedVariationsCachesByKey(t *testing.T) {
	f := Build(nil, FontStyle{Weight: 400}, nil, 0)

	first := f.GetAdjustedVariations(500, 0)
	second := f.GetAdjustedVariations(500, 0)
	if &first[0] != &second[0] {
		t.Errorf("GetAdjustedVariations should return the cached slice for a repeated key")
	}
}

func TestFakedFontVariationsDelegatesToFont(t *testing.T) {
	f := Build(nil, FontStyle{Weight: 400}, nil, 0)
	ff := FakedFont{Font: f, Fakery: FontFakery{WghtAdjust: 300, ItalAdjust: -1}}

	vars := ff.Variations()
	if len(vars) != 1 || vars[0].Tag != tagWght || vars[0].Value != 300 {
		t.Errorf("FakedFont.Variations() = %+v, want a single wght=300 override", vars)
	}
	if ff.Face() != nil {
		t.Errorf("Face() = %v, want nil (the face passed to Build)", ff.Face())
	}
}
