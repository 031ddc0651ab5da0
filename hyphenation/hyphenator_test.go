package hyphenation

import (
	"testing"

	"github.com/go-text/typesetting/language"
)

func mustScript(t *testing.T, tag string) language.Script {
	t.Helper()
	s, err := language.ParseScript(tag)
	if err != nil {
		t.Fatalf("ParseScript(%q): %v", tag, err)
	}
	return s
}

func TestHyphenateTable(t *testing.T) {
	h := NewHyphenator(Options{})
	got := h.Hyphenate([]rune("table"), mustScript(t, "Latn"))
	want := []HyphenationType{
		DontBreak, DontBreak, BreakAndInsertHyphen, DontBreak, DontBreak,
	}
	assertTypes(t, got, want)
}

func TestHyphenateCatalanMiddleDot(t *testing.T) {
	h := NewHyphenator(Options{MinPrefix: 2, MinSuffix: 2})
	word := []rune{'l', 'l', 0xA78F, 'l', 'l'}
	got := h.Hyphenate(word, mustScript(t, "Latn"))
	if got[2] != BreakAndReplaceWithHyphen {
		t.Fatalf("index 2 = %v, want BreakAndReplaceWithHyphen", got[2])
	}
	for i, ty := range got {
		if i != 2 && ty != DontBreak {
			t.Fatalf("index %d = %v, want DontBreak", i, ty)
		}
	}
}

func TestHyphenateCatalanBelowMinimumLength(t *testing.T) {
	h := NewHyphenator(Options{MinPrefix: 2, MinSuffix: 2})
	word := []rune{'l', 0xA78F, 'l'}
	got := h.Hyphenate(word, mustScript(t, "Latn"))
	assertTypes(t, got, []HyphenationType{DontBreak, DontBreak, DontBreak})
}

func TestEditForThisLineAndNextLine(t *testing.T) {
	cases := []struct {
		t       HyphenationType
		endEdit EndHyphenEdit
		startEdit StartHyphenEdit
	}{
		{BreakAndInsertHyphen, EndEditInsertHyphen, StartEditNone},
		{BreakAndInsertHyphenAtNextLine, EndEditInsertHyphen, StartEditInsertHyphen},
		{BreakAndReplaceWithHyphen, EndEditReplaceWithHyphen, StartEditNone},
		{BreakAndInsertHyphenAndZWJ, EndEditInsertHyphenAndZWJ, StartEditNone},
		{DontBreak, EndEditNone, StartEditNone},
	}
	for _, c := range cases {
		if got := EditForThisLine(c.t); got != c.endEdit {
			t.Errorf("EditForThisLine(%v) = %v, want %v", c.t, got, c.endEdit)
		}
		if got := EditForNextLine(c.t); got != c.startEdit {
			t.Errorf("EditForNextLine(%v) = %v, want %v", c.t, got, c.startEdit)
		}
	}
}

func assertTypes(t *testing.T, got, want []HyphenationType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %v, want %v", i, got[i], want[i])
		}
	}
}
