package layout

import (
	"testing"

	"github.com/minikin-go/minikin/internal/u16"
)

func TestSimpleWordBreakerBoundaries(t *testing.T) {
	text := []rune("the quick fox")
	b := NewWordBreaker()
	got := b.Boundaries(text, u16.Range{Start: 0, End: len(text)}, LineBreakWordStyleNone)
	want := []int{3, 4, 9, 10, 13}
	if len(got) != len(want) {
		t.Fatalf("Boundaries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Boundaries = %v, want %v", got, want)
		}
	}
}

func TestSimpleWordBreakerBreakBadness(t *testing.T) {
	text := []rune("contact me@example.com now")
	b := NewWordBreaker()
	start, end := b.WordRange(text, 10)
	word := string(text[start:end])
	if word != "me@example.com" {
		t.Fatalf("WordRange around offset 10 = %q, want %q", word, "me@example.com")
	}
	if badness := b.BreakBadness(text, start); badness == 0 {
		t.Fatalf("BreakBadness(%q) = 0, want nonzero for an email-like word", word)
	}
}

func TestSimpleWordBreakerWordRangeExpandsFully(t *testing.T) {
	text := []rune("hello world")
	b := NewWordBreaker()
	start, end := b.WordRange(text, 8)
	if string(text[start:end]) != "world" {
		t.Fatalf("WordRange around offset 8 = %q, want %q", string(text[start:end]), "world")
	}
}
