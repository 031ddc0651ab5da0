package layout

import (
	"testing"

	"github.com/minikin-go/minikin/internal/u16"
)

func TestBuildMeasuresReplacementRuns(t *testing.T) {
	text := []rune("AB")
	runs := []Run{
		&ReplacementRun{Range_: u16.Range{Start: 0, End: 1}, Width: 10},
		&ReplacementRun{Range_: u16.Range{Start: 1, End: 2}, Width: 20},
	}
	mt := Build(text, runs, nil, nil, BuildOptions{})

	widths := mt.Widths()
	if widths[0] != 10 || widths[1] != 20 {
		t.Fatalf("Widths() = %v, want [10 20]", widths)
	}
	if got := mt.Text(); string(got) != "AB" {
		t.Fatalf("Text() = %q, want %q", string(got), "AB")
	}
	if len(mt.Runs()) != 2 {
		t.Fatalf("Runs() returned %d runs, want 2", len(mt.Runs()))
	}
}

func TestBuildSkipsHyphenationForReplacementRuns(t *testing.T) {
	text := []rune("X")
	runs := []Run{&ReplacementRun{Range_: u16.Range{Start: 0, End: 1}, Width: 5}}
	mt := Build(text, runs, nil, nil, BuildOptions{ComputeHyphenation: true})
	if got := mt.HyphenBreaksForWord(0); got != nil {
		t.Fatalf("HyphenBreaksForWord(0) = %v, want nil (ReplacementRun cannot hyphenate)", got)
	}
}

func TestMeasuredTextHasOverhangFalseWithoutBounds(t *testing.T) {
	text := []rune("A")
	runs := []Run{&ReplacementRun{Range_: u16.Range{Start: 0, End: 1}, Width: 5}}
	mt := Build(text, runs, nil, nil, BuildOptions{})
	if mt.HasOverhang(u16.Range{Start: 0, End: 1}) {
		t.Fatalf("HasOverhang() = true without ComputeBounds, want false")
	}
}

func TestExtentUnion(t *testing.T) {
	a := Extent{Ascent: -5, Descent: 2}
	b := Extent{Ascent: -8, Descent: 3}
	u := a.Union(b)
	if u.Ascent != -8 || u.Descent != 3 {
		t.Fatalf("Union = %+v, want {-8 3}", u)
	}
}
