package linebreak

import (
	"testing"

	"github.com/minikin-go/minikin/internal/u16"
	"github.com/minikin-go/minikin/layout"
)

func buildConstWidthMeasured(text []rune, run *constWidthRun, computeHyphenation bool) *layout.MeasuredText {
	return layout.Build(text, []layout.Run{run}, nil, nil, layout.BuildOptions{
		ComputeHyphenation: computeHyphenation,
	})
}

// TestBreakGreedyReproducesExampleTextScenario reproduces spec.md §8's
// worked scenario 1: "This is an example text." at 10px/codeunit with a
// 230px limit breaks after "example " (offset 19) and again at the text's
// end.
func TestBreakGreedyReproducesExampleTextScenario(t *testing.T) {
	text := []rune("This is an example text.")
	run := &constWidthRun{
		rng:       u16.Range{Start: 0, End: len(text)},
		wordStyle: layout.LineBreakWordStyleNone,
		charWidth: 10,
	}
	measured := buildConstWidthMeasured(text, run, false)

	got := BreakGreedy(text, measured, NewUniformLineWidth(230), TabStops{}, false, false)

	wantBreaks := []int{19, 24}
	wantWidths := []float32{180, 50}
	if len(got.BreakPoints) != len(wantBreaks) {
		t.Fatalf("BreakPoints = %v, want %v", got.BreakPoints, wantBreaks)
	}
	for i := range wantBreaks {
		if got.BreakPoints[i] != wantBreaks[i] {
			t.Errorf("BreakPoints[%d] = %d, want %d", i, got.BreakPoints[i], wantBreaks[i])
		}
		if got.Widths[i] != wantWidths[i] {
			t.Errorf("Widths[%d] = %v, want %v", i, got.Widths[i], wantWidths[i])
		}
	}
}

// TestBreakGreedyPartitionValidity checks spec.md §8's partition properties
// (strictly increasing break offsets, last offset == len(text)) hold across
// a range of line widths, including widths narrower than any single word.
func TestBreakGreedyPartitionValidity(t *testing.T) {
	text := []rune("This is an example text.")
	for _, width := range []float32{30, 60, 90, 150, 230, 1000} {
		run := &constWidthRun{
			rng:       u16.Range{Start: 0, End: len(text)},
			wordStyle: layout.LineBreakWordStyleNone,
			charWidth: 10,
		}
		measured := buildConstWidthMeasured(text, run, false)
		got := BreakGreedy(text, measured, NewUniformLineWidth(width), TabStops{}, false, false)

		if ok, reason := breakPointsStrictlyIncreasingAndComplete(got.BreakPoints, len(text)); !ok {
			t.Errorf("width=%v: %s (BreakPoints=%v)", width, reason, got.BreakPoints)
		}
	}
}

func TestBreakGreedyEmptyTextProducesNoBreaks(t *testing.T) {
	got := BreakGreedy(nil, nil, NewUniformLineWidth(100), TabStops{}, false, false)
	if len(got.BreakPoints) != 0 {
		t.Errorf("BreakGreedy(empty text) produced break points: %v", got.BreakPoints)
	}
}
