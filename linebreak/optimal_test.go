package linebreak

import (
	"testing"

	"github.com/minikin-go/minikin/internal/u16"
	"github.com/minikin-go/minikin/layout"
)

// TestBreakOptimalWholeTextFitsOneLine is a deterministic baseline: when the
// available width comfortably exceeds the text's total advance, the
// dynamic-programming breaker must not introduce extra lines (every extra
// line only adds width-deviation and per-line penalty), per spec.md §4.10.
func TestBreakOptimalWholeTextFitsOneLine(t *testing.T) {
	text := []rune("This is an example text.")
	run := &constWidthRun{
		rng:       u16.Range{Start: 0, End: len(text)},
		wordStyle: layout.LineBreakWordStyleNone,
		charWidth: 10,
	}
	measured := buildConstWidthMeasured(text, run, false)

	got := BreakOptimal(text, measured, NewUniformLineWidth(1000), StrategyGreedy, HyphenationNone, false, false)

	if len(got.BreakPoints) != 1 || got.BreakPoints[0] != len(text) {
		t.Fatalf("BreakPoints = %v, want a single break at %d", got.BreakPoints, len(text))
	}
	if got.Widths[0] != float32(len(text))*10 {
		t.Errorf("Widths[0] = %v, want %v", got.Widths[0], float32(len(text))*10)
	}
}

// TestBreakOptimalPartitionValidity checks spec.md §8's partition properties
// hold across a range of line widths for the dynamic-programming breaker.
func TestBreakOptimalPartitionValidity(t *testing.T) {
	text := []rune("This is an example text.")
	for _, width := range []float32{30, 60, 90, 150, 230, 1000} {
		run := &constWidthRun{
			rng:       u16.Range{Start: 0, End: len(text)},
			wordStyle: layout.LineBreakWordStyleNone,
			charWidth: 10,
		}
		measured := buildConstWidthMeasured(text, run, false)
		got := BreakOptimal(text, measured, NewUniformLineWidth(width), StrategyHighQuality, HyphenationNone, false, false)

		if ok, reason := breakPointsStrictlyIncreasingAndComplete(got.BreakPoints, len(text)); !ok {
			t.Errorf("width=%v: %s (BreakPoints=%v)", width, reason, got.BreakPoints)
		}
	}
}

// TestBreakOptimalHyphenationProducesValidPartition exercises the
// hyphenation-candidate path (populateCandidates' measured.HyphenBreaksForWord
// branch): a single unbreakable word, too wide for the configured line width,
// forces the DP to fall back on a mid-word hyphenation candidate. Only
// partition validity is asserted -- finishOptimalBreaks' width formula for a
// candidate ending in a hyphen edit is not one of the properties under test
// here.
func TestBreakOptimalHyphenationProducesValidPartition(t *testing.T) {
	text := []rune("example")
	run := &constWidthRun{
		rng:          u16.Range{Start: 0, End: len(text)},
		wordStyle:    layout.LineBreakWordStyleNone,
		hyphenatable: true,
		charWidth:    10,
	}
	measured := buildConstWidthMeasured(text, run, true)

	got := BreakOptimal(text, measured, NewUniformLineWidth(50), StrategyHighQuality, HyphenationNormal, false, false)

	if ok, reason := breakPointsStrictlyIncreasingAndComplete(got.BreakPoints, len(text)); !ok {
		t.Fatalf("%s (BreakPoints=%v)", reason, got.BreakPoints)
	}
	if len(got.BreakPoints) < 2 {
		t.Errorf("a 70px word under a 50px limit should need a mid-word hyphen break, got a single line %v", got.BreakPoints)
	}
}

func TestBreakOptimalEmptyTextProducesNoBreaks(t *testing.T) {
	got := BreakOptimal(nil, nil, NewUniformLineWidth(100), StrategyGreedy, HyphenationNone, false, false)
	if len(got.BreakPoints) != 0 {
		t.Errorf("BreakOptimal(empty text) produced break points: %v", got.BreakPoints)
	}
}
