package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minikin-go/minikin/internal/u16"
)

// TestMeasuredTextAdvancePartition pins the "advance partition" invariant
// from spec.md §8: the per-codeunit widths MeasuredText reports for a run
// must sum (within floating-point epsilon) to that run's total advance.
func TestMeasuredTextAdvancePartition(t *testing.T) {
	text := []rune("AB C")
	runs := []Run{
		&ReplacementRun{Range_: u16.Range{Start: 0, End: 1}, Width: 12.5},
		&ReplacementRun{Range_: u16.Range{Start: 1, End: 2}, Width: 7.25},
		&ReplacementRun{Range_: u16.Range{Start: 2, End: 3}, Width: 0},
		&ReplacementRun{Range_: u16.Range{Start: 3, End: 4}, Width: 9.0},
	}
	mt := Build(text, runs, nil, nil, BuildOptions{})

	var total float32
	for _, w := range mt.Widths() {
		total += w
	}
	require.InDelta(t, 28.75, total, 1e-5, "partitioned widths must sum to the total of every run's advance")
}

// TestMeasuredTextGetExtentUnionIsMonotone pins that widening the queried
// range never shrinks the reported extent (cluster/extent conservation:
// more codeunits can only add coverage, never remove it).
func TestMeasuredTextGetExtentUnionIsMonotone(t *testing.T) {
	text := []rune("AB")
	runs := []Run{
		&ReplacementRun{Range_: u16.Range{Start: 0, End: 1}, Width: 1},
		&ReplacementRun{Range_: u16.Range{Start: 1, End: 2}, Width: 1},
	}
	mt := Build(text, runs, nil, nil, BuildOptions{})
	mt.extents[0] = Extent{Ascent: -10, Descent: 2}
	mt.extents[1] = Extent{Ascent: -4, Descent: 6}

	narrow := mt.GetExtent(u16.Range{Start: 0, End: 1})
	wide := mt.GetExtent(u16.Range{Start: 0, End: 2})

	require.LessOrEqual(t, wide.Ascent, narrow.Ascent, "widening the range must not lower the ascent magnitude")
	require.GreaterOrEqual(t, wide.Descent, narrow.Descent, "widening the range must not lower the descent magnitude")
}
