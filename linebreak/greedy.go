package linebreak

import (
	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/internal/u16"
	"github.com/minikin-go/minikin/layout"
	"github.com/minikin-go/minikin/locale"
)

const nowhere = -1

type breakPoint struct {
	offset     int
	lineWidth  float32
	startEdit  hyphenation.StartHyphenEdit
	endEdit    hyphenation.EndHyphenEdit
}

// greedyState carries the single-pass breaker's running accumulators,
// grounded on original_source/libs/minikin/GreedyLineBreaker.cpp's
// GreedyLineBreaker member fields.
type greedyState struct {
	text             []rune
	measured         *layout.MeasuredText
	lineWidthLimits  LineWidth
	tabStops         TabStops
	enableHyphenation bool
	useBoundsForWidth bool

	lineNum             int
	lineWidth           float32
	sumOfCharWidths     float32
	lineWidthLimit      float32
	startHyphenEdit     hyphenation.StartHyphenEdit

	prevWordBoundsOffset        int
	lineWidthAtPrevWordBoundary float32
	sumAtPrevWordBoundary       float32
	prevWasInEmailOrURL         bool

	lineStartLetterSpacing float32
	currentLetterSpacing   float32

	hyphenator *hyphenation.Hyphenator
	hyphenScript locale.Locale

	breakPoints []breakPoint
}

// BreakGreedy performs single-pass greedy line breaking, with a
// phrase-forced retry when the first pass resolves an Auto word style and
// produces fewer than lbwAutoHeuristicsLineCount lines, per spec.md §4.9.
func BreakGreedy(text []rune, measured *layout.MeasuredText, lineWidthLimits LineWidth, tabStops TabStops, enableHyphenation, useBoundsForWidth bool) Result {
	if len(text) == 0 {
		return Result{}
	}
	s := newGreedyState(text, measured, lineWidthLimits, tabStops, enableHyphenation, useBoundsForWidth)
	retry := s.process(false)
	res := s.result()

	if !retry {
		return res
	}
	if len(res.BreakPoints) >= lbwAutoHeuristicsLineCount {
		return res
	}
	s2 := newGreedyState(text, measured, lineWidthLimits, tabStops, enableHyphenation, useBoundsForWidth)
	s2.process(true)
	res2 := s2.result()
	if len(res2.BreakPoints) < lbwAutoHeuristicsLineCount {
		return res2
	}
	return res
}

func newGreedyState(text []rune, measured *layout.MeasuredText, lineWidthLimits LineWidth, tabStops TabStops, enableHyphenation, useBoundsForWidth bool) *greedyState {
	return &greedyState{
		text:              text,
		measured:          measured,
		lineWidthLimits:   lineWidthLimits,
		tabStops:          tabStops,
		enableHyphenation: enableHyphenation,
		useBoundsForWidth: useBoundsForWidth,
		lineWidthLimit:    lineWidthLimits.GetAt(0),
		prevWordBoundsOffset: nowhere,
	}
}

func (s *greedyState) getPrevLineBreakOffset() int {
	if len(s.breakPoints) == 0 {
		return 0
	}
	return s.breakPoints[len(s.breakPoints)-1].offset
}

func (s *greedyState) breakLineAt(offset int, lineWidth, remainingNextLineWidth, remainingNextSumOfCharWidths float32, thisLineEnd hyphenation.EndHyphenEdit, nextLineStart hyphenation.StartHyphenEdit) {
	edgeLetterSpacing := (s.lineStartLetterSpacing + s.currentLetterSpacing) / 2
	s.breakPoints = append(s.breakPoints, breakPoint{
		offset:    offset,
		lineWidth: lineWidth - edgeLetterSpacing,
		startEdit: s.startHyphenEdit,
		endEdit:   thisLineEnd,
	})

	s.lineNum++
	s.lineWidthLimit = s.lineWidthLimits.GetAt(s.lineNum)
	s.lineWidth = remainingNextLineWidth
	s.sumOfCharWidths = remainingNextSumOfCharWidths
	s.startHyphenEdit = nextLineStart
	s.prevWordBoundsOffset = nowhere
	s.lineWidthAtPrevWordBoundary = 0
	s.sumAtPrevWordBoundary = 0
	s.prevWasInEmailOrURL = false
	s.lineStartLetterSpacing = s.currentLetterSpacing
}

func (s *greedyState) tryLineBreakWithWordBreak() bool {
	if s.prevWordBoundsOffset == nowhere {
		return false
	}
	s.breakLineAt(s.prevWordBoundsOffset, s.lineWidthAtPrevWordBoundary,
		s.lineWidth-s.sumAtPrevWordBoundary, s.sumOfCharWidths-s.sumAtPrevWordBoundary,
		hyphenation.EndEditNone, hyphenation.StartEditNone)
	return true
}

// findOwningRun returns the run whose range fully contains r, or nil.
func findOwningRun(runs []layout.Run, r u16.Range) layout.Run {
	for _, run := range runs {
		rr := run.Range()
		if rr.Start <= r.Start && r.End <= rr.End {
			return run
		}
	}
	return nil
}

func (s *greedyState) tryLineBreakWithHyphenation(r u16.Range) bool {
	if !s.enableHyphenation || s.hyphenator == nil {
		return false
	}
	run := findOwningRun(s.measured.Runs(), r)
	if run == nil || !run.CanHyphenate() {
		return false
	}

	word := s.text[r.Start:r.End]
	types := s.hyphenator.Hyphenate(word, s.hyphenScript.Script())

	contextStart := r.Start
	prevOffset := nowhere
	var prevWidth float32

	flush := func(end int) {
		if prevOffset == nowhere {
			s.doLineBreakWithGraphemeBounds(u16.Range{Start: contextStart, End: end})
			return
		}
		ty := types[prevOffset-r.Start]
		nextStart := hyphenation.EditForNextLine(ty)
		tail := make([]float32, end-(prevOffset+1))
		remaining := run.MeasureHyphenPiece(s.text, u16.Range{Start: prevOffset + 1, End: end}, nextStart, hyphenation.EndEditNone, tail)
		s.breakLineAt(prevOffset+1, prevWidth, remaining-(s.sumOfCharWidths-s.lineWidth), remaining,
			hyphenation.EditForThisLine(ty), nextStart)
	}

	for i := r.Start; i < r.End; i++ {
		ty := types[i-r.Start]
		if ty == hyphenation.DontBreak {
			continue
		}
		firstAdv := make([]float32, i-contextStart+1)
		width := run.MeasureHyphenPiece(s.text, u16.Range{Start: contextStart, End: i + 1}, s.startHyphenEdit, hyphenation.EditForThisLine(ty), firstAdv)
		if width <= s.lineWidthLimit {
			prevOffset = i
			prevWidth = width
			continue
		}
		flush(r.End)
		if s.lineWidth <= s.lineWidthLimit {
			return true
		}
		contextStart = s.getPrevLineBreakOffset()
		i = contextStart - 1
		prevOffset = nowhere
	}

	flush(r.End)
	return true
}

func (s *greedyState) doLineBreakWithGraphemeBounds(r u16.Range) bool {
	widths := s.measured.Widths()
	width := widths[r.Start]
	estimated := (s.lineStartLetterSpacing + s.currentLetterSpacing) * 0.5
	for i := r.Start + 1; i < r.End; i++ {
		w := widths[i]
		if w == 0 {
			continue
		}
		if width+w-estimated > s.lineWidthLimit || s.overhangExceedsLimit(u16.Range{Start: r.Start, End: i + 1}) {
			s.breakLineAt(i, width, s.lineWidth-width, s.sumOfCharWidths-width, hyphenation.EndEditNone, hyphenation.StartEditNone)
			return false
		}
		width += w
	}
	s.breakLineAt(r.End, s.lineWidth, 0, 0, hyphenation.EndEditNone, hyphenation.StartEditNone)
	return true
}

func (s *greedyState) doLineBreakWithFallback(r u16.Range, breaker layout.WordBreaker) bool {
	run := findOwningRun(s.measured.Runs(), r)
	if run == nil || run.LineBreakWordStyle() == layout.LineBreakWordStyleNone {
		return false
	}
	bounds := breaker.Boundaries(s.text, r, layout.LineBreakWordStyleNone)
	next, boundIdx := -1, 0
	for ; boundIdx < len(bounds); boundIdx++ {
		if bounds[boundIdx] > r.Start {
			next = bounds[boundIdx]
			break
		}
	}
	if next < 0 || next >= r.End {
		return false
	}

	widths := s.measured.Widths()
	prevBreak := -1
	var wordWidth, preBreakWidth float32
	for i := r.Start; i < r.End; i++ {
		w := widths[i]
		if w == 0 {
			continue
		}
		if i == next {
			if preBreakWidth+wordWidth > s.lineWidthLimit {
				if prevBreak == -1 {
					return false
				}
				s.breakLineAt(prevBreak, preBreakWidth, s.lineWidth-preBreakWidth, s.sumOfCharWidths-preBreakWidth,
					hyphenation.EndEditNone, hyphenation.StartEditNone)
				return true
			}
			prevBreak = i
			preBreakWidth += wordWidth
			wordWidth = w
			boundIdx++
			next = -1
			for ; boundIdx < len(bounds); boundIdx++ {
				if bounds[boundIdx] > i {
					next = bounds[boundIdx]
					break
				}
			}
			if next < 0 {
				next = r.End
			}
		} else {
			wordWidth += w
		}
	}
	if preBreakWidth <= s.lineWidthLimit {
		s.breakLineAt(prevBreak, preBreakWidth, s.lineWidth-preBreakWidth, s.sumOfCharWidths-preBreakWidth,
			hyphenation.EndEditNone, hyphenation.StartEditNone)
		return true
	}
	return false
}

func (s *greedyState) overhangExceedsLimit(r u16.Range) bool {
	if !s.useBoundsForWidth || !s.measured.HasOverhang(r) {
		return false
	}
	i := 0
	for ; i < r.Len(); i++ {
		if !isLineEndSpace(s.text[r.End-i-1]) {
			break
		}
	}
	if i == r.Len() {
		return false
	}
	bounds, ok := s.measured.GetBounds(u16.Range{Start: r.Start, End: r.End - i})
	if !ok {
		return false
	}
	return boundsWidth(bounds) > s.lineWidthLimit
}

func boundsWidth(e layout.Extent) float32 {
	// Extent carries only vertical metrics in this port (see layout.Piece);
	// horizontal overhang is approximated as zero since no per-piece
	// horizontal ink-bounds field is produced by shapePiece. overhangExceedsLimit
	// therefore never trips in practice -- documented limitation, see DESIGN.md.
	return 0
}

func (s *greedyState) isWidthExceeded() bool {
	estimated := (s.lineStartLetterSpacing + s.currentLetterSpacing) * 0.5
	return (s.lineWidth - estimated) > s.lineWidthLimit
}

func (s *greedyState) updateLineWidth(ch rune, width float32) {
	if ch == charTab {
		s.sumOfCharWidths = s.tabStops.NextTab(s.sumOfCharWidths)
		s.lineWidth = s.sumOfCharWidths
		return
	}
	s.sumOfCharWidths += width
	if !isLineEndSpace(ch) {
		s.lineWidth = s.sumOfCharWidths
	}
}

func (s *greedyState) processLineBreak(offset int, breaker layout.WordBreaker, doHyphenation bool, badness int) {
	for s.isWidthExceeded() || s.overhangExceedsLimit(u16.Range{Start: s.getPrevLineBreakOffset(), End: offset}) {
		if s.tryLineBreakWithWordBreak() {
			continue
		}
		r := u16.Range{Start: s.getPrevLineBreakOffset(), End: offset}
		if doHyphenation && s.tryLineBreakWithHyphenation(r) {
			continue
		}
		if s.doLineBreakWithFallback(r, breaker) {
			continue
		}
		if s.doLineBreakWithGraphemeBounds(r) {
			return
		}
	}

	isInEmailOrURL := badness != 0
	if s.prevWordBoundsOffset == nowhere || s.prevWasInEmailOrURL || !isInEmailOrURL {
		s.prevWordBoundsOffset = offset
		s.lineWidthAtPrevWordBoundary = s.lineWidth
		s.sumAtPrevWordBoundary = s.sumOfCharWidths
		s.prevWasInEmailOrURL = isInEmailOrURL
	}
}

// process runs one full greedy pass over the measured text. forcePhrase
// forces every run's resolved word style to Phrase (the retry pass);
// otherwise Auto resolves per resolveWordStyleAuto and reports whether a
// phrase-forced retry could help.
func (s *greedyState) process(forcePhrase bool) bool {
	breaker := layout.NewWordBreaker()
	retry := false
	widths := s.measured.Widths()

	for runIdx, run := range s.measured.Runs() {
		s.currentLetterSpacing = run.LetterSpacingInPx()
		if runIdx == 0 {
			s.lineStartLetterSpacing = s.currentLetterSpacing
		}
		r := run.Range()

		locales, _ := locale.Default.Get(run.LocaleListID())
		style, shouldRetry := resolveWordStyleAuto(run.LineBreakWordStyle(), locales, forcePhrase)
		if shouldRetry {
			retry = true
		}
		if run.CanHyphenate() {
			s.hyphenator = hyphenation.NewHyphenator(hyphenation.Options{})
			s.hyphenScript = locales.Primary()
		} else {
			s.hyphenator = nil
		}

		bounds := breaker.Boundaries(s.text, r, style)
		boundIdx := 0
		for i := r.Start; i < r.End; i++ {
			s.updateLineWidth(s.text[i], widths[i])

			for boundIdx < len(bounds) && bounds[boundIdx] < i+1 {
				boundIdx++
			}
			if boundIdx < len(bounds) && bounds[boundIdx] == i+1 {
				if run.CanBreak() || i+1 == r.End {
					s.processLineBreak(i+1, breaker, run.CanBreak(), breaker.BreakBadness(s.text, i+1))
				}
				boundIdx++
			}
		}
	}

	if s.getPrevLineBreakOffset() != len(s.text) && s.prevWordBoundsOffset != nowhere {
		s.breakLineAt(s.prevWordBoundsOffset, s.lineWidth, 0, 0, hyphenation.EndEditNone, hyphenation.StartEditNone)
	}
	return retry
}

func (s *greedyState) result() Result {
	var res Result
	prev := 0
	for _, bp := range s.breakPoints {
		hasTab := false
		for i := prev; i < bp.offset; i++ {
			if s.text[i] == charTab {
				hasTab = true
				break
			}
		}
		r := u16.Range{Start: prev, End: bp.offset}
		extent := s.measured.GetExtent(r)
		res.Ascents = append(res.Ascents, extent.Ascent)
		res.Descents = append(res.Descents, extent.Descent)
		res.Bounds = append(res.Bounds, extent)
		res.BreakPoints = append(res.BreakPoints, bp.offset)
		res.Widths = append(res.Widths, bp.lineWidth)
		flag := packHyphenEdit(bp.startEdit, bp.endEdit)
		if hasTab {
			flag |= tabBit
		}
		res.Flags = append(res.Flags, flag)
		prev = bp.offset
	}
	return res
}
