package linebreak

import (
	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/internal/u16"
	"github.com/minikin-go/minikin/layout"
	"github.com/minikin-go/minikin/locale"
)

// Large scores in a hierarchy: desperate breaks are preferred to an
// overfull line, which is preferred to nothing fitting at all. All are
// larger than any reasonable width-delta-squared score, per
// original_source/libs/minikin/OptimalLineBreaker.cpp.
const (
	scoreOverfull  = 1e12
	scoreDesperate = 1e10
	scoreFallback  = 1e6

	lastLinePenaltyMultiplier = 4.0
	linePenaltyMultiplier     = 2.0
	shrinkPenaltyMultiplier   = 4.0
	shrinkability             = 1.0 / 3.0
)

// candidate is a single line-break opportunity: its text offset, the
// running pre/post-break width (already adjusted by ±½ letter-spacing at
// the edges), a penalty, space counts on either side, its hyphenation
// type, and run direction, per spec.md §4.10.
type candidate struct {
	offset         int
	preBreak       float32
	postBreak      float32
	penalty        float32
	preSpaceCount  int
	postSpaceCount int
	hyphenType     hyphenation.HyphenationType
	isRTL          bool
}

type optimizeContext struct {
	candidates   []candidate
	linePenalty  float32
	spaceWidth   float32
	maxCharWidth float32
	retry        bool
}

func (c *optimizeContext) push(offset int, preBreak, postBreak, penalty float32, preSpace, postSpace int, ty hyphenation.HyphenationType, isRTL bool, letterSpacing float32) {
	half := letterSpacing / 2
	c.candidates = append(c.candidates, candidate{
		offset:         offset,
		preBreak:       preBreak + half,
		postBreak:      postBreak - half,
		penalty:        penalty,
		preSpaceCount:  preSpace,
		postSpaceCount: postSpace,
		hyphenType:     ty,
		isRTL:          isRTL,
	})
}

// computeRunPenalties derives the run's hyphenation and per-line penalty,
// per spec.md §4.10 "Penalty calibration".
func computeRunPenalties(run layout.Run, size, scaleX float32, lineWidth LineWidth, frequency HyphenationFrequency, justified bool) (hyphenPenalty, linePenalty float32) {
	hyphenPenalty = 0.5 * size * scaleX * lineWidth.GetAt(0)
	if frequency == HyphenationNormal {
		hyphenPenalty *= 4.0
	}
	if justified {
		hyphenPenalty *= 0.25
	} else {
		linePenalty = hyphenPenalty * linePenaltyMultiplier
	}
	return
}

func wordBreakPenaltyMultiplier(badness int) float32 {
	if badness != 0 {
		return 2.0 // discourage breaking inside emails/URLs
	}
	return 1.0
}

// populateDesperateBreaks returns grapheme-cluster-level breaks within r
// (any word wider than the narrowest configured line width needs these as
// a last resort), tagging the ones that land on a coarser word-style
// fallback boundary with scoreFallback instead of scoreDesperate, per
// spec.md §4.10 and GreedyLineBreaker.cpp's populateDesperatePoints.
func populateDesperateBreaks(text []rune, widths []float32, r u16.Range, run layout.Run, breaker layout.WordBreaker) []struct {
	offset int
	width  float32
	score  float32
} {
	var out []struct {
		offset int
		width  float32
		score  float32
	}
	fallbacks := map[int]bool{}
	if run.LineBreakWordStyle() != layout.LineBreakWordStyleNone {
		for _, b := range breaker.Boundaries(text, r, layout.LineBreakWordStyleNone) {
			fallbacks[b] = true
		}
	}
	width := widths[r.Start]
	for i := r.Start + 1; i < r.End; i++ {
		w := widths[i]
		if w == 0 {
			continue
		}
		score := float32(scoreDesperate)
		if fallbacks[i] {
			score = scoreFallback
		}
		out = append(out, struct {
			offset int
			width  float32
			score  float32
		}{i, width, score})
		width += w
	}
	return out
}

// populateCandidates enumerates every word-break, desperate-break, and
// hyphenation-break candidate across the measured text, per spec.md §4.10.
func populateCandidates(text []rune, measured *layout.MeasuredText, lineWidth LineWidth, frequency HyphenationFrequency, justified, forcePhrase bool) optimizeContext {
	minLineWidth := lineWidth.GetMin()
	breaker := layout.NewWordBreaker()
	widths := measured.Widths()

	var initialLetterSpacing float32
	runs := measured.Runs()
	if len(runs) > 0 {
		initialLetterSpacing = runs[0].LetterSpacingInPx()
	}

	ctx := optimizeContext{}
	ctx.push(0, 0, 0, 0, 0, 0, hyphenation.DontBreak, false, initialLetterSpacing)

	doHyphenation := frequency != HyphenationNone

	for _, run := range runs {
		isRTL := run.IsRTL()
		r := run.Range()
		letterSpacing := run.LetterSpacingInPx()

		var hyphenPenalty float32
		if run.CanBreak() {
			var lp float32
			hyphenPenalty, lp = computeRunPenalties(run, 1, 1, lineWidth, frequency, justified)
			if lp > ctx.linePenalty {
				ctx.linePenalty = lp
			}
		}

		locales, _ := locale.Default.Get(run.LocaleListID())
		style, retry := resolveWordStyleAuto(run.LineBreakWordStyle(), locales, forcePhrase)
		if retry {
			ctx.retry = true
		}

		bounds := breaker.Boundaries(text, r, style)
		wordStart := r.Start
		sumFromWordStart := float32(0)
		runningSum := float32(0)

		boundIdx := 0
		for i := r.Start; i < r.End; i++ {
			w := widths[i]
			runningSum += w
			sumFromWordStart += w
			if w > 0 {
				ctx.maxCharWidth = maxf32(ctx.maxCharWidth, w)
			}
			if isLineEndSpace(text[i]) {
				ctx.spaceWidth = w
			}

			canBreak := run.CanBreak() || i+1 == r.End
			if !canBreak {
				continue
			}
			for boundIdx < len(bounds) && bounds[boundIdx] < i+1 {
				boundIdx++
			}
			if boundIdx >= len(bounds) || bounds[boundIdx] != i+1 {
				continue
			}
			wordEnd := i + 1

			wordRange := u16.Range{Start: wordStart, End: wordEnd}
			if doHyphenation && run.CanHyphenate() {
				lineStart := runningSum - sumFromWordStart
				for _, hb := range measured.HyphenBreaksForWord(wordStart) {
					plainWidth := sumWidths(widths, wordStart, hb.Offset+1)
					ctx.push(hb.Offset+1, lineStart+hb.FirstPartWidth, lineStart+plainWidth,
						hyphenPenalty, 0, 0, hb.Type, isRTL, letterSpacing)
				}
			}

			if sumFromWordStart > minLineWidth {
				for _, d := range populateDesperateBreaks(text, widths, wordRange, run, breaker) {
					score := d.score
					ctx.push(d.offset, runningSum-sumFromWordStart+d.width, runningSum-sumFromWordStart+d.width,
						score, 0, 0, hyphenation.BreakAndDontInsertHyphen, isRTL, letterSpacing)
				}
			}

			preSpace, postSpace := 0, 0
			if wordEnd < len(text) && isLineEndSpace(text[wordEnd-1]) {
				preSpace = 1
			}
			penalty := hyphenPenalty * wordBreakPenaltyMultiplier(breaker.BreakBadness(text, wordEnd))
			ctx.push(wordEnd, runningSum, runningSum, penalty, preSpace, postSpace, hyphenation.DontBreak, isRTL, letterSpacing)

			wordStart = wordEnd
			sumFromWordStart = 0
			boundIdx++
		}
	}
	return ctx
}

func sumWidths(widths []float32, start, end int) float32 {
	var s float32
	for i := start; i < end && i < len(widths); i++ {
		s += widths[i]
	}
	return s
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

type optimalBreakData struct {
	score      float32
	prev       int
	lineNumber int
}

// BreakOptimal runs the dynamic-programming line breaker, minimizing a
// weighted sum of squared width deviations plus hyphen/line penalties, per
// spec.md §4.10.
func BreakOptimal(text []rune, measured *layout.MeasuredText, lineWidth LineWidth, strategy BreakStrategy, frequency HyphenationFrequency, justified, useBoundsForWidth bool) Result {
	if len(text) == 0 {
		return Result{}
	}
	ctx := populateCandidates(text, measured, lineWidth, frequency, justified, false)
	res := computeOptimalBreaks(text, measured, ctx, lineWidth, strategy, justified, useBoundsForWidth)

	if !ctx.retry || len(res.BreakPoints) >= lbwAutoHeuristicsLineCount {
		return res
	}
	phCtx := populateCandidates(text, measured, lineWidth, frequency, justified, true)
	res2 := computeOptimalBreaks(text, measured, phCtx, lineWidth, strategy, justified, useBoundsForWidth)
	if len(res2.BreakPoints) < lbwAutoHeuristicsLineCount {
		return res2
	}
	return res
}

func computeOptimalBreaks(text []rune, measured *layout.MeasuredText, ctx optimizeContext, lineWidth LineWidth, strategy BreakStrategy, justified, useBoundsForWidth bool) Result {
	cands := ctx.candidates
	nCand := len(cands)
	active := 0
	maxShrink := float32(0)
	if justified {
		maxShrink = shrinkability * ctx.spaceWidth
	}
	deltaMax := ctx.maxCharWidth * 2

	data := make([]optimalBreakData, nCand)

	for i := 1; i < nCand; i++ {
		atEnd := i == nCand-1
		best := float32(1.7e38) // SCORE_INFTY analogue: largest practical float32
		bestPrev := 0

		lineNumberLast := data[active].lineNumber
		width := lineWidth.GetAt(lineNumberLast)
		leftEdge := cands[i].postBreak - width
		bestHope := float32(0)

		for j := active; j < i; j++ {
			lineNumber := data[j].lineNumber
			if lineNumber != lineNumberLast {
				widthNew := lineWidth.GetAt(lineNumber)
				if widthNew != width {
					leftEdge = cands[i].postBreak - width
					bestHope = 0
					width = widthNew
				}
				lineNumberLast = lineNumber
			}
			jScore := data[j].score
			if jScore+bestHope >= best {
				continue
			}
			delta := cands[j].preBreak - leftEdge

			if useBoundsForWidth && delta >= 0 && delta < deltaMax &&
				cands[i].hyphenType == hyphenation.DontBreak && cands[j].hyphenType == hyphenation.DontBreak {
				r := u16.Range{Start: cands[j].offset, End: cands[i].offset}
				if measured.HasOverhang(r) {
					if bounds, ok := measured.GetBounds(r); ok {
						boundsDelta := width - boundsWidth(bounds)
						if boundsDelta < 0 {
							delta = boundsDelta
						}
					}
				}
			}

			var widthScore, additionalPenalty float32
			switch {
			case (atEnd || !justified) && delta < 0:
				widthScore = scoreOverfull
			case atEnd && strategy != StrategyBalanced:
				additionalPenalty = lastLinePenaltyMultiplier * cands[j].penalty
			default:
				widthScore = delta * delta
				if delta < 0 {
					spaceCountDiff := float32(cands[i].postSpaceCount - cands[j].preSpaceCount)
					if -delta < maxShrink*spaceCountDiff {
						widthScore *= shrinkPenaltyMultiplier
					} else {
						widthScore = scoreOverfull
					}
				}
			}

			if delta < 0 {
				active = j + 1
			} else {
				bestHope = widthScore
			}

			score := jScore + widthScore + additionalPenalty
			if score <= best {
				best = score
				bestPrev = j
			}
		}
		data[i] = optimalBreakData{
			score:      best + cands[i].penalty + ctx.linePenalty,
			prev:       bestPrev,
			lineNumber: data[bestPrev].lineNumber + 1,
		}
	}

	return finishOptimalBreaks(text, measured, data, cands, useBoundsForWidth)
}

func finishOptimalBreaks(text []rune, measured *layout.MeasuredText, data []optimalBreakData, cands []candidate, useBoundsForWidth bool) Result {
	var rev Result
	nCand := len(cands)
	if nCand == 0 {
		return rev
	}
	for i, prevIdx := nCand-1, 0; i > 0; i = prevIdx {
		prevIdx = data[i].prev
		cand := cands[i]
		prev := cands[prevIdx]

		rev.BreakPoints = append(rev.BreakPoints, cand.offset)
		rev.Widths = append(rev.Widths, cand.postBreak-prev.preBreak)

		r := u16.Range{Start: prev.offset, End: cand.offset}
		extent := measured.GetExtent(r)
		rev.Ascents = append(rev.Ascents, extent.Ascent)
		rev.Descents = append(rev.Descents, extent.Descent)
		rev.Bounds = append(rev.Bounds, extent)

		flag := packHyphenEdit(hyphenation.EditForNextLine(prev.hyphenType), hyphenation.EditForThisLine(cand.hyphenType))
		rev.Flags = append(rev.Flags, flag)
	}
	return reverseResult(rev)
}

func reverseResult(r Result) Result {
	var out Result
	n := len(r.BreakPoints)
	out.BreakPoints = make([]int, n)
	out.Widths = make([]float32, n)
	out.Ascents = make([]float32, n)
	out.Descents = make([]float32, n)
	out.Bounds = make([]layout.Extent, n)
	out.Flags = make([]uint32, n)
	for i := 0; i < n; i++ {
		j := n - 1 - i
		out.BreakPoints[i] = r.BreakPoints[j]
		out.Widths[i] = r.Widths[j]
		out.Ascents[i] = r.Ascents[j]
		out.Descents[i] = r.Descents[j]
		out.Bounds[i] = r.Bounds[j]
		out.Flags[i] = r.Flags[j]
	}
	return out
}
