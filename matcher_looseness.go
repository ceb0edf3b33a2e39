package hanzilookup

import "math"

// countWindow is an inclusive range of acceptable stroke or substroke
// counts.
type countWindow struct {
	min, max int
}

// newCountWindow centers a window of half-width r on n, never below 1 and
// never above limit.
func newCountWindow(n, r, limit int) countWindow {
	return countWindow{
		min: max(n-r, 1),
		max: min(n+r, limit),
	}
}

func (w countWindow) contains(n int) bool {
	return n >= w.min && n <= w.max
}

// strokesRange returns how many strokes a candidate may differ from the
// input by. The curve grows slowly at first and then quickly, so that a
// looseness near 1 considers every character.
func strokesRange(looseness float64, strokeCount int) int {
	switch looseness {
	case 0:
		return 0
	case 1:
		return MaxCharacterStrokeCount
	}
	curve := NewCubicCurve(
		0, 0,
		0.35, float64(strokeCount)*0.4,
		0.6, float64(strokeCount),
		1, MaxCharacterStrokeCount,
	)
	return sampleRange(curve, looseness)
}

// subStrokesRange returns how many substrokes a candidate may differ from
// the input by. The same value bounds how far apart in sequence two
// substrokes may be and still be compared, which keeps alignment cheap at
// low looseness.
func subStrokesRange(looseness float64, subStrokeCount int) int {
	switch looseness {
	case 0:
		return 0
	case 1:
		return MaxCharacterSubStrokeCount
	}
	y0 := float64(subStrokeCount) * 0.25
	ctrl1Y := 1.5 * y0
	curve := NewCubicCurve(
		0, y0,
		0.4, ctrl1Y,
		0.75, 1.5*ctrl1Y,
		1, MaxCharacterSubStrokeCount,
	)
	return sampleRange(curve, looseness)
}

// sampleRange reads the curve's y at x = looseness and rounds it to a
// non-negative count.
func sampleRange(curve CubicCurve, looseness float64) int {
	y := curve.YForX(looseness)
	if math.IsNaN(y) || y < 0 {
		return 0
	}
	return int(math.Round(y))
}
