package hanzilookup

import "math"

// Constants used when decomposing a stroke into substrokes. They are tuned
// together with the reference datasets and must not change independently.
const (
	// MinSegmentLength is the distance in pixels under which two adjacent
	// pivots are merged.
	MinSegmentLength = 12.5
	// MaxLocalLengthRatio is how much longer the path across the last
	// mini-segment may be than its chord before a corner is assumed.
	MaxLocalLengthRatio = 1.1
	// MaxRunningLengthRatio is how much longer the path since the last
	// pivot may be than its chord before a gradual curve is split.
	MaxRunningLengthRatio = 1.09
)

// AnalyzedCharacter is the result of analyzing raw stroke input: the
// bounding box, each stroke with its pivots and substrokes, and the total
// substroke count. It is not modified after Analyze returns.
type AnalyzedCharacter struct {
	Bounds         Rect
	Strokes        []AnalyzedStroke
	SubStrokeCount int
}

// Analyze decomposes raw strokes into substrokes. Strokes without points
// are ignored; a stroke with a single point yields no substrokes. Empty
// input produces a character with SubStrokeCount 0, which matches nothing.
func Analyze(strokes []Stroke) *AnalyzedCharacter {
	bounds := boundsOf(strokes)
	ac := &AnalyzedCharacter{
		Strokes: make([]AnalyzedStroke, 0, len(strokes)),
	}
	for _, stroke := range strokes {
		if len(stroke) == 0 {
			continue
		}
		pivots := pivotIndexes(stroke)
		subStrokes := buildSubStrokes(stroke, pivots, bounds)
		ac.SubStrokeCount += len(subStrokes)
		ac.Strokes = append(ac.Strokes, AnalyzedStroke{
			Points:       stroke,
			PivotIndexes: pivots,
			SubStrokes:   subStrokes,
		})
	}
	ac.Bounds = clampBounds(bounds)
	return ac
}

// StrokeCount returns the number of analyzed strokes.
func (ac *AnalyzedCharacter) StrokeCount() int {
	return len(ac.Strokes)
}

// FlatSubStrokes returns all substrokes in stroke order.
func (ac *AnalyzedCharacter) FlatSubStrokes() []SubStroke {
	flat := make([]SubStroke, 0, ac.SubStrokeCount)
	for _, s := range ac.Strokes {
		flat = append(flat, s.SubStrokes...)
	}
	return flat
}

// pivotIndexes finds the points of a stroke where a new substroke starts.
//
// localLength tracks the path length across the last mini-segment (three
// points); if it is much longer than the chord between its ends, there is
// a corner. runningLength tracks the path length since the last pivot; if
// it grows much longer than the chord from that pivot, a long curve has
// turned far enough to warrant a new substroke.
func pivotIndexes(points Stroke) []int {
	if len(points) < 2 {
		return []int{0}
	}
	markers := make([]bool, len(points))

	prevPtIx := 0
	firstPtIx := 0
	pivotPtIx := 1

	// The first point is always a pivot.
	markers[0] = true

	localLength := dist(points[firstPtIx], points[pivotPtIx])
	runningLength := localLength

	for i := 2; i < len(points); i++ {
		nextPoint := points[i]

		pivotLength := dist(points[pivotPtIx], nextPoint)
		localLength += pivotLength
		runningLength += pivotLength

		distFromPrevious := dist(points[prevPtIx], nextPoint)
		distFromFirst := dist(points[firstPtIx], nextPoint)
		if localLength > MaxLocalLengthRatio*distFromPrevious ||
			runningLength > MaxRunningLengthRatio*distFromFirst {
			// Drop a preceding pivot that sits too close to this one. The
			// first point stays: substrokes always start there anyway.
			if markers[prevPtIx] && prevPtIx != 0 &&
				dist(points[prevPtIx], points[pivotPtIx]) < MinSegmentLength {
				markers[prevPtIx] = false
			}
			markers[pivotPtIx] = true
			runningLength = pivotLength
			firstPtIx = pivotPtIx
		}
		localLength = pivotLength
		prevPtIx = pivotPtIx
		pivotPtIx = i
	}

	// The last point is always a pivot. Pointer input often leaves a tiny
	// trailing segment, so unmark the point before it when it is a pivot
	// and very close, unless that would leave the stroke a single pivot.
	markers[pivotPtIx] = true
	if markers[prevPtIx] && prevPtIx != 0 &&
		dist(points[prevPtIx], points[pivotPtIx]) < MinSegmentLength {
		markers[prevPtIx] = false
	}

	res := make([]int, 0, 4)
	for i, m := range markers {
		if m {
			res = append(res, i)
		}
	}
	return res
}

// buildSubStrokes quantizes the segments between consecutive pivots.
func buildSubStrokes(points Stroke, pivots []int, bounds Rect) []SubStroke {
	res := make([]SubStroke, 0, len(pivots))
	prevIx := 0
	for _, ix := range pivots {
		if ix == prevIx {
			continue
		}
		a, b := points[prevIx], points[ix]

		direction := math.Round(dir(a, b) * 256.0 / math.Pi / 2.0)
		if direction == 256 {
			direction = 0
		}
		length := math.Round(normDist(a, b, bounds) * MaxLength)
		cx, cy := normCenter(a, b, bounds)

		res = append(res, SubStroke{
			Direction: uint8(direction),
			Length:    uint8(length),
			CenterX:   quantizeCenter(cx),
			CenterY:   quantizeCenter(cy),
		})
		prevIx = ix
	}
	return res
}

// quantizeCenter maps a normalized coordinate onto the 16-step grid.
func quantizeCenter(v float64) uint8 {
	q := math.Round(v * MaxCenter)
	return uint8(math.Max(0, math.Min(MaxCenter, q)))
}
