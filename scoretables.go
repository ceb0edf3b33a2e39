package hanzilookup

import (
	"math"
	"sync"
)

const (
	// DirectionTableSize covers every absolute difference of two quantized
	// directions.
	DirectionTableSize = 256
	// LengthTableSize covers length ratios scaled by 128, inclusive.
	LengthTableSize = 129
	// PositionTableSize covers squared distances between two quantized
	// centers: 15² + 15² = 450, inclusive.
	PositionTableSize = 451

	// positionDistanceScale maps center distance [0, 21.21] into closeness
	// [1, ~0.036].
	positionDistanceScale = 22
)

// ScoreTables holds the precomputed lookup tables used when comparing two
// substrokes. A ScoreTables value is never modified after it is built and
// may be shared by any number of concurrent matchers.
type ScoreTables struct {
	// Direction is indexed by |dir1 - dir2|. It drops as the directions
	// diverge, goes negative around a right angle and recovers towards 1
	// near full reversal, since strokes written backwards still carry some
	// information.
	Direction [DirectionTableSize]float64

	// Length is indexed by round(128 * shorter / longer). It rises quickly
	// and levels off: only grossly different lengths are penalized.
	Length [LengthTableSize]float64

	// Position is indexed by the squared distance of two quantized centers.
	Position [PositionTableSize]float64
}

var (
	defaultTablesOnce sync.Once
	defaultTables     *ScoreTables
)

// DefaultScoreTables returns the shared score tables, building them on
// first use.
func DefaultScoreTables() *ScoreTables {
	defaultTablesOnce.Do(func() {
		defaultTables = NewScoreTables()
	})
	return defaultTables
}

// NewScoreTables builds a fresh set of score tables by sampling the
// direction and length shaping curves.
func NewScoreTables() *ScoreTables {
	st := &ScoreTables{}

	dirCurve := NewCubicCurve(0, 1.0, 0.5, 1.0, 0.25, -2.0, 1.0, 1.0)
	sampleCurve(dirCurve, st.Direction[:])

	lenCurve := NewCubicCurve(0, 0, 0.25, 1.0, 0.75, 1.0, 1.0, 1.0)
	sampleCurve(lenCurve, st.Length[:])

	for i := range st.Position {
		st.Position[i] = 1 - math.Sqrt(float64(i))/positionDistanceScale
	}
	return st
}

// sampleCurve fills table with y values taken at len(table) evenly spaced
// x positions starting at the curve's first end point. The last sample
// falls one step short of X2.
func sampleCurve(curve CubicCurve, table []float64) {
	xInc := (curve.X2 - curve.X1) / float64(len(table))
	x := curve.X1
	for i := range table {
		table[i] = curve.YForX(math.Min(x, curve.X2))
		x += xInc
	}
}

// directionScore scores two quantized directions. Short input substrokes
// get a bonus that pulls the score towards 1, since the direction of a
// dot-like stroke carries little information.
func (st *ScoreTables) directionScore(inputDir, refDir, inputLength uint8) float64 {
	theta := int(inputDir) - int(refDir)
	if theta < 0 {
		theta = -theta
	}
	score := st.Direction[theta]
	if inputLength < shortSubStrokeLength {
		bonusMax := math.Min(1.0, 1.0-score)
		score += bonusMax * (1 - float64(inputLength)/shortSubStrokeLength)
	}
	return score
}

// lengthScore scores two quantized lengths by their ratio.
func (st *ScoreTables) lengthScore(length1, length2 uint8) float64 {
	long, short := float64(length1), float64(length2)
	if length2 > length1 {
		long, short = short, long
	}
	if long == 0 {
		// Two zero-length substrokes are identical.
		return st.Length[LengthTableSize-1]
	}
	ratio := int(math.Round(short * 128 / long))
	return st.Length[ratio]
}

// shortSubStrokeLength is the quantized length below which the short
// stroke direction bonus applies.
const shortSubStrokeLength = 64
