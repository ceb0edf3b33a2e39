package hanzilookup

// Quantization limits of SubStroke fields.
const (
	MaxDirection = 255
	MaxLength    = 255
	MaxCenter    = 15
)

// SubStroke is a quantized straight-line approximation of the segment
// between two pivot points of a stroke.
//
// Direction is in [0,255], where 0 points right and values grow
// counter-clockwise. Length is the segment length relative to the
// character's bounding square diagonal, in [0,255]. CenterX and CenterY
// locate the segment midpoint on a 16x16 grid over the character.
type SubStroke struct {
	Direction uint8
	Length    uint8
	CenterX   uint8
	CenterY   uint8
}

// AnalyzedStroke is a raw stroke together with its detected pivot points
// and the substrokes between consecutive pivots.
type AnalyzedStroke struct {
	Points       Stroke
	PivotIndexes []int
	SubStrokes   []SubStroke
}

// Pivots returns the pivot points of the stroke in order.
func (s AnalyzedStroke) Pivots() []Point {
	pts := make([]Point, len(s.PivotIndexes))
	for i, ix := range s.PivotIndexes {
		pts[i] = s.Points[ix]
	}
	return pts
}
