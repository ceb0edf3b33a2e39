package hanzilookup

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is a single input sample in device (pixel) coordinates. Y grows
// downwards, as on a canvas.
type Point struct {
	X, Y float64
}

// MarshalJSON encodes the point as an [x, y] pair.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes an [x, y] pair.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("%w: point must have 2 coordinates, got %d",
			ErrInvalidArgument, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Stroke is one continuous press-to-release motion, as an ordered sequence
// of points.
type Stroke []Point

// Densify inserts evenly spaced points along each segment so that no two
// consecutive points are more than step apart. Polylines drawn by hand or
// by a tool carry too few points for pivot detection; densified they look
// like sampled pointer input. The result always starts with s[0] and
// keeps every original point.
func (s Stroke) Densify(step float64) Stroke {
	if len(s) == 0 || step <= 0 {
		return append(Stroke(nil), s...)
	}
	res := Stroke{s[0]}
	for i := 1; i < len(s); i++ {
		a, b := s[i-1], s[i]
		n := max(1, int(math.Ceil(dist(a, b)/step)))
		for k := 1; k <= n; k++ {
			f := float64(k) / float64(n)
			res = append(res, Point{
				X: a.X + (b.X-a.X)*f,
				Y: a.Y + (b.Y-a.Y)*f,
			})
		}
	}
	return res
}

// Rect is an axis-aligned bounding rectangle in device coordinates.
type Rect struct {
	Top, Bottom, Left, Right float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// boundsOf calculates the rectangle bounding all points of all strokes. For
// input without points the result is inverted (Top > Bottom, Left > Right).
func boundsOf(strokes []Stroke) Rect {
	r := Rect{
		Top:    math.MaxFloat64,
		Bottom: -math.MaxFloat64,
		Left:   math.MaxFloat64,
		Right:  -math.MaxFloat64,
	}
	for _, s := range strokes {
		for _, pt := range s {
			r.Left = math.Min(r.Left, pt.X)
			r.Right = math.Max(r.Right, pt.X)
			r.Top = math.Min(r.Top, pt.Y)
			r.Bottom = math.Max(r.Bottom, pt.Y)
		}
	}
	return r
}

// clampBounds replaces out-of-range edges with the 256px canvas defaults.
// Invalid geometry is silently substituted rather than reported.
func clampBounds(r Rect) Rect {
	if r.Top > 256 {
		r.Top = 0
	}
	if r.Bottom < 0 {
		r.Bottom = 256
	}
	if r.Left > 256 {
		r.Left = 0
	}
	if r.Right < 0 {
		r.Right = 256
	}
	return r
}

// dist returns the Euclidean distance between two points.
func dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// normDist returns the distance between two points normalized by the
// diagonal of a square whose side is the larger dimension of bounds. The
// result is capped at 1.
func normDist(a, b Point, bounds Rect) float64 {
	width := bounds.Width()
	height := bounds.Height()
	dimensionSquared := height * height
	if width > height {
		dimensionSquared = width * width
	}
	normalizer := math.Sqrt(dimensionSquared + dimensionSquared)
	if normalizer == 0 {
		return 0
	}
	return math.Min(dist(a, b)/normalizer, 1)
}

// dir returns the direction from a to b in radians, in [0, 2π]. Zero points
// right and angles grow counter-clockwise on screen, which is why the atan2
// result is subtracted from π.
func dir(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Pi - math.Atan2(dy, dx)
}

// normCenter maps the midpoint of a and b into the unit square that holds
// the character. The longer side of bounds spans [0,1] and the shorter side
// is centered within it.
func normCenter(a, b Point, bounds Rect) (float64, float64) {
	x := (a.X + b.X) / 2
	y := (a.Y + b.Y) / 2
	width := bounds.Width()
	height := bounds.Height()
	var side float64
	if width > height {
		side = width
		x -= bounds.Left
		y = y - bounds.Top + (side-height)/2
	} else {
		side = height
		x = x - bounds.Left + (side-width)/2
		y -= bounds.Top
	}
	if side == 0 {
		return 0.5, 0.5
	}
	return x / side, y / side
}
