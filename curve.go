package hanzilookup

import "math"

// solutionTolerance is how far outside [0,1] a root may fall and still be
// accepted (and clamped) as a curve parameter.
const solutionTolerance = 0.00000001

// tripleRootEpsilon bounds f, g and h when deciding that the depressed
// cubic has a single triple root.
const tripleRootEpsilon = 1e-12

// CubicCurve is a parametric cubic from (X1,Y1) to (X2,Y2) shaped by two
// control points. It is used as a one-dimensional shaping function: given
// an x, find the parameter t where the curve passes x and read off y.
//
// CubicCurve is only used to build lookup tables and looseness windows. It
// is never evaluated per substroke comparison.
type CubicCurve struct {
	X1, Y1         float64
	CtrlX1, CtrlY1 float64
	CtrlX2, CtrlY2 float64
	X2, Y2         float64
}

// NewCubicCurve creates a curve from its end and control points.
func NewCubicCurve(x1, y1, ctrlX1, ctrlY1, ctrlX2, ctrlY2, x2, y2 float64) CubicCurve {
	return CubicCurve{
		X1: x1, Y1: y1,
		CtrlX1: ctrlX1, CtrlY1: ctrlY1,
		CtrlX2: ctrlX2, CtrlY2: ctrlY2,
		X2: x2, Y2: y2,
	}
}

// Polynomial coefficients: p(t) = a·t³ + b·t² + c·t + p1.
func (c CubicCurve) cx() float64 { return 3.0 * (c.CtrlX1 - c.X1) }
func (c CubicCurve) cy() float64 { return 3.0 * (c.CtrlY1 - c.Y1) }
func (c CubicCurve) bx() float64 { return 3.0*(c.CtrlX2-c.CtrlX1) - c.cx() }
func (c CubicCurve) by() float64 { return 3.0*(c.CtrlY2-c.CtrlY1) - c.cy() }
func (c CubicCurve) ax() float64 { return c.X2 - c.X1 - c.bx() - c.cx() }
func (c CubicCurve) ay() float64 { return c.Y2 - c.Y1 - c.by() - c.cy() }

// YOnCurve evaluates the y polynomial at parameter t.
func (c CubicCurve) YOnCurve(t float64) float64 {
	tSquared := t * t
	tCubed := t * tSquared
	return c.ay()*tCubed + c.by()*tSquared + c.cy()*t + c.Y1
}

// SolveForX returns the real roots t of x(t) = x, unfiltered. The cubic is
// reduced to depressed form and solved by Cardano's method: one real root
// when the discriminant h is positive, a triple root when f, g and h all
// vanish, and three real roots by the trigonometric method otherwise.
func (c CubicCurve) SolveForX(x float64) []float64 {
	a := c.ax()
	b := c.bx()
	cc := c.cx()
	d := c.X1 - x

	f := ((3.0*cc)/a - (b*b)/(a*a)) / 3.0
	g := ((2.0*b*b*b)/(a*a*a) - (9.0*b*cc)/(a*a) + (27.0*d)/a) / 27.0
	h := (g*g)/4.0 + (f*f*f)/27.0

	switch {
	case h > 0:
		// One real root.
		u := -g
		r := u/2 + math.Sqrt(h)
		s := math.Cbrt(r)
		t := u/2 - math.Sqrt(h)
		v := math.Cbrt(-t)
		return []float64{s - v - b/(3*a)}

	case math.Abs(f) < tripleRootEpsilon && math.Abs(g) < tripleRootEpsilon &&
		math.Abs(h) < tripleRootEpsilon:
		// All three roots real and equal.
		return []float64{-math.Cbrt(d / a)}

	default:
		// Three real roots (h <= 0).
		i := math.Sqrt((g*g)/4.0 - h)
		j := math.Cbrt(i)
		k := math.Acos(math.Max(-1, math.Min(1, -g/(2*i))))
		l := -j
		m := math.Cos(k / 3.0)
		n := math.Sqrt(3.0) * math.Sin(k/3.0)
		p := -b / (3.0 * a)
		return []float64{
			2.0*j*m + p,
			l*(m+n) + p,
			l*(m-n) + p,
		}
	}
}

// FirstSolutionForX returns the first root of x(t) = x lying in
// [-1e-8, 1+1e-8], clamped into [0,1]. If no root qualifies it returns NaN
// and false.
func (c CubicCurve) FirstSolutionForX(x float64) (float64, bool) {
	for _, t := range c.SolveForX(x) {
		if t >= -solutionTolerance && t <= 1+solutionTolerance {
			return math.Max(0, math.Min(1, t)), true
		}
	}
	return math.NaN(), false
}

// YForX solves for the parameter at x and evaluates y there. It returns
// NaN when x has no solution on the curve.
func (c CubicCurve) YForX(x float64) float64 {
	t, ok := c.FirstSolutionForX(x)
	if !ok {
		return math.NaN()
	}
	return c.YOnCurve(t)
}
