package imageutil

import (
	"image/color"
	"math"

	"github.com/golang/freetype/raster"
	"golang.org/x/image/math/fixed"
)

// Vec2 is a point in canvas pixel coordinates.
type Vec2 struct {
	X, Y float64
}

// dotSegments is the number of edges used to approximate a filled circle.
const dotSegments = 24

// Pen draws anti-aliased lines and dots onto an RGBAImage.
type Pen struct {
	rast    *raster.Rasterizer
	painter *raster.RGBAPainter
	width   fixed.Int26_6
}

// NewPen creates a pen drawing onto img in opaque black, one pixel wide.
func NewPen(img *RGBAImage) *Pen {
	r := raster.NewRasterizer(img.Width(), img.Height())
	r.UseNonZeroWinding = true
	p := &Pen{
		rast:    r,
		painter: raster.NewRGBAPainter(img.RGBA),
	}
	p.painter.SetColor(color.Black)
	p.SetWidth(1)
	return p
}

// SetColor changes the drawing color.
func (p *Pen) SetColor(c RGB) {
	p.painter.SetColor(c.ToColor())
}

// SetWidth changes the line width in pixels.
func (p *Pen) SetWidth(w float64) {
	p.width = fixed.Int26_6(math.Round(w * 64))
}

// Polyline strokes the open path through pts with round caps and joins.
// A single point is drawn as a dot of the line width.
func (p *Pen) Polyline(pts ...Vec2) {
	switch len(pts) {
	case 0:
		return
	case 1:
		p.Dot(pts[0], float64(p.width)/128)
		return
	}
	var path raster.Path
	path.Start(toFixed(pts[0]))
	for _, pt := range pts[1:] {
		path.Add1(toFixed(pt))
	}
	p.rast.Clear()
	raster.Stroke(p.rast, path, p.width, raster.RoundCapper, raster.RoundJoiner)
	p.rast.Rasterize(p.painter)
}

// Rect strokes the outline of the axis-aligned rectangle (x0,y0)-(x1,y1).
func (p *Pen) Rect(x0, y0, x1, y1 float64) {
	p.Polyline(
		Vec2{x0, y0}, Vec2{x1, y0}, Vec2{x1, y1}, Vec2{x0, y1}, Vec2{x0, y0},
	)
}

// Dot fills a circle of radius r around c.
func (p *Pen) Dot(c Vec2, r float64) {
	if r <= 0 {
		return
	}
	p.rast.Clear()
	p.rast.Start(toFixed(Vec2{c.X + r, c.Y}))
	for i := 1; i < dotSegments; i++ {
		a := 2 * math.Pi * float64(i) / dotSegments
		p.rast.Add1(toFixed(Vec2{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}))
	}
	p.rast.Add1(toFixed(Vec2{c.X + r, c.Y}))
	p.rast.Rasterize(p.painter)
}

func toFixed(v Vec2) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(v.X * 64)),
		Y: fixed.Int26_6(math.Round(v.Y * 64)),
	}
}
