package hanzilookup

import (
	"fmt"

	"github.com/wbrown/hanzilookup/imageutil"
)

// overlayCanvas is the side of the square the overlay is drawn on before
// scaling to the requested size.
const overlayCanvas = 256

// Overlay colors.
var (
	overlayBackground = imageutil.RGB{R: 255, G: 255, B: 255}
	overlayInk        = imageutil.RGB{R: 40, G: 40, B: 40}
	overlayBounds     = imageutil.RGB{R: 200, G: 200, B: 200}
	overlaySkeleton   = imageutil.RGB{R: 220, G: 40, B: 40}
	overlayReference  = imageutil.RGB{R: 40, G: 90, B: 220}
)

// OverlayOptions selects what RenderOverlay draws.
type OverlayOptions struct {
	// Size is the side of the output image in pixels. Zero means 256.
	Size int
	// Margin is the empty border around the character on the 256px canvas.
	Margin float64
	// StrokeWidth is the width of raw strokes on the 256px canvas. Zero
	// means 6.
	StrokeWidth float64
	// ShowBounds outlines the character bounding box.
	ShowBounds bool
	// ShowSkeleton draws each stroke's pivot polyline with a dot per pivot.
	ShowSkeleton bool
	// Reference is a reference skeleton in the unit square, typically
	// from Database.Skeleton, drawn over the input.
	Reference []Segment
	// Interpolation scales the canvas to Size. The zero value is
	// imageutil.InterpolationArea.
	Interpolation imageutil.Interpolation
}

func (o OverlayOptions) withDefaults() OverlayOptions {
	if o.Size <= 0 {
		o.Size = overlayCanvas
	}
	if o.Margin <= 0 {
		o.Margin = 16
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = 6
	}
	return o
}

// RenderOverlay draws an analyzed character as a debugging picture. The
// character is fitted into the square the analyzer normalizes against, so
// input strokes and reference skeletons share one coordinate system.
func RenderOverlay(ac *AnalyzedCharacter, opts OverlayOptions) *imageutil.RGBAImage {
	opts = opts.withDefaults()
	img := imageutil.NewRGBAImage(overlayCanvas, overlayCanvas)
	img.Fill(overlayBackground)
	pen := imageutil.NewPen(img)

	span := overlayCanvas - 2*opts.Margin
	unitToCanvas := func(p Point) imageutil.Vec2 {
		return imageutil.Vec2{
			X: opts.Margin + p.X*span,
			Y: opts.Margin + p.Y*span,
		}
	}
	toCanvas := func(p Point) imageutil.Vec2 {
		x, y := normCenter(p, p, ac.Bounds)
		return unitToCanvas(Point{x, y})
	}

	if ac != nil && opts.ShowBounds && len(ac.Strokes) > 0 {
		tl := toCanvas(Point{ac.Bounds.Left, ac.Bounds.Top})
		br := toCanvas(Point{ac.Bounds.Right, ac.Bounds.Bottom})
		pen.SetColor(overlayBounds)
		pen.SetWidth(1)
		pen.Rect(tl.X, tl.Y, br.X, br.Y)
	}

	if ac != nil {
		pen.SetColor(overlayInk)
		pen.SetWidth(opts.StrokeWidth)
		for _, s := range ac.Strokes {
			pts := make([]imageutil.Vec2, len(s.Points))
			for i, p := range s.Points {
				pts[i] = toCanvas(p)
			}
			pen.Polyline(pts...)
		}
	}

	if ac != nil && opts.ShowSkeleton {
		pen.SetColor(overlaySkeleton)
		pen.SetWidth(1.5)
		for _, s := range ac.Strokes {
			pivots := s.Pivots()
			pts := make([]imageutil.Vec2, len(pivots))
			for i, p := range pivots {
				pts[i] = toCanvas(p)
			}
			pen.Polyline(pts...)
			for _, pt := range pts {
				pen.Dot(pt, 3)
			}
		}
	}

	if len(opts.Reference) > 0 {
		pen.SetColor(overlayReference)
		pen.SetWidth(1.5)
		for _, seg := range opts.Reference {
			a, b := unitToCanvas(seg.A), unitToCanvas(seg.B)
			pen.Polyline(a, b)
			pen.Dot(a, 2.5)
		}
	}

	if opts.Size != overlayCanvas {
		img = imageutil.Resize(img, opts.Size, opts.Size, opts.Interpolation)
	}
	return img
}

// SaveOverlayPNG renders the overlay of ac and writes it to path as PNG.
func SaveOverlayPNG(path string, ac *AnalyzedCharacter, opts OverlayOptions) error {
	img := RenderOverlay(ac, opts)
	if err := imageutil.SavePNG(img, path); err != nil {
		return fmt.Errorf("saving overlay: %w", err)
	}
	return nil
}
