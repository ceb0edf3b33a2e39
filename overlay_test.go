package hanzilookup

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/wbrown/hanzilookup/imageutil"
)

// countColor counts pixels exactly matching c.
func countColor(img *imageutil.RGBAImage, c imageutil.RGB) int {
	n := 0
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if img.GetRGB(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestRenderOverlayDrawsStrokes(t *testing.T) {
	t.Parallel()

	ac := Analyze([]Stroke{
		line(Point{30, 120}, Point{226, 120}),
		line(Point{128, 20}, Point{128, 236}),
	})
	img := RenderOverlay(ac, OverlayOptions{})
	if img.Width() != 256 || img.Height() != 256 {
		t.Fatalf("Expected 256x256, got %dx%d", img.Width(), img.Height())
	}
	// The strokes cross in the middle of the canvas.
	if got := img.GetRGB(128, 128); got != overlayInk {
		t.Errorf("Expected ink at the crossing, got %v", got)
	}
	if got := img.GetRGB(4, 4); got != overlayBackground {
		t.Errorf("Expected background in the corner, got %v", got)
	}
	if countColor(img, overlaySkeleton) != 0 {
		t.Error("Expected no skeleton unless requested")
	}

	withSkeleton := RenderOverlay(ac, OverlayOptions{ShowSkeleton: true, ShowBounds: true})
	if countColor(withSkeleton, overlaySkeleton) == 0 {
		t.Error("Expected skeleton pixels")
	}
}

func TestRenderOverlayReference(t *testing.T) {
	t.Parallel()

	db := loadDemo(t)
	ref, _ := db.Lookup("丨")
	img := RenderOverlay(Analyze(nil), OverlayOptions{Reference: db.Skeleton(ref)})
	if countColor(img, overlayReference) == 0 {
		t.Error("Expected reference skeleton pixels")
	}
	if countColor(img, overlayInk) != 0 {
		t.Error("Expected no ink for empty input")
	}
}

func TestRenderOverlaySize(t *testing.T) {
	t.Parallel()

	img := RenderOverlay(nil, OverlayOptions{Size: 64})
	if img.Width() != 64 || img.Height() != 64 {
		t.Errorf("Expected 64x64, got %dx%d", img.Width(), img.Height())
	}
}

func TestRenderOverlayNearestKeepsCanvasColors(t *testing.T) {
	t.Parallel()

	ac := Analyze([]Stroke{line(Point{30, 120}, Point{226, 120})})
	full := RenderOverlay(ac, OverlayOptions{ShowBounds: true})
	palette := make(map[imageutil.RGB]bool)
	for y := 0; y < full.Height(); y++ {
		for x := 0; x < full.Width(); x++ {
			palette[full.GetRGB(x, y)] = true
		}
	}

	small := RenderOverlay(ac, OverlayOptions{
		Size:          128,
		ShowBounds:    true,
		Interpolation: imageutil.InterpolationNearest,
	})
	for y := 0; y < small.Height(); y++ {
		for x := 0; x < small.Width(); x++ {
			if c := small.GetRGB(x, y); !palette[c] {
				t.Fatalf("Expected only canvas colors, got %v at (%d,%d)", c, x, y)
			}
		}
	}
}

func TestSaveOverlayPNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "overlay.png")
	ac := Analyze([]Stroke{{{20, 128}, {236, 128}}})
	if err := SaveOverlayPNG(path, ac, OverlayOptions{Size: 128}); err != nil {
		t.Fatalf("SaveOverlayPNG failed: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Errorf("Expected width 128, got %d", img.Bounds().Dx())
	}
}
