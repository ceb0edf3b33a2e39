package hanzilookup

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestBoundsOf(t *testing.T) {
	strokes := []Stroke{
		{{X: 10, Y: 20}, {X: 50, Y: 5}},
		{{X: 30, Y: 90}},
	}
	got := boundsOf(strokes)
	want := Rect{Top: 5, Bottom: 90, Left: 10, Right: 50}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	// No points leaves the bounds inverted, and clamping falls back to
	// the canvas.
	empty := clampBounds(boundsOf(nil))
	if empty != (Rect{Top: 0, Bottom: 256, Left: 0, Right: 256}) {
		t.Errorf("Expected canvas bounds for empty input, got %+v", empty)
	}
}

func TestClampBoundsKeepsValidEdges(t *testing.T) {
	r := Rect{Top: 10, Bottom: 200, Left: 30, Right: 220}
	if got := clampBounds(r); got != r {
		t.Errorf("Expected %+v unchanged, got %+v", r, got)
	}
}

func TestNormDist(t *testing.T) {
	square := Rect{Top: 0, Bottom: 100, Left: 0, Right: 100}
	diag := normDist(Point{0, 0}, Point{100, 100}, square)
	if math.Abs(diag-1) > 1e-12 {
		t.Errorf("Expected diagonal to normalize to 1, got %v", diag)
	}

	side := normDist(Point{0, 0}, Point{100, 0}, square)
	if math.Abs(side-1/math.Sqrt2) > 1e-12 {
		t.Errorf("Expected side to normalize to 1/sqrt2, got %v", side)
	}

	// Degenerate bounds never divide by zero.
	flat := Rect{Top: 5, Bottom: 5, Left: 5, Right: 5}
	if got := normDist(Point{5, 5}, Point{5, 5}, flat); got != 0 {
		t.Errorf("Expected 0 for degenerate bounds, got %v", got)
	}
}

func TestDir(t *testing.T) {
	origin := Point{100, 100}
	tests := []struct {
		name string
		to   Point
		want float64
	}{
		{"right", Point{200, 100}, 0},
		{"up", Point{100, 0}, math.Pi / 2},
		{"left", Point{0, 100}, math.Pi},
		{"down", Point{100, 200}, 3 * math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dir(origin, tt.to)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNormCenter(t *testing.T) {
	// A wide box: the short side is centered in the unit square.
	wide := Rect{Top: 100, Bottom: 150, Left: 0, Right: 200}
	x, y := normCenter(Point{0, 100}, Point{200, 150}, wide)
	if x != 0.5 || y != 0.5 {
		t.Errorf("Expected (0.5, 0.5), got (%v, %v)", x, y)
	}

	x, y = normCenter(Point{0, 100}, Point{0, 100}, wide)
	if x != 0 || y != 0.375 {
		t.Errorf("Expected (0, 0.375), got (%v, %v)", x, y)
	}

	dot := Rect{Top: 7, Bottom: 7, Left: 7, Right: 7}
	x, y = normCenter(Point{7, 7}, Point{7, 7}, dot)
	if x != 0.5 || y != 0.5 {
		t.Errorf("Expected (0.5, 0.5) for a dot, got (%v, %v)", x, y)
	}
}

func TestStrokeDensify(t *testing.T) {
	s := Stroke{{0, 0}, {10, 0}, {10, 3}}
	got := s.Densify(4)

	// 10px needs 3 steps, 3px needs 1.
	if len(got) != 1+3+1 {
		t.Fatalf("Expected 5 points, got %d: %v", len(got), got)
	}
	if got[0] != s[0] || got[3] != s[1] || got[4] != s[2] {
		t.Errorf("Expected original points kept, got %v", got)
	}
	for i := 1; i < len(got); i++ {
		if d := dist(got[i-1], got[i]); d > 4 {
			t.Errorf("Points %d and %d are %v apart", i-1, i, d)
		}
	}

	if got := (Stroke{}).Densify(4); len(got) != 0 {
		t.Errorf("Expected empty stroke, got %v", got)
	}
	single := Stroke{{3, 4}}
	if got := single.Densify(4); len(got) != 1 || got[0] != single[0] {
		t.Errorf("Expected single point unchanged, got %v", got)
	}
}

func TestPointJSON(t *testing.T) {
	var strokes []Stroke
	if err := json.Unmarshal([]byte(`[[[1,2],[3.5,4]],[[5,6]]]`), &strokes); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(strokes) != 2 || len(strokes[0]) != 2 || strokes[0][1] != (Point{3.5, 4}) {
		t.Errorf("Unexpected strokes: %v", strokes)
	}

	data, err := json.Marshal(strokes[1])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `[[5,6]]` {
		t.Errorf("Expected [[5,6]], got %s", data)
	}

	var p Point
	if err := json.Unmarshal([]byte(`[1,2,3]`), &p); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for 3 coordinates, got %v", err)
	}
}
