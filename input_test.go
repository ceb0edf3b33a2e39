package hanzilookup

import (
	"reflect"
	"testing"
)

func TestStrokeInputRecordsStrokes(t *testing.T) {
	t.Parallel()

	si := NewStrokeInput()
	si.BeginStroke(Point{20, 128})
	si.AddPoint(Point{100, 128})
	si.AddPoint(Point{100, 128}) // repeated, dropped
	si.EndStroke(Point{236, 128})

	want := []Stroke{{{20, 128}, {100, 128}, {236, 128}}}
	if got := si.Strokes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Points outside a stroke are ignored.
	si.AddPoint(Point{1, 1})
	si.EndStroke(Point{2, 2})
	if si.Len() != 1 {
		t.Errorf("Expected 1 stroke, got %d", si.Len())
	}

	ac := si.Analyze()
	if ac.SubStrokeCount != 1 || ac.Strokes[0].SubStrokes[0].Direction != 0 {
		t.Errorf("Expected one rightward substroke, got %+v", ac.FlatSubStrokes())
	}
}

func TestStrokeInputUndoAndClear(t *testing.T) {
	t.Parallel()

	si := NewStrokeInput()
	si.Undo() // no-op on empty input

	for _, y := range []float64{50, 100, 150} {
		si.BeginStroke(Point{20, y})
		si.EndStroke(Point{200, y})
	}
	si.Undo()
	if si.Len() != 2 {
		t.Fatalf("Expected 2 strokes after undo, got %d", si.Len())
	}
	if last := si.Strokes()[1]; last[0].Y != 100 {
		t.Errorf("Expected the last stroke removed, got %v", si.Strokes())
	}

	si.BeginStroke(Point{5, 5})
	si.Clear()
	si.EndStroke(Point{6, 6})
	if si.Len() != 0 {
		t.Errorf("Expected no strokes after clear, got %d", si.Len())
	}
}

func TestStrokeInputStrokesIsCopy(t *testing.T) {
	t.Parallel()

	si := NewStrokeInput()
	si.BeginStroke(Point{0, 0})
	si.EndStroke(Point{10, 10})
	got := si.Strokes()
	got[0][0] = Point{99, 99}
	if si.Strokes()[0][0] != (Point{0, 0}) {
		t.Error("Modifying returned strokes should not affect the input")
	}
}
