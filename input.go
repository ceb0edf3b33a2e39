package hanzilookup

// StrokeInput accumulates pointer input into strokes: everything between a
// press and a release is one stroke. It holds no drawing state; the caller
// renders whatever it likes and asks for a fresh analysis after each
// change.
type StrokeInput struct {
	strokes []Stroke
	current Stroke
	drawing bool
}

// NewStrokeInput creates an empty input.
func NewStrokeInput() *StrokeInput {
	return &StrokeInput{}
}

// BeginStroke starts a new stroke at pt.
func (si *StrokeInput) BeginStroke(pt Point) {
	si.current = Stroke{pt}
	si.drawing = true
}

// AddPoint extends the current stroke. Points repeating the previous one
// are dropped, as are points outside a stroke.
func (si *StrokeInput) AddPoint(pt Point) {
	if !si.drawing {
		return
	}
	if last := si.current[len(si.current)-1]; last == pt {
		return
	}
	si.current = append(si.current, pt)
}

// EndStroke finishes the current stroke at pt and commits it.
func (si *StrokeInput) EndStroke(pt Point) {
	if !si.drawing {
		return
	}
	si.AddPoint(pt)
	si.strokes = append(si.strokes, si.current)
	si.current = nil
	si.drawing = false
}

// Undo removes the last committed stroke. It does nothing on empty input.
func (si *StrokeInput) Undo() {
	if len(si.strokes) == 0 {
		return
	}
	si.strokes = si.strokes[:len(si.strokes)-1]
}

// Clear discards all input.
func (si *StrokeInput) Clear() {
	si.strokes = nil
	si.current = nil
	si.drawing = false
}

// Len returns the number of committed strokes.
func (si *StrokeInput) Len() int {
	return len(si.strokes)
}

// Strokes returns a deep copy of the committed strokes.
func (si *StrokeInput) Strokes() []Stroke {
	res := make([]Stroke, len(si.strokes))
	for i, s := range si.strokes {
		res[i] = append(Stroke(nil), s...)
	}
	return res
}

// Analyze analyzes the committed strokes.
func (si *StrokeInput) Analyze() *AnalyzedCharacter {
	return Analyze(si.Strokes())
}
