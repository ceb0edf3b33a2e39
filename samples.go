package hanzilookup

import (
	"encoding/json"
	"fmt"
	"io"
)

// DefaultSampleStep is the point spacing samples are densified to before
// analysis.
const DefaultSampleStep = 4.0

// Sample is one labelled handwriting sample: the strokes of a glyph as
// polylines in canvas coordinates.
type Sample struct {
	Glyph   string   `json:"glyph"`
	Strokes []Stroke `json:"strokes"`
}

type sampleFile struct {
	Samples []Sample `json:"samples"`
}

// ReadSamples decodes a sample file of the form
// {"samples":[{"glyph":"十","strokes":[[[x,y],...],...]},...]}.
func ReadSamples(r io.Reader) ([]Sample, error) {
	var sf sampleFile
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: decoding samples: %v", ErrInvalidArgument, err)
	}
	return sf.Samples, nil
}

// BuildDatabase analyzes each sample, densified to step, and compiles the
// results into a database named key. Samples are added in order.
func BuildDatabase(key string, samples []Sample, step float64) (*Database, error) {
	b := NewDatabaseBuilder()
	for i, s := range samples {
		strokes := make([]Stroke, len(s.Strokes))
		for j, st := range s.Strokes {
			strokes[j] = st.Densify(step)
		}
		if err := b.Add(s.Glyph, Analyze(strokes)); err != nil {
			return nil, fmt.Errorf("sample %d (%s): %w", i, s.Glyph, err)
		}
	}
	return b.Build(key)
}
