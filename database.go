package hanzilookup

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/unicode/norm"
)

// Reference data limits. Datasets are compiled against these maxima.
const (
	MaxCharacterStrokeCount    = 48
	MaxCharacterSubStrokeCount = 64

	// subStrokeRecordSize is the number of bytes per packed substroke:
	// direction, length and packed center.
	subStrokeRecordSize = 3
)

//go:embed dbdata/*.json
var dbFS embed.FS

// ReferenceCharacter is one entry of a reference database. Offset is the
// byte offset of its first substroke in the database's packed substroke
// blob; the entry owns SubStrokeCount consecutive 3-byte records.
type ReferenceCharacter struct {
	Glyph          string
	StrokeCount    int
	SubStrokeCount int
	Offset         int
}

// UnmarshalJSON decodes the positional form used by dataset files:
// [glyph, strokeCount, subStrokeCount, byteOffset].
func (rc *ReferenceCharacter) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 4 {
		return fmt.Errorf("character record has %d fields, want 4", len(raw))
	}
	if err := json.Unmarshal(raw[0], &rc.Glyph); err != nil {
		return fmt.Errorf("character glyph: %w", err)
	}
	for i, dst := range []*int{&rc.StrokeCount, &rc.SubStrokeCount, &rc.Offset} {
		if err := json.Unmarshal(raw[i+1], dst); err != nil {
			return fmt.Errorf("character %q field %d: %w", rc.Glyph, i+1, err)
		}
	}
	return nil
}

// MarshalJSON encodes the positional dataset form.
func (rc ReferenceCharacter) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		rc.Glyph, rc.StrokeCount, rc.SubStrokeCount, rc.Offset,
	})
}

// Database is an immutable set of reference characters sharing one packed
// substroke blob. Nothing modifies a Database after it has been loaded, so
// it can be shared by concurrent matchers.
type Database struct {
	Key        string
	Characters []ReferenceCharacter
	SubStrokes []byte
}

// datasetFile is the on-disk JSON shape of a dataset.
type datasetFile struct {
	Chars      []ReferenceCharacter `json:"chars"`
	SubStrokes string               `json:"substrokes"`
}

// DecodeCompact decodes the base64 text form of a packed substroke blob.
func DecodeCompact(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: substroke blob: %v", ErrInvalidDatabase, err)
	}
	return b, nil
}

// EncodeCompact produces the base64 text form of a packed substroke blob.
func EncodeCompact(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// ParseDatabase reads a JSON dataset and validates it. The key identifies
// the dataset in a Library and in log output.
func ParseDatabase(key string, r io.Reader) (*Database, error) {
	var df datasetFile
	if err := json.NewDecoder(r).Decode(&df); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidDatabase, key, err)
	}
	blob, err := DecodeCompact(df.SubStrokes)
	if err != nil {
		return nil, err
	}
	db := &Database{
		Key:        key,
		Characters: df.Chars,
		SubStrokes: blob,
	}
	if err := db.normalize(); err != nil {
		return nil, err
	}
	return db, nil
}

// WriteJSON writes the database in the JSON dataset form.
func (db *Database) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(datasetFile{
		Chars:      db.Characters,
		SubStrokes: EncodeCompact(db.SubStrokes),
	})
}

// normalize NFC-normalizes glyphs and checks every record against the
// blob and the dataset limits.
func (db *Database) normalize() error {
	if len(db.SubStrokes)%subStrokeRecordSize != 0 {
		return fmt.Errorf("%w: %s: substroke blob length %d is not a multiple of %d",
			ErrInvalidDatabase, db.Key, len(db.SubStrokes), subStrokeRecordSize)
	}
	for i := range db.Characters {
		c := &db.Characters[i]
		c.Glyph = norm.NFC.String(c.Glyph)
		switch {
		case c.Glyph == "":
			return fmt.Errorf("%w: %s: character %d has no glyph",
				ErrInvalidDatabase, db.Key, i)
		case c.StrokeCount < 1 || c.StrokeCount > MaxCharacterStrokeCount:
			return fmt.Errorf("%w: %s: %q has %d strokes",
				ErrInvalidDatabase, db.Key, c.Glyph, c.StrokeCount)
		case c.SubStrokeCount < 1 || c.SubStrokeCount > MaxCharacterSubStrokeCount:
			return fmt.Errorf("%w: %s: %q has %d substrokes",
				ErrInvalidDatabase, db.Key, c.Glyph, c.SubStrokeCount)
		case c.Offset < 0 || c.Offset%subStrokeRecordSize != 0 ||
			c.Offset+c.SubStrokeCount*subStrokeRecordSize > len(db.SubStrokes):
			return fmt.Errorf("%w: %s: %q offset %d out of range",
				ErrInvalidDatabase, db.Key, c.Glyph, c.Offset)
		}
	}
	return nil
}

// Len returns the number of reference characters.
func (db *Database) Len() int {
	return len(db.Characters)
}

// SubStroke decodes substroke i of reference character c. hasCenter is
// false when the record carries no center data.
func (db *Database) SubStroke(c ReferenceCharacter, i int) (s SubStroke, hasCenter bool) {
	rec := db.SubStrokes[c.Offset+i*subStrokeRecordSize:]
	s.Direction = rec[0]
	s.Length = rec[1]
	if packed := rec[2]; packed != 0 {
		s.CenterX = (packed & 0xf0) >> 4
		s.CenterY = packed & 0x0f
		hasCenter = true
	}
	return s, hasCenter
}

// Lookup returns the first reference character with the given glyph.
func (db *Database) Lookup(glyph string) (ReferenceCharacter, bool) {
	glyph = norm.NFC.String(glyph)
	for _, c := range db.Characters {
		if c.Glyph == glyph {
			return c, true
		}
	}
	return ReferenceCharacter{}, false
}

// Segment is a straight line between two points.
type Segment struct {
	A, B Point
}

// Skeleton reconstructs the substrokes of reference character c as
// segments in the unit square, from their quantized direction, length and
// center. Substrokes without center data are placed at the middle.
func (db *Database) Skeleton(c ReferenceCharacter) []Segment {
	res := make([]Segment, 0, c.SubStrokeCount)
	for i := 0; i < c.SubStrokeCount; i++ {
		ss, hasCenter := db.SubStroke(c, i)
		cx, cy := 0.5, 0.5
		if hasCenter {
			cx = float64(ss.CenterX) / MaxCenter
			cy = float64(ss.CenterY) / MaxCenter
		}
		theta := float64(ss.Direction) * 2 * math.Pi / 256
		half := float64(ss.Length) / MaxLength * math.Sqrt2 / 2
		dx, dy := half*math.Cos(theta), -half*math.Sin(theta)
		res = append(res, Segment{
			A: Point{cx - dx, cy - dy},
			B: Point{cx + dx, cy + dy},
		})
	}
	return res
}

// packCenter encodes a quantized center into the third record byte.
// (0,0) encodes to 0 and therefore reads back as "no center".
func packCenter(x, y uint8) byte {
	return byte(x&0x0f)<<4 | byte(y&0x0f)
}

// DatabaseBuilder assembles a Database from analyzed sample characters.
type DatabaseBuilder struct {
	chars []ReferenceCharacter
	blob  []byte
}

// NewDatabaseBuilder creates an empty builder.
func NewDatabaseBuilder() *DatabaseBuilder {
	return &DatabaseBuilder{}
}

// Add appends a glyph whose reference shape is the given analyzed sample.
// Samples without substrokes, or exceeding the dataset limits, are
// rejected.
func (b *DatabaseBuilder) Add(glyph string, ac *AnalyzedCharacter) error {
	if ac == nil || ac.SubStrokeCount == 0 {
		return fmt.Errorf("%w: sample for %q has no substrokes", ErrInvalidArgument, glyph)
	}
	if ac.StrokeCount() > MaxCharacterStrokeCount ||
		ac.SubStrokeCount > MaxCharacterSubStrokeCount {
		return fmt.Errorf("%w: sample for %q exceeds %d strokes / %d substrokes",
			ErrInvalidArgument, glyph, MaxCharacterStrokeCount, MaxCharacterSubStrokeCount)
	}
	b.chars = append(b.chars, ReferenceCharacter{
		Glyph:          norm.NFC.String(glyph),
		StrokeCount:    ac.StrokeCount(),
		SubStrokeCount: ac.SubStrokeCount,
		Offset:         len(b.blob),
	})
	for _, s := range ac.FlatSubStrokes() {
		b.blob = append(b.blob, s.Direction, s.Length, packCenter(s.CenterX, s.CenterY))
	}
	return nil
}

// Build returns the assembled database under key. The builder can keep
// being used; the returned database does not share memory with it.
func (b *DatabaseBuilder) Build(key string) (*Database, error) {
	db := &Database{
		Key:        key,
		Characters: append([]ReferenceCharacter(nil), b.chars...),
		SubStrokes: append([]byte(nil), b.blob...),
	}
	if err := db.normalize(); err != nil {
		return nil, err
	}
	return db, nil
}
