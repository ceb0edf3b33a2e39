package hanzilookup

import (
	"bytes"
	"errors"
	"math"
	"os"
	"reflect"
	"strings"
	"testing"
)

// loadDemo returns the embedded demo dataset.
func loadDemo(t *testing.T) *Database {
	t.Helper()
	db, err := NewLibrary().Load("demo", "")
	if err != nil {
		t.Fatalf("Failed to load demo dataset: %v", err)
	}
	return db
}

func TestEmbeddedDemoDataset(t *testing.T) {
	t.Parallel()

	db := loadDemo(t)
	if db.Len() != 18 {
		t.Fatalf("Expected 18 characters, got %d", db.Len())
	}
	if db.Key != "demo" {
		t.Errorf("Expected key demo, got %q", db.Key)
	}

	ten, ok := db.Lookup("十")
	if !ok {
		t.Fatal("Expected 十 in demo dataset")
	}
	want := ReferenceCharacter{Glyph: "十", StrokeCount: 2, SubStrokeCount: 2, Offset: 21}
	if ten != want {
		t.Errorf("Expected %+v, got %+v", want, ten)
	}

	ss, hasCenter := db.SubStroke(ten, 0)
	if !hasCenter || ss != (SubStroke{0, 164, 8, 7}) {
		t.Errorf("Expected {0 164 8 7} with center, got %+v (center %v)", ss, hasCenter)
	}
	ss, hasCenter = db.SubStroke(ten, 1)
	if !hasCenter || ss != (SubStroke{192, 180, 8, 8}) {
		t.Errorf("Expected {192 180 8 8} with center, got %+v (center %v)", ss, hasCenter)
	}

	if _, ok := db.Lookup("龍"); ok {
		t.Error("Expected no entry for a glyph outside the dataset")
	}
}

func TestParseDatabaseValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", `{"chars":[["一",1,1,0]],"substrokes":"ALSI"}`, false},
		{"empty", `{"chars":[],"substrokes":""}`, false},
		{"malformed json", `{"chars":[`, true},
		{"bad base64", `{"chars":[],"substrokes":"!!!"}`, true},
		{"blob not whole records", `{"chars":[],"substrokes":"ALQ="}`, true},
		{"short record", `{"chars":[["一",1,1]],"substrokes":"ALSI"}`, true},
		{"empty glyph", `{"chars":[["",1,1,0]],"substrokes":"ALSI"}`, true},
		{"no strokes", `{"chars":[["一",0,1,0]],"substrokes":"ALSI"}`, true},
		{"too many strokes", `{"chars":[["一",49,1,0]],"substrokes":"ALSI"}`, true},
		{"too many substrokes", `{"chars":[["一",1,65,0]],"substrokes":"ALSI"}`, true},
		{"records past blob", `{"chars":[["一",1,2,0]],"substrokes":"ALSI"}`, true},
		{"misaligned offset", `{"chars":[["一",1,1,1]],"substrokes":"ALSIALSI"}`, true},
		{"negative offset", `{"chars":[["一",1,1,-3]],"substrokes":"ALSI"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDatabase("test", strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDatabase) {
					t.Errorf("Expected ErrInvalidDatabase, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestParseDatabaseNormalizesGlyphs(t *testing.T) {
	t.Parallel()

	// "e" followed by a combining acute accent composes to U+00E9.
	input := `{"chars":[["e\u0301",1,1,0]],"substrokes":"ALSI"}`
	db, err := ParseDatabase("nfc", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDatabase failed: %v", err)
	}
	if db.Characters[0].Glyph != "\u00e9" {
		t.Errorf("Expected composed glyph, got %q", db.Characters[0].Glyph)
	}
	if _, ok := db.Lookup("e\u0301"); !ok {
		t.Error("Expected lookup by decomposed glyph to succeed")
	}
}

func TestCompactBlobCodec(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 12; n += 3 {
		blob := make([]byte, n)
		for i := range blob {
			blob[i] = byte(i*37 + 11)
		}
		got, err := DecodeCompact(EncodeCompact(blob))
		if err != nil {
			t.Fatalf("%d bytes: DecodeCompact failed: %v", n, err)
		}
		if !bytes.Equal(got, blob) {
			t.Errorf("%d bytes: Expected %v, got %v", n, blob, got)
		}
	}
}

func TestDatabaseJSONRoundTrip(t *testing.T) {
	t.Parallel()

	db := loadDemo(t)
	var buf bytes.Buffer
	if err := db.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `["十",2,2,21]`) {
		t.Errorf("Expected positional character records, got %s", buf.String())
	}
	back, err := ParseDatabase("demo", &buf)
	if err != nil {
		t.Fatalf("ParseDatabase failed: %v", err)
	}
	if !reflect.DeepEqual(back, db) {
		t.Error("Expected JSON round trip to reproduce the database")
	}
}

func TestCompactDatabaseRoundTrip(t *testing.T) {
	t.Parallel()

	db := loadDemo(t)
	var buf bytes.Buffer
	if err := WriteCompactDatabase(&buf, db); err != nil {
		t.Fatalf("WriteCompactDatabase failed: %v", err)
	}
	back, err := ReadCompactDatabase("demo", &buf)
	if err != nil {
		t.Fatalf("ReadCompactDatabase failed: %v", err)
	}
	if !reflect.DeepEqual(back, db) {
		t.Error("Expected compact round trip to reproduce the database")
	}

	if _, err := ReadCompactDatabase("junk", strings.NewReader("not gzip")); !errors.Is(err, ErrInvalidDatabase) {
		t.Errorf("Expected ErrInvalidDatabase for junk input, got %v", err)
	}
}

func TestDatabaseBuilder(t *testing.T) {
	t.Parallel()

	b := NewDatabaseBuilder()
	if err := b.Add("一", Analyze([]Stroke{{{20, 128}, {236, 128}}})); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := b.Add("丨", Analyze([]Stroke{{{128, 20}, {128, 236}}})); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := b.Add("空", Analyze(nil)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for an empty sample, got %v", err)
	}

	db, err := b.Build("built")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := []ReferenceCharacter{
		{Glyph: "一", StrokeCount: 1, SubStrokeCount: 1, Offset: 0},
		{Glyph: "丨", StrokeCount: 1, SubStrokeCount: 1, Offset: 3},
	}
	if !reflect.DeepEqual(db.Characters, want) {
		t.Errorf("Expected %+v, got %+v", want, db.Characters)
	}
	wantBlob := []byte{0, 180, 0x88, 192, 180, 0x88}
	if !bytes.Equal(db.SubStrokes, wantBlob) {
		t.Errorf("Expected blob %v, got %v", wantBlob, db.SubStrokes)
	}

	// The built database does not alias the builder.
	_ = b.Add("二", Analyze([]Stroke{{{60, 80}, {196, 80}}, {{30, 190}, {226, 190}}}))
	if db.Len() != 2 {
		t.Errorf("Expected built database to stay at 2 characters, got %d", db.Len())
	}
}

func TestBuildDatabaseMatchesEmbeddedDemo(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/demo_samples.json")
	if err != nil {
		t.Fatalf("open samples: %v", err)
	}
	defer f.Close()
	samples, err := ReadSamples(f)
	if err != nil {
		t.Fatalf("ReadSamples failed: %v", err)
	}
	built, err := BuildDatabase("demo", samples, DefaultSampleStep)
	if err != nil {
		t.Fatalf("BuildDatabase failed: %v", err)
	}

	demo := loadDemo(t)
	if !reflect.DeepEqual(built.Characters, demo.Characters) {
		t.Errorf("Character records differ:\nbuilt %+v\ndemo  %+v", built.Characters, demo.Characters)
	}
	if !bytes.Equal(built.SubStrokes, demo.SubStrokes) {
		t.Errorf("Substroke blobs differ:\nbuilt %v\ndemo  %v", built.SubStrokes, demo.SubStrokes)
	}
}

func TestSkeleton(t *testing.T) {
	t.Parallel()

	db := loadDemo(t)
	one, _ := db.Lookup("一")
	segs := db.Skeleton(one)
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segs))
	}
	c := 8.0 / 15
	half := 180.0 / 255 * math.Sqrt2 / 2
	want := Segment{A: Point{c - half, c}, B: Point{c + half, c}}
	got := segs[0]
	if math.Abs(got.A.X-want.A.X) > 1e-9 || math.Abs(got.A.Y-want.A.Y) > 1e-9 ||
		math.Abs(got.B.X-want.B.X) > 1e-9 || math.Abs(got.B.Y-want.B.Y) > 1e-9 {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	// A vertical stroke points down the canvas: direction 192.
	vert, _ := db.Lookup("丨")
	v := db.Skeleton(vert)[0]
	if v.B.Y <= v.A.Y || math.Abs(v.A.X-v.B.X) > 1e-9 {
		t.Errorf("Expected a downward vertical segment, got %+v", v)
	}
}
