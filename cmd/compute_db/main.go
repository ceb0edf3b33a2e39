package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/wbrown/hanzilookup"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func main() {
	samplesFile := flag.String("samples", "",
		"Build the dataset from a JSON file of labelled stroke samples")
	step := flag.Float64("step", hanzilookup.DefaultSampleStep,
		"Point spacing samples are densified to before analysis")
	gb18030 := flag.Bool("gb18030", false,
		"Input is GB18030 encoded instead of UTF-8")
	outputFile := flag.String("output", "",
		"Output path (default: input path with "+hanzilookup.CompactExt+
			", or .json when building from samples)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: compute_db [flags] <dataset.json>\n"+
				"       compute_db -samples <samples.json> [flags]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var (
		db   *hanzilookup.Database
		path string
		err  error
	)
	switch {
	case *samplesFile != "":
		path = *samplesFile
		db, err = buildFromSamples(path, *step, *gb18030)
	case flag.NArg() == 1:
		path = flag.Arg(0)
		db, err = readJSON(path, *gb18030)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Failed to load %s: %v", path, err)
	}

	out := *outputFile
	if out == "" {
		ext := hanzilookup.CompactExt
		if *samplesFile != "" {
			ext = ".json"
		}
		// Remove any extensions from path
		out = path[:len(path)-len(filepath.Ext(path))] + ext
		if out == path {
			log.Fatalf("Refusing to overwrite input %s, use -output", path)
		}
	}

	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(out), hanzilookup.CompactExt) {
		err = hanzilookup.WriteCompactDatabase(&buf, db)
	} else {
		err = db.WriteJSON(&buf)
	}
	if err != nil {
		log.Fatalf("Failed to encode dataset for %s: %v", out, err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		log.Fatalf("Failed to write dataset file %s: %v", out, err)
	}
	fmt.Printf("Wrote %d characters (%d substroke bytes) to %s\n",
		db.Len(), len(db.SubStrokes), out)
}

func datasetKey(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// openInput opens path, transcoding GB18030 input to UTF-8 when asked.
func openInput(path string, gb18030 bool) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if gb18030 {
		return simplifiedchinese.GB18030.NewDecoder().Reader(f), f.Close, nil
	}
	return f, f.Close, nil
}

func readJSON(path string, gb18030 bool) (*hanzilookup.Database, error) {
	r, closeFn, err := openInput(path, gb18030)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return hanzilookup.ParseDatabase(datasetKey(path), r)
}

func buildFromSamples(path string, step float64, gb18030 bool) (*hanzilookup.Database, error) {
	r, closeFn, err := openInput(path, gb18030)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	samples, err := hanzilookup.ReadSamples(r)
	if err != nil {
		return nil, err
	}
	return hanzilookup.BuildDatabase(datasetKey(path), samples, step)
}
