package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/wbrown/hanzilookup"
	"github.com/wbrown/hanzilookup/imageutil"
)

func main() {
	configFile := flag.String("config", "hanzilookup.toml",
		"Path to the TOML config file (missing file uses defaults)")
	datasetKey := flag.String("dataset", "",
		"Dataset key (Embedded: demo)")
	datasetPath := flag.String("db", "",
		"Path to a dataset file (.json or "+hanzilookup.CompactExt+")")
	strokesFile := flag.String("strokes", "",
		"Path to a JSON file of strokes [[[x,y],...],...] (required)")
	limit := flag.Int("limit", 0,
		"Number of matches to print")
	looseness := flag.Float64("looseness", -1,
		"Candidate window looseness in [0,1]")
	workers := flag.Int("workers", -1,
		"Number of scoring goroutines")
	overlayFile := flag.String("overlay", "",
		"Write an analysis overlay image of the input (png, jpg, gif)")
	overlaySize := flag.Int("overlay-size", 256,
		"Side of the overlay image in pixels")
	overlayFilter := flag.String("overlay-filter", "area",
		"Overlay scaling filter (area, linear, nearest)")
	verbose := flag.Bool("v", false,
		"Log at debug level")
	flag.Parse()

	if *strokesFile == "" {
		fmt.Println("Please provide the input strokes using the -strokes flag")
		flag.PrintDefaults()
		return
	}

	cfg, err := hanzilookup.LoadConfig(*configFile)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file.
	if *datasetKey != "" {
		cfg.Dataset = *datasetKey
	}
	if *datasetPath != "" {
		cfg.DatasetPath = *datasetPath
	}
	if *limit > 0 {
		cfg.Limit = *limit
	}
	if *looseness >= 0 {
		cfg.Looseness = *looseness
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid settings: %v\n", err)
		os.Exit(1)
	}

	level, _ := hanzilookup.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level}))
	hanzilookup.SetLogger(logger)

	strokes, err := readStrokes(*strokesFile)
	if err != nil {
		fmt.Printf("Error reading strokes: %v\n", err)
		os.Exit(1)
	}

	beginInit := time.Now()
	lib := hanzilookup.NewLibrary()
	db, err := lib.Load(cfg.Dataset, cfg.DatasetPath)
	if err != nil {
		fmt.Printf("Error loading dataset: %v\n", err)
		os.Exit(1)
	}
	matcher, err := hanzilookup.NewMatcher(db, append(cfg.MatcherOptions(),
		hanzilookup.WithLogger(logger))...)
	if err != nil {
		fmt.Printf("Error creating matcher: %v\n", err)
		os.Exit(1)
	}
	endInit := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	char := hanzilookup.Analyze(strokes)
	matches, err := matcher.Match(ctx, char, cfg.Limit)
	if err != nil {
		fmt.Printf("Error matching: %v\n", err)
		os.Exit(1)
	}
	endComputation := time.Now()

	fmt.Printf("dataset %s: %d characters\n", db.Key, db.Len())
	fmt.Printf("input: %d strokes, %d substrokes\n",
		char.StrokeCount(), char.SubStrokeCount)
	for i, m := range matches {
		fmt.Printf("%3d. %s  %8.3f\n", i+1, m.Character, m.Score)
	}

	if *overlayFile != "" {
		interp, err := imageutil.ParseInterpolation(*overlayFilter)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		opts := hanzilookup.OverlayOptions{
			Size:          *overlaySize,
			ShowBounds:    true,
			ShowSkeleton:  true,
			Interpolation: interp,
		}
		if len(matches) > 0 {
			if ref, ok := db.Lookup(matches[0].Character); ok {
				opts.Reference = db.Skeleton(ref)
			}
		}
		img := hanzilookup.RenderOverlay(char, opts)
		if err := imageutil.SaveImage(img, *overlayFile); err != nil {
			fmt.Printf("Error writing overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Overlay written to %s\n", *overlayFile)
	}

	counters := matcher.Counters()
	fmt.Printf("Initialization time: %v\n", endInit.Sub(beginInit))
	fmt.Printf("Computation time: %v\n", endComputation.Sub(endInit))
	fmt.Printf("Characters checked: %d, substrokes compared: %d\n",
		counters.CharsChecked, counters.SubStrokesCompared)
}

// readStrokes decodes a stroke file.
func readStrokes(path string) ([]hanzilookup.Stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var strokes []hanzilookup.Stroke
	if err := json.Unmarshal(data, &strokes); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return strokes, nil
}
