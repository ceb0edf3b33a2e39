package hanzilookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Library holds the reference datasets loaded by one caller. Datasets are
// loaded explicitly, once per key, and handed to matchers; there is no
// process-wide dataset cache.
type Library struct {
	datasets *OrderedMap[string, *Database]
	loadMu   sync.Mutex
}

// NewLibrary creates an empty Library.
func NewLibrary() *Library {
	return &Library{
		datasets: NewOrderedMap[string, *Database](),
	}
}

// EmbeddedDatasets lists the keys of datasets compiled into the package.
func EmbeddedDatasets() []string {
	entries, err := dbFS.ReadDir("dbdata")
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return keys
}

// Load loads the dataset for key, or returns the already loaded one. An
// empty path selects the embedded dataset named key. Otherwise path is
// read from disk: files ending in CompactExt use the compact form, all
// others the JSON form.
//
// Loading the same key twice returns the same *Database, regardless of
// path. A failed load leaves no entry behind.
func (l *Library) Load(key, path string) (*Database, error) {
	if db, ok := l.datasets.Get(key); ok {
		return db, nil
	}

	// Serialize loads so that concurrent callers for one key parse it once.
	l.loadMu.Lock()
	defer l.loadMu.Unlock()
	if db, ok := l.datasets.Get(key); ok {
		return db, nil
	}

	start := time.Now()
	db, err := readDataset(key, path)
	if err != nil {
		return nil, err
	}
	db, _ = l.datasets.SetIfAbsent(key, db)
	Logger().Info("dataset loaded",
		"key", key,
		"path", path,
		"characters", db.Len(),
		"elapsed", time.Since(start))
	return db, nil
}

// Register adds an already built database under its own key. If the key
// is taken, the existing database is returned and db is discarded.
func (l *Library) Register(db *Database) *Database {
	existing, _ := l.datasets.SetIfAbsent(db.Key, db)
	return existing
}

// Get returns a loaded dataset.
func (l *Library) Get(key string) (*Database, error) {
	db, ok := l.datasets.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not loaded", ErrDatasetNotFound, key)
	}
	return db, nil
}

// Unload drops the dataset for key. Matchers already holding it keep
// working; the next Load for key reads it again.
func (l *Library) Unload(key string) {
	l.datasets.Delete(key)
}

// Keys lists loaded dataset keys in load order.
func (l *Library) Keys() []string {
	return l.datasets.Keys()
}

// Match analyzes strokes and matches them against the loaded dataset key.
// It is a convenience for one-off lookups; callers matching repeatedly
// should keep a Matcher.
func (l *Library) Match(
	ctx context.Context,
	key string,
	strokes []Stroke,
	limit int,
	looseness float64,
) ([]CharacterMatch, error) {
	db, err := l.Get(key)
	if err != nil {
		return nil, err
	}
	m, err := NewMatcher(db, WithLooseness(looseness))
	if err != nil {
		return nil, err
	}
	return m.Match(ctx, Analyze(strokes), limit)
}

// readDataset resolves key and path to dataset bytes and parses them.
func readDataset(key, path string) (*Database, error) {
	if path == "" {
		data, err := dbFS.ReadFile("dbdata/" + key + ".json")
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: no embedded dataset %q", ErrDatasetNotFound, key)
			}
			return nil, fmt.Errorf("reading embedded dataset %q: %w", key, err)
		}
		return ParseDatabase(key, bytes.NewReader(data))
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrDatasetNotFound, key, err)
		}
		return nil, fmt.Errorf("failed to open dataset %s: %w", key, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), CompactExt) {
		return ReadCompactDatabase(key, f)
	}
	return ParseDatabase(key, f)
}
