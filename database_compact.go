package hanzilookup

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// CompactExt is the file extension of compact (gob + gzip) datasets.
const CompactExt = ".hzdb"

// compactFormatVersion is bumped whenever CompactDatabase changes shape.
const compactFormatVersion = 1

// CompactDatabase is the serialized form of a Database. It skips the
// base64 and JSON layers of the text form, so large datasets load without
// re-parsing.
type CompactDatabase struct {
	Version    int
	Key        string
	Characters []ReferenceCharacter
	SubStrokes []byte
}

// WriteCompactDatabase writes db as gzip-compressed gob data.
func WriteCompactDatabase(w io.Writer, db *Database) error {
	gzw := gzip.NewWriter(w)
	enc := gob.NewEncoder(gzw)
	cdb := CompactDatabase{
		Version:    compactFormatVersion,
		Key:        db.Key,
		Characters: db.Characters,
		SubStrokes: db.SubStrokes,
	}
	if err := enc.Encode(cdb); err != nil {
		return fmt.Errorf("failed to encode database %s: %w", db.Key, err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer for %s: %w", db.Key, err)
	}
	return nil
}

// ReadCompactDatabase reads a database written by WriteCompactDatabase and
// validates it. The stored key is replaced by key.
func ReadCompactDatabase(key string, r io.Reader) (*Database, error) {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gzip reader: %v", ErrInvalidDatabase, err)
	}
	defer gzr.Close()

	var cdb CompactDatabase
	if err := gob.NewDecoder(gzr).Decode(&cdb); err != nil {
		return nil, fmt.Errorf("%w: failed to decode database data: %v", ErrInvalidDatabase, err)
	}
	if cdb.Version != compactFormatVersion {
		return nil, fmt.Errorf("%w: %s: unsupported compact format version %d",
			ErrInvalidDatabase, key, cdb.Version)
	}

	db := &Database{
		Key:        key,
		Characters: cdb.Characters,
		SubStrokes: cdb.SubStrokes,
	}
	if err := db.normalize(); err != nil {
		return nil, err
	}
	return db, nil
}
