// Package source turns configured dataset files into streams of raw records.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// Shape declares how a source file is laid out
type Shape string

const (
	// ShapeLines treats every newline-separated line as one record.
	ShapeLines Shape = "lines"
	// ShapeDelimited parses comma-separated rows and joins each row's fields with a space.
	ShapeDelimited Shape = "delimited"
)

var (
	// ErrSourceMissing is returned when a source's backing file does not exist.
	ErrSourceMissing = errors.New("source file does not exist")
	// ErrUnsupportedShape is returned for a shape that has no reader.
	ErrUnsupportedShape = errors.New("unsupported source shape")
)

// Descriptor names one dataset and where and how to read it
type Descriptor struct {
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path" yaml:"path"` // local path or any afs URL
	Shape Shape  `json:"shape" yaml:"shape"`
}

// RecordReader yields raw records one at a time, in file order
type RecordReader interface {
	// Next advances to the next record. It returns false at end of input or on error.
	Next() bool
	// Record returns the current record.
	Record() string
	// Err returns the first read error, if any.
	Err() error
	Close() error
}

// Adapter opens sources through an afs file system
type Adapter struct {
	fs afs.Service
}

// NewAdapter creates an adapter backed by the default afs service
func NewAdapter() *Adapter {
	return &Adapter{fs: afs.New()}
}

// NewAdapterWithFS creates an adapter backed by the given afs service
func NewAdapterWithFS(fs afs.Service) *Adapter {
	return &Adapter{fs: fs}
}

// Open resolves a descriptor into a record reader. A missing file yields
// ErrSourceMissing and an unknown shape ErrUnsupportedShape; callers treat
// both as a skipped source. Any other error is an I/O failure.
func (a *Adapter) Open(ctx context.Context, desc Descriptor) (RecordReader, error) {
	if desc.Shape != ShapeLines && desc.Shape != ShapeDelimited {
		return nil, fmt.Errorf("%w: %q for source %s", ErrUnsupportedShape, desc.Shape, desc.Name)
	}

	location := Location(desc.Path)
	exists, err := a.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", desc.Path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, desc.Path)
	}

	rc, err := a.fs.OpenURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", desc.Path, err)
	}

	return newReader(desc.Shape, rc), nil
}

// ReadAll drains a descriptor into memory. Intended for small sources and tests.
func (a *Adapter) ReadAll(ctx context.Context, desc Descriptor) ([]string, error) {
	reader, err := a.Open(ctx, desc)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var records []string
	for reader.Next() {
		records = append(records, reader.Record())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func newReader(shape Shape, rc io.ReadCloser) RecordReader {
	if shape == ShapeDelimited {
		return newDelimitedReader(rc)
	}
	return newLineReader(rc)
}

// Location normalizes a plain path into an afs URL; URLs with a scheme pass through.
func Location(path string) string {
	return url.Normalize(path, "file")
}
