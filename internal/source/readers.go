package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned when a record is not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid UTF-8")

// lineReader has no line length limit; an oversized line is still one record.
type lineReader struct {
	rc     io.ReadCloser
	reader *bufio.Reader
	record string
	line   int
	done   bool
	err    error
}

func newLineReader(rc io.ReadCloser) *lineReader {
	return &lineReader{rc: rc, reader: bufio.NewReaderSize(rc, 64*1024)}
}

func (r *lineReader) Next() bool {
	if r.err != nil || r.done {
		return false
	}
	text, err := r.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = fmt.Errorf("read line %d: %w", r.line+1, err)
			return false
		}
		r.done = true
		if text == "" {
			return false
		}
	}
	r.line++

	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	if !utf8.ValidString(text) {
		r.err = fmt.Errorf("read line %d: %w", r.line, ErrInvalidEncoding)
		return false
	}
	r.record = text
	return true
}

func (r *lineReader) Record() string { return r.record }
func (r *lineReader) Err() error     { return r.err }
func (r *lineReader) Close() error   { return r.rc.Close() }

type delimitedReader struct {
	rc     io.ReadCloser
	csv    *csv.Reader
	record string
	row    int
	err    error
}

func newDelimitedReader(rc io.ReadCloser) *delimitedReader {
	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return &delimitedReader{rc: rc, csv: reader}
}

func (r *delimitedReader) Next() bool {
	if r.err != nil {
		return false
	}
	row, err := r.csv.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = fmt.Errorf("read row: %w", err)
		}
		return false
	}
	r.row++
	// Field boundaries are intentionally flattened.
	record := strings.Join(row, " ")
	if !utf8.ValidString(record) {
		r.err = fmt.Errorf("read row %d: %w", r.row, ErrInvalidEncoding)
		return false
	}
	r.record = record
	return true
}

func (r *delimitedReader) Record() string { return r.record }
func (r *delimitedReader) Err() error     { return r.err }
func (r *delimitedReader) Close() error   { return r.rc.Close() }
