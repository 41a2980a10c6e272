package survey

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when a run finds no readable input at all. It is
// the only whole-run-aborting condition in the pipeline.
var ErrNoInput = errors.New("no readable input files")

// ParseError reports a malformed row or field in a raw sensor export. The
// offending row is skipped and parsing continues.
type ParseError struct {
	Line  int    // 1-based line number in the raw file
	Field string // Column header, when known
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("line %d: field %q: %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TaggingError reports a path file whose name does not match the naming
// convention. The file is excluded from aggregation and reported.
type TaggingError struct {
	Filename string
}

func (e *TaggingError) Error() string {
	return fmt.Sprintf("filename %q does not match 'YYYY-MM-DD[_hh.mm.ss] <env> <borough> <location>'", e.Filename)
}

// UnknownBandError reports a band header missing from the band table. The
// reading is counted under the Unclassified category, never dropped.
type UnknownBandError struct {
	Band string
}

func (e *UnknownBandError) Error() string {
	return fmt.Sprintf("band %q is not in the band table", e.Band)
}
