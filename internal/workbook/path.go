// Package workbook is the xlsx interchange layer of the pipeline: converted
// path files are written and read here, and campaign inventories are laid
// out here. All stages share only this on-disk format.
package workbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/citysense/rf-exposure/internal/sensor"
	"github.com/citysense/rf-exposure/internal/survey"
)

const pathSheet = "Sheet1"

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

// WritePath writes a converted path workbook: a single sheet with one header
// row and one row per measurement record. Column order is the converter's
// fixed output order; downstream consumers may rely on it positionally or by
// header name.
func WritePath(path string, headers []string, rows [][]any) (err error) {
	f := excelize.NewFile()
	defer closeWithError(f, &err)

	if err = f.SetSheetRow(pathSheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	for i, row := range rows {
		cell, cErr := excelize.CoordinatesToCellName(1, i+2)
		if cErr != nil {
			return fmt.Errorf("computing cell name: %w", cErr)
		}
		if err = f.SetSheetRow(pathSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// ReaderOption configures a PathReader.
type ReaderOption func(*PathReader)

// WithTimeRange restricts iteration to records within [from, to].
func WithTimeRange(from, to time.Time) ReaderOption {
	return func(r *PathReader) {
		r.from, r.to = &from, &to
	}
}

// WithColumns restricts the band readings of each record to the named
// column headers.
func WithColumns(names ...string) ReaderOption {
	return func(r *PathReader) {
		r.columns = make(map[string]struct{}, len(names))
		for _, n := range names {
			r.columns[n] = struct{}{}
		}
	}
}

// PathReader iterates the measurement records of one converted path
// workbook. Each reader must be closed after use and used from a single
// goroutine.
type PathReader struct {
	f    *excelize.File
	rows *excelize.Rows

	headers []string
	latIdx  int
	lonIdx  int
	bandIdx []int

	from, to *time.Time
	columns  map[string]struct{}

	current *survey.Record
	err     error
}

// OpenPath opens a converted path workbook for record iteration.
func OpenPath(path string, opts ...ReaderOption) (*PathReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	r := PathReader{f: f, latIdx: -1, lonIdx: -1}
	for _, opt := range opts {
		opt(&r)
	}

	if err = r.init(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &r, nil
}

func (r *PathReader) init() error {
	sheets := r.f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}

	rows, err := r.f.Rows(sheets[0])
	if err != nil {
		return fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	r.rows = rows

	if !rows.Next() {
		return fmt.Errorf("workbook has no header row")
	}
	headers, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("reading header row: %w", err)
	}
	if len(headers) < 3 {
		return fmt.Errorf("workbook has %d columns, need at least 3", len(headers))
	}
	r.headers = headers

	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "gps lat":
			r.latIdx = i
		case "gps lon":
			r.lonIdx = i
		}
	}

	// Band columns: everything past the two leading metadata columns that
	// is not a coordinate column. WithColumns narrows this further.
	for i := 2; i < len(headers); i++ {
		if i == r.latIdx || i == r.lonIdx || strings.TrimSpace(headers[i]) == "" {
			continue
		}
		if r.columns != nil {
			if _, ok := r.columns[headers[i]]; !ok {
				continue
			}
		}
		r.bandIdx = append(r.bandIdx, i)
	}

	return nil
}

// Headers returns the workbook's header row.
func (r *PathReader) Headers() []string {
	return r.headers
}

// Bands returns the headers of the band columns selected for iteration.
func (r *PathReader) Bands() []string {
	names := make([]string, len(r.bandIdx))
	for i, idx := range r.bandIdx {
		names[i] = r.headers[idx]
	}
	return names
}

// Next advances to the next record, applying the time range filter.
// It returns false at the end of the sheet or on error; check Err.
func (r *PathReader) Next() bool {
	for r.rows.Next() {
		cells, err := r.rows.Columns()
		if err != nil {
			r.err = fmt.Errorf("reading row: %w", err)
			return false
		}
		if len(cells) == 0 {
			continue
		}

		rec := r.toRecord(cells)
		if r.from != nil && (rec.Timestamp.Before(*r.from) || rec.Timestamp.After(*r.to)) {
			continue
		}

		r.current = rec
		return true
	}

	r.current = nil
	return false
}

// Current returns the record at the iterator position. Only valid after a
// true Next.
func (r *PathReader) Current() *survey.Record {
	return r.current
}

// Err returns the first error encountered during iteration.
func (r *PathReader) Err() error {
	return r.err
}

// Close releases the underlying workbook resources.
func (r *PathReader) Close() error {
	if r.rows != nil {
		_ = r.rows.Close()
	}
	return r.f.Close()
}

func (r *PathReader) toRecord(cells []string) *survey.Record {
	cell := func(i int) string {
		if i < 0 || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	rec := survey.Record{
		Timestamp: parseTimestamp(cell(0)),
		Latitude:  sensor.ParseLatitude(nonEmpty(cell(r.latIdx))),
		Longitude: sensor.ParseLongitude(nonEmpty(cell(r.lonIdx))),
		Readings:  make([]survey.Reading, 0, len(r.bandIdx)),
	}

	for _, idx := range r.bandIdx {
		rec.Readings = append(rec.Readings, survey.Reading{
			Band:  r.headers[idx],
			Value: parseValue(cell(idx)),
		})
	}
	return &rec
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseValue(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseTimestamp(s string) time.Time {
	layouts := []string{
		sensor.TimestampLayout,
		"1/2/2006 15:04:05",
		"1/2/06 15:04",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
