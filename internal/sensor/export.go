// Package sensor parses raw ExpoM-4 RF sniffer exports: tab-separated text
// with a metadata preamble, one row per sample, and a few lines of summary
// junk at the end of the file.
package sensor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// Layout of an ExpoM export, 0-based line indexes. Headers are
	// synthesized from the two metadata lines; data starts at line 15 and
	// the last three lines hold summary junk.
	headerNameLine = 11
	headerUnitLine = 12
	dataStartLine  = 14
	trailerLines   = 3

	minExportLines = dataStartLine + trailerLines
)

// Timestamp formats seen in ExpoM exports, tried in order.
var timestampFormats = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
}

// TimestampLayout is the normalized timestamp format written to converted
// path files.
const TimestampLayout = "2006-01-02 15:04:05"

// Export is one parsed sensor export: synthesized headers and cleaned data
// rows, ready to be written out as a path workbook.
type Export struct {
	Headers []string // Unique column headers, converter output order
	Rows    [][]any  // Cleaned cells; nil means an empty cell
	Skipped int      // Rows dropped as malformed
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used to report skipped rows.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parser converts raw ExpoM exports into cleaned, labeled tabular data.
type Parser struct {
	logger *slog.Logger
}

// New creates a Parser. Without options, skipped rows are not reported.
func New(opts ...Option) *Parser {
	p := Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}
	for _, opt := range opts {
		opt(&p)
	}
	return &p
}

// ParseFile parses a raw export from disk.
func (p *Parser) ParseFile(path string) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	export, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return export, nil
}

// Parse reads a raw export. The input is split on newlines and tabs only;
// commas are data, and blank lines are kept so that line numbers match what
// a text editor shows.
func (p *Parser) Parse(r io.Reader) (*Export, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	lines := strings.Split(string(raw), "\n")
	if len(lines) < minExportLines {
		return nil, fmt.Errorf("export has %d lines, need at least %d", len(lines), minExportLines)
	}

	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = strings.Split(line, "\t")
	}

	headers := buildHeaders(rows[headerNameLine], rows[headerUnitLine])

	export := Export{Headers: headers}

	latIdx, lonIdx := -1, -1
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "gps lat":
			latIdx = i
		case "gps lon":
			lonIdx = i
		}
	}

	for i, raw := range rows[dataStartLine : len(rows)-trailerLines] {
		lineNo := dataStartLine + i + 1

		cells := make([]any, len(headers))
		for j := range headers {
			if j < len(raw) {
				cells[j] = cleanCell(raw[j])
			}
		}

		// The first column holds the sample timestamp and is required.
		if cells[0] == nil {
			export.Skipped++
			p.logger.Warn("skipping row with missing timestamp", slog.Int("line", lineNo))
			continue
		}
		if ts, ok := cells[0].(string); ok {
			cells[0] = normalizeTimestamp(ts)
		}

		if latIdx >= 0 {
			cells[latIdx] = deref(ParseLatitude(cells[latIdx]))
		}
		if lonIdx >= 0 {
			cells[lonIdx] = deref(ParseLongitude(cells[lonIdx]))
		}

		export.Rows = append(export.Rows, cells)
	}

	return &export, nil
}

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

var parenthetical = regexp.MustCompile(`\(([^()]*)\)`)

// buildHeaders synthesizes column headers from the two metadata lines. The
// first two columns take the unit line as-is; from the third column on, the
// name line is combined with the last parenthetical of the unit line
// ("Amplitude" + "Ch1 (mV)" -> "Amplitude (mV)"). Duplicates are made
// unique with .1, .2, ... suffixes.
func buildHeaders(nameLine, unitLine []string) []string {
	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(strings.ReplaceAll(row[i], "\x00", ""))
	}

	n := max(len(nameLine), len(unitLine))
	hdr := make([]string, 0, n)
	for i := 0; i < 2 && i < n; i++ {
		hdr = append(hdr, cell(unitLine, i))
	}

	for i := 2; i < n; i++ {
		name, unit := cell(nameLine, i), cell(unitLine, i)
		switch {
		case name == "":
			hdr = append(hdr, unit)
		default:
			if m := parenthetical.FindAllStringSubmatch(unit, -1); m != nil {
				hdr = append(hdr, fmt.Sprintf("%s (%s)", name, m[len(m)-1][1]))
			} else {
				hdr = append(hdr, name)
			}
		}
	}

	return uniqueHeaders(hdr)
}

func uniqueHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	unique := make([]string, len(headers))
	for i, h := range headers {
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			unique[i] = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
			unique[i] = h
		}
	}
	return unique
}

// cleanCell normalizes one raw cell: NUL bytes and CRs stripped, leading '='
// escaped so spreadsheet software cannot treat data as a formula, integers
// and floats converted, everything else kept as text. Empty cells become nil.
func cleanCell(raw string) any {
	s := strings.ReplaceAll(raw, "\x00", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "=") {
		return "'" + s
	}

	if isDigits(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func normalizeTimestamp(s string) string {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.Format(TimestampLayout)
		}
	}
	return s
}
