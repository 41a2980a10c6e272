package app

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/citysense/rf-exposure/internal/bands"
	"github.com/citysense/rf-exposure/internal/survey"
	"github.com/citysense/rf-exposure/internal/workbook"
)

// columnCategories renders one grid column per technology category, each
// holding the record's root-sum-of-squares over that category's bands.
const columnCategories = "categories"

type selectionKind int

const (
	selBand selectionKind = iota
	selCategory
	selCategories
)

// selection describes what the -column flag resolved to.
type selection struct {
	kind    selectionKind
	column  string
	members map[string]struct{} // band headers of the selected category
}

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	table := bands.Default()
	if config.BandFile != "" {
		var err error
		if table, err = bands.LoadFile(config.BandFile); err != nil {
			return err
		}
	}

	sel, err := resolveSelection(table, config)
	if err != nil {
		return err
	}

	reader, err := workbook.OpenPath(config.Input)
	if err != nil {
		return err
	}
	defer reader.Close()

	var img *image.RGBA
	var scale Scale
	var records int

	switch config.Mode {
	case ModeGrid:
		img, scale, records, err = renderGrid(ctx, reader, table, sel, config)
	default:
		img, scale, records, err = renderTrack(ctx, reader, sel, config)
	}
	if err != nil {
		return err
	}

	logger.Info("rendered heatmap",
		slog.String("column", sel.column),
		slog.String("mode", string(config.Mode)),
		slog.String("records", humanize.Comma(int64(records))),
		slog.String("scale", string(scale.Kind)),
		slog.String("min", humanVm(scale.Min)),
		slog.String("max", humanVm(scale.Max)))

	if config.FontFile != "" {
		ann, err := NewAnnotator(config.FontFile)
		if err != nil {
			return err
		}
		defer ann.Close()

		info := fmt.Sprintf("%s; %s scale: %s to %s; %s records",
			sel.column, scale.Kind, humanVm(scale.Min), humanVm(scale.Max),
			humanize.Comma(int64(records)))
		if img, err = ann.Attach(img, info); err != nil {
			return err
		}
	}

	return writeImage(img, sel.column, config, logger)
}

func resolveSelection(table *bands.Table, config *Config) (*selection, error) {
	name := strings.TrimSpace(config.Column)

	if strings.EqualFold(name, columnCategories) {
		if config.Mode != ModeGrid {
			return nil, fmt.Errorf("column 'categories' requires grid mode")
		}
		return &selection{kind: selCategories, column: columnCategories}, nil
	}

	for _, cat := range append(append([]bands.Category{}, bands.Base...), bands.Total) {
		if strings.EqualFold(name, string(cat)) {
			members := make(map[string]struct{})
			for _, band := range table.Bands(cat) {
				members[band] = struct{}{}
			}
			return &selection{kind: selCategory, column: string(cat), members: members}, nil
		}
	}

	// Anything else is taken as a literal band column header.
	return &selection{kind: selBand, column: name}, nil
}

func renderTrack(ctx context.Context, reader *workbook.PathReader, sel *selection, config *Config) (*image.RGBA, Scale, int, error) {
	var points []TrackPoint
	var values []float64
	var skipped int

	for reader.Next() {
		if err := ctx.Err(); err != nil {
			return nil, Scale{}, 0, err
		}

		rec := reader.Current()
		if !rec.HasPosition() {
			skipped++ // no fix; the sample is not plotted and shifts nothing
			continue
		}

		value := selectValue(rec, sel)
		if value != nil {
			values = append(values, *value)
		}
		points = append(points, TrackPoint{Lat: *rec.Latitude, Lon: *rec.Longitude, Value: value})
	}
	if err := reader.Err(); err != nil {
		return nil, Scale{}, 0, err
	}
	if len(points) == 0 {
		return nil, Scale{}, 0, fmt.Errorf("%w: no records with coordinates in %s", survey.ErrNoInput, config.Input)
	}

	scale := NewScale(config.Scale, values, config.MinValue, config.MaxValue)
	img, err := NewTrackRenderer(NewColorMapper(config.Theme), scale).Render(points)
	return img, scale, len(points) + skipped, err
}

func renderGrid(ctx context.Context, reader *workbook.PathReader, table *bands.Table, sel *selection, config *Config) (*image.RGBA, Scale, int, error) {
	columns := gridColumns(reader, table, sel)
	if len(columns) == 0 {
		return nil, Scale{}, 0, fmt.Errorf("column %q matches nothing in %s", sel.column, config.Input)
	}

	var rows [][]*float64
	var values []float64

	for reader.Next() {
		if err := ctx.Err(); err != nil {
			return nil, Scale{}, 0, err
		}

		rec := reader.Current()
		row := make([]*float64, len(columns))
		for i, col := range columns {
			row[i] = col(rec)
			if row[i] != nil {
				values = append(values, *row[i])
			}
		}
		rows = append(rows, row)
	}
	if err := reader.Err(); err != nil {
		return nil, Scale{}, 0, err
	}
	if len(rows) == 0 {
		return nil, Scale{}, 0, fmt.Errorf("%w: no records in %s", survey.ErrNoInput, config.Input)
	}

	scale := NewScale(config.Scale, values, config.MinValue, config.MaxValue)
	img, err := NewGridRenderer(NewColorMapper(config.Theme), scale).Render(rows)
	return img, scale, len(rows), err
}

// gridColumns resolves the selection into one value extractor per grid
// column, in a fixed left-to-right order.
func gridColumns(reader *workbook.PathReader, table *bands.Table, sel *selection) []func(*survey.Record) *float64 {
	bandColumn := func(band string) func(*survey.Record) *float64 {
		return func(rec *survey.Record) *float64 {
			return rec.Reading(band)
		}
	}

	switch sel.kind {
	case selCategories:
		cats := append(append([]bands.Category{}, bands.Base...), bands.Total)
		columns := make([]func(*survey.Record) *float64, 0, len(cats))
		for _, cat := range cats {
			members := make(map[string]struct{})
			for _, band := range table.Bands(cat) {
				members[band] = struct{}{}
			}
			columns = append(columns, func(rec *survey.Record) *float64 {
				return rssOver(rec, members)
			})
		}
		return columns

	case selCategory:
		available := make(map[string]struct{}, len(reader.Bands()))
		for _, band := range reader.Bands() {
			available[band] = struct{}{}
		}

		// Keep the table's declared band order.
		var columns []func(*survey.Record) *float64
		for _, band := range table.Bands(bands.Category(sel.column)) {
			if _, ok := available[band]; ok {
				columns = append(columns, bandColumn(band))
			}
		}
		return columns

	default:
		for _, band := range reader.Bands() {
			if band == sel.column {
				return []func(*survey.Record) *float64{bandColumn(band)}
			}
		}
		return nil
	}
}

// selectValue computes the track-mode value of a record: the single band
// reading, or the root-sum-of-squares over the selected category.
func selectValue(rec *survey.Record, sel *selection) *float64 {
	if sel.kind == selBand {
		return rec.Reading(sel.column)
	}
	return rssOver(rec, sel.members)
}

func rssOver(rec *survey.Record, members map[string]struct{}) *float64 {
	var sumSq float64
	var seen bool

	for i := range rec.Readings {
		reading := &rec.Readings[i]
		if reading.Value == nil {
			continue
		}
		if _, ok := members[reading.Band]; !ok {
			continue
		}
		sumSq += *reading.Value * *reading.Value
		seen = true
	}

	if !seen {
		return nil
	}
	rss := math.Sqrt(sumSq)
	return &rss
}

func writeImage(img *image.RGBA, column string, config *Config, logger *slog.Logger) (err error) {
	if err = os.MkdirAll(config.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(config.Input), filepath.Ext(config.Input))
	output := filepath.Join(config.OutDir, fmt.Sprintf("%s %s.%s", base, column, config.Format))

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	switch config.Format {
	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	default:
		err = png.Encode(out, img)
	}
	if err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}

	logger.Info("image written", slog.String("destination", output))
	return nil
}

func humanVm(v float64) string {
	fract, suffix := humanize.ComputeSI(v)
	return fmt.Sprintf("%0.3g %sV/m", fract, suffix)
}
