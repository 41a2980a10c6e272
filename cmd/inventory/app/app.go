package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/citysense/rf-exposure/internal/bands"
	"github.com/citysense/rf-exposure/internal/inventory"
	"github.com/citysense/rf-exposure/internal/survey"
	"github.com/citysense/rf-exposure/internal/workbook"
)

// Run aggregates one campaign directory of converted path workbooks into a
// single inventory workbook. Files with non-conforming names or read errors
// are excluded and reported; the run only fails when nothing at all could
// be aggregated.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	table := bands.Default()
	if config.BandFile != "" {
		var err error
		if table, err = bands.LoadFile(config.BandFile); err != nil {
			return err
		}
		logger.Info("using band table override",
			slog.String("file", config.BandFile),
			slog.Int("version", table.Version()))
	}

	inputs, err := collectWorkbooks(config.InDir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w under %s", survey.ErrNoInput, config.InDir)
	}

	acc := inventory.New(table)
	var files []*inventory.FileSummary

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		summary, err := processWorkbook(acc, input)
		if err != nil {
			var tagErr *survey.TaggingError
			if errors.As(err, &tagErr) {
				logger.Warn("excluded from inventory", slog.String("reason", tagErr.Error()))
			} else {
				logger.Error("skipping unreadable file",
					slog.String("file", filepath.Base(input)),
					slog.String("error", err.Error()))
			}
			continue
		}

		files = append(files, summary)
		logger.Info("aggregated",
			slog.String("file", filepath.Base(input)),
			slog.String("records", humanize.Comma(int64(summary.N))),
			slog.String("environment", summary.Tag.Environment.Name()),
			slog.String("borough", summary.Tag.Borough.Name()))
	}

	if len(files) == 0 {
		return fmt.Errorf("%w: none of %d files could be aggregated", survey.ErrNoInput, len(inputs))
	}

	for _, band := range acc.UnknownBands() {
		logger.Warn("band not in table, counted as Unclassified", slog.String("band", band))
	}

	if err := os.MkdirAll(config.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	output := filepath.Join(config.OutDir, fmt.Sprintf("inventory_%s.xlsx", config.Campaign))
	if err := workbook.WriteInventory(output, files, acc); err != nil {
		return err
	}

	logger.Info("inventory written",
		slog.String("campaign", config.Campaign),
		slog.String("destination", output),
		slog.Int("files", len(files)),
		slog.Int("excluded", len(inputs)-len(files)))
	return nil
}

// processWorkbook tags and reads one path workbook and folds it into the
// accumulator. Tagging happens before any file IO so a bad name costs
// nothing.
func processWorkbook(acc *inventory.Accumulator, input string) (*inventory.FileSummary, error) {
	tag, err := survey.ParseTag(input)
	if err != nil {
		return nil, err
	}

	reader, err := workbook.OpenPath(input)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	path := survey.Path{Tag: tag}
	for reader.Next() {
		path.Records = append(path.Records, *reader.Current())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}

	return acc.AddPath(&path), nil
}

func collectWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading campaign directory: %w", err)
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xlsx", ".xlsm":
			inputs = append(inputs, filepath.Join(dir, entry.Name()))
		}
	}
	return inputs, nil
}
