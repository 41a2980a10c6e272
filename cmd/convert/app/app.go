package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/citysense/rf-exposure/internal/sensor"
	"github.com/citysense/rf-exposure/internal/survey"
	"github.com/citysense/rf-exposure/internal/workbook"
)

// Raw export extensions the converter picks up when scanning a directory.
var exportExtensions = map[string]struct{}{
	".txt": {},
	".tsv": {},
	".csv": {},
}

// Run converts every raw export under the input path into one .xlsx path
// workbook in the output directory. Per-file failures are reported and do
// not abort the run; only a run with no readable input at all fails.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	inputs, err := collectInputs(config.Input)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w under %s", survey.ErrNoInput, config.Input)
	}

	if err := os.MkdirAll(config.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	parser := sensor.New(sensor.WithLogger(logger))

	var converted int
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := convertFile(parser, input, config.OutDir, logger); err != nil {
			logger.Error("conversion failed", slog.String("file", input), slog.String("error", err.Error()))
			continue
		}
		converted++
	}

	if converted == 0 {
		return fmt.Errorf("%w: none of %d files could be converted", survey.ErrNoInput, len(inputs))
	}

	logger.Info("conversion finished",
		slog.Int("converted", converted),
		slog.Int("failed", len(inputs)-converted))
	return nil
}

func convertFile(parser *sensor.Parser, input, outDir string, logger *slog.Logger) error {
	export, err := parser.ParseFile(input)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	output := filepath.Join(outDir, base+".xlsx")

	if err := workbook.WritePath(output, export.Headers, export.Rows); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	logger.Info("converted",
		slog.String("file", filepath.Base(input)),
		slog.String("records", humanize.Comma(int64(len(export.Rows)))),
		slog.Int("skippedRows", export.Skipped))
	return nil
}

func collectInputs(path string) ([]string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading input path: %w", err)
	}
	if !stat.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := exportExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			inputs = append(inputs, filepath.Join(path, entry.Name()))
		}
	}
	return inputs, nil
}
