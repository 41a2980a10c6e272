package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/citysense/rf-exposure/internal/survey"
	"github.com/citysense/rf-exposure/internal/workbook"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rawExport is a miniature ExpoM-4 export: metadata preamble, the two header
// lines, two data rows and the trailing summary junk.
var rawExport = strings.Join([]string{
	"ExpoM-4 RF Exposure Meter",
	"Serial\t1234",
	"Firmware\t2.1",
	"Start\t6/1/2024 10:00:00",
	"Config\tNYC survey",
	"",
	"Axis\tIsotropic",
	"Unit\tV/m",
	"",
	"Bands\t2",
	"",
	"\t\tFM\tGPS lat\tGPS lon\tMobile DL",
	"Time\tIndex\tCh1 (RMS) (V/m)\tdeg\tdeg\t(V/m)",
	"",
	"6/1/2024 10:00:00\t1\t0.5\t4012.3456N\t07401.2345W\t0.25",
	"6/1/2024 10:00:05\t2\t0.6\t0\t0\t0.3",
	"",
	"Max\t0.6",
	"End of export",
}, "\n")

func TestRun_ConvertsDirectory(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()

	input := filepath.Join(inDir, "2024-06-01 C M Midtown.txt")
	if err := os.WriteFile(input, []byte(rawExport), 0o644); err != nil {
		t.Fatalf("Failed to write raw export: %v", err)
	}
	// Files with other extensions are ignored by the directory scan.
	if err := os.WriteFile(filepath.Join(inDir, "notes.md"), []byte("field notes"), 0o644); err != nil {
		t.Fatalf("Failed to write decoy file: %v", err)
	}

	config := &Config{Input: inDir, OutDir: outDir}
	if err := Run(context.Background(), config, discardLogger()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	output := filepath.Join(outDir, "2024-06-01 C M Midtown.xlsx")
	r, err := workbook.OpenPath(output)
	if err != nil {
		t.Fatalf("Converted workbook is unreadable: %v", err)
	}
	defer r.Close()

	var records []*survey.Record
	for r.Next() {
		records = append(records, r.Current())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Iteration failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 converted records, got %d", len(records))
	}

	if !records[0].HasPosition() {
		t.Error("First record should keep its GPS fix through conversion")
	}
	if records[1].HasPosition() {
		t.Error("Zero coordinates should not survive conversion as a position")
	}
	if v := records[0].Reading("Mobile DL (V/m)"); v == nil || *v != 0.25 {
		t.Errorf("Expected Mobile DL reading 0.25, got %v", v)
	}
}

func TestRun_SingleFile(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()

	input := filepath.Join(inDir, "2024-06-01 R BK Park Slope.tsv")
	if err := os.WriteFile(input, []byte(rawExport), 0o644); err != nil {
		t.Fatalf("Failed to write raw export: %v", err)
	}

	config := &Config{Input: input, OutDir: outDir}
	if err := Run(context.Background(), config, discardLogger()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "2024-06-01 R BK Park Slope.xlsx")); err != nil {
		t.Errorf("Expected converted workbook next to the campaign: %v", err)
	}
}

func TestRun_NoInput(t *testing.T) {
	config := &Config{Input: t.TempDir(), OutDir: t.TempDir()}

	err := Run(context.Background(), config, discardLogger())
	if !errors.Is(err, survey.ErrNoInput) {
		t.Fatalf("Expected ErrNoInput, got %v", err)
	}
}

func TestRun_AllFilesBroken(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()

	if err := os.WriteFile(filepath.Join(inDir, "truncated.txt"), []byte("too\tshort"), 0o644); err != nil {
		t.Fatalf("Failed to write broken export: %v", err)
	}

	config := &Config{Input: inDir, OutDir: outDir}
	err := Run(context.Background(), config, discardLogger())
	if !errors.Is(err, survey.ErrNoInput) {
		t.Fatalf("Expected ErrNoInput when nothing converts, got %v", err)
	}
}
