package workbook

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/citysense/rf-exposure/internal/bands"
	"github.com/citysense/rf-exposure/internal/inventory"
)

// NoData marks inventory groups that received no records. Zero-count groups
// are always written out, never omitted.
const NoData = "n/a"

const (
	inventorySheet  = "Inventory"
	filesSheet      = "Files"
	aggregatesSheet = "Aggregates"

	numberFormat = "0.0000"
)

// WriteInventory writes one campaign inventory workbook with three sheets:
//
//   - Inventory: one row per (environment, borough, category) over the full
//     cross-product of observed pairs, plus grand-total rows; columns are
//     total, count, mean followed by the summary statistics.
//   - Files: one row per source path file with its tag, time span, sample
//     count and per-category statistics.
//   - Aggregates: statistics tables per label (Totals, each borough, each
//     environment) over the raw per-record values.
func WriteInventory(path string, files []*inventory.FileSummary, acc *inventory.Accumulator) (err error) {
	f := excelize.NewFile()
	defer closeWithError(f, &err)

	if err = f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return fmt.Errorf("naming inventory sheet: %w", err)
	}
	if _, err = f.NewSheet(filesSheet); err != nil {
		return fmt.Errorf("creating files sheet: %w", err)
	}
	if _, err = f.NewSheet(aggregatesSheet); err != nil {
		return fmt.Errorf("creating aggregates sheet: %w", err)
	}

	if err = writeInventorySheet(f, acc); err != nil {
		return err
	}
	if err = writeFilesSheet(f, files); err != nil {
		return err
	}
	if err = writeAggregatesSheet(f, acc); err != nil {
		return err
	}

	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("saving inventory: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("computing cell name: %w", err)
	}
	if err = f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

// number converts a statistic to a cell value, mapping NaN to an empty cell.
func number(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func statCells(s inventory.Stats) []any {
	cells := make([]any, 0, len(inventory.StatNames))
	for _, v := range s.Values() {
		cells = append(cells, number(v))
	}
	return cells
}

func writeInventorySheet(f *excelize.File, acc *inventory.Accumulator) error {
	header := []any{"environment", "borough", "category", "total", "count", "mean"}
	for _, name := range inventory.StatNames {
		header = append(header, name)
	}
	if err := setRow(f, inventorySheet, 1, header); err != nil {
		return err
	}

	rowNo := 2
	writeRow := func(env, borough string, r inventory.Row) error {
		cells := []any{env, borough, string(r.Category)}
		if r.HasData() {
			cells = append(cells, r.Total, r.Count, r.Mean)
		} else {
			cells = append(cells, NoData, 0, NoData)
		}
		cells = append(cells, statCells(r.Stats)...)

		if err := setRow(f, inventorySheet, rowNo, cells); err != nil {
			return err
		}
		rowNo++
		return nil
	}

	for _, r := range acc.Rows() {
		if err := writeRow(string(r.Environment), string(r.Borough), r); err != nil {
			return err
		}
	}
	for _, r := range acc.Totals() {
		if err := writeRow("Totals", "", r); err != nil {
			return err
		}
	}

	return formatSheet(f, inventorySheet, rowNo-1, 4, 6+len(inventory.StatNames))
}

func writeFilesSheet(f *excelize.File, files []*inventory.FileSummary) error {
	header := []any{"date", "borough", "location", "environment", "note", "start time", "end time", "N"}
	for _, cat := range bands.Reported {
		for _, name := range inventory.StatNames {
			header = append(header, fmt.Sprintf("%s %s", cat, name))
		}
	}
	if err := setRow(f, filesSheet, 1, header); err != nil {
		return err
	}

	for i, file := range files {
		cells := []any{
			file.Tag.Date,
			string(file.Tag.Borough),
			file.Tag.Location,
			string(file.Tag.Environment),
			nil, // note column is filled in by hand
			file.Start,
			file.End,
			file.N,
		}
		for _, cat := range bands.Reported {
			cells = append(cells, statCells(file.Stats[cat])...)
		}
		if err := setRow(f, filesSheet, i+2, cells); err != nil {
			return err
		}
	}

	return formatSheet(f, filesSheet, len(files)+1, 9, 8+len(bands.Reported)*len(inventory.StatNames))
}

func writeAggregatesSheet(f *excelize.File, acc *inventory.Accumulator) error {
	header := []any{"Label", "Category"}
	for _, name := range inventory.StatNames {
		header = append(header, name)
	}
	if err := setRow(f, aggregatesSheet, 1, header); err != nil {
		return err
	}

	rowNo := 2
	for _, table := range acc.LabelTables() {
		for _, cat := range bands.Reported {
			cells := append([]any{table.Label, string(cat)}, statCells(table.Stats[cat])...)
			if err := setRow(f, aggregatesSheet, rowNo, cells); err != nil {
				return err
			}
			rowNo++
		}
		rowNo++ // single blank line between tables
	}

	return formatSheet(f, aggregatesSheet, rowNo-1, 3, 2+len(inventory.StatNames))
}

// formatSheet applies the shared inventory formatting: bold header row and
// label column, four decimal places on the numeric block.
func formatSheet(f *excelize.File, sheet string, lastRow, firstNumCol, lastNumCol int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating bold style: %w", err)
	}

	numFmt := numberFormat
	numeric, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("creating number style: %w", err)
	}

	lastCell, err := excelize.CoordinatesToCellName(lastNumCol, 1)
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheet, "A1", lastCell, bold); err != nil {
		return fmt.Errorf("styling header row: %w", err)
	}

	if lastRow < 2 {
		return nil
	}

	labelEnd, err := excelize.CoordinatesToCellName(1, lastRow)
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheet, "A2", labelEnd, bold); err != nil {
		return fmt.Errorf("styling label column: %w", err)
	}

	numStart, err := excelize.CoordinatesToCellName(firstNumCol, 2)
	if err != nil {
		return err
	}
	numEnd, err := excelize.CoordinatesToCellName(lastNumCol, lastRow)
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheet, numStart, numEnd, numeric); err != nil {
		return fmt.Errorf("styling numeric block: %w", err)
	}
	return nil
}
