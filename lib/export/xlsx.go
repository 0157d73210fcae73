// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/dutymate/dutymate-v2-sub000/lib/metrics"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// Columns are name, previous-period tail, one per day, then the
// per-nurse D/E/N/O counts.
const firstDayColumn = 3

var footerLabels = []string{"D", "E", "N", "O", "Total"}

// Workbook renders document as a one-sheet workbook named after the
// period. The caller closes the returned file.
func Workbook(document Document) (*excelize.File, error) {
	file := excelize.NewFile()
	sheet := document.Period.String()
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		file.Close()
		return nil, fmt.Errorf("export: naming sheet: %w", err)
	}

	if err := fillWorkbook(file, sheet, document); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

func fillWorkbook(file *excelize.File, sheet string, document Document) error {
	grid := document.Snapshot.Grid
	stats := metrics.Compute(grid, document.Snapshot.Violations)
	days := grid.Days()
	lastDayColumn := firstDayColumn + days - 1

	headers := []any{"Name", "Previous"}
	for day := 1; day <= days; day++ {
		headers = append(headers, day)
	}
	for _, code := range roster.TalliedShifts {
		headers = append(headers, string(code.Letter()))
	}
	if err := setRow(file, sheet, 1, headers); err != nil {
		return err
	}

	for index, nurse := range grid.Rows {
		row := []any{nurse.Name, roster.FormatShifts(nurse.Trailing)}
		for _, code := range nurse.Shifts {
			row = append(row, cellText(code))
		}
		counts := stats.PerNurse[index]
		for _, code := range roster.TalliedShifts {
			row = append(row, counts.Count(code))
		}
		if err := setRow(file, sheet, index+2, row); err != nil {
			return err
		}
	}

	footerStart := len(grid.Rows) + 2
	for offset, label := range footerLabels {
		row := []any{label, ""}
		for _, counts := range stats.PerDay {
			if label == "Total" {
				row = append(row, counts.Total)
				continue
			}
			code, _ := roster.ParseShiftCode(label)
			row = append(row, counts.Count(code))
		}
		if err := setRow(file, sheet, footerStart+offset, row); err != nil {
			return err
		}
	}

	return styleWorkbook(file, sheet, document, lastDayColumn, footerStart)
}

// cellText leaves unassigned cells blank so printed rosters only show
// real assignments.
func cellText(code roster.ShiftCode) string {
	if !code.Filled() {
		return ""
	}
	return string(code.Letter())
}

func setRow(file *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	if err := file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("export: writing row %d: %w", row, err)
	}
	return nil
}

func styleWorkbook(file *excelize.File, sheet string, document Document, lastDayColumn, footerStart int) error {
	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	restStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#C53030"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FED7D7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("export: rest-day style: %w", err)
	}
	footerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Italic: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("export: footer style: %w", err)
	}

	if err := file.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("export: styling header: %w", err)
	}
	for _, day := range document.RestDays {
		cell := columnName(day) + "1"
		if err := file.SetCellStyle(sheet, cell, cell, restStyle); err != nil {
			return fmt.Errorf("export: styling %s: %w", cell, err)
		}
	}
	if err := file.SetRowStyle(sheet, footerStart, footerStart+len(footerLabels)-1, footerStyle); err != nil {
		return fmt.Errorf("export: styling footer: %w", err)
	}

	lastColumn, err := excelize.ColumnNumberToName(lastDayColumn + len(roster.TalliedShifts))
	if err != nil {
		return err
	}
	firstDay, err := excelize.ColumnNumberToName(firstDayColumn)
	if err != nil {
		return err
	}
	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 16},
		{"B", "B", 10},
		{firstDay, lastColumn, 4.5},
	}
	for _, width := range widths {
		if err := file.SetColWidth(sheet, width.from, width.to, width.width); err != nil {
			return fmt.Errorf("export: column width: %w", err)
		}
	}

	// Keep names and the day header in view while scrolling.
	topLeft, err := excelize.CoordinatesToCellName(firstDayColumn, 2)
	if err != nil {
		return err
	}
	return file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      firstDayColumn - 1,
		YSplit:      1,
		TopLeftCell: topLeft,
		ActivePane:  "bottomRight",
	})
}

func writeXLSX(w io.Writer, document Document) error {
	file, err := Workbook(document)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("export: writing xlsx: %w", err)
	}
	return nil
}

// columnName maps a 1-based day to its spreadsheet column.
func columnName(day int) string {
	name, err := excelize.ColumnNumberToName(firstDayColumn + day - 1)
	if err != nil {
		return strconv.Itoa(day)
	}
	return name
}
