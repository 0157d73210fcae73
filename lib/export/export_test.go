// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

var october = roster.Period{Year: 2026, Month: time.October}

func sampleDocument(t *testing.T) Document {
	t.Helper()
	grid := roster.EmptyGrid(october, []roster.NurseRow{
		{NurseID: 1, Name: "김하나", Role: roster.HeadNurse, Trailing: []roster.ShiftCode{roster.Night, roster.Night, roster.Off}},
		{NurseID: 2, Name: "이두리", Role: roster.RegisteredNurse},
	})
	grid.Rows[0].Shifts[0] = roster.Day
	grid.Rows[0].Shifts[1] = roster.Evening
	grid.Rows[1].Shifts[0] = roster.Day
	grid.Rows[1].Shifts[2] = roster.Mid
	snapshot := roster.Snapshot{
		Grid:       grid,
		Violations: []roster.Violation{{NurseID: 2, StartDay: 1, EndDay: 3, Message: "too many consecutive shifts"}},
		History:    []roster.HistoryEntry{{Index: 0, NurseID: 1, Name: "김하나", Before: roster.Unassigned, After: roster.Day, Day: 1}},
	}
	calendar := roster.NewCalendar(roster.Holiday{Date: time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC), Name: "한글날"})
	return NewDocument(snapshot, calendar, time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC))
}

func TestNewDocument(t *testing.T) {
	document := sampleDocument(t)
	if document.OffDays != 10 {
		t.Errorf("OffDays = %d, want 10", document.OffDays)
	}
	if len(document.RestDays) != 10 || document.RestDays[0] != 3 {
		t.Errorf("RestDays = %v", document.RestDays)
	}
	if got := document.Metrics.PerDay[0].Day; got != 2 {
		t.Errorf("day 1 D count = %d, want 2", got)
	}
}

func TestReadableFormatsRoundTrip(t *testing.T) {
	document := sampleDocument(t)
	for _, format := range Formats {
		if !format.Readable() {
			continue
		}
		t.Run(format.String(), func(t *testing.T) {
			var buffer bytes.Buffer
			if err := Write(&buffer, format, document); err != nil {
				t.Fatalf("Write: %v", err)
			}
			decoded, err := Read(&buffer, format)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if decoded.Period != october || !decoded.ExportedAt.Equal(document.ExportedAt) {
				t.Errorf("header = %s %v", decoded.Period, decoded.ExportedAt)
			}
			for index, row := range decoded.Snapshot.Grid.Rows {
				want := document.Snapshot.Grid.Rows[index]
				if roster.FormatShifts(row.Shifts) != roster.FormatShifts(want.Shifts) {
					t.Errorf("row %d shifts = %s, want %s", index, roster.FormatShifts(row.Shifts), roster.FormatShifts(want.Shifts))
				}
				if roster.FormatShifts(row.Trailing) != roster.FormatShifts(want.Trailing) || row.Name != want.Name {
					t.Errorf("row %d = %+v", index, row)
				}
			}
			if !reflect.DeepEqual(decoded.Snapshot.Violations, document.Snapshot.Violations) {
				t.Errorf("violations = %+v", decoded.Snapshot.Violations)
			}
			if !reflect.DeepEqual(decoded.Metrics, document.Metrics) {
				t.Errorf("metrics = %+v, want %+v", decoded.Metrics, document.Metrics)
			}
		})
	}
}

func TestCompressedCBORIsSmaller(t *testing.T) {
	document := sampleDocument(t)
	var plain, compressed bytes.Buffer
	if err := Write(&plain, FormatCBOR, document); err != nil {
		t.Fatal(err)
	}
	if err := Write(&compressed, FormatCBORZstd, document); err != nil {
		t.Fatal(err)
	}
	if compressed.Len() >= plain.Len() {
		t.Errorf("zstd output %d bytes, plain %d bytes", compressed.Len(), plain.Len())
	}
}

func TestWorkbookLayout(t *testing.T) {
	file, err := Workbook(sampleDocument(t))
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer file.Close()

	sheet := "2026-10"
	rows, err := file.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// Header, two nurses, five footer rows.
	if len(rows) != 8 {
		t.Fatalf("rows = %d, want 8", len(rows))
	}
	header := rows[0]
	if len(header) != 2+31+4 || header[0] != "Name" || header[1] != "Previous" || header[2] != "1" || header[32] != "31" || header[33] != "D" || header[36] != "O" {
		t.Fatalf("header = %v", header)
	}

	cells := map[string]string{
		"A2":  "김하나",
		"B2":  "NNO",
		"C2":  "D",
		"D2":  "E",
		"AH2": "1", // D count
		"AI2": "1", // E count
		"E3":  "M",
		"A4":  "D",
		"C4":  "2",
		"A8":  "Total",
		"C8":  "2",
		"E8":  "0",
	}
	for cell, want := range cells {
		got, err := file.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
	if got, _ := file.GetCellValue(sheet, "E2"); got != "" {
		t.Errorf("unassigned cell rendered as %q", got)
	}
}

func TestWriteFileInfersFormat(t *testing.T) {
	document := sampleDocument(t)
	directory := t.TempDir()
	for _, format := range Formats {
		path := filepath.Join(directory, FileName(october, format))
		if err := WriteFile(path, document); err != nil {
			t.Fatalf("WriteFile(%s): %v", path, err)
		}
		if !format.Readable() {
			file, err := excelize.OpenFile(path)
			if err != nil {
				t.Fatalf("opening exported workbook: %v", err)
			}
			file.Close()
			continue
		}
		decoded, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", path, err)
		}
		if decoded.Period != october {
			t.Errorf("%s: period = %s", format, decoded.Period)
		}
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"duty-2026-10.xlsx", FormatXLSX, false},
		{"/tmp/a.JSON", FormatJSON, false},
		{"a.cbor", FormatCBOR, false},
		{"a.cbor.zst", FormatCBORZstd, false},
		{"a.cbor.lz4", FormatCBORLZ4, false},
		{"a.txt", 0, true},
	}
	for _, test := range tests {
		got, err := FormatOf(test.path)
		if test.err {
			if err == nil {
				t.Errorf("FormatOf(%q) = %s, want error", test.path, got)
			}
			continue
		}
		if err != nil || got != test.want {
			t.Errorf("FormatOf(%q) = %s, %v; want %s", test.path, got, err, test.want)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("ParseFormat accepted csv")
	}
	if format, err := ParseFormat("CBOR.ZST"); err != nil || format != FormatCBORZstd {
		t.Errorf("ParseFormat(CBOR.ZST) = %s, %v", format, err)
	}
}

func TestReadRejectsXLSX(t *testing.T) {
	if _, err := Read(bytes.NewReader(nil), FormatXLSX); err == nil {
		t.Fatal("Read accepted xlsx")
	}
}
