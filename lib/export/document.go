// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/dutymate/dutymate-v2-sub000/lib/codec"
	"github.com/dutymate/dutymate-v2-sub000/lib/metrics"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// DocumentVersion is the schema version of Document.
const DocumentVersion = 1

// Document is one exported period.
type Document struct {
	Version    int             `json:"version"`
	Period     roster.Period   `json:"period"`
	ExportedAt time.Time       `json:"exportedAt"`
	Snapshot   roster.Snapshot `json:"snapshot"`
	Metrics    metrics.Metrics `json:"metrics"`

	// OffDays is the number of rest days each nurse is owed.
	OffDays int `json:"offDays"`

	// RestDays are the weekend and holiday days of the period.
	RestDays []int `json:"restDays"`
}

// NewDocument derives the statistics of snapshot and stamps the
// export time.
func NewDocument(snapshot roster.Snapshot, calendar roster.Calendar, now time.Time) Document {
	period := snapshot.Grid.Period
	var restDays []int
	for day := 1; day <= snapshot.Grid.Days(); day++ {
		if calendar.IsRestDay(period, day) {
			restDays = append(restDays, day)
		}
	}
	return Document{
		Version:    DocumentVersion,
		Period:     period,
		ExportedAt: now.UTC(),
		Snapshot:   snapshot.Clone(),
		Metrics:    metrics.Compute(snapshot.Grid, snapshot.Violations),
		OffDays:    metrics.DefaultOffDays(period, calendar),
		RestDays:   restDays,
	}
}

// Write encodes document to w in format.
func Write(w io.Writer, format Format, document Document) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(w, document)

	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(document); err != nil {
			return fmt.Errorf("export: encoding json: %w", err)
		}
		return nil

	case FormatCBOR:
		return writeCBOR(w, document)

	case FormatCBORZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("export: zstd writer: %w", err)
		}
		if err := writeCBOR(encoder, document); err != nil {
			encoder.Close()
			return err
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("export: zstd close: %w", err)
		}
		return nil

	case FormatCBORLZ4:
		encoder := lz4.NewWriter(w)
		if err := writeCBOR(encoder, document); err != nil {
			encoder.Close()
			return err
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("export: lz4 close: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("export: unsupported format %s", format)
	}
}

func writeCBOR(w io.Writer, document Document) error {
	if err := codec.NewEncoder(w).Encode(document); err != nil {
		return fmt.Errorf("export: encoding cbor: %w", err)
	}
	return nil
}

// Read decodes a document written by Write. XLSX is not readable.
func Read(r io.Reader, format Format) (Document, error) {
	var document Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&document); err != nil {
			return Document{}, fmt.Errorf("export: decoding json: %w", err)
		}

	case FormatCBOR:
		if err := codec.NewDecoder(r).Decode(&document); err != nil {
			return Document{}, fmt.Errorf("export: decoding cbor: %w", err)
		}

	case FormatCBORZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return Document{}, fmt.Errorf("export: zstd reader: %w", err)
		}
		defer decoder.Close()
		if err := codec.NewDecoder(decoder).Decode(&document); err != nil {
			return Document{}, fmt.Errorf("export: decoding cbor: %w", err)
		}

	case FormatCBORLZ4:
		if err := codec.NewDecoder(lz4.NewReader(r)).Decode(&document); err != nil {
			return Document{}, fmt.Errorf("export: decoding cbor: %w", err)
		}

	default:
		return Document{}, fmt.Errorf("export: %s cannot be read back", format)
	}

	if document.Version != DocumentVersion {
		return Document{}, fmt.Errorf("export: unsupported document version %d", document.Version)
	}
	if err := document.Snapshot.Grid.Validate(); err != nil {
		return Document{}, fmt.Errorf("export: %w", err)
	}
	return document, nil
}

// WriteFile writes document to path in the format its suffix names.
// The file is written to a sibling temporary first and renamed into
// place.
func WriteFile(path string, document Document) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var buffer bytes.Buffer
	if err := Write(&buffer, format, document); err != nil {
		return err
	}
	temporary := path + ".tmp"
	if err := os.WriteFile(temporary, buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.Rename(temporary, path); err != nil {
		os.Remove(temporary)
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// ReadFile reads a document from path, inferring the format from its
// suffix.
func ReadFile(path string) (Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Document{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("export: %w", err)
	}
	defer file.Close()
	return Read(file, format)
}

// FileName returns the default file name for period in format.
func FileName(period roster.Period, format Format) string {
	return "duty-" + period.String() + format.Extension()
}
