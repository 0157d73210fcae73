// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an export encoding.
type Format uint8

const (
	FormatXLSX Format = iota
	FormatJSON
	FormatCBOR
	// FormatCBORZstd is CBOR compressed with zstd.
	FormatCBORZstd
	// FormatCBORLZ4 is CBOR in an LZ4 frame.
	FormatCBORLZ4
)

// Formats lists every format in display order.
var Formats = []Format{FormatXLSX, FormatJSON, FormatCBOR, FormatCBORZstd, FormatCBORLZ4}

func (format Format) String() string {
	switch format {
	case FormatXLSX:
		return "xlsx"
	case FormatJSON:
		return "json"
	case FormatCBOR:
		return "cbor"
	case FormatCBORZstd:
		return "cbor.zst"
	case FormatCBORLZ4:
		return "cbor.lz4"
	default:
		return fmt.Sprintf("unknown(%d)", format)
	}
}

// Extension returns the file suffix including the leading dot.
func (format Format) Extension() string { return "." + format.String() }

// Readable reports whether Read can decode the format.
func (format Format) Readable() bool { return format != FormatXLSX }

// ParseFormat parses a format name as printed by String.
func ParseFormat(name string) (Format, error) {
	for _, format := range Formats {
		if strings.EqualFold(name, format.String()) {
			return format, nil
		}
	}
	return 0, fmt.Errorf("unknown export format %q (want one of %s)", name, formatList())
}

// FormatOf infers the format from a file name. The longest matching
// suffix wins, so "x.cbor.zst" is zstd-compressed CBOR.
func FormatOf(path string) (Format, error) {
	base := strings.ToLower(filepath.Base(path))
	best, bestLength := Format(0), 0
	for _, format := range Formats {
		extension := format.Extension()
		if strings.HasSuffix(base, extension) && len(extension) > bestLength {
			best, bestLength = format, len(extension)
		}
	}
	if bestLength == 0 {
		return 0, fmt.Errorf("cannot tell export format of %q (want a suffix among %s)", path, formatList())
	}
	return best, nil
}

func formatList() string {
	names := make([]string, len(Formats))
	for index, format := range Formats {
		names[index] = format.String()
	}
	return strings.Join(names, ", ")
}
