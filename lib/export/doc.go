// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package export writes roster snapshots to files.
//
// XLSX is the spreadsheet ward staff print and share. JSON, CBOR and
// the compressed CBOR variants carry the full snapshot with its
// violations and history and can be read back with Read, so
// `dutyroster show --from` can render an exported period offline.
package export
