// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared CBOR configuration.
//
// JSON is the wire format to the duty backend. CBOR is used where
// bytes must be reproducible: the identity hash of a sync batch and
// binary roster snapshots written by the export command. Every caller
// goes through this package so all of them encode identically.
//
//	data, err := codec.Marshal(snapshot)
//	err = codec.Unmarshal(data, &snapshot)
//
// Types tagged `cbor` are CBOR-only. Types tagged `json` are used by
// both formats; fxamacker/cbor falls back to `json` tags when no
// `cbor` tag is present. A field never carries both.
package codec
