// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads dutyroster configuration.
//
// Configuration comes from one file, chosen in this order:
//   - the --config flag
//   - the DUTYROSTER_CONFIG environment variable
//   - ~/.config/dutyroster/config.yaml, if it exists
//
// YAML is the native format. Files ending in .json or .jsonc are
// accepted too; comments and trailing commas are stripped before
// decoding. Values not set in the file keep the defaults of Default.
//
// DUTYROSTER_BASE_URL and DUTYROSTER_TOKEN override the server section
// after the file is read, so credentials can stay out of the file.
package config
