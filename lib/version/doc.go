// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the dutyroster
// binary. Values are injected at link time:
//
//	go build -ldflags "-X github.com/dutymate/dutymate-v2-sub000/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/dutyroster
package version
