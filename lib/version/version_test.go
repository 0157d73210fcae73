// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfoIncludesInjectedCommit(t *testing.T) {
	savedCommit, savedDirty := GitCommit, GitDirty
	t.Cleanup(func() { GitCommit, GitDirty = savedCommit, savedDirty })

	GitCommit, GitDirty = "abc1234", "true"
	info := Info()
	if !strings.HasPrefix(info, Version+" (abc1234-dirty,") {
		t.Fatalf("Info() = %q", info)
	}
	if !strings.Contains(Full(), "Go: ") {
		t.Fatalf("Full() = %q", Full())
	}
}
