// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"export", "export", 0},
		{"exprot", "export", 2},
		{"show", "shwo", 2},
		{"reset", "", 5},
		{"근무표", "근무", 1},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSuggestCommandThreshold(t *testing.T) {
	commands := []*Command{{Name: "edit"}, {Name: "export"}, {Name: "history"}}
	if got := suggestCommand("histroy", commands); got != "history" {
		t.Errorf("suggestCommand(histroy) = %q", got)
	}
	if got := suggestCommand("completely-different", commands); got != "" {
		t.Errorf("suggestCommand(completely-different) = %q, want none", got)
	}
}

func TestSuggestFlagSkipsDefinedFlags(t *testing.T) {
	flagSet := pflag.NewFlagSet("x", pflag.ContinueOnError)
	flagSet.StringP("output", "o", "", "")
	flagSet.Bool("force", false, "")
	if got := suggestFlag([]string{"-o", "x", "--forse"}, flagSet); got != "--force" {
		t.Errorf("suggestFlag = %q, want --force", got)
	}
}
