// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

var initAlgo sync.Once

// nameMatch is one nurse row matching a jump query.
type nameMatch struct {
	Row   int
	Name  string
	Score int
}

// nameMatcher ranks nurse names against a query with fzf's scoring.
// Not safe for concurrent use; the slab is reused between calls.
type nameMatcher struct {
	slab *util.Slab
}

func newNameMatcher() *nameMatcher {
	initAlgo.Do(func() { algo.Init("default") })
	return &nameMatcher{slab: util.MakeSlab(16*1024, 2048)}
}

// Match returns the rows whose name matches query, best first. An
// empty query matches every row in grid order. Matching is case
// insensitive.
func (matcher *nameMatcher) Match(rows []roster.NurseRow, query string) []nameMatch {
	query = strings.TrimSpace(query)
	matches := make([]nameMatch, 0, len(rows))
	if query == "" {
		for index, row := range rows {
			matches = append(matches, nameMatch{Row: index, Name: row.Name})
		}
		return matches
	}

	pattern := []rune(strings.ToLower(query))
	for index, row := range rows {
		chars := util.ToChars([]byte(row.Name))
		result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, matcher.slab)
		if result.Start < 0 {
			continue
		}
		matches = append(matches, nameMatch{Row: index, Name: row.Name, Score: result.Score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
