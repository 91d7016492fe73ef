// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

// Package fuzzy implements the corroborated fuzzy name matching used to map
// report participants onto course rosters. A candidate only matches when two
// independent metrics agree: the similarity percentage and the Levenshtein
// edit distance must both pick the same roster name.
package fuzzy

import (
	"github.com/agext/levenshtein"
)

const (
	// SimilarityThreshold is the minimum similarity percentage a roster name
	// must exceed to be considered at all. Behavior-defining; do not tune.
	SimilarityThreshold = 60.0

	// MinPoolSize is the smallest roster for which fuzzy matching is
	// attempted. Below this the ambiguity risk outweighs the benefit.
	MinPoolSize = 3
)

// SimilarityPercent computes the character-similarity percentage of two
// strings: twice the number of matching characters (longest common substring,
// recursively applied to the flanks) over the total length.
func SimilarityPercent(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	return float64(similarChars(ra, rb)*200) / float64(total)
}

// similarChars counts matching characters by locating the longest common
// substring and recursing into the unmatched prefixes and suffixes.
func similarChars(a, b []rune) int {
	var max, posA, posB int
	for i := range a {
		for j := range b {
			var k int
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > max {
				max, posA, posB = k, i, j
			}
		}
	}
	if max == 0 {
		return 0
	}
	return max +
		similarChars(a[:posA], b[:posB]) +
		similarChars(a[posA+max:], b[posB+max:])
}

// Distance returns the Levenshtein edit distance between two strings.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

// BestMatch finds the pool entry matching candidate, requiring the
// highest-similarity pick and the lowest-edit-distance pick to corroborate
// each other. Returns ("", false) when the pool is too small, no entry clears
// the similarity threshold, or the two metrics disagree.
func BestMatch(candidate string, pool []string) (string, bool) {
	if len(pool) < MinPoolSize {
		return "", false
	}

	var (
		bestSim      float64
		bestSimName  string
		bestDist     = -1
		bestDistName string
	)
	for _, name := range pool {
		sim := SimilarityPercent(candidate, name)
		if sim <= SimilarityThreshold {
			continue
		}
		if sim > bestSim {
			bestSim, bestSimName = sim, name
		}
		dist := Distance(candidate, name)
		if bestDist < 0 || dist < bestDist {
			bestDist, bestDistName = dist, name
		}
	}

	if bestSimName == "" || bestSimName != bestDistName {
		return "", false
	}
	return bestSimName, true
}
