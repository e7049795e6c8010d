// Copyright (c) 2015, Arbo von Monkiewitsch All rights reserved.
// Use of this source code is governed by a BSD-style
// license.

// Package levenshtein backs "did you mean" hints for mistyped project
// paths with rune-level edit distance.
package levenshtein

// Matcher computes edit distances. The column buffer is reused across
// calls, so scanning a candidate list allocates once.
type Matcher struct {
	column []int
}

func (m *Matcher) columnFor(length int) []int {
	if cap(m.column) < length {
		m.column = make([]int, length)
	}

	return m.column[:length]
}

// Distance returns the Levenshtein distance between a and b: the
// minimum number of single-rune insertions, deletions, and
// substitutions that turn one into the other. Single-column variant of
// the classic dynamic program, O(len(a)) space.
func (m *Matcher) Distance(a, b string) int {
	source := []rune(a)
	target := []rune(b)

	if len(target) == 0 {
		return len(source)
	}

	column := m.columnFor(len(source) + 1)
	// column[0] is written at the top of the outer loop before any
	// read; the empty-target case above is the only path around it.
	for idx := 1; idx <= len(source); idx++ {
		column[idx] = idx
	}

	for col := range target {
		targetRune := target[col]
		column[0] = col + 1
		lastdiag := col

		for row := range source {
			olddiag := column[row+1]

			cost := 0
			if source[row] != targetRune {
				cost = 1
			}

			column[row+1] = min(
				column[row+1]+1,
				column[row]+1,
				lastdiag+cost,
			)
			lastdiag = olddiag
		}
	}

	return column[len(source)]
}
