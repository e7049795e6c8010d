package levenshtein

// Suggest returns the candidate closest to target by edit distance,
// or false when no candidate comes within the acceptance bound. Ties
// resolve to the earliest candidate.
func Suggest(target string, candidates []string) (string, bool) {
	matcher := &Matcher{}

	best := ""
	bestDist := -1

	for _, candidate := range candidates {
		dist := matcher.Distance(target, candidate)
		if bestDist < 0 || dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}

	if bestDist < 0 || bestDist > maxSuggestDistance(target) {
		return "", false
	}

	return best, true
}

// maxSuggestDistance bounds how far a suggestion may drift from the
// target. The bound scales with the target length so short names only
// match near neighbors.
func maxSuggestDistance(target string) int {
	bound := len([]rune(target)) / 3
	if bound < 2 {
		bound = 2
	}

	return bound
}
