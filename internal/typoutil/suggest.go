package typoutil

import "strings"

// DefaultMaxDistance is the edit distance up to which a candidate counts as a
// likely typo.
const DefaultMaxDistance = 2

// Closest returns the candidate nearest to term, compared case-insensitively.
// Candidates farther than maxDistance are ignored and ties go to the earlier
// candidate. An exact match is not a suggestion.
func Closest(term string, candidates []string, maxDistance int) (string, bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return "", false
	}

	best, bestDist := "", maxDistance+1
	for _, c := range candidates {
		d := Distance(term, strings.ToLower(c), maxDistance)
		if d == 0 {
			continue
		}
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}
