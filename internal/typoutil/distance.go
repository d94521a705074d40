// Package typoutil finds near misses for user-supplied names such as corpus
// columns and job board identifiers.
package typoutil

// Distance returns the optimal string alignment distance between a and b:
// insertions, deletions, substitutions and transpositions of adjacent runes
// each cost one. Distances above maxDistance are reported as maxDistance+1,
// and the search stops as soon as that outcome is certain.
func Distance(a, b string, maxDistance int) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	if diff := la - lb; diff > maxDistance || -diff > maxDistance {
		return maxDistance + 1
	}
	if la == 0 || lb == 0 {
		return max(la, lb)
	}

	// Three rolling rows: i-2 for transpositions, i-1 and the current one
	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d := min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d = min(d, prev2[j-2]+1)
			}
			curr[j] = d
			rowMin = min(rowMin, d)
		}
		if rowMin > maxDistance {
			return maxDistance + 1
		}
		prev2, prev, curr = prev, curr, prev2
	}

	return min(prev[lb], maxDistance+1)
}
