package classify

// Tokens longer than this are truncated before the edit-distance pass, which
// bounds each comparison to O(64²).
const maxLevenshteinLen = 64

func levenshtein(a, b string) int {
	if len(a) > maxLevenshteinLen {
		a = a[:maxLevenshteinLen]
	}
	if len(b) > maxLevenshteinLen {
		b = b[:maxLevenshteinLen]
	}
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// tokenSimilarity is 1 - levenshtein(a, b) / max(len(a), len(b)), in [0,1].
func tokenSimilarity(a, b string) float64 {
	if len(a) > maxLevenshteinLen {
		a = a[:maxLevenshteinLen]
	}
	if len(b) > maxLevenshteinLen {
		b = b[:maxLevenshteinLen]
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}
