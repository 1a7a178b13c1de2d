// Package typo provides bounded Levenshtein edit distance and typo
// correction suggestions over a known vocabulary.
package typo

import "sort"

// Correction is one suggested replacement for a likely-mistyped query.
type Correction struct {
	Suggestion string `json:"suggestion"`
	Distance   int    `json:"distance"`
	Message    string `json:"message,omitempty"`
}

// Distance computes the Levenshtein distance between a and b, bounded by
// max: whenever the distance provably exceeds max, it returns max+1 without
// finishing. The DP keeps a single row; a row whose minimum already exceeds
// max cannot recover.
func Distance(a, b string, max int) int {
	if diff := len(a) - len(b); diff > max || -diff > max {
		return max + 1
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := prev[j-1] + cost // substitution
			if del := prev[j] + 1; del < d {
				d = del
			}
			if ins := cur[j-1] + 1; ins < d {
				d = ins
			}
			cur[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > max {
			return max + 1
		}
		prev, cur = cur, prev
	}
	if prev[len(b)] > max {
		return max + 1
	}
	return prev[len(b)]
}

// maxCorrectionDistance is the largest edit distance still considered a
// plausible typo.
const maxCorrectionDistance = 2

// Corrections ranks vocabulary words by edit distance to the query and
// returns up to max candidates with 0 < distance <= 2, closest and shortest
// first. The vocabulary order decides ties beyond (distance, length).
func Corrections(query string, max int, vocab []string) []Correction {
	if query == "" || max <= 0 {
		return nil
	}
	candidates := make([]Correction, 0, max)
	for _, word := range vocab {
		d := Distance(query, word, maxCorrectionDistance)
		if d == 0 || d > maxCorrectionDistance {
			continue
		}
		candidates = append(candidates, Correction{Suggestion: word, Distance: d})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return len(candidates[i].Suggestion) < len(candidates[j].Suggestion)
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}
