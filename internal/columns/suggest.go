package columns

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// suggestionCutoff scales the allowed edit distance with input length so a
// short label does not end up close to everything.
func suggestionCutoff(n int) int {
	switch {
	case n <= 4:
		return 2
	case n <= 8:
		return 3
	default:
		return n / 2
	}
}

// closestMatches ranks candidates by case-folded edit distance to input and
// returns up to three within the cutoff, nearest first. Ties break
// alphabetically so results stay stable.
func closestMatches(input string, candidates []string) []string {
	folded := strings.ToLower(input)
	cutoff := suggestionCutoff(len(folded))

	type scored struct {
		name string
		dist int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(folded, strings.ToLower(c))
		if d <= cutoff {
			ranked = append(ranked, scored{name: c, dist: d})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].name < ranked[j].name
	})

	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.name
	}
	return out
}
