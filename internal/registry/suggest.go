package registry

import (
	"sort"
	"strings"
)

// maxSuggestions bounds the ranked suggestion list on lookup failures.
const maxSuggestions = 3

// suggest ranks candidates by similarity to the unknown name and returns
// the closest few. Candidates that contain the query (or vice versa) rank
// ahead of pure edit-distance matches; everything further than a third of
// the name's length away is dropped as noise.
func suggest(unknown string, candidates []string) []string {
	type ranked struct {
		name  string
		score int
	}

	query := canonical(unknown)
	var matches []ranked
	for _, candidate := range candidates {
		target := canonical(candidate)
		score := editDistance(query, target)
		if strings.Contains(target, query) || strings.Contains(query, target) {
			// Containment is a stronger signal than raw distance.
			score = 0
		}
		limit := len(query)/3 + 1
		if score <= limit {
			matches = append(matches, ranked{candidate, score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score < matches[j].score
		}
		return matches[i].name < matches[j].name
	})

	var out []string
	for _, m := range matches {
		out = append(out, m.name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// canonical lowercases a name and strips separator characters, so lookups
// tolerate case and separator differences ("getWeather", "get-weather",
// "get_weather" all canonicalize the same).
func canonical(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == '_' || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// editDistance is the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
