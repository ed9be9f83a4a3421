// Package fuzzy scores approximate string matches on a 0-100 scale.
package fuzzy

import "sort"

// Scorer rates how well choice matches query, from 0 (unrelated) to 100
// (identical after processing).
type Scorer interface {
	Score(query, choice string) int
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(query, choice string) int

// Score calls f(query, choice).
func (f ScorerFunc) Score(query, choice string) int {
	return f(query, choice)
}

// Default is the scorer used when callers do not supply one.
var Default Scorer = ScorerFunc(WeightedRatio)

// Match is a scored choice.
type Match struct {
	Choice string
	Score  int
	// Index is the position of Choice in the slice passed to Extract.
	Index int
}

// Extract scores every choice against query and returns up to limit matches,
// best first. Equal scores keep the order of choices, so the first-seen
// choice wins ties. A limit <= 0 returns every match.
func Extract(query string, choices []string, scorer Scorer, limit int) []Match {
	if scorer == nil {
		scorer = Default
	}

	matches := make([]Match, 0, len(choices))
	for i, choice := range choices {
		matches = append(matches, Match{
			Choice: choice,
			Score:  scorer.Score(query, choice),
			Index:  i,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// ExtractOne returns the best match, or false when choices is empty.
func ExtractOne(query string, choices []string, scorer Scorer) (Match, bool) {
	best := Extract(query, choices, scorer, 1)
	if len(best) == 0 {
		return Match{}, false
	}
	return best[0], true
}
