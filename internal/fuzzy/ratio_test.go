package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	assert.Equal(t, "team sync 2025", Process("  Team-Sync!! 2025 "))
	assert.Equal(t, "", Process("--"))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 57, Ratio("kitten", "sitting"))
	assert.Equal(t, 100, Ratio("abc", "abc"))
	assert.Equal(t, 0, Ratio("", ""))
	// Two substitutions over nine runes: 100 * 7/9.
	assert.Equal(t, 78, Ratio("team snyc", "team sync"))
	assert.Equal(t, 78, WeightedRatio("team snyc", "Team Sync"))
}

func TestPartialRatioFindsSubstring(t *testing.T) {
	assert.Equal(t, 100, PartialRatio("sync", "team sync"))
	assert.Equal(t, 0, PartialRatio("", "team sync"))
}

func TestTokenRatiosIgnoreWordOrder(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("sync team", "Team Sync"))
	assert.Equal(t, 100, TokenSetRatio("team sync weekly", "sync team"))
}

func TestWeightedRatio(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		atLeast int
		below   int
	}{
		{name: "case only", a: "Team Sync", b: "team sync", atLeast: 100},
		{name: "transposed letters", a: "team snyc", b: "Team Sync", atLeast: 60},
		{name: "reordered words", a: "sync team", b: "Team Sync", atLeast: 95},
		{name: "unrelated", a: "team snyc", b: "Budget Review", below: 60},
		{name: "empty query", a: "", b: "Team Sync", below: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedRatio(tt.a, tt.b)
			if tt.atLeast > 0 {
				assert.GreaterOrEqual(t, got, tt.atLeast)
			}
			if tt.below > 0 {
				assert.Less(t, got, tt.below)
			}
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestExtractOrdersByScoreAndKeepsFirstSeenOnTies(t *testing.T) {
	scores := map[string]int{"a": 70, "b": 90, "c": 70, "d": 10}
	scorer := ScorerFunc(func(_, choice string) int { return scores[choice] })

	got := Extract("q", []string{"a", "b", "c", "d"}, scorer, 3)
	require.Len(t, got, 3)
	assert.Equal(t, Match{Choice: "b", Score: 90, Index: 1}, got[0])
	assert.Equal(t, Match{Choice: "a", Score: 70, Index: 0}, got[1])
	assert.Equal(t, Match{Choice: "c", Score: 70, Index: 2}, got[2])
}

func TestExtractOne(t *testing.T) {
	_, ok := ExtractOne("q", nil, nil)
	assert.False(t, ok)

	best, ok := ExtractOne("team snyc", []string{"Budget Review", "Team Sync"}, nil)
	require.True(t, ok)
	assert.Equal(t, "Team Sync", best.Choice)
}
