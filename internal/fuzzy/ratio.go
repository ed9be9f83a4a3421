package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio returns the edit-distance similarity of a and b on a 0-100 scale:
// 100 * (1 - distance/longest). Two empty strings score 0.
func Ratio(a, b string) int {
	return round(ratio(a, b))
}

// PartialRatio scores the shorter string against the best aligned window of
// the longer one, so a query contained in a longer title scores high.
func PartialRatio(a, b string) int {
	return round(partialRatio(a, b))
}

// TokenSortRatio compares the strings after sorting their words.
func TokenSortRatio(a, b string) int {
	return round(ratio(sortedTokens(Process(a)), sortedTokens(Process(b))))
}

// TokenSetRatio compares the shared words and the leftover words separately
// and keeps the best pairing.
func TokenSetRatio(a, b string) int {
	return round(tokenSet(Process(a), Process(b), ratio))
}

// WeightedRatio returns the best of Ratio, the token ratios (scaled by 0.95)
// and, when the lengths differ by at least 1.5x, the partial ratios (scaled
// by 0.9, or 0.6 above 8x). Inputs are processed (lowercased, punctuation
// folded to spaces) first. The weighting follows fuzzywuzzy's WRatio, but
// every component is built on Ratio, so the base is Levenshtein distance
// over the longer length rather than the indel ratio 2M/(la+lb). Scores are
// therefore lower for typos: "team snyc" against "Team Sync" is 78.
func WeightedRatio(a, b string) int {
	p1, p2 := Process(a), Process(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	const unbaseScale = 0.95
	base := ratio(p1, p2)

	l1, l2 := utf8.RuneCountInString(p1), utf8.RuneCountInString(p2)
	lenRatio := float64(max(l1, l2)) / float64(min(l1, l2))

	if lenRatio < 1.5 {
		tsor := ratio(sortedTokens(p1), sortedTokens(p2)) * unbaseScale
		tser := tokenSet(p1, p2, ratio) * unbaseScale
		return round(math.Max(base, math.Max(tsor, tser)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	partial := partialRatio(p1, p2) * partialScale
	ptsor := partialRatio(sortedTokens(p1), sortedTokens(p2)) * unbaseScale * partialScale
	ptser := tokenSet(p1, p2, partialRatio) * unbaseScale * partialScale
	return round(math.Max(math.Max(base, partial), math.Max(ptsor, ptser)))
}

// Process lowercases s, turns every non letter/digit into a space and
// collapses runs of whitespace.
func Process(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * float64(longest-dist) / float64(longest)
}

func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	needle := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		score := ratio(needle, string(long[i:i+len(short)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

func tokenSet(a, b string, scorer func(string, string) float64) float64 {
	setA := tokenSetOf(a)
	setB := tokenSetOf(b)

	var shared, onlyA, onlyB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	t0 := strings.Join(shared, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	best := scorer(t1, t2)
	if t0 != "" {
		best = math.Max(best, math.Max(scorer(t0, t1), scorer(t0, t2)))
	}
	return best
}

func tokenSetOf(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		out[tok] = struct{}{}
	}
	return out
}

func sortedTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

func round(f float64) int {
	return int(math.Round(f))
}
