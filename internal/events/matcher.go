package events

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/faizmokh/pacli/internal/fuzzy"
)

const (
	// DefaultThreshold is the minimum weighted-ratio score a name must reach.
	DefaultThreshold = 60
	// DefaultCandidateLimit is how many scored names a lookup keeps.
	DefaultCandidateLimit = 3
)

// Query is a lookup in canonical form. Build it with NewQuery so Date and
// Time are normalized once at the boundary.
type Query struct {
	Name string
	Date string
	Time string
}

// NewQuery trims name and canonicalizes date and time. A date no layout
// accepts is kept as typed; it cannot equal a stored canonical date, so the
// lookup reports ErrDateNoMatch.
func NewQuery(name, date, tm string) Query {
	q := Query{Name: strings.TrimSpace(name)}
	if d := strings.TrimSpace(date); d != "" {
		if canonical, ok := NormalizeDate(d); ok {
			q.Date = canonical
		} else {
			q.Date = d
		}
	}
	if t := strings.TrimSpace(tm); t != "" {
		q.Time = NormalizeTime(t)
	}
	return q
}

// MatchKind tells a single best match apart from a date listing.
type MatchKind uint8

const (
	// SingleMatch is the best-scoring record for a name lookup.
	SingleMatch MatchKind = iota + 1
	// MultipleMatches lists every record passing the date and time filters.
	MultipleMatches
)

// Match is a resolved record. Score is zero for date-only lookups.
type Match struct {
	Event Event
	Score int
}

// Result is the outcome of a successful lookup.
type Result struct {
	Kind    MatchKind
	Matches []Match
	// Candidates holds the top scored names for name lookups.
	Candidates []fuzzy.Match
}

// Matcher resolves fuzzy references to stored events.
type Matcher struct {
	store     Loader
	scorer    fuzzy.Scorer
	threshold int
	limit     int
}

// MatcherOption customizes a Matcher.
type MatcherOption func(*Matcher)

// WithScorer replaces the weighted-ratio scorer.
func WithScorer(scorer fuzzy.Scorer) MatcherOption {
	return func(m *Matcher) {
		if scorer != nil {
			m.scorer = scorer
		}
	}
}

// WithThreshold sets the inclusive acceptance score (0-100).
func WithThreshold(threshold int) MatcherOption {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

// NewMatcher wires a matcher reading from store.
func NewMatcher(store Loader, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		store:     store,
		scorer:    fuzzy.Default,
		threshold: DefaultThreshold,
		limit:     DefaultCandidateLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the acceptance score in use.
func (m *Matcher) Threshold() int {
	return m.threshold
}

// Find resolves q against the store.
//
// Date and time are exact filters applied first. With a name, the distinct
// names left are scored and the best one must reach the threshold; the first
// stored record carrying that name is returned. Ties go to the name seen
// first in store order. Without a name, every filtered record is returned.
func (m *Matcher) Find(ctx context.Context, q Query) (Result, error) {
	if q.Name == "" && q.Date == "" {
		return Result{}, ErrMissingCriteria
	}

	all, err := m.store.Load(ctx)
	if err != nil {
		return Result{}, err
	}

	candidates := all
	if q.Date != "" {
		candidates = filter(candidates, func(e Event) bool { return e.Date == q.Date })
		if len(candidates) == 0 {
			return Result{}, fmt.Errorf("%w: %s", ErrDateNoMatch, q.Date)
		}
	}

	if q.Time != "" {
		candidates = filter(candidates, func(e Event) bool { return NormalizeTime(e.Time) == q.Time })
		if len(candidates) == 0 {
			return Result{}, fmt.Errorf("%w: %s", ErrTimeNoMatch, q.Time)
		}
	}

	if q.Name == "" {
		matches := make([]Match, 0, len(candidates))
		for _, e := range candidates {
			matches = append(matches, Match{Event: e})
		}
		return Result{Kind: MultipleMatches, Matches: matches}, nil
	}

	names := distinctNames(candidates)
	scored := fuzzy.Extract(q.Name, names, m.scorer, m.limit)
	if len(scored) == 0 || scored[0].Score < m.threshold {
		return Result{}, &MatchError{Query: q, Threshold: m.threshold, Candidates: scored}
	}

	best := scored[0]
	slog.Debug("event name matched", "query", q.Name, "name", best.Choice, "score", best.Score)
	for _, e := range candidates {
		if e.Name == best.Choice {
			return Result{
				Kind:       SingleMatch,
				Matches:    []Match{{Event: e, Score: best.Score}},
				Candidates: scored,
			}, nil
		}
	}
	return Result{}, &MatchError{Query: q, Threshold: m.threshold, Candidates: scored}
}

func filter(events []Event, keep func(Event) bool) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func distinctNames(events []Event) []string {
	seen := make(map[string]struct{}, len(events))
	names := make([]string, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		names = append(names, e.Name)
	}
	return names
}
