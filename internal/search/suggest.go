package search

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggestions returns up to limit recent queries resembling prefix. Queries that
// start with prefix come first, then near misses ranked by edit distance. Ties keep
// recency order. An empty prefix returns the most recent queries.
func (c *Composer) Suggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	if c.history == nil {
		return nil, nil
	}
	recent, err := c.history.RecentSearches(ctx, 0)
	if err != nil {
		return nil, err
	}
	return Rank(recent, prefix, limit), nil
}

// Rank orders candidates (most recent first) against prefix.
func Rank(candidates []string, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if limit <= 0 {
		limit = len(candidates)
	}
	if prefix == "" {
		return candidates[:min(limit, len(candidates))]
	}

	type scored struct {
		query string
		score int
		order int
	}
	maxDistance := max(1, len([]rune(prefix))/3)

	var matches []scored
	for i, cand := range candidates {
		lower := strings.ToLower(cand)
		if lower == prefix {
			continue
		}
		if strings.HasPrefix(lower, prefix) {
			matches = append(matches, scored{cand, 0, i})
			continue
		}
		head := []rune(lower)
		if n := len([]rune(prefix)); len(head) > n {
			head = head[:n]
		}
		if d := levenshtein.ComputeDistance(prefix, string(head)); d <= maxDistance {
			matches = append(matches, scored{cand, d, i})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score < matches[j].score
		}
		return matches[i].order < matches[j].order
	})

	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches[:min(limit, len(matches))] {
		out = append(out, m.query)
	}
	return out
}
