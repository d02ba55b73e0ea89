// Package search finds levels in the index by (approximate) name.
package search

import (
	"sort"
	"strings"

	"github.com/Another0Noob/levelsync/internal/levelindex"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match types.
const (
	MatchExact  = "exact"
	MatchPrefix = "prefix"
	MatchFuzzy  = "fuzzy"
)

// Match is one index entry matching a query.
type Match struct {
	Name      string
	ID        int64
	MatchType string
	Distance  int
}

// Find returns index entries matching query, best first: exact normalised
// matches, then names starting with the query, then fuzzy matches ranked by
// Levenshtein distance. limit <= 0 means no limit.
func Find(ix levelindex.Index, query string, limit int) []Match {
	pat := Normalize(query)
	if pat == "" || len(ix) == 0 {
		return nil
	}

	// normalized name -> original names
	owners := make(map[string][]string, len(ix))
	targets := make([]string, 0, len(ix))
	for _, name := range ix.Names() {
		n := Normalize(name)
		if n == "" {
			continue
		}
		if _, seen := owners[n]; !seen {
			targets = append(targets, n)
		}
		owners[n] = append(owners[n], name)
	}

	var out []Match
	taken := make(map[string]struct{})
	add := func(norm, matchType string, distance int) {
		for _, name := range owners[norm] {
			if _, ok := taken[name]; ok {
				continue
			}
			taken[name] = struct{}{}
			out = append(out, Match{Name: name, ID: ix[name], MatchType: matchType, Distance: distance})
		}
	}

	add(pat, MatchExact, 0)

	for _, t := range targets {
		if t != pat && strings.HasPrefix(t, pat) {
			add(t, MatchPrefix, len(t)-len(pat))
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(pat, targets)
	sort.Stable(ranks)
	for _, r := range ranks {
		add(r.Target, MatchFuzzy, r.Distance)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
