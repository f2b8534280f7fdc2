package index

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultMaxEditDistance is the fuzzy matching bound used when
// SearchOptions.MaxEditDistance is zero.
const DefaultMaxEditDistance = 2

// Contribution weights for a single query term.
const (
	ExactWeight  = 1.0
	PrefixWeight = 0.8
)

// SearchOptions configures Search.
type SearchOptions struct {
	// DisableFuzzy restricts matching to exact terms.
	DisableFuzzy bool

	// MaxEditDistance bounds fuzzy matches. Zero means DefaultMaxEditDistance;
	// a negative value keeps prefix matching but disables edit-distance matches.
	MaxEditDistance int
}

func (o SearchOptions) maxDistance() int {
	switch {
	case o.MaxEditDistance == 0:
		return DefaultMaxEditDistance
	case o.MaxEditDistance < 0:
		return -1
	default:
		return o.MaxEditDistance
	}
}

// Match is the accumulated score of one entry.
type Match struct {
	ID    string
	Score float64
	// Terms lists the index terms that matched, in first-match order.
	Terms []string
}

// Search scores entries against terms. Terms shorter than the index's minimum
// term length are skipped. Matches are returned in catalog order; no terms
// yields no matches.
func Search(idx *Index, terms []string, opts SearchOptions) []Match {
	if idx == nil || len(terms) == 0 {
		return []Match{}
	}

	acc := make(map[string]*Match)
	add := func(term string, weight float64) {
		for _, id := range idx.terms[term] {
			m, ok := acc[id]
			if !ok {
				m = &Match{ID: id}
				acc[id] = m
			}
			m.Score += weight
			if !slices.Contains(m.Terms, term) {
				m.Terms = append(m.Terms, term)
			}
		}
	}

	maxDist := opts.maxDistance()
	for _, raw := range terms {
		qt := strings.ToLower(raw)
		if utf8.RuneCountInString(qt) < idx.minTermLength {
			continue
		}
		if _, ok := idx.terms[qt]; ok {
			add(qt, ExactWeight)
			continue
		}
		if opts.DisableFuzzy {
			continue
		}
		for _, term := range idx.termList {
			if w := fuzzyWeight(qt, term, maxDist); w > 0 {
				add(term, w)
			}
		}
	}

	out := make([]Match, 0, len(acc))
	for _, m := range acc {
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b Match) int {
		return idx.ordinal[a.ID] - idx.ordinal[b.ID]
	})
	return out
}

// fuzzyWeight returns the contribution of index term t to query term q, or 0.
func fuzzyWeight(q, t string, maxDist int) float64 {
	var w float64
	if strings.HasPrefix(t, q) {
		w = PrefixWeight
	}
	if maxDist < 0 {
		return w
	}
	lq, lt := utf8.RuneCountInString(q), utf8.RuneCountInString(t)
	if diff := lq - lt; diff > maxDist || -diff > maxDist {
		return w
	}
	if d := Levenshtein(q, t); d <= maxDist {
		w = max(w, 1-float64(d)/float64(maxDist+1))
	}
	return w
}
