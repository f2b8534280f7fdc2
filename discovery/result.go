package discovery

import (
	"strings"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/query"
)

// ScoreType indicates the source of a search result's score.
type ScoreType string

const (
	// ScoreLexical indicates the score came from the inverted index and
	// ranking boosts.
	ScoreLexical ScoreType = "lexical"

	// ScoreBM25 indicates the score came from full-text BM25 search over
	// entry descriptions.
	ScoreBM25 ScoreType = "bm25"

	// ScoreHybrid indicates the score is a weighted combination of lexical
	// and BM25 scores.
	ScoreHybrid ScoreType = "hybrid"
)

// Result represents a unified search result with score details.
type Result struct {
	// Entry is the matched catalog entry.
	Entry catalog.Entry `json:"entry"`

	// Score is the relevance score in [0, 1].
	Score float64 `json:"score"`

	// ScoreType indicates how the Score was computed.
	ScoreType ScoreType `json:"scoreType"`

	// MatchedTerms lists the index terms that matched, when known.
	MatchedTerms []string `json:"matchedTerms,omitempty"`

	// Dependencies is set for create operations when requested.
	Dependencies *query.DependencyHint `json:"dependencies,omitempty"`
}

// Results is a slice of Result with helper methods.
type Results []Result

// Names returns just the entry names from the results.
func (r Results) Names() []string {
	names := make([]string, len(r))
	for i, result := range r {
		names[i] = result.Entry.Name
	}
	return names
}

// Entries returns just the entries from the results.
func (r Results) Entries() []catalog.Entry {
	entries := make([]catalog.Entry, len(r))
	for i, result := range r {
		entries[i] = result.Entry
	}
	return entries
}

// FilterByDomain returns results in the given domain (case-insensitive).
func (r Results) FilterByDomain(domain string) Results {
	filtered := Results{}
	for _, result := range r {
		if strings.EqualFold(result.Entry.Domain, domain) {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// FilterByMinScore returns results with score >= minScore.
func (r Results) FilterByMinScore(minScore float64) Results {
	filtered := Results{}
	for _, result := range r {
		if result.Score >= minScore {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

func fromQuery(in query.Results) Results {
	out := make(Results, len(in))
	for i, r := range in {
		out[i] = Result{
			Entry:        r.Entry,
			Score:        r.Score,
			ScoreType:    ScoreLexical,
			MatchedTerms: r.MatchedTerms,
			Dependencies: r.Dependencies,
		}
	}
	return out
}
