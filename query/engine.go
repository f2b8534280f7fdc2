package query

import (
	"slices"
	"strings"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/index"
)

// Defaults applied by Search.
const (
	DefaultLimit    = 10
	DefaultMinScore = 0.1
)

// Boost factors.
const (
	DomainBoost    = 1.2
	OperationBoost = 1.3
	ResourceBoost  = 1.4
)

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Match configures term matching against the index.
	Match index.SearchOptions

	// DisableOperationBoost turns off operation keyword detection.
	DisableOperationBoost bool
}

// Engine ranks entries of one index. It is safe for concurrent use.
type Engine struct {
	idx  *index.Index
	opts EngineOptions
}

// NewEngine returns an engine over idx.
func NewEngine(idx *index.Index, opts EngineOptions) *Engine {
	return &Engine{idx: idx, opts: opts}
}

// Index returns the underlying index.
func (e *Engine) Index() *index.Index {
	return e.idx
}

// Options configures one search.
type Options struct {
	// Limit truncates results. Default: 10
	Limit int

	// Domains restricts results to these domains (case-insensitive).
	Domains []string

	// Operations restricts results to these operations (case-insensitive).
	Operations []string

	// MinScore drops results below the threshold. Nil means DefaultMinScore.
	MinScore *float64

	// ExcludeDangerous drops entries with danger level high.
	ExcludeDangerous bool

	// IncludeDependencies attaches hints from Hints to create operations.
	IncludeDependencies bool

	// Hints supplies dependency hints. Nil disables hints.
	Hints HintProvider
}

// Result is one ranked entry.
type Result struct {
	Entry        catalog.Entry   `json:"entry"`
	Score        float64         `json:"score"`
	MatchedTerms []string        `json:"matchedTerms"`
	Dependencies *DependencyHint `json:"dependencies,omitempty"`
}

// Results is a slice of Result with helper methods.
type Results []Result

// Names returns the entry names of the results.
func (r Results) Names() []string {
	names := make([]string, len(r))
	for i, res := range r {
		names[i] = res.Entry.Name
	}
	return names
}

// Search ranks entries for raw. An empty or all-short query yields no results.
func (e *Engine) Search(raw string, opts Options) Results {
	if e == nil || e.idx == nil {
		return Results{}
	}
	terms := index.Tokenize(raw, e.idx.MinTermLength())
	if len(terms) == 0 {
		return Results{}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	minScore := DefaultMinScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}

	allowed := e.allowList(opts)
	queryCompact := strings.Join(terms, "")
	firstTerm := terms[0]
	var detected catalog.Operation
	if !e.opts.DisableOperationBoost {
		detected = DetectOperation(raw)
	}

	matches := index.Search(e.idx, terms, e.opts.Match)
	results := make(Results, 0, len(matches))
	for _, m := range matches {
		if allowed != nil {
			if _, ok := allowed[m.ID]; !ok {
				continue
			}
		}
		entry, ok := e.idx.Entry(m.ID)
		if !ok {
			continue
		}
		if opts.ExcludeDangerous && entry.IsDangerous() {
			continue
		}

		score := m.Score / float64(len(terms))
		if strings.Contains(strings.ToLower(entry.Domain), firstTerm) {
			score *= DomainBoost
		}
		if detected != "" && entry.Operation == detected {
			score *= OperationBoost
		}
		if strings.Contains(index.Compact(entry.Resource), queryCompact) {
			score *= ResourceBoost
		}
		score = min(score, 1.0)
		if score < minScore {
			continue
		}

		results = append(results, Result{
			Entry:        entry,
			Score:        score,
			MatchedTerms: slices.Clone(m.Terms),
		})
	}

	// Matches arrive in catalog order, so a stable sort keeps ties in that order.
	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(results) > limit {
		results = results[:limit]
	}

	if opts.IncludeDependencies && opts.Hints != nil {
		for i := range results {
			if results[i].Entry.Operation != catalog.OpCreate {
				continue
			}
			results[i].Dependencies = opts.Hints.DependencyHint(results[i].Entry)
		}
	}
	return results
}

// allowList intersects the domain and operation filters. Nil means no filter.
func (e *Engine) allowList(opts Options) map[string]struct{} {
	var allowed map[string]struct{}
	apply := func(ids []string) {
		next := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if allowed == nil {
				next[id] = struct{}{}
				continue
			}
			if _, ok := allowed[id]; ok {
				next[id] = struct{}{}
			}
		}
		allowed = next
	}
	if len(opts.Domains) > 0 {
		apply(index.FilterByDomain(e.idx, opts.Domains))
	}
	if len(opts.Operations) > 0 {
		apply(index.FilterByOperation(e.idx, opts.Operations))
	}
	return allowed
}
