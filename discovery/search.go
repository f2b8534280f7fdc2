package discovery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/query"
)

// SearchOptions configures a catalog search.
type SearchOptions struct {
	// Limit truncates results. Zero means Options.DefaultLimit; values above
	// Options.MaxLimit are capped.
	Limit int `json:"limit,omitempty"`

	// Domains restricts results to these domains (case-insensitive).
	Domains []string `json:"domains,omitempty"`

	// Operations restricts results to these operations (case-insensitive).
	Operations []string `json:"operations,omitempty"`

	// MinScore drops results below the threshold. Nil means
	// Options.MinScore.
	MinScore *float64 `json:"minScore,omitempty"`

	// ExcludeDangerous drops high danger entries.
	ExcludeDangerous bool `json:"excludeDangerous,omitempty"`

	// IncludeDependencies attaches prerequisite hints to create operations.
	IncludeDependencies bool `json:"includeDependencies,omitempty"`
}

func (d *Discovery) queryOptions(opts SearchOptions) query.Options {
	minScore := *d.opts.MinScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}
	return query.Options{
		Limit:               d.limit(opts.Limit),
		Domains:             opts.Domains,
		Operations:          opts.Operations,
		MinScore:            &minScore,
		ExcludeDangerous:    opts.ExcludeDangerous,
		IncludeDependencies: opts.IncludeDependencies,
		Hints:               d.hints,
	}
}

// SearchTools ranks catalog entries against q using the inverted index.
func (d *Discovery) SearchTools(q string, opts SearchOptions) (Results, error) {
	st, err := d.state()
	if err != nil {
		return nil, err
	}
	return fromQuery(st.engine.Search(q, d.queryOptions(opts))), nil
}

// SearchDescriptions ranks catalog entries against q with BM25 over names,
// resources, domains and summaries. Scores are normalized so the best hit
// scores 1. Filters and limits behave as in SearchTools.
func (d *Discovery) SearchDescriptions(q string, opts SearchOptions) (Results, error) {
	st, err := d.state()
	if err != nil {
		return nil, err
	}
	qo := d.queryOptions(opts)
	scores, err := d.bm25Scores(st, q, qo)
	if err != nil {
		return nil, err
	}

	results := Results{}
	for _, e := range st.snapshot.Entries() {
		score, ok := scores[e.Name]
		if !ok || score < *qo.MinScore {
			continue
		}
		results = append(results, Result{Entry: e, Score: score, ScoreType: ScoreBM25})
	}
	return d.finish(results, qo), nil
}

// SearchHybrid ranks catalog entries by a weighted combination of the
// lexical and BM25 scores:
//
//	score = alpha*lexical + (1-alpha)*bm25
//
// where alpha is Options.HybridAlpha. An entry found by only one method
// scores zero for the other.
func (d *Discovery) SearchHybrid(q string, opts SearchOptions) (Results, error) {
	st, err := d.state()
	if err != nil {
		return nil, err
	}
	qo := d.queryOptions(opts)

	candidates := qo
	zero := 0.0
	candidates.MinScore = &zero
	candidates.Limit = st.index.Len()
	candidates.IncludeDependencies = false
	lexical := st.engine.Search(q, candidates)

	bm25, err := d.bm25Scores(st, q, qo)
	if err != nil {
		return nil, err
	}

	alpha := d.opts.HybridAlpha
	byName := make(map[string]Result, len(lexical)+len(bm25))
	for _, r := range lexical {
		byName[r.Entry.Name] = Result{
			Entry:        r.Entry,
			Score:        alpha * r.Score,
			ScoreType:    ScoreHybrid,
			MatchedTerms: r.MatchedTerms,
		}
	}
	for name, score := range bm25 {
		r, ok := byName[name]
		if !ok {
			entry, _ := st.snapshot.Lookup(name)
			r = Result{Entry: entry, ScoreType: ScoreHybrid}
		}
		r.Score += (1 - alpha) * score
		byName[name] = r
	}

	results := Results{}
	for _, r := range byName {
		if r.Score >= *qo.MinScore {
			results = append(results, r)
		}
	}
	return d.finish(results, qo), nil
}

// bm25Scores runs the full-text searcher over the whole catalog and returns
// scores for the hits that pass the filters in qo, normalized against the
// best of them. Filters apply after the search so one cached index serves
// every filter combination.
func (d *Discovery) bm25Scores(st *state, q string, qo query.Options) (map[string]float64, error) {
	entries := st.snapshot.Entries()
	hits, err := d.searcher.Search(q, len(entries), entries)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64, len(hits))
	top := 0.0
	for _, h := range hits {
		if !allowed(h.Entry, qo) || h.Score <= 0 {
			continue
		}
		if top == 0 {
			top = h.Score
		}
		scores[h.Entry.Name] = min(h.Score/top, 1)
	}
	return scores, nil
}

// finish sorts by score descending then name ascending, truncates and
// attaches dependency hints.
func (d *Discovery) finish(results Results, qo query.Options) Results {
	slices.SortFunc(results, func(a, b Result) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Entry.Name, b.Entry.Name)
	})
	if len(results) > qo.Limit {
		results = results[:qo.Limit]
	}
	if qo.IncludeDependencies {
		for i := range results {
			if results[i].Entry.Operation == catalog.OpCreate {
				results[i].Dependencies = d.hints.DependencyHint(results[i].Entry)
			}
		}
	}
	return results
}

func allowed(e catalog.Entry, qo query.Options) bool {
	if len(qo.Domains) > 0 && !containsFold(qo.Domains, e.Domain) {
		return false
	}
	if len(qo.Operations) > 0 && !containsFold(qo.Operations, string(e.Operation)) {
		return false
	}
	return !qo.ExcludeDangerous || !e.IsDangerous()
}

func containsFold(values []string, s string) bool {
	return slices.ContainsFunc(values, func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), s)
	})
}
