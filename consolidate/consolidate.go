package consolidate

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/index"
	"github.com/jonwraymond/apicatalog/query"
)

// Resource is one (domain, resource) pair.
type Resource struct {
	// ID is "domain:resource".
	ID         string                         `json:"id"`
	Domain     string                         `json:"domain"`
	Resource   string                         `json:"resource"`
	Operations []catalog.Operation            `json:"operations"`
	Tools      map[catalog.Operation][]string `json:"tools"`
	ToolNames  []string                       `json:"toolNames"`
	IsFullCrud bool                           `json:"isFullCrud"`
	Summary    string                         `json:"summary"`
}

// Has reports whether the resource supports op.
func (r Resource) Has(op catalog.Operation) bool {
	return slices.Contains(r.Operations, op)
}

// ResourceID returns the consolidated id of a (domain, resource) pair.
func ResourceID(domain, resource string) string {
	return domain + ":" + resource
}

// Index holds consolidated resources. It is immutable and safe for
// concurrent readers.
type Index struct {
	resources []Resource // sorted by ID
	byID      map[string]int
	byName    map[string]int // bare resource name → first ID in sorted order
	byFold    map[string]int // foldKey → first ID in sorted order
	entries   int
	search    *query.Engine
}

// Build consolidates entries.
func Build(entries []catalog.Entry) *Index {
	groups := make(map[string]*Resource)
	for _, e := range entries {
		id := ResourceID(e.Domain, e.Resource)
		r, ok := groups[id]
		if !ok {
			r = &Resource{
				ID:       id,
				Domain:   e.Domain,
				Resource: e.Resource,
				Tools:    make(map[catalog.Operation][]string),
			}
			groups[id] = r
		}
		if _, seen := r.Tools[e.Operation]; !seen {
			r.Operations = append(r.Operations, e.Operation)
		}
		r.Tools[e.Operation] = append(r.Tools[e.Operation], e.Name)
		r.ToolNames = append(r.ToolNames, e.Name)
	}

	idx := &Index{
		resources: make([]Resource, 0, len(groups)),
		byID:      make(map[string]int, len(groups)),
		byName:    make(map[string]int),
		byFold:    make(map[string]int),
		entries:   len(entries),
	}
	for _, r := range groups {
		slices.SortFunc(r.Operations, func(a, b catalog.Operation) int {
			return a.Rank() - b.Rank()
		})
		r.IsFullCrud = isFullCrud(r.Operations)
		r.Summary = summarize(*r)
		idx.resources = append(idx.resources, *r)
	}
	slices.SortFunc(idx.resources, func(a, b Resource) int {
		return strings.Compare(a.ID, b.ID)
	})
	for i, r := range idx.resources {
		idx.byID[r.ID] = i
		if _, ok := idx.byName[r.Resource]; !ok {
			idx.byName[r.Resource] = i
		}
		if _, ok := idx.byFold[foldKey(r.Domain, r.Resource)]; !ok {
			idx.byFold[foldKey(r.Domain, r.Resource)] = i
		}
	}

	idx.search = query.NewEngine(index.Build(searchDocs(idx.resources), index.BuildOptions{}), query.EngineOptions{
		DisableOperationBoost: true,
	})
	return idx
}

func isFullCrud(ops []catalog.Operation) bool {
	for _, op := range catalog.CRUDOperations {
		if !slices.Contains(ops, op) {
			return false
		}
	}
	return true
}

func summarize(r Resource) string {
	ops := make([]string, len(r.Operations))
	for i, op := range r.Operations {
		ops[i] = string(op)
	}
	return fmt.Sprintf("%s %s (%s)", r.Domain, strings.ReplaceAll(r.Resource, "_", " "), strings.Join(ops, ", "))
}

// searchDocs turns resources into pseudo entries so the resource search can
// share the catalog tokenizer and ranking.
func searchDocs(resources []Resource) []catalog.Entry {
	docs := make([]catalog.Entry, len(resources))
	for i, r := range resources {
		docs[i] = catalog.Entry{
			Name:     r.ID,
			Domain:   r.Domain,
			Resource: r.Resource,
			Summary:  r.Summary,
		}
	}
	return docs
}

// Get returns a resource by ID ("domain:resource") or bare resource name.
// A bare name shared by several domains resolves to the first ID in sorted
// order.
func (idx *Index) Get(name string) (Resource, bool) {
	if i, ok := idx.byID[name]; ok {
		return idx.resources[i], true
	}
	if i, ok := idx.byName[name]; ok {
		return idx.resources[i], true
	}
	return Resource{}, false
}

// Find returns the resource for (domain, resource) ignoring case and treating
// '-' and '_' alike, so dependency graph names match catalog names.
func (idx *Index) Find(domain, resource string) (Resource, bool) {
	if i, ok := idx.byFold[foldKey(domain, resource)]; ok {
		return idx.resources[i], true
	}
	return Resource{}, false
}

func foldKey(domain, resource string) string {
	return strings.ToLower(domain) + ":" + strings.ToLower(strings.ReplaceAll(resource, "-", "_"))
}

// Resources returns all resources sorted by ID.
func (idx *Index) Resources() []Resource {
	return idx.resources
}

// ByDomain returns the resources of domain (case-insensitive), sorted by ID.
func (idx *Index) ByDomain(domain string) []Resource {
	out := []Resource{}
	for _, r := range idx.resources {
		if strings.EqualFold(r.Domain, domain) {
			out = append(out, r)
		}
	}
	return out
}

// Resolve returns the tool implementing op for the named resource. The first
// tool in catalog order wins when several implement the same operation.
func (idx *Index) Resolve(name string, op catalog.Operation) (string, bool) {
	r, ok := idx.Get(name)
	if !ok {
		return "", false
	}
	tools := r.Tools[op]
	if len(tools) == 0 {
		return "", false
	}
	return tools[0], true
}

// Totals is the consolidated index summary.
type Totals struct {
	TotalResources    int `json:"totalResources"`
	FullCrudResources int `json:"fullCrudResources"`
}

// Totals counts resources.
func (idx *Index) Totals() Totals {
	t := Totals{TotalResources: len(idx.resources)}
	for _, r := range idx.resources {
		if r.IsFullCrud {
			t.FullCrudResources++
		}
	}
	return t
}

// Stats compares the original entry count with the consolidated count.
type Stats struct {
	OriginalTools     int     `json:"originalTools"`
	ConsolidatedTools int     `json:"consolidatedTools"`
	Reduction         int     `json:"reduction"`
	ReductionPercent  float64 `json:"reductionPercent"`
	FullCrudResources int     `json:"fullCrudResources"`
}

// Stats computes consolidation statistics. ReductionPercent is rounded to one
// decimal place.
func (idx *Index) Stats() Stats {
	s := Stats{
		OriginalTools:     idx.entries,
		ConsolidatedTools: len(idx.resources),
		FullCrudResources: idx.Totals().FullCrudResources,
	}
	s.Reduction = s.OriginalTools - s.ConsolidatedTools
	if s.OriginalTools > 0 {
		pct := float64(s.Reduction) / float64(s.OriginalTools) * 100
		s.ReductionPercent = math.Round(pct*10) / 10
	}
	return s
}

// SearchOptions configures Search.
type SearchOptions struct {
	Limit   int
	Domains []string
}

// Match is a ranked consolidated resource.
type Match struct {
	Resource Resource `json:"resource"`
	Score    float64  `json:"score"`
}

// Search ranks resources with the catalog query engine.
func (idx *Index) Search(q string, opts SearchOptions) []Match {
	results := idx.search.Search(q, query.Options{Limit: opts.Limit, Domains: opts.Domains})
	out := make([]Match, 0, len(results))
	for _, res := range results {
		r, ok := idx.Get(res.Entry.Name)
		if !ok {
			continue
		}
		out = append(out, Match{Resource: r, Score: res.Score})
	}
	return out
}
