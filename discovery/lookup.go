package discovery

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/consolidate"
	"github.com/jonwraymond/apicatalog/tooldoc"
)

// Tool returns the catalog entry with the given name.
func (d *Discovery) Tool(name string) (catalog.Entry, error) {
	st, err := d.state()
	if err != nil {
		return catalog.Entry{}, err
	}
	e, ok := st.snapshot.Lookup(name)
	if !ok {
		return catalog.Entry{}, fmt.Errorf("%w: tool %q", ErrNotFound, name)
	}
	return e, nil
}

// DescribeTool returns documentation for a tool at the requested detail level.
func (d *Discovery) DescribeTool(name string, level tooldoc.DetailLevel) (tooldoc.ToolDoc, error) {
	e, err := d.Tool(name)
	if err != nil {
		return tooldoc.ToolDoc{}, err
	}
	return tooldoc.Describe(e, level)
}

// ToolsByDomain returns the entries of a domain (case-insensitive) in catalog
// order. An unknown domain yields an empty slice.
func (d *Discovery) ToolsByDomain(domain string) ([]catalog.Entry, error) {
	return d.entriesWhere(func(e catalog.Entry) bool {
		return strings.EqualFold(e.Domain, domain)
	})
}

// ToolsByResource returns the entries for a resource name (case-insensitive)
// across all domains, in catalog order.
func (d *Discovery) ToolsByResource(resource string) ([]catalog.Entry, error) {
	return d.entriesWhere(func(e catalog.Entry) bool {
		return strings.EqualFold(e.Resource, resource)
	})
}

func (d *Discovery) entriesWhere(keep func(catalog.Entry) bool) ([]catalog.Entry, error) {
	st, err := d.state()
	if err != nil {
		return nil, err
	}
	out := []catalog.Entry{}
	for _, e := range st.snapshot.Entries() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// AvailableDomains returns the sorted catalog domains.
func (d *Discovery) AvailableDomains() ([]string, error) {
	st, err := d.state()
	if err != nil {
		return nil, err
	}
	return st.snapshot.Domains(), nil
}

// ToolCountByDomain returns the number of entries per domain.
func (d *Discovery) ToolCountByDomain() (map[string]int, error) {
	st, err := d.state()
	if err != nil {
		return nil, err
	}
	return maps.Clone(st.snapshot.Metadata.DomainCounts), nil
}

// SearchConsolidatedResources ranks (domain, resource) groups against q.
func (d *Discovery) SearchConsolidatedResources(q string, limit int, domains []string) ([]consolidate.Match, error) {
	st, err := d.state()
	if err != nil {
		return nil, err
	}
	return st.resources.Search(q, consolidate.SearchOptions{
		Limit:   d.limit(limit),
		Domains: domains,
	}), nil
}

// ConsolidatedIndex is every consolidated resource with totals.
type ConsolidatedIndex struct {
	consolidate.Totals
	Resources []consolidate.Resource `json:"resources"`
}

// ConsolidatedIndex returns every consolidated resource sorted by ID.
func (d *Discovery) ConsolidatedIndex() (ConsolidatedIndex, error) {
	st, err := d.state()
	if err != nil {
		return ConsolidatedIndex{}, err
	}
	return ConsolidatedIndex{
		Totals:    st.resources.Totals(),
		Resources: slices.Clone(st.resources.Resources()),
	}, nil
}

// ConsolidationStats compares the raw entry count to the consolidated count.
func (d *Discovery) ConsolidationStats() (consolidate.Stats, error) {
	st, err := d.state()
	if err != nil {
		return consolidate.Stats{}, err
	}
	return st.resources.Stats(), nil
}

// ConsolidatedResource returns one consolidated resource by ID or bare name.
func (d *Discovery) ConsolidatedResource(name string) (consolidate.Resource, error) {
	st, err := d.state()
	if err != nil {
		return consolidate.Resource{}, err
	}
	r, ok := st.resources.Get(name)
	if !ok {
		return consolidate.Resource{}, fmt.Errorf("%w: resource %q", ErrNotFound, name)
	}
	return r, nil
}

// ResolveConsolidatedTool returns the entry name implementing op for a
// resource, or ErrNotFound when the resource lacks that operation.
func (d *Discovery) ResolveConsolidatedTool(resource string, op catalog.Operation) (string, error) {
	st, err := d.state()
	if err != nil {
		return "", err
	}
	name, ok := st.resources.Resolve(resource, op)
	if !ok {
		return "", fmt.Errorf("%w: %s on %q", ErrNotFound, op, resource)
	}
	return name, nil
}
