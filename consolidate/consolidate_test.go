package consolidate

import (
	"testing"

	"github.com/jonwraymond/apicatalog/catalog"
)

func makeEntry(domain, resource string, op catalog.Operation) catalog.Entry {
	return catalog.Entry{
		Name:        domain + "_" + resource + "_" + string(op),
		Domain:      domain,
		Resource:    resource,
		Operation:   op,
		DangerLevel: catalog.DangerLow,
		Summary:     string(op) + " " + resource,
	}
}

func testEntries() []catalog.Entry {
	var entries []catalog.Entry
	for _, op := range catalog.CRUDOperations {
		entries = append(entries, makeEntry("virtual", "http_loadbalancer", op))
	}
	entries = append(entries,
		makeEntry("virtual", "origin_pool", catalog.OpCreate),
		makeEntry("virtual", "origin_pool", catalog.OpGet),
		makeEntry("waap", "app_firewall", catalog.OpList),
		makeEntry("waap", "app_firewall", catalog.OpCreate),
		makeEntry("dns", "origin_pool", catalog.OpGet),
	)
	// A second list variant for the load balancer.
	extra := makeEntry("virtual", "http_loadbalancer", catalog.OpList)
	extra.Name = "virtual_http_loadbalancer_list_summary"
	return append(entries, extra)
}

func TestBuild_Groups(t *testing.T) {
	idx := Build(testEntries())

	if got := len(idx.Resources()); got != 4 {
		t.Fatalf("expected 4 resources, got %d", got)
	}

	lb, ok := idx.Get("virtual:http_loadbalancer")
	if !ok {
		t.Fatal("expected load balancer resource")
	}
	if !lb.IsFullCrud {
		t.Error("expected load balancer to be full CRUD")
	}
	if len(lb.Tools[catalog.OpList]) != 2 {
		t.Errorf("expected two list tools, got %v", lb.Tools[catalog.OpList])
	}

	fw, _ := idx.Get("waap:app_firewall")
	if fw.IsFullCrud {
		t.Error("firewall should not be full CRUD")
	}
	want := []catalog.Operation{catalog.OpCreate, catalog.OpList}
	if len(fw.Operations) != 2 || fw.Operations[0] != want[0] || fw.Operations[1] != want[1] {
		t.Errorf("expected canonical operation order %v, got %v", want, fw.Operations)
	}
}

func TestIsFullCrud(t *testing.T) {
	tests := []struct {
		name string
		ops  []catalog.Operation
		want bool
	}{
		{"all five", catalog.CRUDOperations, true},
		{"five plus patch", append(append([]catalog.Operation{}, catalog.CRUDOperations...), catalog.OpPatch), true},
		{"missing delete", []catalog.Operation{catalog.OpCreate, catalog.OpGet, catalog.OpList, catalog.OpUpdate}, false},
		{"patch instead of update", []catalog.Operation{catalog.OpCreate, catalog.OpGet, catalog.OpList, catalog.OpPatch, catalog.OpDelete}, false},
		{"none", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFullCrud(tt.ops); got != tt.want {
				t.Errorf("isFullCrud(%v) = %v; want %v", tt.ops, got, tt.want)
			}
		})
	}
}

func TestBuild_EntryCountConservation(t *testing.T) {
	entries := testEntries()
	idx := Build(entries)

	total := 0
	perOp := 0
	for _, r := range idx.Resources() {
		total += len(r.ToolNames)
		for _, tools := range r.Tools {
			perOp += len(tools)
		}
	}
	if total != len(entries) || perOp != len(entries) {
		t.Errorf("expected %d entries, got %d by resource and %d by operation", len(entries), total, perOp)
	}

	byDomain := 0
	for _, d := range []string{"virtual", "waap", "dns"} {
		for _, r := range idx.ByDomain(d) {
			byDomain += len(r.ToolNames)
		}
	}
	if byDomain != len(entries) {
		t.Errorf("expected %d entries across domains, got %d", len(entries), byDomain)
	}
}

func TestGet_BareName(t *testing.T) {
	idx := Build(testEntries())

	r, ok := idx.Get("origin_pool")
	if !ok {
		t.Fatal("expected bare name lookup to succeed")
	}
	if r.ID != "dns:origin_pool" {
		t.Errorf("expected first sorted id dns:origin_pool, got %s", r.ID)
	}
	if _, ok := idx.Get("nope"); ok {
		t.Error("expected unknown resource to be absent")
	}
}

func TestResolve(t *testing.T) {
	idx := Build(testEntries())

	name, ok := idx.Resolve("virtual:http_loadbalancer", catalog.OpList)
	if !ok || name != "virtual_http_loadbalancer_list" {
		t.Errorf("expected first list tool, got %q %v", name, ok)
	}
	if _, ok := idx.Resolve("virtual:origin_pool", catalog.OpDelete); ok {
		t.Error("expected unavailable operation to resolve to nothing")
	}
	if _, ok := idx.Resolve("missing", catalog.OpGet); ok {
		t.Error("expected unknown resource to resolve to nothing")
	}
}

func TestTotalsAndStats(t *testing.T) {
	idx := Build(testEntries())

	totals := idx.Totals()
	if totals.TotalResources != 4 || totals.FullCrudResources != 1 {
		t.Errorf("unexpected totals %+v", totals)
	}

	s := idx.Stats()
	if s.OriginalTools != 11 || s.ConsolidatedTools != 4 || s.Reduction != 7 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.ReductionPercent != 63.6 {
		t.Errorf("expected 63.6%% reduction, got %v", s.ReductionPercent)
	}

	empty := Build(nil).Stats()
	if empty.ReductionPercent != 0 || empty.ConsolidatedTools != 0 {
		t.Errorf("unexpected empty stats %+v", empty)
	}
}

func TestSearch(t *testing.T) {
	idx := Build(testEntries())

	matches := idx.Search("http load balancer", SearchOptions{})
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	if matches[0].Resource.ID != "virtual:http_loadbalancer" {
		t.Errorf("expected load balancer first, got %s", matches[0].Resource.ID)
	}

	pools := idx.Search("origin pool", SearchOptions{Domains: []string{"dns"}})
	if len(pools) != 1 || pools[0].Resource.Domain != "dns" {
		t.Errorf("expected only the dns pool, got %+v", pools)
	}

	if got := idx.Search("", SearchOptions{}); len(got) != 0 {
		t.Errorf("expected no matches for empty query, got %d", len(got))
	}
	if got := idx.Search("origin pool", SearchOptions{Limit: 1}); len(got) != 1 {
		t.Errorf("expected limit to apply, got %d", len(got))
	}
}

func TestFind_FoldsCaseAndSeparators(t *testing.T) {
	idx := Build(testEntries())

	r, ok := idx.Find("Virtual", "http-loadbalancer")
	if !ok || r.ID != "virtual:http_loadbalancer" {
		t.Errorf("expected virtual:http_loadbalancer, got %q %v", r.ID, ok)
	}
	if _, ok := idx.Find("waap", "origin_pool"); ok {
		t.Error("expected domain to be part of the match")
	}
}
