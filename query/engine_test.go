package query

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/index"
)

func makeEntry(name, domain, resource string, op catalog.Operation, danger catalog.DangerLevel, summary string) catalog.Entry {
	return catalog.Entry{
		Name:        name,
		Domain:      domain,
		Resource:    resource,
		Operation:   op,
		DangerLevel: danger,
		Summary:     summary,
	}
}

func testEntries() []catalog.Entry {
	return []catalog.Entry{
		makeEntry("virtual_http-loadbalancer_create", "virtual", "http_loadbalancer", catalog.OpCreate, catalog.DangerMedium, "Create an HTTP load balancer"),
		makeEntry("virtual_http-loadbalancer_get", "virtual", "http_loadbalancer", catalog.OpGet, catalog.DangerLow, "Get an HTTP load balancer"),
		makeEntry("virtual_http-loadbalancer_list", "virtual", "http_loadbalancer", catalog.OpList, catalog.DangerLow, "List HTTP load balancers"),
		makeEntry("virtual_http-loadbalancer_delete", "virtual", "http_loadbalancer", catalog.OpDelete, catalog.DangerHigh, "Delete an HTTP load balancer"),
		makeEntry("virtual_origin-pool_create", "virtual", "origin_pool", catalog.OpCreate, catalog.DangerMedium, "Create an origin pool"),
		makeEntry("virtual_origin-pool_delete", "virtual", "origin_pool", catalog.OpDelete, catalog.DangerHigh, "Delete an origin pool"),
		makeEntry("waap_app-firewall_create", "waap", "app_firewall", catalog.OpCreate, catalog.DangerMedium, "Create an application firewall"),
		makeEntry("waap_app-firewall_list", "waap", "app_firewall", catalog.OpList, catalog.DangerLow, "List application firewalls"),
		makeEntry("dns_zone_create", "dns", "zone", catalog.OpCreate, catalog.DangerMedium, "Create a DNS zone"),
		makeEntry("dns_zone_get", "dns", "zone", catalog.OpGet, catalog.DangerLow, "Get a DNS zone"),
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(index.Build(testEntries(), index.BuildOptions{}), EngineOptions{})
}

func floatPtr(f float64) *float64 { return &f }

func TestSearch_HTTPLoadBalancer(t *testing.T) {
	entries := []catalog.Entry{
		makeEntry("virtual_http-loadbalancer_create", "virtual", "http_loadbalancer", catalog.OpCreate, catalog.DangerMedium, ""),
		makeEntry("dns_zone_get", "dns", "zone", catalog.OpGet, catalog.DangerLow, ""),
	}
	eng := NewEngine(index.Build(entries, index.BuildOptions{}), EngineOptions{})

	results := eng.Search("http load balancer", Options{})
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	top := results[0]
	if top.Entry.Name != "virtual_http-loadbalancer_create" {
		t.Fatalf("expected load balancer create first, got %s", top.Entry.Name)
	}
	if top.Score <= 0.5 {
		t.Errorf("expected score > 0.5, got %v", top.Score)
	}
	if top.Entry.Domain != "virtual" {
		t.Errorf("expected domain virtual, got %s", top.Entry.Domain)
	}
}

func TestSearch_Properties(t *testing.T) {
	eng := newTestEngine(t)
	queries := []string{"http load balancer", "create origin pool", "firewall", "dns zone", "delete", "balancr", "zzz", ""}

	for _, q := range queries {
		for _, limit := range []int{1, 3, 10} {
			t.Run(fmt.Sprintf("%s/%d", q, limit), func(t *testing.T) {
				results := eng.Search(q, Options{Limit: limit})
				if len(results) > limit {
					t.Errorf("got %d results for limit %d", len(results), limit)
				}
				for i, r := range results {
					if r.Score < 0 || r.Score > 1 {
						t.Errorf("score %v out of range", r.Score)
					}
					if i > 0 && results[i-1].Score < r.Score {
						t.Errorf("results not sorted at %d", i)
					}
				}
			})
		}
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	eng := newTestEngine(t)
	if got := eng.Search("", Options{}); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
	if got := eng.Search("a ! ?", Options{}); len(got) != 0 {
		t.Errorf("expected no results for short tokens, got %d", len(got))
	}
}

func TestSearch_DomainFilter(t *testing.T) {
	eng := newTestEngine(t)
	results := eng.Search("create", Options{Domains: []string{"VIRTUAL"}, MinScore: floatPtr(0)})
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	for _, r := range results {
		if r.Entry.Domain != "virtual" {
			t.Errorf("unexpected domain %s", r.Entry.Domain)
		}
	}
}

func TestSearch_FiltersIntersect(t *testing.T) {
	eng := newTestEngine(t)
	results := eng.Search("create delete list", Options{
		Domains:    []string{"virtual"},
		Operations: []string{"delete"},
		MinScore:   floatPtr(0),
	})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %v", len(results), results.Names())
	}
	for _, r := range results {
		if r.Entry.Domain != "virtual" || r.Entry.Operation != catalog.OpDelete {
			t.Errorf("result %s violates filters", r.Entry.Name)
		}
	}

	none := eng.Search("zone", Options{Domains: []string{"waap"}, Operations: []string{"get"}})
	if len(none) != 0 {
		t.Errorf("expected no results, got %v", none.Names())
	}
}

func TestSearch_ExcludeDangerous(t *testing.T) {
	eng := newTestEngine(t)
	all := eng.Search("delete", Options{})
	safe := eng.Search("delete", Options{ExcludeDangerous: true})

	if len(all) == 0 {
		t.Fatal("expected delete results")
	}
	for _, r := range safe {
		if r.Entry.DangerLevel == catalog.DangerHigh {
			t.Errorf("dangerous entry %s not excluded", r.Entry.Name)
		}
	}
	if len(safe) >= len(all) {
		t.Errorf("expected fewer results when excluding dangerous: %d vs %d", len(safe), len(all))
	}
}

func TestSearch_MinScore(t *testing.T) {
	eng := newTestEngine(t)
	results := eng.Search("create firewall", Options{MinScore: floatPtr(0.9)})
	for _, r := range results {
		if r.Score < 0.9 {
			t.Errorf("result %s below min score: %v", r.Entry.Name, r.Score)
		}
	}
	loose := eng.Search("create firewall", Options{MinScore: floatPtr(0)})
	if len(loose) <= len(results) {
		t.Errorf("expected a lower threshold to admit more results")
	}
}

func TestSearch_OperationBoost(t *testing.T) {
	eng := newTestEngine(t)
	results := eng.Search("create origin pool", Options{})
	if len(results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(results))
	}
	if results[0].Entry.Name != "virtual_origin-pool_create" {
		t.Errorf("expected create entry first, got %s", results[0].Entry.Name)
	}

	plain := NewEngine(eng.Index(), EngineOptions{DisableOperationBoost: true})
	boosted := scoreOf(results, "virtual_origin-pool_delete")
	unboosted := scoreOf(plain.Search("create origin pool", Options{}), "virtual_origin-pool_delete")
	if boosted != unboosted {
		t.Errorf("delete entry should not receive create boost: %v vs %v", boosted, unboosted)
	}
}

func TestSearch_DomainBoost(t *testing.T) {
	entries := []catalog.Entry{
		makeEntry("alpha_zone_get", "alpha", "zone", catalog.OpGet, catalog.DangerLow, "zone"),
		makeEntry("dns_zone_get", "dns", "zone", catalog.OpGet, catalog.DangerLow, "zone"),
	}
	eng := NewEngine(index.Build(entries, index.BuildOptions{}), EngineOptions{})

	results := eng.Search("dns record", Options{MinScore: floatPtr(0)})
	if len(results) != 1 || results[0].Entry.Name != "dns_zone_get" {
		t.Fatalf("unexpected results %v", results.Names())
	}
	want := 0.5 * DomainBoost
	if diff := results[0].Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected %v, got %v", want, results[0].Score)
	}
}

func TestSearch_TiesKeepCatalogOrder(t *testing.T) {
	eng := newTestEngine(t)
	results := eng.Search("zone", Options{MinScore: floatPtr(0)})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Score != results[1].Score {
		t.Fatalf("expected a tie, got %v and %v", results[0].Score, results[1].Score)
	}
	if results[0].Entry.Name != "dns_zone_create" || results[1].Entry.Name != "dns_zone_get" {
		t.Errorf("ties not in catalog order: %v", results.Names())
	}
}

func TestSearch_DependencyHints(t *testing.T) {
	eng := newTestEngine(t)
	calls := 0
	hints := HintFunc(func(e catalog.Entry) *DependencyHint {
		calls++
		if e.Resource != "http_loadbalancer" {
			return nil
		}
		return &DependencyHint{Prerequisites: []string{"virtual/origin_pool"}}
	})

	results := eng.Search("http load balancer", Options{IncludeDependencies: true, Hints: hints, MinScore: floatPtr(0)})
	var sawHint bool
	for _, r := range results {
		if r.Entry.Operation != catalog.OpCreate && r.Dependencies != nil {
			t.Errorf("non-create result %s carries a hint", r.Entry.Name)
		}
		if r.Entry.Name == "virtual_http-loadbalancer_create" {
			if r.Dependencies == nil || r.Dependencies.Prerequisites[0] != "virtual/origin_pool" {
				t.Errorf("expected prerequisite hint, got %+v", r.Dependencies)
			}
			sawHint = true
		}
	}
	if !sawHint {
		t.Error("expected load balancer create in results")
	}

	calls = 0
	for _, r := range eng.Search("http load balancer", Options{Hints: hints}) {
		if r.Dependencies != nil {
			t.Errorf("hint attached without IncludeDependencies on %s", r.Entry.Name)
		}
	}
	if calls != 0 {
		t.Errorf("hint provider called %d times without IncludeDependencies", calls)
	}
}

func TestDetectOperation(t *testing.T) {
	tests := []struct {
		query string
		want  catalog.Operation
	}{
		{"create a load balancer", catalog.OpCreate},
		{"add origin pool", catalog.OpCreate},
		{"remove the pool", catalog.OpDelete},
		{"list all pools", catalog.OpList},
		{"show zone", catalog.OpGet},
		{"new pool then delete it", catalog.OpCreate},
		{"delete then list", catalog.OpDelete},
		{"address book", ""},
		{"patch firewall", catalog.OpPatch},
		{"modify firewall", catalog.OpUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := DetectOperation(tt.query); got != tt.want {
				t.Errorf("DetectOperation(%q) = %q; want %q", tt.query, got, tt.want)
			}
		})
	}
}

func scoreOf(results Results, name string) float64 {
	for _, r := range results {
		if r.Entry.Name == name {
			return r.Score
		}
	}
	return -1
}

func BenchmarkEngine_Search(b *testing.B) {
	var entries []catalog.Entry
	for i := range 2000 {
		op := catalog.Operations[i%len(catalog.Operations)]
		resource := fmt.Sprintf("resource_%d", i/6)
		entries = append(entries, makeEntry(
			strings.Join([]string{"domain", resource, string(op)}, "_"),
			fmt.Sprintf("domain%d", i%12), resource, op, catalog.DangerLow,
			"manage load balancer origin pools"))
	}
	eng := NewEngine(index.Build(entries, index.BuildOptions{}), EngineOptions{})
	for b.Loop() {
		_ = eng.Search("create load balancer", Options{})
	}
}
