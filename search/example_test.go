package search_test

import (
	"fmt"
	"testing"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/search"
)

func testEntries() []catalog.Entry {
	return []catalog.Entry{
		{
			Name:      "virtual_http-loadbalancer_create",
			Domain:    "virtual",
			Resource:  "http_loadbalancer",
			Operation: catalog.OpCreate,
			Summary:   "Create an HTTP load balancer that routes traffic to origin pools",
			Tags:      []string{"lb"},
		},
		{
			Name:      "virtual_origin-pool_list",
			Domain:    "virtual",
			Resource:  "origin_pool",
			Operation: catalog.OpList,
			Summary:   "List origin pools",
		},
		{
			Name:      "waap_app-firewall_create",
			Domain:    "waap",
			Resource:  "app_firewall",
			Operation: catalog.OpCreate,
			Summary:   "Create a web application firewall policy",
		},
		{
			Name:        "dns_zone_delete",
			Domain:      "dns",
			Resource:    "zone",
			Operation:   catalog.OpDelete,
			Summary:     "Delete a DNS zone and all its records",
			DangerLevel: catalog.DangerHigh,
		},
	}
}

func TestBM25Searcher(t *testing.T) {
	searcher := search.NewBM25Searcher(search.BM25Config{})
	defer func() {
		if err := searcher.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	}()
	entries := testEntries()

	t.Run("name_match", func(t *testing.T) {
		hits, err := searcher.Search("firewall", 10, entries)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		if len(hits) == 0 || hits[0].Entry.Name != "waap_app-firewall_create" {
			t.Errorf("expected firewall first, got %+v", hits)
		}
	})

	t.Run("domain_match", func(t *testing.T) {
		hits, err := searcher.Search("virtual", 10, entries)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		if len(hits) != 2 {
			t.Fatalf("expected 2 virtual hits, got %d", len(hits))
		}
		for _, h := range hits {
			if h.Entry.Domain != "virtual" {
				t.Errorf("unexpected domain %s", h.Entry.Domain)
			}
		}
	})

	t.Run("summary_match", func(t *testing.T) {
		hits, err := searcher.Search("records", 10, entries)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		if len(hits) != 1 || hits[0].Entry.Name != "dns_zone_delete" {
			t.Errorf("expected dns zone delete, got %+v", hits)
		}
		if hits[0].Entry.DangerLevel != catalog.DangerHigh {
			t.Error("expected the full entry to be returned")
		}
	})

	t.Run("no_matches", func(t *testing.T) {
		hits, err := searcher.Search("terraform", 10, entries)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("expected 0 hits, got %d", len(hits))
		}
	})

	t.Run("empty_query", func(t *testing.T) {
		hits, err := searcher.Search("  ", 10, entries)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		if hits == nil || len(hits) != 0 {
			t.Errorf("expected empty hits, got %#v", hits)
		}
	})

	t.Run("limit", func(t *testing.T) {
		hits, err := searcher.Search("create", 1, entries)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		if len(hits) != 1 {
			t.Errorf("expected 1 hit, got %d", len(hits))
		}
	})

	t.Run("scores_non_increasing", func(t *testing.T) {
		hits, err := searcher.Search("origin pool load balancer", 10, entries)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		for i := 1; i < len(hits); i++ {
			if hits[i].Score > hits[i-1].Score {
				t.Errorf("hits not sorted at %d: %f > %f", i, hits[i].Score, hits[i-1].Score)
			}
		}
	})
}

func TestBM25Searcher_TieBreakByName(t *testing.T) {
	searcher := search.NewBM25Searcher(search.BM25Config{})
	defer searcher.Close()

	entries := []catalog.Entry{
		{Name: "zz_one", Domain: "d", Resource: "r", Operation: catalog.OpGet, Summary: "widget"},
		{Name: "aa_two", Domain: "d", Resource: "r", Operation: catalog.OpGet, Summary: "widget"},
	}
	hits, err := searcher.Search("widget", 10, entries)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 2 || hits[0].Entry.Name != "aa_two" {
		t.Errorf("expected aa_two first on a tie, got %+v", hits)
	}
}

func TestBM25Searcher_Rebuild(t *testing.T) {
	searcher := search.NewBM25Searcher(search.BM25Config{})
	defer searcher.Close()

	entries := testEntries()
	if hits, _ := searcher.Search("certificate", 10, entries); len(hits) != 0 {
		t.Fatalf("expected no hits before the change, got %d", len(hits))
	}

	entries = append(entries, catalog.Entry{
		Name: "cert_certificate_create", Domain: "cert", Resource: "certificate", Operation: catalog.OpCreate,
	})
	hits, err := searcher.Search("certificate", 10, entries)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("expected rebuilt index to find the new entry, got %d", len(hits))
	}
}

func TestBM25Searcher_Close(t *testing.T) {
	searcher := search.NewBM25Searcher(search.BM25Config{})
	if _, err := searcher.Search("zone", 10, testEntries()); err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if err := searcher.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := searcher.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if _, err := searcher.Search("zone", 10, testEntries()); err != search.ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func ExampleBM25Searcher() {
	searcher := search.NewBM25Searcher(search.BM25Config{})
	defer searcher.Close()

	hits, err := searcher.Search("firewall", 5, testEntries())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, h := range hits {
		fmt.Println(h.Entry.Name)
	}
	// Output: waap_app-firewall_create
}

func BenchmarkBM25Searcher_Search(b *testing.B) {
	searcher := search.NewBM25Searcher(search.BM25Config{})
	defer searcher.Close()
	entries := testEntries()

	for b.Loop() {
		_, _ = searcher.Search("origin pool", 10, entries)
	}
}
