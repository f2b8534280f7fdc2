package discovery_test

import (
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/dependency"
	"github.com/jonwraymond/apicatalog/discovery"
)

func exampleEntries() []catalog.Entry {
	return []catalog.Entry{
		{Name: "dns_zone_create", Domain: "dns", Resource: "zone", Operation: catalog.OpCreate, Summary: "Create DNS zone"},
		{Name: "dns_zone_list", Domain: "dns", Resource: "zone", Operation: catalog.OpList, Summary: "List DNS zones"},
		{Name: "virtual_origin_pool_create", Domain: "virtual", Resource: "origin-pool", Operation: catalog.OpCreate, Summary: "Create origin pool"},
	}
}

func ExampleDiscovery_SearchTools() {
	disc, err := discovery.New(discovery.Options{
		Loader: catalog.NewStaticLoader(exampleEntries()),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer disc.Close()

	results, err := disc.SearchTools("dns zone", discovery.SearchOptions{})
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range results {
		fmt.Println(r.Entry.Name)
	}
	// Output:
	// dns_zone_create
	// dns_zone_list
}

func ExampleDiscovery_ResolveDependencies() {
	graph := dependency.NewGraph("", time.Time{}, []dependency.Node{
		{Domain: "virtual", Resource: "origin_pool", Requires: []dependency.Requirement{
			{Domain: "virtual", ResourceType: "healthcheck", Required: true},
		}},
		{Domain: "virtual", Resource: "healthcheck"},
	})
	disc, err := discovery.New(discovery.Options{
		Loader: catalog.NewStaticLoader(exampleEntries()),
		Graph:  graph,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer disc.Close()

	res := disc.ResolveDependencies(dependency.ResolveOptions{Domain: "virtual", Resource: "origin-pool"})
	for _, step := range res.Plan.Steps {
		fmt.Println(step.Order, step.Ref())
	}
	// Output:
	// 1 virtual/healthcheck
	// 2 virtual/origin_pool
}

func BenchmarkDiscovery_SearchTools(b *testing.B) {
	var entries []catalog.Entry
	for i := range 500 {
		entries = append(entries, catalog.Entry{
			Name:      fmt.Sprintf("domain%d_resource%d_create", i%20, i),
			Domain:    fmt.Sprintf("domain%d", i%20),
			Resource:  fmt.Sprintf("resource%d", i),
			Operation: catalog.OpCreate,
			Summary:   "Create resource",
		})
	}
	disc, err := discovery.New(discovery.Options{Loader: catalog.NewStaticLoader(entries)})
	if err != nil {
		b.Fatal(err)
	}
	defer disc.Close()
	if err := disc.EnsureBuilt(); err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		_, _ = disc.SearchTools("create domain3 resorce", discovery.SearchOptions{})
	}
}
