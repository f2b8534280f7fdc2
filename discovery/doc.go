// Package discovery provides the catalog engine facade.
//
// It owns the loaded catalog and everything derived from it (search index,
// ranking engine, consolidated resources, cost estimator) together with the
// dependency graph, and exposes every engine operation through one value.
// This package is the recommended entry point for most callers.
//
// # Basic Usage
//
//	disc, err := discovery.New(discovery.Options{
//	    Loader: catalog.NewFileLoader("catalog.yaml"),
//	    Graph:  graph, // from dependency.LoadFile
//	    Logger: logger,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := disc.SearchTools("create http load balancer", discovery.SearchOptions{
//	    IncludeDependencies: true,
//	})
//
//	plan := disc.ResolveDependencies(dependency.ResolveOptions{
//	    Domain:   "virtual",
//	    Resource: "http_loadbalancer",
//	})
//
// # Lazy Build
//
// The catalog is loaded and indexed on first use. Concurrent first callers
// share a single build and never observe a partially built index. Rebuild
// swaps in a freshly loaded catalog atomically; Invalidate drops it so the
// next call reloads.
//
// # Search Modes
//
//   - SearchTools: inverted index with fuzzy and prefix matching plus boosts
//   - SearchDescriptions: BM25 full-text search over names and summaries
//   - SearchHybrid: weighted combination of both (Options.HybridAlpha)
//
// # Missing Values
//
// Collection lookups return empty slices for unknown domains, resources and
// tools. Single-value lookups (Tool, DescribeTool, ConsolidatedResource,
// ResolveConsolidatedTool, ResourceDependencies, EstimateToolCost) return an
// error matching ErrNotFound. Dependency reports for unknown resources are
// well-formed and empty.
//
// # Thread Safety
//
// All Discovery methods are safe for concurrent use.
package discovery
