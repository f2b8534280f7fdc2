// Package registry exposes the API catalog engine to MCP clients.
//
// A Registry wraps a discovery.Discovery and registers a fixed set of
// read-only metatools over it. Further local tools may be registered with
// handlers before the server is built.
//
// Metatools:
//   - search_tools: ranked catalog search (lexical, bm25 or hybrid)
//   - describe_tool: progressive documentation for one operation
//   - search_descriptions: BM25 search over names and summaries
//   - list_domains: domains with operation counts
//   - search_resources: consolidated (domain, resource) search
//   - resolve_resource_tool: operation on a resource to catalog tool name
//   - dependency_report: prerequisite and dependent queries
//   - resolve_dependencies: creation plans with optional cost estimate
//   - estimate_cost: token, latency and price estimates
//   - catalog_stats: index, consolidation and graph statistics
//
// Unknown tools, resources and domains produce successful empty results.
// Malformed arguments produce MCP tool errors (IsError) wrapping
// ErrInvalidRequest.
//
// Example usage:
//
//	reg, err := registry.New(disc, registry.Config{
//	    ServerInfo: registry.ServerInfo{
//	        Name:    "apicatalog",
//	        Version: "1.0.0",
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.ServeStdio(ctx, reg)
//
// For the streamable HTTP transport, mount ServeHTTP(reg) or call
// ListenAndServe.
package registry
