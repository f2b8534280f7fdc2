// Package dependency answers prerequisite questions over a static resource
// dependency graph and builds ordered creation plans.
//
// The graph is externally supplied reference data keyed by (domain, resource).
// Each [Node] lists the resources it requires, the resources that require it,
// its one-of option groups and the add-on subscriptions it needs. The graph is
// read-only once built and safe for concurrent readers.
//
// # Missing Resources
//
// The graph may lag behind the catalog, so unknown resources are never errors:
// list lookups return empty slices, [Graph.Report] returns a well-formed empty
// report and [Graph.Node] reports false.
//
// # Creation Plans
//
// [Graph.Resolve] walks the requires edges depth-first and emits every
// prerequisite before the resources that need it:
//
//	res := g.Resolve(dependency.ResolveOptions{
//	    Domain:            "virtual",
//	    Resource:          "http_loadbalancer",
//	    ExistingResources: []string{"virtual/origin_pool"},
//	    IncludeOptional:   true,
//	})
//	if !res.Success {
//	    // res.Error.Code == dependency.CodeMaxDepthExceeded
//	}
//
// Optional edges are followed only with IncludeOptional. Existing resources are
// kept in the plan flagged as skipped and their prerequisites are not visited.
// Cycles are cut at the first revisited node and reported as warnings. When
// the walk needs to go deeper than MaxDepth the result carries a [PlanError]
// instead of a plan.
package dependency
