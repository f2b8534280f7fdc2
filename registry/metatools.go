package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/cost"
	"github.com/jonwraymond/apicatalog/dependency"
	"github.com/jonwraymond/apicatalog/discovery"
	"github.com/jonwraymond/apicatalog/tooldoc"
)

// Metatool names.
const (
	ToolSearchTools         = "search_tools"
	ToolDescribeTool        = "describe_tool"
	ToolSearchDescriptions  = "search_descriptions"
	ToolListDomains         = "list_domains"
	ToolSearchResources     = "search_resources"
	ToolResolveResourceTool = "resolve_resource_tool"
	ToolDependencyReport    = "dependency_report"
	ToolResolveDependencies = "resolve_dependencies"
	ToolEstimateCost        = "estimate_cost"
	ToolCatalogStats        = "catalog_stats"
)

// Search modes accepted by search_tools.
const (
	ModeLexical = "lexical"
	ModeBM25    = "bm25"
	ModeHybrid  = "hybrid"
)

type metatool struct {
	name        string
	title       string
	description string
	schema      map[string]any
	handler     ToolHandler
}

func (r *Registry) registerMetatools() error {
	for _, mt := range r.metatools() {
		err := r.RegisterLocalFunc(mt.name, mt.description, mt.schema, mt.handler,
			WithNamespace("apicatalog"), WithTitle(mt.title), WithTags("catalog", "metatool"), WithReadOnly())
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) metatools() []metatool {
	searchProps := map[string]any{
		"query":               prop("string", "Natural-language query"),
		"limit":               prop("integer", "Maximum results (default 10, capped at 50)"),
		"domains":             arrayProp("Restrict to these domains"),
		"operations":          arrayProp("Restrict to these operations"),
		"minScore":            prop("number", "Drop results scoring below this threshold"),
		"excludeDangerous":    prop("boolean", "Drop high danger operations"),
		"includeDependencies": prop("boolean", "Attach prerequisite hints to create operations"),
	}
	modeProps := map[string]any{
		"mode": map[string]any{
			"type":        "string",
			"enum":        []string{ModeLexical, ModeBM25, ModeHybrid},
			"description": "Ranking method (default lexical)",
		},
	}
	for k, v := range searchProps {
		modeProps[k] = v
	}

	return []metatool{
		{
			name:        ToolSearchTools,
			title:       "Search API tools",
			description: "Search the API catalog for operations matching a query, with fuzzy matching and ranking.",
			schema:      objectSchema(modeProps, "query"),
			handler:     r.handleSearchTools,
		},
		{
			name:        ToolDescribeTool,
			title:       "Describe API tool",
			description: "Describe one catalog operation at summary, schema or full detail.",
			schema: objectSchema(map[string]any{
				"name": prop("string", "Tool name"),
				"detail": map[string]any{
					"type":        "string",
					"enum":        []string{string(tooldoc.DetailSummary), string(tooldoc.DetailSchema), string(tooldoc.DetailFull)},
					"description": "Detail level (default summary)",
				},
			}, "name"),
			handler: r.handleDescribeTool,
		},
		{
			name:        ToolSearchDescriptions,
			title:       "Search tool descriptions",
			description: "Full-text BM25 search over operation names and summaries.",
			schema:      objectSchema(searchProps, "query"),
			handler:     r.handleSearchDescriptions,
		},
		{
			name:        ToolListDomains,
			title:       "List domains",
			description: "List catalog domains with their operation counts.",
			schema:      objectSchema(nil),
			handler:     r.handleListDomains,
		},
		{
			name:        ToolSearchResources,
			title:       "Search resources",
			description: "Search consolidated resources, one per domain and resource, listing their available operations.",
			schema: objectSchema(map[string]any{
				"query":   prop("string", "Natural-language query"),
				"limit":   prop("integer", "Maximum results"),
				"domains": arrayProp("Restrict to these domains"),
			}, "query"),
			handler: r.handleSearchResources,
		},
		{
			name:        ToolResolveResourceTool,
			title:       "Resolve resource operation",
			description: "Find the catalog operation implementing an operation on a consolidated resource.",
			schema: objectSchema(map[string]any{
				"resource":  prop("string", "Resource ID (domain:resource) or bare resource name"),
				"operation": prop("string", "create, get, list, update, delete or patch"),
			}, "resource", "operation"),
			handler: r.handleResolveResourceTool,
		},
		{
			name:        ToolDependencyReport,
			title:       "Dependency report",
			description: "Report prerequisites, dependents, one-of groups, subscriptions or creation order for a resource.",
			schema: objectSchema(map[string]any{
				"domain":   prop("string", "Resource domain"),
				"resource": prop("string", "Resource type"),
				"mode": map[string]any{
					"type": "string",
					"enum": []string{
						string(dependency.ModePrerequisites), string(dependency.ModeDependents),
						string(dependency.ModeOneOf), string(dependency.ModeSubscriptions),
						string(dependency.ModeCreationOrder), string(dependency.ModeFull),
					},
					"description": "Report section (default full)",
				},
			}, "domain", "resource"),
			handler: r.handleDependencyReport,
		},
		{
			name:        ToolResolveDependencies,
			title:       "Plan resource creation",
			description: "Build an ordered creation plan for a resource and its prerequisites, optionally with a cost estimate.",
			schema: objectSchema(map[string]any{
				"domain":             prop("string", "Resource domain"),
				"resource":           prop("string", "Resource type"),
				"existingResources":  arrayProp("Resources that already exist (domain/resource)"),
				"includeOptional":    prop("boolean", "Include optional prerequisites"),
				"maxDepth":           prop("integer", "Traversal depth bound (default 10)"),
				"expandAlternatives": prop("boolean", "Expand one-of choices into alternative branches"),
				"estimateCost":       prop("boolean", "Attach a cost estimate for the pending steps"),
			}, "domain", "resource"),
			handler: r.handleResolveDependencies,
		},
		{
			name:        ToolEstimateCost,
			title:       "Estimate tool cost",
			description: "Estimate token, latency and price figures for one or more catalog operations.",
			schema: objectSchema(map[string]any{
				"tools":    arrayProp("Tool names"),
				"detailed": prop("boolean", "Include per-tool breakdowns"),
			}, "tools"),
			handler: r.handleEstimateCost,
		},
		{
			name:        ToolCatalogStats,
			title:       "Catalog statistics",
			description: "Report index, consolidation and dependency graph statistics.",
			schema:      objectSchema(nil),
			handler:     r.handleCatalogStats,
		},
	}
}

// SearchResponse is returned by search_tools and search_descriptions.
type SearchResponse struct {
	Query   string            `json:"query"`
	Mode    string            `json:"mode"`
	Count   int               `json:"count"`
	Results discovery.Results `json:"results"`
}

func (r *Registry) handleSearchTools(ctx context.Context, args map[string]any) (any, error) {
	q, err := requiredString(args, "query")
	if err != nil {
		return nil, err
	}
	opts, err := searchOptions(args)
	if err != nil {
		return nil, err
	}
	mode, err := optString(args, "mode")
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = ModeLexical
	}

	var results discovery.Results
	switch mode {
	case ModeLexical:
		results, err = r.disc.SearchTools(q, opts)
	case ModeBM25:
		results, err = r.disc.SearchDescriptions(q, opts)
	case ModeHybrid:
		results, err = r.disc.SearchHybrid(q, opts)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, mode)
	}
	if err != nil {
		return nil, err
	}
	return SearchResponse{Query: q, Mode: mode, Count: len(results), Results: results}, nil
}

func (r *Registry) handleSearchDescriptions(ctx context.Context, args map[string]any) (any, error) {
	q, err := requiredString(args, "query")
	if err != nil {
		return nil, err
	}
	opts, err := searchOptions(args)
	if err != nil {
		return nil, err
	}
	results, err := r.disc.SearchDescriptions(q, opts)
	if err != nil {
		return nil, err
	}
	return SearchResponse{Query: q, Mode: ModeBM25, Count: len(results), Results: results}, nil
}

// DescribeResponse is returned by describe_tool.
type DescribeResponse struct {
	Name  string           `json:"name"`
	Found bool             `json:"found"`
	Doc   *tooldoc.ToolDoc `json:"doc,omitempty"`
}

func (r *Registry) handleDescribeTool(ctx context.Context, args map[string]any) (any, error) {
	name, err := requiredString(args, "name")
	if err != nil {
		return nil, err
	}
	detail, err := optString(args, "detail")
	if err != nil {
		return nil, err
	}
	level, err := tooldoc.ParseDetailLevel(detail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	doc, err := r.disc.DescribeTool(name, level)
	if err != nil {
		if isNotFound(err) {
			return DescribeResponse{Name: name}, nil
		}
		return nil, err
	}
	return DescribeResponse{Name: name, Found: true, Doc: &doc}, nil
}

// DomainsResponse is returned by list_domains.
type DomainsResponse struct {
	Domains []string       `json:"domains"`
	Counts  map[string]int `json:"counts"`
}

func (r *Registry) handleListDomains(ctx context.Context, args map[string]any) (any, error) {
	domains, err := r.disc.AvailableDomains()
	if err != nil {
		return nil, err
	}
	counts, err := r.disc.ToolCountByDomain()
	if err != nil {
		return nil, err
	}
	return DomainsResponse{Domains: domains, Counts: counts}, nil
}

func (r *Registry) handleSearchResources(ctx context.Context, args map[string]any) (any, error) {
	q, err := requiredString(args, "query")
	if err != nil {
		return nil, err
	}
	limit, err := optInt(args, "limit")
	if err != nil {
		return nil, err
	}
	domains, err := optStrings(args, "domains")
	if err != nil {
		return nil, err
	}
	matches, err := r.disc.SearchConsolidatedResources(q, limit, domains)
	if err != nil {
		return nil, err
	}
	return map[string]any{"query": q, "count": len(matches), "resources": matches}, nil
}

// ResolveResponse is returned by resolve_resource_tool.
type ResolveResponse struct {
	Resource  string            `json:"resource"`
	Operation catalog.Operation `json:"operation"`
	Found     bool              `json:"found"`
	Tool      string            `json:"tool,omitempty"`
}

func (r *Registry) handleResolveResourceTool(ctx context.Context, args map[string]any) (any, error) {
	resource, err := requiredString(args, "resource")
	if err != nil {
		return nil, err
	}
	rawOp, err := requiredString(args, "operation")
	if err != nil {
		return nil, err
	}
	op, ok := catalog.ParseOperation(rawOp)
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidRequest, rawOp)
	}

	resp := ResolveResponse{Resource: resource, Operation: op}
	name, err := r.disc.ResolveConsolidatedTool(resource, op)
	switch {
	case err == nil:
		resp.Found, resp.Tool = true, name
	case !isNotFound(err):
		return nil, err
	}
	return resp, nil
}

func (r *Registry) handleDependencyReport(ctx context.Context, args map[string]any) (any, error) {
	domain, err := requiredString(args, "domain")
	if err != nil {
		return nil, err
	}
	resource, err := requiredString(args, "resource")
	if err != nil {
		return nil, err
	}
	rawMode, err := optString(args, "mode")
	if err != nil {
		return nil, err
	}
	mode, err := dependency.ParseReportMode(rawMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return r.disc.DependencyReport(domain, resource, mode), nil
}

// PlanResponse is returned by resolve_dependencies.
type PlanResponse struct {
	dependency.PlanResult
	Cost *cost.PlanCost `json:"cost,omitempty"`
}

func (r *Registry) handleResolveDependencies(ctx context.Context, args map[string]any) (any, error) {
	var opts dependency.ResolveOptions
	var err error
	if opts.Domain, err = requiredString(args, "domain"); err != nil {
		return nil, err
	}
	if opts.Resource, err = requiredString(args, "resource"); err != nil {
		return nil, err
	}
	if opts.ExistingResources, err = optStrings(args, "existingResources"); err != nil {
		return nil, err
	}
	if opts.IncludeOptional, err = optBool(args, "includeOptional"); err != nil {
		return nil, err
	}
	if opts.MaxDepth, err = optInt(args, "maxDepth"); err != nil {
		return nil, err
	}
	if opts.ExpandAlternatives, err = optBool(args, "expandAlternatives"); err != nil {
		return nil, err
	}
	estimate, err := optBool(args, "estimateCost")
	if err != nil {
		return nil, err
	}

	resp := PlanResponse{PlanResult: r.disc.ResolveDependencies(opts)}
	if estimate && resp.Success {
		pc, err := r.disc.EstimateWorkflowCost(resp.Plan, true)
		if err != nil {
			return nil, err
		}
		resp.Cost = &pc
	}
	return resp, nil
}

func (r *Registry) handleEstimateCost(ctx context.Context, args map[string]any) (any, error) {
	names, err := optStrings(args, "tools")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: tools must list at least one name", ErrInvalidRequest)
	}
	detailed, err := optBool(args, "detailed")
	if err != nil {
		return nil, err
	}
	return r.disc.EstimateMultipleToolsCost(names, detailed)
}

func (r *Registry) handleCatalogStats(ctx context.Context, args map[string]any) (any, error) {
	return r.disc.Stats()
}

func searchOptions(args map[string]any) (discovery.SearchOptions, error) {
	var opts discovery.SearchOptions
	var err error
	if opts.Limit, err = optInt(args, "limit"); err != nil {
		return opts, err
	}
	if opts.Domains, err = optStrings(args, "domains"); err != nil {
		return opts, err
	}
	if opts.Operations, err = optStrings(args, "operations"); err != nil {
		return opts, err
	}
	if v, ok := args["minScore"]; ok && v != nil {
		f, ok := v.(float64)
		if !ok {
			return opts, fmt.Errorf("%w: minScore must be a number", ErrInvalidRequest)
		}
		opts.MinScore = &f
	}
	if opts.ExcludeDangerous, err = optBool(args, "excludeDangerous"); err != nil {
		return opts, err
	}
	if opts.IncludeDependencies, err = optBool(args, "includeDependencies"); err != nil {
		return opts, err
	}
	return opts, nil
}

func requiredString(args map[string]any, key string) (string, error) {
	s, err := optString(args, key)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidRequest, key)
	}
	return s, nil
}
