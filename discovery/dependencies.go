package discovery

import (
	"fmt"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/cost"
	"github.com/jonwraymond/apicatalog/dependency"
)

// Dependency lookups never build the catalog; the graph is supplied up front.
// Catalog spellings (http-loadbalancer) are mapped to graph spellings
// (http_loadbalancer) when the graph knows the latter.

// DependencyReport answers one report mode for a resource. An unknown
// resource yields a report with empty lists and Found false.
func (d *Discovery) DependencyReport(domain, resource string, mode dependency.ReportMode) dependency.Report {
	return d.graph.Report(domain, graphResource(d.graph, domain, resource), mode)
}

// ResourceDependencies returns the graph node of a resource.
func (d *Discovery) ResourceDependencies(domain, resource string) (*dependency.Node, error) {
	node, ok := lookupNode(d.graph, domain, resource)
	if !ok {
		return nil, fmt.Errorf("%w: resource %s/%s", ErrNotFound, domain, resource)
	}
	return node, nil
}

// PrerequisiteResources returns the direct requirements of a resource.
func (d *Discovery) PrerequisiteResources(domain, resource string) []dependency.Requirement {
	return d.graph.Prerequisites(domain, graphResource(d.graph, domain, resource))
}

// CreationOrder returns the resources to create, prerequisites first, ending
// with the resource itself.
func (d *Discovery) CreationOrder(domain, resource string) []dependency.ResourceRef {
	return d.graph.CreationOrder(domain, graphResource(d.graph, domain, resource))
}

// DependentResources returns the resources that require this one.
func (d *Discovery) DependentResources(domain, resource string) []dependency.ResourceRef {
	return d.graph.Dependents(domain, graphResource(d.graph, domain, resource))
}

// OneOfGroups returns the mutually exclusive option groups of a resource.
func (d *Discovery) OneOfGroups(domain, resource string) []dependency.OneOfGroup {
	return d.graph.OneOfGroups(domain, graphResource(d.graph, domain, resource))
}

// SubscriptionRequirements returns the add-ons a resource needs.
func (d *Discovery) SubscriptionRequirements(domain, resource string) []dependency.SubscriptionRequirement {
	return d.graph.SubscriptionRequirements(domain, graphResource(d.graph, domain, resource))
}

// DependencyStats summarizes the dependency graph.
func (d *Discovery) DependencyStats() dependency.Stats {
	return d.graph.Stats()
}

// DependencyDomains returns the sorted domains of the dependency graph.
func (d *Discovery) DependencyDomains() []string {
	return d.graph.Domains()
}

// ResourcesInDomain returns the sorted graph resources of a domain.
func (d *Discovery) ResourcesInDomain(domain string) []string {
	return d.graph.ResourcesInDomain(domain)
}

// ResolveDependencies builds a creation plan. Failures are reported in the
// result, never as an error. The target and existing resources may use
// catalog spelling.
func (d *Discovery) ResolveDependencies(opts dependency.ResolveOptions) dependency.PlanResult {
	opts.Resource = graphResource(d.graph, opts.Domain, opts.Resource)
	opts.ExistingResources = existingResources(d.graph, opts.ExistingResources)
	return d.graph.Resolve(opts)
}

// EstimateToolCost estimates the cost of one tool call.
func (d *Discovery) EstimateToolCost(name string, detailed bool) (cost.ToolCost, error) {
	st, err := d.state()
	if err != nil {
		return cost.ToolCost{}, err
	}
	c, ok := st.estimator.Estimate(name)
	if !ok {
		return cost.ToolCost{}, fmt.Errorf("%w: tool %q", ErrNotFound, name)
	}
	if !detailed {
		c.Breakdown = nil
	}
	return c, nil
}

// EstimateMultipleToolsCost estimates a batch of tool calls. Unknown names are
// listed in the result rather than failing the batch.
func (d *Discovery) EstimateMultipleToolsCost(names []string, detailed bool) (cost.BatchCost, error) {
	st, err := d.state()
	if err != nil {
		return cost.BatchCost{}, err
	}
	return st.estimator.EstimateMany(names, detailed), nil
}

// EstimateWorkflowCost estimates executing a creation plan, one create call
// per pending step.
func (d *Discovery) EstimateWorkflowCost(plan *dependency.CreationPlan, detailed bool) (cost.PlanCost, error) {
	st, err := d.state()
	if err != nil {
		return cost.PlanCost{}, err
	}
	tools := cost.ToolResolverFunc(func(domain, resource string) (string, bool) {
		r, ok := st.resources.Find(domain, resource)
		if !ok {
			return "", false
		}
		return st.resources.Resolve(r.ID, catalog.OpCreate)
	})
	return st.estimator.EstimatePlan(plan, tools, detailed), nil
}
