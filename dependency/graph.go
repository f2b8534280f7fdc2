package dependency

import (
	"slices"
	"strings"
	"time"
)

// ResourceRef identifies a resource in the graph.
type ResourceRef struct {
	Domain       string `json:"domain" yaml:"domain"`
	ResourceType string `json:"resourceType" yaml:"resourceType"`
}

// Key returns the normalized "domain/resource" key.
func (r ResourceRef) Key() string {
	return Key(r.Domain, r.ResourceType)
}

func (r ResourceRef) String() string {
	return r.Domain + "/" + r.ResourceType
}

// Key returns the normalized graph key of a (domain, resource) pair.
func Key(domain, resource string) string {
	return strings.ToLower(strings.TrimSpace(domain)) + "/" + strings.ToLower(strings.TrimSpace(resource))
}

// Requirement is an outgoing requires edge.
type Requirement struct {
	Domain       string `json:"domain" yaml:"domain"`
	ResourceType string `json:"resourceType" yaml:"resourceType"`
	Required     bool   `json:"required" yaml:"required"`
	FieldPath    string `json:"fieldPath,omitempty" yaml:"fieldPath,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Ref returns the required resource.
func (r Requirement) Ref() ResourceRef {
	return ResourceRef{Domain: r.Domain, ResourceType: r.ResourceType}
}

// OneOfGroup is a set of mutually exclusive configuration fields.
type OneOfGroup struct {
	ChoiceField string   `json:"choiceField" yaml:"choiceField"`
	Options     []string `json:"options" yaml:"options"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// SubscriptionRequirement is an add-on that must be enabled before creation.
type SubscriptionRequirement struct {
	AddonServiceID string `json:"addonServiceId" yaml:"addonServiceId"`
	DisplayName    string `json:"displayName" yaml:"displayName"`
	Tier           string `json:"tier,omitempty" yaml:"tier,omitempty"`
}

// Node is one resource of the graph.
type Node struct {
	Resource                 string                    `json:"resource" yaml:"resource"`
	Domain                   string                    `json:"domain" yaml:"domain"`
	Requires                 []Requirement             `json:"requires" yaml:"requires"`
	RequiredBy               []ResourceRef             `json:"requiredBy" yaml:"requiredBy"`
	OneOfGroups              []OneOfGroup              `json:"oneOfGroups" yaml:"oneOfGroups"`
	SubscriptionRequirements []SubscriptionRequirement `json:"subscriptionRequirements" yaml:"subscriptionRequirements"`
}

// Ref returns the node's identity.
func (n Node) Ref() ResourceRef {
	return ResourceRef{Domain: n.Domain, ResourceType: n.Resource}
}

// Graph is an immutable dependency graph.
type Graph struct {
	Version     string
	GeneratedAt time.Time

	nodes map[string]*Node
	keys  []string // sorted
}

// NewGraph builds a graph from nodes. requiredBy edges are completed from the
// requires lists of every node; declared reverse edges are kept. A node
// appearing twice replaces the earlier one.
func NewGraph(version string, generatedAt time.Time, nodes []Node) *Graph {
	g := &Graph{
		Version:     version,
		GeneratedAt: generatedAt,
		nodes:       make(map[string]*Node, len(nodes)),
	}
	for _, n := range nodes {
		n := cloneNode(n)
		g.nodes[n.Ref().Key()] = &n
	}
	for k := range g.nodes {
		g.keys = append(g.keys, k)
	}
	slices.Sort(g.keys)

	for _, k := range g.keys {
		n := g.nodes[k]
		for _, req := range n.Requires {
			target, ok := g.nodes[req.Ref().Key()]
			if !ok {
				continue
			}
			if !containsRef(target.RequiredBy, n.Ref()) {
				target.RequiredBy = append(target.RequiredBy, n.Ref())
			}
		}
	}
	return g
}

func cloneNode(n Node) Node {
	n.Requires = slices.Clone(n.Requires)
	n.RequiredBy = slices.Clone(n.RequiredBy)
	n.OneOfGroups = slices.Clone(n.OneOfGroups)
	for i := range n.OneOfGroups {
		n.OneOfGroups[i].Options = slices.Clone(n.OneOfGroups[i].Options)
	}
	n.SubscriptionRequirements = slices.Clone(n.SubscriptionRequirements)
	return n
}

func containsRef(refs []ResourceRef, r ResourceRef) bool {
	return slices.ContainsFunc(refs, func(x ResourceRef) bool {
		return x.Key() == r.Key()
	})
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.keys)
}

// Node returns a copy of the node for (domain, resource).
func (g *Graph) Node(domain, resource string) (*Node, bool) {
	n, ok := g.nodes[Key(domain, resource)]
	if !ok {
		return nil, false
	}
	c := cloneNode(*n)
	return &c, true
}

// Prerequisites returns the direct requires edges of a resource.
func (g *Graph) Prerequisites(domain, resource string) []Requirement {
	n, ok := g.nodes[Key(domain, resource)]
	if !ok {
		return []Requirement{}
	}
	return nonNil(slices.Clone(n.Requires))
}

// Dependents returns the resources that require a resource.
func (g *Graph) Dependents(domain, resource string) []ResourceRef {
	n, ok := g.nodes[Key(domain, resource)]
	if !ok {
		return []ResourceRef{}
	}
	return nonNil(slices.Clone(n.RequiredBy))
}

// OneOfGroups returns the one-of groups of a resource.
func (g *Graph) OneOfGroups(domain, resource string) []OneOfGroup {
	n, ok := g.nodes[Key(domain, resource)]
	if !ok {
		return []OneOfGroup{}
	}
	return nonNil(cloneNode(*n).OneOfGroups)
}

// SubscriptionRequirements returns the add-ons a resource needs.
func (g *Graph) SubscriptionRequirements(domain, resource string) []SubscriptionRequirement {
	n, ok := g.nodes[Key(domain, resource)]
	if !ok {
		return []SubscriptionRequirement{}
	}
	return nonNil(slices.Clone(n.SubscriptionRequirements))
}

// CreationOrder returns the transitive prerequisites of a resource followed by
// the resource itself, dependencies before dependents. Every requires edge is
// followed, optional or not. Each resource appears once; cycles are cut at the
// first revisited node. Unknown resources yield an empty list.
func (g *Graph) CreationOrder(domain, resource string) []ResourceRef {
	root, ok := g.nodes[Key(domain, resource)]
	if !ok {
		return []ResourceRef{}
	}

	type frame struct {
		ref  ResourceRef
		next int
	}
	visited := map[string]bool{root.Ref().Key(): true}
	stack := []frame{{ref: root.Ref()}}
	order := []ResourceRef{}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if n, ok := g.nodes[top.ref.Key()]; ok && top.next < len(n.Requires) {
			child := n.Requires[top.next].Ref()
			top.next++
			if visited[child.Key()] {
				continue
			}
			visited[child.Key()] = true
			stack = append(stack, frame{ref: g.canonical(child)})
			continue
		}
		order = append(order, top.ref)
		stack = stack[:len(stack)-1]
	}
	return order
}

// canonical returns the node's own spelling of ref when the node is known.
func (g *Graph) canonical(ref ResourceRef) ResourceRef {
	if n, ok := g.nodes[ref.Key()]; ok {
		return n.Ref()
	}
	return ref
}

// Domains returns the distinct domains in sorted order.
func (g *Graph) Domains() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, k := range g.keys {
		d := g.nodes[k].Domain
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out
}

// ResourcesInDomain returns the resources of domain (case-insensitive) in
// sorted order.
func (g *Graph) ResourcesInDomain(domain string) []string {
	out := []string{}
	for _, k := range g.keys {
		n := g.nodes[k]
		if strings.EqualFold(n.Domain, domain) {
			out = append(out, n.Resource)
		}
	}
	slices.Sort(out)
	return out
}

// Stats summarizes the graph.
type Stats struct {
	TotalResources     int       `json:"totalResources"`
	TotalDependencies  int       `json:"totalDependencies"`
	TotalOneOfGroups   int       `json:"totalOneOfGroups"`
	TotalSubscriptions int       `json:"totalSubscriptions"`
	DistinctAddons     int       `json:"distinctAddons"`
	AddonServices      []string  `json:"addonServices"`
	TotalDomains       int       `json:"totalDomains"`
	Version            string    `json:"version"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

// Stats computes aggregate counts.
func (g *Graph) Stats() Stats {
	s := Stats{
		TotalResources: len(g.keys),
		AddonServices:  []string{},
		TotalDomains:   len(g.Domains()),
		Version:        g.Version,
		GeneratedAt:    g.GeneratedAt,
	}
	addons := map[string]bool{}
	for _, k := range g.keys {
		n := g.nodes[k]
		s.TotalDependencies += len(n.Requires)
		s.TotalOneOfGroups += len(n.OneOfGroups)
		s.TotalSubscriptions += len(n.SubscriptionRequirements)
		for _, sub := range n.SubscriptionRequirements {
			if !addons[sub.AddonServiceID] {
				addons[sub.AddonServiceID] = true
				s.AddonServices = append(s.AddonServices, sub.AddonServiceID)
			}
		}
	}
	slices.Sort(s.AddonServices)
	s.DistinctAddons = len(s.AddonServices)
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
