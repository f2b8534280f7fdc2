package dependency

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxDepth bounds plan traversal when ResolveOptions.MaxDepth is zero.
const DefaultMaxDepth = 10

// Plan error codes.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeMaxDepthExceeded = "MAX_DEPTH_EXCEEDED"
)

// planNamespace scopes plan IDs.
var planNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("apicatalog/creation-plan"))

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	Domain   string `json:"domain"`
	Resource string `json:"resource"`

	// ExistingResources are skipped along with their prerequisites. Entries
	// are "domain/resource" or a bare resource name matching any domain.
	ExistingResources []string `json:"existingResources,omitempty"`

	// IncludeOptional follows edges not marked required.
	IncludeOptional bool `json:"includeOptional,omitempty"`

	// MaxDepth bounds the traversal. Default: 10
	MaxDepth int `json:"maxDepth,omitempty"`

	// ExpandAlternatives adds a branch per one-of option that names a resource.
	ExpandAlternatives bool `json:"expandAlternatives,omitempty"`
}

// PlanStep is one resource in a creation plan.
type PlanStep struct {
	Order         int                       `json:"order"`
	Domain        string                    `json:"domain"`
	Resource      string                    `json:"resource"`
	Depth         int                       `json:"depth"`
	Optional      bool                      `json:"optional"`
	Skipped       bool                      `json:"skipped"`
	RequiredBy    string                    `json:"requiredBy,omitempty"`
	InGraph       bool                      `json:"inGraph"`
	OneOfGroups   []OneOfGroup              `json:"oneOfGroups,omitempty"`
	Subscriptions []SubscriptionRequirement `json:"subscriptions,omitempty"`
}

// Ref returns the step's resource.
func (s PlanStep) Ref() ResourceRef {
	return ResourceRef{Domain: s.Domain, ResourceType: s.Resource}
}

// AlternativeBranch is one option of a one-of group.
type AlternativeBranch struct {
	For         ResourceRef   `json:"for"`
	ChoiceField string        `json:"choiceField"`
	Option      string        `json:"option"`
	Steps       []ResourceRef `json:"steps"`
	Error       string        `json:"error,omitempty"`
}

// CreationPlan is an ordered list of resources to create.
type CreationPlan struct {
	ID            string                    `json:"id"`
	Target        ResourceRef               `json:"target"`
	Steps         []PlanStep                `json:"steps"`
	Alternatives  []AlternativeBranch       `json:"alternatives,omitempty"`
	Subscriptions []SubscriptionRequirement `json:"subscriptions"`
	Warnings      []string                  `json:"warnings,omitempty"`
	MaxDepth      int                       `json:"maxDepth"`
	TotalSteps    int                       `json:"totalSteps"`
	SkippedSteps  int                       `json:"skippedSteps"`
}

// PendingSteps returns the steps that still need to be created.
func (p *CreationPlan) PendingSteps() []PlanStep {
	out := []PlanStep{}
	for _, s := range p.Steps {
		if !s.Skipped {
			out = append(out, s)
		}
	}
	return out
}

// PlanError explains why no plan could be produced.
type PlanError struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Depth      int      `json:"depth,omitempty"`
	Path       []string `json:"path,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

func (e *PlanError) Error() string {
	return e.Code + ": " + e.Message
}

// PlanResult is either a plan or an error.
type PlanResult struct {
	Success bool          `json:"success"`
	Plan    *CreationPlan `json:"plan,omitempty"`
	Error   *PlanError    `json:"error,omitempty"`
}

type planner struct {
	g        *Graph
	opts     ResolveOptions
	maxDepth int
	existing map[string]bool
	anyExist map[string]bool

	steps    []PlanStep
	placed   map[string]int
	onPath   []string
	warnings []string
}

// Resolve builds a creation plan for opts.Resource. Resources unknown to the
// graph are planned as leaves. Identical options yield identical plans.
func (g *Graph) Resolve(opts ResolveOptions) PlanResult {
	if strings.TrimSpace(opts.Domain) == "" || strings.TrimSpace(opts.Resource) == "" {
		return PlanResult{Error: &PlanError{
			Code:    CodeInvalidRequest,
			Message: "domain and resource are required",
		}}
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	p := &planner{
		g:        g,
		opts:     opts,
		maxDepth: maxDepth,
		existing: map[string]bool{},
		anyExist: map[string]bool{},
		placed:   map[string]int{},
	}
	for _, e := range opts.ExistingResources {
		if domain, resource, ok := strings.Cut(e, "/"); ok {
			p.existing[Key(domain, resource)] = true
		} else {
			p.anyExist[strings.ToLower(strings.TrimSpace(e))] = true
		}
	}

	target := g.canonical(ResourceRef{Domain: opts.Domain, ResourceType: opts.Resource})
	if _, ok := g.nodes[target.Key()]; !ok {
		p.warnings = append(p.warnings, fmt.Sprintf("%s is not in the dependency graph; prerequisites unknown", target))
	}
	if perr := p.visit(target, 0, false, ""); perr != nil {
		return PlanResult{Error: perr}
	}

	plan := &CreationPlan{
		ID:            planID(opts, maxDepth),
		Target:        target,
		Steps:         p.steps,
		Subscriptions: []SubscriptionRequirement{},
		Warnings:      p.warnings,
		MaxDepth:      maxDepth,
		TotalSteps:    len(p.steps),
	}
	seenAddon := map[string]bool{}
	for i := range plan.Steps {
		plan.Steps[i].Order = i + 1
		if plan.Steps[i].Skipped {
			plan.SkippedSteps++
			continue
		}
		for _, sub := range plan.Steps[i].Subscriptions {
			if !seenAddon[sub.AddonServiceID] {
				seenAddon[sub.AddonServiceID] = true
				plan.Subscriptions = append(plan.Subscriptions, sub)
			}
		}
	}
	if opts.ExpandAlternatives {
		plan.Alternatives = p.alternatives(plan)
	}
	return PlanResult{Success: true, Plan: plan}
}

func (p *planner) isExisting(ref ResourceRef) bool {
	return p.existing[ref.Key()] || p.anyExist[strings.ToLower(ref.ResourceType)]
}

func (p *planner) visit(ref ResourceRef, depth int, optional bool, parent string) *PlanError {
	key := ref.Key()
	if _, ok := p.placed[key]; ok {
		if !optional {
			p.promote(key, map[string]bool{})
		}
		return nil
	}
	if slices.Contains(p.onPath, key) {
		p.warnings = append(p.warnings, fmt.Sprintf("dependency cycle: %s -> %s", strings.Join(p.onPath, " -> "), key))
		return nil
	}

	node, inGraph := p.g.nodes[key]
	step := PlanStep{
		Domain:     ref.Domain,
		Resource:   ref.ResourceType,
		Depth:      depth,
		Optional:   optional,
		RequiredBy: parent,
		InGraph:    inGraph,
	}
	if inGraph {
		step.OneOfGroups = cloneNode(*node).OneOfGroups
		step.Subscriptions = slices.Clone(node.SubscriptionRequirements)
	}
	if p.isExisting(ref) {
		step.Skipped = true
		p.place(key, step)
		return nil
	}

	if inGraph {
		edges := p.edges(node)
		if depth >= p.maxDepth && p.unresolved(edges) {
			path := append(slices.Clone(p.onPath), key)
			return &PlanError{
				Code:       CodeMaxDepthExceeded,
				Message:    fmt.Sprintf("%s still has prerequisites at depth %d (max %d)", ref, depth, p.maxDepth),
				Depth:      depth,
				Path:       path,
				Suggestion: "retry with maxDepth " + strconv.Itoa(p.maxDepth*2),
			}
		}
		p.onPath = append(p.onPath, key)
		for _, req := range edges {
			child := p.g.canonical(req.Ref())
			if err := p.visit(child, depth+1, optional || !req.Required, key); err != nil {
				return err
			}
		}
		p.onPath = p.onPath[:len(p.onPath)-1]
	}

	p.place(key, step)
	return nil
}

// unresolved reports whether any edge leads to a resource that is neither
// existing nor already planned.
func (p *planner) unresolved(edges []Requirement) bool {
	for _, req := range edges {
		child := p.g.canonical(req.Ref())
		if _, ok := p.placed[child.Key()]; ok {
			continue
		}
		if p.isExisting(child) || slices.Contains(p.onPath, child.Key()) {
			continue
		}
		return true
	}
	return false
}

func (p *planner) edges(n *Node) []Requirement {
	if p.opts.IncludeOptional {
		return n.Requires
	}
	out := make([]Requirement, 0, len(n.Requires))
	for _, r := range n.Requires {
		if r.Required {
			out = append(out, r)
		}
	}
	return out
}

// promote marks a placed step and its required prerequisites as required.
func (p *planner) promote(key string, seen map[string]bool) {
	i, ok := p.placed[key]
	if !ok || seen[key] || !p.steps[i].Optional {
		return
	}
	seen[key] = true
	p.steps[i].Optional = false
	if node, ok := p.g.nodes[key]; ok && !p.steps[i].Skipped {
		for _, req := range node.Requires {
			if req.Required {
				p.promote(req.Ref().Key(), seen)
			}
		}
	}
}

func (p *planner) place(key string, step PlanStep) {
	p.placed[key] = len(p.steps)
	p.steps = append(p.steps, step)
}

// alternatives expands one-of options that name a resource of the same domain
// into the extra steps that option would need beyond the main plan.
func (p *planner) alternatives(plan *CreationPlan) []AlternativeBranch {
	inPlan := make([]string, 0, len(plan.Steps)+len(p.opts.ExistingResources))
	inPlan = append(inPlan, p.opts.ExistingResources...)
	for _, s := range plan.Steps {
		inPlan = append(inPlan, s.Ref().String())
	}

	out := []AlternativeBranch{}
	for _, s := range plan.Steps {
		if s.Skipped {
			continue
		}
		for _, grp := range s.OneOfGroups {
			for _, opt := range grp.Options {
				ref := p.g.canonical(ResourceRef{Domain: s.Domain, ResourceType: opt})
				if _, ok := p.g.nodes[ref.Key()]; !ok {
					continue
				}
				branch := AlternativeBranch{
					For:         s.Ref(),
					ChoiceField: grp.ChoiceField,
					Option:      opt,
					Steps:       []ResourceRef{},
				}
				sub := p.g.Resolve(ResolveOptions{
					Domain:            ref.Domain,
					Resource:          ref.ResourceType,
					ExistingResources: inPlan,
					IncludeOptional:   p.opts.IncludeOptional,
					MaxDepth:          max(p.maxDepth-s.Depth-1, 1),
				})
				if !sub.Success {
					branch.Error = sub.Error.Message
				} else {
					for _, st := range sub.Plan.Steps {
						if !st.Skipped {
							branch.Steps = append(branch.Steps, st.Ref())
						}
					}
				}
				out = append(out, branch)
			}
		}
	}
	return out
}

func planID(opts ResolveOptions, maxDepth int) string {
	existing := make([]string, len(opts.ExistingResources))
	for i, e := range opts.ExistingResources {
		existing[i] = strings.ToLower(strings.TrimSpace(e))
	}
	slices.Sort(existing)
	name := strings.Join([]string{
		Key(opts.Domain, opts.Resource),
		strings.Join(existing, ","),
		strconv.FormatBool(opts.IncludeOptional),
		strconv.Itoa(maxDepth),
		strconv.FormatBool(opts.ExpandAlternatives),
	}, "|")
	return uuid.NewSHA1(planNamespace, []byte(name)).String()
}
