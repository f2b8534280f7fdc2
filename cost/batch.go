package cost

import (
	"time"

	"github.com/jonwraymond/apicatalog/dependency"
	"github.com/shopspring/decimal"
)

// Summary is an aggregated estimate.
type Summary struct {
	ToolCount   int `json:"toolCount"`
	TotalTokens int `json:"totalTokens"`
	// TotalLatency assumes the tools are called one after another.
	TotalLatency time.Duration   `json:"totalLatency"`
	TotalCost    decimal.Decimal `json:"totalCost"`
}

func (s *Summary) add(c ToolCost) {
	s.ToolCount++
	s.TotalTokens += c.Tokens
	s.TotalLatency += c.Latency
	s.TotalCost = s.TotalCost.Add(c.Cost)
}

// BatchCost is the estimate for a list of tools.
type BatchCost struct {
	Summary
	Tools   []ToolCost `json:"tools,omitempty"`
	Unknown []string   `json:"unknown"`
}

// EstimateMany sums the estimates of names. Unknown names are listed rather
// than failing the batch. Repeated names are charged each time. Per-tool
// figures are included only when detailed is set.
func (e *Estimator) EstimateMany(names []string, detailed bool) BatchCost {
	out := BatchCost{Unknown: []string{}}
	for _, name := range names {
		c, ok := e.Estimate(name)
		if !ok {
			out.Unknown = append(out.Unknown, name)
			continue
		}
		out.add(c)
		if detailed {
			out.Tools = append(out.Tools, c)
		}
	}
	return out
}

// ToolResolver maps a plan step to the tool that creates it.
type ToolResolver interface {
	CreateTool(domain, resource string) (string, bool)
}

// ToolResolverFunc adapts a function to ToolResolver.
type ToolResolverFunc func(domain, resource string) (string, bool)

// CreateTool calls f.
func (f ToolResolverFunc) CreateTool(domain, resource string) (string, bool) {
	return f(domain, resource)
}

// StepCost is the estimate for one plan step.
type StepCost struct {
	Order    int      `json:"order"`
	Domain   string   `json:"domain"`
	Resource string   `json:"resource"`
	Cost     ToolCost `json:"cost"`
}

// PlanCost is the estimate for a creation plan.
type PlanCost struct {
	Summary
	PlanID       string     `json:"planId"`
	Steps        []StepCost `json:"steps,omitempty"`
	SkippedSteps int        `json:"skippedSteps"`
	// Unresolved lists "domain/resource" steps with no create tool in the
	// catalog.
	Unresolved []string `json:"unresolved"`
}

// EstimatePlan sums the create tools of the plan's pending steps. Skipped
// steps cost nothing. A nil plan yields an empty estimate.
func (e *Estimator) EstimatePlan(plan *dependency.CreationPlan, tools ToolResolver, detailed bool) PlanCost {
	out := PlanCost{Unresolved: []string{}}
	if plan == nil {
		return out
	}
	out.PlanID = plan.ID
	for _, step := range plan.Steps {
		if step.Skipped {
			out.SkippedSteps++
			continue
		}
		name, ok := tools.CreateTool(step.Domain, step.Resource)
		if !ok {
			out.Unresolved = append(out.Unresolved, step.Ref().String())
			continue
		}
		c, ok := e.Estimate(name)
		if !ok {
			out.Unresolved = append(out.Unresolved, step.Ref().String())
			continue
		}
		out.add(c)
		if detailed {
			out.Steps = append(out.Steps, StepCost{
				Order:    step.Order,
				Domain:   step.Domain,
				Resource: step.Resource,
				Cost:     c,
			})
		}
	}
	return out
}
