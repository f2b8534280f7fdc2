package dependency

import (
	"fmt"
	"strings"
)

// ReportMode selects the sections of a dependency report.
type ReportMode string

const (
	ModePrerequisites ReportMode = "prerequisites"
	ModeDependents    ReportMode = "dependents"
	ModeOneOf         ReportMode = "oneOf"
	ModeSubscriptions ReportMode = "subscriptions"
	ModeCreationOrder ReportMode = "creationOrder"
	ModeFull          ReportMode = "full"
)

// ReportModes lists every mode.
var ReportModes = []ReportMode{ModePrerequisites, ModeDependents, ModeOneOf, ModeSubscriptions, ModeCreationOrder, ModeFull}

// ParseReportMode matches s case-insensitively. An empty string is ModeFull.
func ParseReportMode(s string) (ReportMode, error) {
	if strings.TrimSpace(s) == "" {
		return ModeFull, nil
	}
	for _, m := range ReportModes {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown report mode %q", s)
}

// Report describes the dependencies of one resource. Sections outside the
// requested mode are empty.
type Report struct {
	Domain        string                    `json:"domain"`
	Resource      string                    `json:"resource"`
	Mode          ReportMode                `json:"mode"`
	Found         bool                      `json:"found"`
	Prerequisites []Requirement             `json:"prerequisites"`
	Dependents    []ResourceRef             `json:"dependents"`
	OneOfGroups   []OneOfGroup              `json:"oneOfGroups"`
	Subscriptions []SubscriptionRequirement `json:"subscriptions"`
	CreationOrder []ResourceRef             `json:"creationOrder"`
}

// Report builds a report for (domain, resource). Unknown resources and
// unknown modes never fail: the former yield empty sections, the latter are
// treated as ModeFull.
func (g *Graph) Report(domain, resource string, mode ReportMode) Report {
	mode, err := ParseReportMode(string(mode))
	if err != nil {
		mode = ModeFull
	}
	r := Report{
		Domain:        domain,
		Resource:      resource,
		Mode:          mode,
		Prerequisites: []Requirement{},
		Dependents:    []ResourceRef{},
		OneOfGroups:   []OneOfGroup{},
		Subscriptions: []SubscriptionRequirement{},
		CreationOrder: []ResourceRef{},
	}
	_, r.Found = g.nodes[Key(domain, resource)]
	if !r.Found {
		return r
	}

	want := func(m ReportMode) bool { return mode == ModeFull || mode == m }
	if want(ModePrerequisites) {
		r.Prerequisites = g.Prerequisites(domain, resource)
	}
	if want(ModeDependents) {
		r.Dependents = g.Dependents(domain, resource)
	}
	if want(ModeOneOf) {
		r.OneOfGroups = g.OneOfGroups(domain, resource)
	}
	if want(ModeSubscriptions) {
		r.Subscriptions = g.SubscriptionRequirements(domain, resource)
	}
	if want(ModeCreationOrder) {
		r.CreationOrder = g.CreationOrder(domain, resource)
	}
	return r
}
