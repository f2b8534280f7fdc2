package query

import "github.com/jonwraymond/apicatalog/catalog"

// DependencyHint describes what must exist before a resource can be created.
type DependencyHint struct {
	// Prerequisites lists required resources as "domain/resource".
	Prerequisites []string `json:"prerequisites"`

	// Optional lists optional prerequisites as "domain/resource".
	Optional []string `json:"optional,omitempty"`

	// OneOfFields lists the choice fields of mutually exclusive option groups.
	OneOfFields []string `json:"oneOfFields,omitempty"`

	// Subscriptions lists add-on services that must be enabled.
	Subscriptions []string `json:"subscriptions,omitempty"`
}

// HintProvider returns a dependency hint for an entry, or nil when nothing is
// known about it.
type HintProvider interface {
	DependencyHint(entry catalog.Entry) *DependencyHint
}

// HintFunc adapts a function to HintProvider.
type HintFunc func(entry catalog.Entry) *DependencyHint

// DependencyHint calls f.
func (f HintFunc) DependencyHint(entry catalog.Entry) *DependencyHint {
	return f(entry)
}
