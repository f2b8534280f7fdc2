package catalog

import (
	"slices"
	"strings"
	"time"
)

// Operation is a CRUD-style action performed against a resource.
type Operation string

const (
	OpCreate Operation = "create"
	OpGet    Operation = "get"
	OpList   Operation = "list"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpPatch  Operation = "patch"
)

// Operations lists every known operation in canonical order.
var Operations = []Operation{OpCreate, OpGet, OpList, OpUpdate, OpDelete, OpPatch}

// CRUDOperations is the set a resource must support to count as full CRUD.
var CRUDOperations = []Operation{OpCreate, OpGet, OpList, OpUpdate, OpDelete}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	return slices.Contains(Operations, o)
}

// Rank returns the position of o in canonical order, or len(Operations) for
// unknown values.
func (o Operation) Rank() int {
	if i := slices.Index(Operations, o); i >= 0 {
		return i
	}
	return len(Operations)
}

// ParseOperation normalizes s and reports whether it names a known operation.
func ParseOperation(s string) (Operation, bool) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	return op, op.Valid()
}

// DangerLevel is a coarse risk classification of an operation.
type DangerLevel string

const (
	DangerLow    DangerLevel = "low"
	DangerMedium DangerLevel = "medium"
	DangerHigh   DangerLevel = "high"
)

// Valid reports whether d is a known danger level.
func (d DangerLevel) Valid() bool {
	switch d {
	case DangerLow, DangerMedium, DangerHigh:
		return true
	}
	return false
}

// Entry is one operation in the catalog. Entries are never mutated after load.
type Entry struct {
	// Name is the unique tool name, e.g. "virtual_http-loadbalancer_create".
	Name        string      `json:"name" yaml:"name"`
	Domain      string      `json:"domain" yaml:"domain"`
	Resource    string      `json:"resource" yaml:"resource"`
	Operation   Operation   `json:"operation" yaml:"operation"`
	Summary     string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	DangerLevel DangerLevel `json:"dangerLevel,omitempty" yaml:"dangerLevel,omitempty"`

	// HTTP shape of the upstream call; informational only.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`

	Tags           []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	InputSchema    map[string]any `json:"inputSchema,omitempty" yaml:"inputSchema,omitempty"`
	Example        map[string]any `json:"example,omitempty" yaml:"example,omitempty"`
	RequiredFields []string       `json:"requiredFields,omitempty" yaml:"requiredFields,omitempty"`
}

// IsDangerous reports whether the entry is classified as high danger.
func (e Entry) IsDangerous() bool {
	return e.DangerLevel == DangerHigh
}

// Metadata is the catalog header.
type Metadata struct {
	Version      string         `json:"version,omitempty" yaml:"version,omitempty"`
	GeneratedAt  time.Time      `json:"generatedAt,omitempty" yaml:"generatedAt,omitempty"`
	TotalTools   int            `json:"totalTools,omitempty" yaml:"totalTools,omitempty"`
	DomainCounts map[string]int `json:"domains,omitempty" yaml:"domains,omitempty"`
}

// Snapshot is a validated, immutable catalog.
type Snapshot struct {
	Metadata Metadata
	entries  []Entry
	byName   map[string]int
}

// Entries returns the catalog entries in load order. The slice is shared;
// callers must not modify it.
func (s *Snapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Lookup returns the entry with the given name.
func (s *Snapshot) Lookup(name string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	i, ok := s.byName[name]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Domains returns the distinct domains in sorted order.
func (s *Snapshot) Domains() []string {
	if s == nil {
		return []string{}
	}
	domains := make([]string, 0, len(s.Metadata.DomainCounts))
	for d := range s.Metadata.DomainCounts {
		domains = append(domains, d)
	}
	slices.Sort(domains)
	return domains
}
