package catalog

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Error values for catalog loading.
var (
	ErrInvalidEntry    = errors.New("invalid catalog entry")
	ErrDuplicateName   = errors.New("duplicate tool name")
	ErrMetadata        = errors.New("catalog metadata mismatch")
	ErrUnsupportedFile = errors.New("unsupported catalog file type")
)

// ValidationError describes one entry that failed validation.
type ValidationError struct {
	Index  int
	Name   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("entry %d (%s): %s: %s", e.Index, e.Name, e.Field, e.Reason)
	}
	return fmt.Sprintf("entry %d: %s: %s", e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEntry
}

// NewSnapshot validates entries and returns an immutable snapshot.
// Entries with an empty danger level are stored as DangerLow.
// If meta declares domain counts they must match the entries.
func NewSnapshot(entries []Entry, meta Metadata) (*Snapshot, error) {
	var errs []error
	out := make([]Entry, len(entries))
	byName := make(map[string]int, len(entries))
	counts := make(map[string]int)

	for i, e := range entries {
		if e.DangerLevel == "" {
			e.DangerLevel = DangerLow
		}
		if verr := validateEntry(i, e); verr != nil {
			errs = append(errs, verr...)
			continue
		}
		if prev, dup := byName[e.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %q at entries %d and %d", ErrDuplicateName, e.Name, prev, i))
			continue
		}
		byName[e.Name] = i
		counts[e.Domain]++
		out[i] = e
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if len(meta.DomainCounts) > 0 && !maps.Equal(meta.DomainCounts, counts) {
		return nil, fmt.Errorf("%w: declared domain counts %v, found %v", ErrMetadata, meta.DomainCounts, counts)
	}
	if meta.TotalTools != 0 && meta.TotalTools != len(out) {
		return nil, fmt.Errorf("%w: declared %d tools, found %d", ErrMetadata, meta.TotalTools, len(out))
	}
	meta.DomainCounts = counts
	meta.TotalTools = len(out)

	return &Snapshot{Metadata: meta, entries: out, byName: byName}, nil
}

func validateEntry(i int, e Entry) []error {
	var errs []error
	fail := func(field, reason string) {
		errs = append(errs, &ValidationError{Index: i, Name: e.Name, Field: field, Reason: reason})
	}
	if strings.TrimSpace(e.Name) == "" {
		fail("name", "required")
	}
	if strings.TrimSpace(e.Domain) == "" {
		fail("domain", "required")
	}
	if strings.TrimSpace(e.Resource) == "" {
		fail("resource", "required")
	}
	if !e.Operation.Valid() {
		fail("operation", fmt.Sprintf("unknown operation %q", e.Operation))
	}
	if !e.DangerLevel.Valid() {
		fail("dangerLevel", fmt.Sprintf("unknown danger level %q", e.DangerLevel))
	}
	return errs
}
