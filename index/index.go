package index

import (
	"slices"
	"strings"
	"time"

	"github.com/jonwraymond/apicatalog/catalog"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// MinTermLength drops shorter tokens. Default: 2
	MinTermLength int
}

// Index is an immutable inverted index over catalog entries.
type Index struct {
	terms      map[string][]string
	domains    map[string][]string
	operations map[string][]string

	entries  map[string]catalog.Entry
	order    []string
	ordinal  map[string]int
	termList []string

	minTermLength int
	termsPerEntry int
	fingerprint   string
	builtAt       time.Time
}

// Build indexes entries. Entry names are used as ids; a later entry with a
// name already seen is ignored.
func Build(entries []catalog.Entry, opts BuildOptions) *Index {
	minLen := opts.MinTermLength
	if minLen <= 0 {
		minLen = DefaultMinTermLength
	}

	idx := &Index{
		terms:         make(map[string][]string),
		domains:       make(map[string][]string),
		operations:    make(map[string][]string),
		entries:       make(map[string]catalog.Entry, len(entries)),
		order:         make([]string, 0, len(entries)),
		ordinal:       make(map[string]int, len(entries)),
		minTermLength: minLen,
	}

	for _, e := range entries {
		id := e.Name
		if _, exists := idx.entries[id]; exists {
			continue
		}
		idx.entries[id] = e
		idx.ordinal[id] = len(idx.order)
		idx.order = append(idx.order, id)

		tokens := dedupe(Tokenize(entryText(e), minLen))
		idx.termsPerEntry += len(tokens)
		for _, tok := range tokens {
			idx.terms[tok] = append(idx.terms[tok], id)
		}

		domain := strings.ToLower(e.Domain)
		idx.domains[domain] = append(idx.domains[domain], id)
		op := strings.ToLower(string(e.Operation))
		idx.operations[op] = append(idx.operations[op], id)
	}

	idx.termList = make([]string, 0, len(idx.terms))
	for t := range idx.terms {
		idx.termList = append(idx.termList, t)
	}
	slices.Sort(idx.termList)

	idx.fingerprint = computeFingerprint(entries)
	idx.builtAt = time.Now()
	return idx
}

func entryText(e catalog.Entry) string {
	return strings.Join([]string{e.Name, e.Resource, e.Domain, e.Summary}, " ")
}

// Terms returns the term table. The map is shared and must not be modified.
func (idx *Index) Terms() map[string][]string { return idx.terms }

// Domains returns the domain table, keyed by lower-cased domain.
func (idx *Index) Domains() map[string][]string { return idx.domains }

// Operations returns the operation table.
func (idx *Index) Operations() map[string][]string { return idx.operations }

// TermList returns all indexed terms in sorted order.
func (idx *Index) TermList() []string { return idx.termList }

// MinTermLength returns the minimum token length used at build time.
func (idx *Index) MinTermLength() int { return idx.minTermLength }

// Len returns the number of indexed entries.
func (idx *Index) Len() int { return len(idx.order) }

// Entry returns the entry with the given id.
func (idx *Index) Entry(id string) (catalog.Entry, bool) {
	e, ok := idx.entries[id]
	return e, ok
}

// Entries returns all entries in catalog order.
func (idx *Index) Entries() []catalog.Entry {
	out := make([]catalog.Entry, len(idx.order))
	for i, id := range idx.order {
		out[i] = idx.entries[id]
	}
	return out
}

// IDs returns all entry ids in catalog order.
func (idx *Index) IDs() []string { return idx.order }

// Ordinal returns the catalog position of id, or -1.
func (idx *Index) Ordinal(id string) int {
	if o, ok := idx.ordinal[id]; ok {
		return o
	}
	return -1
}

// Fingerprint returns a stable hash of the indexed entries.
func (idx *Index) Fingerprint() string { return idx.fingerprint }

// BuiltAt returns the build time.
func (idx *Index) BuiltAt() time.Time { return idx.builtAt }

// FilterByDomain returns the ids of entries in any of the given domains,
// compared case-insensitively, in catalog order. No domains yields no ids.
func FilterByDomain(idx *Index, domains []string) []string {
	return filter(idx, idx.domains, domains)
}

// FilterByOperation returns the ids of entries with any of the given
// operations, in catalog order. No operations yields no ids.
func FilterByOperation(idx *Index, operations []string) []string {
	return filter(idx, idx.operations, operations)
}

func filter(idx *Index, table map[string][]string, values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, id := range table[strings.ToLower(strings.TrimSpace(v))] {
			seen[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b string) int {
		return idx.ordinal[a] - idx.ordinal[b]
	})
	return out
}

// Stats summarizes an index.
type Stats struct {
	TotalEntries     int           `json:"totalEntries"`
	TotalTerms       int           `json:"totalTerms"`
	TotalDomains     int           `json:"totalDomains"`
	TotalOperations  int           `json:"totalOperations"`
	AvgTermsPerEntry float64       `json:"avgTermsPerEntry"`
	BuiltAt          time.Time     `json:"builtAt"`
	Age              time.Duration `json:"age"`
	Fingerprint      string        `json:"fingerprint"`
}

// GetStats derives statistics from idx.
func GetStats(idx *Index) Stats {
	s := Stats{
		TotalEntries:    len(idx.order),
		TotalTerms:      len(idx.terms),
		TotalDomains:    len(idx.domains),
		TotalOperations: len(idx.operations),
		BuiltAt:         idx.builtAt,
		Age:             time.Since(idx.builtAt),
		Fingerprint:     idx.fingerprint,
	}
	if s.TotalEntries > 0 {
		s.AvgTermsPerEntry = float64(idx.termsPerEntry) / float64(s.TotalEntries)
	}
	return s
}
