// Package catalog defines the immutable operation catalog consumed by the
// search, consolidation, dependency and cost packages.
//
// A catalog is a flat list of [Entry] values plus a small [Metadata] header
// with per-domain counts. It is loaded once through a [Loader] and treated as
// a read-only snapshot for the lifetime of the process.
//
// # Loading
//
// Catalogs are read from JSON or YAML files:
//
//	snap, err := catalog.NewFileLoader("catalog.json").Load()
//	if err != nil {
//	    // the file is corrupt: fail fast
//	}
//
// or supplied directly:
//
//	snap, err := catalog.NewStaticLoader(entries).Load()
//
// # Validation
//
// Every entry must carry a name, domain, resource and a known operation.
// Danger level defaults to low when omitted; any other unknown value is
// rejected. Names must be unique. Violations are reported as
// [*ValidationError] values wrapping [ErrInvalidEntry]; all violations found in
// one load are joined together.
//
// Loading is the only place this module fails hard on bad input. Lookups by
// name, domain or resource elsewhere return empty results instead.
package catalog
