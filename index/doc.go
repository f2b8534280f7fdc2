// Package index implements the inverted search index over a catalog.
//
// An [Index] is built once from a list of [catalog.Entry] values and never
// mutated afterwards. Building tokenizes each entry's name, resource, domain
// and summary and fills three lookup tables:
//
//   - term → entry ids
//   - domain → entry ids
//   - operation → entry ids
//
// plus a reverse id → entry table. Ids are listed in catalog order and every id
// referenced by a lookup table resolves through [Index.Entry]. Rebuilding from
// the same entries yields identical tables.
//
// # Tokenizing
//
// [Tokenize] lower-cases text, turns separators into spaces, drops every other
// non-alphanumeric rune, splits on whitespace and discards tokens shorter than
// the minimum term length (default 2):
//
//	index.Tokenize("virtual_http-loadbalancer_create", 2)
//	// [virtual http loadbalancer create]
//
// # Matching
//
// [Search] scores entries against query terms. An exact term hit contributes
// 1.0. Without an exact hit, and with fuzzy matching enabled, every index term
// that the query term prefixes contributes 0.8 and every index term within the
// maximum edit distance d contributes 1-d/(max+1). Contributions accumulate
// additively across query terms, including repeated ones.
//
// Fuzzy matching scans the sorted term list, skipping terms whose length
// differs from the query term by more than the maximum distance.
//
// # Thread Safety
//
// An Index is read-only after [Build] and safe for concurrent readers.
package index
