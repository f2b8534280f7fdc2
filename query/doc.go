// Package query ranks catalog entries for a free-text query.
//
// An [Engine] wraps an [index.Index]. [Engine.Search] tokenizes the query the
// same way the index tokenizes entries, scores candidates with [index.Search],
// normalizes by the number of query terms, filters, boosts and truncates:
//
//	eng := query.NewEngine(idx, query.EngineOptions{})
//	results := eng.Search("http load balancer", query.Options{Limit: 5})
//
// # Boosts
//
// Boosts multiply the normalized score in this order:
//
//   - ×1.2 when the entry's domain contains the first query token
//   - ×1.3 when an operation keyword in the query names the entry's operation
//   - ×1.4 when the entry's resource contains the whole query
//
// Final scores are clamped to 1.0.
//
// Operation keywords are checked in a fixed priority order and the first
// keyword present in the query decides the operation: create (create, add,
// new, make), delete (delete, remove, destroy), update (update, modify, edit,
// change), patch, list (list, all, enumerate), get (get, show, describe, read,
// fetch, view).
//
// # Filters
//
// Domain and operation allow-lists are intersected. ExcludeDangerous drops
// high danger entries. MinScore (default 0.1) is applied to the final score.
//
// # Ordering
//
// Results are sorted by score descending; ties keep catalog order.
package query
