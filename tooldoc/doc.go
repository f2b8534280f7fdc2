// Package tooldoc renders catalog entries as progressive tool documentation.
// It delivers tiered detail (summary, schema, full) so a caller only pulls
// schemas and examples into context when it asks for them. The tool
// descriptor at the schema and full tiers is a toolfoundation [model.Tool],
// ready to hand to an MCP client.
//
// # Documentation Tiers
//
// Summary: A short description (at most MaxSummaryLen bytes) derived from the
// entry summary, or from its operation and resource when the summary is
// empty. No schema, no examples.
//
// Schema: Adds the [model.Tool] with input schema, namespace (the entry's
// domain), normalized tags and MCP annotations, plus derived [SchemaInfo]
// (required fields, defaults, allowed types).
//
// Full: Adds notes (HTTP method and path, danger level, required fields) and
// the entry's example payload when it fits the args caps.
//
// # Annotations
//
// MCP hints are derived from the operation and danger level:
//   - get and list are read-only
//   - delete, and any high danger operation, is destructive
//   - get, list, update and delete are idempotent
//
// # Args Caps
//
// Example payloads are checked before they are included:
//   - MaxArgsDepth (5): Maximum nesting depth for maps/slices
//   - MaxArgsKeys (50): Maximum total size (map keys + slice items)
//
// A payload over either cap is left out and a note says so.
//
// # Error Handling
//
// The package defines one error value, ErrInvalidDetail, for an unknown
// [DetailLevel]. Use errors.Is() to check it.
package tooldoc
