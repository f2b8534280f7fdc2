// Package consolidate groups catalog entries into CRUD-capable resources.
//
// Every (domain, resource) pair becomes one [Resource] that lists the
// operations observed for it and the tools implementing each operation. A
// resource is full CRUD when it supports create, get, list, update and delete.
//
// Consolidated resources let a caller reason about one logical entity instead
// of N separate operations; [Index.Resolve] maps a (resource, operation) pair
// back to the concrete tool name.
package consolidate
