// Package state defines persistence-facing contracts for loading and saving
// per-scope registry snapshots, plus a small resolver that orchestrates scope
// loading and delegates layering/provenance to the core variant primitives.
//
// Responsibilities:
//   - Store[K, V] only loads/saves a single snapshot (map[K]V) for a single Ref.
//   - Resolver[K, V] loads snapshots for multiple scopes and merges them by
//     constructing variant.Layer[K, V] + variant.Stack[K, V] over a closed
//     tag set.
//   - The core variant package remains persistence-agnostic; all persistence
//     logic stays behind Store implementations supplied by consumers.
//
// Data flow:
//
//	Store -> Resolver -> variant.NewStack(...).Merge(set, ...) -> *variant.Resolver[K, V]
//
// Provenance:
//
//	Meta.SnapshotID is mapped onto variant.Layer[K, V].SnapshotID (via
//	variant.WithSnapshotID), which is then observable through
//	Resolver.Explain(...) and (when enabled) SchemaDocument.Scopes.
//
// Deterministic keys:
//
//	Ref.Identifier() maps the scope name onto a layering.ScopeLevel and
//	delegates slug composition to layering.Scope.Identifier, so storage keys
//	follow the unified scope model (`system/tenant/org/team/user`) everywhere.
package state
