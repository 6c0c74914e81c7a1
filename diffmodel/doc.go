// Package diffmodel computes, serializes, parses, applies, reverses, and
// three-way-merges semantic deltas between two versions of a structured
// model: a collection of typed components, each identified by a stable
// UUID, plus model-wide settings.
//
// The package has no knowledge of any particular model file format. It
// sees a model only through four capability interfaces supplied by an
// adapter: Table (component enumeration and lookup), Accessor (reading
// and writing one property on a host), ComponentType (the schema of one
// kind of component), and Value (a typed, textually representable
// reading of a property). Everything else — the property/value/delta
// algebra, the dependency-ordered diff resolver, the line-oriented patch
// grammar, application, inversion, and three-way merge — lives here and
// is independent of the adapter.
//
// Patch format
//
// The textual patch format is inspired by unified diff:
//
//	--- older-file-description
//	+++ newer-file-description
//	<TAB>ModelProperty: old -> new
//	@@ ~TypeName 8-4-4-4-12-uuid @@
//	<TAB>PropertyName: old -> new
//	@@ +TypeName 8-4-4-4-12-uuid @@
//	<TAB>PropertyName: value
//
// Components appear in the order additions, modifications, deletions. A
// Modification with no changed properties is never written.
package diffmodel
