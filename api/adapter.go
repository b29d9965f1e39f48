package api

import "iter"

// EdgeParameters carries the engine-supplied arguments of a parameterized
// edge. Edges without parameters receive an empty map.
type EdgeParameters map[string]Value

// Context pairs an opaque engine token with the vertex currently being
// resolved. Vertex is nil when the engine has no active vertex for the
// token (an @optional traversal that produced nothing).
//
// Contexts arrive as a single-pass stream; every resolution operation must
// return its outcomes in the same order and 1:1 with the input.
type Context[V any] struct {
	Token  any
	Vertex *V
}

// PropertyOutcome pairs an input context with its resolved property value.
type PropertyOutcome[V any] struct {
	Ctx   Context[V]
	Value Value
}

// NeighborOutcome pairs an input context with the lazy sequence of its
// neighbors along the requested edge.
type NeighborOutcome[V any] struct {
	Ctx       Context[V]
	Neighbors iter.Seq[V]
}

// CoercionOutcome pairs an input context with whether its vertex can be
// coerced to the requested type.
type CoercionOutcome[V any] struct {
	Ctx       Context[V]
	CanCoerce bool
}

// Adapter is the complete surface the query engine calls. All sequences are
// lazy, single-pass, and finite; abandoning one part-way is always safe.
//
// Requests for names the synthesized schema does not declare are contract
// violations and panic: they indicate schema/resolver desynchronization,
// not bad user input.
type Adapter[V any] interface {
	// ResolveStartingVertices enumerates the vertices of a root entry point.
	ResolveStartingVertices(edgeName string) iter.Seq[V]

	// ResolveProperty resolves one property for each context, preserving
	// input order and pairing.
	ResolveProperty(contexts iter.Seq[Context[V]], typeName, propertyName string) iter.Seq[PropertyOutcome[V]]

	// ResolveNeighbors resolves one neighbor sequence for each context,
	// preserving input order and pairing.
	ResolveNeighbors(contexts iter.Seq[Context[V]], typeName, edgeName string, params EdgeParameters) iter.Seq[NeighborOutcome[V]]

	// ResolveCoercion reports, for each context, whether its vertex is of
	// (or a declared subtype of) the requested type.
	ResolveCoercion(contexts iter.Seq[Context[V]], typeName, coerceToType string) iter.Seq[CoercionOutcome[V]]
}

// ResolvePropertyWith adapts a per-vertex resolver into the batched form.
// Contexts without an active vertex resolve to null.
func ResolvePropertyWith[V any](contexts iter.Seq[Context[V]], resolve func(*V) Value) iter.Seq[PropertyOutcome[V]] {
	return func(yield func(PropertyOutcome[V]) bool) {
		for ctx := range contexts {
			value := NullValue()
			if ctx.Vertex != nil {
				value = resolve(ctx.Vertex)
			}
			if !yield(PropertyOutcome[V]{Ctx: ctx, Value: value}) {
				return
			}
		}
	}
}

// ResolveNeighborsWith adapts a per-vertex resolver into the batched form.
// Contexts without an active vertex resolve to an empty neighbor sequence.
func ResolveNeighborsWith[V any](contexts iter.Seq[Context[V]], resolve func(*V) iter.Seq[V]) iter.Seq[NeighborOutcome[V]] {
	return func(yield func(NeighborOutcome[V]) bool) {
		for ctx := range contexts {
			neighbors := EmptySeq[V]()
			if ctx.Vertex != nil {
				neighbors = resolve(ctx.Vertex)
			}
			if !yield(NeighborOutcome[V]{Ctx: ctx, Neighbors: neighbors}) {
				return
			}
		}
	}
}

// ResolveCoercionWith adapts a per-vertex resolver into the batched form.
// Contexts without an active vertex never coerce.
func ResolveCoercionWith[V any](contexts iter.Seq[Context[V]], resolve func(*V) bool) iter.Seq[CoercionOutcome[V]] {
	return func(yield func(CoercionOutcome[V]) bool) {
		for ctx := range contexts {
			can := false
			if ctx.Vertex != nil {
				can = resolve(ctx.Vertex)
			}
			if !yield(CoercionOutcome[V]{Ctx: ctx, CanCoerce: can}) {
				return
			}
		}
	}
}

// CollectContexts materializes a single-pass context stream. Composition
// layers that must both inspect and forward the stream use this to keep the
// original tokens available for re-zipping.
func CollectContexts[V any](contexts iter.Seq[Context[V]]) []Context[V] {
	var out []Context[V]
	for ctx := range contexts {
		out = append(out, ctx)
	}
	return out
}

// SeqOf returns a lazy sequence over the given items.
func SeqOf[V any](items ...V) iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

// EmptySeq returns a sequence that yields nothing.
func EmptySeq[V any]() iter.Seq[V] {
	return func(func(V) bool) {}
}
