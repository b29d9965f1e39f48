package adapter

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/agentic-research/tessera/api"
	"github.com/agentic-research/tessera/internal/schema"
)

// Separator joins a backend name to the names of its schema. Backend names
// must not contain it, so splitting on the first occurrence is unambiguous.
const Separator = "__"

// RoutedVertex tags a backend's vertex with the backend it came from, so the
// router can send follow-up resolutions back to the right place.
type RoutedVertex struct {
	Backend string
	Inner   any
}

// Binding is the vertex-erased view of one backend: its schema plus the four
// resolution operations over boxed vertices. Produced by Bind.
type Binding interface {
	Schema() *schema.Schema
	ResolveStartingVertices(edgeName string) iter.Seq[any]
	ResolveProperty(contexts []api.Context[any], typeName, propertyName string) iter.Seq[api.PropertyOutcome[any]]
	ResolveNeighbors(contexts []api.Context[any], typeName, edgeName string, params api.EdgeParameters) iter.Seq[api.NeighborOutcome[any]]
	ResolveCoercion(contexts []api.Context[any], typeName, coerceToType string) iter.Seq[api.CoercionOutcome[any]]
}

// Bind erases the vertex type of a backend adapter so backends with
// different vertex types can share one router.
func Bind[V any](adapter api.Adapter[V], sch *schema.Schema) Binding {
	return bound[V]{adapter: adapter, schema: sch}
}

type bound[V any] struct {
	adapter api.Adapter[V]
	schema  *schema.Schema
}

func (b bound[V]) Schema() *schema.Schema {
	return b.schema
}

func (b bound[V]) ResolveStartingVertices(edgeName string) iter.Seq[any] {
	inner := b.adapter.ResolveStartingVertices(edgeName)
	return func(yield func(any) bool) {
		for v := range inner {
			if !yield(v) {
				return
			}
		}
	}
}

func (b bound[V]) ResolveProperty(contexts []api.Context[any], typeName, propertyName string) iter.Seq[api.PropertyOutcome[any]] {
	outcomes := b.adapter.ResolveProperty(b.unbox(contexts), typeName, propertyName)
	return func(yield func(api.PropertyOutcome[any]) bool) {
		for o := range outcomes {
			if !yield(api.PropertyOutcome[any]{Ctx: rebox(o.Ctx), Value: o.Value}) {
				return
			}
		}
	}
}

func (b bound[V]) ResolveNeighbors(contexts []api.Context[any], typeName, edgeName string, params api.EdgeParameters) iter.Seq[api.NeighborOutcome[any]] {
	outcomes := b.adapter.ResolveNeighbors(b.unbox(contexts), typeName, edgeName, params)
	return func(yield func(api.NeighborOutcome[any]) bool) {
		for o := range outcomes {
			neighbors := o.Neighbors
			boxed := func(yield func(any) bool) {
				for v := range neighbors {
					if !yield(any(v)) {
						return
					}
				}
			}
			if !yield(api.NeighborOutcome[any]{Ctx: rebox(o.Ctx), Neighbors: boxed}) {
				return
			}
		}
	}
}

func (b bound[V]) ResolveCoercion(contexts []api.Context[any], typeName, coerceToType string) iter.Seq[api.CoercionOutcome[any]] {
	outcomes := b.adapter.ResolveCoercion(b.unbox(contexts), typeName, coerceToType)
	return func(yield func(api.CoercionOutcome[any]) bool) {
		for o := range outcomes {
			if !yield(api.CoercionOutcome[any]{Ctx: rebox(o.Ctx), CanCoerce: o.CanCoerce}) {
				return
			}
		}
	}
}

// unbox narrows erased contexts back to the backend's vertex type. A boxed
// vertex of the wrong dynamic type means the router misrouted, so the type
// assertion is allowed to panic.
func (b bound[V]) unbox(contexts []api.Context[any]) iter.Seq[api.Context[V]] {
	return func(yield func(api.Context[V]) bool) {
		for _, ctx := range contexts {
			typed := api.Context[V]{Token: ctx.Token}
			if ctx.Vertex != nil {
				v := (*ctx.Vertex).(V)
				typed.Vertex = &v
			}
			if !yield(typed) {
				return
			}
		}
	}
}

func rebox[V any](ctx api.Context[V]) api.Context[any] {
	out := api.Context[any]{Token: ctx.Token}
	if ctx.Vertex != nil {
		v := any(*ctx.Vertex)
		out.Vertex = &v
	}
	return out
}

// Router composes independently-authored backends into one adapter. Each
// backend's schema is namespaced under "<name>__" and the merged schema is
// served as a whole; every resolution splits the requested name on the first
// separator and forwards the remainder to the owning backend.
type Router struct {
	names    []string
	backends map[string]Binding
	prefixed []*schema.Schema
	merged   *schema.Schema
}

var _ api.Adapter[RoutedVertex] = (*Router)(nil)

// NewRouter returns an empty router. Backends are added with Register.
func NewRouter() *Router {
	return &Router{backends: make(map[string]Binding)}
}

// Register adds a backend under the given name. Names must be non-empty,
// separator-free, and unique. The merged schema is rebuilt eagerly so name
// collisions surface at registration, not at query time.
func (r *Router) Register(name string, backend Binding) error {
	if name == "" {
		return errors.New("backend name must not be empty")
	}
	if strings.Contains(name, Separator) {
		return fmt.Errorf("backend name %q must not contain %q", name, Separator)
	}
	if _, dup := r.backends[name]; dup {
		return fmt.Errorf("backend %q already registered", name)
	}

	prefixed := backend.Schema().Prefixed(name + Separator)
	merged, err := schema.Merge(append(append([]*schema.Schema{}, r.prefixed...), prefixed)...)
	if err != nil {
		return fmt.Errorf("merging schema of backend %q: %w", name, err)
	}

	r.names = append(r.names, name)
	r.backends[name] = backend
	r.prefixed = append(r.prefixed, prefixed)
	r.merged = merged
	return nil
}

// Schema returns the merged, namespaced schema over all registered backends.
func (r *Router) Schema() *schema.Schema {
	if r.merged == nil {
		r.merged, _ = schema.Merge()
	}
	return r.merged
}

// route splits a namespaced name into its owning backend and the backend's
// local name. Names without a registered prefix are contract violations.
func (r *Router) route(name string) (Binding, string, string) {
	idx := strings.Index(name, Separator)
	if idx < 0 {
		contractViolation("name %q carries no backend prefix", name)
	}
	backendName, local := name[:idx], name[idx+len(Separator):]
	backend, ok := r.backends[backendName]
	if !ok {
		contractViolation("name %q routes to unregistered backend %q", name, backendName)
	}
	return backend, backendName, local
}

// unwrap materializes the context stream and strips the routing layer,
// keeping positional tokens so outcomes can be re-zipped with the original
// contexts afterwards. A vertex tagged with a different backend means the
// engine confused two namespaces, which is a contract violation.
func unwrap(backendName string, contexts []api.Context[RoutedVertex]) []api.Context[any] {
	inner := make([]api.Context[any], len(contexts))
	for i, ctx := range contexts {
		inner[i] = api.Context[any]{Token: i}
		if ctx.Vertex != nil {
			if ctx.Vertex.Backend != backendName {
				contractViolation("vertex from backend %q resolved against backend %q", ctx.Vertex.Backend, backendName)
			}
			v := ctx.Vertex.Inner
			inner[i].Vertex = &v
		}
	}
	return inner
}

func (r *Router) ResolveStartingVertices(edgeName string) iter.Seq[RoutedVertex] {
	backend, backendName, local := r.route(edgeName)
	inner := backend.ResolveStartingVertices(local)
	return func(yield func(RoutedVertex) bool) {
		for v := range inner {
			if !yield(RoutedVertex{Backend: backendName, Inner: v}) {
				return
			}
		}
	}
}

func (r *Router) ResolveProperty(contexts iter.Seq[api.Context[RoutedVertex]], typeName, propertyName string) iter.Seq[api.PropertyOutcome[RoutedVertex]] {
	backend, backendName, localType := r.route(typeName)
	originals := api.CollectContexts(contexts)
	outcomes := backend.ResolveProperty(unwrap(backendName, originals), localType, propertyName)

	// __typename comes back in the backend's namespace; re-prefix it so the
	// result names a type of the merged schema.
	prefixTypename := propertyName == "__typename"

	return func(yield func(api.PropertyOutcome[RoutedVertex]) bool) {
		i := 0
		for o := range outcomes {
			if i >= len(originals) {
				contractViolation("backend %q produced more property outcomes than contexts", backendName)
			}
			value := o.Value
			if prefixTypename && value.Kind == api.KindString {
				value = api.StringValue(backendName + Separator + value.Str)
			}
			if !yield(api.PropertyOutcome[RoutedVertex]{Ctx: originals[i], Value: value}) {
				return
			}
			i++
		}
		if i != len(originals) {
			contractViolation("backend %q produced %d property outcomes for %d contexts", backendName, i, len(originals))
		}
	}
}

func (r *Router) ResolveNeighbors(contexts iter.Seq[api.Context[RoutedVertex]], typeName, edgeName string, params api.EdgeParameters) iter.Seq[api.NeighborOutcome[RoutedVertex]] {
	backend, backendName, localType := r.route(typeName)
	originals := api.CollectContexts(contexts)
	outcomes := backend.ResolveNeighbors(unwrap(backendName, originals), localType, edgeName, params)

	return func(yield func(api.NeighborOutcome[RoutedVertex]) bool) {
		i := 0
		for o := range outcomes {
			if i >= len(originals) {
				contractViolation("backend %q produced more neighbor outcomes than contexts", backendName)
			}
			neighbors := o.Neighbors
			wrapped := func(yield func(RoutedVertex) bool) {
				for v := range neighbors {
					if !yield(RoutedVertex{Backend: backendName, Inner: v}) {
						return
					}
				}
			}
			if !yield(api.NeighborOutcome[RoutedVertex]{Ctx: originals[i], Neighbors: wrapped}) {
				return
			}
			i++
		}
		if i != len(originals) {
			contractViolation("backend %q produced %d neighbor outcomes for %d contexts", backendName, i, len(originals))
		}
	}
}

func (r *Router) ResolveCoercion(contexts iter.Seq[api.Context[RoutedVertex]], typeName, coerceToType string) iter.Seq[api.CoercionOutcome[RoutedVertex]] {
	backend, backendName, localType := r.route(typeName)
	_, targetName, localTarget := r.route(coerceToType)
	if targetName != backendName {
		contractViolation("coercion from %q to %q crosses backends", typeName, coerceToType)
	}

	originals := api.CollectContexts(contexts)
	outcomes := backend.ResolveCoercion(unwrap(backendName, originals), localType, localTarget)

	return func(yield func(api.CoercionOutcome[RoutedVertex]) bool) {
		i := 0
		for o := range outcomes {
			if i >= len(originals) {
				contractViolation("backend %q produced more coercion outcomes than contexts", backendName)
			}
			if !yield(api.CoercionOutcome[RoutedVertex]{Ctx: originals[i], CanCoerce: o.CanCoerce}) {
				return
			}
			i++
		}
		if i != len(originals) {
			contractViolation("backend %q produced %d coercion outcomes for %d contexts", backendName, i, len(originals))
		}
	}
}
