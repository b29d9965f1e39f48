package adapter

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/tessera/api"
	"github.com/agentic-research/tessera/internal/schema"
)

func testRouter(t *testing.T) (*Router, *Core) {
	t.Helper()
	core := testCore(t)
	r := NewRouter()
	require.NoError(t, r.Register("core", Bind[Vertex](core, core.Schema())))
	return r, core
}

func TestRouter_RegisterValidation(t *testing.T) {
	core := testCore(t)
	binding := Bind[Vertex](core, core.Schema())

	r := NewRouter()
	assert.Error(t, r.Register("", binding))
	assert.Error(t, r.Register("has__separator", binding))

	require.NoError(t, r.Register("core", binding))
	assert.Error(t, r.Register("core", binding), "duplicate names are rejected")
}

func TestRouter_MergedSchema(t *testing.T) {
	r, _ := testRouter(t)
	merged := r.Schema()

	assert.True(t, merged.HasType("core__p_task"))
	assert.True(t, merged.HasType("core__Directory"))
	assert.False(t, merged.HasType("p_task"))

	ep, ok := merged.EntryPoint("core__Records")
	require.True(t, ok)
	assert.Equal(t, "[core__Record!]!", ep.Type)
}

func TestRouter_TwoBackends(t *testing.T) {
	a := testCore(t)
	b := testCore(t)

	r := NewRouter()
	require.NoError(t, r.Register("a", Bind[Vertex](a, a.Schema())))
	require.NoError(t, r.Register("b", Bind[Vertex](b, b.Schema())))

	assert.True(t, r.Schema().HasType("a__p_task"))
	assert.True(t, r.Schema().HasType("b__p_task"))

	vertices := collect(r.ResolveStartingVertices("b__Records_task"))
	require.Len(t, vertices, 2)
	assert.Equal(t, "b", vertices[0].Backend)
}

func TestRouter_StartingVertices(t *testing.T) {
	r, _ := testRouter(t)

	vertices := collect(r.ResolveStartingVertices("core__Records"))
	require.Len(t, vertices, 3)
	for _, v := range vertices {
		assert.Equal(t, "core", v.Backend)
		_, ok := v.Inner.(Vertex)
		assert.True(t, ok)
	}
}

func TestRouter_DispatchPanics(t *testing.T) {
	r, _ := testRouter(t)

	assert.Panics(t, func() { r.ResolveStartingVertices("Records") }, "no separator")
	assert.Panics(t, func() { r.ResolveStartingVertices("other__Records") }, "unregistered prefix")
}

func routedContexts(backend string, vertices ...*Vertex) iter.Seq[api.Context[RoutedVertex]] {
	out := make([]api.Context[RoutedVertex], len(vertices))
	for i, v := range vertices {
		out[i] = api.Context[RoutedVertex]{Token: i * 10}
		if v != nil {
			out[i].Vertex = &RoutedVertex{Backend: backend, Inner: *v}
		}
	}
	return api.SeqOf(out...)
}

func TestRouter_PropertyRezip(t *testing.T) {
	r, _ := testRouter(t)

	recs := fixtureRecords()
	v0 := RecordVertex(recs[0])
	v2 := RecordVertex(recs[2])

	// A vertexless context in the middle must keep its slot and its token.
	outs := collect(r.ResolveProperty(
		routedContexts("core", &v0, nil, &v2), "core__p_task", "status"))
	require.Len(t, outs, 3)

	assert.Equal(t, 0, outs[0].Ctx.Token)
	assert.Equal(t, 10, outs[1].Ctx.Token)
	assert.Equal(t, 20, outs[2].Ctx.Token)

	assert.Equal(t, api.StringValue("open"), outs[0].Value)
	assert.Equal(t, api.NullValue(), outs[1].Value)
	assert.Equal(t, api.StringValue("done"), outs[2].Value)

	// The original routed contexts come back, wrapper intact.
	require.NotNil(t, outs[0].Ctx.Vertex)
	assert.Equal(t, "core", outs[0].Ctx.Vertex.Backend)
}

func TestRouter_TypenameReprefixed(t *testing.T) {
	r, _ := testRouter(t)

	v := RecordVertex(fixtureRecords()[0])
	outs := collect(r.ResolveProperty(
		routedContexts("core", &v, nil), "core__Record", "__typename"))
	require.Len(t, outs, 2)
	assert.Equal(t, api.StringValue("core__p_task"), outs[0].Value)
	assert.Equal(t, api.NullValue(), outs[1].Value, "null typenames stay null")
}

func TestRouter_Neighbors(t *testing.T) {
	r, _ := testRouter(t)

	dir := DirectoryVertex("/records")
	outs := collect(r.ResolveNeighbors(
		routedContexts("core", &dir), "core__Directory", "Children", nil))
	require.Len(t, outs, 1)

	children := collect(outs[0].Neighbors)
	require.Len(t, children, 2)
	assert.Equal(t, "core", children[0].Backend)
	_, ok := children[0].Inner.(Vertex)
	assert.True(t, ok)
}

func TestRouter_Coercion(t *testing.T) {
	r, _ := testRouter(t)

	task := RecordVertex(fixtureRecords()[0])
	workout := RecordVertex(fixtureRecords()[1])

	outs := collect(r.ResolveCoercion(
		routedContexts("core", &task, &workout), "core__Record", "core__p_task"))
	require.Len(t, outs, 2)
	assert.True(t, outs[0].CanCoerce)
	assert.False(t, outs[1].CanCoerce)
}

func TestRouter_CrossBackendCoercionPanics(t *testing.T) {
	a := testCore(t)
	b := testCore(t)
	r := NewRouter()
	require.NoError(t, r.Register("a", Bind[Vertex](a, a.Schema())))
	require.NoError(t, r.Register("b", Bind[Vertex](b, b.Schema())))

	v := RecordVertex(fixtureRecords()[0])
	assert.Panics(t, func() {
		r.ResolveCoercion(routedContexts("a", &v), "a__Record", "b__p_task")
	})
}

func TestRouter_ForeignVertexPanics(t *testing.T) {
	a := testCore(t)
	b := testCore(t)
	r := NewRouter()
	require.NoError(t, r.Register("a", Bind[Vertex](a, a.Schema())))
	require.NoError(t, r.Register("b", Bind[Vertex](b, b.Schema())))

	v := RecordVertex(fixtureRecords()[0])
	assert.Panics(t, func() {
		collect(r.ResolveProperty(routedContexts("b", &v), "a__p_task", "status"))
	})
}

// shortChangingBinding deliberately violates the resolution contract by
// dropping the last outcome.
type shortChangingBinding struct {
	inner Binding
}

func (s shortChangingBinding) Schema() *schema.Schema { return s.inner.Schema() }

func (s shortChangingBinding) ResolveStartingVertices(edgeName string) iter.Seq[any] {
	return s.inner.ResolveStartingVertices(edgeName)
}

func (s shortChangingBinding) ResolveProperty(contexts []api.Context[any], typeName, propertyName string) iter.Seq[api.PropertyOutcome[any]] {
	outs := s.inner.ResolveProperty(contexts, typeName, propertyName)
	return func(yield func(api.PropertyOutcome[any]) bool) {
		emitted := 0
		for o := range outs {
			if emitted == len(contexts)-1 {
				return
			}
			if !yield(o) {
				return
			}
			emitted++
		}
	}
}

func (s shortChangingBinding) ResolveNeighbors(contexts []api.Context[any], typeName, edgeName string, params api.EdgeParameters) iter.Seq[api.NeighborOutcome[any]] {
	return s.inner.ResolveNeighbors(contexts, typeName, edgeName, params)
}

func (s shortChangingBinding) ResolveCoercion(contexts []api.Context[any], typeName, coerceToType string) iter.Seq[api.CoercionOutcome[any]] {
	return s.inner.ResolveCoercion(contexts, typeName, coerceToType)
}

func TestRouter_OutcomeCountMismatchPanics(t *testing.T) {
	core := testCore(t)
	r := NewRouter()
	require.NoError(t, r.Register("core",
		shortChangingBinding{inner: Bind[Vertex](core, core.Schema())}))

	v0 := RecordVertex(fixtureRecords()[0])
	v2 := RecordVertex(fixtureRecords()[2])
	assert.Panics(t, func() {
		collect(r.ResolveProperty(routedContexts("core", &v0, &v2), "core__p_task", "status"))
	})
}
