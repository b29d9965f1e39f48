package api

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextsOf(vals ...*string) []Context[string] {
	out := make([]Context[string], len(vals))
	for i, v := range vals {
		out[i] = Context[string]{Token: i, Vertex: v}
	}
	return out
}

func ptr(s string) *string { return &s }

func TestResolvePropertyWith_PairingAndNulls(t *testing.T) {
	contexts := SeqOf(contextsOf(ptr("a"), nil, ptr("c"))...)

	var tokens []any
	var values []Value
	for o := range ResolvePropertyWith(contexts, func(v *string) Value {
		return StringValue(*v + "!")
	}) {
		tokens = append(tokens, o.Ctx.Token)
		values = append(values, o.Value)
	}

	// One outcome per context, in order; vertexless contexts become null.
	assert.Equal(t, []any{0, 1, 2}, tokens)
	require.Len(t, values, 3)
	assert.Equal(t, StringValue("a!"), values[0])
	assert.Equal(t, NullValue(), values[1])
	assert.Equal(t, StringValue("c!"), values[2])
}

func TestResolveNeighborsWith_EmptyForMissingVertex(t *testing.T) {
	contexts := SeqOf(contextsOf(ptr("a"), nil)...)

	var counts []int
	for o := range ResolveNeighborsWith(contexts, func(v *string) iter.Seq[string] {
		return SeqOf(*v, *v)
	}) {
		n := 0
		for range o.Neighbors {
			n++
		}
		counts = append(counts, n)
	}
	assert.Equal(t, []int{2, 0}, counts)
}

func TestResolveCoercionWith_NeverCoercesMissingVertex(t *testing.T) {
	contexts := SeqOf(contextsOf(ptr("a"), nil)...)

	var got []bool
	for o := range ResolveCoercionWith(contexts, func(*string) bool { return true }) {
		got = append(got, o.CanCoerce)
	}
	assert.Equal(t, []bool{true, false}, got)
}

func TestCollectContexts(t *testing.T) {
	in := contextsOf(ptr("a"), ptr("b"))
	out := CollectContexts(SeqOf(in...))
	assert.Equal(t, in, out)

	assert.Nil(t, CollectContexts(EmptySeq[Context[string]]()))
}

func TestSeqOf_Lazy(t *testing.T) {
	seen := 0
	for v := range SeqOf(1, 2, 3) {
		seen++
		if v == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen, "abandoning a sequence part-way is safe")
}

func TestValue_Any(t *testing.T) {
	assert.Nil(t, NullValue().Any())
	assert.Equal(t, true, BooleanValue(true).Any())
	assert.Equal(t, int64(3), IntValue(3).Any())
	assert.Equal(t, 1.5, FloatValue(1.5).Any())
	assert.Equal(t, "s", StringValue("s").Any())
}
