package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestFromCty_Scalars(t *testing.T) {
	cases := []struct {
		in   cty.Value
		want Value
	}{
		{cty.StringVal("hello"), StringVal("hello")},
		{cty.BoolVal(true), BoolVal(true)},
		{cty.NumberIntVal(42), IntVal(42)},
		{cty.NumberFloatVal(2.5), FloatVal(2.5)},
		{cty.NullVal(cty.String), NullVal()},
	}
	for _, tc := range cases {
		got, err := fromCty(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestFromCty_IntegersStayIntegers(t *testing.T) {
	// HCL has one number type; whole numbers must come back as ints.
	got, err := fromCty(cty.NumberFloatVal(7))
	require.NoError(t, err)
	assert.Equal(t, ValueInt, got.Kind)
	assert.Equal(t, int64(7), got.Int)
}

func TestFromCty_RejectsStructured(t *testing.T) {
	_, err := fromCty(cty.ListVal([]cty.Value{cty.StringVal("a")}))
	assert.Error(t, err)

	_, err = fromCty(cty.ObjectVal(map[string]cty.Value{"k": cty.StringVal("v")}))
	assert.Error(t, err)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "null", NullVal().String())
	assert.Equal(t, "true", BoolVal(true).String())
	assert.Equal(t, "42", IntVal(42).String())
	assert.Equal(t, "2.5", FloatVal(2.5).String())
	assert.Equal(t, `"hi"`, StringVal("hi").String())
}
