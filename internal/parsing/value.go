// Package parsing loads tessera's user-authored documents: versioned kind
// definitions and timestamped records, both written in HCL. All parse and
// validation failures are hcl.Diagnostics carrying the source range of the
// offending token.
package parsing

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueInt
	ValueFloat
	ValueString
)

// Value is a record field's scalar value: boolean, integer, float, string,
// or null. Closed variant set; records never hold structured values.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

func NullVal() Value           { return Value{Kind: ValueNull} }
func BoolVal(b bool) Value     { return Value{Kind: ValueBool, Bool: b} }
func IntVal(i int64) Value     { return Value{Kind: ValueInt, Int: i} }
func FloatVal(f float64) Value { return Value{Kind: ValueFloat, Float: f} }
func StringVal(s string) Value { return Value{Kind: ValueString, Str: s} }

// AsString returns the string variant, reporting whether the value holds one.
func (v Value) AsString() (string, bool) {
	return v.Str, v.Kind == ValueString
}

// Any returns the value as a plain Go value, suitable for JSON rendering.
func (v Value) Any() any {
	switch v.Kind {
	case ValueBool:
		return v.Bool
	case ValueInt:
		return v.Int
	case ValueFloat:
		return v.Float
	case ValueString:
		return v.Str
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueNull:
		return "null"
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueString:
		return strconv.Quote(v.Str)
	default:
		return fmt.Sprintf("Value(kind=%d)", int(v.Kind))
	}
}

// fromCty converts an evaluated HCL expression into a scalar Value.
// Structured values (lists, objects) are rejected: record fields are
// scalars only.
func fromCty(v cty.Value) (Value, error) {
	if v.IsNull() {
		return NullVal(), nil
	}
	switch v.Type() {
	case cty.String:
		return StringVal(v.AsString()), nil
	case cty.Bool:
		return BoolVal(v.True()), nil
	case cty.Number:
		return numberVal(v.AsBigFloat()), nil
	default:
		return Value{}, fmt.Errorf("expected a scalar value, got %s", v.Type().FriendlyName())
	}
}

// numberVal keeps integers as integers: HCL has a single number type, but
// records distinguish the two scalar kinds.
func numberVal(f *big.Float) Value {
	if f.IsInt() {
		if i, acc := f.Int64(); acc == big.Exact {
			return IntVal(i)
		}
	}
	out, _ := f.Float64()
	return FloatVal(out)
}
