// Package api defines the contract between tessera's data backends and the
// graph query engine: the engine's scalar value representation, the batched
// context stream, and the four resolution operations every backend must
// implement. The engine drives these operations; backends never call back
// into the engine.
package api

import (
	"fmt"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBoolean
	KindInt
	KindFloat
	KindString
)

// Value is the engine's scalar value representation. It is a closed tagged
// union: exactly one variant is meaningful, selected by Kind.
type Value struct {
	Kind    ValueKind
	Boolean bool
	Int     int64
	Float   float64
	Str     string
}

func NullValue() Value           { return Value{Kind: KindNull} }
func BooleanValue(b bool) Value  { return Value{Kind: KindBoolean, Boolean: b} }
func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// AsString returns the string variant, reporting whether the value holds one.
func (v Value) AsString() (string, bool) {
	return v.Str, v.Kind == KindString
}

// Any returns the value as a plain Go value, suitable for JSON rendering.
func (v Value) Any() any {
	switch v.Kind {
	case KindBoolean:
		return v.Boolean
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(v.Boolean)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	default:
		return fmt.Sprintf("Value(kind=%d)", int(v.Kind))
	}
}
