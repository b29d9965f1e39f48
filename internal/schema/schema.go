// Package schema turns the loaded definition set into the type-system
// description the graph query engine consumes: deterministic schema text
// plus a queryable model of entry points and the subtype relation.
package schema

import (
	"fmt"
	"strings"
)

// EntryPoint is a named root the engine may start enumerating from.
type EntryPoint struct {
	Name string
	Type string
	// RecordKind is set for the per-kind record roots, empty otherwise.
	RecordKind string
}

// Field is one property or edge of a schema type. Type is a type expression
// such as "String!" or "[Path!]!".
type Field struct {
	Name string
	Type string
}

// Type is one named type in the synthesized schema.
type Type struct {
	Name       string
	Interface  bool
	Implements []string
	Fields     []Field
}

// Schema is the synthesized type system: entry points, types, and the
// subtype relation derived from interface implementations. Built once at
// startup, immutable afterwards.
type Schema struct {
	entryPoints []EntryPoint
	types       []Type
	byName      map[string]int
	subtypes    map[string]map[string]struct{}
}

// New assembles a Schema from entry points and types, deriving the subtype
// relation. The relation is reflexive: every type is a subtype of itself.
func New(entryPoints []EntryPoint, types []Type) *Schema {
	s := &Schema{
		entryPoints: entryPoints,
		types:       types,
		byName:      make(map[string]int, len(types)),
		subtypes:    make(map[string]map[string]struct{}, len(types)),
	}
	for i, t := range types {
		s.byName[t.Name] = i
		s.addSubtype(t.Name, t.Name)
		for _, iface := range t.Implements {
			s.addSubtype(iface, t.Name)
		}
	}
	return s
}

func (s *Schema) addSubtype(parent, child string) {
	set, ok := s.subtypes[parent]
	if !ok {
		set = make(map[string]struct{})
		s.subtypes[parent] = set
	}
	set[child] = struct{}{}
}

// EntryPoints returns the registered roots in declaration order.
func (s *Schema) EntryPoints() []EntryPoint {
	return s.entryPoints
}

// EntryPoint looks up a root by name.
func (s *Schema) EntryPoint(name string) (EntryPoint, bool) {
	for _, ep := range s.entryPoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return EntryPoint{}, false
}

// HasType reports whether the schema declares the named type.
func (s *Schema) HasType(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Type looks up a declared type by name.
func (s *Schema) Type(name string) (Type, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return Type{}, false
	}
	return s.types[idx], true
}

// Types returns every declared type in declaration order.
func (s *Schema) Types() []Type {
	return s.types
}

// Subtypes returns the set of type names coercible to the named type,
// including the type itself. Nil for names the schema does not declare.
func (s *Schema) Subtypes(name string) map[string]struct{} {
	if !s.HasType(name) {
		return nil
	}
	return s.subtypes[name]
}

// Text renders the schema as schema-description text for the engine's own
// parser. Rendering is deterministic: identical inputs produce
// byte-identical output, because some deployments cache the parsed schema
// keyed only by a load-order-independent identity.
func (s *Schema) Text() string {
	var b strings.Builder

	b.WriteString("schema {\n  query: RootSchemaQuery\n}\n\n")
	b.WriteString(directiveDefinitions)
	b.WriteString("\n")

	b.WriteString("type RootSchemaQuery {\n")
	for _, ep := range s.entryPoints {
		fmt.Fprintf(&b, "  %s: %s\n", ep.Name, ep.Type)
	}
	b.WriteString("}\n")

	for _, t := range s.types {
		b.WriteString("\n")
		keyword := "type"
		if t.Interface {
			keyword = "interface"
		}
		fmt.Fprintf(&b, "%s %s", keyword, t.Name)
		if len(t.Implements) > 0 {
			fmt.Fprintf(&b, " implements %s", strings.Join(t.Implements, " & "))
		}
		b.WriteString(" {\n")
		for _, f := range t.Fields {
			fmt.Fprintf(&b, "  %s: %s\n", f.Name, f.Type)
		}
		b.WriteString("}\n")
	}

	return b.String()
}

// Prefixed returns a copy with every schema-local name decorated by prefix:
// entry points, type names, interface references, and field types that
// reference declared types. Built-in scalars are left alone. Composition
// layers use this to keep independently-authored backends collision-free.
func (s *Schema) Prefixed(prefix string) *Schema {
	rename := func(name string) string {
		if s.HasType(name) {
			return prefix + name
		}
		return name
	}

	entryPoints := make([]EntryPoint, len(s.entryPoints))
	for i, ep := range s.entryPoints {
		entryPoints[i] = EntryPoint{
			Name:       prefix + ep.Name,
			Type:       mapTypeExpr(ep.Type, rename),
			RecordKind: ep.RecordKind,
		}
	}

	types := make([]Type, len(s.types))
	for i, t := range s.types {
		implements := make([]string, len(t.Implements))
		for j, iface := range t.Implements {
			implements[j] = rename(iface)
		}
		fields := make([]Field, len(t.Fields))
		for j, f := range t.Fields {
			fields[j] = Field{Name: f.Name, Type: mapTypeExpr(f.Type, rename)}
		}
		types[i] = Type{
			Name:       prefix + t.Name,
			Interface:  t.Interface,
			Implements: implements,
			Fields:     fields,
		}
	}

	return New(entryPoints, types)
}

// Merge combines independently-namespaced schemas into one. Callers must
// have made the names globally unique first (see Prefixed).
func Merge(schemas ...*Schema) (*Schema, error) {
	var entryPoints []EntryPoint
	var types []Type
	seen := make(map[string]struct{})

	for _, s := range schemas {
		for _, t := range s.types {
			if _, dup := seen[t.Name]; dup {
				return nil, fmt.Errorf("duplicate type name %q", t.Name)
			}
			seen[t.Name] = struct{}{}
			types = append(types, t)
		}
		entryPoints = append(entryPoints, s.entryPoints...)
	}
	return New(entryPoints, types), nil
}

// mapTypeExpr applies rename to the bare type name inside a type expression
// such as "[Path!]!", preserving list and non-null wrappers.
func mapTypeExpr(expr string, rename func(string) string) string {
	name := strings.Trim(expr, "[]!")
	renamed := rename(name)
	if renamed == name {
		return expr
	}
	return strings.Replace(expr, name, renamed, 1)
}
