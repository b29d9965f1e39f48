package parsing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FieldType discriminates the closed set of field kinds.
type FieldType int

const (
	// FieldString accepts any string scalar.
	FieldString FieldType = iota
	// FieldOneOf accepts only a string drawn from an enumerated set.
	FieldOneOf
	// FieldPath accepts any string scalar and additionally lets the field
	// serve as a graph edge to a filesystem path.
	FieldPath
)

// FieldKind is the constraint a definition places on one field's values.
type FieldKind struct {
	Type    FieldType
	Allowed []string // populated for FieldOneOf only
}

// fieldKindFromName resolves the `is = "<name>"` form. Names match
// ASCII case-insensitively.
func fieldKindFromName(name string) (FieldKind, bool) {
	switch strings.ToLower(name) {
	case "string":
		return FieldKind{Type: FieldString}, true
	case "path":
		return FieldKind{Type: FieldPath}, true
	default:
		return FieldKind{}, false
	}
}

// Validate checks a record field value against the kind. Values never
// coerce: a violation is an error, not a conversion.
func (k FieldKind) Validate(v Value) error {
	switch k.Type {
	case FieldString, FieldPath:
		if v.Kind != ValueString {
			return fmt.Errorf("expected a string, got %s", v)
		}
		return nil
	case FieldOneOf:
		s, ok := v.AsString()
		if !ok {
			return fmt.Errorf("expected one of: %s", strings.Join(k.Allowed, ", "))
		}
		for _, allowed := range k.Allowed {
			if s == allowed {
				return nil
			}
		}
		return fmt.Errorf("expected one of: %s", strings.Join(k.Allowed, ", "))
	default:
		return fmt.Errorf("unknown field type %d", int(k.Type))
	}
}

// Fields is a record kind's field set in declaration order. Order matters:
// schema synthesis must be byte-deterministic.
type Fields = orderedmap.OrderedMap[string, FieldKind]

// Definition is one version of a record kind's field shape, effective from
// Since onward.
type Definition struct {
	Kind   string
	Since  time.Time
	Fields *Fields
}

// Store holds every loaded Definition, grouped by kind and sorted ascending
// by Since. It is built once at startup and never mutated, so it may be
// read concurrently without locking.
type Store struct {
	defs map[string][]Definition
}

// NewStore builds a Store from pre-parsed definitions. The per-kind slices
// are stably sorted by Since; equal timestamps keep their input order.
func NewStore(defs map[string][]Definition) *Store {
	for _, versions := range defs {
		sort.SliceStable(versions, func(i, j int) bool {
			return versions[i].Since.Before(versions[j].Since)
		})
	}
	return &Store{defs: defs}
}

// Kinds returns every known kind name, sorted.
func (s *Store) Kinds() []string {
	out := make([]string, 0, len(s.defs))
	for kind := range s.defs {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// Versions returns a kind's definitions, oldest first. Nil for unknown kinds.
func (s *Store) Versions(kind string) []Definition {
	return s.defs[kind]
}

// Active resolves the definition version in effect for a record of the
// given kind at time t: the last version whose Since is not after t. When t
// predates every known version the earliest version is returned anyway;
// records older than their kind's declared epoch are accepted.
func (s *Store) Active(kind string, t time.Time) (Definition, bool) {
	versions := s.defs[kind]
	if len(versions) == 0 {
		return Definition{}, false
	}
	idx := sort.Search(len(versions), func(i int) bool {
		return versions[i].Since.After(t)
	})
	if idx == 0 {
		return versions[0], true
	}
	return versions[idx-1], true
}

// reservedFieldNames are claimed by the record model itself.
var reservedFieldNames = map[string]struct{}{
	"at":   {},
	"kind": {},
}

// parseDefinitionFile parses one kind's definition document: a sequence of
// `define` blocks. The first error aborts the parse.
func parseDefinitionFile(kind string, file *hcl.File) ([]Definition, hcl.Diagnostics) {
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported document syntax",
			Detail:   "Definition documents must be native HCL syntax.",
		}}
	}

	for _, attr := range body.Attributes {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unexpected attribute",
			Detail:   fmt.Sprintf("Definition documents contain only define blocks; %q is not allowed here.", attr.Name),
			Subject:  attr.SrcRange.Ptr(),
		}}
	}

	var defs []Definition
	for _, block := range body.Blocks {
		if block.Type != "define" {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Unknown block %q", block.Type),
				Detail:   `Allowed blocks are: "define".`,
				Subject:  block.TypeRange.Ptr(),
			}}
		}
		def, diags := parseDefineBlock(kind, block)
		if diags.HasErrors() {
			return nil, diags
		}
		defs = append(defs, def)
	}

	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].Since.Before(defs[j].Since)
	})
	return defs, nil
}

func parseDefineBlock(kind string, block *hclsyntax.Block) (Definition, hcl.Diagnostics) {
	if len(block.Labels) != 0 {
		return Definition{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unexpected label on define block",
			Detail:   "The record kind is taken from the file name; define blocks carry no labels.",
			Subject:  block.LabelRanges[0].Ptr(),
		}}
	}

	since, diags := parseSince(block)
	if diags.HasErrors() {
		return Definition{}, diags
	}

	var fieldsBlock *hclsyntax.Block
	for _, child := range block.Body.Blocks {
		if child.Type != "fields" {
			return Definition{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Unknown block %q in define", child.Type),
				Detail:   `The only block allowed inside define is "fields".`,
				Subject:  child.TypeRange.Ptr(),
			}}
		}
		fieldsBlock = child
	}
	if fieldsBlock == nil {
		return Definition{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing fields block",
			Detail:   "Every define block requires a fields child block.",
			Subject:  block.TypeRange.Ptr(),
		}}
	}

	fields, diags := parseFields(fieldsBlock)
	if diags.HasErrors() {
		return Definition{}, diags
	}

	return Definition{Kind: kind, Since: since, Fields: fields}, nil
}

func parseSince(block *hclsyntax.Block) (time.Time, hcl.Diagnostics) {
	attr, ok := block.Body.Attributes["since"]
	if !ok {
		return time.Time{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing since property",
			Detail:   "Every define block requires a since property.",
			Subject:  block.TypeRange.Ptr(),
		}}
	}
	for name, other := range block.Body.Attributes {
		if name != "since" {
			return time.Time{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Unexpected attribute %q in define", name),
				Detail:   `The only attribute allowed inside define is "since".`,
				Subject:  other.SrcRange.Ptr(),
			}}
		}
	}

	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return time.Time{}, diags
	}
	if val.IsNull() || !val.Type().Equals(cty.String) {
		return time.Time{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "The since property must be a string",
			Detail:   "Use an RFC3339 instant or a bare date.",
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	since, err := ParseTimestamp(val.AsString())
	if err != nil {
		return time.Time{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Could not parse the since property as a timestamp",
			Detail:   err.Error(),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	return since, nil
}

func parseFields(block *hclsyntax.Block) (*Fields, hcl.Diagnostics) {
	for _, attr := range block.Body.Attributes {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Fields are declared as blocks",
			Detail:   fmt.Sprintf("Declare %q as a block with an `is` property or a `oneOf` list.", attr.Name),
			Subject:  attr.SrcRange.Ptr(),
		}}
	}

	fields := orderedmap.New[string, FieldKind]()
	for _, field := range block.Body.Blocks {
		name := field.Type
		if _, reserved := reservedFieldNames[name]; reserved {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Reserved field name",
				Detail:   "Both `at` and `kind` are reserved field names.",
				Subject:  field.TypeRange.Ptr(),
			}}
		}
		if len(field.Labels) != 0 || len(field.Body.Blocks) != 0 {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unrecognizable field definition",
				Detail:   "A field block holds only an `is` property or a `oneOf` list.",
				Subject:  field.TypeRange.Ptr(),
			}}
		}

		kind, diags := parseFieldKind(field)
		if diags.HasErrors() {
			return nil, diags
		}
		fields.Set(name, kind)
	}
	return fields, nil
}

func parseFieldKind(field *hclsyntax.Block) (FieldKind, hcl.Diagnostics) {
	isAttr := field.Body.Attributes["is"]
	oneOfAttr := field.Body.Attributes["oneOf"]

	switch {
	case isAttr != nil && oneOfAttr == nil && len(field.Body.Attributes) == 1:
		val, diags := isAttr.Expr.Value(nil)
		if diags.HasErrors() {
			return FieldKind{}, diags
		}
		if val.IsNull() || !val.Type().Equals(cty.String) {
			return FieldKind{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "The is property must be a string",
				Subject:  isAttr.Expr.Range().Ptr(),
			}}
		}
		kind, ok := fieldKindFromName(val.AsString())
		if !ok {
			return FieldKind{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Did not recognize field kind %q", val.AsString()),
				Detail:   `Recognized field kinds are: "string", "path".`,
				Subject:  isAttr.Expr.Range().Ptr(),
			}}
		}
		return kind, nil

	case oneOfAttr != nil && isAttr == nil && len(field.Body.Attributes) == 1:
		return parseOneOf(oneOfAttr)

	default:
		return FieldKind{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unrecognizable field definition",
			Detail:   "Either set an `is` property or a `oneOf` list, and nothing else.",
			Subject:  field.TypeRange.Ptr(),
		}}
	}
}

func parseOneOf(attr *hclsyntax.Attribute) (FieldKind, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return FieldKind{}, diags
	}
	if val.IsNull() || !val.CanIterateElements() {
		return FieldKind{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "The oneOf property must be a list of strings",
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}

	var allowed []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() || !elem.Type().Equals(cty.String) {
			return FieldKind{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "The oneOf property must contain only strings",
				Subject:  attr.Expr.Range().Ptr(),
			}}
		}
		allowed = append(allowed, elem.AsString())
	}
	return FieldKind{Type: FieldOneOf, Allowed: allowed}, nil
}
