package parsing

import (
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Record is one timestamped, kind-tagged bag of scalar field values, valid
// under the definition version active at its timestamp. Records are
// immutable once parsed and carry no identity beyond structural equality.
type Record struct {
	Kind   string
	At     time.Time
	Fields map[string]Value
}

// parseRecordFile parses one record document: a sequence of blocks, one per
// record, validated against the store. The first error aborts the parse.
func parseRecordFile(file *hcl.File, store *Store) ([]Record, hcl.Diagnostics) {
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported document syntax",
			Detail:   "Record documents must be native HCL syntax.",
		}}
	}

	for _, attr := range body.Attributes {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unexpected attribute",
			Detail:   fmt.Sprintf("Record documents contain only record blocks; %q is not allowed here.", attr.Name),
			Subject:  attr.SrcRange.Ptr(),
		}}
	}

	var recs []Record
	for _, block := range body.Blocks {
		rec, diags := parseRecordBlock(block, store)
		if diags.HasErrors() {
			return nil, diags
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseRecordBlock(block *hclsyntax.Block, store *Store) (Record, hcl.Diagnostics) {
	kind := block.Type
	if store.Versions(kind) == nil {
		return Record{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown record kind",
			Detail:   fmt.Sprintf("No definition exists for kind %q.", kind),
			Subject:  block.TypeRange.Ptr(),
		}}
	}

	if len(block.Labels) != 1 {
		return Record{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing record timestamp",
			Detail:   "Every record carries exactly one label: its timestamp, formatted as RFC3339, a datetime, or a date.",
			Subject:  block.TypeRange.Ptr(),
		}}
	}
	at, err := ParseTimestamp(block.Labels[0])
	if err != nil {
		return Record{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Could not parse the record timestamp",
			Detail:   err.Error(),
			Subject:  block.LabelRanges[0].Ptr(),
		}}
	}

	active, _ := store.Active(kind, at)

	for _, child := range block.Body.Blocks {
		return Record{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf("Unexpected block %q in record", child.Type),
			Detail:   "Record fields are attribute assignments, not blocks.",
			Subject:  child.TypeRange.Ptr(),
		}}
	}

	fields := make(map[string]Value, len(block.Body.Attributes))
	for _, attr := range attributesBySourceOrder(block.Body.Attributes) {
		kindDef, declared := active.Fields.Get(attr.Name)
		if !declared {
			return Record{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Field %q is not declared for kind %q", attr.Name, kind),
				Detail: fmt.Sprintf("The definition active at %s does not declare this field.",
					FormatTimestamp(at)),
				Subject: attr.NameRange.Ptr(),
			}}
		}

		ctyVal, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return Record{}, diags
		}
		val, err := fromCty(ctyVal)
		if err != nil {
			return Record{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Record field values must be scalars",
				Detail:   err.Error(),
				Subject:  attr.Expr.Range().Ptr(),
			}}
		}
		if err := kindDef.Validate(val); err != nil {
			return Record{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "This field has the wrong kind",
				Detail:   err.Error(),
				Subject:  attr.NameRange.Ptr(),
			}}
		}
		fields[attr.Name] = val
	}

	return Record{Kind: kind, At: at, Fields: fields}, nil
}

// attributesBySourceOrder fixes hclsyntax's map iteration order so that the
// first diagnostic reported is always the one earliest in the file.
func attributesBySourceOrder(attrs hclsyntax.Attributes) []*hclsyntax.Attribute {
	out := make([]*hclsyntax.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, attr)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SrcRange.Start.Byte < out[j].SrcRange.Start.Byte
	})
	return out
}
