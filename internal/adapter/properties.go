package adapter

import (
	"iter"

	"github.com/agentic-research/tessera/api"
	"github.com/agentic-research/tessera/internal/parsing"
)

// resolveFilesystemProperty serves Path, File, Directory, and the
// FilesystemEntry interface. `exists` probes the filesystem on every call;
// nothing is cached between calls.
func (c *Core) resolveFilesystemProperty(contexts iter.Seq[api.Context[Vertex]], typeName, propertyName string) iter.Seq[api.PropertyOutcome[Vertex]] {
	mustPath := func(v *Vertex) string {
		path, ok := v.AsFilesystemPath()
		if !ok {
			contractViolation("vertex of type %s is not a filesystem reference", v.Typename())
		}
		return path
	}

	switch propertyName {
	case "exists":
		return api.ResolvePropertyWith(contexts, func(v *Vertex) api.Value {
			return api.BooleanValue(c.fs.Exists(mustPath(v)))
		})
	case "basename":
		return api.ResolvePropertyWith(contexts, func(v *Vertex) api.Value {
			return api.StringValue(c.fs.Basename(mustPath(v)))
		})
	case "path":
		return api.ResolvePropertyWith(contexts, func(v *Vertex) api.Value {
			return api.StringValue(mustPath(v))
		})
	case "extension":
		if typeName != "File" {
			contractViolation("attempted to read property \"extension\" on type %q", typeName)
		}
		return api.ResolvePropertyWith(contexts, func(v *Vertex) api.Value {
			ext, ok := c.fs.Extension(mustPath(v))
			if !ok {
				return api.NullValue()
			}
			return api.StringValue(ext)
		})
	default:
		contractViolation("attempted to read unexpected property %q on type %q", propertyName, typeName)
		return nil
	}
}

// resolveDocumentProperty reads directly from the already-fetched snapshot;
// the service is never contacted at query time.
func resolveDocumentProperty(contexts iter.Seq[api.Context[Vertex]], propertyName string) iter.Seq[api.PropertyOutcome[Vertex]] {
	return api.ResolvePropertyWith(contexts, func(v *Vertex) api.Value {
		doc, ok := v.AsDocument()
		if !ok {
			contractViolation("vertex of type %s is not a Document", v.Typename())
		}
		switch propertyName {
		case "id":
			return api.IntValue(doc.ID)
		case "title":
			return api.StringValue(doc.Title)
		case "content":
			return api.StringValue(doc.Content)
		case "created":
			return api.StringValue(doc.Created)
		case "added":
			return api.StringValue(doc.Added)
		case "archive_serial_number":
			if doc.ArchiveSerialNumber == nil {
				return api.NullValue()
			}
			return api.IntValue(*doc.ArchiveSerialNumber)
		default:
			contractViolation("attempted to read unexpected property %q on type \"Document\"", propertyName)
			return api.Value{}
		}
	})
}

// resolveRecordProperty serves every record-kind type and the Record
// interface. A property the schema declared but the record does not carry
// indicates schema/record desynchronization and panics; it is not bad user
// input.
func resolveRecordProperty(contexts iter.Seq[api.Context[Vertex]], propertyName string) iter.Seq[api.PropertyOutcome[Vertex]] {
	return api.ResolvePropertyWith(contexts, func(v *Vertex) api.Value {
		rec, ok := v.AsRecord()
		if !ok {
			contractViolation("vertex of type %s is not a record", v.Typename())
		}
		switch propertyName {
		case "_at":
			return api.StringValue(parsing.FormatTimestamp(rec.At))
		case "_kind":
			return api.StringValue(rec.Kind)
		default:
			val, ok := rec.Fields[propertyName]
			if !ok {
				contractViolation("record of kind %q has no field %q declared by its schema type", rec.Kind, propertyName)
			}
			return fieldValue(val)
		}
	})
}

// fieldValue converts a record scalar into the engine's value
// representation, losslessly.
func fieldValue(val parsing.Value) api.Value {
	switch val.Kind {
	case parsing.ValueBool:
		return api.BooleanValue(val.Bool)
	case parsing.ValueInt:
		return api.IntValue(val.Int)
	case parsing.ValueFloat:
		return api.FloatValue(val.Float)
	case parsing.ValueString:
		return api.StringValue(val.Str)
	default:
		return api.NullValue()
	}
}
