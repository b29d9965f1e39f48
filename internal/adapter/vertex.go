// Package adapter implements the four resolution operations the graph query
// engine drives over records, filesystem entries, and document snapshots:
// starting-vertex enumeration, property resolution, neighbor resolution, and
// type coercion. It also provides the router that composes several
// independent backends into one namespaced adapter surface.
package adapter

import (
	"fmt"

	"github.com/agentic-research/tessera/internal/docstore"
	"github.com/agentic-research/tessera/internal/parsing"
	"github.com/agentic-research/tessera/internal/schema"
)

// VertexKind discriminates the closed set of vertex variants.
type VertexKind int

const (
	// VertexPath is a filesystem reference of unknown type, not yet
	// confirmed to exist.
	VertexPath VertexKind = iota
	// VertexFile is a filesystem reference expected to be a regular file.
	VertexFile
	// VertexDirectory is a filesystem reference expected to be a directory.
	VertexDirectory
	// VertexDocument is a snapshot from the external document service.
	VertexDocument
	// VertexRecord is a parsed record.
	VertexRecord
)

// Vertex is a runtime node in the query graph: a closed tagged union over
// every queryable thing. Vertices are created transiently per query and
// carry no owning relationships to each other; a directory's children and a
// record's path targets are computed on demand.
type Vertex struct {
	kind VertexKind
	path string
	doc  *docstore.Document
	rec  *parsing.Record
}

func PathVertex(path string) Vertex      { return Vertex{kind: VertexPath, path: path} }
func FileVertex(path string) Vertex      { return Vertex{kind: VertexFile, path: path} }
func DirectoryVertex(path string) Vertex { return Vertex{kind: VertexDirectory, path: path} }

func DocumentVertex(doc docstore.Document) Vertex {
	return Vertex{kind: VertexDocument, doc: &doc}
}

func RecordVertex(rec parsing.Record) Vertex {
	return Vertex{kind: VertexRecord, rec: &rec}
}

// Kind returns the variant tag.
func (v Vertex) Kind() VertexKind {
	return v.kind
}

// AsFilesystemPath returns the referenced path for the Path, File, and
// Directory variants.
func (v Vertex) AsFilesystemPath() (string, bool) {
	switch v.kind {
	case VertexPath, VertexFile, VertexDirectory:
		return v.path, true
	default:
		return "", false
	}
}

// AsDocument returns the document snapshot for the Document variant.
func (v Vertex) AsDocument() (*docstore.Document, bool) {
	if v.kind == VertexDocument {
		return v.doc, true
	}
	return nil, false
}

// AsRecord returns the record for the Record variant.
func (v Vertex) AsRecord() (*parsing.Record, bool) {
	if v.kind == VertexRecord {
		return v.rec, true
	}
	return nil, false
}

// Typename returns the vertex's schema type name. Record vertices report
// their kind's synthesized type name, not a generic "Record".
func (v Vertex) Typename() string {
	switch v.kind {
	case VertexPath:
		return "Path"
	case VertexFile:
		return "File"
	case VertexDirectory:
		return "Directory"
	case VertexDocument:
		return "Document"
	case VertexRecord:
		return schema.RecordTypeName(v.rec.Kind)
	default:
		panic(fmt.Sprintf("vertex has impossible kind %d", int(v.kind)))
	}
}
