package schema

import (
	"sync"

	"github.com/agentic-research/tessera/internal/parsing"
)

// Root entry point names served by the core adapter.
const (
	EntryAllRecords = "Records"
	EntryDocuments  = "Documents"
	EntryRootFolder = "RootFolder"
)

// RecordTypeName returns the synthesized type name for a record kind.
func RecordTypeName(kind string) string {
	return "p_" + kind
}

// KindEntryPointName returns the name of the per-kind record root.
func KindEntryPointName(kind string) string {
	return "Records_" + kind
}

// directiveDefinitions is the engine's required directive vocabulary,
// emitted verbatim into every synthesized schema.
const directiveDefinitions = `directive @filter(op: String!, value: [String!]) repeatable on FIELD | INLINE_FRAGMENT
directive @tag(name: String) on FIELD
directive @output(name: String) on FIELD
directive @optional on FIELD
directive @recurse(depth: Int!) on FIELD
directive @fold on FIELD
directive @transform(op: String!) on FIELD
`

// builtinTypes holds the fixed vertex types every synthesized schema
// carries: the record and filesystem interfaces, the filesystem node types,
// and the external document type. Initialized once per process and shared;
// Synthesize copies the slice header only, never mutating the backing array.
var builtinTypes = sync.OnceValue(func() []Type {
	filesystemFields := []Field{
		{Name: "exists", Type: "Boolean!"},
		{Name: "basename", Type: "String!"},
		{Name: "path", Type: "String!"},
	}

	return []Type{
		{
			Name:      "Record",
			Interface: true,
			Fields: []Field{
				{Name: "_at", Type: "String!"},
				{Name: "_kind", Type: "String!"},
			},
		},
		{
			Name:      "FilesystemEntry",
			Interface: true,
			Fields:    filesystemFields,
		},
		{
			Name:       "Path",
			Implements: []string{"FilesystemEntry"},
			Fields:     filesystemFields,
		},
		{
			Name:       "File",
			Implements: []string{"FilesystemEntry"},
			Fields: append(append([]Field{}, filesystemFields...),
				Field{Name: "extension", Type: "String"}),
		},
		{
			Name:       "Directory",
			Implements: []string{"FilesystemEntry"},
			Fields: append(append([]Field{}, filesystemFields...),
				Field{Name: "Children", Type: "[Path!]!"}),
		},
		{
			Name: "Document",
			Fields: []Field{
				{Name: "id", Type: "Int!"},
				{Name: "title", Type: "String!"},
				{Name: "content", Type: "String!"},
				{Name: "created", Type: "String!"},
				{Name: "added", Type: "String!"},
				{Name: "archive_serial_number", Type: "Int"},
			},
		},
	}
})

// Synthesize renders the definition set into the schema the engine sees.
//
// Each kind's exposed shape comes from its first (oldest) definition; later
// versions affect record validation only, keeping the external schema
// stable across internal evolution. Every field is exposed as the generic
// string scalar (a oneOf restriction is enforced at parse time, not at the
// schema level) except path fields, which become edges to Path.
func Synthesize(store *parsing.Store) *Schema {
	kinds := store.Kinds()

	entryPoints := []EntryPoint{
		{Name: EntryAllRecords, Type: "[Record!]!"},
		{Name: EntryDocuments, Type: "[Document!]!"},
		{Name: EntryRootFolder, Type: "Directory!"},
	}
	for _, kind := range kinds {
		entryPoints = append(entryPoints, EntryPoint{
			Name:       KindEntryPointName(kind),
			Type:       "[" + RecordTypeName(kind) + "!]!",
			RecordKind: kind,
		})
	}

	types := append([]Type{}, builtinTypes()...)
	for _, kind := range kinds {
		oldest := store.Versions(kind)[0]

		var fields []Field
		for pair := oldest.Fields.Oldest(); pair != nil; pair = pair.Next() {
			fieldType := "String!"
			if pair.Value.Type == parsing.FieldPath {
				fieldType = "Path!"
			}
			fields = append(fields, Field{Name: pair.Key, Type: fieldType})
		}
		fields = append(fields,
			Field{Name: "_at", Type: "String!"},
			Field{Name: "_kind", Type: "String!"},
		)

		types = append(types, Type{
			Name:       RecordTypeName(kind),
			Implements: []string{"Record"},
			Fields:     fields,
		})
	}

	return New(entryPoints, types)
}
