package adapter

import (
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/agentic-research/tessera/api"
	"github.com/agentic-research/tessera/internal/docstore"
	"github.com/agentic-research/tessera/internal/fsys"
	"github.com/agentic-research/tessera/internal/parsing"
	"github.com/agentic-research/tessera/internal/schema"
)

// Core resolves queries over one tessera store: the immutable record list,
// the document snapshots, and the filesystem. It owns the records for the
// life of the process; after construction nothing mutates, so concurrent
// queries need no locking.
type Core struct {
	schema    *schema.Schema
	store     *parsing.Store
	records   []parsing.Record
	documents []docstore.Document
	rootDir   string
	fs        fsys.FS
	index     *recordIndex
	logger    *zap.Logger
}

var _ api.Adapter[Vertex] = (*Core)(nil)

// New builds a Core over fully-loaded, immutable state.
func New(sch *schema.Schema, store *parsing.Store, records []parsing.Record,
	documents []docstore.Document, rootDir string, fs fsys.FS, logger *zap.Logger,
) *Core {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Core{
		schema:    sch,
		store:     store,
		records:   records,
		documents: documents,
		rootDir:   rootDir,
		fs:        fs,
		index:     newRecordIndex(records),
		logger:    logger,
	}
}

// Schema returns the synthesized schema this adapter backs.
func (c *Core) Schema() *schema.Schema {
	return c.schema
}

// contractViolation reports a request for a name the synthesized schema does
// not back. It can only fire when schema synthesis and resolver dispatch
// have drifted apart, which is an internal bug, so it panics.
func contractViolation(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}

func (c *Core) ResolveStartingVertices(edgeName string) iter.Seq[Vertex] {
	c.logger.Debug("resolving starting vertices", zap.String("edge", edgeName))

	ep, ok := c.schema.EntryPoint(edgeName)
	if !ok {
		contractViolation("attempted to resolve starting vertices for unexpected edge name: %s", edgeName)
	}

	switch {
	case ep.Name == schema.EntryAllRecords:
		return recordSeq(c.records)
	case ep.Name == schema.EntryDocuments:
		return documentSeq(c.documents)
	case ep.Name == schema.EntryRootFolder:
		return api.SeqOf(DirectoryVertex(c.rootDir))
	case ep.RecordKind != "":
		return c.index.seq(ep.RecordKind, c.records)
	default:
		contractViolation("entry point %s has no resolver", edgeName)
		return nil
	}
}

func (c *Core) ResolveProperty(contexts iter.Seq[api.Context[Vertex]], typeName, propertyName string) iter.Seq[api.PropertyOutcome[Vertex]] {
	if propertyName == "__typename" {
		return api.ResolvePropertyWith(contexts, func(v *Vertex) api.Value {
			return api.StringValue(v.Typename())
		})
	}

	switch typeName {
	case "Path", "File", "Directory", "FilesystemEntry":
		return c.resolveFilesystemProperty(contexts, typeName, propertyName)
	case "Document":
		return resolveDocumentProperty(contexts, propertyName)
	default:
		if typeName == "Record" || strings.HasPrefix(typeName, "p_") {
			return resolveRecordProperty(contexts, propertyName)
		}
		contractViolation("attempted to read property %q on unexpected type: %s", propertyName, typeName)
		return nil
	}
}

func (c *Core) ResolveNeighbors(contexts iter.Seq[api.Context[Vertex]], typeName, edgeName string, params api.EdgeParameters) iter.Seq[api.NeighborOutcome[Vertex]] {
	switch {
	case typeName == "Directory":
		return c.resolveDirectoryEdge(contexts, edgeName)
	case strings.HasPrefix(typeName, "p_"):
		return c.resolveRecordEdge(contexts, edgeName)
	default:
		contractViolation("attempted to resolve edge %q on unexpected type: %s", edgeName, typeName)
		return nil
	}
}

func (c *Core) ResolveCoercion(contexts iter.Seq[api.Context[Vertex]], typeName, coerceToType string) iter.Seq[api.CoercionOutcome[Vertex]] {
	c.logger.Debug("resolving coercion",
		zap.String("from", typeName),
		zap.String("to", coerceToType))

	subtypes := c.schema.Subtypes(coerceToType)
	if subtypes == nil {
		contractViolation("type %s is not part of this schema", coerceToType)
	}

	return api.ResolveCoercionWith(contexts, func(v *Vertex) bool {
		_, ok := subtypes[v.Typename()]
		return ok
	})
}
