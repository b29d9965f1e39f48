package adapter

import (
	"iter"

	"go.uber.org/zap"

	"github.com/agentic-research/tessera/api"
	"github.com/agentic-research/tessera/internal/parsing"
)

// resolveDirectoryEdge serves Directory.Children: the directory's direct
// entries as generic Path vertices, in filesystem enumeration order. Any
// listing failure (missing path, permission, not a directory) degrades to
// an empty sequence; filesystem trouble never aborts a query.
func (c *Core) resolveDirectoryEdge(contexts iter.Seq[api.Context[Vertex]], edgeName string) iter.Seq[api.NeighborOutcome[Vertex]] {
	if edgeName != "Children" {
		contractViolation("attempted to resolve unexpected edge %q on type \"Directory\"", edgeName)
	}

	return api.ResolveNeighborsWith(contexts, func(v *Vertex) iter.Seq[Vertex] {
		path, ok := v.AsFilesystemPath()
		if !ok {
			contractViolation("vertex of type %s is not a Directory", v.Typename())
		}
		children, err := c.fs.ListChildren(path)
		if err != nil {
			c.logger.Debug("directory listing failed",
				zap.String("path", path),
				zap.Error(err))
			return api.EmptySeq[Vertex]()
		}
		return func(yield func(Vertex) bool) {
			for _, child := range children {
				if !yield(PathVertex(child)) {
					return
				}
			}
		}
	})
}

// resolveRecordEdge serves the edges a kind's definition declares as
// path-typed fields: the field's string value dereferenced to exactly one
// Path vertex. Only path fields may serve as edges.
func (c *Core) resolveRecordEdge(contexts iter.Seq[api.Context[Vertex]], edgeName string) iter.Seq[api.NeighborOutcome[Vertex]] {
	return api.ResolveNeighborsWith(contexts, func(v *Vertex) iter.Seq[Vertex] {
		rec, ok := v.AsRecord()
		if !ok {
			contractViolation("vertex of type %s is not a record", v.Typename())
		}

		def, ok := c.store.Active(rec.Kind, rec.At)
		if !ok {
			contractViolation("record of kind %q has no definition", rec.Kind)
		}
		fieldKind, ok := def.Fields.Get(edgeName)
		if !ok {
			contractViolation("attempted to resolve unexpected edge %q on type %q", edgeName, v.Typename())
		}
		if fieldKind.Type != parsing.FieldPath {
			contractViolation("field %q of kind %q is not path-typed; only path fields may serve as edges", edgeName, rec.Kind)
		}

		val, ok := rec.Fields[edgeName]
		if !ok {
			// Schema partiality: the field was declared but this record
			// does not carry it, so there is nothing to point at.
			return api.EmptySeq[Vertex]()
		}
		target, ok := val.AsString()
		if !ok {
			contractViolation("path field %q of kind %q holds a non-string value", edgeName, rec.Kind)
		}
		return api.SeqOf(PathVertex(target))
	})
}
