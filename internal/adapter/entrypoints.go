package adapter

import (
	"iter"

	"github.com/agentic-research/tessera/internal/docstore"
	"github.com/agentic-research/tessera/internal/parsing"
)

// recordSeq lazily walks the full record list in load order.
func recordSeq(records []parsing.Record) iter.Seq[Vertex] {
	return func(yield func(Vertex) bool) {
		for _, rec := range records {
			if !yield(RecordVertex(rec)) {
				return
			}
		}
	}
}

// documentSeq lazily walks the document snapshots in service order.
func documentSeq(documents []docstore.Document) iter.Seq[Vertex] {
	return func(yield func(Vertex) bool) {
		for _, doc := range documents {
			if !yield(DocumentVertex(doc)) {
				return
			}
		}
	}
}
