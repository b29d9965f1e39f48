package adapter

import (
	"iter"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/tessera/internal/parsing"
)

// recordIndex maps each kind to the positions of its records in the flat
// record list, so per-kind entry points enumerate without scanning every
// record. Built once at adapter construction; the record list is immutable
// afterwards, so the bitmaps never go stale.
type recordIndex struct {
	byKind map[string]*roaring.Bitmap
}

func newRecordIndex(records []parsing.Record) *recordIndex {
	idx := &recordIndex{byKind: make(map[string]*roaring.Bitmap)}
	for i, rec := range records {
		bm, ok := idx.byKind[rec.Kind]
		if !ok {
			bm = roaring.New()
			idx.byKind[rec.Kind] = bm
		}
		bm.Add(uint32(i))
	}
	return idx
}

// seq lazily walks the kind's records in record-list order.
func (idx *recordIndex) seq(kind string, records []parsing.Record) iter.Seq[Vertex] {
	return func(yield func(Vertex) bool) {
		bm, ok := idx.byKind[kind]
		if !ok {
			return
		}
		for it := bm.Iterator(); it.HasNext(); {
			if !yield(RecordVertex(records[it.Next()])) {
				return
			}
		}
	}
}
