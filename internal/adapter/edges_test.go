package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/tessera/api"
	"github.com/agentic-research/tessera/internal/parsing"
)

// resolveEdge resolves one edge for a single vertex and drains the neighbors.
func resolveEdge(t *testing.T, c *Core, v Vertex, typeName, edge string) []Vertex {
	t.Helper()
	outs := collect(c.ResolveNeighbors(oneContext(v), typeName, edge, nil))
	require.Len(t, outs, 1)
	assert.Equal(t, "tok", outs[0].Ctx.Token)
	return collect(outs[0].Neighbors)
}

func TestDirectoryChildren(t *testing.T) {
	c := testCore(t)

	children := resolveEdge(t, c, DirectoryVertex("/records"), "Directory", "Children")
	require.Len(t, children, 2)

	var paths []string
	for _, child := range children {
		assert.Equal(t, "Path", child.Typename(), "children are generic paths, not pre-typed")
		path, ok := child.AsFilesystemPath()
		require.True(t, ok)
		paths = append(paths, path)
	}
	assert.ElementsMatch(t, []string{"/records/a.txt", "/records/sub"}, paths)
}

func TestDirectoryChildren_MissingDirectoryIsEmpty(t *testing.T) {
	c := testCore(t)

	// Filesystem trouble degrades to no children, it never aborts the query.
	children := resolveEdge(t, c, DirectoryVertex("/nowhere"), "Directory", "Children")
	assert.Empty(t, children)

	children = resolveEdge(t, c, DirectoryVertex("/records/a.txt"), "Directory", "Children")
	assert.Empty(t, children)
}

func TestDirectoryEdge_UnknownPanics(t *testing.T) {
	c := testCore(t)
	assert.Panics(t, func() {
		c.ResolveNeighbors(oneContext(DirectoryVertex("/records")), "Directory", "Parent", nil)
	})
}

func TestRecordPathEdge(t *testing.T) {
	c := testCore(t)

	targets := resolveEdge(t, c, RecordVertex(fixtureRecords()[0]), "p_task", "target")
	require.Len(t, targets, 1)
	assert.Equal(t, "Path", targets[0].Typename())
	path, ok := targets[0].AsFilesystemPath()
	require.True(t, ok)
	assert.Equal(t, "/records/a.txt", path)
}

func TestRecordPathEdge_DanglingTargetStillResolves(t *testing.T) {
	c := testCore(t)

	// The edge dereferences the field value as-is; existence is the Path
	// vertex's own exists property to answer.
	targets := resolveEdge(t, c, RecordVertex(fixtureRecords()[2]), "p_task", "target")
	require.Len(t, targets, 1)
	path, _ := targets[0].AsFilesystemPath()
	assert.Equal(t, "/records/missing.txt", path)
}

func TestRecordPathEdge_AbsentFieldIsEmpty(t *testing.T) {
	c := testCore(t)

	rec := RecordVertex(parsing.Record{
		Kind:   "task",
		At:     time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		Fields: map[string]parsing.Value{"status": parsing.StringVal("open")},
	})
	assert.Empty(t, resolveEdge(t, c, rec, "p_task", "target"))
}

func TestRecordEdge_NonPathFieldPanics(t *testing.T) {
	c := testCore(t)

	assert.Panics(t, func() {
		resolveEdge(t, c, RecordVertex(fixtureRecords()[0]), "p_task", "status")
	})
}

func TestRecordEdge_UndeclaredFieldPanics(t *testing.T) {
	c := testCore(t)

	assert.Panics(t, func() {
		resolveEdge(t, c, RecordVertex(fixtureRecords()[0]), "p_task", "owner")
	})
}

func TestResolveNeighbors_UnknownTypePanics(t *testing.T) {
	c := testCore(t)
	assert.Panics(t, func() {
		c.ResolveNeighbors(oneContext(PathVertex("/x")), "Path", "Children", nil)
	})
}

func TestResolveNeighbors_NilVertexIsEmpty(t *testing.T) {
	c := testCore(t)

	contexts := api.SeqOf(api.Context[Vertex]{Token: 7})
	outs := collect(c.ResolveNeighbors(contexts, "Directory", "Children", nil))
	require.Len(t, outs, 1)
	assert.Empty(t, collect(outs[0].Neighbors))
}
