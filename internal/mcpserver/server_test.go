package mcpserver

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/agentic-research/tessera/internal/parsing"
	"github.com/agentic-research/tessera/internal/schema"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	fields := orderedmap.New[string, parsing.FieldKind]()
	fields.Set("status", parsing.FieldKind{Type: parsing.FieldOneOf, Allowed: []string{"open", "done"}})

	newFields := orderedmap.New[string, parsing.FieldKind]()
	newFields.Set("status", parsing.FieldKind{Type: parsing.FieldOneOf, Allowed: []string{"open", "done"}})
	newFields.Set("target", parsing.FieldKind{Type: parsing.FieldPath})

	store := parsing.NewStore(map[string][]parsing.Definition{
		"task": {
			{Kind: "task", Since: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Fields: fields},
			{Kind: "task", Since: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Fields: newFields},
		},
	})

	records := []parsing.Record{
		{
			Kind:   "task",
			At:     time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
			Fields: map[string]parsing.Value{"status": parsing.StringVal("open")},
		},
	}

	return New(store, records, schema.Synthesize(store))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error
	switch name {
	case "list_kinds":
		result, err = srv.listKinds(context.Background(), req)
	case "dump_records":
		result, err = srv.dumpRecords(context.Background(), req)
	case "get_schema":
		result, err = srv.getSchema(context.Background(), req)
	case "active_definition":
		result, err = srv.activeDefinition(context.Background(), req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	require.NoError(t, err)
	return result
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, r.Content)
	tc, ok := r.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestListKinds(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_kinds", nil)
	got, err := oj.ParseString(resultText(t, r))
	require.NoError(t, err)
	assert.Equal(t, []any{"task"}, got)
}

func TestDumpRecords(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "dump_records", nil)
	got, err := oj.ParseString(resultText(t, r))
	require.NoError(t, err)

	docs, ok := got.([]any)
	require.True(t, ok)
	require.Len(t, docs, 1)

	doc := docs[0].(map[string]any)
	assert.Equal(t, "task", doc["kind"])
	assert.Equal(t, "2021-06-01T00:00:00Z", doc["at"])
	assert.Equal(t, "open", doc["status"])
}

func TestDumpRecords_UnknownKind(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "dump_records", map[string]any{"kind": "ghost"})
	assert.True(t, r.IsError)
}

func TestGetSchema(t *testing.T) {
	srv := testServer(t)

	text := resultText(t, callTool(t, srv, "get_schema", nil))
	assert.Contains(t, text, "type p_task implements Record {")
}

func TestActiveDefinition(t *testing.T) {
	srv := testServer(t)

	// A timestamp between the two versions selects the older one.
	r := callTool(t, srv, "active_definition", map[string]any{
		"kind": "task",
		"at":   "2020-06-01",
	})
	got, err := oj.ParseString(resultText(t, r))
	require.NoError(t, err)

	doc := got.(map[string]any)
	assert.Equal(t, "task", doc["kind"])
	assert.Equal(t, "2020-01-01T00:00:00Z", doc["since"])
	fields := doc["fields"].([]any)
	require.Len(t, fields, 1)

	// A later timestamp selects the newer version, path field included.
	r = callTool(t, srv, "active_definition", map[string]any{
		"kind": "task",
		"at":   "2021-06-01",
	})
	got, err = oj.ParseString(resultText(t, r))
	require.NoError(t, err)
	fields = got.(map[string]any)["fields"].([]any)
	require.Len(t, fields, 2)
	target := fields[1].(map[string]any)
	assert.Equal(t, "target", target["name"])
	assert.Equal(t, "path", target["is"])
}

func TestActiveDefinition_Errors(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "active_definition", map[string]any{"kind": "ghost", "at": "2021-01-01"})
	assert.True(t, r.IsError)

	r = callTool(t, srv, "active_definition", map[string]any{"kind": "task", "at": "someday"})
	assert.True(t, r.IsError)

	r = callTool(t, srv, "active_definition", map[string]any{"at": "2021-01-01"})
	assert.True(t, r.IsError)
}
