// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes a loaded tessera store for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/tessera/internal/parsing"
	"github.com/agentic-research/tessera/internal/schema"
)

// Server wraps the MCP server with tools over one loaded store. The store
// and records are immutable snapshots; the server never reloads.
type Server struct {
	mcp     *server.MCPServer
	store   *parsing.Store
	records []parsing.Record
	schema  *schema.Schema
}

// New creates an MCP server with all tessera tools registered.
func New(store *parsing.Store, records []parsing.Record, sch *schema.Schema) *Server {
	s := &Server{store: store, records: records, schema: sch}

	s.mcp = server.NewMCPServer(
		"Tessera",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_kinds",
		mcp.WithDescription("List every record kind with a loaded definition."),
	), s.listKinds)

	s.mcp.AddTool(mcp.NewTool("dump_records",
		mcp.WithDescription("Dump loaded records as JSON, oldest definition semantics. "+
			"Optionally restricted to one kind."),
		mcp.WithString("kind", mcp.Description("Optional kind to restrict the dump to")),
	), s.dumpRecords)

	s.mcp.AddTool(mcp.NewTool("get_schema",
		mcp.WithDescription("Return the synthesized query schema as schema-description text."),
	), s.getSchema)

	s.mcp.AddTool(mcp.NewTool("active_definition",
		mcp.WithDescription("Return the definition version of a kind active at a timestamp. "+
			"Timestamps accept RFC 3339, a plain datetime, or a bare date."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Kind name")),
		mcp.WithString("at", mcp.Required(), mcp.Description("Timestamp to select the version by")),
	), s.activeDefinition)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listKinds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(oj.JSON(s.store.Kinds(), 2)), nil
}

func (s *Server) dumpRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := ""
	if k, err := req.RequireString("kind"); err == nil {
		kind = k
	}
	if kind != "" && len(s.store.Versions(kind)) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind: %s", kind)), nil
	}

	out := make([]map[string]any, 0, len(s.records))
	for _, rec := range s.records {
		if kind != "" && rec.Kind != kind {
			continue
		}
		out = append(out, recordDocument(rec))
	}
	return mcp.NewToolResultText(oj.JSON(out, 2)), nil
}

func (s *Server) getSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.schema.Text()), nil
}

func (s *Server) activeDefinition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	atText, err := req.RequireString("at")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	at, err := parsing.ParseTimestamp(atText)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	def, ok := s.store.Active(kind, at)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind: %s", kind)), nil
	}
	return mcp.NewToolResultText(oj.JSON(definitionDocument(def), 2)), nil
}

// recordDocument flattens a record into a JSON-ready map. Field names never
// collide with at/kind because those names are reserved at parse time.
func recordDocument(rec parsing.Record) map[string]any {
	doc := make(map[string]any, len(rec.Fields)+2)
	doc["kind"] = rec.Kind
	doc["at"] = parsing.FormatTimestamp(rec.At)
	for name, val := range rec.Fields {
		doc[name] = val.Any()
	}
	return doc
}

func definitionDocument(def parsing.Definition) map[string]any {
	fields := make([]map[string]any, 0, def.Fields.Len())
	for pair := def.Fields.Oldest(); pair != nil; pair = pair.Next() {
		field := map[string]any{"name": pair.Key}
		switch pair.Value.Type {
		case parsing.FieldOneOf:
			field["oneOf"] = pair.Value.Allowed
		case parsing.FieldPath:
			field["is"] = "path"
		default:
			field["is"] = "string"
		}
		fields = append(fields, field)
	}
	return map[string]any{
		"kind":   def.Kind,
		"since":  parsing.FormatTimestamp(def.Since),
		"fields": fields,
	}
}
