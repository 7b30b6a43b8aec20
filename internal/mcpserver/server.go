// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the scene tree to an LLM assistant via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/syncservice"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp *server.MCPServer
	svc *syncservice.Service
}

// New creates a new MCP server with all Ansuz tools registered.
func New(svc *syncservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_scene_tree",
		mcp.WithDescription("Returns the full scene hierarchy of the connected project as a "+
			"canonical tree-text rendering. If no project is connected yet, the output says so."),
	), s.getSceneTree)

	s.mcp.AddTool(mcp.NewTool("search_objects",
		mcp.WithDescription("Case-insensitive substring search over object names and dotted "+
			"paths (e.g. 'Workspace.Model.Part') in the current scene hierarchy."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchObjects)

	s.mcp.AddTool(mcp.NewTool("get_connection_status",
		mcp.WithDescription("Reports whether the editor plugin is currently connected, the time "+
			"of the last publish, and the project name."),
	), s.getConnectionStatus)

	s.mcp.AddTool(mcp.NewTool("get_publish_history",
		mcp.WithDescription("Lists recent snapshot publishes (id, checksum, node counts, arrival time), newest first."),
		mcp.WithNumber("limit", mcp.Description("Max entries to return (default 20)")),
	), s.getPublishHistory)

	// Resource: snapshot payload contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://snapshot-format", "Snapshot Format Contract",
			mcp.WithResourceDescription("Canonical JSON payload format that publishers must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSnapshotFormatResource,
	)

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

func (s *Server) getSceneTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.svc.RenderText()), nil
}

func (s *Server) searchObjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matches := s.svc.Search(query)
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no objects matching %q", query)), nil
	}
	out, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getConnectionStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.Status(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getPublishHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 0)
	entries, err := s.svc.History(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no publishes recorded"), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readSnapshotFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://snapshot-format",
			MIMEType: "text/markdown",
			Text:     SnapshotFormatContract,
		},
	}, nil
}
