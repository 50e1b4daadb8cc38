// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Zametki note operations for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/zametki/internal/noteservice"
)

const contractURI = "zametki://note-format"

// Server wraps the MCP server with Zametki tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all Zametki tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Zametki",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. The id and, unless given, the date are assigned automatically. "+
			"Read the format contract via the "+contractURI+" resource first."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title (non-empty)")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note body (non-empty)")),
		mcp.WithString("date", mcp.Description("Optional date in DD.MM.YYYY HH:MM format")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("Render every note with id, title, text and date."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("list_titles",
		mcp.WithDescription("List the titles of all notes, one per line."),
	), s.listTitles)

	s.mcp.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Render the note with the given id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.getNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by exact title, exact date or whole-word keyword."),
		mcp.WithString("mode", mcp.Required(),
			mcp.Enum(noteservice.Modes...),
			mcp.Description("Which field to match")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Value to match")),
	), s.searchNotes)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Note Format Contract",
			mcp.WithResourceDescription("Store file format and search semantics."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
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

// reportResult turns an empty report into a readable "nothing found" answer.
func reportResult(report, empty string) *mcp.CallToolResult {
	if report == "" {
		return mcp.NewToolResultText(empty)
	}
	return mcp.NewToolResultText(report)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date := req.GetString("date", "")

	note, err := s.svc.Create(ctx, noteservice.CreateRequest{Title: title, Text: text, Date: date})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.svc.ListAll(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return reportResult(report, "no notes"), nil
}

func (s *Server) listTitles(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.svc.ListTitles(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return reportResult(report, "no notes"), nil
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.svc.GetByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if report == "" {
		return mcp.NewToolResultError(fmt.Sprintf("note %d not found", id)), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, err := req.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.svc.Search(ctx, mode, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return reportResult(report, "nothing found"), nil
}

func (s *Server) readNoteFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
