// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes one user's rnotes notes and the shared categories over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/rnotes/internal/models"
)

const categoriesURI = "rnotes://categories"

// NoteService is the subset of the note service the tools use.
type NoteService interface {
	Categories(ctx context.Context) ([]models.CategoryOut, error)
	Notes(ctx context.Context, userID int32) ([]models.NoteOut, error)
	Note(ctx context.Context, userID, id int32) (models.NoteOut, error)
	CreateNote(ctx context.Context, userID int32, in models.NoteIn) (models.NoteOut, error)
	UpdateNote(ctx context.Context, userID, id int32, in models.NoteIn) (models.NoteOut, error)
	DeleteNote(ctx context.Context, userID, id int32) (bool, error)
}

// Server wraps the MCP server with rnotes tools bound to a single user.
type Server struct {
	mcp    *server.MCPServer
	svc    NoteService
	userID int32
}

// New creates an MCP server acting as userID.
func New(svc NoteService, userID int32, version string) *Server {
	s := &Server{svc: svc, userID: userID}

	s.mcp = server.NewMCPServer(
		"rnotes",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List every note category."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes of the current user."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a single note by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("data", mcp.Required(), mcp.Description("Note body")),
		mcp.WithNumber("category_id", mcp.Description("Optional category id")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Replace the title, body and category of a note."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("data", mcp.Required(), mcp.Description("Note body")),
		mcp.WithNumber("category_id", mcp.Description("Optional category id")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.mcp.AddResource(
		mcp.NewResource(categoriesURI, "Categories",
			mcp.WithResourceDescription("All note categories as JSON."),
			mcp.WithMIMEType("application/json"),
		),
		s.readCategoriesResource,
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

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cs, err := s.svc.Categories(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cs)
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns, err := s.svc.Notes(ctx, s.userID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(ns)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.Note(ctx, s.userID, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note %d: %v", id, err)), nil
	}
	return jsonResult(n)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := noteIn(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.CreateNote(ctx, s.userID, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(n)
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in, err := noteIn(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.UpdateNote(ctx, s.userID, id, in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note %d: %v", id, err)), nil
	}
	return jsonResult(n)
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	deleted, err := s.svc.DeleteNote(ctx, s.userID, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !deleted {
		return mcp.NewToolResultText(fmt.Sprintf("note %d not found", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %d", id)), nil
}

func (s *Server) readCategoriesResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cs, err := s.svc.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      categoriesURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// requireID reads a numeric argument that must be a whole int32.
func requireID(req mcp.CallToolRequest, name string) (int32, error) {
	f, err := req.RequireFloat(name)
	if err != nil {
		return 0, err
	}
	return toInt32(name, f)
}

func toInt32(name string, f float64) (int32, error) {
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be a 32-bit integer, got %v", name, f)
	}
	return int32(f), nil
}

func noteIn(req mcp.CallToolRequest) (models.NoteIn, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return models.NoteIn{}, err
	}
	data, err := req.RequireString("data")
	if err != nil {
		return models.NoteIn{}, err
	}
	in := models.NoteIn{Title: title, Data: data}

	if _, ok := req.GetArguments()["category_id"]; ok {
		f, err := req.RequireFloat("category_id")
		if err != nil {
			return models.NoteIn{}, err
		}
		id, err := toInt32("category_id", f)
		if err != nil {
			return models.NoteIn{}, err
		}
		in.CategoryID = &id
	}
	return in, nil
}
