// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the study tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/scistudy/internal/app"
	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/view"
)

const guideURI = "scistudy://guide"

// Core is the part of the study core the tools need.
type Core interface {
	view.Dispatcher
	State(ctx context.Context) (app.State, error)
	Notes(ctx context.Context, filter models.SubjectFilter) ([]models.Note, error)
}

// Server wraps the MCP server with the study tools.
type Server struct {
	mcp  *server.MCPServer
	core Core
}

// New creates a new MCP server with all study tools registered.
func New(core Core, version string) *Server {
	s := &Server{core: core}

	s.mcp = server.NewMCPServer(
		"SciStudy",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_terms",
		mcp.WithDescription("Search the English to Arabic scientific term catalog by English substring."),
		mcp.WithString("query", mcp.Required(), mcp.Description("At least two characters")),
	), s.searchTerms)

	s.mcp.AddTool(mcp.NewTool("translate_term",
		mcp.WithDescription("Translate an exact English catalog term to Arabic with its transliteration."),
		mcp.WithString("english", mcp.Required(), mcp.Description("English term exactly as listed in the catalog")),
	), s.translateTerm)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List study notes, newest first, optionally filtered by subject."),
		mcp.WithString("subject", mcp.Description("Subject filter (empty or 'all' for every note)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a study note. Read the study guide via the get_study_guide tool "+
			"or the "+guideURI+" resource for the accepted subjects."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note body")),
		mcp.WithString("subject", mcp.Description("Subject (defaults to biology)")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a study note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("timer_status",
		mcp.WithDescription("Current Pomodoro timer phase, countdown and today's study statistics."),
	), s.timerStatus)

	s.mcp.AddTool(mcp.NewTool("timer_control",
		mcp.WithDescription("Control the Pomodoro timer."),
		mcp.WithString("action", mcp.Required(), mcp.Enum("start", "pause", "reset", "quick")),
	), s.timerControl)

	s.mcp.AddTool(mcp.NewTool("get_study_guide",
		mcp.WithDescription("Returns the study data model: note rules, subjects, term categories and timer behaviour."),
	), s.getStudyGuide)

	s.mcp.AddResource(
		mcp.NewResource(guideURI, "Study Guide",
			mcp.WithResourceDescription("Study data model for notes, terms and the timer."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
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

func (s *Server) dispatch(ctx context.Context, action string, payload any) (any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return s.core.Dispatch(ctx, action, raw)
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) searchTerms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.dispatch(ctx, view.ActionTranslatorSearch, map[string]string{"query": query})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	terms, _ := res.([]models.Term)
	if len(terms) == 0 {
		return mcp.NewToolResultText("no terms found"), nil
	}
	return jsonResult(terms), nil
}

func (s *Server) translateTerm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	english, err := req.RequireString("english")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.dispatch(ctx, view.ActionTranslatorSelect, map[string]string{"english": english})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", english)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := models.ParseSubjectFilter(req.GetString("subject", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := s.core.Notes(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(list) == 0 {
		return mcp.NewToolResultText("no notes"), nil
	}
	lines := make([]string, len(list))
	for i, n := range list {
		lines[i] = fmt.Sprintf("%s\t%s\t%s", n.ID, n.Subject, n.Title)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.dispatch(ctx, view.ActionNotesCreate, map[string]string{
		"title":   title,
		"subject": req.GetString("subject", ""),
		"content": content,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, _ := res.(models.Note)
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.ID)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.dispatch(ctx, view.ActionNotesDelete, map[string]string{"id": id})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if removed, _ := res.(bool); !removed {
		return mcp.NewToolResultText(fmt.Sprintf("no note with id %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) timerStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.core.State(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st.Timer), nil
}

func (s *Server) timerControl(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	verb, err := req.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	actions := map[string]string{
		"start": view.ActionTimerStart,
		"pause": view.ActionTimerPause,
		"reset": view.ActionTimerReset,
		"quick": view.ActionTimerQuick,
	}
	action, ok := actions[verb]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown timer action %q", verb)), nil
	}
	if _, err := s.core.Dispatch(ctx, action, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.timerStatus(ctx, req)
}

func (s *Server) getStudyGuide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(StudyGuide), nil
}

func (s *Server) readGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     StudyGuide,
		},
	}, nil
}
