package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/services/game"
	"github.com/mcoot/wordgrid-go/internal/services/leaderboard"
)

// Server exposes one player's game sessions as MCP tools. It talks to the
// game controller in-process rather than through the HTTP API.
type Server struct {
	controller  game.ControllerInterface
	leaderboard leaderboard.ServiceInterface
	playerID    model.PlayerID
	logger      *slog.Logger
	mcpServer   *server.MCPServer
}

// NewServer creates an MCP server acting as the given player
func NewServer(controller game.ControllerInterface, leaderboard leaderboard.ServiceInterface, playerID model.PlayerID, logger *slog.Logger) *Server {
	s := &Server{
		controller:  controller,
		leaderboard: leaderboard,
		playerID:    playerID,
		logger:      logger.With(slog.String("component", "mcp")),
	}

	s.mcpServer = server.NewMCPServer(
		"Word Grid",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the client disconnects
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

const instructions = `Word Grid - MCP Interface

Build words on a 15x15 board from an 8-letter rack.

RULES:
- Place rack letters on empty cells; the rack refills after every placement.
- Submit to score every new horizontal or vertical word of 3+ letters.
- Letters score 10 points each; words of 6+ letters earn 10 more per letter.
- Bonus cells (dl, tl, dw, tw, **) apply only the first time a word is
  scored across them.
- Find 30 words to win.
- Each session has 3 rack redraws.

AVAILABLE TOOLS:
- new_session / list_sessions / get_session / end_session
- place_letter / remove_letter / recall_letters
- shuffle_rack / redraw_rack
- submit_words
- leaderboard`

var (
	sessionIDProperty = map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
	rowProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Row (0-14)",
	}
	colProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Column (0-14)",
	}
)

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Session management
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_session",
		Description: "Start a new game session with a fresh board and rack",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleNewSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List your game sessions, most recent first",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Show the board, rack, score and found words of a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, s.handleGetSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "end_session",
		Description: "End a session and record its score",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, s.handleEndSession)

	// Board operations
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "place_letter",
		Description: "Place a letter from the rack on an empty board cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty,
				"row":        rowProperty,
				"col":        colProperty,
				"letter": map[string]interface{}{
					"type":        "string",
					"description": "A single letter A-Z from the rack",
				},
			},
			Required: []string{"session_id", "row", "col", "letter"},
		},
	}, s.handlePlaceLetter)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_letter",
		Description: "Return a letter you placed to the rack",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty,
				"row":        rowProperty,
				"col":        colProperty,
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, s.handleRemoveLetter)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "recall_letters",
		Description: "Return every placed letter to the rack",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, s.sessionAction(s.controller.Recall))

	// Rack operations
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "shuffle_rack",
		Description: "Reorder the letters in the rack",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, s.sessionAction(s.controller.Shuffle))

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "redraw_rack",
		Description: "Replace the rack with new letters (limited per session)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, s.sessionAction(s.controller.Redraw))

	// Scoring
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_words",
		Description: "Score every new word currently on the board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, s.handleSubmitWords)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the top scores",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"period": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"daily", "alltime"},
					"description": "Leaderboard period (default daily)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of entries",
				},
			},
		},
	}, s.handleLeaderboard)
}

// Tool handlers

func (s *Server) handleNewSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session, err := s.controller.CreateSession(ctx, s.playerID)
	if err != nil {
		return s.toolError("new_session", err), nil
	}

	return mcp.NewToolResultText("Created session: " + string(session.ID) + "\n\n" + formatSession(session)), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := s.controller.ListSessions(ctx, s.playerID)
	if err != nil {
		return s.toolError("list_sessions", err), nil
	}

	if len(summaries) == 0 {
		return mcp.NewToolResultText("No sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sessions (%d):\n", len(summaries))
	for _, sum := range summaries {
		fmt.Fprintf(&b, "- %s: %d points, %d words", sum.ID, sum.Score, sum.WordCount)
		if sum.Won {
			b.WriteString(" [won]")
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	session, err := s.controller.GetSession(ctx, sessionIDArg(args), s.playerID)
	if err != nil {
		return s.toolError("get_session", err), nil
	}

	return mcp.NewToolResultText(formatSession(session)), nil
}

func (s *Server) handleEndSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id := sessionIDArg(args)

	if err := s.controller.EndSession(ctx, id, s.playerID); err != nil {
		return s.toolError("end_session", err), nil
	}

	return mcp.NewToolResultText("Ended session " + string(id)), nil
}

func (s *Server) handlePlaceLetter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	letter, _ := args["letter"].(string)
	runes := []rune(letter)
	if len(runes) != 1 {
		return mcp.NewToolResultError("letter must be a single character A-Z"), nil
	}

	session, applied, err := s.controller.Place(ctx, sessionIDArg(args), s.playerID, pos, runes[0])
	if err != nil {
		return s.toolError("place_letter", err), nil
	}

	return mutationResult(session, applied, "Letter not placed: the cell must be empty and the letter must be on your rack"), nil
}

func (s *Server) handleRemoveLetter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session, applied, err := s.controller.Remove(ctx, sessionIDArg(args), s.playerID, pos)
	if err != nil {
		return s.toolError("remove_letter", err), nil
	}

	return mutationResult(session, applied, "Nothing removed: only letters you placed can be removed"), nil
}

// sessionAction adapts a session-only controller operation into a tool handler
func (s *Server) sessionAction(op func(context.Context, model.GameSessionID, model.PlayerID) (*model.GameSession, bool, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := arguments(request)

		session, applied, err := op(ctx, sessionIDArg(args), s.playerID)
		if err != nil {
			return s.toolError(request.Params.Name, err), nil
		}

		return mutationResult(session, applied, "No change"), nil
	}
}

func (s *Server) handleSubmitWords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	result, err := s.controller.Submit(ctx, sessionIDArg(args), s.playerID)
	if err != nil {
		return s.toolError("submit_words", err), nil
	}

	var b strings.Builder
	if result.Outcome == game.OutcomeNoNewWords {
		b.WriteString("No new words found.\n")
	} else {
		fmt.Fprintf(&b, "New words (+%d points):\n", result.Gained)
		for _, w := range result.Words {
			fmt.Fprintf(&b, "- %s (%d)\n", w.Word, w.Score)
		}
	}
	if result.NowWon {
		fmt.Fprintf(&b, "\nYou won with %d words!\n", result.Session.WordCount())
	}
	b.WriteString("\n")
	b.WriteString(formatSession(result.Session))
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	periodName, _ := args["period"].(string)
	period, err := leaderboard.ParsePeriod(periodName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	limit, _ := intArg(args, "limit")
	entries, err := s.leaderboard.Top(ctx, period, limit)
	if err != nil {
		return s.toolError("leaderboard", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Leaderboard (%s):\n", period)
	if len(entries) == 0 {
		b.WriteString("No entries yet\n")
	}
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s - %d points, %d words", i+1, e.DisplayName, e.Score, e.WordCount)
		if e.Won {
			b.WriteString(" [won]")
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// toolError reports a failed operation as a tool error result
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrNotSessionOwner):
		return mcp.NewToolResultError("session not found")
	case errors.Is(err, model.ErrPlayerNotFound):
		return mcp.NewToolResultError("player not found")
	}
	s.logger.Error("tool failed", slog.String("tool", tool), slog.String("error", err.Error()))
	return mcp.NewToolResultError("internal error")
}

func mutationResult(session *model.GameSession, applied bool, rejected string) *mcp.CallToolResult {
	text := formatSession(session)
	if !applied {
		text = rejected + "\n\n" + text
	}
	return mcp.NewToolResultText(text)
}
