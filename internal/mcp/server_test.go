package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordgrid-go/internal/factory"
	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/services/board"
	"github.com/mcoot/wordgrid-go/internal/testutil"
)

type fixture struct {
	app    *factory.TestApp
	server *Server
	player model.PlayerID
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestDictionary())
	t.Cleanup(func() { _ = app.Close() })

	ctx := context.Background()
	guest, err := app.AuthService.CreateGuestPlayer(ctx, "Agent")
	require.NoError(t, err)

	return &fixture{
		app:    app,
		server: NewServer(app.GameController, app.LeaderboardService, guest.PlayerID, testutil.NopLogger()),
		player: guest.PlayerID,
		ctx:    ctx,
	}
}

// newSession creates a session holding the given rack
func (f *fixture) newSession(t *testing.T, letters string) model.GameSessionID {
	t.Helper()

	session, err := f.app.GameController.CreateSession(f.ctx, f.player)
	require.NoError(t, err)
	session.Rack = model.NewRack([]rune(letters))
	require.NoError(t, f.app.Storage.SaveSession(f.ctx, session))
	return session.ID
}

func request(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestNewServer(t *testing.T) {
	f := newFixture(t)

	assert.NotNil(t, f.server.MCPServer())
	assert.Equal(t, f.player, f.server.playerID)
}

func TestHandleNewSession(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleNewSession(f.ctx, request("new_session", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Created session: ")
	assert.Contains(t, text, "Redraws left: 3")

	summaries, err := f.app.GameController.ListSessions(f.ctx, f.player)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestHandleGetSessionUnknown(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleGetSession(f.ctx, request("get_session", map[string]interface{}{"session_id": "missing"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "session not found")
}

func TestHandlePlaceAndSubmit(t *testing.T) {
	f := newFixture(t)
	id := f.newSession(t, "CATSDOGE")

	for i, letter := range []string{"C", "A", "T"} {
		result, err := f.server.handlePlaceLetter(f.ctx, request("place_letter", map[string]interface{}{
			"session_id": string(id),
			"row":        float64(4),
			"col":        float64(4 + i),
			"letter":     letter,
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))
		assert.NotContains(t, resultText(t, result), "Letter not placed")
	}

	result, err := f.server.handleSubmitWords(f.ctx, request("submit_words", map[string]interface{}{"session_id": string(id)}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "New words (+30 points)")
	assert.Contains(t, text, "- CAT (30)")

	result, err = f.server.handleSubmitWords(f.ctx, request("submit_words", map[string]interface{}{"session_id": string(id)}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "No new words found.")
}

func TestHandlePlaceLetterValidation(t *testing.T) {
	f := newFixture(t)
	id := f.newSession(t, "CATSDOGE")

	result, err := f.server.handlePlaceLetter(f.ctx, request("place_letter", map[string]interface{}{
		"session_id": string(id), "row": float64(0), "col": float64(0), "letter": "AB",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = f.server.handlePlaceLetter(f.ctx, request("place_letter", map[string]interface{}{
		"session_id": string(id), "row": float64(15), "col": float64(0), "letter": "A",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "off the board")

	result, err = f.server.handlePlaceLetter(f.ctx, request("place_letter", map[string]interface{}{
		"session_id": string(id), "letter": "A",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	// Not on the rack: a no-op, not an error
	result, err = f.server.handlePlaceLetter(f.ctx, request("place_letter", map[string]interface{}{
		"session_id": string(id), "row": float64(0), "col": float64(0), "letter": "Z",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Letter not placed")
}

func TestHandleRemoveAndRecall(t *testing.T) {
	f := newFixture(t)
	id := f.newSession(t, "CATSDOGE")

	_, err := f.server.handlePlaceLetter(f.ctx, request("place_letter", map[string]interface{}{
		"session_id": string(id), "row": float64(4), "col": float64(4), "letter": "C",
	}))
	require.NoError(t, err)

	result, err := f.server.handleRemoveLetter(f.ctx, request("remove_letter", map[string]interface{}{
		"session_id": string(id), "row": float64(4), "col": float64(4),
	}))
	require.NoError(t, err)
	assert.NotContains(t, resultText(t, result), "Nothing removed")

	// Nothing left to recall
	recall := f.server.sessionAction(f.app.GameController.Recall)
	result, err = recall(f.ctx, request("recall_letters", map[string]interface{}{"session_id": string(id)}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "No change")
}

func TestHandleRedrawRack(t *testing.T) {
	f := newFixture(t)
	id := f.newSession(t, "CATSDOGE")
	redraw := f.server.sessionAction(f.app.GameController.Redraw)

	for i := 0; i < model.StartingRedraws; i++ {
		result, err := redraw(f.ctx, request("redraw_rack", map[string]interface{}{"session_id": string(id)}))
		require.NoError(t, err)
		assert.NotContains(t, resultText(t, result), "No change")
	}

	result, err := redraw(f.ctx, request("redraw_rack", map[string]interface{}{"session_id": string(id)}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "No change")
	assert.Contains(t, text, "Redraws left: 0")
}

func TestHandleEndSessionAndLeaderboard(t *testing.T) {
	f := newFixture(t)
	id := f.newSession(t, "CATSDOGE")

	for i, letter := range []string{"C", "A", "T"} {
		_, err := f.server.handlePlaceLetter(f.ctx, request("place_letter", map[string]interface{}{
			"session_id": string(id), "row": float64(4), "col": float64(4 + i), "letter": letter,
		}))
		require.NoError(t, err)
	}
	_, err := f.server.handleSubmitWords(f.ctx, request("submit_words", map[string]interface{}{"session_id": string(id)}))
	require.NoError(t, err)

	result, err := f.server.handleEndSession(f.ctx, request("end_session", map[string]interface{}{"session_id": string(id)}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	result, err = f.server.handleLeaderboard(f.ctx, request("leaderboard", map[string]interface{}{"period": "alltime"}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Leaderboard (alltime)")
	assert.Contains(t, text, "1. Agent - 30 points, 1 words")

	result, err = f.server.handleLeaderboard(f.ctx, request("leaderboard", map[string]interface{}{"period": "weekly"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleListSessions(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleListSessions(f.ctx, request("list_sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, "No sessions", resultText(t, result))

	f.newSession(t, "CATSDOGE")
	result, err = f.server.handleListSessions(f.ctx, request("list_sessions", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Sessions (1)")
}

func TestFormatBoard(t *testing.T) {
	b := board.NewBoard()
	b.Cells[0][1].Letter = 'Q'

	text := formatBoard(b)
	assert.Contains(t, text, "  Q")
	assert.Contains(t, text, " dw")
	assert.Contains(t, text, " **")
}
