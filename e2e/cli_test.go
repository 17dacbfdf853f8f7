package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordgrid-go/internal/api"
	"github.com/mcoot/wordgrid-go/internal/factory"
	"github.com/mcoot/wordgrid-go/internal/model"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "wordgrid-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wordgrid")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	app      *factory.App
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application with the built-in dictionary
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		GameController: app.GameController,
		Leaderboard:    app.LeaderboardService,
		HubManager:     app.HubManager,
		Dictionary:     app.DictionaryService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		app:    app,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

// setRack replaces a session's random rack with known letters
func (ts *testServer) setRack(t *testing.T, id, letters string) {
	t.Helper()

	session, err := ts.app.Storage.GetSession(context.Background(), model.GameSessionID(id))
	require.NoError(t, err)
	session.Rack = model.NewRack([]rune(letters))
	require.NoError(t, ts.app.Storage.SaveSession(context.Background(), session))
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	Player struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	} `json:"player"`
	SessionToken string `json:"session_token"`
}

type sessionResponse struct {
	ID          string `json:"id"`
	Rack        string `json:"rack"`
	Score       int    `json:"score"`
	WordCount   int    `json:"word_count"`
	RedrawsLeft int    `json:"redraws_left"`
	Board       struct {
		Cells [][]struct {
			Letter string `json:"letter"`
		} `json:"cells"`
	} `json:"board"`
}

type mutationResponse struct {
	Applied bool            `json:"applied"`
	Session sessionResponse `json:"session"`
}

type submitResponse struct {
	Outcome  string `json:"outcome"`
	NewWords []struct {
		Word  string `json:"word"`
		Score int    `json:"score"`
	} `json:"new_words"`
	Gained int `json:"gained"`
}

type leaderboardResponse struct {
	Period  string `json:"period"`
	Entries []struct {
		Rank        int    `json:"rank"`
		DisplayName string `json:"display_name"`
		Score       int    `json:"score"`
	} `json:"entries"`
}

type healthResponse struct {
	Status          string `json:"status"`
	DictionaryWords int    `json:"dictionary_words"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Positive(t, resp.DictionaryWords)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create guest
	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.True(t, authResp.Player.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	var player struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, "Alice", player.DisplayName)
	assert.Equal(t, authResp.Player.ID, player.ID)

	// Logout clears the saved token
	output, err = cli.run("player", "logout")
	require.NoError(t, err, "output: %s", output)

	_, err = cli.run("player", "me")
	assert.Error(t, err)
}

func TestCLI_RegisterAndLogin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--user", "alice", "--pass", "secret123", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("player", "login", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.False(t, authResp.Player.IsGuest)
}

func TestCLI_FullSessionFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	// Start a session
	output, err = cli.run("session", "new")
	require.NoError(t, err, "output: %s", output)

	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	require.NotEmpty(t, session.ID)
	assert.Len(t, session.Rack, model.RackCapacity)
	ts.setRack(t, session.ID, "CATSDOGE")

	// Spell CAT along row 4
	for i, letter := range []string{"C", "A", "T"} {
		output, err = cli.run("session", "place", session.ID, "4", []string{"4", "5", "6"}[i], letter)
		require.NoError(t, err, "output: %s", output)

		var resp mutationResponse
		require.NoError(t, json.Unmarshal([]byte(output), &resp))
		assert.True(t, resp.Applied)
	}

	// Submit
	output, err = cli.run("session", "submit", session.ID)
	require.NoError(t, err, "output: %s", output)

	var submit submitResponse
	require.NoError(t, json.Unmarshal([]byte(output), &submit))
	assert.Equal(t, "accepted", submit.Outcome)
	require.Len(t, submit.NewWords, 1)
	assert.Equal(t, "CAT", submit.NewWords[0].Word)
	assert.Equal(t, 30, submit.Gained)

	// Rack management
	output, err = cli.run("session", "shuffle", session.ID)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("session", "redraw", session.ID)
	require.NoError(t, err, "output: %s", output)

	var redraw mutationResponse
	require.NoError(t, json.Unmarshal([]byte(output), &redraw))
	assert.Equal(t, model.StartingRedraws-1, redraw.Session.RedrawsLeft)

	output, err = cli.run("session", "recall", session.ID)
	require.NoError(t, err, "output: %s", output)

	var recall mutationResponse
	require.NoError(t, json.Unmarshal([]byte(output), &recall))
	assert.True(t, recall.Applied)
	assert.Empty(t, recall.Session.Board.Cells[4][4].Letter)
	assert.Equal(t, 30, recall.Session.Score)

	// End the session
	output, err = cli.run("session", "end", session.ID)
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Session ended", msg.Message)

	// The session shows on the leaderboard
	output, err = cli.run("leaderboard", "--period", "alltime")
	require.NoError(t, err, "output: %s", output)

	var board leaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	assert.Equal(t, "alltime", board.Period)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "Alice", board.Entries[0].DisplayName)
	assert.Equal(t, 30, board.Entries[0].Score)
}

func TestCLI_SessionList(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest")
	require.NoError(t, err, "output: %s", output)

	for i := 0; i < 2; i++ {
		output, err = cli.run("session", "new")
		require.NoError(t, err, "output: %s", output)
	}

	output, err = cli.run("session", "list")
	require.NoError(t, err, "output: %s", output)

	var list struct {
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	assert.Len(t, list.Sessions, 2)
}

func TestCLI_SeededSession(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("session", "new", "--seed", "7,7,Q", "--seed", "7,8,I")
	require.NoError(t, err, "output: %s", output)

	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	assert.Equal(t, "Q", session.Board.Cells[7][7].Letter)
	assert.Equal(t, "I", session.Board.Cells[7][8].Letter)

	output, err = cli.run("session", "new", "--seed", "7,7")
	assert.Error(t, err)
	assert.Contains(t, output, "row,col,letter")
}

func TestCLI_Layout(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("layout")
	require.NoError(t, err, "output: %s", output)

	var layout struct {
		Size   int            `json:"size"`
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &layout))
	assert.Equal(t, model.BoardSize, layout.Size)
	assert.NotEmpty(t, layout.Counts)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get player without auth
	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	// Get non-existent session
	output, err = cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err)
	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))

	output, err = cli.runWithToken(auth.SessionToken, "session", "get", "missing")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Bad letter is rejected client-side
	output, err = cli.runWithToken(auth.SessionToken, "session", "place", "missing", "0", "0", "AB")
	assert.Error(t, err)
	assert.Contains(t, output, "single character")
}
