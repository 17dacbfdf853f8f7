package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mcoot/wordgrid-go/internal/factory"
	"github.com/mcoot/wordgrid-go/internal/mcp"
)

var (
	playerName     = flag.String("name", "", "Display name for the MCP player (generated if empty)")
	dictionaryPath = flag.String("dictionary", "", "Path to a word list file (built-in list if empty)")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	path := *dictionaryPath
	if path == "" {
		path = os.Getenv("DICTIONARY_PATH")
	}

	app, err := factory.New(factory.Config{
		DictionaryPath: path,
		Logger:         logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	guest, err := app.AuthService.CreateGuestPlayer(context.Background(), *playerName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create player: %v\n", err)
		os.Exit(1)
	}

	server := mcp.NewServer(app.GameController, app.LeaderboardService, guest.PlayerID, logger)
	if err := server.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
