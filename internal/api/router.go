package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordgrid-go/internal/api/handler"
	"github.com/mcoot/wordgrid-go/internal/api/middleware"
	"github.com/mcoot/wordgrid-go/internal/services/auth"
	"github.com/mcoot/wordgrid-go/internal/services/dictionary"
	"github.com/mcoot/wordgrid-go/internal/services/game"
	"github.com/mcoot/wordgrid-go/internal/services/leaderboard"
	"github.com/mcoot/wordgrid-go/internal/stream"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController game.ControllerInterface
	Leaderboard    leaderboard.ServiceInterface
	HubManager     *stream.HubManager
	Dictionary     dictionary.ServiceInterface
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	sessionHandler := handler.NewSessionHandler(cfg.GameController, cfg.HubManager, cfg.Logger)
	metaHandler := handler.NewMetaHandler(cfg.Leaderboard, cfg.Dictionary)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Session routes (all require auth)
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("", sessionHandler.List).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.End).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/place", sessionHandler.Place).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/remove", sessionHandler.Remove).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/recall", sessionHandler.Recall).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/shuffle", sessionHandler.Shuffle).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/redraw", sessionHandler.Redraw).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/select", sessionHandler.Select).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/submit", sessionHandler.Submit).Methods(http.MethodPost)

	// Live updates
	sessions.HandleFunc("/{id}/events", sessionHandler.Events).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/ws", sessionHandler.WebSocket).Methods(http.MethodGet)

	// Public routes
	api.HandleFunc("/leaderboard", metaHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/layout", metaHandler.Layout).Methods(http.MethodGet)
	api.HandleFunc("/health", metaHandler.Health).Methods(http.MethodGet)

	return r
}
