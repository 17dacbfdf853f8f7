package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordgrid-go/internal/api/middleware"
	"github.com/mcoot/wordgrid-go/internal/api/request"
	"github.com/mcoot/wordgrid-go/internal/api/response"
	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/services/board"
	"github.com/mcoot/wordgrid-go/internal/services/game"
	"github.com/mcoot/wordgrid-go/internal/stream"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	controller game.ControllerInterface
	hubManager *stream.HubManager
	logger     *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller game.ControllerInterface, hubManager *stream.HubManager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		hubManager: hubManager,
		logger:     logger,
	}
}

// mutation is a controller operation that may be a no-op
type mutation func(r *http.Request, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error)

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateSessionRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	seeds := make([]model.SeededLetter, 0, len(req.Seeds))
	for _, sr := range req.Seeds {
		if sr.Row == nil || sr.Col == nil {
			WriteError(w, NewInvalidRequestError("seeds need row and col"))
			return
		}
		if utf8.RuneCountInString(sr.Letter) != 1 {
			WriteError(w, model.ErrInvalidLetter)
			return
		}
		letter, _ := utf8.DecodeRuneInString(sr.Letter)
		seeds = append(seeds, model.SeededLetter{
			Position: model.Position{Row: *sr.Row, Col: *sr.Col},
			Letter:   letter,
		})
	}

	session, err := h.controller.CreateSession(r.Context(), player.ID, seeds...)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	summaries, err := h.controller.ListSessions(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionListFromModel(summaries))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	session, err := h.controller.GetSession(r.Context(), sessionID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// End handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.controller.EndSession(r.Context(), sessionID(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Place handles POST /api/v1/sessions/{id}/place
func (h *SessionHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req request.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	pos, err := position(req.Row, req.Col)
	if err != nil {
		WriteError(w, err)
		return
	}
	if utf8.RuneCountInString(req.Letter) != 1 {
		WriteError(w, model.ErrInvalidLetter)
		return
	}
	letter, _ := utf8.DecodeRuneInString(req.Letter)
	if err := board.ValidateLetter(letter); err != nil {
		WriteError(w, err)
		return
	}

	h.mutate(w, r, func(r *http.Request, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error) {
		return h.controller.Place(r.Context(), id, playerID, pos, letter)
	})
}

// Remove handles POST /api/v1/sessions/{id}/remove
func (h *SessionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	pos, err := decodePosition(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.mutate(w, r, func(r *http.Request, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error) {
		return h.controller.Remove(r.Context(), id, playerID, pos)
	})
}

// Recall handles POST /api/v1/sessions/{id}/recall
func (h *SessionHandler) Recall(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(r *http.Request, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error) {
		return h.controller.Recall(r.Context(), id, playerID)
	})
}

// Shuffle handles POST /api/v1/sessions/{id}/shuffle
func (h *SessionHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(r *http.Request, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error) {
		return h.controller.Shuffle(r.Context(), id, playerID)
	})
}

// Redraw handles POST /api/v1/sessions/{id}/redraw
func (h *SessionHandler) Redraw(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(r *http.Request, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error) {
		return h.controller.Redraw(r.Context(), id, playerID)
	})
}

// Select handles POST /api/v1/sessions/{id}/select. Off-board positions
// clear the selection.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req request.PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Row == nil || req.Col == nil {
		WriteError(w, NewInvalidRequestError("row and col are required"))
		return
	}
	pos := model.Position{Row: *req.Row, Col: *req.Col}

	h.mutate(w, r, func(r *http.Request, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error) {
		return h.controller.Select(r.Context(), id, playerID, pos)
	})
}

// Submit handles POST /api/v1/sessions/{id}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	result, err := h.controller.Submit(r.Context(), sessionID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SubmitResponseFromResult(result))
}

// Events handles GET /api/v1/sessions/{id}/events (server-sent events)
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	hub, player, ok := h.streamHub(w, r)
	if !ok {
		return
	}
	stream.ServeSSE(w, r, hub, player.ID)
}

// WebSocket handles GET /api/v1/sessions/{id}/ws
func (h *SessionHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	hub, player, ok := h.streamHub(w, r)
	if !ok {
		return
	}
	stream.ServeWS(w, r, hub, player.ID)
}

// streamHub checks the caller owns the session and returns its hub
func (h *SessionHandler) streamHub(w http.ResponseWriter, r *http.Request) (*stream.Hub, *model.Player, bool) {
	player := middleware.MustGetPlayer(r.Context())
	id := sessionID(r)

	if _, err := h.controller.GetSession(r.Context(), id, player.ID); err != nil {
		WriteError(w, err)
		return nil, nil, false
	}

	return h.hubManager.GetOrCreateHub(id), player, true
}

func (h *SessionHandler) mutate(w http.ResponseWriter, r *http.Request, op mutation) {
	player := middleware.MustGetPlayer(r.Context())

	session, applied, err := op(r, sessionID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MutationResponse{
		Applied: applied,
		Session: response.SessionFromModel(session),
	})
}

func sessionID(r *http.Request) model.GameSessionID {
	return model.GameSessionID(mux.Vars(r)["id"])
}

func decodePosition(r *http.Request) (model.Position, error) {
	var req request.PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return model.Position{}, NewInvalidRequestError("invalid request body")
	}
	return position(req.Row, req.Col)
}

// position validates a required on-board position
func position(row, col *int) (model.Position, error) {
	if row == nil || col == nil {
		return model.Position{}, NewInvalidRequestError("row and col are required")
	}
	pos := model.Position{Row: *row, Col: *col}
	if pos.Row < 0 || pos.Row >= model.BoardSize || pos.Col < 0 || pos.Col >= model.BoardSize {
		return model.Position{}, model.ErrInvalidPosition
	}
	return pos, nil
}
