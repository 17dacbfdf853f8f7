package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/wordgrid-go/internal/api/response"
	"github.com/mcoot/wordgrid-go/internal/services/board"
	"github.com/mcoot/wordgrid-go/internal/services/dictionary"
	"github.com/mcoot/wordgrid-go/internal/services/leaderboard"
)

// MetaHandler serves the leaderboard, board layout and health endpoints
type MetaHandler struct {
	leaderboard leaderboard.ServiceInterface
	dictionary  dictionary.ServiceInterface
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(leaderboard leaderboard.ServiceInterface, dictionary dictionary.ServiceInterface) *MetaHandler {
	return &MetaHandler{
		leaderboard: leaderboard,
		dictionary:  dictionary,
	}
}

// Leaderboard handles GET /api/v1/leaderboard?period=daily|alltime&limit=n
func (h *MetaHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period, err := leaderboard.ParsePeriod(q.Get("period"))
	if err != nil {
		WriteError(w, err)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
	}

	entries, err := h.leaderboard.Top(r.Context(), period, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(string(period), entries))
}

// Layout handles GET /api/v1/layout
func (h *MetaHandler) Layout(w http.ResponseWriter, r *http.Request) {
	b := board.NewBoard()
	response.JSON(w, http.StatusOK, response.LayoutFromBoard(b, board.BonusCounts(b)))
}

// Health handles GET /api/v1/health
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := response.HealthResponse{Status: "ok"}
	if h.dictionary != nil {
		resp.DictionaryWords = h.dictionary.WordCount()
	}
	response.JSON(w, http.StatusOK, resp)
}
