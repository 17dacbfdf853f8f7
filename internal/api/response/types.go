package response

import (
	"time"

	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/services/auth"
	"github.com/mcoot/wordgrid-go/internal/services/game"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Cell represents one board cell
type Cell struct {
	Letter   string `json:"letter,omitempty"`
	Bonus    string `json:"bonus,omitempty"`
	PlacedBy string `json:"placed_by,omitempty"`
	Consumed bool   `json:"consumed,omitempty"`
}

// Board represents a game board
type Board struct {
	Size  int      `json:"size"`
	Cells [][]Cell `json:"cells"`
}

// BoardFromModel converts model.Board to response Board
func BoardFromModel(b *model.Board) Board {
	cells := make([][]Cell, b.Size)
	for row := 0; row < b.Size; row++ {
		cells[row] = make([]Cell, b.Size)
		for col := 0; col < b.Size; col++ {
			c := b.Cells[row][col]
			cell := Cell{
				PlacedBy: string(c.PlacedBy),
				Consumed: c.Consumed,
			}
			if !c.IsEmpty() {
				cell.Letter = string(c.Letter)
			}
			if c.HasBonus() {
				cell.Bonus = string(c.Bonus)
			}
			cells[row][col] = cell
		}
	}
	return Board{Size: b.Size, Cells: cells}
}

// Position is a [row, col] pair
type Position [2]int

// FoundWord represents an accepted word
type FoundWord struct {
	Word       string     `json:"word"`
	Score      int        `json:"score"`
	Positions  []Position `json:"positions"`
	Horizontal bool       `json:"horizontal"`
}

// FoundWordsFromModel converts accepted words
func FoundWordsFromModel(words []model.FoundWord) []FoundWord {
	out := make([]FoundWord, len(words))
	for i, w := range words {
		positions := make([]Position, len(w.Positions))
		for j, p := range w.Positions {
			positions[j] = Position{p.Row, p.Col}
		}
		out[i] = FoundWord{
			Word:       w.Word,
			Score:      w.Score,
			Positions:  positions,
			Horizontal: w.Horizontal,
		}
	}
	return out
}

// Session represents a full game session
type Session struct {
	ID          string      `json:"id"`
	PlayerID    string      `json:"player_id"`
	Board       Board       `json:"board"`
	Rack        string      `json:"rack"`
	FoundWords  []FoundWord `json:"found_words"`
	Score       int         `json:"score"`
	WordCount   int         `json:"word_count"`
	RedrawsLeft int         `json:"redraws_left"`
	Won         bool        `json:"won"`
	Selected    *Position   `json:"selected,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// SessionFromModel converts model.GameSession
func SessionFromModel(s *model.GameSession) Session {
	var selected *Position
	if s.Selected != nil {
		selected = &Position{s.Selected.Row, s.Selected.Col}
	}
	return Session{
		ID:          string(s.ID),
		PlayerID:    string(s.PlayerID),
		Board:       BoardFromModel(s.Board),
		Rack:        s.Rack.String(),
		FoundWords:  FoundWordsFromModel(s.FoundWords),
		Score:       s.Score,
		WordCount:   s.WordCount(),
		RedrawsLeft: s.RedrawsLeft,
		Won:         s.Won,
		Selected:    selected,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// SessionSummary is a session listing entry
type SessionSummary struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	WordCount int       `json:"word_count"`
	Won       bool      `json:"won"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionListResponse is the response for listing sessions
type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// SessionListFromModel converts listing records
func SessionListFromModel(summaries []model.SessionSummary) SessionListResponse {
	out := make([]SessionSummary, len(summaries))
	for i, s := range summaries {
		out[i] = SessionSummary{
			ID:        string(s.ID),
			Score:     s.Score,
			WordCount: s.WordCount,
			Won:       s.Won,
			UpdatedAt: s.UpdatedAt,
		}
	}
	return SessionListResponse{Sessions: out}
}

// MutationResponse is returned by operations that may be no-ops
type MutationResponse struct {
	Applied bool    `json:"applied"`
	Session Session `json:"session"`
}

// SubmitResponse is returned by word submission
type SubmitResponse struct {
	Outcome  string      `json:"outcome"`
	NewWords []FoundWord `json:"new_words"`
	Gained   int         `json:"gained"`
	NowWon   bool        `json:"now_won"`
	Session  Session     `json:"session"`
}

// SubmitResponseFromResult converts a game.SubmitResult
func SubmitResponseFromResult(r game.SubmitResult) SubmitResponse {
	return SubmitResponse{
		Outcome:  string(r.Outcome),
		NewWords: FoundWordsFromModel(r.Words),
		Gained:   r.Gained,
		NowWon:   r.NowWon,
		Session:  SessionFromModel(r.Session),
	}
}

// LeaderboardEntry is one leaderboard row
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	SessionID   string    `json:"session_id"`
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	WordCount   int       `json:"word_count"`
	Won         bool      `json:"won"`
	CompletedAt time.Time `json:"completed_at"`
}

// LeaderboardResponse is the response for the leaderboard endpoint
type LeaderboardResponse struct {
	Period  string             `json:"period"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts ordered leaderboard entries
func LeaderboardFromModel(period string, entries []model.LeaderboardEntry) LeaderboardResponse {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			Rank:        i + 1,
			SessionID:   string(e.SessionID),
			PlayerID:    string(e.PlayerID),
			DisplayName: e.DisplayName,
			Score:       e.Score,
			WordCount:   e.WordCount,
			Won:         e.Won,
			CompletedAt: e.CompletedAt,
		}
	}
	return LeaderboardResponse{Period: period, Entries: out}
}

// LayoutResponse describes the bonus layout of a fresh board
type LayoutResponse struct {
	Size    int            `json:"size"`
	Bonuses [][]string     `json:"bonuses"`
	Counts  map[string]int `json:"counts"`
}

// LayoutFromBoard builds a LayoutResponse from an empty board
func LayoutFromBoard(b *model.Board, counts map[model.BonusType]int) LayoutResponse {
	bonuses := make([][]string, b.Size)
	for row := 0; row < b.Size; row++ {
		bonuses[row] = make([]string, b.Size)
		for col := 0; col < b.Size; col++ {
			bonuses[row][col] = string(b.Cells[row][col].Bonus)
		}
	}
	c := make(map[string]int, len(counts))
	for k, v := range counts {
		c[string(k)] = v
	}
	return LayoutResponse{Size: b.Size, Bonuses: bonuses, Counts: c}
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status          string `json:"status"`
	DictionaryWords int    `json:"dictionary_words"`
}
