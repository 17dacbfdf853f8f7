package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Session:
		o.printSession(v)
	case SessionList:
		o.printSessionList(v)
	case MutationResult:
		o.printMutationResult(v)
	case SubmitResult:
		o.printSubmitResult(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case Layout:
		o.printLayout(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Cell response type
type Cell struct {
	Letter   string `json:"letter,omitempty"`
	Bonus    string `json:"bonus,omitempty"`
	PlacedBy string `json:"placed_by,omitempty"`
	Consumed bool   `json:"consumed,omitempty"`
}

// Board response type
type Board struct {
	Size  int      `json:"size"`
	Cells [][]Cell `json:"cells"`
}

// FoundWord response type
type FoundWord struct {
	Word       string   `json:"word"`
	Score      int      `json:"score"`
	Positions  [][2]int `json:"positions"`
	Horizontal bool     `json:"horizontal"`
}

// Session response type
type Session struct {
	ID          string      `json:"id"`
	Board       Board       `json:"board"`
	Rack        string      `json:"rack"`
	FoundWords  []FoundWord `json:"found_words"`
	Score       int         `json:"score"`
	WordCount   int         `json:"word_count"`
	RedrawsLeft int         `json:"redraws_left"`
	Won         bool        `json:"won"`
	Selected    *[2]int     `json:"selected,omitempty"`
}

// SessionSummary response type
type SessionSummary struct {
	ID        string `json:"id"`
	Score     int    `json:"score"`
	WordCount int    `json:"word_count"`
	Won       bool   `json:"won"`
}

// SessionList response type
type SessionList struct {
	Sessions []SessionSummary `json:"sessions"`
}

// MutationResult response type
type MutationResult struct {
	Applied bool    `json:"applied"`
	Session Session `json:"session"`
}

// SubmitResult response type
type SubmitResult struct {
	Outcome  string      `json:"outcome"`
	NewWords []FoundWord `json:"new_words"`
	Gained   int         `json:"gained"`
	NowWon   bool        `json:"now_won"`
	Session  Session     `json:"session"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
	WordCount   int    `json:"word_count"`
	Won         bool   `json:"won"`
}

// Leaderboard response type
type Leaderboard struct {
	Period  string             `json:"period"`
	Entries []LeaderboardEntry `json:"entries"`
}

// Layout response type
type Layout struct {
	Size    int            `json:"size"`
	Bonuses [][]string     `json:"bonuses"`
	Counts  map[string]int `json:"counts"`
}

// HealthResult response type
type HealthResult struct {
	Status          string `json:"status"`
	DictionaryWords int    `json:"dictionary_words"`
}

// bonusMarks abbreviates bonus names for the text board
var bonusMarks = map[string]string{
	"double_letter": "dl",
	"triple_letter": "tl",
	"double_word":   "dw",
	"triple_word":   "tw",
	"center_star":   "**",
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Score: %d (%d words)\n", s.Score, s.WordCount)
	fmt.Printf("Rack: %s\n", strings.Join(strings.Split(s.Rack, ""), " "))
	fmt.Printf("Redraws left: %d\n", s.RedrawsLeft)
	if s.Selected != nil {
		fmt.Printf("Selected: (%d,%d)\n", s.Selected[0], s.Selected[1])
	}
	if s.Won {
		fmt.Println("Won!")
	}

	fmt.Println()
	o.printBoard(s.Board)

	if len(s.FoundWords) > 0 {
		fmt.Println("\nWords:")
		for _, w := range s.FoundWords {
			fmt.Printf("  - %s (%d pts)\n", w.Word, w.Score)
		}
	}
}

func (o *Output) printSessionList(l SessionList) {
	if len(l.Sessions) == 0 {
		fmt.Println("No sessions")
		return
	}
	for _, s := range l.Sessions {
		wonStr := ""
		if s.Won {
			wonStr = " [won]"
		}
		fmt.Printf("%s  score %d, %d words%s\n", s.ID, s.Score, s.WordCount, wonStr)
	}
}

func (o *Output) printMutationResult(m MutationResult) {
	if !m.Applied {
		fmt.Println("No change")
	}
	o.printSession(m.Session)
}

func (o *Output) printSubmitResult(r SubmitResult) {
	if len(r.NewWords) == 0 {
		fmt.Println("No new words")
	} else {
		fmt.Printf("New words (+%d):\n", r.Gained)
		for _, w := range r.NewWords {
			fmt.Printf("  - %s (%d pts)\n", w.Word, w.Score)
		}
	}
	if r.NowWon {
		fmt.Println("You won!")
	}
	fmt.Printf("Score: %d (%d words)\n", r.Session.Score, r.Session.WordCount)
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("Leaderboard (%s):\n", l.Period)
	if len(l.Entries) == 0 {
		fmt.Println("  No entries")
		return
	}
	for _, e := range l.Entries {
		wonStr := ""
		if e.Won {
			wonStr = " [won]"
		}
		fmt.Printf("  %2d. %-24s %5d  %2d words%s\n", e.Rank, e.DisplayName, e.Score, e.WordCount, wonStr)
	}
}

func (o *Output) printLayout(l Layout) {
	cells := make([][]Cell, len(l.Bonuses))
	for row := range l.Bonuses {
		cells[row] = make([]Cell, len(l.Bonuses[row]))
		for col, bonus := range l.Bonuses[row] {
			cells[row][col] = Cell{Bonus: bonus}
		}
	}
	o.printBoard(Board{Size: l.Size, Cells: cells})

	names := make([]string, 0, len(l.Counts))
	for name := range l.Counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nBonus cells:")
	for _, name := range names {
		fmt.Printf("  %-14s %d\n", name, l.Counts[name])
	}
}

func (o *Output) printBoard(b Board) {
	if len(b.Cells) == 0 {
		return
	}

	size := len(b.Cells)

	// Print column headers
	fmt.Print("    ")
	for col := 0; col < size; col++ {
		fmt.Printf(" %2d", col)
	}
	fmt.Println()

	// Print top border
	fmt.Print("   +")
	fmt.Print(strings.Repeat("---", size))
	fmt.Println("+")

	// Print rows
	for row := 0; row < size; row++ {
		fmt.Printf("%2d |", row)
		for col := 0; col < size; col++ {
			cell := b.Cells[row][col]
			switch {
			case cell.Letter != "":
				fmt.Printf("  %s", cell.Letter)
			case bonusMarks[cell.Bonus] != "" && !cell.Consumed:
				fmt.Printf(" %s", bonusMarks[cell.Bonus])
			default:
				fmt.Print("  .")
			}
		}
		fmt.Println("|")
	}

	// Print bottom border
	fmt.Print("   +")
	fmt.Print(strings.Repeat("---", size))
	fmt.Println("+")
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Dictionary words: %d\n", h.DictionaryWords)
}
