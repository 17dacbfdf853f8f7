package mcp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcoot/wordgrid-go/internal/model"
)

var bonusMarks = map[model.BonusType]string{
	model.BonusDoubleLetter: "dl",
	model.BonusTripleLetter: "tl",
	model.BonusDoubleWord:   "dw",
	model.BonusTripleWord:   "tw",
	model.BonusCenterStar:   "**",
}

// formatSession renders a session as plain text for tool results
func formatSession(s *model.GameSession) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", s.ID)
	fmt.Fprintf(&b, "Score: %d | Words: %d/%d | Redraws left: %d\n", s.Score, s.WordCount(), model.WinThreshold, s.RedrawsLeft)
	fmt.Fprintf(&b, "Rack: %s\n", strings.Join(strings.Split(s.Rack.String(), ""), " "))
	if s.Won {
		b.WriteString("Status: WON\n")
	}

	b.WriteString("\n")
	b.WriteString(formatBoard(s.Board))

	if len(s.FoundWords) > 0 {
		b.WriteString("\nFound words:\n")
		for _, w := range s.FoundWords {
			fmt.Fprintf(&b, "- %s (%d)\n", w.Word, w.Score)
		}
	}
	return b.String()
}

// formatBoard draws the grid with row/column indexes. Unused bonus cells
// show their abbreviation, empty cells a dot.
func formatBoard(board *model.Board) string {
	var b strings.Builder

	b.WriteString("   ")
	for col := 0; col < board.Size; col++ {
		fmt.Fprintf(&b, " %2d", col)
	}
	b.WriteString("\n")

	for row := 0; row < board.Size; row++ {
		fmt.Fprintf(&b, "%2d ", row)
		for col := 0; col < board.Size; col++ {
			cell := board.Cells[row][col]
			switch {
			case !cell.IsEmpty():
				fmt.Fprintf(&b, "  %c", cell.Letter)
			case cell.HasBonus() && !cell.Consumed:
				fmt.Fprintf(&b, " %s", bonusMarks[cell.Bonus])
			default:
				b.WriteString("  .")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// arguments returns the tool call arguments, or an empty map
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func sessionIDArg(args map[string]interface{}) model.GameSessionID {
	id, _ := args["session_id"].(string)
	return model.GameSessionID(id)
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func positionArg(args map[string]interface{}) (model.Position, error) {
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return model.Position{}, errors.New("row and col are required integers")
	}
	pos := model.Position{Row: row, Col: col}
	if row < 0 || row >= model.BoardSize || col < 0 || col >= model.BoardSize {
		return pos, fmt.Errorf("position (%d,%d) is off the board", row, col)
	}
	return pos, nil
}
