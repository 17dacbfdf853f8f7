package scoring

import (
	"github.com/mcoot/wordgrid-go/internal/model"
)

// Scoring constants
const (
	LetterValue     = 10 // base points per letter
	LongWordLength  = 6  // words at least this long earn a length bonus
	LongWordPerChar = 10 // length bonus points per letter
	MinWordLength   = 3
)

// WordChecker validates words against a dictionary
type WordChecker interface {
	IsValidWord(word string) bool
}

// Run is a maximal contiguous sequence of occupied cells in one line
type Run struct {
	Word       string
	Positions  []model.Position
	Horizontal bool
}

// Service finds and scores words on a board
type Service struct {
	dictionary WordChecker
}

// New creates a new ScoringService
func New(dictionary WordChecker) *Service {
	return &Service{
		dictionary: dictionary,
	}
}

// FindRuns returns every maximal run of occupied cells, rows top to bottom
// (each scanned left to right) followed by columns left to right (each
// scanned top to bottom). Single letters are included.
func FindRuns(board *model.Board) []Run {
	var runs []Run

	// Find runs in rows (horizontal)
	for row := 0; row < board.Size; row++ {
		runs = append(runs, runsInLine(board, board.RowPositions(row), true)...)
	}

	// Find runs in columns (vertical)
	for col := 0; col < board.Size; col++ {
		runs = append(runs, runsInLine(board, board.ColPositions(col), false)...)
	}

	return runs
}

func runsInLine(board *model.Board, line []model.Position, horizontal bool) []Run {
	var runs []Run
	var current []model.Position

	flush := func() {
		if len(current) > 0 {
			letters := make([]rune, len(current))
			for i, p := range current {
				letters[i] = board.Get(p).Letter
			}
			runs = append(runs, Run{
				Word:       string(letters),
				Positions:  current,
				Horizontal: horizontal,
			})
			current = nil
		}
	}

	for _, p := range line {
		if board.IsEmpty(p) {
			flush()
			continue
		}
		current = append(current, p)
	}
	flush()

	return runs
}

// ScoreRun computes the points for a run using bonuses not yet consumed
func ScoreRun(board *model.Board, run Run) int {
	sum := 0
	wordMultiplier := 1
	for _, p := range run.Positions {
		cell := board.Get(p)
		value := LetterValue
		if !cell.Consumed {
			value *= cell.Bonus.LetterMultiplier()
			wordMultiplier *= cell.Bonus.WordMultiplier()
		}
		sum += value
	}

	score := sum * wordMultiplier
	if len(run.Positions) >= LongWordLength {
		score += len(run.Positions) * LongWordPerChar
	}
	return score
}

// FindWords returns every dictionary word on the board in discovery order,
// scored against the board's current consumed flags
func (s *Service) FindWords(board *model.Board) []model.FoundWord {
	var words []model.FoundWord
	for _, run := range FindRuns(board) {
		if len(run.Positions) < MinWordLength || !s.dictionary.IsValidWord(run.Word) {
			continue
		}
		words = append(words, model.FoundWord{
			Word:       run.Word,
			Score:      ScoreRun(board, run),
			Positions:  run.Positions,
			Horizontal: run.Horizontal,
		})
	}
	return words
}

// ConsumeBonuses marks every bonus cell under the word as consumed
func ConsumeBonuses(board *model.Board, word model.FoundWord) {
	for _, p := range word.Positions {
		if cell := board.At(p); cell != nil && cell.HasBonus() {
			cell.Consumed = true
		}
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	FindWords(board *model.Board) []model.FoundWord
}

var _ ServiceInterface = (*Service)(nil)
