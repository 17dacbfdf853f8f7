package board

import "github.com/mcoot/wordgrid-go/internal/model"

// Center is the center star cell
var Center = model.Position{Row: 7, Col: 7}

// Bonus coordinate tables for the 15x15 layout
var (
	tripleWordCells = []model.Position{
		{Row: 0, Col: 0}, {Row: 0, Col: 14}, {Row: 14, Col: 0}, {Row: 14, Col: 14},
		{Row: 0, Col: 7}, {Row: 14, Col: 7}, {Row: 7, Col: 0}, {Row: 7, Col: 14},
	}

	// Nine cells, kept exactly as the reference layout has them rather
	// than mirrored into a symmetric set
	doubleWordCells = []model.Position{
		{Row: 1, Col: 1}, {Row: 2, Col: 2}, {Row: 3, Col: 3},
		{Row: 1, Col: 13}, {Row: 2, Col: 12},
		{Row: 13, Col: 1}, {Row: 12, Col: 2},
		{Row: 13, Col: 13}, {Row: 12, Col: 12},
	}

	tripleLetterCells = []model.Position{
		{Row: 1, Col: 5}, {Row: 1, Col: 9},
		{Row: 5, Col: 1}, {Row: 5, Col: 5}, {Row: 5, Col: 9}, {Row: 5, Col: 13},
		{Row: 9, Col: 1}, {Row: 9, Col: 5}, {Row: 9, Col: 9}, {Row: 9, Col: 13},
		{Row: 13, Col: 5}, {Row: 13, Col: 9},
	}

	doubleLetterCells = []model.Position{
		{Row: 0, Col: 3}, {Row: 0, Col: 11},
		{Row: 2, Col: 6}, {Row: 2, Col: 8},
		{Row: 3, Col: 0}, {Row: 3, Col: 7},
		{Row: 6, Col: 2}, {Row: 6, Col: 6}, {Row: 6, Col: 8}, {Row: 6, Col: 12},
		{Row: 7, Col: 3}, {Row: 7, Col: 11},
		{Row: 8, Col: 2}, {Row: 8, Col: 6}, {Row: 8, Col: 8}, {Row: 8, Col: 12},
		{Row: 11, Col: 0}, {Row: 11, Col: 7},
		{Row: 12, Col: 6}, {Row: 12, Col: 8},
		{Row: 14, Col: 3}, {Row: 14, Col: 11},
	}
)

func contains(cells []model.Position, pos model.Position) bool {
	for _, c := range cells {
		if c == pos {
			return true
		}
	}
	return false
}

// BonusAt returns the bonus printed on a cell of the standard layout.
// Rules are checked in priority order; off-board positions have no bonus.
func BonusAt(pos model.Position) model.BonusType {
	switch {
	case pos.Row < 0 || pos.Row >= model.BoardSize || pos.Col < 0 || pos.Col >= model.BoardSize:
		return model.BonusNone
	case pos == Center:
		return model.BonusCenterStar
	case contains(tripleWordCells, pos):
		return model.BonusTripleWord
	case contains(doubleWordCells, pos):
		return model.BonusDoubleWord
	case contains(tripleLetterCells, pos):
		return model.BonusTripleLetter
	case contains(doubleLetterCells, pos):
		return model.BonusDoubleLetter
	default:
		return model.BonusNone
	}
}

// NewBoard creates an empty board with the standard bonus layout
func NewBoard() *model.Board {
	b := model.NewBoard(model.BoardSize)
	for row := 0; row < b.Size; row++ {
		for col := 0; col < b.Size; col++ {
			b.Cells[row][col].Bonus = BonusAt(model.Position{Row: row, Col: col})
		}
	}
	return b
}

// BonusCounts returns how many cells carry each bonus type
func BonusCounts(b *model.Board) map[model.BonusType]int {
	counts := make(map[model.BonusType]int)
	for row := 0; row < b.Size; row++ {
		for col := 0; col < b.Size; col++ {
			counts[b.Cells[row][col].Bonus]++
		}
	}
	return counts
}
