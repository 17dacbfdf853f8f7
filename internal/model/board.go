package model

// BoardSize is the side length of the grid
const BoardSize = 15

// Position identifies a cell on the board
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

// BonusType is the scoring multiplier printed on a cell
type BonusType string

const (
	BonusNone         BonusType = "none"
	BonusDoubleLetter BonusType = "double_letter"
	BonusTripleLetter BonusType = "triple_letter"
	BonusDoubleWord   BonusType = "double_word"
	BonusTripleWord   BonusType = "triple_word"
	BonusCenterStar   BonusType = "center_star"
)

// LetterMultiplier returns the per-letter multiplier for the bonus
func (b BonusType) LetterMultiplier() int {
	switch b {
	case BonusTripleLetter:
		return 3
	case BonusDoubleLetter:
		return 2
	default:
		return 1
	}
}

// WordMultiplier returns the whole-word multiplier for the bonus
func (b BonusType) WordMultiplier() int {
	switch b {
	case BonusTripleWord:
		return 3
	case BonusDoubleWord, BonusCenterStar:
		return 2
	default:
		return 1
	}
}

// Placer records who put a letter on a cell
type Placer string

const (
	PlacedByNone   Placer = ""
	PlacedByPlayer Placer = "player"
	PlacedByFixed  Placer = "fixed" // pre-existing letters, never removable
)

// Cell is a single board square
type Cell struct {
	Letter   rune // 0 means empty
	Bonus    BonusType
	PlacedBy Placer
	Consumed bool // bonus already applied to an accepted word
}

// IsEmpty returns true if no letter occupies the cell
func (c Cell) IsEmpty() bool {
	return c.Letter == 0
}

// HasBonus returns true if the cell carries any multiplier
func (c Cell) HasBonus() bool {
	return c.Bonus != BonusNone && c.Bonus != ""
}

// Board is the game grid
type Board struct {
	Size  int
	Cells [][]Cell // Row-major: Cells[row][col]
}

// NewBoard creates an empty board of the given size with no bonuses
func NewBoard(size int) *Board {
	cells := make([][]Cell, size)
	for i := range cells {
		cells[i] = make([]Cell, size)
		for j := range cells[i] {
			cells[i][j].Bonus = BonusNone
		}
	}
	return &Board{
		Size:  size,
		Cells: cells,
	}
}

// Get returns the cell at the given position, or an empty cell if out of bounds
func (b *Board) Get(pos Position) Cell {
	if !b.IsValidPosition(pos) {
		return Cell{Bonus: BonusNone}
	}
	return b.Cells[pos.Row][pos.Col]
}

// At returns a pointer to the cell for in-place mutation, or nil if out of bounds
func (b *Board) At(pos Position) *Cell {
	if !b.IsValidPosition(pos) {
		return nil
	}
	return &b.Cells[pos.Row][pos.Col]
}

// IsEmpty returns true if the cell at the given position is empty
func (b *Board) IsEmpty(pos Position) bool {
	return b.Get(pos).IsEmpty()
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.Size && pos.Col >= 0 && pos.Col < b.Size
}

// OccupiedCount returns the number of cells holding a letter
func (b *Board) OccupiedCount() int {
	count := 0
	for row := 0; row < b.Size; row++ {
		for col := 0; col < b.Size; col++ {
			if !b.Cells[row][col].IsEmpty() {
				count++
			}
		}
	}
	return count
}

// PlayerPositions returns every player-placed cell in row-major order
func (b *Board) PlayerPositions() []Position {
	var positions []Position
	for row := 0; row < b.Size; row++ {
		for col := 0; col < b.Size; col++ {
			c := b.Cells[row][col]
			if !c.IsEmpty() && c.PlacedBy == PlacedByPlayer {
				positions = append(positions, Position{Row: row, Col: col})
			}
		}
	}
	return positions
}

// RowPositions returns the positions of a row, left to right
func (b *Board) RowPositions(row int) []Position {
	if row < 0 || row >= b.Size {
		return nil
	}
	result := make([]Position, b.Size)
	for col := 0; col < b.Size; col++ {
		result[col] = Position{Row: row, Col: col}
	}
	return result
}

// ColPositions returns the positions of a column, top to bottom
func (b *Board) ColPositions(col int) []Position {
	if col < 0 || col >= b.Size {
		return nil
	}
	result := make([]Position, b.Size)
	for row := 0; row < b.Size; row++ {
		result[row] = Position{Row: row, Col: col}
	}
	return result
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	cells := make([][]Cell, len(b.Cells))
	for i := range b.Cells {
		cells[i] = make([]Cell, len(b.Cells[i]))
		copy(cells[i], b.Cells[i])
	}
	return &Board{Size: b.Size, Cells: cells}
}

// SeededLetter is a fixed letter placed on a board before play starts
type SeededLetter struct {
	Position Position
	Letter   rune
}
