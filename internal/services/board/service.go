package board

import (
	"unicode"

	"github.com/mcoot/wordgrid-go/internal/model"
)

// NormalizeLetter uppercases a letter and reports whether it is A-Z
func NormalizeLetter(letter rune) (rune, bool) {
	upper := unicode.ToUpper(letter)
	if upper < 'A' || upper > 'Z' {
		return 0, false
	}
	return upper, true
}

// ValidateLetter checks if a letter is a valid A-Z character
func ValidateLetter(letter rune) error {
	if _, ok := NormalizeLetter(letter); !ok {
		return model.ErrInvalidLetter
	}
	return nil
}

// CanPlace reports whether a player letter may go on the cell
func CanPlace(b *model.Board, pos model.Position) bool {
	return b.IsValidPosition(pos) && b.IsEmpty(pos)
}

// Place puts a player letter on an empty cell. The cell's consumed flag is
// left as is. Returns false when the position is off-board, occupied, or
// the letter is not A-Z.
func Place(b *model.Board, pos model.Position, letter rune) bool {
	upper, ok := NormalizeLetter(letter)
	if !ok || !CanPlace(b, pos) {
		return false
	}
	cell := b.At(pos)
	cell.Letter = upper
	cell.PlacedBy = model.PlacedByPlayer
	return true
}

// Remove empties a player-placed cell and returns its letter.
// Fixed letters and empty cells are left untouched.
func Remove(b *model.Board, pos model.Position) (rune, bool) {
	cell := b.At(pos)
	if cell == nil || cell.IsEmpty() || cell.PlacedBy != model.PlacedByPlayer {
		return 0, false
	}
	letter := cell.Letter
	cell.Letter = 0
	cell.PlacedBy = model.PlacedByNone
	return letter, true
}

// Seed places a fixed letter that the player cannot remove
func Seed(b *model.Board, pos model.Position, letter rune) error {
	upper, ok := NormalizeLetter(letter)
	if !ok {
		return model.ErrInvalidLetter
	}
	if !b.IsValidPosition(pos) {
		return model.ErrInvalidPosition
	}
	if !b.IsEmpty(pos) {
		return model.ErrCellOccupied
	}
	cell := b.At(pos)
	cell.Letter = upper
	cell.PlacedBy = model.PlacedByFixed
	return nil
}
