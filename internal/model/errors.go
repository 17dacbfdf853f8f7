package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrSessionNotFound = errors.New("game session not found")
	ErrNotSessionOwner = errors.New("player does not own this game session")

	// Board errors
	ErrInvalidPosition = errors.New("invalid board position")
	ErrInvalidLetter   = errors.New("invalid letter")
	ErrCellOccupied    = errors.New("cell is already occupied")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)
