package apperror

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrInvalidMove   = errors.New("move is out of history range")
	ErrCorruptedGame = errors.New("stored game is corrupted")
	ErrGameConflict  = errors.New("game was modified concurrently")
)
