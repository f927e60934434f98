// internal/game/errors.go
//
// Domain error taxonomy. Handlers map these onto HTTP statuses; stores
// return them directly where the condition is detected at the storage layer
// (duplicate code, duplicate find, capacity).

package game

import "errors"

var (
	// Not-found conditions.
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerNotFound  = errors.New("player not found")

	// Conflicts: the requested change is no longer valid.
	ErrGameEnded        = errors.New("game has already ended")
	ErrSessionFull      = errors.New("session is full")
	ErrWordAlreadyFound = errors.New("word already found")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrNotStarted       = errors.New("game has not started")
	ErrCodeTaken        = errors.New("session code taken")

	// Caller input errors.
	ErrInvalidWord       = errors.New("invalid word")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidName       = errors.New("invalid player name")
	ErrInvalidCoords     = errors.New("invalid coordinates")
)
