// internal/game/store.go
//
// Persistence contract for the session state machine. Implementations may be
// backed by memory (internal/store/memory.go), SQLite
// (internal/store/sqlite.go), or any backend that can enforce the atomicity
// notes below. The interface lives next to its consumer; implementations
// import this package for the record types.

package game

import (
	"context"
	"time"
)

// Store persists sessions, players, and found words.
//
// Atomicity requirements:
//   - CreateSession fails with ErrCodeTaken if the code is already in use.
//   - AddPlayer checks capacity, assigns the join-order color, and inserts
//     in one atomic step, failing with ErrSessionFull or ErrGameEnded.
//   - RecordFind inserts the found word and applies the score delta
//     together or not at all, failing with ErrWordAlreadyFound if the word
//     has a record for the session, and with ErrNotStarted/ErrGameEnded if
//     the session is not active. Concurrent calls for the same
//     (session, word) must produce exactly one winner.
//   - StartSession and CompleteSession are compare-and-swap transitions;
//     status never moves backwards.
type Store interface {
	// CreateSession persists a new session and fills in its ID.
	CreateSession(ctx context.Context, s *Session) error

	// SessionByID returns a session or ErrSessionNotFound.
	SessionByID(ctx context.Context, id int64) (*Session, error)

	// SessionByCode returns a session by its join code or ErrSessionNotFound.
	SessionByCode(ctx context.Context, code string) (*Session, error)

	// StartSession transitions waiting → active and sets the start time.
	// Returns false if the session was not in the waiting state.
	StartSession(ctx context.Context, id int64, at time.Time) (bool, error)

	// CompleteSession transitions the session to completed and sets the end
	// time. Idempotent: completing a completed session returns (false, nil)
	// and leaves the end time untouched.
	CompleteSession(ctx context.Context, id int64, at time.Time) (bool, error)

	// AddPlayer inserts a player, filling in its ID and join-order color.
	AddPlayer(ctx context.Context, p *Player) error

	// PlayerByID returns a player or ErrPlayerNotFound.
	PlayerByID(ctx context.Context, id int64) (*Player, error)

	// PlayersBySession lists players ranked by score descending, join order
	// ascending.
	PlayersBySession(ctx context.Context, sessionID int64) ([]Player, error)

	// RecordFind appends a found-word record and adds points to the finder's
	// score atomically, returning the updated player.
	RecordFind(ctx context.Context, fw *FoundWord, points int) (*Player, error)

	// FoundWordsBySession lists found words in the order they were claimed.
	FoundWordsBySession(ctx context.Context, sessionID int64) ([]FoundWord, error)
}
