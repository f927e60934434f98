// internal/game/service.go
//
// Session state machine for the word-search game.
// Responsibilities:
//   - Create sessions from the difficulty table (vocabulary sample, grid
//     generation, join-code allocation with bounded retry).
//   - Enforce lifecycle invariants: join capacity, monotonic status
//     transitions, submissions only while active.
//   - Validate word claims against the stored grid and placed-word list,
//     accepting both orientations of a straight-line selection.
//   - Compute remaining time and complete expired sessions cooperatively on
//     the polled read path; no internal timers.
//
// All operations are short, synchronous, and safe under concurrent callers
// for the same session: the store serializes the contended writes.

package game

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/barbarayam/word-search-game/internal/grid"
	"github.com/barbarayam/word-search-game/internal/words"
)

// maxPlayerNameLen bounds join names.
const maxPlayerNameLen = 100

// Service owns session lifecycle on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a Service using the wall clock.
func NewService(st Store) *Service {
	return &Service{store: st, now: time.Now}
}

// NewServiceWithClock constructs a Service with an injected clock, for
// deterministic expiry tests.
func NewServiceWithClock(st Store, now func() time.Time) *Service {
	return &Service{store: st, now: now}
}

// CreateSession builds a new waiting session for the given difficulty. An
// empty difficulty defaults to medium. The grid and word list are immutable
// once stored; words that could not be placed are already dropped by the
// generator.
func (s *Service) CreateSession(ctx context.Context, d Difficulty) (*Session, error) {
	if d == "" {
		d = DifficultyMedium
	}
	cfg, ok := difficultyConfigs[d]
	if !ok {
		return nil, ErrInvalidDifficulty
	}

	pool := words.Sample(cfg.WordCount)
	g, placed := grid.Generate(pool, cfg.GridSize)
	if len(placed) < len(pool) {
		log.Warn().
			Int("requested", len(pool)).
			Int("placed", len(placed)).
			Msg("session starts with fewer words than requested")
	}

	// The code generator is stateless; retry on a store-level collision.
	var lastErr error
	for i := 0; i < codeRetries; i++ {
		sess := &Session{
			Code:       grid.NewCode(),
			Status:     StatusWaiting,
			Difficulty: d,
			Duration:   cfg.Duration,
			MaxPlayers: MaxPlayers,
			Grid:       g,
			Words:      placed,
			CreatedAt:  s.now(),
		}
		err := s.store.CreateSession(ctx, sess)
		if err == nil {
			return sess, nil
		}
		if err != ErrCodeTaken {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// Join adds a named player to the session identified by code. The store
// assigns the join-order palette color and enforces capacity.
func (s *Service) Join(ctx context.Context, code, name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxPlayerNameLen {
		return nil, ErrInvalidName
	}

	sess, err := s.store.SessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if sess.Status == StatusCompleted {
		return nil, ErrGameEnded
	}

	p := &Player{
		SessionID: sess.ID,
		Name:      name,
		JoinedAt:  s.now(),
	}
	if err := s.store.AddPlayer(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Start transitions the session from waiting to active and stamps the start
// time. Starting a session twice is rejected, not ignored: a silent no-op
// would hide a double-start bug in the host client.
func (s *Service) Start(ctx context.Context, sessionID int64) error {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	switch sess.Status {
	case StatusCompleted:
		return ErrGameEnded
	case StatusActive:
		return ErrAlreadyStarted
	}

	applied, err := s.store.StartSession(ctx, sessionID, s.now())
	if err != nil {
		return err
	}
	if !applied {
		// Lost the race against another start or an end.
		return ErrAlreadyStarted
	}
	return nil
}

// Submit claims the word spanned by start→end for the given player. Either
// orientation of a placed word is accepted; the canonical (stored) spelling
// is what gets recorded and returned. The find and the score bump commit
// together or not at all.
func (s *Service) Submit(ctx context.Context, sessionID, playerID int64, start, end grid.Coord) (*Player, string, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	switch sess.Status {
	case StatusCompleted:
		return nil, "", ErrGameEnded
	case StatusWaiting:
		return nil, "", ErrNotStarted
	}
	if !sess.Grid.InBounds(start) || !sess.Grid.InBounds(end) {
		return nil, "", ErrInvalidCoords
	}

	selected := grid.Extract(sess.Grid, start, end)
	placed := matchPlaced(sess.Words, selected)
	if placed == nil {
		return nil, "", ErrInvalidWord
	}

	fw := &FoundWord{
		SessionID: sessionID,
		PlayerID:  playerID,
		Word:      placed.Word,
		Start:     start,
		End:       end,
		FoundAt:   s.now(),
	}
	p, err := s.store.RecordFind(ctx, fw, PointsPerWord)
	if err != nil {
		return nil, "", err
	}
	return p, placed.Word, nil
}

// matchPlaced finds the placed word matching the selection in either
// orientation. Returns nil if the selection matches nothing.
func matchPlaced(placed []grid.Placed, selected string) *grid.Placed {
	if selected == "" {
		return nil
	}
	reversed := grid.Reverse(selected)
	for i := range placed {
		if placed[i].Word == selected || placed[i].Word == reversed {
			return &placed[i]
		}
	}
	return nil
}

// End completes the session. Idempotent: ending an already-completed session
// succeeds without touching the end time.
func (s *Service) End(ctx context.Context, sessionID int64) error {
	_, err := s.store.CompleteSession(ctx, sessionID, s.now())
	return err
}

// GetState assembles the merged session view. If the session's clock has run
// out it is completed here, exactly once, before the view is built: expiry
// is driven by the clients' polling, not by a server-side timer.
func (s *Service) GetState(ctx context.Context, sessionID int64) (*State, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Status == StatusActive && s.remaining(sess) == 0 {
		if _, err := s.store.CompleteSession(ctx, sessionID, s.now()); err != nil {
			return nil, err
		}
		// Re-read so the view carries the stamped end time.
		sess, err = s.store.SessionByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}

	players, err := s.store.PlayersBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	found, err := s.store.FoundWordsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &State{
		Session:          sess,
		Players:          players,
		FoundWords:       found,
		RemainingSeconds: s.remaining(sess),
	}, nil
}

// GetStateByCode is GetState keyed by join code.
func (s *Service) GetStateByCode(ctx context.Context, code string) (*State, error) {
	sess, err := s.store.SessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.GetState(ctx, sess.ID)
}

// SessionByCode returns the bare session record for a join code.
func (s *Service) SessionByCode(ctx context.Context, code string) (*Session, error) {
	return s.store.SessionByCode(ctx, code)
}

// remaining computes the clamped seconds left on the session clock.
func (s *Service) remaining(sess *Session) int {
	switch sess.Status {
	case StatusWaiting:
		return sess.Duration
	case StatusCompleted:
		return 0
	}
	if sess.StartTime == nil {
		return sess.Duration
	}
	elapsed := int(s.now().Sub(*sess.StartTime).Seconds())
	if left := sess.Duration - elapsed; left > 0 {
		return left
	}
	return 0
}
