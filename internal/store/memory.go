// internal/store/memory.go
//
// In-memory implementation of the game.Store interface.
// This is a lightweight persistence layer used for ephemeral sessions,
// primarily in development/testing, or when durability is not required.
//
// Characteristics:
//   - Concurrency-safe via RWMutex; every cross-record invariant (code
//     uniqueness, capacity, one find per word plus score bump) is enforced
//     under the write lock, so concurrent submits serialize.
//   - Returned records are copies; callers never observe later mutations.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/barbarayam/word-search-game/internal/game"
)

// Memory is a map-backed game.Store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[int64]*game.Session
	byCode   map[string]int64
	players  map[int64]*game.Player
	joined   map[int64][]int64 // sessionID → player IDs in join order
	found    map[int64][]game.FoundWord
	claimed  map[int64]map[string]struct{} // sessionID → words already found

	nextSessionID int64
	nextPlayerID  int64
	nextFoundID   int64
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[int64]*game.Session),
		byCode:   make(map[string]int64),
		players:  make(map[int64]*game.Player),
		joined:   make(map[int64][]int64),
		found:    make(map[int64][]game.FoundWord),
		claimed:  make(map[int64]map[string]struct{}),
	}
}

func (m *Memory) CreateSession(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byCode[s.Code]; taken {
		return game.ErrCodeTaken
	}
	m.nextSessionID++
	s.ID = m.nextSessionID

	stored := *s
	m.sessions[s.ID] = &stored
	m.byCode[s.Code] = s.ID
	m.claimed[s.ID] = make(map[string]struct{})
	return nil
}

func (m *Memory) SessionByID(ctx context.Context, id int64) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionLocked(id)
}

func (m *Memory) SessionByCode(ctx context.Context, code string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byCode[code]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	return m.sessionLocked(id)
}

// sessionLocked returns a copy of the session. Callers hold at least the
// read lock.
func (m *Memory) sessionLocked(id int64) (*game.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	out := *s
	return &out, nil
}

func (m *Memory) StartSession(ctx context.Context, id int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false, game.ErrSessionNotFound
	}
	if s.Status != game.StatusWaiting {
		return false, nil
	}
	s.Status = game.StatusActive
	t := at
	s.StartTime = &t
	return true, nil
}

func (m *Memory) CompleteSession(ctx context.Context, id int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false, game.ErrSessionNotFound
	}
	if s.Status == game.StatusCompleted {
		return false, nil
	}
	s.Status = game.StatusCompleted
	t := at
	s.EndTime = &t
	return true, nil
}

func (m *Memory) AddPlayer(ctx context.Context, p *game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[p.SessionID]
	if !ok {
		return game.ErrSessionNotFound
	}
	if s.Status == game.StatusCompleted {
		return game.ErrGameEnded
	}
	count := len(m.joined[p.SessionID])
	if count >= s.MaxPlayers {
		return game.ErrSessionFull
	}

	m.nextPlayerID++
	p.ID = m.nextPlayerID
	p.Color = game.ColorFor(count)

	stored := *p
	m.players[p.ID] = &stored
	m.joined[p.SessionID] = append(m.joined[p.SessionID], p.ID)
	return nil
}

func (m *Memory) PlayerByID(ctx context.Context, id int64) (*game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.players[id]
	if !ok {
		return nil, game.ErrPlayerNotFound
	}
	out := *p
	return &out, nil
}

func (m *Memory) PlayersBySession(ctx context.Context, sessionID int64) ([]game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return nil, game.ErrSessionNotFound
	}
	ids := m.joined[sessionID]
	out := make([]game.Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.players[id])
	}
	// Rank by score; join order (already the slice order) breaks ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (m *Memory) RecordFind(ctx context.Context, fw *game.FoundWord, points int) (*game.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[fw.SessionID]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	switch s.Status {
	case game.StatusCompleted:
		return nil, game.ErrGameEnded
	case game.StatusWaiting:
		return nil, game.ErrNotStarted
	}

	if _, dup := m.claimed[fw.SessionID][fw.Word]; dup {
		return nil, game.ErrWordAlreadyFound
	}
	p, ok := m.players[fw.PlayerID]
	if !ok || p.SessionID != fw.SessionID {
		return nil, game.ErrPlayerNotFound
	}

	m.nextFoundID++
	fw.ID = m.nextFoundID
	m.claimed[fw.SessionID][fw.Word] = struct{}{}
	m.found[fw.SessionID] = append(m.found[fw.SessionID], *fw)
	p.Score += points

	out := *p
	return &out, nil
}

func (m *Memory) FoundWordsBySession(ctx context.Context, sessionID int64) ([]game.FoundWord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return nil, game.ErrSessionNotFound
	}
	out := make([]game.FoundWord, len(m.found[sessionID]))
	copy(out, m.found[sessionID])
	return out, nil
}
