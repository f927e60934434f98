// internal/game/types.go
//
// Core type definitions for the word-search session domain.
// Defines:
//   - Status: session lifecycle states (waiting → active → completed).
//   - Difficulty and its fixed configuration table.
//   - Session, Player, FoundWord records and the merged State view.

package game

import (
	"time"

	"github.com/barbarayam/word-search-game/internal/grid"
)

// Status is the session lifecycle state. Transitions are monotonic: a
// session never moves backwards.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Difficulty selects the word count and time limit for a session.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyConfig is one row of the fixed difficulty table.
type DifficultyConfig struct {
	WordCount int
	Duration  int // seconds
	GridSize  int
}

var difficultyConfigs = map[Difficulty]DifficultyConfig{
	DifficultyEasy:   {WordCount: 8, Duration: 120, GridSize: 12},
	DifficultyMedium: {WordCount: 12, Duration: 90, GridSize: 12},
	DifficultyHard:   {WordCount: 15, Duration: 60, GridSize: 12},
}

const (
	// MaxPlayers caps how many players may join one session.
	MaxPlayers = 8

	// PointsPerWord is the fixed score reward per accepted find.
	PointsPerWord = 10

	// codeRetries bounds session-creation retries on a code collision.
	codeRetries = 5
)

// playerColors is the fixed palette cycled by join order.
var playerColors = [...]string{
	"#3B82F6", // blue
	"#EF4444", // red
	"#10B981", // green
	"#F59E0B", // amber
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#06B6D4", // cyan
	"#F97316", // orange
}

// ColorFor returns the palette color for the i-th player to join.
func ColorFor(i int) string {
	return playerColors[i%len(playerColors)]
}

// Session is one game instance. Grid and Words are written once at creation
// and read-only thereafter.
type Session struct {
	ID         int64         `json:"id"`
	Code       string        `json:"sessionCode"`
	Status     Status        `json:"status"`
	Difficulty Difficulty    `json:"difficulty"`
	Duration   int           `json:"duration"`
	MaxPlayers int           `json:"maxPlayers"`
	Grid       grid.Grid     `json:"grid"`
	Words      []grid.Placed `json:"words"`
	StartTime  *time.Time    `json:"startTime"`
	EndTime    *time.Time    `json:"endTime"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Player is one participant in a session. Score only ever increases.
type Player struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"sessionId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Score     int       `json:"score"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// FoundWord is the append-only record of a claimed word. At most one exists
// per (session, word): the first finder wins.
type FoundWord struct {
	ID        int64      `json:"id"`
	SessionID int64      `json:"sessionId"`
	PlayerID  int64      `json:"playerId"`
	Word      string     `json:"word"`
	Start     grid.Coord `json:"start"`
	End       grid.Coord `json:"end"`
	FoundAt   time.Time  `json:"foundAt"`
}

// State is the merged view polled by every connected client. Players are
// ranked by score descending (join order breaks ties).
type State struct {
	Session          *Session    `json:"session"`
	Players          []Player    `json:"players"`
	FoundWords       []FoundWord `json:"foundWords"`
	RemainingSeconds int         `json:"remainingSeconds"`
}
