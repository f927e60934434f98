// internal/store/sqlite.go
//
// SQLite implementation of the game.Store interface.
// Responsibilities:
//   - Persist sessions (with serialized grid/word data), players, and found
//     words across restarts.
//   - Enforce the at-most-one-find guarantee through the
//     UNIQUE(session_id, word) constraint rather than a read-then-write.
//   - Apply score changes as relative updates (score = score + ?) inside the
//     same transaction as the find insert.
//
// The schema lives in ./sql and is applied by the migration runner in
// db.go at startup.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/barbarayam/word-search-game/internal/game"
)

// timeLayout is how timestamps are stored (TEXT columns).
const timeLayout = time.RFC3339Nano

// SQLite is a *sql.DB-backed game.Store.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an opened and migrated database handle.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (s *SQLite) CreateSession(ctx context.Context, sess *game.Session) error {
	gridData, err := json.Marshal(sess.Grid)
	if err != nil {
		return fmt.Errorf("marshal grid: %w", err)
	}
	wordsData, err := json.Marshal(sess.Words)
	if err != nil {
		return fmt.Errorf("marshal words: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
        INSERT INTO sessions (code, status, difficulty, duration, max_players, grid_data, words_data, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.Code, string(sess.Status), string(sess.Difficulty), sess.Duration,
		sess.MaxPlayers, string(gridData), string(wordsData), sess.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return game.ErrCodeTaken
		}
		return err
	}
	sess.ID, err = res.LastInsertId()
	return err
}

const sessionColumns = `id, code, status, difficulty, duration, max_players, grid_data, words_data, start_time, end_time, created_at`

func (s *SQLite) SessionByID(ctx context.Context, id int64) (*game.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

func (s *SQLite) SessionByCode(ctx context.Context, code string) (*game.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE code = ?`, code)
	return scanSession(row)
}

// scanSession converts a session row, deserializing the grid and word data.
func scanSession(row *sql.Row) (*game.Session, error) {
	var (
		sess                game.Session
		status, difficulty  string
		gridData, wordsData string
		startTime, endTime  sql.NullString
		createdAt           string
	)
	err := row.Scan(&sess.ID, &sess.Code, &status, &difficulty, &sess.Duration,
		&sess.MaxPlayers, &gridData, &wordsData, &startTime, &endTime, &createdAt)
	if err == sql.ErrNoRows {
		return nil, game.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	sess.Status = game.Status(status)
	sess.Difficulty = game.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(gridData), &sess.Grid); err != nil {
		return nil, fmt.Errorf("unmarshal grid: %w", err)
	}
	if err := json.Unmarshal([]byte(wordsData), &sess.Words); err != nil {
		return nil, fmt.Errorf("unmarshal words: %w", err)
	}
	sess.StartTime = parseNullTime(startTime)
	sess.EndTime = parseNullTime(endTime)
	sess.CreatedAt = parseTime(createdAt)
	return &sess, nil
}

func (s *SQLite) StartSession(ctx context.Context, id int64, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
        UPDATE sessions SET status = ?, start_time = ?
        WHERE id = ? AND status = ?`,
		string(game.StatusActive), at.UTC().Format(timeLayout), id, string(game.StatusWaiting),
	)
	if err != nil {
		return false, err
	}
	return s.transitionResult(ctx, res, id)
}

func (s *SQLite) CompleteSession(ctx context.Context, id int64, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
        UPDATE sessions SET status = ?, end_time = ?
        WHERE id = ? AND status <> ?`,
		string(game.StatusCompleted), at.UTC().Format(timeLayout), id, string(game.StatusCompleted),
	)
	if err != nil {
		return false, err
	}
	return s.transitionResult(ctx, res, id)
}

// transitionResult distinguishes "guard not satisfied" from "no such
// session" when a conditional UPDATE touched zero rows.
func (s *SQLite) transitionResult(ctx context.Context, res sql.Result, id int64) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, game.ErrSessionNotFound
	}
	return false, err
}

func (s *SQLite) AddPlayer(ctx context.Context, p *game.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	var maxPlayers int
	err = tx.QueryRowContext(ctx,
		`SELECT status, max_players FROM sessions WHERE id = ?`, p.SessionID,
	).Scan(&status, &maxPlayers)
	if err == sql.ErrNoRows {
		return game.ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if game.Status(status) == game.StatusCompleted {
		return game.ErrGameEnded
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM players WHERE session_id = ?`, p.SessionID,
	).Scan(&count); err != nil {
		return err
	}
	if count >= maxPlayers {
		return game.ErrSessionFull
	}

	p.Color = game.ColorFor(count)
	res, err := tx.ExecContext(ctx, `
        INSERT INTO players (session_id, name, color, score, joined_at)
        VALUES (?, ?, ?, ?, ?)`,
		p.SessionID, p.Name, p.Color, p.Score, p.JoinedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return err
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	return tx.Commit()
}

const playerColumns = `id, session_id, name, color, score, joined_at`

func (s *SQLite) PlayerByID(ctx context.Context, id int64) (*game.Player, error) {
	var p game.Player
	var joinedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id,
	).Scan(&p.ID, &p.SessionID, &p.Name, &p.Color, &p.Score, &joinedAt)
	if err == sql.ErrNoRows {
		return nil, game.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	p.JoinedAt = parseTime(joinedAt)
	return &p, nil
}

func (s *SQLite) PlayersBySession(ctx context.Context, sessionID int64) ([]game.Player, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, game.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE session_id = ? ORDER BY score DESC, id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.Player{}
	for rows.Next() {
		var p game.Player
		var joinedAt string
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Name, &p.Color, &p.Score, &joinedAt); err != nil {
			return nil, err
		}
		p.JoinedAt = parseTime(joinedAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLite) RecordFind(ctx context.Context, fw *game.FoundWord, points int) (*game.Player, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM sessions WHERE id = ?`, fw.SessionID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, game.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	switch game.Status(status) {
	case game.StatusCompleted:
		return nil, game.ErrGameEnded
	case game.StatusWaiting:
		return nil, game.ErrNotStarted
	}

	// UNIQUE(session_id, word) makes this insert the single point where
	// concurrent claims for the same word are decided.
	res, err := tx.ExecContext(ctx, `
        INSERT INTO found_words (session_id, player_id, word, start_row, start_col, end_row, end_col, found_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fw.SessionID, fw.PlayerID, fw.Word,
		fw.Start.Row, fw.Start.Col, fw.End.Row, fw.End.Col,
		fw.FoundAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, game.ErrWordAlreadyFound
		}
		return nil, err
	}
	if fw.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}

	upd, err := tx.ExecContext(ctx,
		`UPDATE players SET score = score + ? WHERE id = ? AND session_id = ?`,
		points, fw.PlayerID, fw.SessionID,
	)
	if err != nil {
		return nil, err
	}
	if n, err := upd.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, game.ErrPlayerNotFound
	}

	var p game.Player
	var joinedAt string
	if err := tx.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, fw.PlayerID,
	).Scan(&p.ID, &p.SessionID, &p.Name, &p.Color, &p.Score, &joinedAt); err != nil {
		return nil, err
	}
	p.JoinedAt = parseTime(joinedAt)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLite) FoundWordsBySession(ctx context.Context, sessionID int64) ([]game.FoundWord, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, game.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, session_id, player_id, word, start_row, start_col, end_row, end_col, found_at
        FROM found_words WHERE session_id = ? ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.FoundWord{}
	for rows.Next() {
		var fw game.FoundWord
		var foundAt string
		if err := rows.Scan(&fw.ID, &fw.SessionID, &fw.PlayerID, &fw.Word,
			&fw.Start.Row, &fw.Start.Col, &fw.End.Row, &fw.End.Col, &foundAt); err != nil {
			return nil, err
		}
		fw.FoundAt = parseTime(foundAt)
		out = append(out, fw)
	}
	return out, rows.Err()
}

// parseTime parses stored timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}
