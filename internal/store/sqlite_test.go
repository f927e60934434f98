package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/barbarayam/word-search-game/internal/game"
	"github.com/barbarayam/word-search-game/internal/grid"
)

// newTestDB opens an in-memory database and applies the real schema file so
// the UNIQUE constraints under test match production.
func newTestDB(t *testing.T) *SQLite {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every pooled connection to :memory: is a separate database, so keep
	// the pool at one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../sql/001_init.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return NewSQLite(db)
}

func TestSQLiteSessionRoundTrip(t *testing.T) {
	st := newTestDB(t)
	ctx := context.Background()

	sess := testSession("SQLONE", 8)
	if err := st.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID == 0 {
		t.Fatal("session ID not assigned")
	}

	got, err := st.SessionByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("SessionByID: %v", err)
	}
	if got.Code != "SQLONE" || got.Status != game.StatusWaiting || got.Duration != 120 {
		t.Errorf("round-tripped session = %+v", got)
	}
	if got.Grid.Size() != 4 || got.Grid[0][0] != "W" {
		t.Errorf("grid did not survive serialization: %+v", got.Grid)
	}
	if len(got.Words) != 1 || got.Words[0].Word != "WORD" {
		t.Errorf("placed words did not survive serialization: %+v", got.Words)
	}
	if got.StartTime != nil || got.EndTime != nil {
		t.Error("fresh session has non-null timestamps")
	}

	byCode, err := st.SessionByCode(ctx, "SQLONE")
	if err != nil || byCode.ID != sess.ID {
		t.Fatalf("SessionByCode = (%+v, %v)", byCode, err)
	}
	if _, err := st.SessionByID(ctx, 999); !errors.Is(err, game.ErrSessionNotFound) {
		t.Errorf("unknown ID: got %v", err)
	}
}

func TestSQLiteCodeUniqueConstraint(t *testing.T) {
	st := newTestDB(t)
	ctx := context.Background()

	if err := st.CreateSession(ctx, testSession("DUPONE", 8)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := st.CreateSession(ctx, testSession("DUPONE", 8)); !errors.Is(err, game.ErrCodeTaken) {
		t.Fatalf("duplicate code: got %v, want ErrCodeTaken", err)
	}
}

func TestSQLiteTransitions(t *testing.T) {
	st := newTestDB(t)
	ctx := context.Background()

	sess := testSession("SQLTRN", 8)
	if err := st.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ok, err := st.StartSession(ctx, sess.ID, at)
	if err != nil || !ok {
		t.Fatalf("StartSession = (%v, %v)", ok, err)
	}
	got, _ := st.SessionByID(ctx, sess.ID)
	if got.Status != game.StatusActive || got.StartTime == nil || !got.StartTime.Equal(at) {
		t.Fatalf("after start: %+v", got)
	}

	ok, err = st.StartSession(ctx, sess.ID, at.Add(time.Minute))
	if err != nil || ok {
		t.Fatalf("second StartSession = (%v, %v), want (false, nil)", ok, err)
	}

	endAt := at.Add(2 * time.Minute)
	ok, err = st.CompleteSession(ctx, sess.ID, endAt)
	if err != nil || !ok {
		t.Fatalf("CompleteSession = (%v, %v)", ok, err)
	}
	ok, err = st.CompleteSession(ctx, sess.ID, endAt.Add(time.Hour))
	if err != nil || ok {
		t.Fatalf("second CompleteSession = (%v, %v), want (false, nil)", ok, err)
	}
	got, _ = st.SessionByID(ctx, sess.ID)
	if got.EndTime == nil || !got.EndTime.Equal(endAt) {
		t.Fatal("second completion moved the end time")
	}

	if _, err := st.CompleteSession(ctx, 999, endAt); !errors.Is(err, game.ErrSessionNotFound) {
		t.Errorf("complete unknown session: got %v", err)
	}
}

func TestSQLitePlayerCapacityAndRanking(t *testing.T) {
	st := newTestDB(t)
	ctx := context.Background()

	sess := testSession("SQLCAP", 2)
	if err := st.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	alice := addTestPlayer(t, st, sess.ID, "Alice")
	bob := addTestPlayer(t, st, sess.ID, "Bob")
	if alice.Color != game.ColorFor(0) || bob.Color != game.ColorFor(1) {
		t.Errorf("join-order colors wrong: %s/%s", alice.Color, bob.Color)
	}

	carol := &game.Player{SessionID: sess.ID, Name: "Carol", JoinedAt: time.Now()}
	if err := st.AddPlayer(ctx, carol); !errors.Is(err, game.ErrSessionFull) {
		t.Fatalf("over-capacity join: got %v, want ErrSessionFull", err)
	}

	if _, err := st.StartSession(ctx, sess.ID, time.Now()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	fw := &game.FoundWord{
		SessionID: sess.ID, PlayerID: bob.ID, Word: "WORD",
		Start: grid.Coord{Row: 0, Col: 0}, End: grid.Coord{Row: 0, Col: 3},
		FoundAt: time.Now(),
	}
	if _, err := st.RecordFind(ctx, fw, 10); err != nil {
		t.Fatalf("RecordFind: %v", err)
	}

	players, err := st.PlayersBySession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("PlayersBySession: %v", err)
	}
	if len(players) != 2 || players[0].ID != bob.ID || players[0].Score != 10 {
		t.Fatalf("ranking wrong: %+v", players)
	}
}

func TestSQLiteFindUniqueConstraint(t *testing.T) {
	st := newTestDB(t)
	ctx := context.Background()

	sess := testSession("SQLFND", 8)
	if err := st.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	alice := addTestPlayer(t, st, sess.ID, "Alice")
	bob := addTestPlayer(t, st, sess.ID, "Bob")
	if _, err := st.StartSession(ctx, sess.ID, time.Now()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	fw := &game.FoundWord{
		SessionID: sess.ID, PlayerID: alice.ID, Word: "WORD",
		Start: grid.Coord{Row: 0, Col: 0}, End: grid.Coord{Row: 0, Col: 3},
		FoundAt: time.Now(),
	}
	p, err := st.RecordFind(ctx, fw, 10)
	if err != nil {
		t.Fatalf("RecordFind: %v", err)
	}
	if p.Score != 10 {
		t.Errorf("score %d, want 10", p.Score)
	}

	dup := *fw
	dup.PlayerID = bob.ID
	if _, err := st.RecordFind(ctx, &dup, 10); !errors.Is(err, game.ErrWordAlreadyFound) {
		t.Fatalf("duplicate find: got %v, want ErrWordAlreadyFound", err)
	}

	// The loser's score must be untouched: insert and bump are one
	// transaction.
	fresh, err := st.PlayerByID(ctx, bob.ID)
	if err != nil {
		t.Fatalf("PlayerByID: %v", err)
	}
	if fresh.Score != 0 {
		t.Fatalf("losing player's score is %d, want 0", fresh.Score)
	}

	found, err := st.FoundWordsBySession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("FoundWordsBySession: %v", err)
	}
	if len(found) != 1 || found[0].Word != "WORD" || found[0].PlayerID != alice.ID {
		t.Fatalf("found words = %+v", found)
	}
}

func TestSQLiteFindGatedByStatus(t *testing.T) {
	st := newTestDB(t)
	ctx := context.Background()

	sess := testSession("SQLGTE", 8)
	if err := st.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	alice := addTestPlayer(t, st, sess.ID, "Alice")

	fw := &game.FoundWord{
		SessionID: sess.ID, PlayerID: alice.ID, Word: "WORD",
		Start: grid.Coord{Row: 0, Col: 0}, End: grid.Coord{Row: 0, Col: 3},
		FoundAt: time.Now(),
	}
	if _, err := st.RecordFind(ctx, fw, 10); !errors.Is(err, game.ErrNotStarted) {
		t.Fatalf("find before start: got %v, want ErrNotStarted", err)
	}

	if _, err := st.StartSession(ctx, sess.ID, time.Now()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := st.CompleteSession(ctx, sess.ID, time.Now()); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if _, err := st.RecordFind(ctx, fw, 10); !errors.Is(err, game.ErrGameEnded) {
		t.Fatalf("find after end: got %v, want ErrGameEnded", err)
	}
}
