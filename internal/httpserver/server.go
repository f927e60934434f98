// internal/httpserver/server.go
//
// HTTP wiring for the word-search backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Session endpoints: create, lookup by code, join, QR code.
//   - Game endpoints: start, submit, state polling, SSE updates, end.
//   - Mapping domain errors onto HTTP statuses.
//
// Notes:
//   - Clients poll GET /game/{id}/state on a fixed interval; the SSE stream
//     only tells them to refetch sooner.
//   - start/end require the host token minted at session creation.
//   - CORS is origin-aware and credentials-enabled.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/barbarayam/word-search-game/internal/game"
	"github.com/barbarayam/word-search-game/internal/grid"
	"github.com/barbarayam/word-search-game/internal/sse"
)

// Server bundles the router, the game service, and the SSE broadcaster.
type Server struct {
	r   *chi.Mux
	svc *game.Service
	b   *sse.Broadcaster
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *game.Service) *Server {
	s := &Server{r: chi.NewRouter(), svc: svc, b: sse.NewBroadcaster()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"word-search","endpoints":["/health","POST /session","POST /session/join","POST /game/start","POST /game/submit","GET /game/{id}/state","POST /game/end"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Session lifecycle
	s.r.Post("/session", s.handleCreateSession)
	s.r.Get("/session/{code}", s.handleSessionByCode)
	s.r.Get("/session/{code}/qr", s.handleSessionQR)
	s.r.Post("/session/join", s.handleJoin)

	// Game flow
	s.r.Post("/game/start", s.handleStart)
	s.r.Post("/game/submit", s.handleSubmit)
	s.r.Get("/game/{id}/state", s.handleState)
	s.r.Get("/game/{id}/events", s.handleEvents)
	s.r.Post("/game/end", s.handleEnd)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ----------------------------- error mapping -------------------------------

// writeErr maps domain errors onto HTTP statuses with a short JSON body.
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrSessionNotFound), errors.Is(err, game.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrGameEnded), errors.Is(err, game.ErrSessionFull),
		errors.Is(err, game.ErrWordAlreadyFound), errors.Is(err, game.ErrAlreadyStarted),
		errors.Is(err, game.ErrNotStarted):
		status = http.StatusConflict
	case errors.Is(err, game.ErrInvalidWord), errors.Is(err, game.ErrInvalidDifficulty),
		errors.Is(err, game.ErrInvalidName), errors.Is(err, game.ErrInvalidCoords):
		status = http.StatusBadRequest
	default:
		log.Error().Err(err).Msg("internal error")
		http.Error(w, `{"error":"internal_error"}`, status)
		return
	}
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	http.Error(w, string(body), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ------------------------------- handlers ----------------------------------

type createSessionReq struct {
	Difficulty string `json:"difficulty"`
}

type createSessionRes struct {
	SessionID   int64         `json:"sessionId"`
	SessionCode string        `json:"sessionCode"`
	Grid        grid.Grid     `json:"grid"`
	Words       []grid.Placed `json:"words"`
	Difficulty  string        `json:"difficulty"`
	Duration    int           `json:"duration"`
	HostToken   string        `json:"hostToken"`
}

// handleCreateSession creates a waiting session and mints the host token
// that authorizes start/end.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	sess, err := s.svc.CreateSession(r.Context(), game.Difficulty(req.Difficulty))
	if err != nil {
		writeErr(w, err)
		return
	}
	token, err := signHostToken(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign host token")
		http.Error(w, `{"error":"token_failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, createSessionRes{
		SessionID:   sess.ID,
		SessionCode: sess.Code,
		Grid:        sess.Grid,
		Words:       sess.Words,
		Difficulty:  string(sess.Difficulty),
		Duration:    sess.Duration,
		HostToken:   token,
	})
}

// handleSessionByCode returns the merged state for a join code.
func (s *Server) handleSessionByCode(w http.ResponseWriter, r *http.Request) {
	state, err := s.svc.GetStateByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type joinReq struct {
	SessionCode string `json:"sessionCode"`
	PlayerName  string `json:"playerName"`
}

type joinRes struct {
	Player    *game.Player `json:"player"`
	SessionID int64        `json:"sessionId"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	p, err := s.svc.Join(r.Context(), req.SessionCode, req.PlayerName)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.b.Broadcast(p.SessionID, "player-joined")
	writeJSON(w, http.StatusOK, joinRes{Player: p, SessionID: p.SessionID})
}

type sessionIDReq struct {
	SessionID int64 `json:"sessionId"`
}

type successRes struct {
	Success bool `json:"success"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req sessionIDReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if !s.authorizeHost(w, r, req.SessionID) {
		return
	}
	if err := s.svc.Start(r.Context(), req.SessionID); err != nil {
		writeErr(w, err)
		return
	}
	s.b.Broadcast(req.SessionID, "game-started")
	writeJSON(w, http.StatusOK, successRes{Success: true})
}

type submitReq struct {
	SessionID int64 `json:"sessionId"`
	PlayerID  int64 `json:"playerId"`
	StartRow  int   `json:"startRow"`
	StartCol  int   `json:"startCol"`
	EndRow    int   `json:"endRow"`
	EndCol    int   `json:"endCol"`
}

type submitRes struct {
	Success bool         `json:"success"`
	Player  *game.Player `json:"player"`
	Word    string       `json:"word"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	p, word, err := s.svc.Submit(r.Context(), req.SessionID, req.PlayerID,
		grid.Coord{Row: req.StartRow, Col: req.StartCol},
		grid.Coord{Row: req.EndRow, Col: req.EndCol},
	)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.b.Broadcast(req.SessionID, "word-found")
	writeJSON(w, http.StatusOK, submitRes{Success: true, Player: p, Word: word})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"bad_session_id"}`, http.StatusBadRequest)
		return
	}
	state, err := s.svc.GetState(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"bad_session_id"}`, http.StatusBadRequest)
		return
	}
	// The state lookup doubles as an existence check.
	if _, err := s.svc.GetState(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	s.b.ServeSSE(w, r, id)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req sessionIDReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if !s.authorizeHost(w, r, req.SessionID) {
		return
	}
	if err := s.svc.End(r.Context(), req.SessionID); err != nil {
		writeErr(w, err)
		return
	}
	s.b.Broadcast(req.SessionID, "game-ended")
	writeJSON(w, http.StatusOK, successRes{Success: true})
}
