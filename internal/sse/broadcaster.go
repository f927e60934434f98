// internal/sse/broadcaster.go
//
// Server-sent-event fan-out, one logical channel per session. Polling of
// GET /game/{id}/state remains the canonical sync mechanism; these events
// only nudge connected clients to refetch, so slow consumers are skipped
// rather than buffered.

package sse

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	clientBuffer = 16
	heartbeat    = 30 * time.Second
)

// Client is a single SSE connection.
type Client struct {
	ID        string
	SessionID int64
	ch        chan string
}

// Broadcaster manages SSE clients grouped by session.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*Client]struct{})}
}

// Register adds a client for a session and returns it.
func (b *Broadcaster) Register(sessionID int64) *Client {
	c := &Client{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		ch:        make(chan string, clientBuffer),
	}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes a client and closes its channel.
func (b *Broadcaster) Unregister(c *Client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Broadcast sends an event name to every client of a session.
func (b *Broadcaster) Broadcast(sessionID int64, event string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.clients {
		if c.SessionID != sessionID {
			continue
		}
		select {
		case c.ch <- event:
		default:
			// Channel full, skip slow client; it will catch up on its
			// next poll.
		}
	}
}

// ClientCount returns the number of connected clients for a session.
func (b *Broadcaster) ClientCount(sessionID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for c := range b.clients {
		if c.SessionID == sessionID {
			n++
		}
	}
	return n
}

// ServeSSE handles one SSE connection until the client disconnects.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, sessionID int64) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := b.Register(sessionID)
	defer b.Unregister(c)
	log.Debug().Str("client", c.ID).Int64("session", sessionID).Msg("sse client connected")

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: {}\n\n", event)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
