// Package spectator serves running matches to read-only viewers over HTTP
// and websockets.
package spectator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/match"
)

var ErrUnknownMatch = errors.New("spectator: unknown match")

// subscriberBuffer is how many frames a viewer may fall behind before it is
// dropped.
const subscriberBuffer = 16

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

type feed struct {
	latest []byte
	over   bool
	subs   map[*subscriber]struct{}
}

// Hub keeps the latest frame of every match and fans new frames out to
// subscribers. It implements match.Sink and never blocks the publisher.
type Hub struct {
	mu    sync.Mutex
	feeds map[string]*feed
	order []string
	log   *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Hub{feeds: make(map[string]*feed), log: log}
}

var _ match.Sink = (*Hub)(nil)

// Publish records f and forwards it. Subscribers whose buffer is full are
// closed and forgotten. A finished match closes every subscriber after the
// final frame.
func (h *Hub) Publish(_ context.Context, f match.Frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		h.log.Error("encode frame", "match", f.MatchID, "tick", f.Snapshot.Tick, "err", err)
		return
	}
	over := f.Snapshot.Phase == game.PhaseGameOver

	// Sends never block, so fan-out happens under the lock and cannot race
	// with unsubscribe closing a channel.
	h.mu.Lock()
	fd, ok := h.feeds[f.MatchID]
	if !ok {
		fd = &feed{subs: make(map[*subscriber]struct{})}
		h.feeds[f.MatchID] = fd
		h.order = append(h.order, f.MatchID)
	}
	fd.latest = payload
	fd.over = over
	dropped := 0
	for s := range fd.subs {
		select {
		case s.ch <- payload:
		default:
			s.close()
			delete(fd.subs, s)
			dropped++
			continue
		}
		if over {
			s.close()
			delete(fd.subs, s)
		}
	}
	h.mu.Unlock()

	if dropped > 0 {
		h.log.Warn("dropped slow spectators", "match", f.MatchID, "count", dropped)
	}
}

// Matches lists match ids in the order they were first seen.
func (h *Hub) Matches() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.order...)
}

// Latest returns the encoded most recent frame of a match.
func (h *Hub) Latest(id string) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fd, ok := h.feeds[id]
	if !ok {
		return nil, ErrUnknownMatch
	}
	return fd.latest, nil
}

// Subscribe returns a channel primed with the latest frame. The channel is
// closed when the match ends, when the subscriber falls too far behind, or
// when unsubscribe is called.
func (h *Hub) Subscribe(id string) (<-chan []byte, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fd, ok := h.feeds[id]
	if !ok {
		return nil, nil, ErrUnknownMatch
	}

	s := &subscriber{ch: make(chan []byte, subscriberBuffer)}
	s.ch <- fd.latest
	if fd.over {
		s.close()
		return s.ch, func() {}, nil
	}
	fd.subs[s] = struct{}{}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(fd.subs, s)
			h.mu.Unlock()
			s.close()
		})
	}
	return s.ch, unsubscribe, nil
}
