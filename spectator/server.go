package spectator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// NewServer wires the read-only spectator routes.
func NewServer(hub *Hub) http.Handler {
	h := &handlers{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	r := chi.NewRouter()
	r.Get("/healthz", h.health)
	r.Get("/matches", h.list)
	r.Route("/matches/{id}", func(r chi.Router) {
		r.Get("/", h.frame)
		r.Get("/ws", h.watch)
	})
	return r
}

type handlers struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (h *handlers) list(w http.ResponseWriter, _ *http.Request) {
	ids := h.hub.Matches()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Matches []string `json:"matches"`
	}{Matches: ids})
}

func (h *handlers) frame(w http.ResponseWriter, r *http.Request) {
	payload, err := h.hub.Latest(chi.URLParam(r, "id"))
	if errors.Is(err, ErrUnknownMatch) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

func (h *handlers) watch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frames, unsubscribe, err := h.hub.Subscribe(id)
	if errors.Is(err, ErrUnknownMatch) {
		http.NotFound(w, r)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Debug("websocket upgrade failed", "match", id, "err", err)
		return
	}
	defer conn.Close()

	// Viewers cannot send anything meaningful; reading only notices when
	// they go away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case payload, ok := <-frames:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over")
				_ = conn.WriteMessage(websocket.CloseMessage, msg)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.hub.log.Debug("spectator write failed", "match", id, "err", err)
				return
			}
		}
	}
}

// Serve runs the spectator server on addr until ctx is done.
func Serve(ctx context.Context, addr string, hub *Hub) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServer(hub),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	hub.log.Info("spectator listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("spectator server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("spectator shutdown: %w", err)
		}
		return nil
	}
}
