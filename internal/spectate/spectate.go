// Package spectate serves the live session directory and read-only
// snapshot feeds over HTTP and websockets.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/loop/server"
	"github.com/tomz197/tether/internal/loop/sim"
)

// Source is the part of the session server spectators need.
type Source interface {
	GetDirectory() *server.Directory
	GetClient(id uuid.UUID) (*server.ClientHandle, bool)
	Watch(id uuid.UUID) (*server.ClientHandle, func(), bool)
}

var _ Source = (*server.Server)(nil)

const writeTimeout = 2 * time.Second

// Handler routes spectator requests.
type Handler struct {
	src      Source
	logger   *log.Logger
	interval time.Duration
	mux      *http.ServeMux
}

// NewHandler creates a spectator handler over src.
func NewHandler(src Source, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{
		src:      src,
		logger:   logger,
		interval: config.SpectateInterval,
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /sessions", h.sessions)
	h.mux.HandleFunc("GET /watch/{id}", h.watch)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) sessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.src.GetDirectory()); err != nil {
		h.logger.Warn("encode directory", "err", err)
	}
}

func (h *Handler) watch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	handle, release, ok := h.src.Watch(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	defer release()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Warn("accept spectator", "id", id, "err", err)
		return
	}
	defer conn.CloseNow()

	h.logger.Info("spectator joined", "id", id, "user", handle.Username, "remote", r.RemoteAddr)
	err = h.stream(conn.CloseRead(r.Context()), conn, handle)
	switch {
	case err == nil:
		conn.Close(websocket.StatusNormalClosure, "session ended")
	case errors.Is(err, context.Canceled), websocket.CloseStatus(err) != -1:
	default:
		h.logger.Warn("spectator stream", "id", id, "err", err)
	}
	h.logger.Info("spectator left", "id", id)
}

// stream writes every new snapshot of handle until the session leaves the
// server or ctx ends. A nil return means the session ended.
func (h *Handler) stream(ctx context.Context, conn *websocket.Conn, handle *server.ClientHandle) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last *sim.Snapshot
	for {
		if snap := handle.Snapshot(); snap != nil && snap != last {
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, snap)
			cancel()
			if err != nil {
				return err
			}
			last = snap
		}
		if live, ok := h.src.GetClient(handle.ID); !ok || live != handle {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
