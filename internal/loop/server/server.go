package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/loop/sim"
)

// GameServer is the interface clients use to communicate with the server.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID uuid.UUID)
	GetDirectory() *Directory
}

// Server tracks the live sessions. Every client runs its own simulation and
// publishes snapshots to its handle; the server only aggregates them into a
// directory for spectators and the leaderboard.
type Server struct {
	clients   map[uuid.UUID]*ClientHandle
	directory atomic.Pointer[Directory]
	mu        sync.RWMutex
	logger    *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       uuid.UUID
	Username string // Display name for this client
	Joined   time.Time
	EventsCh chan ClientEvent // Events sent to client (shutdown, spectators)

	snapshot   atomic.Pointer[sim.Snapshot]
	spectators atomic.Int32
}

// Publish makes snap the handle's latest state. The caller must not modify
// snap afterwards.
func (h *ClientHandle) Publish(snap *sim.Snapshot) {
	h.snapshot.Store(snap)
}

// Snapshot returns the latest published state, or nil before the first
// publish.
func (h *ClientHandle) Snapshot() *sim.Snapshot {
	return h.snapshot.Load()
}

// Spectators returns how many watchers are attached.
func (h *ClientHandle) Spectators() int {
	return int(h.spectators.Load())
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type       ClientEventType
	Spectators int // For spectator events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventSpectatorJoined
	EventSpectatorLeft
)

// NewServer creates a new session server.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		clients: make(map[uuid.UUID]*ClientHandle),
		logger:  logger,
	}

	// Create initial empty directory
	s.directory.Store(&Directory{Sessions: []SessionInfo{}})
	return s
}

// Run refreshes the directory at the server tick rate. Blocks until the
// context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.ServerTickTime)
	defer ticker.Stop()

	for {
		s.Refresh()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.Count())
			return
		case <-ticker.C:
			if s.Count() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	handle := &ClientHandle{
		ID:       uuid.New(),
		Username: username,
		Joined:   time.Now(),
		EventsCh: make(chan ClientEvent, 16),
	}

	s.mu.Lock()
	s.clients[handle.ID] = handle
	n := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("client registered", "id", handle.ID, "user", username, "clients", n)
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID uuid.UUID) {
	s.mu.Lock()
	handle, ok := s.clients[clientID]
	if ok {
		close(handle.EventsCh)
		delete(s.clients, clientID)
	}
	n := len(s.clients)
	s.mu.Unlock()

	if ok {
		s.logger.Info("client unregistered", "id", clientID, "user", handle.Username, "clients", n)
	}
}

// GetClient returns the handle for a live client.
func (s *Server) GetClient(clientID uuid.UUID) (*ClientHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	handle, ok := s.clients[clientID]
	return handle, ok
}

// Count returns the number of registered clients.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Watch attaches a spectator to a client and returns a function that
// detaches it. The client is told about both transitions.
func (s *Server) Watch(clientID uuid.UUID) (*ClientHandle, func(), bool) {
	s.mu.RLock()
	handle, ok := s.clients[clientID]
	if ok {
		n := handle.spectators.Add(1)
		s.notifyLocked(handle, ClientEvent{Type: EventSpectatorJoined, Spectators: int(n)})
	}
	s.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			n := handle.spectators.Add(-1)
			s.mu.RLock()
			if s.clients[clientID] == handle {
				s.notifyLocked(handle, ClientEvent{Type: EventSpectatorLeft, Spectators: int(n)})
			}
			s.mu.RUnlock()
		})
	}
	return handle, release, true
}

// notifyLocked sends without blocking. Must be called with the lock held so
// the channel cannot be closed concurrently.
func (s *Server) notifyLocked(handle *ClientHandle, ev ClientEvent) {
	select {
	case handle.EventsCh <- ev:
	default:
	}
}

// GetDirectory returns the latest directory.
func (s *Server) GetDirectory() *Directory {
	return s.directory.Load()
}

// Refresh rebuilds the directory from the handles' latest snapshots.
func (s *Server) Refresh() {
	s.mu.RLock()
	sessions := make([]SessionInfo, 0, len(s.clients))
	for _, handle := range s.clients {
		sessions = append(sessions, infoOf(handle))
	}
	s.mu.RUnlock()

	sortSessions(sessions)
	s.directory.Store(&Directory{
		Sessions:  sessions,
		Players:   len(sessions),
		UpdatedAt: time.Now(),
	})
}
