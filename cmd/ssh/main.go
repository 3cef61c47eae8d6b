package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/tether/internal/config"
	"github.com/tomz197/tether/internal/draw"
	"github.com/tomz197/tether/internal/loop/client"
	"github.com/tomz197/tether/internal/loop/server"
	"github.com/tomz197/tether/internal/score"
	"github.com/tomz197/tether/internal/spectate"
)

func main() {
	var cfg config.SSH
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatal("load config", "err", err)
	}
	logger := cfg.Logger("ssh")
	logger.Info("SSH config", "host", cfg.Host, "port", cfg.Port, "hostKeyPath", cfg.HostKeyPath,
		"spectate", cfg.SpectateAddr, "scoreDB", cfg.ScoreDB)

	var recorder score.Recorder
	if config.Enabled(cfg.ScoreDB) {
		store, err := score.Open(cfg.ScoreDB)
		if err != nil {
			logger.Warn("score store unavailable, runs will not be saved", "path", cfg.ScoreDB, "err", err)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	// Shared by every SSH session and the spectator endpoint
	ctx, cancelServer := context.WithCancel(context.Background())
	gameServer := server.NewServer(logger.WithPrefix("server"))
	go gameServer.Run(ctx)
	logger.Info("Game server started")

	h := &sessionHandler{
		server:   gameServer,
		recorder: recorder,
		logger:   logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithMiddleware(
			h.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	var watchServer *http.Server
	if config.Enabled(cfg.SpectateAddr) {
		watchServer = &http.Server{
			Addr:              cfg.SpectateAddr,
			Handler:           spectate.NewHandler(gameServer, logger.WithPrefix("spectate")),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Starting spectator endpoint", "addr", cfg.SpectateAddr)
			if err := watchServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator endpoint stopped", "err", err)
			}
		}()
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(cfg.Host, cfg.Port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify players and wait for them to disconnect before closing listeners
	gameServer.Shutdown(15 * time.Second)
	cancelServer()
	logger.Info("Game server stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if watchServer != nil {
		if err := watchServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("spectator shutdown error", "err", err)
		}
	}
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// sessionHandler runs one game client per SSH session.
type sessionHandler struct {
	server   *server.Server
	recorder score.Recorder
	logger   *log.Logger
}

func (h *sessionHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.logger.With("user", sess.User())
		logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.NewClient(h.server, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Recorder:     h.recorder,
			Logger:       logger,
		})
		if err := c.Run(); err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
