package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/tether/internal/config"
	"github.com/tomz197/tether/internal/cue"
	"github.com/tomz197/tether/internal/loop/client"
	"github.com/tomz197/tether/internal/loop/server"
	"github.com/tomz197/tether/internal/score"
)

func main() {
	var cfg config.Game
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatal("load config", "err", err)
	}
	logger := cfg.Logger("game")

	if cfg.Username == "" {
		if u, err := user.Current(); err == nil {
			cfg.Username = u.Username
		}
	}

	opts := client.ClientOptions{
		Username: cfg.Username,
		Logger:   logger,
		Seed:     cfg.Seed,
	}

	if config.Enabled(cfg.ScoreDB) {
		store, err := score.Open(cfg.ScoreDB)
		if err != nil {
			logger.Warn("score store unavailable, runs will not be saved", "path", cfg.ScoreDB, "err", err)
		} else {
			defer store.Close()
			opts.Recorder = store
		}
	}

	if cfg.Volume > 0 {
		player := cue.NewPlayer(cfg.Volume)
		if err := player.Start(); err != nil {
			logger.Warn("audio unavailable", "err", err)
		} else {
			defer player.Close()
			opts.Cues = player
		}
	}

	// Stderr shares the screen with the game once raw mode is on.
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Fatal("open log file", "path", cfg.LogFile, "err", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.SetOutput(os.Stderr)
		logger.Fatal("failed to enable raw mode", "err", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	// A local server keeps the single-player binary on the same client
	// path as the SSH host.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gameServer := server.NewServer(logger)
	go gameServer.Run(ctx)

	reader := bufio.NewReader(os.Stdin)
	c := client.NewClient(gameServer, reader, os.Stdout, opts)
	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		logger.SetOutput(os.Stderr)
		logger.Fatal("game error", "err", err)
	}
}
