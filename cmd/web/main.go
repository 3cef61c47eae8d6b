package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/tether/internal/config"
	"github.com/tomz197/tether/internal/score"
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Parse(htmlPage))

// leaderboard is the part of the score store the pages read.
type leaderboard interface {
	Top(ctx context.Context, n int) ([]score.Result, error)
}

type entry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Duration string `json:"duration"`
	Date     string `json:"date"`
}

type pageData struct {
	SSHHost string
	Scores  []entry
}

func main() {
	var cfg config.Web
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatal("load config", "err", err)
	}
	logger := cfg.Logger("web")

	var board leaderboard
	if config.Enabled(cfg.ScoreDB) {
		store, err := score.Open(cfg.ScoreDB)
		if err != nil {
			logger.Warn("score store unavailable, leaderboard hidden", "path", cfg.ScoreDB, "err", err)
		} else {
			defer store.Close()
			board = store
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		data := pageData{SSHHost: cfg.DisplayHost, Scores: topScores(r.Context(), board, logger)}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			logger.Error("render page", "err", err)
		}
	})
	mux.HandleFunc("GET /api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		scores := topScores(r.Context(), board, logger)
		if scores == nil {
			scores = []entry{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(scores); err != nil {
			logger.Error("encode leaderboard", "err", err)
		}
	})

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("Starting web server", "url", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func topScores(ctx context.Context, board leaderboard, logger *log.Logger) []entry {
	if board == nil {
		return nil
	}
	results, err := board.Top(ctx, 0)
	if err != nil {
		logger.Warn("load leaderboard", "err", err)
		return nil
	}
	entries := make([]entry, 0, len(results))
	for i, r := range results {
		entries = append(entries, entry{
			Rank:     i + 1,
			Username: r.Username,
			Score:    r.Score,
			Duration: r.Duration.Round(time.Second).String(),
			Date:     r.CreatedAt.Format("2006-01-02"),
		})
	}
	return entries
}
