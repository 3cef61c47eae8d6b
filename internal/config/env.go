// Package config loads deployment settings from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// Common settings shared by every binary.
type Common struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	ScoreDB  string `env:"SCORE_DB" envDefault:"tether.db"` // "-" disables the score store
}

// Game configures the local terminal binary.
type Game struct {
	Common
	Username string  `env:"TETHER_USER"`
	Volume   float64 `env:"TETHER_VOLUME" envDefault:"0.5"` // 0 disables audio
	Seed     int64   `env:"TETHER_SEED"`                    // 0 picks a random seed
	LogFile  string  `env:"TETHER_LOG"`                     // Logs are dropped while playing unless set
}

// SSH configures the SSH server and its spectator endpoint.
type SSH struct {
	Common
	Host         string `env:"SSH_HOST" envDefault:"::"`
	Port         string `env:"SSH_PORT" envDefault:"2222"`
	HostKeyPath  string `env:"SSH_HOST_KEY" envDefault:"/app/keys/host_key"`
	SpectateAddr string `env:"SPECTATE_ADDR" envDefault:":8081"` // "-" disables spectating
}

// Web configures the landing page server.
type Web struct {
	Common
	Host        string `env:"WEB_HOST" envDefault:"0.0.0.0"`
	Port        string `env:"WEB_PORT" envDefault:"8080"`
	DisplayHost string `env:"SSH_DISPLAY_HOST" envDefault:"your-server.com"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Logger builds the binary's logger at the configured level. An unknown
// level falls back to info.
func (c Common) Logger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", c.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// Enabled reports whether an optional setting is switched on: set and not "-".
func Enabled(value string) bool {
	return value != "" && value != "-"
}
