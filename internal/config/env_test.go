package config

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseEnvDefaults(t *testing.T) {
	var cfg SSH
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Port != "2222" || cfg.Host != "::" {
		t.Fatalf("listen = %s:%s, want :::2222", cfg.Host, cfg.Port)
	}
	if cfg.ScoreDB != "tether.db" {
		t.Fatalf("ScoreDB = %q, want tether.db", cfg.ScoreDB)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("SSH_PORT", "2022")
	t.Setenv("SPECTATE_ADDR", "127.0.0.1:9000")
	t.Setenv("LOG_LEVEL", "debug")
	var cfg SSH
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Port != "2022" {
		t.Fatalf("Port = %q, want 2022", cfg.Port)
	}
	if cfg.SpectateAddr != "127.0.0.1:9000" {
		t.Fatalf("SpectateAddr = %q, want 127.0.0.1:9000", cfg.SpectateAddr)
	}
	if got := cfg.Logger("test").GetLevel(); got != log.DebugLevel {
		t.Fatalf("level = %v, want debug", got)
	}
}

func TestParseEnvInvalid(t *testing.T) {
	t.Setenv("TETHER_VOLUME", "loud")
	var cfg Game
	if err := ParseEnv(&cfg); err == nil {
		t.Fatalf("ParseEnv accepted a non-numeric volume")
	}
}

func TestLoggerUnknownLevel(t *testing.T) {
	c := Common{LogLevel: "chatty"}
	if got := c.Logger("test").GetLevel(); got != log.InfoLevel {
		t.Fatalf("level = %v, want info", got)
	}
}

func TestEnabled(t *testing.T) {
	for v, want := range map[string]bool{"": false, "-": false, ":8081": true} {
		if got := Enabled(v); got != want {
			t.Fatalf("Enabled(%q) = %v, want %v", v, got, want)
		}
	}
}
