package main

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/dkoval/flagpole/internal/config"
)

func TestNewLogger_Level(t *testing.T) {
	cfg := &config.Config{AppEnv: "prod", LogLevel: "warn"}
	logger := newLogger(cfg)
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %s, want warn", logger.GetLevel())
	}

	// Unparseable levels fall back to info rather than failing startup.
	cfg = &config.Config{AppEnv: "prod", LogLevel: "shouty"}
	if got := newLogger(cfg).GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("level = %s, want info fallback", got)
	}
}

func TestNewLogger_LogsThroughBoundVariable(t *testing.T) {
	// Logger methods with pointer receivers need an addressable logger;
	// exercise the chain on a bound value the way main does.
	logger := newLogger(&config.Config{AppEnv: "dev", LogLevel: "debug"})
	logger.Info().Str("check", "startup").Msg("logger usable")
}
