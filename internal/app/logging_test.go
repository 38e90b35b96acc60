package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLogging_WritesFileSink(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "litenote.log")
	closer := SetupLogging(true, path)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("verbose should enable debug, got %v", zerolog.GlobalLevel())
	}
	log.Debug().Str("component", "test").Msg("file sink check")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"message":"file sink check"`) || !strings.Contains(string(b), `"component":"test"`) {
		t.Fatalf("unexpected log file content: %s", b)
	}
}

func TestSetupLogging_NoFile(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
	if err := SetupLogging(false, "").Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level, got %v", zerolog.GlobalLevel())
	}
}
