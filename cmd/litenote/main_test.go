package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperifyio/litenote/internal/app"
	"github.com/hyperifyio/litenote/internal/llm"
	"github.com/hyperifyio/litenote/internal/pipeline"
	"github.com/hyperifyio/litenote/internal/source"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LLM_BASE_URL", "LLM_MODEL", "LLM_API_KEY", "GOOGLE_API_KEY", "LISTEN_ADDR",
		"USER_AGENT", "LOG_FILE", "TRANSCRIPT_LANGUAGES", "RATE_LIMIT", "FETCH_TIMEOUT", "LLM_TIMEOUT",
		"CACHE_TTL", "VERBOSE", "SSL_VERIFY", "LITENOTE_CONFIG"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, version, err := loadConfig([]string{"-env", filepath.Join(t.TempDir(), "none.env")})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if version {
		t.Fatal("version should be false")
	}
	if cfg.LLMModel != llm.DefaultModel || cfg.ListenAddr != app.DefaultListenAddr || cfg.RateLimit != app.DefaultRateLimit {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := app.ValidateConfig(cfg); err != nil {
		t.Fatalf("defaults should validate in server mode: %v", err)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "litenote.yaml")
	yaml := "llm:\n  model: file-model\n  base: http://file/v1\nserver:\n  addr: \":7000\"\nfetch:\n  timeout: 7s\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("LLM_MODEL=env-model\nLISTEN_ADDR=:7100\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg, _, err := loadConfig([]string{"-config", cfgPath, "-env", envPath, "-addr", ":7200", "-transcript.langs", "fi,en"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ListenAddr != ":7200" {
		t.Fatalf("flag should win: %q", cfg.ListenAddr)
	}
	if cfg.LLMModel != "env-model" {
		t.Fatalf("env should beat file: %q", cfg.LLMModel)
	}
	if cfg.LLMBaseURL != "http://file/v1" || cfg.FetchTimeout != 7*time.Second {
		t.Fatalf("file values should apply: %q %v", cfg.LLMBaseURL, cfg.FetchTimeout)
	}
	if len(cfg.TranscriptLanguages) != 2 || cfg.TranscriptLanguages[0] != "fi" {
		t.Fatalf("unexpected languages %v", cfg.TranscriptLanguages)
	}
}

func TestLoadConfig_VersionAndErrors(t *testing.T) {
	clearEnv(t)
	none := filepath.Join(t.TempDir(), "none.env")
	if _, version, err := loadConfig([]string{"-env", none, "-version"}); err != nil || !version {
		t.Fatalf("expected version flag, got %v %v", version, err)
	}
	if _, _, err := loadConfig([]string{"-env", none, "-no-such-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if _, _, err := loadConfig([]string{"-env", none, "-config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestExitCode(t *testing.T) {
	bad := &pipeline.Error{Kind: pipeline.InvalidInput, Op: "classify", Err: source.ErrInvalidURL}
	if exitCode(bad) != 2 {
		t.Fatal("invalid input should exit 2")
	}
	if exitCode(errors.New("boom")) != 1 {
		t.Fatal("other errors should exit 1")
	}
}

func TestLoadConfig_RateZeroDisables(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT", "12")
	cfg, _, err := loadConfig([]string{"-env", filepath.Join(t.TempDir(), "none.env"), "-rate", "0"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.RateLimit != 0 {
		t.Fatalf("-rate 0 should disable limiting, got %d", cfg.RateLimit)
	}
	if err := app.ValidateConfig(cfg); err != nil {
		t.Fatalf("zero rate should validate: %v", err)
	}
}
