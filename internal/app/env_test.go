package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// This test verifies that LoadEnvFiles reads KEY=VALUE pairs and populates os.Environ.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nBAR=beta\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}

	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta" {
		t.Fatalf("BAR=%q, want beta", got)
	}
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

// Verify ApplyEnvToConfig reads key settings from environment, including
// the GOOGLE_API_KEY fallback and list/duration parsing.
func TestApplyEnvToConfig_FromEnv(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("TRANSCRIPT_LANGUAGES", "fi, en ,,sv")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT", "12")
	t.Setenv("VERBOSE", "yes")

	var cfg Config
	ApplyEnvToConfig(&cfg)
	if cfg.LLMAPIKey != "g-key" {
		t.Fatalf("LLMAPIKey=%q, want fallback from GOOGLE_API_KEY", cfg.LLMAPIKey)
	}
	if len(cfg.TranscriptLanguages) != 3 || cfg.TranscriptLanguages[0] != "fi" || cfg.TranscriptLanguages[2] != "sv" {
		t.Fatalf("TranscriptLanguages=%v, want [fi en sv]", cfg.TranscriptLanguages)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Fatalf("FetchTimeout=%v, want 3s", cfg.FetchTimeout)
	}
	if cfg.RateLimit != 12 || !cfg.Verbose {
		t.Fatalf("RateLimit=%d Verbose=%v", cfg.RateLimit, cfg.Verbose)
	}
}

// Explicit values are kept by ApplyEnvToConfig but replaced by ApplyEnvOverrides.
func TestApplyEnv_Precedence(t *testing.T) {
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("LLM_API_KEY", "primary")
	t.Setenv("GOOGLE_API_KEY", "secondary")

	cfg := Config{LLMModel: "flag-model"}
	ApplyEnvToConfig(&cfg)
	if cfg.LLMModel != "flag-model" {
		t.Fatalf("ApplyEnvToConfig must not override explicit values, got %q", cfg.LLMModel)
	}
	if cfg.LLMAPIKey != "primary" {
		t.Fatalf("LLM_API_KEY should win over GOOGLE_API_KEY, got %q", cfg.LLMAPIKey)
	}
	ApplyEnvOverrides(&cfg)
	if cfg.LLMModel != "env-model" {
		t.Fatalf("ApplyEnvOverrides should override, got %q", cfg.LLMModel)
	}
}

// SSL_VERIFY=false opts into skipping certificate checks; true turns it back off.
func TestApplyEnvOverrides_SSLVerify(t *testing.T) {
	t.Setenv("SSL_VERIFY", "false")
	var cfg Config
	ApplyEnvOverrides(&cfg)
	if !cfg.InsecureTLS {
		t.Fatalf("SSL_VERIFY=false should set InsecureTLS")
	}
	t.Setenv("SSL_VERIFY", "true")
	ApplyEnvOverrides(&cfg)
	if cfg.InsecureTLS {
		t.Fatalf("SSL_VERIFY=true should clear InsecureTLS")
	}
}

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		line, key, val string
		ok             bool
	}{
		{"A=1", "A", "1", true},
		{"export B = two ", "B", "two", true},
		{`C="quoted value"`, "C", "quoted value", true},
		{"D='x'", "D", "x", true},
		{"E=", "E", "", true},
		{"# comment", "", "", false},
		{"   ", "", "", false},
		{"=novalue", "", "", false},
		{"NOEQUALS", "", "", false},
	}
	for _, tc := range cases {
		k, v, ok := parseEnvLine(tc.line)
		if ok != tc.ok || k != tc.key || v != tc.val {
			t.Fatalf("parseEnvLine(%q) = %q %q %v", tc.line, k, v, ok)
		}
	}
}
