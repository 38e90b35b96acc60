package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// LLM
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	LLMTimeout   time.Duration
	SystemPrompt string

	// Server
	ListenAddr string
	// RateLimit is summarize requests per minute across the process; 0 disables.
	RateLimit int
	RateBurst int

	// Extraction
	FetchTimeout        time.Duration
	UserAgent           string
	TranscriptLanguages []string
	CacheTTL            time.Duration
	// InsecureTLS skips certificate checks (SSL_VERIFY=false).
	InsecureTLS bool

	// One-shot mode
	URL      string
	OutDir   string
	Language string
	Detail   string
	Style    string

	// Behavior
	LogFile string
	Verbose bool
}

// Defaults used by flags and when file/env leave a value unset.
const (
	DefaultListenAddr   = ":8080"
	DefaultLLMTimeout   = 60 * time.Second
	DefaultFetchTimeout = 10 * time.Second
	DefaultCacheTTL     = time.Hour
	DefaultRateLimit    = 30
	DefaultRateBurst    = 5
)

// WithDefaults fills zero-valued fields with defaults.
func (c Config) WithDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = DefaultLLMTimeout
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.RateBurst <= 0 {
		c.RateBurst = DefaultRateBurst
	}
	return c
}
