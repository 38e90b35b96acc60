package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags/env.
type FileConfig struct {
	LLM struct {
		BaseURL      string        `yaml:"base" json:"base"`
		Model        string        `yaml:"model" json:"model"`
		APIKey       string        `yaml:"key" json:"key"`
		Timeout      time.Duration `yaml:"timeout" json:"timeout"`
		SystemPrompt string        `yaml:"systemPrompt" json:"systemPrompt"`
	} `yaml:"llm" json:"llm"`

	Server struct {
		Addr      string `yaml:"addr" json:"addr"`
		RateLimit int    `yaml:"rateLimit" json:"rateLimit"`
		RateBurst int    `yaml:"rateBurst" json:"rateBurst"`
	} `yaml:"server" json:"server"`

	Fetch struct {
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
		SSLVerify *bool         `yaml:"sslVerify" json:"sslVerify"`
	} `yaml:"fetch" json:"fetch"`

	Transcript struct {
		Languages []string `yaml:"languages" json:"languages"`
	} `yaml:"transcript" json:"transcript"`

	Cache struct {
		TTL time.Duration `yaml:"ttl" json:"ttl"`
	} `yaml:"cache" json:"cache"`

	Log struct {
		File string `yaml:"file" json:"file"`
	} `yaml:"log" json:"log"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset or still at their flag default, so explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if (cfg.LLMTimeout == 0 || cfg.LLMTimeout == DefaultLLMTimeout) && fc.LLM.Timeout > 0 {
		cfg.LLMTimeout = fc.LLM.Timeout
	}
	if cfg.SystemPrompt == "" && fc.LLM.SystemPrompt != "" {
		cfg.SystemPrompt = fc.LLM.SystemPrompt
	}

	if (cfg.ListenAddr == "" || cfg.ListenAddr == DefaultListenAddr) && fc.Server.Addr != "" {
		cfg.ListenAddr = fc.Server.Addr
	}
	if (cfg.RateLimit == 0 || cfg.RateLimit == DefaultRateLimit) && fc.Server.RateLimit > 0 {
		cfg.RateLimit = fc.Server.RateLimit
	}
	if (cfg.RateBurst == 0 || cfg.RateBurst == DefaultRateBurst) && fc.Server.RateBurst > 0 {
		cfg.RateBurst = fc.Server.RateBurst
	}

	if (cfg.FetchTimeout == 0 || cfg.FetchTimeout == DefaultFetchTimeout) && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.UserAgent == "" && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if fc.Fetch.SSLVerify != nil && !*fc.Fetch.SSLVerify {
		cfg.InsecureTLS = true
	}

	if len(cfg.TranscriptLanguages) == 0 && len(fc.Transcript.Languages) > 0 {
		cfg.TranscriptLanguages = append([]string{}, fc.Transcript.Languages...)
	}
	if (cfg.CacheTTL == 0 || cfg.CacheTTL == DefaultCacheTTL) && fc.Cache.TTL != 0 {
		cfg.CacheTTL = fc.Cache.TTL
	}
	if cfg.LogFile == "" && fc.Log.File != "" {
		cfg.LogFile = fc.Log.File
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal validation of required settings.
// A missing API key is allowed in server mode: users supply one per session.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required (or set LLM_MODEL)")
	}
	if cfg.URL != "" {
		if strings.TrimSpace(cfg.OutDir) == "" {
			return errors.New("config: -out is required with -url")
		}
		if strings.TrimSpace(cfg.LLMAPIKey) == "" {
			return errors.New("config: an API key is required with -url (set LLM_API_KEY or GOOGLE_API_KEY)")
		}
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return errors.New("config: negative rate limits are not allowed")
	}
	if cfg.FetchTimeout < 0 || cfg.LLMTimeout < 0 {
		return errors.New("config: negative timeouts are not allowed")
	}
	return nil
}
