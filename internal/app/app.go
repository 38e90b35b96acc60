package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hyperifyio/litenote/internal/cache"
	"github.com/hyperifyio/litenote/internal/export"
	"github.com/hyperifyio/litenote/internal/extract"
	"github.com/hyperifyio/litenote/internal/fetch"
	"github.com/hyperifyio/litenote/internal/llm"
	"github.com/hyperifyio/litenote/internal/pipeline"
	"github.com/hyperifyio/litenote/internal/prompt"
	"github.com/hyperifyio/litenote/internal/summarize"
	"github.com/hyperifyio/litenote/internal/transcript"
	"github.com/hyperifyio/litenote/internal/web"
)

// App wires configuration into the pipeline. It implements web.Backend.
type App struct {
	cfg      Config
	llmHTTP  *http.Client
	articles *extract.Chain
	videos   extract.VideoExtractor
	memo     *cache.Memo[extract.Result]
}

// ErrNoAPIKey is returned when neither the request nor the config carries a key.
var ErrNoAPIKey = errors.New("no API key configured")

func New(cfg Config) (*App, error) {
	cfg = cfg.WithDefaults()
	if strings.TrimSpace(cfg.LLMModel) == "" {
		cfg.LLMModel = llm.DefaultModel
	}
	outbound := newHTTPClient(0, cfg.InsecureTLS)

	pages := fetch.New(cfg.FetchTimeout)
	pages.HTTPClient = outbound
	if cfg.UserAgent != "" {
		pages.UserAgent = cfg.UserAgent
	}
	pages.Header = http.Header{"Accept-Language": {"en-US,en;q=0.9"}}

	captions := fetch.New(cfg.FetchTimeout)
	captions.HTTPClient = outbound
	captions.UserAgent = pages.UserAgent
	captions.Header = pages.Header
	captions.AllowedContentTypes = []string{"text/html", "text/xml", "application/xml", "application/json"}

	a := &App{
		cfg:     cfg,
		llmHTTP: newHTTPClient(0, cfg.InsecureTLS),
		articles: extract.NewChain(
			extract.MetadataExtractor{Getter: pages},
			extract.ReadabilityExtractor{Getter: pages},
			extract.HeuristicExtractor{Getter: pages},
		),
		videos: extract.VideoExtractor{
			Fetcher:   &transcript.YouTube{Getter: captions, Poster: captions},
			Languages: cfg.TranscriptLanguages,
		},
		memo: cache.NewMemo[extract.Result](cfg.CacheTTL),
	}
	return a, nil
}

// Config returns the effective configuration.
func (a *App) Config() Config { return a.cfg }

func (a *App) summarizer(apiKey string) *summarize.Summarizer {
	return &summarize.Summarizer{
		Client:       llm.NewOpenAI(a.cfg.LLMBaseURL, apiKey, a.llmHTTP),
		Model:        a.cfg.LLMModel,
		SystemPrompt: a.cfg.SystemPrompt,
		Timeout:      a.cfg.LLMTimeout,
	}
}

func (a *App) key(apiKey string) (string, error) {
	if k := strings.TrimSpace(apiKey); k != "" {
		return k, nil
	}
	if k := strings.TrimSpace(a.cfg.LLMAPIKey); k != "" {
		return k, nil
	}
	return "", ErrNoAPIKey
}

// Run executes one pipeline run with apiKey, or the configured key when empty.
func (a *App) Run(ctx context.Context, apiKey string, req pipeline.Request) (*pipeline.Outcome, error) {
	key, err := a.key(apiKey)
	if err != nil {
		return nil, &pipeline.Error{Kind: pipeline.SummarizationFailed, Op: "configure", Err: err}
	}
	p := &pipeline.Pipeline{
		Articles:  a.articles,
		Videos:    a.videos,
		Generator: a.summarizer(key),
		Cache:     a.memo,
		Export:    export.Build,
	}
	return p.Run(ctx, req)
}

// Ping validates apiKey against the generation service.
func (a *App) Ping(ctx context.Context, apiKey string) error {
	key, err := a.key(apiKey)
	if err != nil {
		return err
	}
	return a.summarizer(key).Ping(ctx)
}

// Preflight lists models on the configured endpoint. It is best-effort and
// only logs.
func (a *App) Preflight(ctx context.Context) {
	key, err := a.key("")
	if err != nil {
		log.Info().Msg("no default API key; users must set one per session")
		return
	}
	var lister llm.ModelLister = llm.NewOpenAI(a.cfg.LLMBaseURL, key, a.llmHTTP)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	log.Info().Int("count", len(models.Models)).Str("model", a.cfg.LLMModel).Msg("LLM models available")
}

// RunOnce summarizes cfg.URL and writes the artifacts into cfg.OutDir.
func (a *App) RunOnce(ctx context.Context) ([]string, error) {
	lang, err := prompt.ParseLanguage(a.cfg.Language)
	if err != nil {
		return nil, err
	}
	detail, err := prompt.ParseDetail(a.cfg.Detail)
	if err != nil {
		return nil, err
	}
	style, err := prompt.ParseStyle(a.cfg.Style)
	if err != nil {
		return nil, err
	}
	out, err := a.Run(ctx, "", pipeline.Request{
		URL:     a.cfg.URL,
		Options: summarize.Options{Language: lang, Detail: detail, Style: style},
	})
	if err != nil {
		return nil, err
	}
	if out.Warning != nil {
		log.Warn().Err(out.Warning).Msg(out.Warning.UserMessage())
	}
	paths, err := export.WriteDir(a.cfg.OutDir, out.Bundle)
	if err != nil {
		return paths, err
	}
	log.Info().
		Str("title", out.Extraction.Title).
		Str("method", out.Extraction.Method.Label()).
		Str("lang", out.Summary.DetectedLanguage).
		Strs("files", paths).
		Msg("summary written")
	return paths, nil
}

// Serve runs the web UI until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	var limiter *rate.Limiter
	if a.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(a.cfg.RateLimit)/60), a.cfg.RateBurst)
	}
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           web.New(a, a.cfg.LLMAPIKey != "", limiter, log.Logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.ListenAddr).Str("version", BuildVersion).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
