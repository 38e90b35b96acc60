package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/litenote/internal/app"
	"github.com/hyperifyio/litenote/internal/llm"
	"github.com/hyperifyio/litenote/internal/pipeline"
)

func main() {
	cfg, showVersion, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if showVersion {
		fmt.Printf("litenote %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}
	closer := app.SetupLogging(cfg.Verbose, cfg.LogFile)
	defer closer.Close()

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg(pipeline.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	if cfg.URL != "" {
		_, err := a.RunOnce(ctx)
		return err
	}
	a.Preflight(ctx)
	return a.Serve(ctx)
}

// exitCode is 2 for bad input, 1 for everything else.
func exitCode(err error) int {
	if pipeline.KindOf(err) == pipeline.InvalidInput {
		return 2
	}
	return 1
}

// loadConfig resolves settings with precedence flags > env > config file >
// defaults. Dotenv files are loaded into the environment first.
func loadConfig(args []string) (app.Config, bool, error) {
	fs := flag.NewFlagSet("litenote", flag.ContinueOnError)
	var (
		flags       app.Config
		configPath  string
		envFiles    string
		showVersion bool
		languages   string
		insecure    bool
	)
	fs.StringVar(&configPath, "config", os.Getenv("LITENOTE_CONFIG"), "Path to YAML or JSON config file")
	fs.StringVar(&envFiles, "env", "", "Comma-separated dotenv files (default .env,.env.local)")
	fs.StringVar(&flags.URL, "url", "", "Summarize this URL once and exit instead of serving")
	fs.StringVar(&flags.OutDir, "out", "", "Directory for summary.txt/.pdf/.docx/.pptx (with -url)")
	fs.StringVar(&flags.Language, "lang", "", "Summary language, e.g. English or auto")
	fs.StringVar(&flags.Detail, "detail", "", "Summary detail: brief, medium or detailed")
	fs.StringVar(&flags.Style, "style", "", "Summary style: bullets or paragraphs")
	fs.StringVar(&flags.ListenAddr, "addr", "", "HTTP listen address (default "+app.DefaultListenAddr+")")
	fs.StringVar(&flags.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL (default "+llm.DefaultBaseURL+")")
	fs.StringVar(&flags.LLMModel, "llm.model", "", "Model name (default "+llm.DefaultModel+")")
	fs.StringVar(&flags.LLMAPIKey, "llm.key", "", "API key for the generation service")
	fs.DurationVar(&flags.LLMTimeout, "llm.timeout", 0, "Generation call timeout")
	fs.StringVar(&flags.SystemPrompt, "llm.systemPrompt", "", "Optional system message sent before the prompt")
	fs.DurationVar(&flags.FetchTimeout, "fetch.timeout", 0, "Per-request page fetch timeout")
	fs.StringVar(&languages, "transcript.langs", "", "Comma-separated transcript language preference")
	fs.IntVar(&flags.RateLimit, "rate", 0, "Summarize requests per minute across the process (0 disables)")
	fs.BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification")
	fs.StringVar(&flags.LogFile, "log.file", "", "Also write JSON logs to this rotated file")
	fs.BoolVar(&flags.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}

	files := app.DefaultEnvFiles
	if strings.TrimSpace(envFiles) != "" {
		files = strings.Split(envFiles, ",")
	}
	if err := app.LoadEnvFiles(files...); err != nil {
		return app.Config{}, false, fmt.Errorf("load env: %w", err)
	}

	cfg := app.Config{RateLimit: app.DefaultRateLimit}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, false, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.URL = flags.URL
		case "out":
			cfg.OutDir = flags.OutDir
		case "lang":
			cfg.Language = flags.Language
		case "detail":
			cfg.Detail = flags.Detail
		case "style":
			cfg.Style = flags.Style
		case "addr":
			cfg.ListenAddr = flags.ListenAddr
		case "llm.base":
			cfg.LLMBaseURL = flags.LLMBaseURL
		case "llm.model":
			cfg.LLMModel = flags.LLMModel
		case "llm.key":
			cfg.LLMAPIKey = flags.LLMAPIKey
		case "llm.timeout":
			cfg.LLMTimeout = flags.LLMTimeout
		case "llm.systemPrompt":
			cfg.SystemPrompt = flags.SystemPrompt
		case "fetch.timeout":
			cfg.FetchTimeout = flags.FetchTimeout
		case "transcript.langs":
			cfg.TranscriptLanguages = splitComma(languages)
		case "rate":
			cfg.RateLimit = flags.RateLimit
		case "insecure":
			cfg.InsecureTLS = insecure
		case "log.file":
			cfg.LogFile = flags.LogFile
		case "v":
			cfg.Verbose = flags.Verbose
		}
	})

	if strings.TrimSpace(cfg.LLMModel) == "" {
		cfg.LLMModel = llm.DefaultModel
	}
	return cfg.WithDefaults(), showVersion, nil
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
