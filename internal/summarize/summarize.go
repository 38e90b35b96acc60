package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/litenote/internal/langdetect"
	"github.com/hyperifyio/litenote/internal/llm"
	"github.com/hyperifyio/litenote/internal/prompt"
	"github.com/hyperifyio/litenote/internal/source"
)

// ErrGeneration wraps every failure of the generation service.
var ErrGeneration = errors.New("summary generation failed")

// ErrNotConfigured is returned when no client or model is set.
var ErrNotConfigured = errors.New("summarizer not configured")

// Source is the extracted material to summarize.
type Source struct {
	Kind    source.Kind
	Title   string
	Author  string
	Content string
}

// Options are the user's choices for one summary.
type Options struct {
	Language prompt.Language
	Detail   prompt.Detail
	Style    prompt.Style
}

// Summary is the model output plus what was detected along the way.
type Summary struct {
	Text             string
	DetectedLanguage string
	Model            string
	Took             time.Duration
}

// Summarizer sends one prompt per call to an OpenAI-compatible chat model.
type Summarizer struct {
	Client llm.Client
	Model  string
	// SystemPrompt, when non-empty, is sent as a system message before the prompt.
	SystemPrompt string
	// Timeout bounds a single generation call. Zero means no extra bound.
	Timeout     time.Duration
	Temperature float32
}

// Summarize builds the prompt for src and returns the first choice verbatim.
// There is no retry; any failure wraps ErrGeneration.
func (s *Summarizer) Summarize(ctx context.Context, src Source, opts Options) (Summary, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return Summary{}, ErrNotConfigured
	}
	detected := langdetect.Detect(src.Content)
	user := prompt.Build(prompt.Request{
		Kind:             src.Kind,
		Title:            src.Title,
		Author:           src.Author,
		Content:          src.Content,
		DetectedLanguage: detected,
		Language:         opts.Language,
		Detail:           opts.Detail,
		Style:            opts.Style,
	})

	start := time.Now()
	text, err := s.complete(ctx, user)
	took := time.Since(start)
	logger := zerolog.Ctx(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("model", s.Model).Dur("took", took).Msg("generation failed")
		return Summary{}, err
	}
	logger.Info().Str("model", s.Model).Str("lang", detected).Int("chars", len(text)).Dur("took", took).Msg("summary generated")
	return Summary{Text: text, DetectedLanguage: detected, Model: s.Model, Took: took}, nil
}

// Ping sends a trivial prompt to check that the credential and model work.
func (s *Summarizer) Ping(ctx context.Context) error {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return ErrNotConfigured
	}
	_, err := s.complete(ctx, "Hello")
	return err
}

func (s *Summarizer) complete(ctx context.Context, user string) (string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(s.SystemPrompt) != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: s.SystemPrompt})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user})
	req := openai.ChatCompletionRequest{
		Model:       s.Model,
		Messages:    msgs,
		Temperature: s.Temperature,
		N:           1,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrGeneration)
	}
	out := resp.Choices[0].Message.Content
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}
	return out, nil
}
