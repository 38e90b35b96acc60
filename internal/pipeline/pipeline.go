// Package pipeline runs one summary request end to end: classify the URL,
// extract its text, generate the summary and render the downloads.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/litenote/internal/cache"
	"github.com/hyperifyio/litenote/internal/export"
	"github.com/hyperifyio/litenote/internal/extract"
	"github.com/hyperifyio/litenote/internal/source"
	"github.com/hyperifyio/litenote/internal/summarize"
)

// ContentExtractor is satisfied by *extract.Chain and by single strategies.
type ContentExtractor interface {
	Extract(ctx context.Context, rawURL string) (*extract.Result, error)
}

// Generator produces a summary. *summarize.Summarizer implements it.
type Generator interface {
	Summarize(ctx context.Context, src summarize.Source, opts summarize.Options) (summarize.Summary, error)
}

// Request is one user submission.
type Request struct {
	URL     string
	Options summarize.Options
}

// Outcome is the result of a successful run. Warning is set when some
// artifacts are missing.
type Outcome struct {
	URL        string
	Source     source.Kind
	Extraction extract.Result
	Summary    summarize.Summary
	Bundle     export.Bundle
	Warning    *Error
}

// Pipeline wires the stages. Cache and Export are optional.
type Pipeline struct {
	Articles  ContentExtractor
	Videos    ContentExtractor
	Generator Generator
	// Cache memoizes extraction results per exact URL.
	Cache *cache.Memo[extract.Result]
	// Export defaults to export.Build.
	Export func(summary, title string) export.Bundle
}

// Run executes the stages in order and stops at the first failing one.
// Returned errors are always *Error.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	logger := zerolog.Ctx(ctx)
	rawURL := strings.TrimSpace(req.URL)
	kind, err := source.Classify(rawURL)
	if err != nil {
		return nil, &Error{Kind: InvalidInput, Op: "classify", Err: err}
	}
	logger.Debug().Str("url", rawURL).Str("kind", string(kind)).Msg("classified")

	res, err := p.extract(ctx, kind, rawURL)
	if err != nil {
		logger.Warn().Err(err).Str("url", rawURL).Msg("extraction failed")
		return nil, &Error{Kind: ExtractionFailed, Op: "extract", Err: err}
	}

	sum, err := p.Generator.Summarize(ctx, summarize.Source{
		Kind:    kind,
		Title:   res.Title,
		Author:  res.Author,
		Content: res.Content,
	}, req.Options)
	if err != nil {
		return nil, &Error{Kind: SummarizationFailed, Op: "summarize", Err: err}
	}

	build := p.Export
	if build == nil {
		build = export.Build
	}
	start := time.Now()
	bundle := build(sum.Text, res.Title)
	out := &Outcome{URL: rawURL, Source: kind, Extraction: res, Summary: sum, Bundle: bundle}
	if err := bundle.Err(); err != nil {
		logger.Warn().Err(err).Msg("export incomplete")
		out.Warning = &Error{Kind: ExportPartialFailure, Op: "export", Err: err}
	}
	logger.Debug().Int("artifacts", len(bundle.Artifacts)).Dur("took", time.Since(start)).Msg("exported")
	return out, nil
}

func (p *Pipeline) extract(ctx context.Context, kind source.Kind, rawURL string) (extract.Result, error) {
	e := p.Articles
	if kind == source.KindVideo {
		e = p.Videos
	}
	compute := func() (extract.Result, error) {
		r, err := e.Extract(ctx, rawURL)
		if err != nil {
			return extract.Result{}, err
		}
		if r == nil {
			return extract.Result{}, extract.ErrNoContent
		}
		return *r, nil
	}
	if p.Cache == nil {
		return compute()
	}
	res, hit, err := p.Cache.Do(rawURL, compute)
	if hit {
		zerolog.Ctx(ctx).Debug().Str("url", rawURL).Msg("extraction cache hit")
	}
	return res, err
}
