package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperifyio/litenote/internal/source"
	"github.com/hyperifyio/litenote/internal/transcript"
)

// VideoExtractor is the single strategy for video URLs: the caption
// transcript is the only text source, so failures are returned as-is.
type VideoExtractor struct {
	Fetcher   transcript.Fetcher
	Languages []string
}

func (VideoExtractor) Method() Method { return MethodTranscript }

func (e VideoExtractor) Extract(ctx context.Context, rawURL string) (*Result, error) {
	id, err := source.VideoID(rawURL)
	if err != nil {
		return nil, err
	}
	langs := e.Languages
	if len(langs) == 0 {
		langs = transcript.DefaultLanguages
	}
	tr, err := e.Fetcher.Fetch(ctx, id, langs)
	if err != nil {
		return nil, fmt.Errorf("transcript for %s: %w", id, err)
	}
	content := Normalize(tr.Text())
	if content == "" {
		return nil, fmt.Errorf("transcript for %s: %w", id, ErrNoContent)
	}
	title := strings.TrimSpace(tr.Title)
	if title == "" {
		title = fmt.Sprintf("YouTube Video (%s)", id)
	}
	return &Result{
		Content: content,
		Title:   title,
		Author:  strings.TrimSpace(tr.Channel),
		Method:  MethodTranscript,
		VideoID: id,
	}, nil
}
