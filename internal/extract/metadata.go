package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	trafilatura "github.com/markusmobius/go-trafilatura"
)

// MetadataExtractor is the primary strategy: boilerplate removal with
// trafilatura, which also reads title, author and date from the page's
// structured markup.
type MetadataExtractor struct {
	Getter Getter
}

func (MetadataExtractor) Method() Method { return MethodMetadata }

func (e MetadataExtractor) Extract(ctx context.Context, rawURL string) (*Result, error) {
	body, _, err := e.Getter.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	pageURL, _ := url.Parse(rawURL)
	extracted, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL:     pageURL,
		ExcludeComments: true,
		EnableFallback:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("trafilatura: %w", err)
	}
	if extracted == nil || strings.TrimSpace(extracted.ContentText) == "" {
		return nil, nil
	}
	meta := extracted.Metadata
	res := &Result{
		Content: extracted.ContentText,
		Title:   orDefault(meta.Title, "Unknown Title"),
		Author:  orDefault(meta.Author, "Unknown Author"),
		Date:    "Unknown Date",
		Method:  MethodMetadata,
	}
	if !meta.Date.IsZero() {
		res.Date = meta.Date.Format("2006-01-02")
	}
	return res, nil
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
