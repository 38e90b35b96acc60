package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	readability "github.com/go-shiori/go-readability"
)

// ReadabilityExtractor downloads the page and parses it with readability.
// The article HTML is rendered as Markdown so headings and lists survive;
// the plain text content is used when conversion fails.
type ReadabilityExtractor struct {
	Getter Getter
}

func (ReadabilityExtractor) Method() Method { return MethodReadability }

func (e ReadabilityExtractor) Extract(ctx context.Context, rawURL string) (*Result, error) {
	body, _, err := e.Getter.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, nil
	}
	if md, err := htmltomarkdown.ConvertString(article.Content); err == nil && strings.TrimSpace(md) != "" {
		text = md
	}
	res := &Result{
		Content: text,
		Title:   orDefault(article.Title, "Unknown Title"),
		Author:  orDefault(article.Byline, "Unknown Author"),
		Date:    "Unknown Date",
		Method:  MethodReadability,
	}
	if article.PublishedTime != nil && !article.PublishedTime.IsZero() {
		res.Date = article.PublishedTime.Format("2006-01-02")
	}
	return res, nil
}
