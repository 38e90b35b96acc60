package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// contentSelectors are tried in order; the first one with any match wins.
var contentSelectors = []string{
	"article",
	"main",
	`[role="main"]`,
	".content",
	".post-content",
	".entry-content",
	".article-body",
	".post-body",
}

// Document is a simplified representation of extracted page content.
type Document struct {
	Title string
	Text  string
}

// FromHTML extracts readable text from HTML using the content selectors,
// falling back to the text of every <p> when none of them match.
func FromHTML(input []byte) Document {
	root, err := html.Parse(bytes.NewReader(input))
	if err != nil || root == nil {
		return Document{}
	}
	doc := goquery.NewDocumentFromNode(root)
	title := strings.TrimSpace(doc.Find("title").First().Text())

	var text string
	for _, selector := range contentSelectors {
		matches := doc.Find(selector)
		if matches.Length() == 0 {
			continue
		}
		text = joinNodeText(matches.Nodes)
		break
	}
	if strings.TrimSpace(text) == "" {
		text = joinNodeText(doc.Find("p").Nodes)
	}
	return Document{Title: title, Text: text}
}

func joinNodeText(nodes []*html.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		var b strings.Builder
		collectText(&b, n, false)
		parts = append(parts, b.String())
	}
	return strings.Join(parts, " ")
}

func collectText(b *strings.Builder, n *html.Node, inPre bool) {
	if n.Type == html.ElementNode {
		// Skip known boilerplate containers like cookie/consent banners
		if isBoilerplateContainer(n) {
			return
		}
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template", "iframe", "svg":
			return
		case "pre", "code":
			inPre = true
		case "br", "hr":
			b.WriteString("\n")
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol", "div", "section", "blockquote", "tr":
			// Add a newline before block starts to ensure separation
			b.WriteString("\n")
		}
	}

	if n.Type == html.TextNode {
		data := n.Data
		if !inPre {
			data = strings.ReplaceAll(data, "\t", " ")
			data = strings.ReplaceAll(data, "\r", " ")
		}
		b.WriteString(data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c, inPre)
	}

	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "pre", "blockquote", "tr":
			b.WriteString("\n")
		case "td", "th":
			b.WriteString(" ")
		}
	}
}

// isBoilerplateContainer returns true if the element looks like a cookie/consent banner.
func isBoilerplateContainer(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && key != "aria-label" {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

// HeuristicExtractor is the last-resort strategy: tag selectors over the
// parsed page, then plain paragraphs.
type HeuristicExtractor struct {
	Getter Getter
}

func (HeuristicExtractor) Method() Method { return MethodHeuristic }

func (e HeuristicExtractor) Extract(ctx context.Context, rawURL string) (*Result, error) {
	body, _, err := e.Getter.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc := FromHTML(body)
	if strings.TrimSpace(doc.Text) == "" {
		return nil, nil
	}
	return &Result{
		Content: doc.Text,
		Title:   orDefault(doc.Title, "Unknown Title"),
		Author:  "Unknown Author",
		Date:    "Unknown Date",
		Method:  MethodHeuristic,
	}, nil
}
