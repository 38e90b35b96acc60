package web

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Summaries use GFM tables for the takeaway section.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var summaryPolicy = bluemonday.UGCPolicy()

// renderMarkdown turns model output into sanitized HTML. Raw HTML in the
// source is dropped by goldmark and whatever remains passes the UGC policy.
// On conversion failure the text is shown escaped in a <pre>.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(summaryPolicy.SanitizeBytes(buf.Bytes()))
}
