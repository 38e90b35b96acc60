// Package prompt builds the generation instruction for one summary request.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/litenote/internal/langdetect"
	"github.com/hyperifyio/litenote/internal/source"
)

// MaxContentRunes bounds the content embedded in a prompt.
const MaxContentRunes = 8000

// Request is everything Build needs.
type Request struct {
	Kind    source.Kind
	Title   string
	Author  string
	Content string
	// DetectedLanguage is a langdetect code or langdetect.Unknown.
	DetectedLanguage string
	Language         Language
	Detail           Detail
	Style            Style
}

var lengthDirectives = map[Detail]string{
	Brief:    "Summarize concisely in 3-5 bullet points per section.",
	Medium:   "Summarize in 6-10 bullet points or short paragraphs per section.",
	Detailed: "Provide detailed paragraphs with comprehensive explanations, examples, and context for each section.",
}

// LengthDirective returns the sentence for d; unknown values read as Medium.
func LengthDirective(d Detail) string {
	if s, ok := lengthDirectives[d]; ok {
		return s
	}
	return lengthDirectives[Medium]
}

// StyleDirective returns the sentence for s.
func StyleDirective(s Style) string {
	if s == Paragraphs {
		return "Use paragraph format."
	}
	return "Use bullet points."
}

// LanguageDirective keeps the detected language for Auto and asks for a
// translation otherwise.
func LanguageDirective(lang Language, detected string) string {
	if lang == "" || lang == Auto {
		return fmt.Sprintf("The content is in **%s**. Summarize in the same language.", langdetect.Name(detected))
	}
	return fmt.Sprintf("Translate and summarize into **%s**.", lang)
}

// Build renders the full prompt. It is deterministic for a given Request.
func Build(r Request) string {
	p := GetProfile(r.Kind)
	lang := r.Language
	if lang == "" {
		lang = Auto
	}
	detected := langdetect.Name(r.DetectedLanguage)
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = "Unknown Title"
	}

	var b strings.Builder
	b.WriteString("You are a highly skilled multilingual content summarizer and analyst.\n\n")
	b.WriteString(LanguageDirective(lang, r.DetectedLanguage))
	b.WriteString("\n")
	b.WriteString(LengthDirective(r.Detail))
	b.WriteString("\n")
	b.WriteString(StyleDirective(r.Style))
	b.WriteString("\n\n")
	b.WriteString(p.Intro)
	b.WriteString("\n")
	for _, f := range p.Focus {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("\nYour task is to create a **structured, comprehensive, and actionable summary** of the provided content.\n\n")

	b.WriteString("**Source Information:**\n")
	fmt.Fprintf(&b, "- %s: %s\n", p.TitleLabel, title)
	if p.ShowAuthor {
		author := strings.TrimSpace(r.Author)
		if author == "" {
			author = "Unknown Author"
		}
		fmt.Fprintf(&b, "- Author: %s\n", author)
	}
	fmt.Fprintf(&b, "- Content Type: %s\n", p.ContentLabel)
	fmt.Fprintf(&b, "- Original Language: %s\n\n", detected)

	b.WriteString(structure(lang))
	b.WriteString("\n**Content to Summarize:**\n")
	b.WriteString(Truncate(r.Content, MaxContentRunes))
	b.WriteString("\n")
	return b.String()
}

func structure(lang Language) string {
	return `**Instructions:**

1. **Document Header**
   - Include the source information above
   - Summary Language: ` + string(lang) + `

2. **Executive Summary**
   - Provide a 2-3 sentence overview of the main topic and key findings

3. **Main Content Analysis**
   - Identify and organize content into logical sections
   - Use descriptive headings for each section
   - Extract key insights, arguments, and supporting evidence
   - Highlight important data, statistics, or quotes (if present)

4. **Key Takeaways Table**
   Create a markdown table:
   | Section | Key Insight |
   |---------|-------------|
   | Section Name | One-sentence takeaway |

5. **Actionable Insights**
   - List 3-5 practical insights or recommendations
   - Make them specific and directly applicable

6. **Content Assessment**
   - Brief note on content quality, credibility, and usefulness

**Formatting Requirements:**
- Use clear Markdown formatting
- Maintain logical flow and readability
- Avoid repetition and filler content
- Focus on value-driven insights
`
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
