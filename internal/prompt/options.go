package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Detail selects the summary length directive.
type Detail string

const (
	Brief    Detail = "Brief"
	Medium   Detail = "Medium"
	Detailed Detail = "Detailed"
)

// Style selects bullets or prose.
type Style string

const (
	Bullets    Style = "Bullets"
	Paragraphs Style = "Paragraphs"
)

// Language is the requested output language. Auto keeps the content's own.
type Language string

const Auto Language = "Auto (Content Language)"

// Languages lists the choices offered to users, Auto first.
var Languages = []Language{Auto, "English", "Hindi", "Spanish", "French", "German"}

// Details and Styles list the remaining form choices in display order.
var (
	Details = []Detail{Brief, Medium, Detailed}
	Styles  = []Style{Bullets, Paragraphs}
)

// ErrUnknownOption is returned by the parsers for values outside the choices.
var ErrUnknownOption = errors.New("unknown option")

// ParseDetail maps a form value to a Detail. Empty input means Medium.
func ParseDetail(s string) (Detail, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return Medium, nil
	case "brief", "short":
		return Brief, nil
	case "medium":
		return Medium, nil
	case "detailed", "long":
		return Detailed, nil
	}
	return "", fmt.Errorf("%w: detail %q", ErrUnknownOption, s)
}

// ParseStyle maps a form value to a Style. Empty input means Bullets.
func ParseStyle(s string) (Style, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "bullets", "bullet":
		return Bullets, nil
	case "paragraphs", "paragraph", "prose":
		return Paragraphs, nil
	}
	return "", fmt.Errorf("%w: style %q", ErrUnknownOption, s)
}

// ParseLanguage maps a form value to one of Languages. Empty input and "auto"
// mean Auto.
func ParseLanguage(s string) (Language, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, "auto") {
		return Auto, nil
	}
	for _, l := range Languages {
		if strings.EqualFold(v, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: language %q", ErrUnknownOption, s)
}
