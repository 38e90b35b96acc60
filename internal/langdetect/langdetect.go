// Package langdetect guesses the language of extracted content.
package langdetect

import (
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Unknown is returned whenever no language can be determined.
const Unknown = "unknown"

// SampleRunes is how much of the text is inspected.
const SampleRunes = 500

// Detect returns an ISO 639-1 code for the language of text, looking only at
// its first SampleRunes runes. The best guess is returned even when it is
// weak; only empty or undetectable input yields Unknown.
func Detect(text string) string {
	sample := strings.TrimSpace(prefix(text, SampleRunes))
	if sample == "" {
		return Unknown
	}
	info := whatlanggo.Detect(sample)
	if info.Confidence <= 0 {
		return Unknown
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return Unknown
	}
	return code
}

// Name renders a language code as an English display name. Unknown and
// unparsable codes are returned unchanged.
func Name(code string) string {
	if code == "" || code == Unknown {
		return Unknown
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
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
