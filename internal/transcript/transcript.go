package transcript

import (
	"context"
	"errors"
	"strings"
)

// DefaultLanguages is the caption language priority, most likely first.
var DefaultLanguages = []string{
	"en", "hi", "es", "fr", "de", "ja", "as", "bn", "gu", "kn", "ml", "mr", "or", "pa", "ta", "te", "ur",
}

// ErrNoTranscript means the video has no usable captions in any requested
// language, or captions are disabled, private or geo-blocked.
var ErrNoTranscript = errors.New("no transcript available")

// Segment is one timed caption line.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is the caption track chosen for a video.
type Transcript struct {
	VideoID  string
	Title    string
	Channel  string
	Language string
	Segments []Segment
}

// Text joins segment texts with single spaces, in order.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

// Fetcher retrieves a transcript for a video id using the first available
// language from langs.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string, langs []string) (Transcript, error)
}
