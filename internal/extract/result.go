package extract

import (
	"context"
	"errors"
)

// Method identifies the strategy that produced a Result.
type Method string

const (
	MethodTranscript  Method = "transcript"
	MethodMetadata    Method = "trafilatura"
	MethodReadability Method = "readability"
	MethodHeuristic   Method = "heuristic"
)

// Label is the human readable name shown next to a summary.
func (m Method) Label() string {
	switch m {
	case MethodTranscript:
		return "YouTube Transcript API"
	case MethodMetadata:
		return "Trafilatura"
	case MethodReadability:
		return "Readability"
	case MethodHeuristic:
		return "HTML Heuristics"
	default:
		return "Unknown"
	}
}

// Result is the text and metadata pulled from one URL.
type Result struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date,omitempty"`
	Method  Method `json:"method"`
	VideoID string `json:"video_id,omitempty"`
}

// ErrNoContent means no strategy produced usable text.
var ErrNoContent = errors.New("no content extracted")

// Extractor is one extraction strategy. A nil Result with a nil error means
// the strategy found nothing; callers treat both the same way.
type Extractor interface {
	Method() Method
	Extract(ctx context.Context, rawURL string) (*Result, error)
}

// Getter fetches raw page bytes. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, string, error)
}
