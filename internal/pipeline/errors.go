package pipeline

import (
	"errors"
	"strings"

	"github.com/hyperifyio/litenote/internal/export"
)

// Kind classifies a pipeline failure for callers and users.
type Kind string

const (
	InvalidInput         Kind = "invalid_input"
	ExtractionFailed     Kind = "extraction_failed"
	SummarizationFailed  Kind = "summarization_failed"
	ExportPartialFailure Kind = "export_partial_failure"
)

// Error carries the kind of failure, the stage that produced it and the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + string(e.Kind)
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text shown to end users for this failure.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case InvalidInput:
		return "Please enter a valid URL starting with http:// or https://"
	case ExtractionFailed:
		return "Could not extract content from this URL. The page may block automated access or the video may have no transcript."
	case SummarizationFailed:
		if e.Err != nil {
			return "Summary generation failed: " + e.Err.Error()
		}
		return "Summary generation failed."
	case ExportPartialFailure:
		var pe *export.PartialError
		if errors.As(e.Err, &pe) {
			names := make([]string, 0, len(pe.Failed))
			for _, f := range pe.Missing() {
				names = append(names, strings.ToUpper(string(f)))
			}
			return "Some downloads could not be generated: " + strings.Join(names, ", ")
		}
		return "Some downloads could not be generated."
	}
	return "Something went wrong."
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// UserMessage returns the user-facing text for any error.
func UserMessage(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.UserMessage()
	}
	return "Something went wrong."
}
