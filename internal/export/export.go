// Package export turns a summary into downloadable artifacts. Every format is
// rendered independently; one failing format never blocks the others.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Format identifies an artifact type by its file extension.
type Format string

const (
	TXT  Format = "txt"
	PDF  Format = "pdf"
	DOCX Format = "docx"
	PPTX Format = "pptx"
)

// BaseName is the file name stem shared by all artifacts.
const BaseName = "summary"

// Artifact is one rendered file.
type Artifact struct {
	Format      Format
	Name        string
	ContentType string
	Data        []byte
}

// Renderer produces one format.
type Renderer struct {
	Format      Format
	ContentType string
	Render      func(summary, title string) ([]byte, error)
}

// Renderers returns the default formats in display order.
func Renderers() []Renderer {
	return []Renderer{
		{Format: TXT, ContentType: "text/plain; charset=utf-8", Render: renderText},
		{Format: PDF, ContentType: "application/pdf", Render: renderPDF},
		{Format: DOCX, ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Render: renderDOCX},
		{Format: PPTX, ContentType: "application/vnd.openxmlformats-officedocument.presentationml.presentation", Render: renderPPTX},
	}
}

// Bundle holds the artifacts that rendered and the errors of those that did not.
type Bundle struct {
	Artifacts []Artifact
	Failed    map[Format]error
}

// Get returns the artifact with the given file name.
func (b Bundle) Get(name string) (Artifact, bool) {
	for _, a := range b.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// Err reports the failed formats as a *PartialError, or nil.
func (b Bundle) Err() error {
	if len(b.Failed) == 0 {
		return nil
	}
	return &PartialError{Failed: b.Failed}
}

// PartialError lists formats that could not be produced.
type PartialError struct {
	Failed map[Format]error
}

// Missing returns the failed formats sorted by name.
func (e *PartialError) Missing() []Format {
	out := make([]Format, 0, len(e.Failed))
	for f := range e.Failed {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e *PartialError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Missing() {
		parts = append(parts, fmt.Sprintf("%s: %v", f, e.Failed[f]))
	}
	return "export incomplete: " + strings.Join(parts, "; ")
}

// Build renders the default formats.
func Build(summary, title string) Bundle {
	return BuildWith(Renderers(), summary, title)
}

// BuildWith renders each format in rs, recovering from panics per format.
func BuildWith(rs []Renderer, summary, title string) Bundle {
	var b Bundle
	for _, r := range rs {
		data, err := safeRender(r, summary, title)
		if err != nil {
			if b.Failed == nil {
				b.Failed = make(map[Format]error)
			}
			b.Failed[r.Format] = err
			continue
		}
		b.Artifacts = append(b.Artifacts, Artifact{
			Format:      r.Format,
			Name:        BaseName + "." + string(r.Format),
			ContentType: r.ContentType,
			Data:        data,
		})
	}
	return b
}

func safeRender(r Renderer, summary, title string) (data []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			data, err = nil, fmt.Errorf("render %s: panic: %v", r.Format, p)
		}
	}()
	data, err = r.Render(summary, title)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", r.Format, err)
	}
	return data, nil
}

// WriteDir writes every artifact of b into dir and returns the written paths.
func WriteDir(dir string, b Bundle) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(b.Artifacts))
	for _, a := range b.Artifacts {
		p := filepath.Join(dir, a.Name)
		if err := os.WriteFile(p, a.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", a.Name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func renderText(summary, _ string) ([]byte, error) {
	return []byte(summary), nil
}
