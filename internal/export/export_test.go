package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSummary = "# Summary\n\n## Executive Summary\nGo is fun.\n\n- point one\n- see [docs](https://go.dev)\n"

func readZipPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(b)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestBuild_AllFormats(t *testing.T) {
	b := Build(sampleSummary, "Go Article")
	if err := b.Err(); err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	want := []string{"summary.txt", "summary.pdf", "summary.docx", "summary.pptx"}
	if len(b.Artifacts) != len(want) {
		t.Fatalf("expected %d artifacts, got %d", len(want), len(b.Artifacts))
	}
	for i, name := range want {
		if b.Artifacts[i].Name != name {
			t.Fatalf("artifact %d: expected %s, got %s", i, name, b.Artifacts[i].Name)
		}
		if len(b.Artifacts[i].Data) == 0 || b.Artifacts[i].ContentType == "" {
			t.Fatalf("artifact %s is incomplete", name)
		}
	}
}

func TestText_IsExactSummary(t *testing.T) {
	for _, s := range []string{sampleSummary, "", "  spaced  \n"} {
		b := Build(s, "t")
		a, ok := b.Get("summary.txt")
		if !ok {
			t.Fatalf("missing text artifact for %q", s)
		}
		if string(a.Data) != s {
			t.Fatalf("text artifact %q != summary %q", a.Data, s)
		}
	}
}

func TestPDF_RendersNonLatinText(t *testing.T) {
	b := Build("# Résumé\n\nनमस्ते दुनिया and “quotes” – dash\n", "t")
	a, ok := b.Get("summary.pdf")
	if !ok {
		t.Fatalf("pdf failed: %v", b.Err())
	}
	if !bytes.HasPrefix(a.Data, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", a.Data[:8])
	}
}

func TestToWinAnsi(t *testing.T) {
	got := toWinAnsi("café ✓ €")
	want := "caf\xe9 ? \x80"
	if got != want {
		t.Fatalf("toWinAnsi = %q, want %q", got, want)
	}
}

func TestDOCX_Structure(t *testing.T) {
	b := Build("line one\nline <two> & more", "My Title")
	a, ok := b.Get("summary.docx")
	if !ok {
		t.Fatalf("docx failed: %v", b.Err())
	}
	doc := readZipPart(t, a.Data, "word/document.xml")
	for _, want := range []string{"Content Summary", "Title: My Title", "line one", "<w:br/>", "line &lt;two&gt; &amp; more"} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document.xml missing %q:\n%s", want, doc)
		}
	}
	if strings.Index(doc, "Content Summary") > strings.Index(doc, "Title: My Title") {
		t.Fatal("expected the main heading before the title heading")
	}
	if !strings.Contains(readZipPart(t, a.Data, "[Content_Types].xml"), "wordprocessingml.document.main+xml") {
		t.Fatal("content types must declare the main document")
	}
}

func TestPPTX_TruncatesBody(t *testing.T) {
	long := strings.Repeat("x", SlideBodyRunes+50)
	b := Build(long, "t")
	a, ok := b.Get("summary.pptx")
	if !ok {
		t.Fatalf("pptx failed: %v", b.Err())
	}
	slide := readZipPart(t, a.Data, "ppt/slides/slide1.xml")
	if !strings.Contains(slide, "Content Summary") {
		t.Fatal("slide title missing")
	}
	if !strings.Contains(slide, strings.Repeat("x", SlideBodyRunes)+"...") {
		t.Fatal("expected body truncated with ellipsis")
	}
	if strings.Contains(slide, strings.Repeat("x", SlideBodyRunes+1)) {
		t.Fatal("body longer than the limit")
	}
	readZipPart(t, a.Data, "ppt/presentation.xml")
	readZipPart(t, a.Data, "ppt/theme/theme1.xml")
}

func TestSlideBody(t *testing.T) {
	if got := SlideBody("short"); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	exact := strings.Repeat("é", SlideBodyRunes)
	if got := SlideBody(exact); got != exact {
		t.Fatal("text at the limit must not get an ellipsis")
	}
	if got := SlideBody(exact + "é"); got != exact+"..." {
		t.Fatal("expected ellipsis past the limit")
	}
}

func TestBuildWith_PartialFailure(t *testing.T) {
	rs := Renderers()
	for i := range rs {
		switch rs[i].Format {
		case PDF:
			rs[i].Render = func(string, string) ([]byte, error) { return nil, errors.New("font missing") }
		case PPTX:
			rs[i].Render = func(string, string) ([]byte, error) { panic("boom") }
		}
	}
	b := BuildWith(rs, "hello", "t")
	if len(b.Artifacts) != 2 {
		t.Fatalf("expected txt and docx to survive, got %d artifacts", len(b.Artifacts))
	}
	if _, ok := b.Get("summary.txt"); !ok {
		t.Fatal("txt missing")
	}
	if _, ok := b.Get("summary.docx"); !ok {
		t.Fatal("docx missing")
	}
	var pe *PartialError
	if !errors.As(b.Err(), &pe) {
		t.Fatalf("expected *PartialError, got %v", b.Err())
	}
	missing := pe.Missing()
	if len(missing) != 2 || missing[0] != PDF || missing[1] != PPTX {
		t.Fatalf("unexpected missing formats %v", missing)
	}
	if !strings.Contains(pe.Error(), "font missing") || !strings.Contains(pe.Error(), "panic: boom") {
		t.Fatalf("unexpected error text %q", pe.Error())
	}
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteDir(dir, Build("hello", "t"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("expected 4 files, got %d", len(paths))
	}
	got, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	if err != nil || string(got) != "hello" {
		t.Fatalf("unexpected txt %q %v", got, err)
	}
}
