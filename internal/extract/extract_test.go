package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperifyio/litenote/internal/fetch"
	"github.com/hyperifyio/litenote/internal/transcript"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"  hello   world  ":        "hello world",
		"a\n\n\nb":                 "a\nb",
		"\n\n  line one \n\n\n  ": "line one",
		"tabs\tstay":               "tabs\tstay",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"  a  \n\n  b  ",
		"\n \n \n",
		"x \n\n \n y   z\n",
		"\t lead and trail \t",
		"unicode  ünïcödé\n\n\nlines",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestFromHTML_SelectorOrder(t *testing.T) {
	page := `<!doctype html>
	<html>
	  <head><title>Test Page</title></head>
	  <body>
	    <main><p>Main text</p></main>
	    <article><p>Article text</p><script>var x = 1;</script></article>
	  </body>
	</html>`
	doc := FromHTML([]byte(page))
	if doc.Title != "Test Page" {
		t.Fatalf("expected title 'Test Page', got %q", doc.Title)
	}
	got := Normalize(doc.Text)
	if got != "Article text" {
		t.Fatalf("expected article to win over main, got %q", got)
	}
}

func TestFromHTML_ClassSelectors(t *testing.T) {
	page := `<html><body>
	  <div class="sidebar"><p>Side</p></div>
	  <div class="entry-content"><h2>Heading</h2><p>Entry body</p></div>
	</body></html>`
	got := Normalize(FromHTML([]byte(page)).Text)
	if !strings.Contains(got, "Heading") || !strings.Contains(got, "Entry body") {
		t.Fatalf("expected entry content, got %q", got)
	}
	if strings.Contains(got, "Side") {
		t.Fatalf("did not expect sidebar text, got %q", got)
	}
}

func TestFromHTML_FallsBackToParagraphs(t *testing.T) {
	page := `<html><head><title>No Containers</title></head><body>
	  <div><p>First paragraph.</p></div>
	  <span>loose text</span>
	  <p>Second paragraph.</p>
	</body></html>`
	got := Normalize(FromHTML([]byte(page)).Text)
	if !strings.Contains(got, "First paragraph.") || !strings.Contains(got, "Second paragraph.") {
		t.Fatalf("expected paragraphs, got %q", got)
	}
	if strings.Contains(got, "loose text") {
		t.Fatalf("did not expect non-paragraph text, got %q", got)
	}
}

func TestFromHTML_SkipsCookieBanner(t *testing.T) {
	page := `<html><body><article>
	  <div class="cookie-banner">Accept cookies</div>
	  <p>Real content</p>
	</article></body></html>`
	got := Normalize(FromHTML([]byte(page)).Text)
	if got != "Real content" {
		t.Fatalf("expected banner to be skipped, got %q", got)
	}
}

// stubExtractor returns a canned result or error.
type stubExtractor struct {
	method Method
	res    *Result
	err    error
	calls  int
}

func (s *stubExtractor) Method() Method { return s.method }

func (s *stubExtractor) Extract(ctx context.Context, rawURL string) (*Result, error) {
	s.calls++
	if s.res == nil {
		return nil, s.err
	}
	r := *s.res
	return &r, s.err
}

func TestChain_FirstNonEmptyWins(t *testing.T) {
	first := &stubExtractor{method: MethodMetadata, res: &Result{Content: "  first  ", Method: MethodMetadata}}
	second := &stubExtractor{method: MethodReadability, res: &Result{Content: "second", Method: MethodReadability}}
	res, err := NewChain(first, second).Extract(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodMetadata || res.Content != "first" {
		t.Fatalf("unexpected result %+v", res)
	}
	if second.calls != 0 {
		t.Fatalf("expected later strategies to be skipped, got %d calls", second.calls)
	}
}

func TestChain_FallsThroughErrorsAndEmptyContent(t *testing.T) {
	failing := &stubExtractor{method: MethodMetadata, err: errors.New("boom")}
	empty := &stubExtractor{method: MethodReadability, res: &Result{Content: " \n\n ", Method: MethodReadability}}
	good := &stubExtractor{method: MethodHeuristic, res: &Result{Content: "Test content"}}
	res, err := NewChain(failing, empty, good).Extract(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodHeuristic {
		t.Fatalf("expected heuristic method, got %q", res.Method)
	}
	if failing.calls != 1 || empty.calls != 1 || good.calls != 1 {
		t.Fatalf("expected each strategy once, got %d %d %d", failing.calls, empty.calls, good.calls)
	}
}

func TestChain_SecondStrategyMethodReported(t *testing.T) {
	failing := &stubExtractor{method: MethodMetadata}
	second := &stubExtractor{method: MethodReadability, res: &Result{Content: "ok", Method: MethodReadability}}
	res, err := NewChain(failing, second).Extract(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodReadability {
		t.Fatalf("expected readability method, got %q", res.Method)
	}
}

func TestChain_AllExhausted(t *testing.T) {
	chain := NewChain(
		&stubExtractor{method: MethodMetadata, err: errors.New("timeout")},
		&stubExtractor{method: MethodReadability},
		&stubExtractor{method: MethodHeuristic, res: &Result{Content: ""}},
	)
	if _, err := chain.Extract(context.Background(), "https://example.com"); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

// blankGetter returns the same body for every URL.
type blankGetter struct{ body string }

func (g blankGetter) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	return []byte(g.body), "text/html", nil
}

func TestChain_ArticleScenario(t *testing.T) {
	page := `<html><head><title>Scenario</title></head><body><article>Test content</article></body></html>`
	chain := NewChain(
		&stubExtractor{method: MethodMetadata, res: &Result{Content: ""}},
		&stubExtractor{method: MethodReadability, res: &Result{Content: ""}},
		HeuristicExtractor{Getter: blankGetter{body: page}},
	)
	res, err := chain.Extract(context.Background(), "https://example.com/article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodHeuristic || res.Content != "Test content" || res.Title != "Scenario" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestHeuristicExtractor_OverHTTP(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><main role="main"><p>Served body</p></main></body></html>`))
	}))
	defer srv.Close()

	res, err := HeuristicExtractor{Getter: fetch.New(0)}.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if Normalize(res.Content) != "Served body" || res.Title != "Unknown Title" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Author != "Unknown Author" || res.Date != "Unknown Date" {
		t.Fatalf("expected metadata defaults, got author=%q date=%q", res.Author, res.Date)
	}
	if ua != fetch.BrowserUserAgent {
		t.Fatalf("expected browser user agent, got %q", ua)
	}
}

func TestHeuristicExtractor_EmptyPage(t *testing.T) {
	res, err := HeuristicExtractor{Getter: blankGetter{body: "<html><body></body></html>"}}.Extract(context.Background(), "https://example.com")
	if err != nil || res != nil {
		t.Fatalf("expected nil result and nil error, got %+v %v", res, err)
	}
}

type fakeFetcher struct {
	tr       transcript.Transcript
	err      error
	gotID    string
	gotLangs []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoID string, langs []string) (transcript.Transcript, error) {
	f.gotID = videoID
	f.gotLangs = langs
	return f.tr, f.err
}

func TestVideoExtractor_JoinsSegments(t *testing.T) {
	ff := &fakeFetcher{tr: transcript.Transcript{Segments: []transcript.Segment{{Text: "Hello"}, {Text: "world"}}}}
	res, err := VideoExtractor{Fetcher: ff}.Extract(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Content != "Hello world" {
		t.Fatalf("unexpected content %q", res.Content)
	}
	if res.VideoID != "abc123" || ff.gotID != "abc123" {
		t.Fatalf("unexpected video id %q / %q", res.VideoID, ff.gotID)
	}
	if res.Method != MethodTranscript || res.Title != "YouTube Video (abc123)" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(ff.gotLangs) != len(transcript.DefaultLanguages) || ff.gotLangs[0] != "en" {
		t.Fatalf("expected default language priority, got %v", ff.gotLangs)
	}
}

func TestVideoExtractor_PropagatesFailure(t *testing.T) {
	ff := &fakeFetcher{err: transcript.ErrNoTranscript}
	_, err := VideoExtractor{Fetcher: ff}.Extract(context.Background(), "https://youtu.be/abc123?t=5")
	if !errors.Is(err, transcript.ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
	if ff.gotID != "abc123" {
		t.Fatalf("expected short-link id, got %q", ff.gotID)
	}
}
