// Package web serves the browser form and a small JSON API over the pipeline.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"

	"github.com/hyperifyio/litenote/internal/cache"
	"github.com/hyperifyio/litenote/internal/export"
	"github.com/hyperifyio/litenote/internal/langdetect"
	"github.com/hyperifyio/litenote/internal/pipeline"
	"github.com/hyperifyio/litenote/internal/prompt"
	"github.com/hyperifyio/litenote/internal/summarize"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// DownloadTTL bounds how long rendered artifacts stay downloadable.
const DownloadTTL = time.Hour

// maxFormBytes caps request bodies.
const maxFormBytes = 1 << 20

// Backend runs the pipeline with a given generation key. An empty key means
// the server-wide default.
type Backend interface {
	Run(ctx context.Context, apiKey string, req pipeline.Request) (*pipeline.Outcome, error)
	Ping(ctx context.Context, apiKey string) error
}

// Server holds the handlers' shared state.
type Server struct {
	Backend Backend
	// HasDefaultKey reports whether a key was configured at startup.
	HasDefaultKey bool
	Sessions      *Sessions
	Downloads     *cache.Memo[export.Bundle]
	// Limiter throttles summarize endpoints process-wide. Nil disables it.
	Limiter     *rate.Limiter
	Logger      zerolog.Logger
	PingTimeout time.Duration
}

// New returns a Server with in-memory sessions and download storage.
func New(b Backend, hasDefaultKey bool, limiter *rate.Limiter, logger zerolog.Logger) *Server {
	return &Server{
		Backend:       b,
		HasDefaultKey: hasDefaultKey,
		Sessions:      NewSessions(),
		Downloads:     &cache.Memo[export.Bundle]{TTL: DownloadTTL, Clock: time.Now, KeepPrevious: true},
		Limiter:       limiter,
		Logger:        logger,
		PingTimeout:   15 * time.Second,
	}
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /key", s.handleKey)
	mux.Handle("POST /summarize", s.limit(http.HandlerFunc(s.handleSummarize)))
	mux.Handle("POST /api/summarize", s.limit(http.HandlerFunc(s.handleAPISummarize)))
	mux.HandleFunc("GET /download/{id}/{name}", s.handleDownload)

	var h http.Handler = mux
	h = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("took", d).
			Msg("request")
	})(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(s.Logger)(h)
	return h
}

func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Limiter != nil && !s.Limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type formValues struct {
	URL      string
	Language string
	Detail   string
	Style    string
}

type downloadLink struct {
	Format string `json:"format"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

type resultView struct {
	Title     string
	Author    string
	Method    string
	Language  string
	Summary   template.HTML
	Warning   string
	Downloads []downloadLink
}

type pageData struct {
	HasKey    bool
	Notice    string
	Error     string
	Form      formValues
	Languages []prompt.Language
	Details   []prompt.Detail
	Styles    []prompt.Style
	Result    *resultView
}

func (s *Server) page(r *http.Request) pageData {
	return pageData{
		HasKey:    s.HasDefaultKey || s.Sessions.Key(r) != "",
		Form:      formValues{Language: string(prompt.Auto), Detail: string(prompt.Medium), Style: string(prompt.Bullets)},
		Languages: prompt.Languages,
		Details:   prompt.Details,
		Styles:    prompt.Styles,
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render page")
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.page(r))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	data := s.page(r)
	key := strings.TrimSpace(r.PostFormValue("api_key"))
	if key == "" {
		data.Error = "Please enter an API key."
		s.render(w, r, http.StatusBadRequest, data)
		return
	}
	ctx := r.Context()
	if s.PingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.PingTimeout)
		defer cancel()
	}
	if err := s.Backend.Ping(ctx, key); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("api key rejected")
		data.Error = "API key could not be verified: " + err.Error()
		s.render(w, r, http.StatusUnauthorized, data)
		return
	}
	s.Sessions.SetKey(w, key)
	data.HasKey = true
	data.Notice = "API key set for this session."
	s.render(w, r, http.StatusOK, data)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	data := s.page(r)
	data.Form = formValues{
		URL:      strings.TrimSpace(r.PostFormValue("url")),
		Language: r.PostFormValue("language"),
		Detail:   r.PostFormValue("detail"),
		Style:    r.PostFormValue("style"),
	}
	opts, err := parseOptions(data.Form.Language, data.Form.Detail, data.Form.Style)
	if err != nil {
		data.Error = err.Error()
		s.render(w, r, http.StatusBadRequest, data)
		return
	}
	key := s.Sessions.Key(r)
	if key == "" && !s.HasDefaultKey {
		data.Error = "Please set your API key first."
		s.render(w, r, http.StatusUnauthorized, data)
		return
	}
	out, err := s.Backend.Run(r.Context(), key, pipeline.Request{URL: data.Form.URL, Options: opts})
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("kind", string(pipeline.KindOf(err))).Msg("summarize failed")
		data.Error = pipeline.UserMessage(err)
		s.render(w, r, statusFor(err), data)
		return
	}
	data.Result = s.view(out)
	s.render(w, r, http.StatusOK, data)
}

type apiRequest struct {
	URL      string `json:"url"`
	Language string `json:"language"`
	Detail   string `json:"detail"`
	Style    string `json:"style"`
}

type apiResponse struct {
	URL       string         `json:"url"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Author    string         `json:"author,omitempty"`
	Method    string         `json:"method"`
	Language  string         `json:"language"`
	Model     string         `json:"model,omitempty"`
	Summary   string         `json:"summary"`
	Warning   string         `json:"warning,omitempty"`
	Downloads []downloadLink `json:"downloads"`
}

type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// APIKeyHeader lets API clients pass a generation key per request.
const APIKeyHeader = "X-API-Key"

func (s *Server) handleAPISummarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	var in apiRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body", Kind: string(pipeline.InvalidInput)})
		return
	}
	opts, err := parseOptions(in.Language, in.Detail, in.Style)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Kind: string(pipeline.InvalidInput)})
		return
	}
	key := strings.TrimSpace(r.Header.Get(APIKeyHeader))
	if key == "" {
		key = s.Sessions.Key(r)
	}
	if key == "" && !s.HasDefaultKey {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "no API key configured"})
		return
	}
	out, err := s.Backend.Run(r.Context(), key, pipeline.Request{URL: in.URL, Options: opts})
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("kind", string(pipeline.KindOf(err))).Msg("summarize failed")
		writeJSON(w, statusFor(err), apiError{Error: pipeline.UserMessage(err), Kind: string(pipeline.KindOf(err))})
		return
	}
	v := s.view(out)
	writeJSON(w, http.StatusOK, apiResponse{
		URL:       out.URL,
		Kind:      string(out.Source),
		Title:     v.Title,
		Author:    v.Author,
		Method:    string(out.Extraction.Method),
		Language:  out.Summary.DetectedLanguage,
		Model:     out.Summary.Model,
		Summary:   out.Summary.Text,
		Warning:   v.Warning,
		Downloads: v.Downloads,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	bundle, ok := s.Downloads.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "download expired or not found", http.StatusNotFound)
		return
	}
	a, ok := bundle.Get(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+a.Name+`"`)
	_, _ = w.Write(a.Data)
}

// view stores the bundle for download and builds the template view.
func (s *Server) view(out *pipeline.Outcome) *resultView {
	id := uuid.NewString()
	s.Downloads.Put(id, out.Bundle)
	links := make([]downloadLink, 0, len(out.Bundle.Artifacts))
	for _, a := range out.Bundle.Artifacts {
		links = append(links, downloadLink{Format: string(a.Format), Name: a.Name, URL: "/download/" + id + "/" + a.Name})
	}
	v := &resultView{
		Title:     out.Extraction.Title,
		Author:    out.Extraction.Author,
		Method:    out.Extraction.Method.Label(),
		Language:  langdetect.Name(out.Summary.DetectedLanguage),
		Summary:   renderMarkdown(out.Summary.Text),
		Downloads: links,
	}
	if v.Author == "Unknown Author" {
		v.Author = ""
	}
	if out.Warning != nil {
		v.Warning = out.Warning.UserMessage()
	}
	return v
}

func parseOptions(language, detail, style string) (summarize.Options, error) {
	lang, err := prompt.ParseLanguage(language)
	if err != nil {
		return summarize.Options{}, err
	}
	d, err := prompt.ParseDetail(detail)
	if err != nil {
		return summarize.Options{}, err
	}
	st, err := prompt.ParseStyle(style)
	if err != nil {
		return summarize.Options{}, err
	}
	return summarize.Options{Language: lang, Detail: d, Style: st}, nil
}

func statusFor(err error) int {
	switch pipeline.KindOf(err) {
	case pipeline.InvalidInput:
		return http.StatusBadRequest
	case pipeline.ExtractionFailed:
		return http.StatusUnprocessableEntity
	case pipeline.SummarizationFailed:
		return http.StatusBadGateway
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
