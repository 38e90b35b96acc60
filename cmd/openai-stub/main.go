package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "stub-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}
	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newHandler(model)); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

// newHandler serves the two OpenAI endpoints litenote uses. A bare "Hello"
// gets a greeting so key checks succeed; a summary prompt gets a canned
// structured summary naming the title from the prompt.
func newHandler(model string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		user := strings.TrimSpace(req.Messages[len(req.Messages)-1].Content)
		var content string
		switch {
		case user == "Hello":
			content = "Hello! The stub is ready."
		case strings.Contains(user, "**Content to Summarize:**"):
			content = cannedSummary(promptField(user, "Title"), promptField(user, "Summary Language"))
		default:
			http.Error(w, "unexpected prompt", http.StatusBadRequest)
			return
		}
		hlog.FromRequest(r).Debug().Int("chars", len(user)).Msg("completion")
		writeJSON(w, map[string]any{
			"model": model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})
	return hlog.NewHandler(log.Logger)(mux)
}

// promptField returns the value of the first "- <name>: value" line, or a
// "<name>: value" line inside an indented list. Video prompts label the title
// "Video Title", which also matches.
func promptField(prompt, name string) string {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if i := strings.Index(line, name+": "); i >= 0 && i <= len("Video ") {
			return strings.TrimSpace(line[i+len(name)+2:])
		}
	}
	return ""
}

func cannedSummary(title, lang string) string {
	if title == "" {
		title = "Unknown Title"
	}
	if lang == "" {
		lang = "English"
	}
	return fmt.Sprintf(`# Document Header
- Title: %s
- Summary Language: %s

## Executive Summary
This is a canned summary produced by the local stub.

## Key Takeaways
| Section | Key Insight |
|---------|-------------|
| Overview | The stub echoes the title it was given |

## Actionable Insights
- Point LLM_BASE_URL at a real service for real summaries.

## Content Assessment
Not assessed.`, title, lang)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
