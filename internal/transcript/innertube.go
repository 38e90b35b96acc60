package transcript

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// InnerTube WEB client identity sent with /next and /get_transcript.
const (
	webClientName    = "WEB"
	webClientVersion = "2.20250222.10.00"
)

// Poster sends a POST and returns the response body. *fetch.Client satisfies it.
type Poster interface {
	Post(ctx context.Context, rawURL, contentType string, body []byte, header http.Header) ([]byte, string, error)
}

// transcriptParamsRE finds the transcript continuation in a /next response.
var transcriptParamsRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

// errNoTranscriptPanel means /next carried no transcript engagement panel.
var errNoTranscriptPanel = errors.New("no transcript panel")

type webClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	VisitorData   string `json:"visitorData,omitempty"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type nextResponse struct {
	Contents struct {
		TwoColumnWatchNextResults struct {
			Results struct {
				Results struct {
					Contents []struct {
						VideoPrimaryInfoRenderer *struct {
							Title runs `json:"title"`
						} `json:"videoPrimaryInfoRenderer"`
						VideoSecondaryInfoRenderer *struct {
							Owner struct {
								VideoOwnerRenderer struct {
									Title runs `json:"title"`
								} `json:"videoOwnerRenderer"`
							} `json:"owner"`
						} `json:"videoSecondaryInfoRenderer"`
					} `json:"contents"`
				} `json:"results"`
			} `json:"results"`
		} `json:"twoColumnWatchNextResults"`
	} `json:"contents"`
}

type runs struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (r runs) String() string {
	var b strings.Builder
	for _, run := range r.Runs {
		b.WriteString(run.Text)
	}
	return strings.TrimSpace(b.String())
}

type getTranscriptResponse struct {
	Actions []struct {
		UpdateEngagementPanelAction *struct {
			Content struct {
				TranscriptRenderer struct {
					Content struct {
						TranscriptSearchPanelRenderer struct {
							Body struct {
								TranscriptSegmentListRenderer struct {
									InitialSegments []struct {
										TranscriptSegmentRenderer *struct {
											StartMs string `json:"startMs"`
											EndMs   string `json:"endMs"`
											Snippet runs   `json:"snippet"`
										} `json:"transcriptSegmentRenderer"`
									} `json:"initialSegments"`
								} `json:"transcriptSegmentListRenderer"`
							} `json:"body"`
						} `json:"transcriptSearchPanelRenderer"`
					} `json:"content"`
				} `json:"transcriptRenderer"`
			} `json:"content"`
		} `json:"updateEngagementPanelAction"`
	} `json:"actions"`
}

// fetchInnerTube asks /next for the transcript panel of videoID, then
// /get_transcript for its segments. The service picks the track language.
func (y *YouTube) fetchInnerTube(ctx context.Context, base, videoID string) (Transcript, error) {
	visitor := visitorData()
	client := webClient{ClientName: webClientName, ClientVersion: webClientVersion, VisitorData: visitor, Hl: "en", Gl: "US"}

	next, err := y.postWeb(ctx, base+"/youtubei/v1/next", visitor, map[string]any{
		"videoId": videoID,
		"context": map[string]any{
			"client":  client,
			"user":    map[string]bool{"enableSafetyMode": false},
			"request": map[string]bool{"useSsl": true},
		},
	})
	if err != nil {
		return Transcript{}, fmt.Errorf("/next: %w", err)
	}
	params, err := transcriptParams(next)
	if err != nil {
		return Transcript{}, err
	}
	body, err := y.postWeb(ctx, base+"/youtubei/v1/get_transcript", visitor, map[string]any{
		"params":  params,
		"context": map[string]any{"client": client},
	})
	if err != nil {
		return Transcript{}, fmt.Errorf("/get_transcript: %w", err)
	}
	segments, err := parseTranscriptSegments(body)
	if err != nil {
		return Transcript{}, err
	}
	if len(segments) == 0 {
		return Transcript{}, fmt.Errorf("%w: empty transcript panel", ErrNoTranscript)
	}
	out := Transcript{VideoID: videoID, Segments: segments}
	out.Title, out.Channel = videoInfo(next)
	return out, nil
}

func (y *YouTube) postWeb(ctx context.Context, endpoint, visitor string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	header := http.Header{
		"Accept":                   {"*/*"},
		"X-Youtube-Client-Name":    {"1"},
		"X-Youtube-Client-Version": {webClientVersion},
		"X-Goog-Visitor-Id":        {visitor},
		"Origin":                   {defaultBaseURL},
		"Referer":                  {defaultBaseURL + "/"},
	}
	body, _, err := y.Poster.Post(ctx, endpoint+"?prettyPrint=false", "application/json", b, header)
	return body, err
}

// transcriptParams returns the decoded continuation token; /next carries it
// URL-encoded while /get_transcript wants raw base64.
func transcriptParams(next []byte) (string, error) {
	m := transcriptParamsRE.FindSubmatch(next)
	if len(m) < 2 {
		return "", fmt.Errorf("%w: %w", ErrNoTranscript, errNoTranscriptPanel)
	}
	if decoded, err := url.QueryUnescape(string(m[1])); err == nil {
		return decoded, nil
	}
	return string(m[1]), nil
}

func videoInfo(next []byte) (title, channel string) {
	var nr nextResponse
	if err := json.Unmarshal(next, &nr); err != nil {
		return "", ""
	}
	for _, c := range nr.Contents.TwoColumnWatchNextResults.Results.Results.Contents {
		if c.VideoPrimaryInfoRenderer != nil && title == "" {
			title = c.VideoPrimaryInfoRenderer.Title.String()
		}
		if c.VideoSecondaryInfoRenderer != nil && channel == "" {
			channel = c.VideoSecondaryInfoRenderer.Owner.VideoOwnerRenderer.Title.String()
		}
	}
	return title, channel
}

func parseTranscriptSegments(body []byte) ([]Segment, error) {
	var resp getTranscriptResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	var segments []Segment
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		list := action.UpdateEngagementPanelAction.Content.TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.TranscriptSegmentListRenderer.InitialSegments
		for _, item := range list {
			r := item.TranscriptSegmentRenderer
			if r == nil {
				continue
			}
			text := r.Snippet.String()
			if text == "" {
				continue
			}
			start, _ := strconv.ParseFloat(r.StartMs, 64)
			end, _ := strconv.ParseFloat(r.EndMs, 64)
			seg := Segment{Text: text, Start: start / 1000}
			if end > start {
				seg.Duration = (end - start) / 1000
			}
			segments = append(segments, seg)
		}
	}
	return segments, nil
}

// visitorData is a random 11-character visitor id.
func visitorData() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := make([]byte, 11)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = chars[int(b[i])%len(chars)]
	}
	return string(b)
}
