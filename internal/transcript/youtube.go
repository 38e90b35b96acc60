package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	// playerResponseMarker marks the start of the player JSON in the watch page.
	playerResponseMarker = "ytInitialPlayerResponse = "
)

// Getter fetches a URL body. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, string, error)
}

// YouTube reads captions in two ways. With a Poster it first asks the
// InnerTube /next and /get_transcript endpoints, which work for tracks the
// watch page only exposes to browsers. Otherwise, or when that fails, it reads
// the player response embedded in the watch page and downloads a timedtext
// XML track in the preferred language.
type YouTube struct {
	Getter Getter
	// Poster enables the InnerTube path. Nil means watch page only.
	Poster Poster
	// BaseURL overrides https://www.youtube.com (tests).
	BaseURL string
}

type playerResponse struct {
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails *struct {
		VideoID string `json:"videoId"`
		Title   string `json:"title"`
		Author  string `json:"author"`
	} `json:"videoDetails"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Text  string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch implements Fetcher.
func (y *YouTube) Fetch(ctx context.Context, videoID string, langs []string) (Transcript, error) {
	if strings.TrimSpace(videoID) == "" {
		return Transcript{}, fmt.Errorf("%w: empty video id", ErrNoTranscript)
	}
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	base := strings.TrimRight(y.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if y.Poster == nil {
		return y.fetchWatchPage(ctx, base, videoID, langs)
	}
	out, err := y.fetchInnerTube(ctx, base, videoID)
	if err == nil {
		return out, nil
	}
	zerolog.Ctx(ctx).Debug().Err(err).Str("video", videoID).Msg("innertube transcript failed; trying watch page")
	out, ferr := y.fetchWatchPage(ctx, base, videoID, langs)
	if ferr != nil {
		return Transcript{}, fmt.Errorf("innertube: %w; %w", err, ferr)
	}
	return out, nil
}

func (y *YouTube) fetchWatchPage(ctx context.Context, base, videoID string, langs []string) (Transcript, error) {
	watchURL := base + "/watch?v=" + url.QueryEscape(videoID)
	page, _, err := y.Getter.Get(ctx, watchURL)
	if err != nil {
		return Transcript{}, fmt.Errorf("watch page: %w", err)
	}
	player, err := parsePlayerResponse(page)
	if err != nil {
		return Transcript{}, err
	}
	if player.Captions == nil || len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		reason := "captions disabled"
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			reason = player.PlayabilityStatus.Reason
		}
		return Transcript{}, fmt.Errorf("%w: %s", ErrNoTranscript, reason)
	}
	track, ok := pickTrack(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, langs)
	if !ok {
		return Transcript{}, fmt.Errorf("%w: no captions in %s", ErrNoTranscript, strings.Join(langs, ","))
	}
	body, _, err := y.Getter.Get(ctx, track.BaseURL)
	if err != nil {
		return Transcript{}, fmt.Errorf("timedtext: %w", err)
	}
	segments, err := parseTimedText(body)
	if err != nil {
		return Transcript{}, err
	}
	if len(segments) == 0 {
		return Transcript{}, fmt.Errorf("%w: empty caption track", ErrNoTranscript)
	}
	out := Transcript{VideoID: videoID, Language: track.LanguageCode, Segments: segments}
	if d := player.VideoDetails; d != nil {
		out.Title = d.Title
		out.Channel = d.Author
	}
	return out, nil
}

func parsePlayerResponse(page []byte) (playerResponse, error) {
	idx := bytes.Index(page, []byte(playerResponseMarker))
	if idx < 0 {
		return playerResponse{}, fmt.Errorf("%w: player response not found in watch page", ErrNoTranscript)
	}
	// Decode reads exactly one JSON value and ignores the trailing script.
	var pr playerResponse
	dec := json.NewDecoder(bytes.NewReader(page[idx+len(playerResponseMarker):]))
	if err := dec.Decode(&pr); err != nil {
		return playerResponse{}, fmt.Errorf("decode player response: %w", err)
	}
	return pr, nil
}

// pickTrack walks langs in priority order, preferring a manually created
// track over an auto-generated one for the same language. Tracks that need a
// browser-issued PoToken are skipped.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if t.BaseURL != "" && !strings.Contains(t.BaseURL, "&exp=xpe") {
			usable = append(usable, t)
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	return captionTrack{}, false
}

func parseTimedText(body []byte) ([]Segment, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	segments := make([]Segment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		seg := Segment{Text: text}
		seg.Start, _ = strconv.ParseFloat(line.Start, 64)
		seg.Duration, _ = strconv.ParseFloat(line.Dur, 64)
		segments = append(segments, seg)
	}
	return segments, nil
}
