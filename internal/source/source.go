package source

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Kind tells the pipeline which extraction path a URL takes.
type Kind string

const (
	KindVideo   Kind = "video"
	KindArticle Kind = "article"
)

// ErrInvalidURL is returned for input that lacks a scheme or a host.
var ErrInvalidURL = errors.New("invalid url")

// ErrNoVideoID is returned when a video URL carries no recognizable id.
var ErrNoVideoID = errors.New("no video id in url")

// videoDomains are matched exactly or as a parent of the request host.
var videoDomains = []string{"youtube.com", "youtu.be"}

const shortLinkHost = "youtu.be"

// Validate parses raw and requires both a scheme and a host.
func Validate(raw string) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q needs a scheme and a host", ErrInvalidURL, s)
	}
	return u, nil
}

// Classify returns KindVideo for video-platform URLs that carry a video id
// marker, KindArticle for any other valid URL.
func Classify(raw string) (Kind, error) {
	u, err := Validate(raw)
	if err != nil {
		return "", err
	}
	if isVideoHost(u.Hostname()) && hasVideoMarker(u) {
		return KindVideo, nil
	}
	return KindArticle, nil
}

// VideoID extracts the video identifier from a watch URL (?v=ID) or a short
// link (youtu.be/ID). Any query string on a short link is ignored.
func VideoID(raw string) (string, error) {
	u, err := Validate(raw)
	if err != nil {
		return "", err
	}
	if id := shortLinkID(u); id != "" {
		return id, nil
	}
	if id := strings.TrimSpace(u.Query().Get("v")); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoVideoID, u.Redacted())
}

func isVideoHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, d := range videoDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func hasVideoMarker(u *url.URL) bool {
	if strings.TrimSpace(u.Query().Get("v")) != "" {
		return true
	}
	return shortLinkID(u) != ""
}

func shortLinkID(u *url.URL) string {
	if !strings.EqualFold(strings.TrimPrefix(u.Hostname(), "www."), shortLinkHost) {
		return ""
	}
	seg := strings.Trim(u.Path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	return seg
}
