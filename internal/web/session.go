package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hyperifyio/litenote/internal/cache"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "litenote_session"

// SessionTTL is the idle period after which a session's key is forgotten.
// Entries live between one and two periods since their last use.
const SessionTTL = time.Hour

// Sessions keeps per-session API keys in memory only. Unused sessions expire.
type Sessions struct {
	keys *cache.Memo[string]
}

func NewSessions() *Sessions {
	return &Sessions{keys: &cache.Memo[string]{TTL: SessionTTL, Clock: time.Now, KeepPrevious: true}}
}

// Key returns the API key stored for the request's session and refreshes
// the session's expiry.
func (s *Sessions) Key(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	key, ok := s.keys.Get(c.Value)
	if !ok {
		return ""
	}
	s.keys.Put(c.Value, key)
	return key
}

// SetKey stores key under a newly minted session id and sets the cookie.
// Ids presented by the client are never adopted.
func (s *Sessions) SetKey(w http.ResponseWriter, key string) {
	id := uuid.NewString()
	s.keys.Put(id, key)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((2 * SessionTTL).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
