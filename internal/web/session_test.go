package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func sessionRequest(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func setKey(t *testing.T, s *Sessions, key string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	s.SetKey(rec, key)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value == "" {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}
	return cookies[0]
}

func TestSessions_SetKeyMintsFreshID(t *testing.T) {
	s := NewSessions()
	first := setKey(t, s, "one")
	second := setKey(t, s, "two")
	if first.Value == second.Value {
		t.Fatal("each SetKey should mint a new session id")
	}
	if got := s.Key(sessionRequest(first)); got != "one" {
		t.Fatalf("first session key = %q", got)
	}
	if got := s.Key(sessionRequest(second)); got != "two" {
		t.Fatalf("second session key = %q", got)
	}
}

func TestSessions_ClientChosenIDIsIgnored(t *testing.T) {
	s := NewSessions()
	chosen := &http.Cookie{Name: SessionCookie, Value: "6f1c2a4e-0000-4000-8000-000000000001"}
	rec := httptest.NewRecorder()
	s.SetKey(rec, "secret")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == chosen.Value {
		t.Fatalf("expected a server-minted id, got %v", cookies)
	}
	if got := s.Key(sessionRequest(chosen)); got != "" {
		t.Fatalf("unknown session id should have no key, got %q", got)
	}
	if got := s.Key(sessionRequest(nil)); got != "" {
		t.Fatalf("no cookie should have no key, got %q", got)
	}
}

func TestSessions_ExpireWhenIdleAndRefreshOnUse(t *testing.T) {
	now := time.Unix(0, 0).Add(100 * SessionTTL)
	s := NewSessions()
	s.keys.Clock = func() time.Time { return now }

	idle := setKey(t, s, "idle")
	active := setKey(t, s, "active")

	now = now.Add(SessionTTL + SessionTTL/2)
	if s.Key(sessionRequest(active)) != "active" {
		t.Fatal("active session should survive one period")
	}

	now = now.Add(SessionTTL)
	if got := s.Key(sessionRequest(idle)); got != "" {
		t.Fatalf("idle session should have expired, got %q", got)
	}
	if got := s.Key(sessionRequest(active)); got != "active" {
		t.Fatalf("refreshed session should still be valid, got %q", got)
	}
}
