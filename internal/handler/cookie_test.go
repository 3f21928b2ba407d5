package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSessionTokenRoundtrip(t *testing.T) {
	token, err := signSessionToken("abc-123", testSigningSecret, time.Minute)
	if err != nil {
		t.Fatalf("signSessionToken: %v", err)
	}

	sessionID, err := parseSessionToken(token, testSigningSecret)
	if err != nil {
		t.Fatalf("parseSessionToken: %v", err)
	}
	if sessionID != "abc-123" {
		t.Fatalf("sessionID = %q, want %q", sessionID, "abc-123")
	}
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	token, err := signSessionToken("abc-123", testSigningSecret, time.Minute)
	if err != nil {
		t.Fatalf("signSessionToken: %v", err)
	}

	if _, err := parseSessionToken(token, "another-secret-another-secret-33"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseSessionTokenExpired(t *testing.T) {
	token, err := signSessionToken("abc-123", testSigningSecret, -time.Minute)
	if err != nil {
		t.Fatalf("signSessionToken: %v", err)
	}

	if _, err := parseSessionToken(token, testSigningSecret); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseSessionTokenGarbage(t *testing.T) {
	if _, err := parseSessionToken("not-a-jwt", testSigningSecret); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestResolveSessionIDPrefersBody(t *testing.T) {
	token, err := signSessionToken("cookie-session", testSigningSecret, time.Minute)
	if err != nil {
		t.Fatalf("signSessionToken: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{}"))
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})

	if got := resolveSessionID(r, "body-session", testSigningSecret); got != "body-session" {
		t.Fatalf("resolveSessionID = %q, want body-session", got)
	}
	if got := resolveSessionID(r, "", testSigningSecret); got != "cookie-session" {
		t.Fatalf("resolveSessionID = %q, want cookie-session", got)
	}
}

func TestResolveSessionIDNoSource(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{}"))
	if got := resolveSessionID(r, "", testSigningSecret); got != "" {
		t.Fatalf("resolveSessionID = %q, want empty", got)
	}
}

func TestClearSessionCookie(t *testing.T) {
	w := httptest.NewRecorder()
	clearSessionCookie(w, false)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != sessionCookieName || c.MaxAge != -1 || c.Value != "" {
		t.Fatalf("cookie = %+v", c)
	}
}

const testSigningSecret = "test-secret-test-secret-test-sec"
