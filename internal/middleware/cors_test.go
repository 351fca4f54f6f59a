package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crtlab/crt-chat/backend/internal/config"
)

func corsHandler(study config.StudyConfig) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return CORS(study)(next)
}

func TestCORSAllowsSurveySubdomain(t *testing.T) {
	h := corsHandler(config.StudyConfig{
		OriginPattern: `^https://([a-z0-9-]+\.)*qualtrics\.com$`,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("Origin", "https://lab.qualtrics.com")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://lab.qualtrics.com" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	h := corsHandler(config.StudyConfig{
		OriginPattern: `^https://([a-z0-9-]+\.)*qualtrics\.com$`,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("origin should not be allowed: %q", got)
	}
}

func TestCORSAllowsConfiguredExtraOrigin(t *testing.T) {
	h := corsHandler(config.StudyConfig{ExtraOrigin: "https://study.example.edu"})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("Origin", "https://study.example.edu")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://study.example.edu" {
		t.Fatalf("extra origin not allowed: %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := corsHandler(config.StudyConfig{})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://qualtrics.com")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.Code)
	}
}

func TestAllowFrameEmbedding(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := AllowFrameEmbedding(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get("X-Frame-Options"); got != "ALLOWALL" {
		t.Fatalf("unexpected X-Frame-Options: %q", got)
	}
}
