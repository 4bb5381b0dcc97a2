package core

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
)

func TestSetupHealthz(t *testing.T) {
	mux := http.NewServeMux()
	SetupHealthz(mux)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("Expected body 'ok', got %q", rec.Body.String())
	}
}

func TestVerifyHealthz(t *testing.T) {
	mux := http.NewServeMux()
	SetupHealthz(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("Failed to parse test server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("Failed to parse test server port: %v", err)
	}

	if code := VerifyHealthz(u.Hostname(), port); code != 0 {
		t.Errorf("Expected exit code 0 for healthy service, got %d", code)
	}
}

func TestVerifyHealthz_Unreachable(t *testing.T) {
	// Port 1 on localhost should refuse connections.
	if code := VerifyHealthz("127.0.0.1", 1); code != 1 {
		t.Errorf("Expected exit code 1 for unreachable service, got %d", code)
	}
}

func TestServeWebManifest(t *testing.T) {
	mux := http.NewServeMux()
	ServeWebManifest(mux, "Glasswing", "/dashboard", "#2575fc")

	req := httptest.NewRequest(http.MethodGet, "/app.webmanifest", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/manifest+json" {
		t.Errorf("Expected manifest content type, got %q", ct)
	}
}
