package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/genfam/genfam-core/internal/infrastructure/config"
	"github.com/genfam/genfam-core/internal/infrastructure/logging"
)

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Deps{Logger: logging.New(config.LoggingConfig{Level: "error"}, "test")})
	if err == nil {
		t.Fatal("New accepted missing repositories")
	}

	_, err = New(Deps{})
	if err == nil {
		t.Fatal("New accepted missing logger")
	}
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := testServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["service"] != "genfam-core" {
		t.Errorf("service field = %v", body["service"])
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight response missing allowed methods")
	}
}

func TestRequestIDHeader(t *testing.T) {
	h, _ := testServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil, "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}
