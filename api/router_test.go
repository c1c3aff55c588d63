package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pagesnap/chromecapture/config"
	"github.com/pagesnap/chromecapture/models"
)

type noopRenderer struct{}

func (noopRenderer) Render(context.Context, *models.CaptureRequest) (*models.CaptureResult, error) {
	return nil, models.NewCaptureError(models.ErrCodeInternal, "not implemented in test", nil)
}

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Server.Mode = "test"
	return cfg
}

func TestServerHeaderOnEveryResponse(t *testing.T) {
	router := NewRouter(noopRenderer{}, testConfig(), time.Now())

	for _, path := range []string{"/status", "/", "/?url=https://example.com"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)

		want := "ChromeCapture/" + Version
		if got := w.Header().Get("Server"); got != want {
			t.Errorf("GET %s: Server header = %q, want %q", path, got, want)
		}
	}
}

func TestStatusEndpoint(t *testing.T) {
	router := NewRouter(noopRenderer{}, testConfig(), time.Now().Add(-90*time.Second))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp models.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "ok" || resp.Version != Version {
		t.Errorf("status response = %+v", resp)
	}
	if !strings.Contains(resp.Uptime, "m") && !strings.Contains(resp.Uptime, "s") {
		t.Errorf("uptime = %q, want a duration string", resp.Uptime)
	}
}

func TestStatusBypassesAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.APIKeys = []string{"secret"}
	router := NewRouter(noopRenderer{}, cfg, time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /status without key = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?url=https://example.com", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("GET / without key = %d, want 401", w.Code)
	}
}
