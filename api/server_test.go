package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type fakeHealth struct{ ok bool }

func (f fakeHealth) HealthCheck(ctx context.Context) bool { return f.ok }

func newTestServer(ok bool, hosts []string) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{Name: "reports_test_gauge", Help: "test"}))
	return NewServer(fakeHealth{ok: ok}, reg, []string{"http://localhost:3000"}, hosts, zerolog.Nop())
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		healthy    bool
		wantCode   int
		wantStatus string
	}{
		{"healthy", true, http.StatusOK, "healthy"},
		{"unhealthy", false, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(tt.healthy, []string{"*"}).Handler()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("expected %q, got %q", tt.wantStatus, body["status"])
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(true, []string{"*"}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "reports_test_gauge") {
		t.Error("registered gauge missing from /metrics output")
	}
}

func TestAllowedHosts(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		host    string
		want    int
	}{
		{"wildcard", []string{"*"}, "anything.example:9000", http.StatusOK},
		{"listed host with port", []string{"localhost"}, "localhost:8000", http.StatusOK},
		{"case insensitive", []string{"LocalHost"}, "localhost", http.StatusOK},
		{"unlisted host", []string{"localhost"}, "evil.example", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(true, tt.allowed).Handler()

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestCORSOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"configured origin echoed", []string{"http://localhost:3000"}, "http://localhost:3000", "http://localhost:3000"},
		{"unknown origin omitted", []string{"http://localhost:3000"}, "http://evil.example", ""},
		{"wildcard", []string{"*"}, "http://any.example", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(fakeHealth{ok: true}, nil, tt.origins, []string{"*"}, zerolog.Nop())

			req := httptest.NewRequest(http.MethodOptions, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("preflight expected 200, got %d", rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("expected allow-origin %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRejectedRequestsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	s := NewServer(fakeHealth{ok: true}, nil, []string{"*"}, []string{"localhost"}, log)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Host = "evil.example"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	out := buf.String()
	if !strings.Contains(out, `"path":"/health"`) || !strings.Contains(out, `"status":400`) {
		t.Errorf("rejected request missing from request log: %s", out)
	}
}
