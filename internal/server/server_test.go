package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"voltabot/internal/metrics"
)

func get(t *testing.T, mux http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestKeepAliveAndHealth(t *testing.T) {
	mux := newMux(false)

	if rec := get(t, mux, "/"); rec.Code != http.StatusOK || rec.Body.String() != keepAliveText {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, mux, "/health"); rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("GET /health = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, mux, "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics with metrics disabled = %d", rec.Code)
	}
	if rec := get(t, mux, "/unknown"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /unknown = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.OrdersFinalized.Inc()
	metrics.Events.WithLabelValues("select").Inc()

	rec := get(t, newMux(true), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"voltabot_orders_finalized_total", `voltabot_events_total{kind="select"}`} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output misses %s", name)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(false).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health = %d, want 405", rec.Code)
	}
}
