package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_Repeatable(t *testing.T) {
	// Two instances must not collide in a shared registry.
	a := New()
	b := New()
	a.TranslationsTotal.WithLabelValues("done").Inc()
	if got := testutil.ToFloat64(b.TranslationsTotal.WithLabelValues("done")); got != 0 {
		t.Errorf("instances share state: %v", got)
	}
}

func TestCounters(t *testing.T) {
	m := New()
	m.TranslationsTotal.WithLabelValues("done").Inc()
	m.TranslationsTotal.WithLabelValues("done").Inc()
	m.ProviderCallsTotal.WithLabelValues("ollama", "ok").Inc()

	if got := testutil.ToFloat64(m.TranslationsTotal.WithLabelValues("done")); got != 2 {
		t.Errorf("translations done = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ProviderCallsTotal.WithLabelValues("ollama", "ok")); got != 1 {
		t.Errorf("provider calls = %v, want 1", got)
	}
}

func TestHandler_Scrape(t *testing.T) {
	m := New()
	m.UploadsTotal.WithLabelValues(".txt", "ok").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "uploads_total") {
		t.Errorf("scrape output missing uploads_total:\n%s", body)
	}
}
