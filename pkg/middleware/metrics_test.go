package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/keepsake/pkg/middleware"
)

func TestMetricsRecordsMatchedRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /institutions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := metrics.Handler()(mux)

	for _, id := range []string{"a", "b", "c"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/institutions/"+id, nil))
	}

	if got := testutil.CollectAndCount(reg, "keepsake_http_requests_total"); got != 1 {
		t.Errorf("series: got %d, want 1 (path params must not add labels)", got)
	}
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := middleware.NewMetrics(reg); err != nil {
		t.Fatalf("first NewMetrics() error = %v", err)
	}
	if _, err := middleware.NewMetrics(reg); err == nil {
		t.Error("second registration on the same registry should fail")
	}
}
