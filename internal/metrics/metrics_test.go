package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.Sync(SyncSent)
	m.Order(OrderPlaced)
	m.Lines(3)
}

func TestCounters(t *testing.T) {
	m := New()
	m.Sync(SyncSent)
	m.Sync(SyncSent)
	m.Sync(SyncDropped)
	m.Order(OrderFailed)
	m.Lines(4)

	if got := testutil.ToFloat64(m.SyncTotal.WithLabelValues(SyncSent)); got != 2 {
		t.Errorf("sent = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.OrderTotal.WithLabelValues(OrderFailed)); got != 1 {
		t.Errorf("failed orders = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CartLines); got != 4 {
		t.Errorf("cart lines = %v, want 4", got)
	}

	// separate registries do not collide
	_ = New()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), `storefront_cart_sync_total{outcome="dropped"} 1`) {
		t.Errorf("expected sync counter in exposition:\n%s", w.Body.String())
	}
}
