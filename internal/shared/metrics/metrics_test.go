package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-tasktracker/internal/shared/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.RecordApproval("approve", "success")
	m.RecordApproval("approve", "success")
	m.RecordOutbox("sent")
	m.RecordDashboard(20*time.Millisecond, map[string]int{"Low": 3, "High": 1})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ApprovalTransitions.WithLabelValues("approve", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OutboxEvents.WithLabelValues("sent")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.WorkloadLevels.WithLabelValues("Low")))

	m.RecordDashboard(time.Millisecond, map[string]int{"Moderate": 2})
	assert.Equal(t, float64(0), testutil.ToFloat64(m.WorkloadLevels.WithLabelValues("Low")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.RecordApproval("reject", "success")
		m.RecordHTTP("GET", "/x", "200", time.Second)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.RecordHTTP("GET", "/api/v1/dashboard/summary", "200", 10*time.Millisecond)

	w := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tasktracker_http_requests_total")
}
