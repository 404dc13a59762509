package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-auth-service/internal/config"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("test")

	m.RecordRequest("/api/auth/detail", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/api/auth/detail", "GET", 200, 5*time.Millisecond)
	m.RecordError("/api/auth/detail", "GET", "UNAUTHORIZED")
	m.RecordGateRejection("revoked")
	m.RecordEvent("session.signed_out")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/api/auth/detail", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/api/auth/detail", "GET", "UNAUTHORIZED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateRejections.WithLabelValues("revoked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventCount.WithLabelValues("session.signed_out")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordGateRejection("missing")
		m.RecordEvent("x")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("test")
	m.RecordGateRejection("missing")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_auth_gate_rejections_total{stage="missing"} 1`)
}

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "not-a-level"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(0))
	assert.False(t, logger.Core().Enabled(-1))
}
