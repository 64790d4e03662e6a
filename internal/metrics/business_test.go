package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric
// matching the given name, partial label pattern, and value. The regex
// tolerates the OTel scope labels injected by the exporter.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("biz_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "biz_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "auth", "login", StatusSuccess)
	bm.RecordOperation(ctx, "auth", "login", StatusSuccess)
	bm.RecordOperation(ctx, "auth", "login", StatusError)
	bm.RecordDuration(ctx, "auth", "login", 50*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "auth", "login", 60*time.Millisecond, StatusSuccess)

	output := scrape(t, provider)
	assertMetricLine(t, output, `biz_test_operations_total`, `domain="auth".*operation="login".*status="success"`, `2`)
	assertMetricLine(t, output, `biz_test_operations_total`, `domain="auth".*operation="login".*status="error"`, `1`)
	assertMetricLine(t, output, `biz_test_operation_duration_seconds_count`, `domain="auth".*operation="login".*status="success"`, `2`)
}

func TestRecordOutcome(t *testing.T) {
	provider, err := NewProvider("outcome_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "outcome_test")
	require.NoError(t, err)

	ctx := context.Background()
	RecordOutcome(ctx, bm, "registration", "submit", time.Now(), nil)
	RecordOutcome(ctx, bm, "registration", "submit", time.Now(), errors.New("duplicate"))
	RecordOutcome(ctx, bm, "registration", "submit", time.Now(), errors.New("duplicate"))

	output := scrape(t, provider)
	assertMetricLine(t, output, `outcome_test_operations_total`, `domain="registration".*operation="submit".*status="success"`, `1`)
	assertMetricLine(t, output, `outcome_test_operations_total`, `domain="registration".*operation="submit".*status="error"`, `2`)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	assert.NotPanics(t, func() {
		RecordOutcome(context.Background(), noOp, "auth", "login", time.Now(), nil)
	})
}
