package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_IndependentInstances(t *testing.T) {
	a, b := New(), New()
	a.Joins.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Joins))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Joins))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Connections.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "presence_connections 3")
}
