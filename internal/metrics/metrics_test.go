package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesIncrementedCounter(t *testing.T) {
	m := New()
	m.FramesRasterized.Inc()
	m.FramesDispatched.WithLabelValues("SET_DATA").Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "marigraph_frames_rasterized_total 1")
	assert.Contains(t, body, `marigraph_frames_dispatched_total{type="SET_DATA"} 1`)
}
