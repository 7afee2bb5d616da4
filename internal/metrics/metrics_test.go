package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(SessionsCompleted.WithLabelValues("work"))
	SessionsCompleted.WithLabelValues("work").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SessionsCompleted.WithLabelValues("work")))

	Volume.Set(0.4)
	assert.Equal(t, 0.4, testutil.ToFloat64(Volume))
}

func TestServerExposesMetrics(t *testing.T) {
	TimerTicks.Inc()
	srv := httptest.NewServer(NewServer("127.0.0.1:0", zerolog.Nop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "focuspad_timer_ticks_total")

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
