package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObservePrediction("bot-1", time.Millisecond, false)
		r.ObserveSync("bot-1", "trained")
		r.ObserveTraining("bot-1", time.Second)
		r.EngineMounted(1)
	})
}

func TestRecorderExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.ObservePrediction("bot-1", 5*time.Millisecond, false)
	r.ObservePrediction("bot-1", 5*time.Millisecond, true)
	r.ObserveSync("bot-1", "trained")
	r.ObserveTraining("bot-1", time.Second)
	r.EngineMounted(1)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, "parlex_predictions_total")
	assert.Contains(t, out, "parlex_engines_mounted 1")
}

func TestCustomNamespace(t *testing.T) {
	r := NewRecorder(func(o *Options) {
		o.Namespace = "custom"
	})
	r.ObserveSync("bot-1", "noop")

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "custom_syncs_total")
}
