package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/repositories", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/repositories", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/repositories/:id", http.StatusNotFound, time.Millisecond)
	m.RecordEvent("repository.liked")
	m.SetRepositories(4)

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/repositories", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/repositories/:id", "404")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("repository.liked")))
	require.Equal(t, 4.0, testutil.ToFloat64(m.repositories))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.RecordEvent("repository.created")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `repohub_repository_events_total{type="repository.created"} 1`)
	require.Contains(t, string(body), "repohub_repositories 0")
}
