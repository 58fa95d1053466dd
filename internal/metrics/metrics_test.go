package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveRequest("build", OutcomeOK, time.Now())
	m.ObserveRequest("build", OutcomeOK, time.Now())
	m.ObserveRequest("version", OutcomeNotFound, time.Now())
	m.ObserveVerification(true)
	m.ObserveVerification(false)
	m.DownloadedBytes.Add(1024)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("build", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("version", OutcomeNotFound)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Verifications.WithLabelValues("pass")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Verifications.WithLabelValues("fail")))
	require.Equal(t, 1024.0, testutil.ToFloat64(m.DownloadedBytes))
}

func TestPush(t *testing.T) {
	var (
		path string
		body []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New()
	m.DownloadedBytes.Add(7)

	require.NoError(t, m.Push(context.Background(), srv.URL, "fetch-paper"))
	require.Equal(t, "/metrics/job/fetch-paper", path)
	require.NotEmpty(t, body)
}

func TestPushDisabled(t *testing.T) {
	require.NoError(t, New().Push(context.Background(), "", "fetch-paper"))
}
