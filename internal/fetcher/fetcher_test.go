package fetcher

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/MirrorChyan/fetch-paper/internal/api"
	"github.com/MirrorChyan/fetch-paper/internal/config"
	"github.com/MirrorChyan/fetch-paper/internal/metrics"
	"github.com/MirrorChyan/fetch-paper/internal/model"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/errs"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/testkit"
	"github.com/MirrorChyan/fetch-paper/internal/verifier"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	fetcher *Fetcher
	client  *api.Client
	server  *testkit.Server
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, projects ...testkit.Project) *fixture {
	t.Helper()
	srv := testkit.NewServer(t, projects...)
	conf := &config.Config{API: config.APIConfig{
		BaseURL:      srv.URL,
		UserAgent:    "fetch-paper-test",
		MaxRedirects: 3,
		DialTimeout:  time.Second,
	}}
	var (
		m         = metrics.New()
		endpoint  = api.NewEndpoint(conf)
		requester = api.NewRequester(api.NewHTTPClient(conf), conf)
	)
	return &fixture{
		fetcher: New(zap.NewNop(), endpoint, requester, m),
		client:  api.NewClient(zap.NewNop(), endpoint, requester, m),
		server:  srv,
		metrics: m,
	}
}

func (f *fixture) build(t *testing.T, version string, number int) *model.Build {
	t.Helper()
	ctx := context.Background()
	p, err := f.client.GetProject(ctx, "paper")
	require.NoError(t, err)
	v, err := f.client.GetVersion(ctx, p, version)
	require.NoError(t, err)
	b, err := f.client.GetBuild(ctx, v, number)
	require.NoError(t, err)
	return b
}

func TestDownloadWritesContent(t *testing.T) {
	paper := testkit.Paper()
	want := paper.Versions[1].Builds[1].Content
	f := newFixture(t, paper)

	b := f.build(t, "1.16.5", 250)
	path := filepath.Join(t.TempDir(), "target.jar")

	n, err := f.fetcher.Download(context.Background(), b, path)
	require.NoError(t, err)
	require.Equal(t, int64(len(want)), n)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.Equal(t, 1, f.server.Hits("/projects/paper/versions/1.16.5/builds/250/downloads/paper-1.16.5-250.jar"))
	require.Equal(t, float64(len(want)), testutil.ToFloat64(f.metrics.DownloadedBytes))
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests.WithLabelValues(api.KindDownload, metrics.OutcomeOK)))
}

func TestDownloadTruncatesPreviousFile(t *testing.T) {
	paper := testkit.Paper()
	f := newFixture(t, paper)
	path := filepath.Join(t.TempDir(), "target.jar")
	ctx := context.Background()

	long := f.build(t, "1.16.5", 250)
	_, err := f.fetcher.Download(ctx, long, path)
	require.NoError(t, err)

	short := f.build(t, "1.16.5", 249)
	_, err = f.fetcher.Download(ctx, short, path)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, paper.Versions[1].Builds[0].Content, got)
}

func TestDownloadBadStatusLeavesFileUntouched(t *testing.T) {
	paper := testkit.Paper()
	paper.Versions[1].Builds[1].DownloadStatus = http.StatusServiceUnavailable
	f := newFixture(t, paper)

	path := filepath.Join(t.TempDir(), "target.jar")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0644))

	_, err := f.fetcher.Download(context.Background(), f.build(t, "1.16.5", 250), path)
	require.ErrorIs(t, err, errs.ErrTransport)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "previous", string(got))
}

func TestDownloadMissingParentIsIOError(t *testing.T) {
	f := newFixture(t, testkit.Paper())

	path := filepath.Join(t.TempDir(), "missing", "target.jar")
	_, err := f.fetcher.Download(context.Background(), f.build(t, "1.16.5", 250), path)
	require.ErrorIs(t, err, errs.ErrIO)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDownloadUnknownFileIsTransportError(t *testing.T) {
	f := newFixture(t, testkit.Paper())

	b := f.build(t, "1.16.5", 250)
	forged := *b
	forged.Application.Name = "other.jar"

	_, err := f.fetcher.Download(context.Background(), &forged, filepath.Join(t.TempDir(), "x.jar"))
	require.ErrorIs(t, err, errs.ErrTransport)
}

const (
	stalledSize = 8 << 20
	sentBefore  = 1 << 20
)

// newStallingFetcher serves every download as stalledSize bytes of which only
// sentBefore arrive until release is closed.
func newStallingFetcher(t *testing.T) (*Fetcher, *metrics.Metrics, chan struct{}) {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(stalledSize))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(bytes.Repeat([]byte{'a'}, sentBefore))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write(bytes.Repeat([]byte{'b'}, stalledSize-sentBefore))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() {
		select {
		case <-release:
		default:
			close(release)
		}
	})

	conf := &config.Config{API: config.APIConfig{
		BaseURL:     srv.URL,
		UserAgent:   "fetch-paper-test",
		DialTimeout: time.Second,
	}}
	m := metrics.New()
	f := New(zap.NewNop(), api.NewEndpoint(conf), api.NewRequester(api.NewHTTPClient(conf), conf), m)
	return f, m, release
}

func stalledBuild() *model.Build {
	return &model.Build{
		ProjectID:   "paper",
		Version:     "1.16.5",
		Build:       250,
		Application: model.Download{Name: "paper-1.16.5-250.jar"},
	}
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func TestDownloadWritesChunksAsTheyArrive(t *testing.T) {
	f, m, release := newStallingFetcher(t)
	path := filepath.Join(t.TempDir(), "target.jar")

	type result struct {
		n   int64
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := f.Download(context.Background(), stalledBuild(), path)
		done <- result{n, err}
	}()

	// the first megabyte is on disk while the server still holds the rest
	require.Eventually(t, func() bool {
		return fileSize(path) >= sentBefore
	}, 5*time.Second, 10*time.Millisecond)
	select {
	case <-done:
		t.Fatal("download finished before the body was complete")
	default:
	}

	close(release)
	select {
	case r := <-done:
		require.NoError(t, r.err)
		require.Equal(t, int64(stalledSize), r.n)
	case <-time.After(10 * time.Second):
		t.Fatal("download did not finish")
	}
	require.Equal(t, int64(stalledSize), fileSize(path))
	require.Equal(t, float64(stalledSize), testutil.ToFloat64(m.DownloadedBytes))
}

func TestDownloadStopsWhenCancelled(t *testing.T) {
	f, _, release := newStallingFetcher(t)
	path := filepath.Join(t.TempDir(), "target.jar")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := f.Download(ctx, stalledBuild(), path)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return fileSize(path) >= sentBefore
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	close(release)

	select {
	case err := <-done:
		require.ErrorIs(t, err, errs.ErrTransport)
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("download ignored cancellation")
	}
	require.Less(t, fileSize(path), int64(stalledSize))
}

func TestDownloadThenTamperFailsVerification(t *testing.T) {
	paper := testkit.Paper()
	fx := newFixture(t, paper)
	b := fx.build(t, "1.16.5", 250)
	path := filepath.Join(t.TempDir(), "target.jar")

	_, err := fx.fetcher.Download(context.Background(), b, path)
	require.NoError(t, err)

	v := verifier.New(zap.NewNop(), fx.metrics)
	ok, err := v.Verify(context.Background(), b, path)
	require.NoError(t, err)
	require.True(t, ok)

	out, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = out.Write([]byte{0})
	require.NoError(t, err)
	require.NoError(t, out.Close())

	ok, err = v.Verify(context.Background(), b, path)
	require.NoError(t, err)
	require.False(t, ok)
}
