package fetcher

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/MirrorChyan/fetch-paper/internal/api"
	"github.com/MirrorChyan/fetch-paper/internal/metrics"
	"github.com/MirrorChyan/fetch-paper/internal/model"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/bufpool"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/errs"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/fileops"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Fetcher streams a build's artifact to a local path.
type Fetcher struct {
	logger    *zap.Logger
	endpoint  api.Endpoint
	requester *api.Requester
	metrics   *metrics.Metrics
}

func New(
	logger *zap.Logger,
	endpoint api.Endpoint,
	requester *api.Requester,
	metrics *metrics.Metrics,
) *Fetcher {
	return &Fetcher{
		logger:    logger,
		endpoint:  endpoint,
		requester: requester,
		metrics:   metrics,
	}
}

// countingWriter tells write failures apart from read failures while the
// body is copied to disk.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil {
		c.err = err
	}
	return n, err
}

// ctxReader stops a body copy at the next chunk once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Download writes the build's application artifact to path, creating or
// truncating it. The parent directory must exist and any "already exists"
// policy is the caller's. Partial files are left in place on failure.
func (f *Fetcher) Download(ctx context.Context, build *model.Build, path string) (int64, error) {
	var (
		link    = f.endpoint.Download(build)
		req     = fasthttp.AcquireRequest()
		resp    = fasthttp.AcquireResponse()
		started = time.Now()
	)

	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	requestID := f.requester.Prepare(req, link)

	f.logger.Info("Start download",
		zap.String("build", build.String()),
		zap.String("url", link),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	if err := f.requester.Do(ctx, req, resp); err != nil {
		f.metrics.ObserveRequest(api.KindDownload, metrics.OutcomeTransport, started)
		return 0, errs.Transport(err, "GET %s", link)
	}

	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		f.metrics.ObserveRequest(api.KindDownload, metrics.OutcomeTransport, started)
		return 0, errs.Transport(errors.Errorf("unexpected status %d", status), "GET %s", link)
	}

	n, err := f.write(ctx, resp, path)
	f.metrics.DownloadedBytes.Add(float64(n))
	if err != nil {
		f.metrics.ObserveRequest(api.KindDownload, metrics.OutcomeTransport, started)
		f.logger.Error("Failed to download",
			zap.String("url", link),
			zap.String("path", path),
			zap.Int64("written", n),
			zap.Error(err),
		)
		return n, err
	}

	f.metrics.ObserveRequest(api.KindDownload, metrics.OutcomeOK, started)
	f.logger.Info("Download done",
		zap.String("path", path),
		zap.String("size", humanize.Bytes(uint64(n))),
		zap.Duration("elapsed", time.Since(started)),
	)
	return n, nil
}

func (f *Fetcher) write(ctx context.Context, resp *fasthttp.Response, path string) (n int64, err error) {
	out, err := fileops.Create(path)
	if err != nil {
		return 0, errs.IO(err, "create %s", path)
	}
	defer func(file *os.File) {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errs.IO(cerr, "close %s", path)
		}
	}(out)

	buf := bufpool.GetBuffer()
	defer bufpool.PutBuffer(buf)

	// neither side implements ReaderFrom/WriterTo, so every chunk passes
	// through the pooled buffer
	var (
		cw = &countingWriter{w: out}
		cr = &ctxReader{ctx: ctx, r: resp.BodyStream()}
	)
	if _, err := io.CopyBuffer(cw, cr, *buf); err != nil {
		if cw.err != nil {
			return cw.n, errs.IO(cw.err, "write %s", path)
		}
		return cw.n, errs.Transport(err, "read body")
	}

	if err := out.Sync(); err != nil {
		return cw.n, errs.IO(err, "flush %s", path)
	}
	return cw.n, nil
}
