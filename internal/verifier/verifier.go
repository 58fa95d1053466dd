package verifier

import (
	"context"
	"os"

	"github.com/MirrorChyan/fetch-paper/internal/metrics"
	"github.com/MirrorChyan/fetch-paper/internal/model"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/errs"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/filehash"
	"go.uber.org/zap"
)

// Verifier checks local files against the digest a build advertises.
type Verifier struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(logger *zap.Logger, metrics *metrics.Metrics) *Verifier {
	return &Verifier{
		logger:  logger,
		metrics: metrics,
	}
}

type result struct {
	digest string
	size   int64
	err    error
}

// Verify reports whether the SHA-256 of the file at path equals the
// build's application digest. A mismatch is false with a nil error.
func (v *Verifier) Verify(ctx context.Context, build *model.Build, path string) (bool, error) {
	digest, err := v.Digest(ctx, path)
	if err != nil {
		return false, err
	}

	ok := digest == build.Application.SHA256
	v.metrics.ObserveVerification(ok)
	if !ok {
		v.logger.Warn("Checksum mismatch",
			zap.String("build", build.String()),
			zap.String("path", path),
			zap.String("expected", build.Application.SHA256),
			zap.String("actual", digest),
		)
		return false, nil
	}
	v.logger.Debug("Checksum ok",
		zap.String("path", path),
		zap.String("sha256", digest),
	)
	return true, nil
}

// Digest hashes the file at path on a separate goroutine and gives up when
// ctx is done first.
func (v *Verifier) Digest(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", errs.IO(err, "open %s", path)
	}

	done := make(chan result, 1)
	go func() {
		defer func(f *os.File) {
			_ = f.Close()
		}(file)
		digest, n, err := filehash.Sum(file)
		done <- result{digest: digest, size: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", errs.IO(r.err, "read %s", path)
		}
		v.logger.Debug("File hashed",
			zap.String("path", path),
			zap.Int64("size", r.size),
		)
		return r.digest, nil
	}
}
