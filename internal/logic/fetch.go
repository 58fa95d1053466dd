package logic

import (
	"context"
	"path/filepath"

	"github.com/MirrorChyan/fetch-paper/internal/api"
	"github.com/MirrorChyan/fetch-paper/internal/fetcher"
	"github.com/MirrorChyan/fetch-paper/internal/model"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/errs"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/filehash"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/fileops"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/validator"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/vercomp"
	"github.com/MirrorChyan/fetch-paper/internal/verifier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type ResolveParam struct {
	Project string `validate:"required,slug"`
	// Version is an exact label, a semver constraint, or empty for latest.
	Version string
	// Build is a build number, or 0 for latest.
	Build int `validate:"gte=0"`
}

type FetchParam struct {
	ResolveParam
	Path          string `validate:"required"`
	Overwrite     bool
	SkipChecksum  bool
	WriteChecksum bool
}

type FetchResult struct {
	Build    *model.Build
	Link     string
	Path     string
	Size     int64
	Verified bool
	Skipped  bool
	Sidecar  string
}

type VerifyResult struct {
	Build    *model.Build
	Path     string
	Verified bool
}

type FetchLogic struct {
	logger   *zap.Logger
	client   *api.Client
	fetcher  *fetcher.Fetcher
	verifier *verifier.Verifier
}

func NewFetchLogic(
	logger *zap.Logger,
	client *api.Client,
	fetcher *fetcher.Fetcher,
	verifier *verifier.Verifier,
) *FetchLogic {
	return &FetchLogic{
		logger:   logger,
		client:   client,
		fetcher:  fetcher,
		verifier: verifier,
	}
}

// Project fetches a project after checking the root listing names it.
func (l *FetchLogic) Project(ctx context.Context, id string) (*model.Project, error) {
	if err := validator.Struct(&ResolveParam{Project: id}); err != nil {
		return nil, err
	}
	listing, err := l.client.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	if !listing.Contains(id) {
		return nil, errs.NotFound(api.KindProject, id, listing.Projects)
	}
	return l.client.GetProject(ctx, id)
}

// Version resolves a version selector against project.
func (l *FetchLogic) Version(ctx context.Context, project *model.Project, selector string) (*model.Version, error) {
	label, err := l.selectVersion(project, selector)
	if err != nil {
		return nil, err
	}
	return l.client.GetVersion(ctx, project, label)
}

func (l *FetchLogic) selectVersion(project *model.Project, selector string) (string, error) {
	if selector == "" || project.Contains(selector) || !vercomp.IsConstraint(selector) {
		return selector, nil
	}
	label, ok, err := vercomp.Latest(project.Versions, selector)
	if err != nil {
		return "", errs.ErrInvalidParams.Wrap(err)
	}
	if !ok {
		return "", errs.NotFound(api.KindVersion, selector, project.Versions)
	}
	l.logger.Debug("Version constraint matched",
		zap.String("constraint", selector),
		zap.String("version", label),
	)
	return label, nil
}

// Build fetches build number of version; 0 selects the latest.
func (l *FetchLogic) Build(ctx context.Context, version *model.Version, number int) (*model.Build, error) {
	if number < 0 {
		return nil, errs.ErrInvalidParams.WithMessage("build number must not be negative")
	}
	return l.client.GetBuild(ctx, version, number)
}

// Resolve walks project -> version -> build.
func (l *FetchLogic) Resolve(ctx context.Context, param ResolveParam) (*model.Build, error) {
	if err := validator.Struct(&param); err != nil {
		return nil, err
	}
	project, err := l.Project(ctx, param.Project)
	if err != nil {
		return nil, err
	}
	version, err := l.Version(ctx, project, param.Version)
	if err != nil {
		return nil, err
	}
	build, err := l.Build(ctx, version, param.Build)
	if err != nil {
		return nil, err
	}

	if build.Experimental() {
		l.logger.Warn("Resolved an experimental build", zap.String("build", build.String()))
	}
	l.logger.Info("Build resolved",
		zap.String("build", build.String()),
		zap.String("channel", build.Channel),
		zap.String("sha256", build.Application.SHA256),
	)
	return build, nil
}

// Fetch resolves the build and downloads it to param.Path. A checksum
// mismatch leaves Verified false and is not an error here.
func (l *FetchLogic) Fetch(ctx context.Context, param FetchParam) (*FetchResult, error) {
	if err := validator.Struct(&param); err != nil {
		return nil, err
	}
	if err := l.checkDestination(param.Path, param.Overwrite); err != nil {
		return nil, err
	}

	build, err := l.Resolve(ctx, param.ResolveParam)
	if err != nil {
		return nil, err
	}

	size, err := l.fetcher.Download(ctx, build, param.Path)
	if err != nil {
		return nil, err
	}

	result := &FetchResult{
		Build: build,
		Link:  l.client.DownloadLink(build),
		Path:  param.Path,
		Size:  size,
	}

	if param.SkipChecksum {
		l.logger.Warn("Checksum verification skipped", zap.String("path", param.Path))
		result.Skipped = true
	} else {
		ok, err := l.verifier.Verify(ctx, build, param.Path)
		if err != nil {
			return nil, err
		}
		result.Verified = ok
	}

	if param.WriteChecksum && (result.Verified || result.Skipped) {
		sidecar, err := filehash.WriteSidecar(param.Path, build.Application.SHA256)
		if err != nil {
			return nil, errs.IO(err, "write checksum file")
		}
		result.Sidecar = sidecar
	}
	return result, nil
}

func (l *FetchLogic) checkDestination(path string, overwrite bool) error {
	if fileops.IsDir(path) {
		return errs.IO(errors.New("destination is a directory"), "check %s", path)
	}
	if err := fileops.CheckParent(filepath.Dir(path)); err != nil {
		return errs.IO(err, "check %s", path)
	}
	exists, err := fileops.Exists(path)
	if err != nil {
		return errs.IO(err, "stat %s", path)
	}
	if !exists {
		return nil
	}
	if !overwrite {
		return errs.ErrFileExists.WithMessage("file already exists: " + path)
	}
	l.logger.Warn("Overwriting existing file", zap.String("path", path))
	return nil
}

// Verify re-checks an existing file against the resolved build.
func (l *FetchLogic) Verify(ctx context.Context, param ResolveParam, path string) (*VerifyResult, error) {
	build, err := l.Resolve(ctx, param)
	if err != nil {
		return nil, err
	}
	ok, err := l.verifier.Verify(ctx, build, path)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Build:    build,
		Path:     path,
		Verified: ok,
	}, nil
}
