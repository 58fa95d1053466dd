package api

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/MirrorChyan/fetch-paper/internal/metrics"
	"github.com/MirrorChyan/fetch-paper/internal/model"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/errs"
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// endpoint kinds, used as metric labels and not found kinds
const (
	KindProjects = "projects"
	KindProject  = "project"
	KindVersion  = "version"
	KindBuild    = "build"
	KindDownload = "download"
)

type validator interface {
	Validate() error
}

// Client walks the Root -> Project -> Version -> Build chain. Every call is
// a fresh request; nothing is cached between calls.
type Client struct {
	logger    *zap.Logger
	endpoint  Endpoint
	requester *Requester
	metrics   *metrics.Metrics
}

func NewClient(
	logger *zap.Logger,
	endpoint Endpoint,
	requester *Requester,
	metrics *metrics.Metrics,
) *Client {
	return &Client{
		logger:    logger,
		endpoint:  endpoint,
		requester: requester,
		metrics:   metrics,
	}
}

func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// ListProjects fetches the root listing.
func (c *Client) ListProjects(ctx context.Context) (*model.ProjectListing, error) {
	var listing model.ProjectListing
	if err := c.getJSON(ctx, KindProjects, "", c.endpoint.Root(), &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetProject fetches a project by id. An unknown id is reported by the API
// as 404 and surfaces as a not found error.
func (c *Client) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if id == "" {
		return nil, errs.ErrInvalidParams.WithMessage("project id is required")
	}
	var project model.Project
	if err := c.getJSON(ctx, KindProject, id, c.endpoint.Project(id), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetVersion fetches one version of project. An empty label selects the
// latest. Labels the project does not list are rejected without a request.
func (c *Client) GetVersion(ctx context.Context, project *model.Project, label string) (*model.Version, error) {
	if label == "" {
		return c.GetLatestVersion(ctx, project)
	}
	return c.fetchVersion(ctx, project, label)
}

// GetLatestVersion fetches the last version the project lists.
func (c *Client) GetLatestVersion(ctx context.Context, project *model.Project) (*model.Version, error) {
	label, ok := project.Latest()
	if !ok {
		return nil, errs.NotFound(KindVersion, "latest", nil).WithMessage("no version found for " + project.ProjectID)
	}
	return c.fetchVersion(ctx, project, label)
}

func (c *Client) fetchVersion(ctx context.Context, project *model.Project, label string) (*model.Version, error) {
	if !project.Contains(label) {
		return nil, errs.NotFound(KindVersion, label, project.Versions)
	}
	var version model.Version
	if err := c.getJSON(ctx, KindVersion, label, c.endpoint.Version(project.ProjectID, label), &version); err != nil {
		return nil, err
	}
	return &version, nil
}

// GetBuild fetches one build of version. Zero selects the latest. Numbers
// the version does not list are rejected without a request.
func (c *Client) GetBuild(ctx context.Context, version *model.Version, number int) (*model.Build, error) {
	if number == 0 {
		return c.GetLatestBuild(ctx, version)
	}
	return c.fetchBuild(ctx, version, number)
}

// GetLatestBuild fetches the last build the version lists.
func (c *Client) GetLatestBuild(ctx context.Context, version *model.Version) (*model.Build, error) {
	number, ok := version.Latest()
	if !ok {
		return nil, errs.NotFound(KindBuild, "latest", nil).WithMessage("no build found for " + version.Version)
	}
	return c.fetchBuild(ctx, version, number)
}

func (c *Client) fetchBuild(ctx context.Context, version *model.Version, number int) (*model.Build, error) {
	if !version.Contains(number) {
		return nil, errs.NotFound(KindBuild, strconv.Itoa(number), buildLabels(version.Builds))
	}
	var build model.Build
	uri := c.endpoint.Build(version.ProjectID, version.Version, number)
	if err := c.getJSON(ctx, KindBuild, strconv.Itoa(number), uri, &build); err != nil {
		return nil, err
	}
	return &build, nil
}

// DownloadLink is the direct artifact URL of a build.
func (c *Client) DownloadLink(build *model.Build) string {
	return c.endpoint.Download(build)
}

func (c *Client) getJSON(ctx context.Context, kind, id, uri string, v any) error {
	var (
		req     = fasthttp.AcquireRequest()
		resp    = fasthttp.AcquireResponse()
		started = time.Now()
	)

	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	requestID := c.requester.Prepare(req, uri)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if err := c.requester.Do(ctx, req, resp); err != nil {
		c.metrics.ObserveRequest(kind, metrics.OutcomeTransport, started)
		c.logger.Error("Failed to send request",
			zap.String("url", uri),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return errs.Transport(err, "GET %s", uri)
	}

	status := resp.StatusCode()
	c.logger.Debug("Request done",
		zap.String("url", uri),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(started)),
	)

	switch {
	case status == fasthttp.StatusNotFound && id != "":
		c.metrics.ObserveRequest(kind, metrics.OutcomeNotFound, started)
		return errs.NotFound(kind, id, nil)
	case status < 200 || status > 299:
		c.metrics.ObserveRequest(kind, metrics.OutcomeTransport, started)
		return errs.Transport(errors.Errorf("unexpected status %d", status), "GET %s", uri)
	}

	body, err := io.ReadAll(resp.BodyStream())
	if err != nil {
		c.metrics.ObserveRequest(kind, metrics.OutcomeTransport, started)
		return errs.Transport(err, "read %s", uri)
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		c.metrics.ObserveRequest(kind, metrics.OutcomeTransport, started)
		c.logger.Error("Failed to decode response",
			zap.String("url", uri),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return errs.Transport(err, "decode %s", uri)
	}
	if val, ok := v.(validator); ok {
		if err := val.Validate(); err != nil {
			c.metrics.ObserveRequest(kind, metrics.OutcomeTransport, started)
			return errs.Transport(err, "decode %s", uri)
		}
	}

	c.metrics.ObserveRequest(kind, metrics.OutcomeOK, started)
	return nil
}

func buildLabels(builds []int) []string {
	labels := make([]string, 0, len(builds))
	for _, b := range builds {
		labels = append(labels, strconv.Itoa(b))
	}
	return labels
}
