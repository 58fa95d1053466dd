package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/MirrorChyan/fetch-paper/internal/config"
	"github.com/MirrorChyan/fetch-paper/internal/model"
)

// Endpoint lays out the API URLs under a fixed base. It is a value type and
// never changes after construction.
type Endpoint struct {
	base string
}

func NewEndpoint(conf *config.Config) Endpoint {
	return EndpointAt(conf.API.BaseURL)
}

func EndpointAt(base string) Endpoint {
	return Endpoint{base: strings.TrimRight(base, "/")}
}

func (e Endpoint) Base() string {
	return e.base
}

// Root is {base}/projects.
func (e Endpoint) Root() string {
	return e.base + "/projects"
}

// Project is {root}/{id}.
func (e Endpoint) Project(id string) string {
	return strings.Join([]string{e.Root(), url.PathEscape(id)}, "/")
}

// Version is {project}/versions/{label}.
func (e Endpoint) Version(project, version string) string {
	return strings.Join([]string{e.Project(project), "versions", url.PathEscape(version)}, "/")
}

// Build is {version}/builds/{n}.
func (e Endpoint) Build(project, version string, build int) string {
	return strings.Join([]string{e.Version(project, version), "builds", strconv.Itoa(build)}, "/")
}

// Download is {build}/downloads/{application name}.
func (e Endpoint) Download(b *model.Build) string {
	return strings.Join([]string{
		e.Build(b.ProjectID, b.Version, b.Build), "downloads", url.PathEscape(b.Application.Name),
	}, "/")
}
