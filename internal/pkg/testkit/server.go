// Package testkit serves an in-process build-distribution API with the
// same URL layout and JSON shapes as the PaperMC v2 API, for tests.
package testkit

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MirrorChyan/fetch-paper/internal/model"
	"github.com/bytedance/sonic"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	sha256 "github.com/minio/sha256-simd"
	"go.uber.org/zap"
)

const apiPrefix = "/v2"

type Build struct {
	Number   int
	Time     time.Time
	Channel  string
	Promoted bool
	Changes  []model.Change
	Content  []byte
	// Name defaults to <project>-<version>-<build>.jar.
	Name string
	// Digest overrides the advertised sha256 of Content.
	Digest string
	// DownloadStatus, when set, is returned by the download endpoint instead of Content.
	DownloadStatus int
}

type Version struct {
	Label  string
	Builds []Build
}

type Project struct {
	ID       string
	Name     string
	Groups   []string
	Versions []Version
}

// Server is a fake API. URL is the API base, e.g. http://127.0.0.1:1234/v2.
type Server struct {
	URL string

	app      *fiber.App
	projects []Project

	mu   sync.Mutex
	hits map[string]int
}

// Paper returns a fixture shaped like the real paper project: versions
// 1.16.4 and 1.16.5, the latter with builds 249 and 250.
func Paper() Project {
	ts := time.Date(2021, 1, 16, 21, 39, 21, 0, time.UTC)
	return Project{
		ID:     "paper",
		Name:   "Paper",
		Groups: []string{"1.16"},
		Versions: []Version{
			{Label: "1.16.4", Builds: []Build{
				{Number: 416, Time: ts.Add(-60 * 24 * time.Hour), Channel: model.ChannelDefault, Content: []byte("paper 1.16.4 #416")},
			}},
			{Label: "1.16.5", Builds: []Build{
				{Number: 249, Time: ts.Add(-time.Hour), Channel: model.ChannelDefault, Content: []byte("paper 1.16.5 #249")},
				{Number: 250, Time: ts, Channel: model.ChannelDefault, Promoted: true, Content: bytes.Repeat([]byte("paper 1.16.5 #250\n"), 10_000),
					Changes: []model.Change{{Commit: "a7b53030d943c8205513e03c2bc888ba2568cf06", Summary: "Add exception reporting events", Message: "Add exception reporting events"}}},
			}},
		},
	}
}

// Velocity returns a second, smaller fixture whose only build is experimental.
func Velocity() Project {
	return Project{
		ID:   "velocity",
		Name: "Velocity",
		Versions: []Version{
			{Label: "3.3.0-SNAPSHOT", Builds: []Build{
				{Number: 436, Time: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), Channel: model.ChannelExperimental, Content: []byte("velocity 436")},
			}},
		},
	}
}

// NewServer starts a fake API on a loopback port and stops it with the test.
func NewServer(t testing.TB, projects ...Project) *Server {
	return NewServerWithLogger(t, zap.NewNop(), projects...)
}

func NewServerWithLogger(t testing.TB, logger *zap.Logger, projects ...Project) *Server {
	t.Helper()

	s := &Server{
		projects: projects,
		hits:     make(map[string]int),
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			JSONEncoder:           sonic.Marshal,
			JSONDecoder:           sonic.Unmarshal,
		}),
	}

	s.app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger,
	}))
	s.app.Use(func(c *fiber.Ctx) error {
		s.record(strings.TrimPrefix(c.Path(), apiPrefix))
		return c.Next()
	})

	r := s.app.Group(apiPrefix)
	r.Get("/projects", s.listProjects)
	r.Get("/projects/:project", s.getProject)
	r.Get("/projects/:project/versions/:version", s.getVersion)
	r.Get("/projects/:project/versions/:version/builds/:build", s.getBuild)
	r.Get("/projects/:project/versions/:version/builds/:build/downloads/:download", s.download)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		_ = s.app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = s.app.Shutdown()
	})

	s.URL = fmt.Sprintf("http://%s%s", ln.Addr().String(), apiPrefix)
	return s
}

// Hits returns how many requests reached path, relative to the API base.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, v := range s.hits {
		n += v
	}
	return n
}

func (s *Server) record(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[path]++
}

// Digest is the sha256 of content as lowercase hex.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

type errorResponse struct {
	Error string `json:"error"`
}

type projectsResponse struct {
	Projects []string `json:"projects"`
}

type projectResponse struct {
	ProjectID     string   `json:"project_id"`
	ProjectName   string   `json:"project_name"`
	VersionGroups []string `json:"version_groups"`
	Versions      []string `json:"versions"`
}

type versionResponse struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Version     string `json:"version"`
	Builds      []int  `json:"builds"`
}

type buildResponse struct {
	ProjectID   string                    `json:"project_id"`
	ProjectName string                    `json:"project_name"`
	Version     string                    `json:"version"`
	Build       int                       `json:"build"`
	Time        string                    `json:"time"`
	Channel     string                    `json:"channel"`
	Promoted    bool                      `json:"promoted"`
	Changes     []model.Change            `json:"changes"`
	Downloads   map[string]model.Download `json:"downloads"`
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: msg})
}

func (s *Server) findProject(id string) (*Project, bool) {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return &s.projects[i], true
		}
	}
	return nil, false
}

func (s *Server) findVersion(c *fiber.Ctx) (*Project, *Version, bool) {
	p, ok := s.findProject(c.Params("project"))
	if !ok {
		return nil, nil, false
	}
	label := c.Params("version")
	for i := range p.Versions {
		if p.Versions[i].Label == label {
			return p, &p.Versions[i], true
		}
	}
	return nil, nil, false
}

func (s *Server) findBuild(c *fiber.Ctx) (*Project, *Version, *Build, bool) {
	p, v, ok := s.findVersion(c)
	if !ok {
		return nil, nil, nil, false
	}
	n, err := c.ParamsInt("build")
	if err != nil {
		return nil, nil, nil, false
	}
	for i := range v.Builds {
		if v.Builds[i].Number == n {
			return p, v, &v.Builds[i], true
		}
	}
	return nil, nil, nil, false
}

func (s *Server) listProjects(c *fiber.Ctx) error {
	ids := make([]string, 0, len(s.projects))
	for _, p := range s.projects {
		ids = append(ids, p.ID)
	}
	return c.JSON(projectsResponse{Projects: ids})
}

func (s *Server) getProject(c *fiber.Ctx) error {
	p, ok := s.findProject(c.Params("project"))
	if !ok {
		return notFound(c, "project not found")
	}
	labels := make([]string, 0, len(p.Versions))
	for _, v := range p.Versions {
		labels = append(labels, v.Label)
	}
	return c.JSON(projectResponse{
		ProjectID:     p.ID,
		ProjectName:   p.Name,
		VersionGroups: p.Groups,
		Versions:      labels,
	})
}

func (s *Server) getVersion(c *fiber.Ctx) error {
	p, v, ok := s.findVersion(c)
	if !ok {
		return notFound(c, "version not found")
	}
	numbers := make([]int, 0, len(v.Builds))
	for _, b := range v.Builds {
		numbers = append(numbers, b.Number)
	}
	return c.JSON(versionResponse{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Version:     v.Label,
		Builds:      numbers,
	})
}

func (s *Server) getBuild(c *fiber.Ctx) error {
	p, v, b, ok := s.findBuild(c)
	if !ok {
		return notFound(c, "build not found")
	}
	digest := b.Digest
	if digest == "" {
		digest = Digest(b.Content)
	}
	return c.JSON(buildResponse{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Version:     v.Label,
		Build:       b.Number,
		Time:        b.Time.UTC().Format(time.RFC3339Nano),
		Channel:     b.Channel,
		Promoted:    b.Promoted,
		Changes:     b.Changes,
		Downloads: map[string]model.Download{
			model.ApplicationDownload: {Name: FileName(p, v, b), SHA256: digest},
		},
	})
}

func (s *Server) download(c *fiber.Ctx) error {
	p, v, b, ok := s.findBuild(c)
	if !ok || c.Params("download") != FileName(p, v, b) {
		return notFound(c, "download not found")
	}
	if b.DownloadStatus != 0 {
		return c.Status(b.DownloadStatus).JSON(errorResponse{Error: "unavailable"})
	}
	c.Set(fiber.HeaderContentType, "application/java-archive")
	return c.SendStream(bytes.NewReader(b.Content), len(b.Content))
}

// FileName is the application download name of a fixture build.
func FileName(p *Project, v *Version, b *Build) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("%s-%s-%d.jar", p.ID, v.Label, b.Number)
}
