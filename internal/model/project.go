package model

import (
	"slices"

	"github.com/pkg/errors"
)

// ProjectListing is the root document: every project id the API serves.
type ProjectListing struct {
	Projects []string `json:"projects"`
}

func (l *ProjectListing) Contains(id string) bool {
	return slices.Contains(l.Projects, id)
}

// Project describes one project and its versions, oldest first.
type Project struct {
	ProjectID     string   `json:"project_id"`
	ProjectName   string   `json:"project_name"`
	VersionGroups []string `json:"version_groups,omitempty"`
	Versions      []string `json:"versions"`
}

// Latest returns the last listed version label.
func (p *Project) Latest() (string, bool) {
	if len(p.Versions) == 0 {
		return "", false
	}
	return p.Versions[len(p.Versions)-1], true
}

func (p *Project) Contains(version string) bool {
	return slices.Contains(p.Versions, version)
}

func (p *Project) Validate() error {
	if p.ProjectID == "" {
		return errors.New("missing project_id")
	}
	return nil
}

// Version describes one version of a project and its builds, oldest first.
type Version struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Version     string `json:"version"`
	Builds      []int  `json:"builds"`
}

// Latest returns the last listed build number.
func (v *Version) Latest() (int, bool) {
	if len(v.Builds) == 0 {
		return 0, false
	}
	return v.Builds[len(v.Builds)-1], true
}

func (v *Version) Contains(build int) bool {
	return slices.Contains(v.Builds, build)
}

func (v *Version) Validate() error {
	switch {
	case v.ProjectID == "":
		return errors.New("missing project_id")
	case v.Version == "":
		return errors.New("missing version")
	}
	return nil
}
