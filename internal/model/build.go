package model

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const (
	ApplicationDownload = "application"

	ChannelDefault      = "default"
	ChannelExperimental = "experimental"
)

// Change is one commit included in a build. Informational only.
type Change struct {
	Commit  string `json:"commit"`
	Summary string `json:"summary"`
	Message string `json:"message"`
}

// Download names a downloadable file and its expected SHA-256 digest.
type Download struct {
	Name   string `json:"name"`
	SHA256 string `json:"sha256"`
}

// Build is a single build of a version. The API nests the artifact under
// downloads.application; it is lifted into Application on decode and any
// other download entries land in Extra.
type Build struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	Version     string    `json:"version"`
	Build       int       `json:"build"`
	Time        time.Time `json:"time"`
	Channel     string    `json:"channel,omitempty"`
	Promoted    bool      `json:"promoted,omitempty"`
	Changes     []Change  `json:"changes,omitempty"`

	Application Download            `json:"-"`
	Extra       map[string]Download `json:"-"`
}

type buildDocument struct {
	ProjectID   string              `json:"project_id"`
	ProjectName string              `json:"project_name"`
	Version     string              `json:"version"`
	Build       int                 `json:"build"`
	Time        time.Time           `json:"time"`
	Channel     string              `json:"channel"`
	Promoted    bool                `json:"promoted"`
	Changes     []Change            `json:"changes"`
	Downloads   map[string]Download `json:"downloads"`
}

func (b *Build) UnmarshalJSON(data []byte) error {
	node, err := sonic.Get(data, "downloads", ApplicationDownload)
	if err != nil {
		return errors.Wrap(err, "missing downloads.application")
	}
	raw, err := node.Raw()
	if err != nil {
		return errors.Wrap(err, "read downloads.application")
	}

	var app Download
	if err := sonic.UnmarshalString(raw, &app); err != nil {
		return errors.Wrap(err, "decode downloads.application")
	}

	var doc buildDocument
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return err
	}

	*b = Build{
		ProjectID:   doc.ProjectID,
		ProjectName: doc.ProjectName,
		Version:     doc.Version,
		Build:       doc.Build,
		Time:        doc.Time,
		Channel:     doc.Channel,
		Promoted:    doc.Promoted,
		Changes:     doc.Changes,
		Application: app,
	}
	for name, d := range doc.Downloads {
		if name == ApplicationDownload {
			continue
		}
		if b.Extra == nil {
			b.Extra = make(map[string]Download)
		}
		b.Extra[name] = d
	}
	return nil
}

func (b *Build) Validate() error {
	switch {
	case b.ProjectID == "":
		return errors.New("missing project_id")
	case b.Version == "":
		return errors.New("missing version")
	case b.Build <= 0:
		return errors.New("missing build number")
	case b.Application.Name == "":
		return errors.New("missing downloads.application.name")
	}
	return ValidateDigest(b.Application.SHA256)
}

// ValidateDigest accepts a 64 char lowercase hex SHA-256 digest.
func ValidateDigest(digest string) error {
	if len(digest) != 64 {
		return errors.Errorf("sha256 digest must be 64 hex chars, got %d", len(digest))
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return errors.Wrap(err, "sha256 digest is not hex")
	}
	for _, c := range digest {
		if c >= 'A' && c <= 'F' {
			return errors.New("sha256 digest must be lowercase")
		}
	}
	return nil
}

// Experimental reports whether the build was published outside the default
// channel's stability promise.
func (b *Build) Experimental() bool {
	return b.Channel == ChannelExperimental
}

// String identifies a build as project/version#build.
func (b *Build) String() string {
	return b.ProjectID + "/" + b.Version + "#" + strconv.Itoa(b.Build)
}
