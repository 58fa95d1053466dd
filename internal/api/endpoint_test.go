package api

import (
	"testing"

	"github.com/MirrorChyan/fetch-paper/internal/model"
	"github.com/stretchr/testify/require"
)

func TestEndpointLayout(t *testing.T) {
	e := EndpointAt("https://api.papermc.io/v2/")

	build := &model.Build{
		ProjectID:   "paper",
		Version:     "1.16.5",
		Build:       250,
		Application: model.Download{Name: "paper-1.16.5-250.jar"},
	}

	testCases := []struct {
		Name     string
		Got      string
		Expected string
	}{
		{Name: "root", Got: e.Root(), Expected: "https://api.papermc.io/v2/projects"},
		{Name: "project", Got: e.Project("paper"), Expected: "https://api.papermc.io/v2/projects/paper"},
		{Name: "version", Got: e.Version("paper", "1.16.5"), Expected: "https://api.papermc.io/v2/projects/paper/versions/1.16.5"},
		{Name: "build", Got: e.Build("paper", "1.16.5", 250), Expected: "https://api.papermc.io/v2/projects/paper/versions/1.16.5/builds/250"},
		{Name: "download", Got: e.Download(build), Expected: "https://api.papermc.io/v2/projects/paper/versions/1.16.5/builds/250/downloads/paper-1.16.5-250.jar"},
		{Name: "escaped", Got: e.Version("paper", "a/b"), Expected: "https://api.papermc.io/v2/projects/paper/versions/a%2Fb"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, tc.Got)
		})
	}
}
