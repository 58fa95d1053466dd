package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/MirrorChyan/fetch-paper/internal/model"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newVersionsCmd(s *settings, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "versions PROJECT",
		Short: "list the versions of a project, oldest first",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context) error {
				project, err := s.set.FetchLogic.Project(ctx, args[0])
				if err != nil {
					return err
				}
				for _, v := range project.Versions {
					fmt.Fprintln(out, v)
				}
				return nil
			})
		},
	}
}

func newBuildsCmd(s *settings, out io.Writer) *cobra.Command {
	var (
		version string
		latest  bool
	)

	cmd := &cobra.Command{
		Use:   "builds PROJECT",
		Short: "list the builds of a version, oldest first",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context) error {
				fl := s.set.FetchLogic
				project, err := fl.Project(ctx, args[0])
				if err != nil {
					return err
				}
				v, err := fl.Version(ctx, project, version)
				if err != nil {
					return err
				}
				if !latest {
					for _, b := range v.Builds {
						fmt.Fprintln(out, b)
					}
					return nil
				}
				b, err := fl.Build(ctx, v, 0)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatBuild(b))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&version, "version", "v", "", "version label or constraint (default latest)")
	f.BoolVarP(&latest, "latest", "l", false, "show details of the latest build only")
	return cmd
}

func formatBuild(b *model.Build) string {
	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	table.AddRow("BUILD:", b.String())
	table.AddRow("TIME:", b.Time.Format("2006-01-02 15:04:05 MST"))
	table.AddRow("CHANNEL:", b.Channel)
	table.AddRow("PROMOTED:", b.Promoted)
	table.AddRow("FILE:", b.Application.Name)
	table.AddRow("SHA256:", b.Application.SHA256)
	for _, name := range slices.Sorted(maps.Keys(b.Extra)) {
		table.AddRow("EXTRA:", fmt.Sprintf("%s %s", name, b.Extra[name].Name))
	}
	for _, c := range b.Changes {
		table.AddRow("CHANGE:", fmt.Sprintf("%.7s %s", c.Commit, c.Summary))
	}
	return table.String()
}
