package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newProjectsCmd(s *settings, out io.Writer) *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:     "projects",
		Short:   "list projects",
		Aliases: []string{"ls"},
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context) error {
				if detail {
					return listSummaries(ctx, s, out)
				}
				ids, err := s.set.SummaryLogic.Projects(ctx)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&detail, "detail", "d", false, "show name, version count and latest version")
	return cmd
}

func listSummaries(ctx context.Context, s *settings, out io.Writer) error {
	summaries, err := s.set.SummaryLogic.Summaries(ctx, 0)
	if err != nil {
		return err
	}

	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("ID", "NAME", "VERSIONS", "LATEST")
	for _, p := range summaries {
		table.AddRow(p.ID, p.Name, p.Versions, p.Latest)
	}
	fmt.Fprintln(out, table)
	return nil
}
