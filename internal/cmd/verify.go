package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/MirrorChyan/fetch-paper/internal/logic"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/errs"
	"github.com/spf13/cobra"
)

func newVerifyCmd(s *settings, out io.Writer) *cobra.Command {
	var (
		version string
		build   int
	)

	cmd := &cobra.Command{
		Use:   "verify PROJECT PATH",
		Short: "check a local file against a build's digest",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context) error {
				param := logic.ResolveParam{Project: args[0], Version: version, Build: build}
				res, err := s.set.FetchLogic.Verify(ctx, param, args[1])
				if err != nil {
					return err
				}
				if !res.Verified {
					fmt.Fprintf(out, "%s: MISMATCH (%s)\n", res.Path, res.Build)
					return errs.ErrChecksumMismatch.WithMessage("sha256 check failed for " + res.Path)
				}
				fmt.Fprintf(out, "%s: ok (%s)\n", res.Path, res.Build)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&version, "version", "v", "", "version label or constraint (default latest)")
	f.IntVarP(&build, "build", "b", 0, "build number (default latest)")
	return cmd
}
