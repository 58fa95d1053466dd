package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/MirrorChyan/fetch-paper/internal/config"
	"github.com/MirrorChyan/fetch-paper/internal/logic"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/errs"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const downloadDesc = `
Download a build of PROJECT to a local path and check its SHA-256 digest.

Without --version the latest version is used; without --build the latest
build of that version. --version also accepts a semantic version constraint
such as "~1.16" or ">= 1.20, < 1.21", which selects the last listed version
that satisfies it.

An existing file at the destination is an error unless --overwrite is set.
A checksum mismatch exits with a non-zero status; the file is kept.
`

func newDownloadCmd(s *settings, out io.Writer) *cobra.Command {
	var (
		version string
		build   int
	)

	cmd := &cobra.Command{
		Use:   "download PROJECT",
		Short: "download and verify a build",
		Long:  downloadDesc,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context) error {
				return runDownload(ctx, s, out, logic.FetchParam{
					ResolveParam: logic.ResolveParam{
						Project: args[0],
						Version: version,
						Build:   build,
					},
					Path:          s.conf.Download.Path,
					Overwrite:     s.conf.Download.Overwrite,
					SkipChecksum:  s.conf.Download.SkipChecksum,
					WriteChecksum: s.conf.Download.WriteChecksum,
				})
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&version, "version", "v", "", "version label or constraint (default latest)")
	f.IntVarP(&build, "build", "b", 0, "build number (default latest)")
	f.StringP("path", "p", config.DefaultPath, "destination file")
	f.Bool("overwrite", false, "truncate an existing destination file")
	f.Bool("skip-checksum", false, "do not verify the downloaded file")
	f.Bool("write-checksum", false, "write the digest to <path>.sha256 after a successful download")
	s.bind(config.DownloadPathKey, f, "path")
	s.bind(config.DownloadOverwriteKey, f, "overwrite")
	s.bind(config.DownloadSkipChecksumKey, f, "skip-checksum")
	s.bind(config.DownloadWriteChecksumKey, f, "write-checksum")

	return cmd
}

func runDownload(ctx context.Context, s *settings, out io.Writer, param logic.FetchParam) error {
	res, err := s.set.FetchLogic.Fetch(ctx, param)
	if err != nil {
		return err
	}

	b := res.Build
	fmt.Fprintf(out, "Downloaded %s %s build %d\n", b.ProjectName, b.Version, b.Build)
	if b.Experimental() {
		fmt.Fprintln(out, "  warning: experimental build")
	}
	fmt.Fprintf(out, "  link:   %s\n", res.Link)
	fmt.Fprintf(out, "  path:   %s\n", res.Path)
	fmt.Fprintf(out, "  sha256: %s\n", b.Application.SHA256)
	fmt.Fprintf(out, "  size:   %s\n", humanize.Bytes(uint64(res.Size)))
	if res.Sidecar != "" {
		fmt.Fprintf(out, "  sidecar: %s\n", res.Sidecar)
	}

	switch {
	case res.Skipped:
		fmt.Fprintln(out, "Checksum: skipped")
	case res.Verified:
		fmt.Fprintln(out, "Checksum: ok")
	default:
		fmt.Fprintln(out, "Checksum: MISMATCH")
		return errs.ErrChecksumMismatch.WithMessage("sha256 check failed for " + res.Path)
	}
	return nil
}
