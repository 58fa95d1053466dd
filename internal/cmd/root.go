package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MirrorChyan/fetch-paper/internal/config"
	"github.com/MirrorChyan/fetch-paper/internal/logger"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/errs"
	"github.com/MirrorChyan/fetch-paper/internal/wire"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const rootDesc = `
fetch-paper resolves and downloads builds from a PaperMC style
build-distribution API.

A project is resolved to a version, a version to a build, and the build's
application artifact is downloaded and checked against its SHA-256 digest.
Versions default to the latest listed one and builds to the latest build of
that version.

	$ fetch-paper download paper -v 1.16.5 -p ./paper.jar
`

const pushTimeout = 5 * time.Second

// settings carries what every command needs once flags are parsed.
type settings struct {
	v          *viper.Viper
	configFile string
	timeout    time.Duration

	conf   *config.Config
	logger *zap.Logger
	set    *wire.LogicSet
}

func (s *settings) bind(key string, flags *pflag.FlagSet, name string) {
	if err := s.v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

func (s *settings) setup() error {
	conf, err := config.Load(s.v, s.configFile)
	if err != nil {
		return errs.ErrInvalidParams.Wrap(err)
	}
	s.conf = conf
	s.logger = logger.New(conf)
	zap.ReplaceGlobals(s.logger)
	s.set = wire.NewLogicSet(s.logger, conf)
	return nil
}

// run applies --timeout around fn and pushes metrics once fn returns.
func (s *settings) run(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx := cmd.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := fn(ctx)
	s.push()
	return err
}

func (s *settings) push() {
	m := s.conf.Metrics
	if m.Pushgateway == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := s.set.Metrics.Push(ctx, m.Pushgateway, m.Job); err != nil {
		s.logger.Warn("Failed to push metrics",
			zap.String("pushgateway", m.Pushgateway),
			zap.Error(err),
		)
	}
}

func NewRootCmd(out io.Writer) *cobra.Command {
	s := &settings{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:           "fetch-paper",
		Short:         "download and verify builds from a build-distribution API",
		Long:          rootDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup()
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errs.ErrInvalidParams.Wrap(err)
	})

	f := cmd.PersistentFlags()
	f.StringVar(&s.configFile, "config", "", "config file (default ./fetch-paper.yaml or ./config/fetch-paper.yaml)")
	f.String("base-url", config.DefaultBaseURL, "API base URL")
	f.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error, fatal")
	f.DurationVar(&s.timeout, "timeout", 0, "deadline for the whole command, 0 for none")
	s.bind(config.APIBaseURLKey, f, "base-url")
	s.bind(config.LogLevelKey, f, "log-level")

	cmd.AddCommand(
		newDownloadCmd(s, out),
		newProjectsCmd(s, out),
		newVersionsCmd(s, out),
		newBuildsCmd(s, out),
		newVerifyCmd(s, out),
	)
	return cmd
}

// Execute runs the command tree. Errors are printed to errOut, with the
// available options when a selector was not found.
func Execute(ctx context.Context, out, errOut io.Writer, args []string) error {
	cmd := NewRootCmd(out)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		if hint := errs.Hint(err); hint != "" {
			_, _ = fmt.Fprint(errOut, hint)
		}
	}
	_ = zap.L().Sync()
	return err
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return errs.ErrInvalidParams.Wrap(err)
		}
		return nil
	}
}
