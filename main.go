package main

import (
	"context"
	"os"

	"github.com/MirrorChyan/fetch-paper/internal/cmd"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/errs"
	"github.com/MirrorChyan/fetch-paper/internal/pkg/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())

	err := cmd.Execute(ctx, os.Stdout, os.Stderr, os.Args[1:])

	stop()
	os.Exit(errs.ExitCode(err))
}
