//go:build !windows

package shutdown

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithSignalsCancelsOnInterrupt(t *testing.T) {
	ctx, stop := WithSignals(context.Background())
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGHUP))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled")
	}
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestWithSignalsStop(t *testing.T) {
	ctx, stop := WithSignals(context.Background())
	require.NoError(t, ctx.Err())

	stop()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}
