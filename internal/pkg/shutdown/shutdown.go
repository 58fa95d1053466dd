package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var signals = []os.Signal{
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// WithSignals returns a context cancelled on the first interrupt. A second
// interrupt terminates the process. Call stop to release the handler.
func WithSignals(parent context.Context) (ctx context.Context, stop func()) {
	signalChan := make(chan os.Signal, 2)
	signal.Notify(signalChan, signals...)

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		select {
		case <-signalChan:
		case <-done:
			return
		}
		zap.L().Info("os.Interrupt - cancelling...")
		cancel()

		select {
		case <-signalChan:
			zap.L().Fatal("os.Kill - terminating...")
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(signalChan)
		close(done)
		cancel()
	}
}
