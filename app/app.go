package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/poppolopoppo/bin2cpp/internal/base"
	"github.com/poppolopoppo/bin2cpp/internal/cmd"
)

// WithCommandEnv runs scope with a context cancelled on interruption, any
// panic escaping scope is reported as a failure.
func WithCommandEnv(scope func(context.Context) int) (exitCode int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer base.FlushLog()

	err := base.Recover(func() error {
		exitCode = scope(ctx)
		return nil
	})
	if err != nil {
		base.LogError(base.LogGlobal, "%v", err)
		exitCode = cmd.EXIT_FAILURE
	}
	return
}

func LaunchCommand(args []string) int {
	return WithCommandEnv(func(ctx context.Context) int {
		return cmd.Run(ctx, args, os.Stderr)
	})
}
