// Command kineticdb stores chemical kinetic models in an event log and
// serves them from rebuildable read models.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmgdb/kineticdb/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	cli.ReportError(os.Stderr, err)
	stop()
	os.Exit(cli.GetExitCode(err))
}
