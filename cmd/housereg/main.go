// Command housereg prepares the housing dataset, trains the regression
// pipeline and prints its test-set metrics.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/YuminosukeSato/housereg/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.GetLogger().Error("housereg failed", err)
		stop()
		os.Exit(1)
	}
}
