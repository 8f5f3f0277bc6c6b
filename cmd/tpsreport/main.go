// Command tpsreport renders the chart and HTML report of a blockchain TPS
// benchmark run.
//
// Usage:
//
//	tpsreport generate eth --samples-dir ./result --out ./result
//	tpsreport chains
//	tpsreport serve --root ./result --addr :8080
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
