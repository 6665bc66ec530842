// Command costfit fits a linear cost model to parameterized benchmark timings.
//
// Usage:
//
//	go test -bench=Insert -count=10 ./store | tee insert.txt
//	costfit analyze --benchmark Insert insert.txt
//	costfit convert --compression zstd insert.txt insert.cfsm
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/costfit/internal/logging"
)

const Version = "0.1.0"

func main() {
	logger := logging.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		logger.WithError(err).Fatal("Command execution failed")
	}
}
