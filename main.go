// main is the entry point for the funcspot CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/funcspot/cmd"
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/internal/iocache"
)

func main() {
	// Ctrl-C and SIGTERM cancel the root context so in-flight file
	// workers drain instead of leaving half-written caches behind.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetRootContext(ctx)
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Shutdown in reverse order of startup, regardless of command outcome.
	iocache.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
