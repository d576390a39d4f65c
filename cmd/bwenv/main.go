// Command bwenv generates .env files from secrets stored in Bitwarden.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jongio/bwenv/cliout"
	"github.com/jongio/bwenv/internal/cli"
	"github.com/jongio/bwenv/version"
)

// Build information, set by ldflags during build.
var (
	Version   = "0.0.0-dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	info := version.New("bwenv")
	info.Version = Version
	info.BuildDate = BuildDate
	info.GitCommit = GitCommit

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, info)
	stop()

	if err != nil {
		cliout.Error("%v", err)
		os.Exit(1)
	}
}
