package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/profile-picture-extractor/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx, cli.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
