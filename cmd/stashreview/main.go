package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/johanforsgren/stashreview/internal/cli"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCmd(Version), os.Stderr)
	stop()
	os.Exit(code)
}
