package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lcalzada-xor/apcaps/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Root Context with cancellation on Interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx, version, os.Args[1:])
	cancel()
	os.Exit(code)
}
