package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaurav-prasanna/storypipe/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx)
	cancel()
	os.Exit(code)
}
