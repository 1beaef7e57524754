package main

import (
	"context"
	"os"
	"os/signal"

	"pointtag/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.New().Tag(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
