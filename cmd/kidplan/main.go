package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/kidplan/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCmd(cli.Version).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "kidplan: %v\n", err)
		return 1
	}
	return 0
}
