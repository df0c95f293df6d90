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
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errEntriesFailed) {
			fmt.Fprintln(os.Stderr, "harcheck:", err)
		}
		os.Exit(1)
	}
}
