package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	terminal, cleanup, err := initializeTerminal()
	if err != nil {
		log.Fatalf("failed to wire terminal dashboard: %v", err)
	}
	defer cleanup()

	if err := terminal.Run(ctx); err != nil {
		log.Printf("terminal dashboard stopped with error: %v", err)
	}
}
