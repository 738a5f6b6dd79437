package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/interfaces/cli"
	"eventhub.dev/cli/internal/interfaces/di"
)

func main() {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		container.Logger.Log(ports.LogLevelInfo, "Received shutdown signal, shutting down gracefully...", nil)
		cancel()

		// A second signal skips the graceful path
		<-sigChan
		os.Exit(1)
	}()

	exitCode := 0
	if err := cli.Execute(ctx, container.GetCLIContainer()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = 1
	}

	cancel()
	if err := container.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
	}
	os.Exit(exitCode)
}
