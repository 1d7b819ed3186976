// Command web-report runs the spreadsheet analysis web server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hrpulse/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Run the server until a termination signal arrives, then shut
	// down gracefully within the configured window.
	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case sig := <-sigCh:
		slog.Info("Received signal", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
		defer cancel()

		if err := application.Stop(ctx); err != nil {
			slog.Error("Shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}
