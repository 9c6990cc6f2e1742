// Package httpserver runs an HTTP server with signal-driven graceful
// shutdown, shared by all four service binaries.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Run serves handler on the given port until SIGINT/SIGTERM or context
// cancellation, then drains in-flight requests. The optional cleanup hooks
// run after the listener has stopped, in the order given.
func Run(ctx context.Context, port int, handler http.Handler, logger *slog.Logger, cleanup ...func()) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		logger.Info("Shutting down server...")
	case <-serverCtx.Done():
		logger.Info("Server context canceled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	for _, fn := range cleanup {
		fn()
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	default:
	}

	logger.Info("Server shutdown completed")
	return nil
}
