package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mdobak/go-xerrors"
)

const shutdownTimeout = 10 * time.Second

// serve blocks until ctx is cancelled, then drains in-flight requests.
func (app *application) serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         app.config.Addr(),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	// done releases the shutdown goroutine when ListenAndServe fails on its own.
	done := make(chan struct{})
	defer close(done)

	shutdownErr := make(chan error, 1)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		app.logger.Info("Shutting down server", "addr", server.Addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	app.logger.Info("Starting server", "addr", server.Addr, "env", app.config.Env)

	err := server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return xerrors.New(err)
	}

	if err := <-shutdownErr; err != nil {
		return xerrors.New(err)
	}

	app.logger.Info("Stopped server", "addr", server.Addr)
	return nil
}
