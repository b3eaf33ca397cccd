package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/quizflow/pkg/adapters/http"
	"golang.org/x/sync/errgroup"
)

// Serve runs the HTTP server and the dashboard refresher until ctx is done,
// then shuts the server down gracefully within the configured timeout.
func Serve(ctx context.Context, app *App, ln net.Listener) error {
	handler := httpAdapter.NewHandler(app.Engine, app.Dashboard,
		httpAdapter.WithPassphrase(app.Config.Admin.Passphrase),
		httpAdapter.WithMetrics(app.Metrics),
		httpAdapter.WithLogger(app.Logger),
	)
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Ends open SSE streams so Shutdown does not wait on them.
	srv.RegisterOnShutdown(app.Dashboard.Close)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.Dashboard.Run(gctx)
	})

	g.Go(func() error {
		app.Logger.Info("quizflow server listening", "addr", ln.Addr().String(), "store", app.Config.Store.Driver)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info("shutting down", "timeout", app.Config.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("graceful shutdown did not complete", "error", err)
			return srv.Close()
		}
		return nil
	})

	return g.Wait()
}
