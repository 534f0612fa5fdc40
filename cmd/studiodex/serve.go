package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	chiTransport "github.com/kailas-cloud/studiodex/internal/transport/chi"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var adminPort int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Keep the studio index live and expose health and metrics",
		Long: `Attaches to the live studio index or builds it when none exists, rebuilds it
every index.rebuild_interval_sec seconds and serves /healthz and /metrics on the
admin port until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				if adminPort > 0 {
					a.cfg.Admin.Port = adminPort
				}
				if err := a.ensureIndex(ctx); err != nil {
					// keep serving: /healthz reports the index as pending
					a.logger.Error("initial build failed", zap.Error(err))
				}

				g, ctx := errgroup.WithContext(ctx)
				if sec := a.cfg.Index.RebuildIntervalSec; sec > 0 {
					g.Go(func() error {
						rebuildEvery(ctx, time.Duration(sec)*time.Second, a.indexer.Build, a.logger)
						return nil
					})
				}
				g.Go(func() error { return a.runAdmin(ctx) })
				return g.Wait()
			})
		},
	}
	cmd.Flags().IntVar(&adminPort, "admin-port", 0, "admin listener port (0 = config)")
	return cmd
}

// ensureIndex attaches to a promoted index, building one when none exists.
func (a *app) ensureIndex(ctx context.Context) error {
	ok, err := a.attach(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	_, err = a.indexer.Build(ctx)
	return err
}

// rebuildEvery runs build on every tick until ctx ends. Failures are logged, the live index stays.
func rebuildEvery(ctx context.Context, interval time.Duration, build func(context.Context) (int, error), logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := build(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error("scheduled rebuild failed", zap.Error(err))
			}
		}
	}
}

// runAdmin serves the admin router until ctx ends, then shuts down gracefully.
func (a *app) runAdmin(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", a.cfg.Admin.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewAdminRouter(a.health, a.logger),
		ReadTimeout:  time.Duration(a.cfg.Admin.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.Admin.WriteTimeoutSec) * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("Starting admin HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("admin server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	a.logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(a.cfg.Admin.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("admin shutdown: %w", err)
	}
	a.logger.Info("Admin server stopped gracefully")
	return nil
}
