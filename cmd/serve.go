package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contributions/internal/handler"
	"github.com/naka-gawa/github-contributions/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the contributions JSON API",
	Long: `Starts an HTTP server exposing /api/github-contributions, /api/github-stats,
/api/languages, /api/repositories and /healthz until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			a.cfg.ListenAddr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := telemetry.Setup(ctx, "github-contributions", a.cfg.OTelEndpoint)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				a.logger.Error("tracing shutdown error", "error", err)
			}
		}()

		h := handler.NewHandler(a.aggregator, a.profile, a.logger)
		srv := &http.Server{
			Addr:              a.cfg.ListenAddr,
			Handler:           handler.NewServeMux(h, a.logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("http server starting", "addr", a.cfg.ListenAddr, "username", a.cfg.Username)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server error: %w", err)
			}
		case <-ctx.Done():
		}
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown error: %w", err)
		}
		a.logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides CONTRIB_LISTEN_ADDR)")
}
