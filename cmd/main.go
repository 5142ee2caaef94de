package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukydev/instrument-calibration/internal/config"
	"github.com/ukydev/instrument-calibration/internal/db"
	"github.com/ukydev/instrument-calibration/internal/handlers"
	"github.com/ukydev/instrument-calibration/internal/middleware"
	"github.com/ukydev/instrument-calibration/internal/notify"
)

var (
	envFile  string
	port     string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "instrument-calibration",
	Short: "Instrument calibration dashboard",
	Long: `Serves the instrument calibration dashboard: overview charts, the registration
form, the calibration list and the maintenance history, plus a read-only JSON API.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg, cfg.NewLogger())
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file to load")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run serves until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	handler, err := newHandler(cfg, logger)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	return serve(ctx, ln, handler, cfg, logger)
}

func newHandler(cfg config.Config, logger *log.Logger) (http.Handler, error) {
	catalog, err := db.LoadCatalog(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	h := handlers.NewHandler(catalog, notify.NewLogNotifier(logger), logger, cfg.ExternalSystemURL)
	return middleware.Chain(h.Routes(),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recover(logger),
	), nil
}

func serve(ctx context.Context, ln net.Listener, handler http.Handler, cfg config.Config, logger *log.Logger) error {
	srv := &http.Server{
		Handler:     handler,
		ReadTimeout: cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", ln.Addr().String()).Info("HTTP server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
