package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/shortcutter"
	"github.com/aretw0/shortcutter/internal/presentation/tui"
	httpadapter "github.com/aretw0/shortcutter/pkg/adapters/http"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/observability"
	"github.com/aretw0/shortcutter/pkg/runner"
)

const shutdownTimeout = 5 * time.Second

// Run starts the runner against the configured store and blocks until ctx
// is done or the process receives SIGINT/SIGTERM.
func Run(ctx context.Context, opts RunOptions, out io.Writer) error {
	cfg, err := LoadConfig(opts.Options)
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.HTTP.Listen = opts.Listen
	}
	logger := NewLogger(cfg)

	backend, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	streams := httpadapter.NewStreamManager()
	metrics := observability.NewMetrics()

	engineOpts := engineOptions(cfg, backend, logger)
	engineOpts = append(engineOpts,
		shortcutter.WithIndicator(runner.LogIndicator(logger)),
		shortcutter.WithIndicator(metrics.Indicator()),
		shortcutter.WithIndicator(streams.Indicator()),
		shortcutter.WithLifecycleHooks(metrics.Hooks()),
		shortcutter.WithLifecycleHooks(streams.Hooks()),
	)
	if opts.DryRun {
		logger.Info("Dry run: using in-memory keyboard, pointer and screen")
		engineOpts = append(engineOpts, dryRunPlatform())
	}

	eng, err := shortcutter.New(cfg.DataDir, engineOpts...)
	if err != nil {
		return err
	}
	defer eng.Close()

	if !opts.Quiet {
		tui.PrintBanner(out, shortcutter.Version)
	}

	var srv *http.Server
	if cfg.HTTP.Listen != "" {
		serverOpts := []httpadapter.Option{httpadapter.WithLogger(logger), httpadapter.WithStreams(streams)}
		if cfg.HTTP.Metrics {
			serverOpts = append(serverOpts, httpadapter.WithMetrics(metrics.Handler()))
		}
		if cfg.HTTP.TriggerRate > 0 {
			serverOpts = append(serverOpts, httpadapter.WithTriggerLimit(cfg.HTTP.TriggerRate, cfg.HTTP.TriggerBurst))
		}
		srv, err = serve(cfg.HTTP.Listen, httpadapter.NewServer(eng.Controller(), serverOpts...).Handler(), logger)
		if err != nil {
			return err
		}
		if !opts.Quiet {
			fmt.Fprintf(out, "Control API on http://%s\n", srv.Addr)
		}
	}

	runErr := eng.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			_ = srv.Close()
		}
	}
	if !opts.Quiet {
		fmt.Fprintln(out, tui.StatusLine(domain.StatusStopped))
	}
	return runErr
}

// serve binds addr before returning so address errors surface synchronously.
func serve(addr string, handler http.Handler, logger *slog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()
	return srv, nil
}
