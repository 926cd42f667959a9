package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/servctl/internal/bridge"
	"github.com/rickgao/servctl/internal/config"
	"github.com/rickgao/servctl/internal/connection"
	"github.com/rickgao/servctl/internal/database"
	"github.com/rickgao/servctl/internal/dispatch"
	"github.com/rickgao/servctl/internal/health"
	"github.com/rickgao/servctl/internal/logging"
	"github.com/rickgao/servctl/internal/process"
	"github.com/rickgao/servctl/internal/recorder"
	"github.com/rickgao/servctl/internal/registry"
	"github.com/rickgao/servctl/internal/version"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the websocket control server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadAndValidate(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting servctl",
		"version", version.Version,
		"commit", version.Commit,
		"instance_id", cfg.Instance.ID,
		"sessions", cfg.SessionNames(),
	)

	if cfg.Server.AuthToken == "" {
		logger.Warn("server.auth_token is not set, any client can connect")
	}
	if cfg.RestartScript == "" {
		logger.Warn("restart_script is not set, RESTART will be refused")
	}

	// Optional health sample recorder
	var snapshots health.SnapshotHandler
	if cfg.Database.Enabled() {
		logger.Info("connecting to database",
			"host", cfg.Database.Timescale.Host,
			"port", cfg.Database.Timescale.Port,
			"database", cfg.Database.Timescale.Name,
		)

		pool, err := database.Connect(ctx, cfg.Database.Timescale)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := recorder.EnsureSchema(ctx, pool); err != nil {
			return err
		}

		writer := recorder.NewSnapshotWriter(recorder.WriterConfig{
			InstanceID:    cfg.Instance.ID,
			BatchSize:     cfg.Recorder.BatchSize,
			FlushInterval: cfg.Recorder.FlushInterval,
		}, pool, logger)
		if err := writer.Start(ctx); err != nil {
			return fmt.Errorf("start recorder: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			writer.Stop(stopCtx)
		}()
		snapshots = writer
	}

	sampler := health.NewSampler(health.Config{Interval: cfg.Health.Interval}, health.NewSystemSource(), snapshots, logger)
	if err := sampler.Start(ctx); err != nil {
		return fmt.Errorf("start health sampler: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sampler.Stop(stopCtx); err != nil {
			logger.Warn("health sampler stop", "error", err)
		}
	}()

	launcher := process.NewExec(logger)

	sessions := make([]bridge.Session, len(cfg.Sessions))
	for i, s := range cfg.Sessions {
		sessions[i] = bridge.Session{Name: s.Name, Target: s.Target}
	}
	tmux := bridge.NewTmux(bridge.Config{
		TmuxPath: cfg.Bridge.TmuxPath,
		Sessions: sessions,
	}, launcher, logger)

	dispatcher := dispatch.New(dispatch.Config{
		Sessions:         cfg.SessionNames(),
		RestartScript:    cfg.RestartScript,
		DisabledCommands: cfg.Dispatch.DisabledCommands,
	}, tmux, launcher, sampler, logger)

	reg := registry.New()
	handler := connection.NewHandler(connection.Config{
		AuthToken:    cfg.Server.AuthToken,
		WriteTimeout: cfg.Server.WriteTimeout,
		PingInterval: cfg.Server.PingInterval,
		PongTimeout:  cfg.Server.PongTimeout,
		ReadLimit:    cfg.Server.ReadLimit,
	}, reg, dispatcher, logger)

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, handler)
	mux.Handle(cfg.Server.HealthPath, newHealthHandler(cfg.Instance.ID, sampler, reg))

	g, gctx := errgroup.WithContext(ctx)

	// Connection handlers observe gctx, so shutdown also closes upgraded sockets.
	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		logger.Info("listening",
			"addr", cfg.Server.ListenAddr,
			"ws_path", cfg.Server.Path,
			"health_path", cfg.Server.HealthPath,
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", cfg.Server.ListenAddr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...", "clients", reg.Len())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("servctl stopped")
	return nil
}
