// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/holomush/cmdbind/internal/command"
	"github.com/holomush/cmdbind/internal/command/handlers"
	"github.com/holomush/cmdbind/internal/config"
	"github.com/holomush/cmdbind/internal/logging"
	"github.com/holomush/cmdbind/internal/observability"
	"github.com/holomush/cmdbind/internal/script"
	"github.com/holomush/cmdbind/internal/xdg"
)

// shutdownTimeout bounds observability server shutdown.
const shutdownTimeout = 5 * time.Second

// app is the wired command stack shared by the console and exec commands.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	registry   *command.Registry
	host       *script.Host
	dispatcher *command.Dispatcher
	limiter    *command.RateLimiter
	obs        *observability.Server
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// configPath returns the --config path, or the default config file if the
// flag is empty and that file exists.
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return xdg.DefaultConfigFile()
}

// loadConfig reads the config file and flags of cmd and sets up logging.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, err := configPath()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to locate config file: %w", err)
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := logging.SetDefault("cmdbind", version, cfg.LogFormat, cfg.Level(), cmd.ErrOrStderr())
	return cfg, logger, nil
}

// engineVersion returns the build version for pack engine checks, or nil
// for development builds.
func engineVersion() *semver.Version {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil
	}
	return v
}

// newApp loads configuration, registers built-in commands, loads command
// packs and starts the observability server if one is configured.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	if cfg.MetricsAddr != "" {
		a.obs = observability.NewServer(cfg.MetricsAddr, a.ready.Load)
		a.metrics = a.obs.Metrics()
	} else {
		a.metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	a.registry = command.NewRegistry()
	handlers.RegisterAll(a.registry)

	a.host = script.NewHost(a.registry,
		script.WithEngineVersion(engineVersion()),
		script.WithLogger(logger),
		script.WithPacksGauge(a.metrics.PacksLoaded),
	)
	if loaded := a.host.LoadAll(ctx, cfg.Scripts); loaded < len(cfg.Scripts) {
		logger.WarnContext(ctx, "some command packs failed to load",
			"loaded", loaded,
			"configured", len(cfg.Scripts))
	}

	opts := []command.DispatcherOption{
		command.WithPrefix(cfg.Prefix),
		command.WithLogger(logger),
	}
	if cfg.RateLimit.Enabled {
		rlCfg := cfg.RateLimiterConfig()
		if a.obs != nil {
			rlCfg.Registerer = a.obs.Registerer()
		}
		a.limiter = command.NewRateLimiter(rlCfg)
		opts = append(opts, command.WithRateLimiter(a.limiter))
	}

	a.dispatcher, err = command.NewDispatcher(a.registry, opts...)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	if a.obs != nil {
		errCh, err := a.obs.Start()
		if err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("failed to start observability server: %w", err)
		}
		go monitorServerErrors(ctx, errCh)
	}

	a.ready.Store(true)
	return a, nil
}

// dispatch runs line as sender, reporting any failure to the sender.
// It returns the dispatch error.
func (a *app) dispatch(ctx context.Context, source string, sender command.Sender, line string) error {
	a.metrics.LinesTotal.WithLabelValues(source).Inc()

	err := a.dispatcher.Dispatch(ctx, sender, line)
	if err != nil {
		sender.SendMessage(command.Message(err))
	}
	return err
}

// newSender returns a player sender named as, or the console sender when as
// is empty.
func newSender(as string, w io.Writer) command.Sender {
	if as == "" {
		return command.NewConsoleSender(w)
	}
	return command.NewWriterSender(as, true, w)
}

// close unloads packs and stops background services.
func (a *app) close(ctx context.Context) {
	a.ready.Store(false)

	if a.host != nil {
		if err := a.host.Close(ctx); err != nil {
			a.logger.WarnContext(ctx, "error closing script host", "error", err)
		}
	}
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.obs != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.obs.Stop(shutdownCtx); err != nil {
			a.logger.WarnContext(ctx, "error stopping observability server", "error", err)
		}
	}
}

// monitorServerErrors logs a failure of the observability server.
func monitorServerErrors(ctx context.Context, errCh <-chan error) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "observability server error", "error", err)
		}
	case <-ctx.Done():
	}
}
