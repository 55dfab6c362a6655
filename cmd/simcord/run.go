// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/simcord/internal/observability"
	"github.com/holomush/simcord/pkg/backend"
	"github.com/holomush/simcord/pkg/errutil"
)

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Replay a request script against a seeded backend",
		Long: `Seeds a backend, replays every step of SCRIPT against it and prints each
response, error and gateway event as a JSON line on stdout.

A step fails the run when its outcome differs from its expect field (OK by
default, or a catalog error name such as MISSING_ACCESS).

With --metrics-addr, Prometheus metrics and health probes are served until
the process is interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runScenario(cmd, cfg, args[0])
		},
	}

	cmd.Flags().String("seed", "", "seed document (default: an empty backend)")
	cmd.Flags().Uint64("user", 0, "session user id (default: the first application's bot)")
	cmd.Flags().StringSlice("intents", nil, "gateway intents the session holds (default: all)")
	cmd.Flags().String("epoch", "", "freeze the clock at this RFC 3339 time")
	cmd.Flags().String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")

	return cmd
}

func runScenario(cmd *cobra.Command, cfg *config, scriptPath string) error {
	logger, closer, err := cfg.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := loadScript(scriptPath)
	if err != nil {
		errutil.LogError(ctx, logger, "script rejected", err)
		return err
	}
	intents, err := cfg.intents()
	if err != nil {
		return err
	}
	clock, err := cfg.clock()
	if err != nil {
		return err
	}

	out := newOutput(cmd.OutOrStdout())
	opts := []backend.Option{
		backend.WithSink(out),
		backend.WithIntents(intents),
		backend.WithLogger(logger),
	}
	if clock != nil {
		opts = append(opts, backend.WithClock(clock))
	}
	if cfg.User != 0 {
		opts = append(opts, backend.WithUser(cfg.user()))
	}

	var ready atomic.Bool
	var metrics *observability.Metrics
	var server *observability.Server
	if cfg.MetricsAddr != "" {
		server = observability.NewServer(cfg.MetricsAddr, ready.Load, backend.RegisterMetrics)
		if _, err := server.Start(); err != nil {
			return oops.Code("METRICS_START_FAILED").With("addr", cfg.MetricsAddr).Wrap(err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Stop(shutdownCtx); err != nil {
				errutil.LogError(shutdownCtx, logger, "metrics server stop failed", err)
			}
		}()
		metrics = server.Metrics()
	}

	b, err := newBackend(cfg, opts)
	if err != nil {
		errutil.LogError(ctx, logger, "seed rejected", err)
		return err
	}

	mismatched := replay(ctx, b, s, out, metrics)
	ready.Store(true)
	logger.InfoContext(ctx, "script replayed",
		"steps", len(s.Steps),
		"mismatched", mismatched,
	)
	if out.err != nil {
		return out.err
	}

	if server != nil {
		logger.InfoContext(ctx, "serving metrics until interrupted", "addr", server.Addr())
		<-ctx.Done()
	}

	if mismatched > 0 {
		return oops.Code("SCRIPT_MISMATCH").
			With("mismatched", mismatched).
			Errorf("%d of %d steps did not match their expectation", mismatched, len(s.Steps))
	}
	return nil
}

func newBackend(cfg *config, opts []backend.Option) (*backend.Backend, error) {
	if cfg.Seed == "" {
		return backend.New(backend.StoreSpec{}, opts...)
	}
	return backend.Load(cfg.Seed, opts...)
}
