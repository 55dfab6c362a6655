// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/simcord/pkg/backend"
	"github.com/holomush/simcord/pkg/errutil"
)

// NewValidateSeedCmd creates the validate-seed subcommand.
func NewValidateSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seed FILE...",
		Short: "Validate seed documents without replaying anything",
		Long: `Parses each seed document, checks it against the seed schema and
builds a backend from it, so references between entities are checked too.
Exits with code 0 when every document is valid.

Useful in CI pipelines to catch seed errors early:
  simcord validate-seed testdata/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runValidateSeed(cmd, cfg, args)
		},
	}
}

func runValidateSeed(cmd *cobra.Command, cfg *config, paths []string) error {
	logger, closer, err := cfg.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	failed := 0
	for _, path := range paths {
		if _, err := backend.Load(path, backend.WithLogger(logger)); err != nil {
			errutil.LogError(cmd.Context(), logger, "seed invalid", err, "path", path)
			cmd.PrintErrf("%s: %v\n", path, err)
			failed++
			continue
		}
		cmd.Printf("%s: ok\n", path)
	}

	if failed > 0 {
		return oops.Code("SEED_VALIDATION_FAILED").
			With("failed", failed).
			Errorf("validation failed: %d of %d seed documents invalid", failed, len(paths))
	}
	logger.Info("all seed documents valid", "count", len(paths))
	return nil
}
