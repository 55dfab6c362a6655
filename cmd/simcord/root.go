// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the simcord CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simcord",
		Short: "simcord - an in-process chat backend simulator",
		Long: `simcord seeds an in-memory chat backend from a YAML document and
replays scripted REST-shaped requests against it, printing every response
and gateway event as a JSON line.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file path")
	cmd.PersistentFlags().String("log-format", defaultLogFormat, "log format (json or text)")
	cmd.PersistentFlags().String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-file", "", "also write JSON logs to this file")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewValidateSeedCmd())
	cmd.AddCommand(NewGenSchemaCmd())

	return cmd
}
