// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/simcord/internal/seed"
)

// NewGenSchemaCmd creates the gen-schema subcommand.
func NewGenSchemaCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "gen-schema",
		Short: "Write the seed document JSON Schema",
		Long: `Writes the JSON Schema that seed documents are validated against, for
editor completion and external validation. Without --out the schema is
printed on stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := seed.GenerateSchema()
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err := cmd.OutOrStdout().Write(append(schema, '\n'))
				return oops.Wrap(err)
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
				return oops.Code("SCHEMA_WRITE_FAILED").With("path", outPath).Wrap(err)
			}
			if err := os.WriteFile(outPath, schema, 0o600); err != nil {
				return oops.Code("SCHEMA_WRITE_FAILED").With("path", outPath).Wrap(err)
			}
			cmd.Printf("Generated %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file")
	return cmd
}
