// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/logging"
	"github.com/holomush/simcord/internal/xdg"
)

// Default values for flags.
const (
	defaultLogFormat = "json"
	defaultLogLevel  = "info"
)

// config is the merged configuration: defaults, then the config file, then
// flags that were set explicitly.
type config struct {
	Seed        string         `koanf:"seed"`
	User        uint64         `koanf:"user"`
	Intents     []string       `koanf:"intents"`
	Epoch       string         `koanf:"epoch"`
	MetricsAddr string         `koanf:"metrics_addr"`
	Log         logging.Config `koanf:"log"`
}

// flagKey maps a flag name to its config key: "log-format" is "log.format",
// "metrics-addr" is "metrics_addr".
func flagKey(name string) string {
	if rest, ok := strings.CutPrefix(name, "log-"); ok {
		return "log." + rest
	}
	return strings.ReplaceAll(name, "-", "_")
}

// loadConfig merges the config file named by --config, or the default
// config file when it exists, with the command's flags.
func loadConfig(cmd *cobra.Command) (*config, error) {
	k := koanf.New(".")

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, oops.Code("CONFIG_FLAG_INVALID").Wrap(err)
	}
	if path == "" {
		if def, ok := xdg.DefaultConfigFile(); ok {
			path = def
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	provider := posflag.ProviderWithFlag(cmd.Flags(), ".", k, func(f *pflag.Flag) (string, any) {
		if f.Name == "config" || f.Name == "help" {
			return "", nil
		}
		return flagKey(f.Name), posflag.FlagVal(cmd.Flags(), f)
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, oops.Code("CONFIG_FLAGS_INVALID").Wrap(err)
	}

	var cfg config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_DECODE_FAILED").Wrap(err)
	}
	return &cfg, nil
}

// intents resolves the configured intent names. None configured means all.
func (c *config) intents() (gateway.Intents, error) {
	if len(c.Intents) == 0 {
		return gateway.IntentsAll, nil
	}
	intents, unknown := gateway.ParseIntents(c.Intents)
	if len(unknown) > 0 {
		return 0, oops.Code("CONFIG_INTENTS_INVALID").
			With("unknown", unknown).
			Errorf("unknown intents: %s", strings.Join(unknown, ", "))
	}
	return intents, nil
}

// clock returns a fixed clock at the configured epoch, or nil for wall time.
func (c *config) clock() (func() time.Time, error) {
	if c.Epoch == "" {
		return nil, nil
	}
	epoch, err := time.Parse(time.RFC3339, c.Epoch)
	if err != nil {
		return nil, oops.Code("CONFIG_EPOCH_INVALID").With("epoch", c.Epoch).Wrap(err)
	}
	return func() time.Time { return epoch }, nil
}

func (c *config) user() snowflake.ID {
	return snowflake.ID(c.User)
}

// logger builds the logger and sets it as the process default.
func (c *config) logger(w io.Writer) (*slog.Logger, io.Closer, error) {
	logger, closer, err := logging.Setup("simcord", version, c.Log, w)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}
