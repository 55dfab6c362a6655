// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package xdg provides XDG Base Directory paths for simcord.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "simcord"

// ConfigDir returns the simcord config directory. XDG_CONFIG_HOME is
// checked first, then ~/.config.
func ConfigDir() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, appName), nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", oops.Code("XDG_HOME_UNSET").Errorf("neither XDG_CONFIG_HOME nor HOME is set")
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultConfigFile returns the path of the config file read when no
// --config flag is given, and whether that file exists.
func DefaultConfigFile() (string, bool) {
	dir, err := ConfigDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(dir, "config.yaml")
	info, err := os.Stat(path)
	return path, err == nil && !info.IsDir()
}
