// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/observability"
	"github.com/holomush/simcord/pkg/backend"
	"github.com/holomush/simcord/pkg/errutil"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeLines(t *testing.T, out string) []line {
	t.Helper()
	var lines []line
	for _, raw := range strings.Split(strings.TrimSpace(out), "\n") {
		if raw == "" {
			continue
		}
		var l line
		require.NoError(t, json.Unmarshal([]byte(raw), &l), raw)
		lines = append(lines, l)
	}
	return lines
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"run", "validate-seed", "gen-schema"} {
		assert.Contains(t, out, sub, "help missing %q command", sub)
	}
}

func TestFlagKey(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{flag: "seed", want: "seed"},
		{flag: "log-format", want: "log.format"},
		{flag: "log-file", want: "log.file"},
		{flag: "metrics-addr", want: "metrics_addr"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, flagKey(tt.flag))
		})
	}
}

// parsedRun returns the run command with args parsed but not executed.
func parsedRun(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := NewRootCmd()
	run, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	require.NoError(t, run.ParseFlags(args))
	return run
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	cfg, err := loadConfig(parsedRun(t, "--config", "testdata/config.yaml", "--log-level", "debug"))
	require.NoError(t, err)

	assert.Equal(t, "testdata/seed.yaml", cfg.Seed)
	assert.Equal(t, []string{"GUILDS"}, cfg.Intents)
	assert.Equal(t, "text", cfg.Log.Format, "file value kept when the flag is not set")
	assert.Equal(t, "debug", cfg.Log.Level, "explicit flag overrides the file")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(parsedRun(t))
	require.NoError(t, err)

	assert.Empty(t, cfg.Seed)
	assert.Equal(t, defaultLogFormat, cfg.Log.Format)
	assert.Equal(t, defaultLogLevel, cfg.Log.Level)

	intents, err := cfg.intents()
	require.NoError(t, err)
	assert.Equal(t, gateway.IntentsAll, intents)

	clock, err := cfg.clock()
	require.NoError(t, err)
	assert.Nil(t, clock)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(parsedRun(t, "--config", "testdata/nope.yaml"))
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}

func TestLoadConfig_DefaultFile(t *testing.T) {
	run := parsedRun(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "simcord")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("seed: default.yaml\n"), 0o600))

	cfg, err := loadConfig(run)
	require.NoError(t, err)
	assert.Equal(t, "default.yaml", cfg.Seed)
}

func TestConfig_Errors(t *testing.T) {
	_, err := (&config{Intents: []string{"GUILDS", "TELEPATHY"}}).intents()
	errutil.AssertErrorCode(t, err, "CONFIG_INTENTS_INVALID")

	_, err = (&config{Epoch: "yesterday"}).clock()
	errutil.AssertErrorCode(t, err, "CONFIG_EPOCH_INVALID")
}

func TestConfig_Epoch(t *testing.T) {
	clock, err := (&config{Epoch: "2026-03-01T12:00:00Z"}).clock()
	require.NoError(t, err)
	require.NotNil(t, clock)
	assert.Equal(t, 2026, clock().Year())
}

func TestLoadScript(t *testing.T) {
	s, err := loadScript("testdata/ok.yaml")
	require.NoError(t, err)
	require.Len(t, s.Steps, 4)

	assert.True(t, s.Steps[0].Connect)
	assert.Equal(t, "POST", s.Steps[1].Method, "method is upper-cased")
	assert.Equal(t, "POST channels/300/messages", s.Steps[1].Name, "name defaults to the request")
	assert.Equal(t, expectOK, s.Steps[1].Expect)
	assert.Equal(t, "MISSING_ACCESS", s.Steps[2].Expect)
}

func TestLoadScript_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
		return path
	}

	tests := []struct {
		name string
		path string
		code string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.yaml"), code: "SCRIPT_READ_FAILED"},
		{name: "bad yaml", path: write("bad.yaml", "steps: [\n"), code: "SCRIPT_INVALID"},
		{name: "no path", path: write("nopath.yaml", "steps:\n  - method: GET\n"), code: "SCRIPT_STEP_INVALID"},
		{name: "no method", path: write("nomethod.yaml", "steps:\n  - path: users/@me\n"), code: "SCRIPT_STEP_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadScript(tt.path)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestReplay_RecordsOutcomes(t *testing.T) {
	buf := new(bytes.Buffer)
	out := newOutput(buf)
	b, err := backend.Load("testdata/seed.yaml", backend.WithSink(out))
	require.NoError(t, err)
	s, err := loadScript("testdata/ok.yaml")
	require.NoError(t, err)

	srv := observability.NewServer("127.0.0.1:0", func() bool { return true })
	metrics := srv.Metrics()

	assert.Zero(t, replay(t.Context(), b, s, out, metrics))
	require.NoError(t, out.err)

	lines := decodeLines(t, buf.String())
	var types, events []string
	for _, l := range lines {
		types = append(types, l.Type)
		if l.Type == "event" {
			events = append(events, l.Name)
		}
	}
	assert.Equal(t, []string{"READY", "GUILD_CREATE", "MESSAGE_CREATE"}, events)
	assert.NotContains(t, types, "mismatch")
	assert.Contains(t, types, "error")
}

func TestReplay_UnknownMethod(t *testing.T) {
	buf := new(bytes.Buffer)
	out := newOutput(buf)
	b, err := backend.Load("testdata/seed.yaml")
	require.NoError(t, err)

	s := &script{Steps: []step{{Name: "brew", Method: "BREW", Path: "users/@me", Expect: expectOK}}}
	assert.Equal(t, 1, replay(t.Context(), b, s, out, nil))

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 2)
	assert.Equal(t, "error", lines[0].Type)
	assert.Equal(t, "mismatch", lines[1].Type)
}

func TestRunCmd(t *testing.T) {
	stdout, _, err := execute(t, "run",
		"--seed", "testdata/seed.yaml",
		"--epoch", "2026-03-01T12:00:00Z",
		"--log-level", "error",
		"testdata/ok.yaml",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"type":"response"`)
	assert.Contains(t, stdout, `"name":"MESSAGE_CREATE"`)
}

func TestRunCmd_IntentsFilterEvents(t *testing.T) {
	stdout, _, err := execute(t, "run",
		"--seed", "testdata/seed.yaml",
		"--intents", "GUILDS",
		"--log-level", "error",
		"testdata/ok.yaml",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"name":"GUILD_CREATE"`)
	assert.NotContains(t, stdout, `"name":"MESSAGE_CREATE"`)
}

func TestRunCmd_Mismatch(t *testing.T) {
	stdout, _, err := execute(t, "run", "--seed", "testdata/seed.yaml", "--log-level", "error", "testdata/mismatch.yaml")
	errutil.AssertErrorCode(t, err, "SCRIPT_MISMATCH")
	assert.Contains(t, stdout, `"type":"mismatch"`)
	assert.Contains(t, stdout, `"got":"MISSING_ACCESS"`)
}

func TestRunCmd_BadSeed(t *testing.T) {
	_, _, err := execute(t, "run", "--seed", "testdata/bad_seed.yaml", "--log-level", "error", "testdata/ok.yaml")
	errutil.AssertErrorCode(t, err, "SEED_SCHEMA_INVALID")
}

func TestValidateSeedCmd(t *testing.T) {
	stdout, _, err := execute(t, "validate-seed", "--log-level", "error", "testdata/seed.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "testdata/seed.yaml: ok")
}

func TestValidateSeedCmd_ReportsEveryFailure(t *testing.T) {
	stdout, stderr, err := execute(t, "validate-seed", "--log-level", "error",
		"testdata/seed.yaml", "testdata/bad_seed.yaml", "testdata/missing.yaml")
	errutil.AssertErrorCode(t, err, "SEED_VALIDATION_FAILED")
	errutil.AssertErrorContext(t, err, "failed", 2)
	assert.Contains(t, stdout, "testdata/seed.yaml: ok")
	assert.Contains(t, stderr, "testdata/bad_seed.yaml:")
	assert.Contains(t, stderr, "testdata/missing.yaml:")
}

func TestGenSchemaCmd(t *testing.T) {
	stdout, _, err := execute(t, "gen-schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Contains(t, schema, "properties")
}

func TestGenSchemaCmd_Out(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemas", "seed.schema.json")
	stdout, _, err := execute(t, "gen-schema", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
