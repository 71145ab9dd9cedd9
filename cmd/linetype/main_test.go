package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/linetype/internal/config"
	"github.com/verte-zerg/linetype/internal/model"
	"github.com/verte-zerg/linetype/internal/tui"
)

func TestRootCmdRequiresOneFile(t *testing.T) {
	for _, args := range [][]string{{}, {"a.txt", "b.txt"}} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(os.Stderr)
		cmd.SetErr(os.Stderr)
		assert.Error(t, cmd.Execute(), "args %v", args)
	}
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--width", "40"}))

	width := 40
	bell := true
	fileWidth := 60
	fileBell := false
	applyIntConfig(cmd, "width", &width, &fileWidth)
	applyBoolConfig(cmd, "bell", &bell, &fileBell)
	assert.Equal(t, 40, width)
	assert.False(t, bell)

	applyIntConfig(cmd, "width", &width, nil)
	assert.Equal(t, 40, width)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, validateConfig(model.Config{Path: "x.txt", Width: 80}))
	assert.Error(t, validateConfig(model.Config{Path: "x.txt", Width: 0}))
	assert.Error(t, validateConfig(model.Config{Width: 80}))
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	_, err := toml.Decode(defaultConfigTemplate(), &cfg)
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Width)
}

func TestEnsureConfigFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linetype", "config.toml")
	require.NoError(t, ensureConfigFile(path))
	created, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigTemplate(), string(created))

	require.NoError(t, os.WriteFile(path, []byte("[practice]\nwidth = 70\n"), 0o644))
	require.NoError(t, ensureConfigFile(path))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Width)
	assert.Equal(t, 70, *cfg.Practice.Width)
}

func TestSetupLoggingDiscardsWithoutPath(t *testing.T) {
	closeLog, err := setupLogging("")
	require.NoError(t, err)
	closeLog()

	path := filepath.Join(t.TempDir(), "debug.log")
	closeLog, err = setupLogging(path)
	require.NoError(t, err)
	closeLog()
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, exitInterrupted, exitCode(tui.ErrInterrupted))
	assert.Equal(t, exitInterrupted, exitCode(fmt.Errorf("session: %w", tui.ErrInterrupted)))
	assert.Equal(t, 1, exitCode(errors.New("failed to open text")))
}

func TestEnsureConfigFileLeavesBrokenConfigForEditing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	broken := "[practice]\nwpm = 30\n"
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	require.NoError(t, ensureConfigFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, broken, string(data))
}
