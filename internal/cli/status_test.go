// Package cli — status_test.go tests the read-only environment
// inspection logic used by the status and doctor commands.
package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/venvctl/internal/config"
	"github.com/mmr-tortoise/venvctl/internal/model"
	"github.com/mmr-tortoise/venvctl/internal/state"
	"github.com/mmr-tortoise/venvctl/internal/venv"
)

// provisionedDir lays down a fake provisioned environment: pyvenv.cfg
// marker plus a venvctl.yml manifest recording the given version.
func provisionedDir(t *testing.T, parent, pythonVersion string) string {
	t.Helper()

	envPath := filepath.Join(parent, ".venv")
	require.NoError(t, os.MkdirAll(envPath, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(envPath, venv.CfgFile), []byte("version = "+pythonVersion+"\n"), 0644))

	m := &state.Manifest{
		Name:          "proj",
		PythonVersion: pythonVersion,
		PythonPath:    "/usr/bin/python3.9",
		WorkspaceRoot: parent,
		Tools:         []state.ToolRecord{{Name: "pip-tools", Version: "7.4.1"}},
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, state.Write(envPath, m))
	return envPath
}

// TestInspectEnvironmentMissing verifies the missing state for an absent
// environment directory.
func TestInspectEnvironmentMissing(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{PythonVersion: "3.9", EnvDir: ".venv", Prompt: "proj"}

	env := inspectEnvironment(root, cfg.EnvPath(root), cfg)
	assert.Equal(t, model.StatusMissing, env.Status)
}

// TestInspectEnvironmentBroken verifies the broken state for a directory
// that is not a venv, and for a venv with no manifest.
func TestInspectEnvironmentBroken(t *testing.T) {
	cfg := &config.Config{PythonVersion: "3.9", EnvDir: ".venv", Prompt: "proj"}

	t.Run("not a venv", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, ".venv"), 0755))

		env := inspectEnvironment(root, cfg.EnvPath(root), cfg)
		assert.Equal(t, model.StatusBroken, env.Status)
	})

	t.Run("venv without manifest", func(t *testing.T) {
		root := t.TempDir()
		envPath := filepath.Join(root, ".venv")
		require.NoError(t, os.Mkdir(envPath, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(envPath, venv.CfgFile), []byte("version = 3.9.18\n"), 0644))

		env := inspectEnvironment(root, cfg.EnvPath(root), cfg)
		assert.Equal(t, model.StatusBroken, env.Status)
	})
}

// TestInspectEnvironmentReady verifies the ready state and that manifest
// fields are surfaced on the reconstructed Venv.
func TestInspectEnvironmentReady(t *testing.T) {
	root := t.TempDir()
	envPath := provisionedDir(t, root, "3.9.18")
	cfg := &config.Config{PythonVersion: "3.9", EnvDir: ".venv", Prompt: "other"}

	env := inspectEnvironment(root, envPath, cfg)

	assert.Equal(t, model.StatusReady, env.Status)
	assert.Equal(t, "proj", env.Name, "name comes from the manifest, not the config")
	assert.Equal(t, "3.9.18", env.PythonVersion)
	require.Len(t, env.Tools, 1)
	assert.Equal(t, "pip-tools==7.4.1", env.Tools[0].String())
}

// TestInspectEnvironmentStale verifies the stale state when the config
// pin moves away from the provisioned version.
func TestInspectEnvironmentStale(t *testing.T) {
	root := t.TempDir()
	envPath := provisionedDir(t, root, "3.9.18")
	cfg := &config.Config{PythonVersion: "3.12", EnvDir: ".venv", Prompt: "proj"}

	env := inspectEnvironment(root, envPath, cfg)
	assert.Equal(t, model.StatusStale, env.Status)
}

// TestClassifyProvisioned verifies version pin satisfaction rules.
func TestClassifyProvisioned(t *testing.T) {
	tests := []struct {
		name       string
		recorded   string
		configured string
		want       model.EnvStatus
	}{
		{name: "exact match", recorded: "3.9.18", configured: "3.9.18", want: model.StatusReady},
		{name: "minor pin matches patch", recorded: "3.9.18", configured: "3.9", want: model.StatusReady},
		{name: "different minor", recorded: "3.9.18", configured: "3.12", want: model.StatusStale},
		{name: "prefix but not component", recorded: "3.19.0", configured: "3.9", want: model.StatusStale},
		{name: "patch pin mismatch", recorded: "3.9.18", configured: "3.9.17", want: model.StatusStale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyProvisioned(tt.recorded, tt.configured))
		})
	}
}
