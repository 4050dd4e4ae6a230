// Package cli — status.go implements the "venvctl status" command.
//
// Status reconstructs the environment's state from the filesystem: the
// environment directory, its pyvenv.cfg marker, and the venvctl.yml
// manifest written at provision time. Nothing is mutated.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvctl/internal/config"
	"github.com/mmr-tortoise/venvctl/internal/model"
	"github.com/mmr-tortoise/venvctl/internal/state"
	"github.com/mmr-tortoise/venvctl/internal/venv"
)

// NewStatusCommand creates the "status" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the project's virtual environment",
		Long: `Show the state of the project's virtual environment.

States:
  ready    environment exists and matches the configured Python version
  stale    environment exists but was built with a different Python version
  broken   environment directory exists but is not a usable venv
  missing  no environment directory

Examples:
  venvctl status
  venvctl status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}

	return cmd
}

// runStatus is the main logic function for the status command.
func runStatus() error {
	root, err := config.ResolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	envPath := cfg.EnvPath(root)

	env := inspectEnvironment(root, envPath, cfg)
	printStatusResult(env, cfg)
	return nil
}

// inspectEnvironment reconstructs a Venv from the filesystem. It never
// fails: anything unreadable degrades to the broken status rather than
// aborting, because status is a read-only diagnostic.
func inspectEnvironment(root, envPath string, cfg *config.Config) *model.Venv {
	env := &model.Venv{
		Name:          cfg.Prompt,
		Path:          envPath,
		WorkspaceRoot: root,
		PythonVersion: cfg.PythonVersion,
	}

	if !venv.DirPresent(envPath) {
		env.Status = model.StatusMissing
		return env
	}

	if !venv.Exists(envPath) {
		// Something occupies the path but it is not a venv.
		env.Status = model.StatusBroken
		return env
	}

	manifest, err := state.Read(envPath)
	if err != nil {
		// A venv without a readable manifest was not provisioned by us
		// (or the manifest was damaged). It may well work, but we cannot
		// vouch for its version pin.
		VerboseLog("No readable manifest: %v", err)
		env.Status = model.StatusBroken
		return env
	}

	env.Name = manifest.Name
	env.PythonVersion = manifest.PythonVersion
	env.PythonPath = manifest.PythonPath
	env.Tools = manifest.ToolInstalls()
	env.CreatedAt = manifest.CreatedAt
	env.Status = classifyProvisioned(manifest.PythonVersion, cfg.PythonVersion)
	return env
}

// classifyProvisioned decides ready vs stale for an environment with a
// readable manifest: the recorded interpreter version must satisfy the
// configured pin. The pin may be major.minor ("3.9") while the manifest
// records the full version ("3.9.18").
func classifyProvisioned(recordedVersion, configuredVersion string) model.EnvStatus {
	if recordedVersion == configuredVersion {
		return model.StatusReady
	}
	if len(configuredVersion) < len(recordedVersion) &&
		recordedVersion[:len(configuredVersion)] == configuredVersion &&
		recordedVersion[len(configuredVersion)] == '.' {
		return model.StatusReady
	}
	return model.StatusStale
}

// printStatusResult outputs the status in text or JSON format.
func printStatusResult(env *model.Venv, cfg *config.Config) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(env, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Environment: %s\n", env.Path)
	fmt.Printf("  Status:  %s\n", env.Status)

	switch env.Status {
	case model.StatusMissing:
		fmt.Printf("  Run `venvctl provision` to create it (Python %s).\n", cfg.PythonVersion)
	case model.StatusBroken:
		fmt.Printf("  The directory is not a usable venvctl environment. Re-provision with `venvctl provision --force`.\n")
	case model.StatusStale:
		fmt.Printf("  Python:  %s (configured: %s)\n", env.PythonVersion, cfg.PythonVersion)
		fmt.Printf("  Re-provision with `venvctl provision` to match the configured version.\n")
	case model.StatusReady:
		fmt.Printf("  Python:  %s (%s)\n", env.PythonVersion, env.PythonPath)
		if len(env.Tools) > 0 {
			fmt.Println("  Tools:")
			for _, tool := range env.Tools {
				fmt.Printf("    %s\n", tool)
			}
		}
		if !env.CreatedAt.IsZero() {
			fmt.Printf("  Created: %s\n", env.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		}
	}
}
