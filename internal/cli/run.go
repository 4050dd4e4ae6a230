// Package cli — run.go implements the "venvctl run" command.
//
// Run executes an arbitrary command from the workspace root with the
// environment activated, so the environment's python, pip, pip-compile
// and pip-sync shadow any system-level ones:
//
//	venvctl run -- pip-compile requirements.in
//	venvctl run -- python -m pytest
package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvctl/internal/config"
	"github.com/mmr-tortoise/venvctl/internal/model"
	"github.com/mmr-tortoise/venvctl/internal/venv"
)

// NewRunCommand creates the "run" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run -- <command...>",
		Short: "Run a command inside the activated environment",
		Long: `Run a command from the workspace root with the virtual environment
activated.

Examples:
  venvctl run -- pip-compile requirements.in
  venvctl run -- pip-sync requirements.txt
  venvctl run -- python -m pytest`,

		// Flag parsing is disabled so everything after "run" is passed to
		// the child command verbatim (including flags meant for it).
		DisableFlagParsing: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}

	return cmd
}

// runRun is the main logic function for the run command.
func runRun(args []string) error {
	// Strip the leading "--" if present. With DisableFlagParsing cobra
	// hands it to us as a regular argument.
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 0 {
		return model.NewCLIError(model.ExitGeneralError, "usage: venvctl run -- <command...>")
	}
	// DisableFlagParsing also swallows help flags; honor them by hand.
	if args[0] == "-h" || args[0] == "--help" {
		return model.NewCLIError(model.ExitGeneralError, "usage: venvctl run -- <command...>")
	}

	root, err := config.ResolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	envPath := cfg.EnvPath(root)

	if !venv.Exists(envPath) {
		return model.NewCLIError(model.ExitEnvNotFound,
			fmt.Sprintf("no virtual environment at %s; run `venvctl provision` first", envPath))
	}

	// The child runs from the workspace root with the activation
	// environment and inherited stdio, so interactive tools work.
	// #nosec G204 — running the user's own command is the point of this subcommand
	child := exec.Command(args[0], args[1:]...)
	child.Dir = root
	child.Env = venv.ActivationEnv(envPath, os.Environ())
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	VerboseLog("Running %v in %s", args, root)
	if err := child.Run(); err != nil {
		// Propagate the child's exit code instead of flattening it to 1,
		// so `venvctl run -- pytest` behaves like running pytest directly.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return model.WrapCLIError(model.ExitCode(exitErr.ExitCode()),
				fmt.Sprintf("%s exited with status %d", args[0], exitErr.ExitCode()), err)
		}
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to run %s", args[0]), err)
	}
	return nil
}
