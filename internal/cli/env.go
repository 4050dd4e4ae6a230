// Package cli — env.go implements the "venvctl env" command.
//
// A child process cannot mutate its parent shell's environment, so
// activation is exported the way docker-machine and ssh-agent do it:
// the command prints shell statements for the caller to eval.
//
//	eval "$(venvctl env)"
//
// The statements are exactly the venv activate transformation:
// VIRTUAL_ENV set, the env bin directory prepended to PATH, PYTHONHOME
// unset.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvctl/internal/config"
	"github.com/mmr-tortoise/venvctl/internal/model"
	"github.com/mmr-tortoise/venvctl/internal/venv"
)

// NewEnvCommand creates the "env" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewEnvCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print shell statements that activate the environment",
		Long: `Print POSIX shell statements that activate the project's virtual
environment in the calling shell.

Examples:
  eval "$(venvctl env)"
  venvctl env --workspace ~/src/smot`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv()
		},
	}

	return cmd
}

// runEnv is the main logic function for the env command.
func runEnv() error {
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

	fmt.Print(formatEnvExports(envPath))
	return nil
}

// formatEnvExports renders the activation statements for a POSIX shell.
// PATH references the shell's own $PATH rather than baking in this
// process's PATH, so the statements stay correct when eval'd later.
func formatEnvExports(envPath string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "export VIRTUAL_ENV=%s\n", shellQuote(envPath))
	fmt.Fprintf(&b, "export PATH=%s:\"$PATH\"\n", shellQuote(venv.BinDir(envPath)))
	fmt.Fprintf(&b, "unset PYTHONHOME\n")
	fmt.Fprintf(&b, "# Run this command to configure your shell:\n")
	fmt.Fprintf(&b, "# eval \"$(venvctl env)\"\n")

	return b.String()
}

// shellQuote single-quotes a value for safe use in shell statements.
// Embedded single quotes use the standard '\'' escape.
func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
