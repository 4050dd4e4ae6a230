// Package cli — remove.go implements the "venvctl remove" command.
//
// The remove command deletes the project's environment directory. By
// default it prompts for confirmation; --force skips the prompt and also
// allows removing a directory that does not look like a venv (the same
// guard provision applies before replacing one).
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmr-tortoise/venvctl/internal/config"
	"github.com/mmr-tortoise/venvctl/internal/model"
	"github.com/mmr-tortoise/venvctl/internal/venv"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	// force skips the interactive confirmation prompt and the
	// looks-like-a-venv guard when true.
	force bool
}

// NewRemoveCommand creates the "remove" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the project's virtual environment",
		Long: `Remove the project's virtual environment directory.

Unless --force is specified, the command prompts for confirmation.
Directories that do not contain a venv layout (no pyvenv.cfg) are
refused without --force.

Examples:
  venvctl remove
  venvctl remove --force`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove without confirmation")

	return cmd
}

// runRemove is the main logic function for the remove command.
func runRemove(flags *removeFlags) error {
	// Step 1: Resolve the workspace root and environment path.
	root, err := config.ResolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	envPath := cfg.EnvPath(root)

	// Step 2: Nothing to do if no environment exists.
	if !venv.DirPresent(envPath) {
		return model.NewCLIError(model.ExitEnvNotFound,
			fmt.Sprintf("no environment directory at %s", envPath))
	}

	// Step 3: Prompt for confirmation unless --force is specified.
	if !flags.force {
		confirmed, promptErr := confirmRemove(envPath)
		if promptErr != nil {
			return promptErr
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "operation cancelled by user")
		}
	}

	// Step 4: Remove the environment directory.
	VerboseLog("Removing environment at %s...", envPath)
	if err := venv.Remove(envPath, flags.force); err != nil {
		return err
	}

	// Step 5: Output the result.
	printRemoveResult(envPath)
	return nil
}

// confirmRemove asks the user to confirm the remove operation.
// Non-terminal stdin requires --force, same as provision's replace guard.
func confirmRemove(envPath string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, model.NewCLIError(model.ExitGeneralError,
			"confirmation required; re-run with --force (stdin is not a terminal)")
	}

	fmt.Printf("About to remove the virtual environment at %s\n", envPath)
	fmt.Print("Continue? [y/N] ")

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}

	if err := scanner.Err(); err != nil {
		return false, model.WrapCLIError(model.ExitGeneralError, "failed to read user input", err)
	}

	return false, nil
}

// printRemoveResult outputs the remove command result in text or JSON format.
func printRemoveResult(envPath string) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"action": "removed",
			"path":   envPath,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Removed virtual environment at %s\n", envPath)
}
