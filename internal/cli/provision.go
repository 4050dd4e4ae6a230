// Package cli — provision.go implements the "venvctl provision" command.
//
// The provision command is the primary user-facing operation. It executes
// the full environment setup sequence, strictly in order, aborting on the
// first failing step with that step's exit code:
//
//  1. Resolve the workspace root (--workspace > $WORKSPACE_ROOT > cwd)
//  2. Load venv.jsonc configuration (defaults if absent)
//  3. Locate the pinned Python interpreter on PATH
//  4. Remove the existing environment directory, if any
//  5. Create a fresh environment (python -m venv --prompt <label>)
//  6. Install the dependency-locking tools with the environment's own pip
//  7. Write the venvctl.yml manifest into the environment
//  8. Output results (text or JSON)
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmr-tortoise/venvctl/internal/config"
	"github.com/mmr-tortoise/venvctl/internal/interp"
	"github.com/mmr-tortoise/venvctl/internal/model"
	"github.com/mmr-tortoise/venvctl/internal/state"
	"github.com/mmr-tortoise/venvctl/internal/venv"
)

// provisionFlags holds the flag values for the provision command.
// These are bound to cobra flags in NewProvisionCommand.
type provisionFlags struct {
	python    string // --python: override the configured interpreter version
	prompt    string // --prompt: override the configured prompt label
	force     bool   // --force: replace an existing environment without asking
	noInstall bool   // --no-install: create the environment only, skip pip
}

// NewProvisionCommand creates the "provision" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewProvisionCommand() *cobra.Command {
	flags := &provisionFlags{}

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the project's virtual environment from scratch",
		Long: `Provision the project's Python virtual environment.

Any existing environment directory is removed first, then a fresh
environment is created with the pinned interpreter version and prompt
label, and the dependency-locking tools (pip-tools by default) are
installed with the environment's own pip.

Examples:
  venvctl provision
  venvctl provision --force
  venvctl provision --python 3.12 --prompt myproj
  venvctl provision --no-install`,

		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.python, "python", "", "Interpreter version to pin (default: venv.jsonc or 3.9)")
	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "Prompt label (default: venv.jsonc or workspace directory name)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Replace an existing environment without confirmation")
	cmd.Flags().BoolVar(&flags.noInstall, "no-install", false, "Create the environment only, don't install tools")

	return cmd
}

// runProvision is the main orchestration function for the provision
// command. Each step blocks until its external tool exits; the first
// failure aborts the whole sequence with no rollback.
func runProvision(ctx context.Context, flags *provisionFlags) error {
	// Step 1: Resolve the workspace root.
	root, err := config.ResolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return err
	}
	VerboseLog("Workspace root: %s", root)

	// Step 2: Load project configuration and apply flag overrides.
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	if flags.python != "" {
		cfg.PythonVersion = flags.python
	}
	if flags.prompt != "" {
		cfg.Prompt = flags.prompt
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	envPath := cfg.EnvPath(root)
	VerboseLog("Python version: %s, prompt: %s, env dir: %s", cfg.PythonVersion, cfg.Prompt, envPath)

	// Step 3: Locate the interpreter BEFORE touching the existing
	// environment. If no matching Python exists, the old environment
	// survives untouched.
	im := interp.NewManager()
	pythonPath, err := im.Find(cfg.PythonVersion)
	if err != nil {
		return err
	}
	fullVersion, err := im.Version(pythonPath)
	if err != nil {
		return model.WrapCLIError(model.ExitInterpreterNotFound,
			fmt.Sprintf("interpreter %s is not runnable", pythonPath), err)
	}
	VerboseLog("Interpreter: %s (Python %s)", pythonPath, fullVersion)

	// Step 4: Remove the existing environment directory, if any.
	if venv.DirPresent(envPath) {
		if !flags.force {
			confirmed, promptErr := confirmReplace(envPath)
			if promptErr != nil {
				return promptErr
			}
			if !confirmed {
				return model.NewCLIError(model.ExitUserCancelled, "operation cancelled by user")
			}
		}
		VerboseLog("Removing existing environment at %s...", envPath)
		if err := venv.Remove(envPath, flags.force); err != nil {
			return err
		}
	}

	// Step 5: Create the fresh environment.
	VerboseLog("Creating virtual environment (python -m venv --prompt %s)...", cfg.Prompt)
	if err := im.CreateVenv(pythonPath, envPath, cfg.Prompt); err != nil {
		return err
	}

	// Step 6: Install the locking tools with the environment's own pip.
	// The pip runs under the activation environment, so it is the venv's
	// pip resolving into the venv — never the system one.
	installed := []model.ToolInstall{}
	if !flags.noInstall {
		VerboseLog("Installing %s...", strings.Join(cfg.Tools, ", "))
		if err := venv.InstallTools(ctx, envPath, cfg.Tools); err != nil {
			return err
		}

		// Resolve installed versions for the manifest and the result
		// output. Best-effort: a freeze failure doesn't undo the install.
		installed, err = venv.InstalledTools(ctx, envPath, cfg.Tools)
		if err != nil {
			VerboseLog("Could not read installed tool versions: %v", err)
			installed = bareTools(cfg.Tools)
		}
	} else {
		VerboseLog("Skipping tool installation (--no-install)")
	}

	// Step 7: Write the manifest into the environment directory.
	manifest := &state.Manifest{
		Name:          cfg.Prompt,
		PythonVersion: fullVersion,
		PythonPath:    pythonPath,
		WorkspaceRoot: root,
		Tools:         state.ToolRecords(installed),
		CreatedAt:     time.Now().UTC(),
	}
	if err := state.Write(envPath, manifest); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write environment manifest", err)
	}

	// Step 8: Output results.
	env := &model.Venv{
		Name:          cfg.Prompt,
		Path:          envPath,
		WorkspaceRoot: root,
		PythonVersion: fullVersion,
		PythonPath:    pythonPath,
		Status:        model.StatusReady,
		Tools:         installed,
		CreatedAt:     manifest.CreatedAt,
	}
	printProvisionResult(env)
	return nil
}

// bareTools converts a configured tool name list into versionless
// ToolInstall records.
func bareTools(names []string) []model.ToolInstall {
	tools := make([]model.ToolInstall, 0, len(names))
	for _, name := range names {
		tools = append(tools, model.ToolInstall{Name: name})
	}
	return tools
}

// confirmReplace asks the user to confirm replacing an existing
// environment directory. When stdin is not a terminal (CI, pipes) the
// answer cannot be asked, so the caller must pass --force; this keeps
// scripted runs deterministic instead of hanging on a prompt.
func confirmReplace(envPath string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%s already exists; re-run with --force to replace it (stdin is not a terminal)", envPath))
	}

	fmt.Printf("Environment at %s already exists and will be removed.\n", envPath)
	fmt.Print("Continue? [y/N] ")

	// bufio.Scanner handles different line endings across platforms.
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}

	if err := scanner.Err(); err != nil {
		return false, model.WrapCLIError(model.ExitGeneralError, "failed to read user input", err)
	}

	// Closed stdin is treated as "no".
	return false, nil
}

// printProvisionResult outputs the provision command results in text or
// JSON format.
func printProvisionResult(env *model.Venv) {
	if IsJSONOutput() {
		printProvisionResultJSON(env)
	} else {
		printProvisionResultText(env)
	}
}

// printProvisionResultJSON outputs the provision result as structured JSON.
func printProvisionResultJSON(env *model.Venv) {
	data, _ := json.MarshalIndent(env, "", "  ")
	fmt.Println(string(data))
}

// printProvisionResultText outputs the provision result as human-readable text.
func printProvisionResultText(env *model.Venv) {
	fmt.Printf("Provisioned virtual environment %q\n", env.Name)
	fmt.Printf("  Path:    %s\n", env.Path)
	fmt.Printf("  Python:  %s (%s)\n", env.PythonVersion, env.PythonPath)

	if len(env.Tools) > 0 {
		fmt.Println()
		fmt.Println("  Tools:")
		for _, tool := range env.Tools {
			fmt.Printf("    %s\n", tool)
		}
	}

	fmt.Println()
	fmt.Printf("Activate with: eval \"$(venvctl env)\"\n")
}
