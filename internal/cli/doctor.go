// Package cli — doctor.go implements the "venvctl doctor" command.
//
// Doctor runs the preflight checks a provision would depend on and
// reports each one, so a broken setup can be diagnosed without mutating
// anything. The command exits non-zero if any check fails.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvctl/internal/config"
	"github.com/mmr-tortoise/venvctl/internal/interp"
	"github.com/mmr-tortoise/venvctl/internal/model"
)

// checkResult holds the outcome of a single doctor check.
type checkResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// NewDoctorCommand creates the "doctor" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that provisioning prerequisites are in place",
		Long: `Check the provisioning prerequisites: workspace root, configuration,
and the pinned Python interpreter. Nothing is created or modified.

Examples:
  venvctl doctor
  venvctl doctor --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}

	return cmd
}

// runDoctor executes each check in dependency order. Later checks that
// depend on earlier ones are skipped once a prerequisite fails, but all
// independent results are still reported before the command exits.
func runDoctor() error {
	var checks []checkResult

	// Check 1: workspace root.
	root, err := config.ResolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		checks = append(checks, checkResult{Name: "workspace root", Detail: err.Error()})
		return reportDoctor(checks)
	}
	checks = append(checks, checkResult{Name: "workspace root", OK: true, Detail: root})

	// Check 2: configuration.
	cfg, err := config.Load(root)
	if err != nil {
		checks = append(checks, checkResult{Name: "configuration", Detail: err.Error()})
		return reportDoctor(checks)
	}
	checks = append(checks, checkResult{
		Name: "configuration",
		OK:   true,
		Detail: fmt.Sprintf("python %s, env dir %s, prompt %q",
			cfg.PythonVersion, cfg.EnvDir, cfg.Prompt),
	})

	// Check 3: interpreter.
	im := interp.NewManager()
	pythonPath, err := im.Find(cfg.PythonVersion)
	if err != nil {
		checks = append(checks, checkResult{Name: "python interpreter", Detail: err.Error()})
		return reportDoctor(checks)
	}
	version, err := im.Version(pythonPath)
	if err != nil {
		checks = append(checks, checkResult{Name: "python interpreter", Detail: err.Error()})
		return reportDoctor(checks)
	}
	checks = append(checks, checkResult{
		Name:   "python interpreter",
		OK:     true,
		Detail: fmt.Sprintf("%s (Python %s)", pythonPath, version),
	})

	// Check 4: environment state (informational; a missing environment is
	// still a passing doctor run — provision exists to create it).
	env := inspectEnvironment(root, cfg.EnvPath(root), cfg)
	checks = append(checks, checkResult{
		Name:   "environment",
		OK:     true,
		Detail: fmt.Sprintf("%s (%s)", env.Path, env.Status),
	})

	return reportDoctor(checks)
}

// reportDoctor prints all check results and returns an error if any
// check failed, so the process exits non-zero.
func reportDoctor(checks []checkResult) error {
	failed := 0
	for _, c := range checks {
		if !c.OK {
			failed++
		}
	}

	if IsJSONOutput() {
		result := map[string]interface{}{
			"checks": checks,
			"ok":     failed == 0,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		for _, c := range checks {
			mark := "ok"
			if !c.OK {
				mark = "FAIL"
			}
			fmt.Printf("  [%s] %-20s %s\n", mark, c.Name, c.Detail)
		}
	}

	if failed > 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%d check(s) failed", failed))
	}
	return nil
}
