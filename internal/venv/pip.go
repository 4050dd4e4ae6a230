// pip.go drives the environment's own pip executable.
//
// Every pip invocation here runs the pip binary inside the environment's
// bin directory, under the activation environment computed by
// ActivationEnv. Never a system-level pip: the whole point of the
// provisioning sequence is that installed tools land inside the venv.
package venv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// InstallTools installs the given packages into the environment using
// the environment's own pip.
//
// Runs `<env>/bin/pip install <tools...>` and blocks until pip exits.
// pip's own output is streamed to the caller's stderr so long installs
// are observable. A non-zero pip exit aborts with ExitPipInstallFailed;
// there is no retry and no partial rollback.
func InstallTools(ctx context.Context, envPath string, tools []string) error {
	if len(tools) == 0 {
		return nil
	}

	args := append([]string{"install"}, tools...)
	if err := runPip(ctx, envPath, nil, args...); err != nil {
		return model.WrapCLIError(model.ExitPipInstallFailed,
			fmt.Sprintf("failed to install %s", strings.Join(tools, ", ")), err)
	}
	return nil
}

// InstalledTools returns the name and version of each requested package
// that is installed in the environment, in the order requested. Packages
// pip does not know about are returned with an empty version.
//
// Uses `pip freeze` output ("name==version" lines) rather than pip show,
// so one subprocess answers for all packages.
func InstalledTools(ctx context.Context, envPath string, names []string) ([]model.ToolInstall, error) {
	var out strings.Builder
	if err := runPip(ctx, envPath, &out, "freeze"); err != nil {
		return nil, fmt.Errorf("pip freeze failed: %w", err)
	}

	versions := ParseFreezeOutput(out.String())

	tools := make([]model.ToolInstall, 0, len(names))
	for _, name := range names {
		tools = append(tools, model.ToolInstall{
			Name:    name,
			Version: versions[NormalizePackageName(name)],
		})
	}
	return tools, nil
}

// runPip executes the environment's pip with the given arguments under
// the activation environment. When stdout is non-nil, pip's stdout is
// captured there; otherwise it is streamed to the process stderr
// (keeping this tool's stdout clean for command results).
func runPip(ctx context.Context, envPath string, stdout *strings.Builder, args ...string) error {
	pip := PipPath(envPath)

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, pip, args...)
	cmd.Env = ActivationEnv(envPath, os.Environ())
	cmd.Dir = envPath

	if stdout != nil {
		cmd.Stdout = stdout
	} else {
		// Progress output goes to the caller's stderr, keeping stdout
		// clean for command results.
		cmd.Stdout = os.Stderr
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", pip, strings.Join(args, " "), err)
	}
	return nil
}

// ParseFreezeOutput parses `pip freeze` output into a map of normalized
// package name to version. Lines that are not simple name==version pins
// (editable installs, VCS references, comments) are skipped.
func ParseFreezeOutput(output string) map[string]string {
	versions := make(map[string]string)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-e ") {
			continue
		}

		name, version, ok := strings.Cut(line, "==")
		if !ok || name == "" || version == "" {
			continue
		}
		versions[NormalizePackageName(name)] = version
	}

	return versions
}

// NormalizePackageName lowercases a package name and folds underscores
// to hyphens, matching pip's own name normalization (pip_tools,
// pip-tools, and Pip-Tools are the same package).
func NormalizePackageName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}
