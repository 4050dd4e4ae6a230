// Package interp locates Python interpreters and drives the environment
// creation tool (python -m venv) via os/exec.
//
// Design decisions:
//   - We shell out to the python binary rather than linking any embedding
//     layer because the interpreter and the venv module are treated as
//     opaque, pre-existing tools.
//   - The Manager struct is currently stateless but exists as a receiver to
//     allow future extension (e.g., custom search paths, logging).
//   - All errors from interpreter invocations are wrapped in model.CLIError
//     with step-specific exit codes to enable proper CLI exit handling.
package interp

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// Manager provides interpreter discovery and venv creation by invoking
// the python CLI.
//
// It is currently stateless — all methods receive their inputs as
// parameters. The struct exists as a receiver to support future
// extensions such as configurable interpreter search paths.
type Manager struct{}

// NewManager creates a new interpreter Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Find locates a Python interpreter matching the requested version on PATH.
//
// Search order:
//  1. A versioned executable: python3.9 for version "3.9", python3.9 for
//     "3.9.18" (patch component stripped — executables are named by
//     major.minor).
//  2. The generic python3 executable, accepted only if its reported
//     version matches the request.
//
// Returns the absolute executable path, or a CLIError with
// ExitInterpreterNotFound when no matching interpreter exists.
func (m *Manager) Find(version string) (string, error) {
	if err := model.ValidatePythonVersion(version); err != nil {
		return "", model.WrapCLIError(model.ExitInterpreterNotFound, "cannot search for interpreter", err)
	}

	// Versioned executables carry major.minor only (python3.9, not
	// python3.9.18), so strip any patch component for the lookup.
	candidates := []string{"python" + majorMinor(version)}

	// Generic fallback, verified against the requested version below.
	candidates = append(candidates, "python3")

	for _, name := range candidates {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}

		reported, err := m.Version(path)
		if err != nil {
			// Present on PATH but not runnable — keep looking.
			continue
		}
		if matchesVersion(reported, version) {
			return path, nil
		}
	}

	return "", model.NewCLIError(model.ExitInterpreterNotFound,
		fmt.Sprintf("no Python %s interpreter found on PATH (tried %s)", version, strings.Join(candidates, ", ")))
}

// Version returns the version reported by the interpreter at the given
// path, as a dotted numeric string (e.g. "3.9.18").
//
// Runs `<python> --version`, which prints "Python X.Y.Z". Older Python 2
// interpreters printed the version to stderr; runPython captures both
// streams, so parsing works either way.
func (m *Manager) Version(pythonPath string) (string, error) {
	output, err := runPython(pythonPath, "--version")
	if err != nil {
		return "", err
	}
	return ParseVersionOutput(output)
}

// CreateVenv creates a virtual environment at envPath using the
// interpreter at pythonPath, with the given prompt label.
//
// This runs `<python> -m venv --prompt <prompt> <envPath>`, blocking until
// the tool exits. The venv module creates the directory, copies or
// symlinks the interpreter, writes pyvenv.cfg, and bootstraps pip.
// On failure the stderr output is folded into the returned CLIError
// (ExitVenvCreateFailed).
func (m *Manager) CreateVenv(pythonPath, envPath, prompt string) error {
	_, err := runPython(pythonPath, "-m", "venv", "--prompt", prompt, envPath)
	if err != nil {
		return model.WrapCLIError(model.ExitVenvCreateFailed,
			fmt.Sprintf("failed to create virtual environment at %s", envPath), err)
	}
	return nil
}

// runPython executes the interpreter at pythonPath with the given arguments.
//
// It captures stdout and stderr separately. On success (exit code 0), it
// returns the combined output (stdout, falling back to stderr — Python
// historically wrote --version to stderr). On failure, the stderr output
// is included in the error message for diagnostics.
func runPython(pythonPath string, args ...string) (string, error) {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command(pythonPath, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("%s %s failed", pythonPath, strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", fmt.Errorf("%s: %w", message, err)
	}

	if stdout.Len() > 0 {
		return stdout.String(), nil
	}
	return stderr.String(), nil
}

// ParseVersionOutput extracts the dotted version from `python --version`
// output ("Python 3.9.18\n" → "3.9.18").
func ParseVersionOutput(output string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) != 2 || fields[0] != "Python" {
		return "", fmt.Errorf("unexpected python --version output: %q", strings.TrimSpace(output))
	}

	version := fields[1]
	if err := model.ValidatePythonVersion(version); err != nil {
		return "", fmt.Errorf("unexpected python version %q in --version output", version)
	}
	return version, nil
}

// matchesVersion reports whether a full reported version (e.g. "3.9.18")
// satisfies a requested version, which may be major.minor ("3.9") or an
// exact major.minor.patch pin ("3.9.18").
func matchesVersion(reported, requested string) bool {
	if reported == requested {
		return true
	}
	// A major.minor request matches any patch level of that minor.
	return strings.Count(requested, ".") == 1 && strings.HasPrefix(reported, requested+".")
}

// majorMinor strips the patch component from a version identifier:
// "3.9.18" → "3.9", "3.9" → "3.9".
func majorMinor(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
