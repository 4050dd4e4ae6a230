// Package model defines the domain types for the venvctl CLI.
//
// All entities in this package represent the state of a project's Python
// virtual environment as reconstructed at runtime from the filesystem
// (the environment directory and its generated manifest). There is no
// other persistent state.
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// EnvStatus represents the observable state of a virtual environment.
// The lifecycle is:
//
//	[Missing] → provision → Ready
//	Ready → config version changes → Stale
//	Ready → interpreter/layout damaged → Broken
//	any → remove → Missing
type EnvStatus string

const (
	// StatusReady indicates the environment directory exists, its
	// interpreter runs, and its recorded Python version matches the
	// configured version.
	StatusReady EnvStatus = "ready"

	// StatusMissing indicates the environment directory does not exist.
	StatusMissing EnvStatus = "missing"

	// StatusStale indicates the environment exists but was created with a
	// Python version that no longer matches the configured version.
	// Re-provisioning replaces it.
	StatusStale EnvStatus = "stale"

	// StatusBroken indicates the environment directory exists but does not
	// contain a usable venv layout (no pyvenv.cfg, or the interpreter is
	// gone). This typically happens when the directory was created by
	// something other than venvctl, or was partially deleted.
	StatusBroken EnvStatus = "broken"
)

// String returns the string representation of EnvStatus.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands.
func (s EnvStatus) String() string {
	return string(s)
}

// IsValid checks whether the EnvStatus value is one of the
// predefined valid states.
func (s EnvStatus) IsValid() bool {
	switch s {
	case StatusReady, StatusMissing, StatusStale, StatusBroken:
		return true
	default:
		return false
	}
}

// ParseEnvStatus converts a string to an EnvStatus.
// Returns an error if the string does not match any valid status.
func ParseEnvStatus(s string) (EnvStatus, error) {
	status := EnvStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid environment status: %q (valid: ready, missing, stale, broken)", s)
	}
	return status, nil
}

// Venv represents a provisioned virtual environment — the primary
// aggregate entity in the domain. Fields are reconstructed at runtime
// from the environment directory and its manifest.
type Venv struct {
	// Name is the prompt label the environment was created with.
	// Must contain only alphanumeric characters and hyphens.
	Name string `json:"name"`

	// Path is the absolute filesystem path to the environment directory.
	Path string `json:"path"`

	// WorkspaceRoot is the absolute path to the project directory the
	// environment belongs to.
	WorkspaceRoot string `json:"workspaceRoot"`

	// PythonVersion is the interpreter version the environment is pinned
	// to (e.g. "3.9" or "3.9.18").
	PythonVersion string `json:"pythonVersion"`

	// PythonPath is the absolute path to the interpreter the environment
	// was created from.
	PythonPath string `json:"pythonPath,omitempty"`

	// Status is the current observable state of the environment.
	Status EnvStatus `json:"status"`

	// Tools lists the dependency-management utilities installed into the
	// environment (pip-tools by default).
	Tools []ToolInstall `json:"tools,omitempty"`

	// CreatedAt is the timestamp when the environment was provisioned.
	CreatedAt time.Time `json:"createdAt"`
}

// ToolInstall records a single utility installed into the environment
// by the provisioning step.
type ToolInstall struct {
	// Name is the package name as given to pip (e.g. "pip-tools").
	Name string `json:"name"`

	// Version is the installed version as reported by the environment's
	// pip. Empty if the version could not be determined.
	Version string `json:"version,omitempty"`
}

// String returns a human-readable representation of the tool install.
// Format: "name==version" (pip requirement syntax) or just "name".
func (t ToolInstall) String() string {
	if t.Version == "" {
		return t.Name
	}
	return fmt.Sprintf("%s==%s", t.Name, t.Version)
}

// promptRegex validates prompt labels: alphanumeric + hyphens only,
// must start and end with alphanumeric.
var promptRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)

// ValidatePrompt checks if the given name is a valid environment prompt
// label. Valid labels contain only alphanumeric characters and hyphens,
// and must start/end with an alphanumeric character. The label ends up
// in the user's shell prompt, so anything shell-hostile is rejected.
func ValidatePrompt(name string) error {
	if name == "" {
		return fmt.Errorf("prompt label must not be empty")
	}
	if !promptRegex.MatchString(name) {
		return fmt.Errorf("invalid prompt label %q: must contain only alphanumeric characters and hyphens, and start/end with alphanumeric", name)
	}
	return nil
}

// versionRegex validates Python version identifiers: "3.9" or "3.9.18".
var versionRegex = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

// ValidatePythonVersion checks if the given string is a usable Python
// version identifier. Only dotted numeric forms are accepted because the
// value is interpolated into the interpreter executable name
// (python3.9) and compared against `python --version` output.
func ValidatePythonVersion(version string) error {
	if version == "" {
		return fmt.Errorf("python version must not be empty")
	}
	if !versionRegex.MatchString(version) {
		return fmt.Errorf("invalid python version %q: expected a dotted numeric version like 3.9 or 3.9.18", version)
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine which step of the provisioning
// sequence failed.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigInvalid indicates the workspace root could not be resolved
	// or venv.jsonc failed to parse/validate.
	ExitConfigInvalid ExitCode = 2

	// ExitInterpreterNotFound indicates no Python interpreter matching the
	// pinned version could be located on PATH.
	ExitInterpreterNotFound ExitCode = 3

	// ExitVenvCreateFailed indicates the environment-creation tool
	// (python -m venv) exited with a non-zero status.
	ExitVenvCreateFailed ExitCode = 4

	// ExitPipInstallFailed indicates the package-installation step
	// (the environment's pip) exited with a non-zero status.
	ExitPipInstallFailed ExitCode = 5

	// ExitEnvNotFound indicates no provisioned environment exists where
	// one was expected.
	ExitEnvNotFound ExitCode = 6

	// ExitUserCancelled indicates the user declined an interactive
	// confirmation prompt.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
