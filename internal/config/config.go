// Package config handles workspace-root resolution and the optional
// venv.jsonc project configuration file.
//
// The configuration format supports JSONC (JSON with Comments), so this
// package uses github.com/tidwall/jsonc to strip comments before parsing
// with the standard encoding/json library.
//
// Key responsibilities:
//   - Resolve the workspace root (--workspace flag > WORKSPACE_ROOT env > cwd)
//   - Load and parse venv.jsonc with defaults for every missing field
//   - Validate the resulting configuration
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

const (
	// DefaultPythonVersion is the interpreter version environments are
	// pinned to when venv.jsonc does not specify one.
	DefaultPythonVersion = "3.9"

	// DefaultEnvDir is the environment directory name relative to the
	// workspace root.
	DefaultEnvDir = ".venv"

	// WorkspaceRootEnv is the environment variable consumed for the
	// workspace root when no --workspace flag is given.
	WorkspaceRootEnv = "WORKSPACE_ROOT"

	// FileName is the project configuration file looked up at the
	// workspace root.
	FileName = "venv.jsonc"

	// AltFileName is the plain-JSON fallback configuration file name,
	// checked when venv.jsonc does not exist.
	AltFileName = "venv.json"
)

// DefaultTools lists the packages installed into a freshly provisioned
// environment when venv.jsonc does not specify its own tool list.
// pip-tools provides pip-compile/pip-sync for dependency locking.
var DefaultTools = []string{"pip-tools"}

// Config holds the effective project configuration for provisioning.
// Zero values are filled with defaults by Load; callers always see a
// fully populated struct.
type Config struct {
	// PythonVersion is the interpreter version to pin (e.g. "3.9").
	PythonVersion string `json:"pythonVersion"`

	// EnvDir is the environment directory, relative to the workspace root
	// (absolute paths are also accepted).
	EnvDir string `json:"envDir"`

	// Prompt is the label shown in the shell prompt when the environment
	// is activated. Empty means "derive from the workspace directory name".
	Prompt string `json:"prompt"`

	// Tools lists the packages installed after environment creation.
	Tools []string `json:"tools"`
}

// ResolveWorkspaceRoot determines the workspace root directory.
//
// Precedence: the explicit flag value (if non-empty), then the
// WORKSPACE_ROOT environment variable, then the current directory.
// The result is always an absolute path to an existing directory;
// anything else is a CLIError with ExitConfigInvalid.
func ResolveWorkspaceRoot(flagValue string) (string, error) {
	root := flagValue
	if root == "" {
		root = os.Getenv(WorkspaceRootEnv)
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		root = cwd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", model.WrapCLIError(model.ExitConfigInvalid,
			fmt.Sprintf("failed to resolve workspace root %q", root), err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", model.WrapCLIError(model.ExitConfigInvalid,
			fmt.Sprintf("workspace root does not exist: %s", abs), err)
	}
	if !info.IsDir() {
		return "", model.NewCLIError(model.ExitConfigInvalid,
			fmt.Sprintf("workspace root is not a directory: %s", abs))
	}

	return abs, nil
}

// Load reads venv.jsonc (or venv.json) from the workspace root and returns
// the effective configuration with defaults applied.
//
// A missing configuration file is not an error — the tool is expected to
// work in projects that carry no venvctl configuration at all, using the
// built-in defaults. A file that exists but fails to parse or validate
// IS an error (ExitConfigInvalid), because silently falling back to
// defaults would provision the wrong interpreter version.
func Load(workspaceRoot string) (*Config, error) {
	cfg := &Config{}

	path, data, err := readConfigFile(workspaceRoot)
	if err != nil {
		return nil, err
	}

	if data != nil {
		// Strip JSONC comments (// and /* */) and trailing commas before
		// parsing. encoding/json silently ignores unknown fields, which is
		// the desired behavior for forward compatibility.
		cleanJSON := jsonc.ToJSON(data)
		if err := json.Unmarshal(cleanJSON, cfg); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigInvalid,
				fmt.Sprintf("failed to parse %s", path), err)
		}
	}

	applyDefaults(cfg, workspaceRoot)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readConfigFile locates and reads the configuration file at the workspace
// root. Returns the path and raw bytes, or (path="", data=nil) when no
// configuration file exists.
func readConfigFile(workspaceRoot string) (string, []byte, error) {
	for _, name := range []string{FileName, AltFileName} {
		path := filepath.Join(workspaceRoot, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		if !os.IsNotExist(err) {
			return "", nil, model.WrapCLIError(model.ExitConfigInvalid,
				fmt.Sprintf("failed to read %s", path), err)
		}
	}
	return "", nil, nil
}

// applyDefaults fills every zero-valued field with its default.
// The prompt default is the sanitized workspace directory name, so a
// project checked out as "smot" activates as "(smot)".
func applyDefaults(cfg *Config, workspaceRoot string) {
	if cfg.PythonVersion == "" {
		cfg.PythonVersion = DefaultPythonVersion
	}
	if cfg.EnvDir == "" {
		cfg.EnvDir = DefaultEnvDir
	}
	if cfg.Prompt == "" {
		cfg.Prompt = SanitizePrompt(filepath.Base(workspaceRoot))
	}
	if len(cfg.Tools) == 0 {
		cfg.Tools = append([]string(nil), DefaultTools...)
	}
}

// Validate checks the configuration for values that would produce a
// broken or dangerous provisioning run. Returns a CLIError with
// ExitConfigInvalid on the first violation.
func (c *Config) Validate() error {
	if err := model.ValidatePythonVersion(c.PythonVersion); err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid configuration", err)
	}
	if err := model.ValidatePrompt(c.Prompt); err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid configuration", err)
	}
	if c.EnvDir == "" {
		return model.NewCLIError(model.ExitConfigInvalid, "invalid configuration: envDir must not be empty")
	}
	// Refuse an env dir that resolves to the workspace root itself —
	// provisioning removes the env dir first, which here would mean
	// removing the whole project.
	if c.EnvDir == "." || c.EnvDir == "./" {
		return model.NewCLIError(model.ExitConfigInvalid, "invalid configuration: envDir must not be the workspace root")
	}
	for _, tool := range c.Tools {
		if tool == "" {
			return model.NewCLIError(model.ExitConfigInvalid, "invalid configuration: tools must not contain empty entries")
		}
	}
	return nil
}

// EnvPath returns the absolute path of the environment directory for the
// given workspace root. Relative EnvDir values are joined to the root;
// absolute values are used as-is.
func (c *Config) EnvPath(workspaceRoot string) string {
	if filepath.IsAbs(c.EnvDir) {
		return filepath.Clean(c.EnvDir)
	}
	return filepath.Join(workspaceRoot, c.EnvDir)
}

// SanitizePrompt converts an arbitrary directory name to a valid prompt
// label. Separators become hyphens, invalid characters are dropped, and
// leading/trailing hyphens are trimmed. Falls back to "venv" if nothing
// usable remains.
func SanitizePrompt(name string) string {
	replaced := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-':
			replaced = append(replaced, r)
		case r == '_' || r == '.' || r == ' ' || r == '/':
			replaced = append(replaced, '-')
		}
		// Anything else is dropped.
	}

	result := string(replaced)
	for len(result) > 0 && result[0] == '-' {
		result = result[1:]
	}
	for len(result) > 0 && result[len(result)-1] == '-' {
		result = result[:len(result)-1]
	}

	if result == "" {
		return "venv"
	}
	return result
}
