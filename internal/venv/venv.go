// Package venv — venv.go models the on-disk layout of a virtual
// environment and the activation semantics.
//
// A venv directory contains:
//
//	<env>/pyvenv.cfg        marker + metadata written by python -m venv
//	<env>/bin/python        the environment's interpreter (Scripts\ on Windows)
//	<env>/bin/pip           the environment's package installer
//
// Activation is an environment-variable transformation, not a process
// state: VIRTUAL_ENV points at the env directory, the env's bin directory
// is prepended to PATH (so its python/pip shadow any system-level ones),
// and PYTHONHOME is unset. ActivationEnv computes exactly that
// transformation so child processes run "inside" the environment.
package venv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// CfgFile is the marker file written by python -m venv into every
// environment directory. Its presence is how we distinguish a venv from
// an arbitrary directory.
const CfgFile = "pyvenv.cfg"

// BinDir returns the executable directory of the environment:
// <env>/bin on POSIX, <env>/Scripts on Windows.
func BinDir(envPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envPath, "Scripts")
	}
	return filepath.Join(envPath, "bin")
}

// PythonPath returns the path of the environment's own interpreter.
func PythonPath(envPath string) string {
	name := "python"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(BinDir(envPath), name)
}

// PipPath returns the path of the environment's own pip executable.
func PipPath(envPath string) string {
	name := "pip"
	if runtime.GOOS == "windows" {
		name = "pip.exe"
	}
	return filepath.Join(BinDir(envPath), name)
}

// Exists reports whether a virtual environment is present at envPath.
// The check requires pyvenv.cfg, not just the directory: a directory
// without the marker is NOT an environment (see Remove).
func Exists(envPath string) bool {
	_, err := os.Stat(filepath.Join(envPath, CfgFile))
	return err == nil
}

// DirPresent reports whether anything at all occupies envPath.
// Used together with Exists to distinguish "missing" from "present but
// not a venv".
func DirPresent(envPath string) bool {
	_, err := os.Lstat(envPath)
	return err == nil
}

// ActivationEnv transforms a base environment (in os.Environ "KEY=value"
// form) into the activated environment for envPath:
//
//   - VIRTUAL_ENV is set to envPath
//   - the env bin directory is prepended to PATH
//   - PYTHONHOME is removed (it would redirect the interpreter's
//     standard library lookup away from the venv)
//
// The base slice is not modified; a new slice is returned. This is the
// same transformation the venv activate script performs, applied to
// child processes instead of the calling shell.
func ActivationEnv(envPath string, base []string) []string {
	binDir := BinDir(envPath)

	result := make([]string, 0, len(base)+2)
	pathSeen := false

	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			result = append(result, kv)
			continue
		}

		switch key {
		case "VIRTUAL_ENV", "PYTHONHOME":
			// Dropped: VIRTUAL_ENV is re-added below, PYTHONHOME must not
			// survive activation.
		case "PATH":
			pathSeen = true
			result = append(result, "PATH="+binDir+string(os.PathListSeparator)+value)
		default:
			result = append(result, kv)
		}
	}

	if !pathSeen {
		result = append(result, "PATH="+binDir)
	}
	result = append(result, "VIRTUAL_ENV="+envPath)

	return result
}

// Remove deletes the environment directory at envPath.
//
// Safety guard: a directory that exists but does not contain pyvenv.cfg
// is refused unless force is true, so a mistyped envDir cannot silently
// delete an arbitrary tree. Removing a path that does not exist is a
// no-op (idempotent removal, so provision can always run it first).
func Remove(envPath string, force bool) error {
	if !DirPresent(envPath) {
		return nil
	}

	if !Exists(envPath) && !force {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%s exists but does not look like a virtual environment (no %s); use --force to remove it anyway", envPath, CfgFile))
	}

	if err := os.RemoveAll(envPath); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to remove %s", envPath), err)
	}
	return nil
}
