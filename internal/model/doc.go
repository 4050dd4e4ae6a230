// Package model defines the domain types and value objects for the
// venvctl CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (Venv, ToolInstall, EnvStatus) are transient representations
// reconstructed from the environment directory and its manifest at runtime.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
