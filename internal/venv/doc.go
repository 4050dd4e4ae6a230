// Package venv models the on-disk layout and activation semantics of a
// Python virtual environment, and drives the environment's own pip.
//
// The package deliberately knows nothing about interpreter discovery or
// project configuration — it operates on environment directory paths.
// See the interp package for creating environments and the config package
// for deciding where they live.
package venv
