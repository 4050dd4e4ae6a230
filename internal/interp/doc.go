// Package interp provides Python interpreter discovery and virtual
// environment creation.
//
// This package wraps the python CLI (via os/exec) to locate interpreters
// on PATH by version, query their reported versions, and invoke
// `python -m venv`. It serves as the interpreter integration layer for
// the venvctl CLI; the interpreter and the venv module are treated as
// opaque external tools.
package interp
