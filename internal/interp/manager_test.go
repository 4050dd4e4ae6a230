package interp

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// writeStubInterpreter creates a fake python executable in dir that
// reports the given version for --version and records any other
// invocation into a log file next to it. Returns the executable path.
//
// Real interpreters are not guaranteed to exist (let alone at a pinned
// version) on test machines, so interpreter-level tests exercise the
// exec plumbing against stub scripts placed on PATH.
func writeStubInterpreter(t *testing.T, dir, name, version string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub interpreter scripts require a POSIX shell")
	}

	logPath := filepath.Join(dir, name+".log")
	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "Python %s"
  exit 0
fi
echo "$@" >> %q
exit 0
`, version, logPath)

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(script), 0755)
	require.NoError(t, err)
	return path
}

// TestFind verifies that a versioned executable on PATH is located and
// returned for a matching version request.
func TestFind(t *testing.T) {
	binDir := t.TempDir()
	want := writeStubInterpreter(t, binDir, "python3.9", "3.9.18")
	t.Setenv("PATH", binDir)

	m := NewManager()

	path, err := m.Find("3.9")
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

// TestFindGenericFallback verifies that python3 is accepted when no
// versioned executable exists, but only if its reported version matches.
func TestFindGenericFallback(t *testing.T) {
	binDir := t.TempDir()
	want := writeStubInterpreter(t, binDir, "python3", "3.11.4")
	t.Setenv("PATH", binDir)

	m := NewManager()

	// python3 reports 3.11.4, which satisfies a 3.11 request.
	path, err := m.Find("3.11")
	require.NoError(t, err)
	assert.Equal(t, want, path)

	// The same python3 does not satisfy a 3.9 request.
	_, err = m.Find("3.9")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitInterpreterNotFound, cliErr.Code)
}

// TestFindNothingOnPath verifies the error when PATH holds no Python at all.
func TestFindNothingOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	m := NewManager()
	_, err := m.Find("3.9")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitInterpreterNotFound, cliErr.Code)
}

// TestVersion verifies version querying against a stub interpreter.
func TestVersion(t *testing.T) {
	binDir := t.TempDir()
	path := writeStubInterpreter(t, binDir, "python3.9", "3.9.18")

	m := NewManager()
	version, err := m.Version(path)
	require.NoError(t, err)
	assert.Equal(t, "3.9.18", version)
}

// TestCreateVenv verifies that CreateVenv passes the prompt and target
// path through to the interpreter in the documented argument order.
func TestCreateVenv(t *testing.T) {
	binDir := t.TempDir()
	path := writeStubInterpreter(t, binDir, "python3.9", "3.9.18")

	envPath := filepath.Join(t.TempDir(), ".venv")

	m := NewManager()
	err := m.CreateVenv(path, envPath, "smot")
	require.NoError(t, err)

	// The stub logs every non-version invocation; check the venv call.
	logged, err := os.ReadFile(filepath.Join(binDir, "python3.9.log"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("-m venv --prompt smot %s\n", envPath), string(logged))
}

// TestCreateVenvFailure verifies that a failing venv invocation surfaces
// the tool's stderr and the venv-creation exit code.
func TestCreateVenvFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub interpreter scripts require a POSIX shell")
	}

	binDir := t.TempDir()
	path := filepath.Join(binDir, "python3.9")
	script := "#!/bin/sh\necho 'Error: no such module venv' >&2\nexit 1\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))

	m := NewManager()
	err := m.CreateVenv(path, filepath.Join(t.TempDir(), ".venv"), "smot")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitVenvCreateFailed, cliErr.Code)
	assert.Contains(t, err.Error(), "no such module venv", "stderr should be folded into the error")
}

// TestParseVersionOutput verifies parsing of `python --version` output.
func TestParseVersionOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{name: "standard output", output: "Python 3.9.18\n", want: "3.9.18"},
		{name: "no trailing newline", output: "Python 3.12.1", want: "3.12.1"},
		{name: "major minor only", output: "Python 3.9\n", want: "3.9"},
		{name: "empty", output: "", wantErr: true},
		{name: "garbage", output: "command not found", wantErr: true},
		{name: "wrong prefix", output: "CPython 3.9.18", wantErr: true},
		{name: "non-numeric version", output: "Python dev", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersionOutput(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestMatchesVersion verifies version satisfaction rules.
func TestMatchesVersion(t *testing.T) {
	tests := []struct {
		reported  string
		requested string
		want      bool
	}{
		{reported: "3.9.18", requested: "3.9", want: true},
		{reported: "3.9.18", requested: "3.9.18", want: true},
		{reported: "3.9", requested: "3.9", want: true},
		{reported: "3.19.0", requested: "3.9", want: false},
		{reported: "3.9.18", requested: "3.9.17", want: false},
		{reported: "3.10.2", requested: "3.1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.reported+" vs "+tt.requested, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesVersion(tt.reported, tt.requested))
		})
	}
}

// TestMajorMinor verifies patch-component stripping.
func TestMajorMinor(t *testing.T) {
	assert.Equal(t, "3.9", majorMinor("3.9.18"))
	assert.Equal(t, "3.9", majorMinor("3.9"))
	assert.Equal(t, "3", majorMinor("3"))
}
