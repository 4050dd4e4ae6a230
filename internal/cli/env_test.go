// Package cli — env_test.go contains unit tests for the pure formatting
// functions behind the env command. No environment is created.
package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmr-tortoise/venvctl/internal/venv"
)

// TestFormatEnvExports verifies the activation statements printed for
// shell eval.
func TestFormatEnvExports(t *testing.T) {
	got := formatEnvExports("/work/proj/.venv")

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Equal(t, "export VIRTUAL_ENV='/work/proj/.venv'", lines[0])
	assert.Equal(t, "export PATH='"+venv.BinDir("/work/proj/.venv")+"':\"$PATH\"", lines[1])
	assert.Equal(t, "unset PYTHONHOME", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "#"), "usage hint must be a comment so eval ignores it")
}

// TestFormatEnvExportsQuoting verifies that hostile characters in the
// environment path cannot break out of the quoted export.
func TestFormatEnvExportsQuoting(t *testing.T) {
	got := formatEnvExports("/work/my proj/$HOME/.venv")

	assert.Contains(t, got, "export VIRTUAL_ENV='/work/my proj/$HOME/.venv'")
	assert.NotContains(t, got, "VIRTUAL_ENV=/work/my proj", "value must stay quoted")
}

// TestShellQuote verifies POSIX single-quote escaping.
func TestShellQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "/plain/path", want: "'/plain/path'"},
		{input: "with space", want: "'with space'"},
		{input: "it's", want: `'it'\''s'`},
		{input: "$DOLLAR", want: "'$DOLLAR'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shellQuote(tt.input))
		})
	}
}
