package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnvStatusIsValid verifies that only the four defined statuses are
// considered valid.
func TestEnvStatusIsValid(t *testing.T) {
	valid := []EnvStatus{StatusReady, StatusMissing, StatusStale, StatusBroken}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "status %q should be valid", s)
	}

	invalid := []EnvStatus{"", "running", "Ready", "gone"}
	for _, s := range invalid {
		assert.False(t, s.IsValid(), "status %q should be invalid", s)
	}
}

// TestParseEnvStatus verifies string-to-status conversion, including
// case normalization and rejection of unknown values.
func TestParseEnvStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    EnvStatus
		wantErr bool
	}{
		{input: "ready", want: StatusReady},
		{input: "READY", want: StatusReady},
		{input: "missing", want: StatusMissing},
		{input: "stale", want: StatusStale},
		{input: "broken", want: StatusBroken},
		{input: "", wantErr: true},
		{input: "active", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEnvStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestValidatePrompt verifies the prompt label constraints: alphanumeric
// plus hyphens, starting and ending with an alphanumeric character.
func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		wantErr bool
	}{
		{name: "simple name", prompt: "smot"},
		{name: "with hyphen", prompt: "my-project"},
		{name: "single character", prompt: "a"},
		{name: "mixed case and digits", prompt: "Proj2"},
		{name: "empty", prompt: "", wantErr: true},
		{name: "leading hyphen", prompt: "-smot", wantErr: true},
		{name: "trailing hyphen", prompt: "smot-", wantErr: true},
		{name: "contains space", prompt: "my project", wantErr: true},
		{name: "contains slash", prompt: "my/project", wantErr: true},
		{name: "shell metacharacters", prompt: "a$(rm)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrompt(tt.prompt)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestValidatePythonVersion verifies that only dotted numeric version
// identifiers are accepted.
func TestValidatePythonVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{version: "3.9"},
		{version: "3.9.18"},
		{version: "3.12"},
		{version: "", wantErr: true},
		{version: "3", wantErr: true},
		{version: "python3.9", wantErr: true},
		{version: "3.9.1.2", wantErr: true},
		{version: "3.x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := ValidatePythonVersion(tt.version)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestToolInstallString verifies the pip requirement formatting of
// installed tools.
func TestToolInstallString(t *testing.T) {
	assert.Equal(t, "pip-tools==7.4.1", ToolInstall{Name: "pip-tools", Version: "7.4.1"}.String())
	assert.Equal(t, "pip-tools", ToolInstall{Name: "pip-tools"}.String())
}

// TestCLIError verifies error message formatting and unwrapping behavior
// for the exit-code-carrying error type.
func TestCLIError(t *testing.T) {
	underlying := errors.New("exit status 1")

	wrapped := WrapCLIError(ExitVenvCreateFailed, "venv creation failed", underlying)
	assert.Equal(t, "venv creation failed: exit status 1", wrapped.Error())
	assert.Equal(t, ExitVenvCreateFailed, wrapped.Code)
	assert.ErrorIs(t, wrapped, underlying, "Unwrap should expose the underlying error")

	plain := NewCLIError(ExitUserCancelled, "operation cancelled by user")
	assert.Equal(t, "operation cancelled by user", plain.Error())
	assert.Nil(t, plain.Unwrap())
}
