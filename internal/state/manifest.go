// Package state persists the provisioning manifest written into each
// environment directory.
//
// venvctl keeps no state of its own outside the environment it manages:
// after a successful provision, a small YAML manifest (venvctl.yml) is
// written INTO the environment directory. Removing the environment
// removes the manifest with it, so the two can never disagree about
// existence. The manifest is what status reads to distinguish a venvctl
// environment from a hand-made one and to detect version drift.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// FileName is the manifest file name inside the environment directory.
const FileName = "venvctl.yml"

// Manifest records how an environment was provisioned. It is written
// once per provision and treated as read-only afterwards.
type Manifest struct {
	// Name is the prompt label the environment was created with.
	Name string `yaml:"name"`

	// PythonVersion is the full interpreter version the environment was
	// created from (e.g. "3.9.18").
	PythonVersion string `yaml:"pythonVersion"`

	// PythonPath is the interpreter the venv was created from, NOT the
	// interpreter inside the venv.
	PythonPath string `yaml:"pythonPath"`

	// WorkspaceRoot is the project directory the environment belongs to.
	WorkspaceRoot string `yaml:"workspaceRoot"`

	// Tools lists the packages installed by the provisioning step.
	Tools []ToolRecord `yaml:"tools,omitempty"`

	// CreatedAt is the provisioning timestamp (UTC).
	CreatedAt time.Time `yaml:"createdAt"`
}

// ToolRecord is the manifest form of an installed tool.
type ToolRecord struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
}

// Path returns the manifest path for an environment directory.
func Path(envPath string) string {
	return filepath.Join(envPath, FileName)
}

// Write serializes the manifest and writes it into the environment
// directory with a do-not-edit header comment. The environment directory
// must already exist (provisioning creates it before the manifest is
// written).
func Write(envPath string, m *Manifest) error {
	yamlBytes, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}

	// Header comment marking the file as generated. The manifest is
	// rewritten on every provision, so manual edits do not survive.
	header := fmt.Sprintf(
		"# Auto-generated by venvctl for environment %q\n# DO NOT EDIT - this file is regenerated on each provision\n",
		m.Name,
	)

	if err := os.WriteFile(Path(envPath), append([]byte(header), yamlBytes...), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Read loads the manifest from an environment directory.
//
// A missing manifest yields a CLIError with ExitEnvNotFound — either the
// environment does not exist, or it exists but was not provisioned by
// venvctl (status reports such directories as broken or foreign).
func Read(envPath string) (*Manifest, error) {
	data, err := os.ReadFile(Path(envPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitEnvNotFound,
				fmt.Sprintf("no venvctl manifest at %s", Path(envPath)), err)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest at %s: %w", Path(envPath), err)
	}
	return &m, nil
}

// ToolRecords converts model tool installs into manifest records.
func ToolRecords(tools []model.ToolInstall) []ToolRecord {
	records := make([]ToolRecord, 0, len(tools))
	for _, t := range tools {
		records = append(records, ToolRecord{Name: t.Name, Version: t.Version})
	}
	return records
}

// ToolInstalls converts manifest records back into model tool installs.
func (m *Manifest) ToolInstalls() []model.ToolInstall {
	tools := make([]model.ToolInstall, 0, len(m.Tools))
	for _, r := range m.Tools {
		tools = append(tools, model.ToolInstall{Name: r.Name, Version: r.Version})
	}
	return tools
}
