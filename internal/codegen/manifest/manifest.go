// Package manifest loads the project manifest that names and versions a
// program. Nautilus.toml is preferred; Nautilus.yaml and Nautilus.yml are
// accepted.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/nautilus-project/nautilus/internal/codegen/common"
	"github.com/nautilus-project/nautilus/pkg/idl"
)

var (
	ErrManifestNotFound = errors.New("no Nautilus.toml or Nautilus.yaml found")
	ErrMissingMetadata  = errors.New("manifest is missing program metadata")
)

// FileNames are tried in order.
var FileNames = []string{"Nautilus.toml", "Nautilus.yaml", "Nautilus.yml"}

// Manifest is the parsed project file.
type Manifest struct {
	Program Program `toml:"program" yaml:"program"`
	Build   Build   `toml:"build" yaml:"build"`

	// Path is the file the manifest was read from.
	Path string `toml:"-" yaml:"-"`
}

type Program struct {
	Name        string `toml:"name" yaml:"name"`
	Version     string `toml:"version" yaml:"version"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`
}

// Build holds defaults for `nautilus build`; flags override them.
type Build struct {
	OutDir    string `toml:"out-dir,omitempty" yaml:"out-dir,omitempty"`
	IDLFormat string `toml:"idl-format,omitempty" yaml:"idl-format,omitempty"`
}

// Find returns the manifest path in dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrManifestNotFound, dir)
}

// Load finds, parses and validates the manifest in dir.
func Load(dir string) (*Manifest, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse decodes a manifest; ext selects the syntax (".toml", ".yaml", ".yml").
func Parse(data []byte, ext string) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest extension %q", ext)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the fields the generator depends on.
func (m *Manifest) Validate() error {
	if m.Program.Name == "" {
		return fmt.Errorf("%w: [program] name is empty", ErrMissingMetadata)
	}
	if m.Program.Version == "" {
		return fmt.Errorf("%w: [program] version is empty", ErrMissingMetadata)
	}
	if !common.ValidVersion(m.Program.Version) {
		return fmt.Errorf("invalid program version %q (expected x.y.z)", m.Program.Version)
	}
	if m.Build.IDLFormat != "" {
		if _, err := idl.ParseFormat(m.Build.IDLFormat); err != nil {
			return err
		}
	}
	return nil
}

// New returns a manifest with the defaults `nautilus init` writes.
func New(name string) *Manifest {
	return &Manifest{
		Program: Program{Name: name, Version: "0.1.0"},
		Build:   Build{OutDir: "target", IDLFormat: string(idl.FormatJSON)},
	}
}

// Marshal encodes m as TOML.
func (m *Manifest) Marshal() ([]byte, error) {
	return toml.Marshal(m)
}
