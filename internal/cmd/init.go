package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/nautilus-project/nautilus/internal/codegen/manifest"
	"github.com/nautilus-project/nautilus/internal/term"
)

type Init struct {
	Name  string `arg:"" help:"Program name"`
	Dir   string `help:"Directory to create the manifest in" default:"." type:"path"`
	Force bool   `help:"Overwrite an existing manifest"`
}

// Run is called by Kong when the init command is executed.
func (c *Init) Run(out *term.Printer) error {
	dest := filepath.Join(c.Dir, manifest.FileNames[0])
	if !c.Force {
		if existing, err := manifest.Find(c.Dir); err == nil {
			return errors.New(existing + " exists; use --force to overwrite")
		}
	}

	m := manifest.New(c.Name)
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	out.Success("created %s", dest)
	return nil
}
