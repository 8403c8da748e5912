package cmd

import (
	"io"
	"log/slog"

	"github.com/nautilus-project/nautilus/internal/codegen/generator"
	"github.com/nautilus-project/nautilus/internal/term"
)

type IDL struct {
	Dir    string `help:"Program package directory containing Nautilus.toml" default:"." type:"existingdir" env:"NAUTILUS_DIR"`
	OutDir string `help:"Directory for build artifacts (default from manifest, else <dir>/target)" env:"NAUTILUS_OUT_DIR"`
	Format string `help:"IDL format: json, yaml or toml (default from manifest, else json)" env:"NAUTILUS_IDL_FORMAT"`
	Stdout bool   `help:"Print the IDL instead of writing it"`
}

// Run is called by Kong when the idl command is executed.
func (c *IDL) Run(logger *slog.Logger, out *term.Printer, stdout io.Writer) error {
	format, err := parseFormat(c.Format)
	if err != nil {
		return err
	}
	gen := generator.New(generator.Options{
		Dir:       c.Dir,
		OutDir:    c.OutDir,
		IDLFormat: format,
		Backends:  []string{generator.BackendIDL},
	}, logger)

	if c.Stdout {
		r, err := gen.Render()
		if err != nil {
			return err
		}
		_, err = stdout.Write(r.Artifacts[0].Data)
		return err
	}

	r, err := gen.Generate()
	if err != nil {
		out.Failure("idl generation failed")
		return err
	}
	out.Success("wrote %s (fingerprint %s)", r.Artifacts[0].Path, r.IDL.Metadata.Fingerprint)
	return nil
}
