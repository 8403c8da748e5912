package cmd

import (
	"log/slog"

	"github.com/nautilus-project/nautilus/internal/codegen/generator"
	"github.com/nautilus-project/nautilus/internal/term"
	"github.com/nautilus-project/nautilus/pkg/idl"
)

type Build struct {
	Dir       string `help:"Program package directory containing Nautilus.toml" default:"." type:"existingdir" env:"NAUTILUS_DIR"`
	OutDir    string `help:"Directory for build artifacts (default from manifest, else <dir>/target)" env:"NAUTILUS_OUT_DIR"`
	IDLFormat string `name:"idl-format" help:"IDL format: json, yaml or toml (default from manifest, else json)" env:"NAUTILUS_IDL_FORMAT"`
	SkipIDL   bool   `name:"skip-idl" help:"Only write the dispatcher"`
	DryRun    bool   `help:"Render everything but write nothing"`
}

// Run is called by Kong when the build command is executed.
func (b *Build) Run(logger *slog.Logger, out *term.Printer) error {
	format, err := parseFormat(b.IDLFormat)
	if err != nil {
		return err
	}
	backends := []string{generator.BackendGo, generator.BackendIDL}
	if b.SkipIDL {
		backends = backends[:1]
	}
	gen := generator.New(generator.Options{
		Dir:       b.Dir,
		OutDir:    b.OutDir,
		IDLFormat: format,
		Backends:  backends,
	}, logger)

	out.Begin("Building " + b.Dir)
	var r *generator.Result
	if b.DryRun {
		r, err = gen.Render()
	} else {
		r, err = gen.Generate()
	}
	if err != nil {
		out.Failure("build failed")
		return err
	}

	verb := "wrote"
	if b.DryRun {
		verb = "would write"
	}
	for _, a := range r.Artifacts {
		out.Success("%s %s (%d bytes)", verb, a.Path, len(a.Data))
	}
	out.End("Built " + r.Manifest.Program.Name + " " + r.Manifest.Program.Version)
	return nil
}

// parseFormat leaves an empty value empty so the manifest default applies.
func parseFormat(s string) (idl.Format, error) {
	if s == "" {
		return "", nil
	}
	return idl.ParseFormat(s)
}
