package cmd

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/nautilus-project/nautilus/internal/codegen/generator"
	idlgen "github.com/nautilus-project/nautilus/internal/codegen/generator/idl"
	"github.com/nautilus-project/nautilus/internal/codegen/meta"
	"github.com/nautilus-project/nautilus/internal/term"
)

type Inspect struct {
	Dir string `help:"Program package directory containing Nautilus.toml" default:"." type:"existingdir" env:"NAUTILUS_DIR"`
}

// Run is called by Kong when the inspect command is executed.
func (c *Inspect) Run(logger *slog.Logger, out *term.Printer) error {
	r, err := generator.New(generator.Options{Dir: c.Dir}, logger).Analyze()
	if err != nil {
		return err
	}
	prog := r.Program

	out.Heading("%s %s (package %s)", prog.Name, prog.Version, prog.Package)
	out.Dim("fingerprint %s", r.IDL.Metadata.Fingerprint)

	if objs := prog.Objects(); len(objs) > 0 {
		out.Newline()
		out.Heading("Objects")
		rows := make([][]string, 0, len(objs))
		for _, o := range objs {
			var auth []string
			for _, s := range o.Subs {
				if s.Subtype == meta.SubtypeAuthority {
					auth = append(auth, s.Field)
				}
			}
			rows = append(rows, []string{o.Name, o.Table, strconv.Itoa(len(o.Fields)), strings.Join(auth, ",")})
		}
		out.Table([]string{"object", "table", "fields", "authorities"}, rows)
	}

	for _, v := range prog.Variants {
		out.Newline()
		out.Heading("%s (discriminant %d)", v.Name, v.Discriminant)
		if len(v.Args) > 0 {
			args := make([]string, len(v.Args))
			for i, a := range v.Args {
				args[i] = a.Name + ": " + idlgen.TypeOf(a.Shape).String()
			}
			out.Dim("args %s", strings.Join(args, ", "))
		}
		rows := make([][]string, 0, len(v.Accounts))
		for i, a := range v.Accounts {
			rows = append(rows, []string{strconv.Itoa(i), a.Name, string(a.Subtype), flags(a), a.Desc})
		}
		out.Table([]string{"#", "account", "type", "flags", "desc"}, rows)
	}
	return nil
}

func flags(a meta.RequiredAccount) string {
	var f []string
	if a.Mut {
		f = append(f, "mut")
	}
	if a.Signer {
		f = append(f, "signer")
	}
	if len(f) == 0 {
		return "-"
	}
	return strings.Join(f, " ")
}
