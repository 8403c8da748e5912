// Package generator runs the pipeline: scan a program package, analyze it
// into the dispatcher IR and render every backend into memory. Files are
// written only after all backends succeeded.
package generator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/nautilus-project/nautilus/internal/codegen/entry"
	"github.com/nautilus-project/nautilus/internal/codegen/generator/golang"
	idlgen "github.com/nautilus-project/nautilus/internal/codegen/generator/idl"
	"github.com/nautilus-project/nautilus/internal/codegen/manifest"
	"github.com/nautilus-project/nautilus/internal/codegen/meta"
	"github.com/nautilus-project/nautilus/internal/codegen/scanner"
	"github.com/nautilus-project/nautilus/pkg/idl"
)

// Backend names.
const (
	BackendGo  = "go"
	BackendIDL = "idl"
)

// Artifact is one rendered output file.
type Artifact struct {
	Backend string
	Path    string
	Data    []byte
}

// Options select the program and where artifacts go.
type Options struct {
	// Dir is the program package directory; it also holds the manifest.
	Dir       string
	OutDir    string
	IDLFormat idl.Format
	Backends  []string
}

// Result is everything one run produced.
type Result struct {
	Manifest  *manifest.Manifest
	Discovery *meta.Discovery
	Program   *meta.Program
	IDL       *idl.Document
	Artifacts []Artifact
}

type backendFunc func(r *Result, opts Options) (Artifact, error)

var backends = map[string]backendFunc{
	BackendGo:  renderGo,
	BackendIDL: renderIDL,
}

// Backends lists the registered backend names.
func Backends() []string {
	out := make([]string, 0, len(backends))
	for k := range backends {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type Generator struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Generator {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if len(opts.Backends) == 0 {
		opts.Backends = []string{BackendGo, BackendIDL}
	}
	return &Generator{opts: opts, logger: logger}
}

// Analyze loads the manifest, scans the package and builds the IR and the
// schema document. Nothing is rendered.
func (g *Generator) Analyze() (*Result, error) {
	g.logger.Info("Loading manifest", "dir", g.opts.Dir)
	m, err := manifest.Load(g.opts.Dir)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Manifest loaded", "path", m.Path, "name", m.Program.Name, "version", m.Program.Version)
	if g.opts.OutDir == "" && m.Build.OutDir != "" {
		g.opts.OutDir = m.Build.OutDir
		if !filepath.IsAbs(g.opts.OutDir) {
			g.opts.OutDir = filepath.Join(g.opts.Dir, g.opts.OutDir)
		}
	}
	if g.opts.IDLFormat == "" && m.Build.IDLFormat != "" {
		f, err := idl.ParseFormat(m.Build.IDLFormat)
		if err != nil {
			return nil, err
		}
		g.opts.IDLFormat = f
	}

	g.logger.Info("Scanning program package")
	disc, err := scanner.ScanPackage(g.opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", g.opts.Dir, err)
	}
	g.logger.Info("Found declarations",
		"package", disc.Package,
		"objects", len(disc.Objects),
		"types", len(disc.Types),
		"handlers", len(disc.Handlers))

	g.logger.Debug("Analyzing handlers")
	prog, err := entry.Analyze(disc, entry.Options{Name: m.Program.Name, Version: m.Program.Version})
	if err != nil {
		return nil, err
	}
	for _, v := range prog.Variants {
		g.logger.Debug("Built instruction",
			"name", v.Name,
			"discriminant", v.Discriminant,
			"accounts", len(v.Accounts),
			"args", len(v.Args))
	}
	g.logger.Info("Built instructions", "count", len(prog.Variants))

	doc, err := idlgen.Build(prog)
	if err != nil {
		return nil, err
	}
	return &Result{Manifest: m, Discovery: disc, Program: prog, IDL: doc}, nil
}

// Render runs Analyze and every selected backend. Nothing is written.
func (g *Generator) Render() (*Result, error) {
	r, err := g.Analyze()
	if err != nil {
		return nil, err
	}
	for _, name := range g.opts.Backends {
		render, ok := backends[name]
		if !ok {
			return nil, fmt.Errorf("unsupported backend '%s' (supported: %v)", name, Backends())
		}
		a, err := render(r, g.opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		a.Backend = name
		g.logger.Debug("Rendered artifact", "backend", name, "path", a.Path, "bytes", len(a.Data))
		r.Artifacts = append(r.Artifacts, a)
	}
	return r, nil
}

// Generate renders all backends and then writes the artifacts.
func (g *Generator) Generate() (*Result, error) {
	r, err := g.Render()
	if err != nil {
		return nil, err
	}
	if err := Write(r.Artifacts); err != nil {
		return nil, err
	}
	for _, a := range r.Artifacts {
		g.logger.Info("Wrote artifact", "backend", a.Backend, "path", a.Path)
	}
	return r, nil
}

// Write stores every artifact, creating parent directories.
func Write(artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory for %s: %w", a.Path, err)
		}
		if err := os.WriteFile(a.Path, a.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", a.Path, err)
		}
	}
	return nil
}

func renderGo(r *Result, opts Options) (Artifact, error) {
	src, err := golang.Render(r.Program, r.IDL.Metadata.Fingerprint)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: filepath.Join(opts.Dir, golang.FileName), Data: src}, nil
}

func renderIDL(r *Result, opts Options) (Artifact, error) {
	format := opts.IDLFormat
	if format == "" {
		format = idl.FormatJSON
	}
	data, err := idl.Encode(r.IDL, format)
	if err != nil {
		return Artifact{}, err
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Join(opts.Dir, "target")
	}
	return Artifact{Path: IDLPath(outDir, r.Program.Name, format), Data: data}, nil
}

// IDLPath is where the schema of program name is written under outDir.
func IDLPath(outDir, name string, format idl.Format) string {
	return filepath.Join(outDir, "idl", name+format.Ext())
}
