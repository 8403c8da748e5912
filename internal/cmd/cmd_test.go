package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nautilus-project/nautilus/internal/codegen/manifest"
	"github.com/nautilus-project/nautilus/internal/term"
	"github.com/nautilus-project/nautilus/pkg/idl"
)

const programSource = `package wallets

import "github.com/nautilus-project/nautilus/pkg/objects"

//nautilus:instruction
func Transfer(from objects.Signer[objects.Wallet], to objects.Mut[objects.Wallet], amount uint64) error {
	return nil
}

//nautilus:instruction
func Open(wallet objects.Create[objects.Wallet]) error {
	return nil
}
`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	m := manifest.New("wallets")
	data, err := m.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Nautilus.toml"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wallets.go"), []byte(programSource), 0o644))
	return dir
}

func TestBuildRun(t *testing.T) {
	dir := project(t)
	var out bytes.Buffer

	require.NoError(t, (&Build{Dir: dir}).Run(discard(), term.New(&out, true)))

	assert.FileExists(t, filepath.Join(dir, "nautilus_entry.go"))
	assert.FileExists(t, filepath.Join(dir, "target", "idl", "wallets.json"))
	assert.Contains(t, out.String(), "✓ wrote ")
	assert.Contains(t, out.String(), "Built wallets 0.1.0")
}

func TestBuildDryRunAndSkipIDL(t *testing.T) {
	dir := project(t)
	var out bytes.Buffer

	require.NoError(t, (&Build{Dir: dir, DryRun: true, SkipIDL: true}).Run(discard(), term.New(&out, true)))

	assert.NoFileExists(t, filepath.Join(dir, "nautilus_entry.go"))
	assert.NoDirExists(t, filepath.Join(dir, "target"))
	assert.Contains(t, out.String(), "would write "+filepath.Join(dir, "nautilus_entry.go"))
	assert.NotContains(t, out.String(), "wallets.json")
}

func TestBuildBadFormat(t *testing.T) {
	err := (&Build{Dir: project(t), IDLFormat: "xml"}).Run(discard(), term.New(io.Discard, true))
	assert.ErrorIs(t, err, idl.ErrUnsupportedFormat)
}

func TestIDLStdout(t *testing.T) {
	dir := project(t)
	var stdout bytes.Buffer

	require.NoError(t, (&IDL{Dir: dir, Stdout: true}).Run(discard(), term.New(io.Discard, true), &stdout))

	doc, err := idl.Decode(stdout.Bytes(), idl.FormatJSON)
	require.NoError(t, err)
	require.Len(t, doc.Instructions, 2)
	assert.Equal(t, "Open", doc.Instructions[1].Name)
	assert.NoDirExists(t, filepath.Join(dir, "target"))
}

func TestIDLWrite(t *testing.T) {
	dir := project(t)
	out := t.TempDir()
	require.NoError(t, (&IDL{Dir: dir, OutDir: out, Format: "toml"}).Run(discard(), term.New(io.Discard, true), io.Discard))
	assert.FileExists(t, filepath.Join(out, "idl", "wallets.toml"))
	assert.NoFileExists(t, filepath.Join(dir, "nautilus_entry.go"))
}

func TestInspect(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&Inspect{Dir: project(t)}).Run(discard(), term.New(&out, true)))

	s := out.String()
	assert.Contains(t, s, "wallets 0.1.0 (package wallets)")
	assert.Contains(t, s, "Transfer (discriminant 0)")
	assert.Contains(t, s, "args amount: u64")
	assert.Contains(t, s, "Open (discriminant 1)")
	assert.Contains(t, s, "fee_payer")
	assert.Contains(t, s, "mut signer")
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wallets")
	p := term.New(io.Discard, true)

	require.NoError(t, (&Init{Name: "wallets", Dir: dir}).Run(p))
	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "wallets", m.Program.Name)

	assert.Error(t, (&Init{Name: "wallets", Dir: dir}).Run(p))
	assert.NoError(t, (&Init{Name: "wallets", Dir: dir, Force: true}).Run(p))
	assert.ErrorIs(t, (&Init{Name: "", Dir: t.TempDir()}).Run(p), manifest.ErrMissingMetadata)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	p := term.New(io.Discard, true)

	dest := filepath.Join(dir, "build.json")
	require.NoError(t, (&ConfigInit{Command: "build", Format: "json", Output: dest}).Run(p))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ".", got["dir"])
	assert.Equal(t, "", got["out-dir"])
	assert.Equal(t, false, got["dry-run"])
	assert.Contains(t, got, "idl-format")
	assert.Contains(t, got, "skip-idl")
	assert.Equal(t, map[string]any{"level": "info", "file": ""}, got["log"])

	assert.Error(t, (&ConfigInit{Command: "build", Format: "json", Output: dest}).Run(p))

	for _, format := range []string{"yaml", "toml"} {
		out := filepath.Join(dir, "sub", "inspect."+format)
		require.NoError(t, (&ConfigInit{Command: "inspect", Format: format, Output: out}).Run(p))
		assert.FileExists(t, out)
	}
	assert.Error(t, (&ConfigInit{Command: "build", Format: "ini"}).Run(p))
}

func TestCLIParses(t *testing.T) {
	dir := project(t)
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"--log.level=debug", "build", "--dir", dir, "--idl-format", "yaml", "--skip-idl"})
	require.NoError(t, err)
	assert.Equal(t, "build", ctx.Command())
	assert.Equal(t, "debug", cli.Log.Level)
	assert.Equal(t, "yaml", cli.Build.IDLFormat)
	assert.True(t, cli.Build.SkipIDL)

	ctx, err = parser.Parse([]string{"config", "init", "idl", "--format", "toml"})
	require.NoError(t, err)
	assert.Equal(t, "config init <command>", ctx.Command())
}

func TestConfigKey(t *testing.T) {
	type sample struct {
		OutDir    string
		IDLFormat string `name:"idl-format"`
		Dir       string
	}
	typ := reflect.TypeOf(sample{})
	assert.Equal(t, "out-dir", configKey(typ.Field(0)))
	assert.Equal(t, "idl-format", configKey(typ.Field(1)))
	assert.Equal(t, "dir", configKey(typ.Field(2)))
}
