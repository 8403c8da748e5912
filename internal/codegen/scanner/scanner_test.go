package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nautilus-project/nautilus/internal/codegen/meta"
)

const personSource = `package people

import (
	"github.com/nautilus-project/nautilus/pkg/objects"
	"github.com/nautilus-project/nautilus/pkg/program"
)

// Person is one row of the people table.
//
//nautilus:object table=people authority=Authority
type Person struct {
	ID        uint32 ` + "`nautilus:\"primary_key\"`" + `
	Name      string
	Authority program.Pubkey
	Tags      []string
	Avatar    []byte
	Friend    *program.Pubkey
	Scores    [4]uint16
	secret    uint8
}

type Color uint8

const (
	Red Color = iota
	Green
	Blue = Color(7)
)

type Settings struct {
	Theme Color
}

// CreatePerson adds a person.
//
//nautilus:instruction
func CreatePerson(person objects.Create[objects.Record[Person]], name string, authority program.Pubkey) error {
	return nil
}

//nautilus:instruction discriminant=9
func Rename(person objects.Mut[objects.Record[Person]], name string) error {
	return nil
}

func helper() {}
`

func TestScanSources(t *testing.T) {
	disc, err := ScanSources("people", map[string][]byte{"people.go": []byte(personSource)})
	require.NoError(t, err)

	assert.Equal(t, "people", disc.Package)
	require.Len(t, disc.Objects, 1)
	p := disc.Objects[0]
	assert.Equal(t, "Person", p.Name)
	assert.Equal(t, "people", p.Table)
	assert.Equal(t, "ID", p.PrimaryKey)
	assert.Equal(t, []string{"Authority"}, p.Authorities)
	assert.Equal(t, "Person is one row of the people table.", p.Doc)

	shapes := map[string]string{}
	for _, f := range p.Fields {
		shapes[f.Name] = f.Shape.String()
	}
	assert.Equal(t, map[string]string{
		"ID":        "u32",
		"Name":      "string",
		"Authority": "publicKey",
		"Tags":      "vec<string>",
		"Avatar":    "bytes",
		"Friend":    "option<publicKey>",
		"Scores":    "[u16; 4]",
	}, shapes)

	require.Len(t, disc.Types, 2)
	assert.Equal(t, "Settings", disc.Types[0].Name)
	assert.Equal(t, meta.PlainStruct, disc.Types[0].Kind)
	assert.Equal(t, "Color", disc.Types[1].Name)
	assert.Equal(t, meta.PlainEnum, disc.Types[1].Kind)
	assert.Equal(t, []meta.EnumVariant{{Name: "Red", Value: 0}, {Name: "Green", Value: 1}, {Name: "Blue", Value: 7}}, disc.Types[1].Variants)

	require.Len(t, disc.Handlers, 2)
	create := disc.Handlers[0]
	assert.Equal(t, "CreatePerson", create.Name)
	assert.Nil(t, create.Discriminant)
	assert.Equal(t, "CreatePerson adds a person.", create.Doc)
	require.Len(t, create.Params, 3)
	assert.Equal(t, "objects.Create[objects.Record[Person]]", create.Params[0].GoType)
	assert.Equal(t, "publicKey", create.Params[2].Shape.String())
	assert.Equal(t, "github.com/nautilus-project/nautilus/pkg/objects", create.Imports["objects"])

	rename := disc.Handlers[1]
	require.NotNil(t, rename.Discriminant)
	assert.Equal(t, 9, *rename.Discriminant)
}

func TestScanSourcesAliasedImports(t *testing.T) {
	src := `package alias

import (
	obj "github.com/nautilus-project/nautilus/pkg/objects"
	pg "github.com/nautilus-project/nautilus/pkg/program"
)

//nautilus:instruction
func SetOwner(w obj.Signer[obj.Wallet], owner pg.Pubkey, backups []*pg.Pubkey, seeds [2][4]uint8) error {
	return nil
}
`
	disc, err := ScanSources("alias", map[string][]byte{"alias.go": []byte(src)})
	require.NoError(t, err)
	require.Len(t, disc.Handlers, 1)

	var got []string
	for _, p := range disc.Handlers[0].Params {
		got = append(got, p.GoType)
	}
	assert.Equal(t, []string{
		"objects.Signer[objects.Wallet]",
		"program.Pubkey",
		"[]*program.Pubkey",
		"[2][4]uint8",
	}, got)
	assert.Equal(t, "publicKey", disc.Handlers[0].Params[1].Shape.String())
}

func TestScanSourcesErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing error result",
			src: `package p
//nautilus:instruction
func A(x uint8) {}
`,
			want: "must return exactly error",
		},
		{
			name: "unnamed parameter",
			src: `package p
//nautilus:instruction
func A(uint8) error { return nil }
`,
			want: "parameters must be named",
		},
		{
			name: "method handler",
			src: `package p
type T struct{}
//nautilus:instruction
func (T) A() error { return nil }
`,
			want: "plain top-level functions",
		},
		{
			name: "unknown directive",
			src: `package p
//nautilus:account
type A struct{ X uint8 }
`,
			want: "unknown directive",
		},
		{
			name: "object on non-struct",
			src: `package p
//nautilus:object
type A uint8
`,
			want: "non-generic struct",
		},
		{
			name: "bad authority type",
			src: `package p
//nautilus:object authority=Owner
type A struct{ Owner string }
`,
			want: "must be a program.Pubkey",
		},
		{
			name: "missing authority field",
			src: `package p
//nautilus:object authority=Owner
type A struct{ ID uint32 }
`,
			want: "does not exist",
		},
		{
			name: "negative discriminant",
			src: `package p
//nautilus:instruction discriminant=-1
func A() error { return nil }
`,
			want: "invalid discriminant",
		},
		{
			name: "unexpected argument",
			src: `package p
//nautilus:instruction table=x
func A() error { return nil }
`,
			want: `does not take "table"`,
		},
		{
			name: "syntax error",
			src:  `package p func`,
			want: "expected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScanSources("p", map[string][]byte{"p.go": []byte(tt.src)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScanSourcesCollectsAllErrors(t *testing.T) {
	src := `package p
//nautilus:instruction
func A() {}
//nautilus:instruction
func B(uint8) error { return nil }
`
	_, err := ScanSources("p", map[string][]byte{"p.go": []byte(src)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A: instruction handlers must return exactly error")
	assert.Contains(t, err.Error(), "B: parameters must be named")
}

func TestScanPackage(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	write("b.go", "package prog\n//nautilus:instruction\nfunc B() error { return nil }\n")
	write("a.go", "package prog\n//nautilus:instruction\nfunc A() error { return nil }\n")
	write("a_test.go", "package prog\n//nautilus:instruction\nfunc T() error { return nil }\n")
	write(GeneratedFile, "package prog\n//nautilus:instruction\nfunc G() error { return nil }\n")
	write("notes.txt", "not go")

	disc, err := ScanPackage(dir)
	require.NoError(t, err)
	require.Len(t, disc.Handlers, 2)
	assert.Equal(t, "A", disc.Handlers[0].Name)
	assert.Equal(t, "B", disc.Handlers[1].Name)
}

func TestScanPackageEmpty(t *testing.T) {
	_, err := ScanPackage(t.TempDir())
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestParseDirective(t *testing.T) {
	d, err := parseDirective("//nautilus:object table=people authority=Owner authority=Admin")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, DirectiveObject, d.Kind)
	assert.Equal(t, []string{"people"}, d.Values("table"))
	assert.Equal(t, []string{"Owner", "Admin"}, d.Values("authority"))

	d, err = parseDirective("// nautilus:object")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseDirective("//nautilus:object table")
	assert.Error(t, err)
}
