package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nautilus-project/nautilus/internal/codegen/entry"
	"github.com/nautilus-project/nautilus/internal/codegen/meta"
	"github.com/nautilus-project/nautilus/internal/codegen/scanner"
	"github.com/nautilus-project/nautilus/pkg/idl"
)

const source = `package people

import (
	"github.com/nautilus-project/nautilus/pkg/objects"
	"github.com/nautilus-project/nautilus/pkg/program"
)

type Role uint8

const (
	Reader Role = iota
	Writer
)

type Profile struct {
	Role  Role
	Links []string
}

// Person is a row.
//
//nautilus:object authority=Authority
type Person struct {
	ID        uint32
	Authority program.Pubkey
	Profile   *Profile
	Seed      [8]uint8
}

// Register stores a new person.
//
//nautilus:instruction
func Register(person objects.Create[objects.Record[Person]], id uint32, payer objects.Signer[objects.Wallet]) error {
	return nil
}
`

func build(t *testing.T) (*meta.Program, *idl.Document) {
	t.Helper()
	disc, err := scanner.ScanSources("people", map[string][]byte{"people.go": []byte(source)})
	require.NoError(t, err)
	prog, err := entry.Analyze(disc, entry.Options{Name: "people", Version: "0.2.0"})
	require.NoError(t, err)
	doc, err := Build(prog)
	require.NoError(t, err)
	return prog, doc
}

func TestBuild(t *testing.T) {
	prog, doc := build(t)

	assert.Equal(t, "people", doc.Name)
	assert.Equal(t, "0.2.0", doc.Version)
	assert.Equal(t, Origin, doc.Metadata.Origin)
	assert.Len(t, doc.Metadata.Fingerprint, 64)

	require.Len(t, doc.Instructions, 1)
	ix := doc.Instructions[0]
	assert.Equal(t, "Register", ix.Name)
	assert.Equal(t, []string{"Register stores a new person."}, ix.Docs)
	assert.Equal(t, idl.Discriminant{Type: "u8", Value: 0}, ix.Discriminant)
	require.Len(t, ix.Accounts, len(prog.Variants[0].Accounts))

	byName := map[string]idl.Account{}
	for _, a := range ix.Accounts {
		byName[a.Name] = a
	}
	assert.Equal(t, idl.Account{Name: "person", IsMut: true, Type: "self", Desc: "Person"}, byName["person"])
	assert.Equal(t, "authority", byName["person_authority"].Type)
	assert.True(t, byName["fee_payer"].IsSigner)
	assert.True(t, byName["payer"].IsSigner)
	assert.Equal(t, []idl.Arg{{Name: "id", Type: idl.Primitive("u32")}}, ix.Args)

	require.Len(t, doc.Accounts, 1)
	person := doc.Accounts[0]
	assert.Equal(t, "Person", person.Name)
	assert.Equal(t, idl.KindStruct, person.Type.Kind)
	got := map[string]string{}
	for _, f := range person.Type.Fields {
		got[f.Name] = f.Type.String()
	}
	assert.Equal(t, map[string]string{
		"ID":        "u32",
		"Authority": "publicKey",
		"Profile":   "option<Profile>",
		"Seed":      "[u8; 8]",
	}, got)

	require.Len(t, doc.Types, 2)
	assert.Equal(t, "Profile", doc.Types[0].Name)
	assert.Equal(t, "vec<string>", doc.Types[0].Type.Fields[1].Type.String())
	assert.Equal(t, "Role", doc.Types[1].Name)
	assert.Equal(t, idl.KindEnum, doc.Types[1].Type.Kind)
	assert.Equal(t, []idl.Variant{{Name: "Reader", Value: 0}, {Name: "Writer", Value: 1}}, doc.Types[1].Type.Variants)
}

func TestBuildFingerprintStable(t *testing.T) {
	_, a := build(t)
	_, b := build(t)
	assert.Equal(t, a.Metadata.Fingerprint, b.Metadata.Fingerprint)
}

func TestCheck(t *testing.T) {
	v := meta.Variant{
		Name:     "Pay",
		Accounts: []meta.RequiredAccount{{Name: "from"}, {Name: "to"}},
		Args:     []meta.Field{{Name: "amount"}},
	}
	tests := []struct {
		name string
		ix   idl.Instruction
		ok   bool
	}{
		{"match", idl.Instruction{Accounts: make([]idl.Account, 2), Args: make([]idl.Arg, 1)}, true},
		{"missing account", idl.Instruction{Accounts: make([]idl.Account, 1), Args: make([]idl.Arg, 1)}, false},
		{"extra arg", idl.Instruction{Accounts: make([]idl.Account, 2), Args: make([]idl.Arg, 2)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := check(v, tt.ix)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInconsistent)
		})
	}
}
