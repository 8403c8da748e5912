package entry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nautilus-project/nautilus/internal/codegen/meta"
	"github.com/nautilus-project/nautilus/internal/codegen/registry"
	"github.com/nautilus-project/nautilus/internal/codegen/scanner"
)

const header = `package prog

import (
	"github.com/nautilus-project/nautilus/pkg/objects"
	"github.com/nautilus-project/nautilus/pkg/program"
)

var _ program.Pubkey

//nautilus:object authority=Owner
type Person struct {
	ID    uint32
	Name  string
	Owner program.Pubkey
}
`

func analyze(t *testing.T, body string) (*meta.Program, error) {
	t.Helper()
	disc, err := scanner.ScanSources("prog", map[string][]byte{"prog.go": []byte(header + body)})
	require.NoError(t, err)
	return Analyze(disc, Options{Name: "prog", Version: "0.1.0"})
}

func mustAnalyze(t *testing.T, body string) *meta.Program {
	t.Helper()
	prog, err := analyze(t, body)
	require.NoError(t, err)
	return prog
}

func names(accs []meta.RequiredAccount) []string {
	out := make([]string, len(accs))
	for i, a := range accs {
		out[i] = a.Name
	}
	return out
}

func TestScenarioReadOnlyResource(t *testing.T) {
	prog := mustAnalyze(t, `
//nautilus:instruction
func Greet(count uint32, wallet objects.Wallet) error { return nil }
`)
	require.Len(t, prog.Variants, 1)
	v := prog.Variants[0]
	assert.Equal(t, uint8(0), v.Discriminant)
	assert.Equal(t, "Greet", v.Name)
	assert.Equal(t, []string{"wallet"}, names(v.Accounts))
	assert.Equal(t, meta.SubtypeSelf, v.Accounts[0].Subtype)
	assert.False(t, v.Accounts[0].Mut)
	assert.False(t, v.Accounts[0].Signer)
	require.Len(t, v.Args, 1)
	assert.Equal(t, "count", v.Args[0].Name)

	require.Len(t, v.Plan, 2)
	assert.Equal(t, meta.StepArg, v.Plan[0].Kind)
	assert.Equal(t, 0, v.Plan[0].Arg)
	assert.Equal(t, meta.StepObject, v.Plan[1].Kind)
	assert.Equal(t, []int{0}, v.Plan[1].Read)
	assert.Empty(t, v.Plan[1].Create)
	assert.Equal(t, Scope, v.Plan[1].Scope)
}

func TestScenarioCreateWithSigner(t *testing.T) {
	tests := []struct {
		name      string
		signer    string
		want      []string
		signerPos int
	}{
		{"signer is the fee payer", "feePayer", []string{"new_wallet", "fee_payer", "system_program"}, 1},
		{"distinct signer", "payer", []string{"new_wallet", "fee_payer", "system_program", "payer"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustAnalyze(t, `
//nautilus:instruction
func CreateWallet(newWallet objects.Create[objects.Wallet], `+tt.signer+` objects.Signer[objects.Wallet]) error { return nil }
`)
			v := prog.Variants[0]
			assert.Equal(t, tt.want, names(v.Accounts))

			self := v.Accounts[0]
			assert.Equal(t, meta.SubtypeSelf, self.Subtype)
			assert.True(t, self.Mut)

			payer := v.Accounts[1]
			assert.Equal(t, meta.SubtypeShared, payer.Subtype)
			assert.True(t, payer.Mut)
			assert.True(t, payer.Signer)
			assert.Equal(t, "FeePayer", payer.Field)

			create := v.Plan[0]
			assert.Equal(t, meta.CapCreate, create.Wrapper)
			assert.Equal(t, meta.Caps{Create: true, Mut: true}, create.Caps)
			assert.Equal(t, []int{0}, create.Read)
			assert.Equal(t, []int{1, 2}, create.Create)

			sig := v.Plan[1]
			assert.Equal(t, meta.Caps{Signer: true, Mut: true}, sig.Caps)
			assert.Equal(t, []int{tt.signerPos}, sig.Read)
		})
	}
}

func TestScenarioSharedInfrastructureOnce(t *testing.T) {
	prog := mustAnalyze(t, `
//nautilus:instruction
func CreateTwo(a objects.Create[objects.Wallet], b objects.Create[objects.Mint], decimals uint8) error { return nil }
`)
	v := prog.Variants[0]
	assert.Equal(t, []string{"a", "fee_payer", "system_program", "b", "token_program", "b_mint_authority", "rent"}, names(v.Accounts))
	assert.Equal(t, []int{0}, v.Plan[0].Read)
	assert.Equal(t, []int{1, 2}, v.Plan[0].Create)
	assert.Equal(t, []int{3, 4}, v.Plan[1].Read)
	assert.Equal(t, []int{5, 1, 2, 6}, v.Plan[1].Create)
	assert.Equal(t, meta.StepArg, v.Plan[2].Kind)
}

func TestRecordRequirements(t *testing.T) {
	prog := mustAnalyze(t, `
//nautilus:instruction
func AddPerson(person objects.Create[objects.Record[Person]], name string) error { return nil }

//nautilus:instruction
func Rename(person objects.Mut[objects.Record[Person]], name string) error { return nil }
`)
	require.Len(t, prog.Variants, 2)
	add := prog.Variants[0]
	assert.Equal(t, []string{"person", "nautilus_index", "person_owner", "fee_payer", "system_program"}, names(add.Accounts))
	assert.True(t, add.Accounts[1].Mut)
	assert.Equal(t, meta.SubtypeAuthority, add.Accounts[2].Subtype)
	assert.Equal(t, "Owner", add.Accounts[2].Field)
	assert.True(t, add.Accounts[2].Signer)

	rename := prog.Variants[1]
	assert.Equal(t, uint8(1), rename.Discriminant)
	assert.Equal(t, []string{"person", "nautilus_index", "person_owner"}, names(rename.Accounts))

	rt, ok := prog.Resource(add.Plan[0].Resource)
	require.True(t, ok)
	assert.Equal(t, "Person", rt.Name)
	assert.Equal(t, meta.KindRecord, rt.Kind)
	assert.Equal(t, []string{"person"}, prog.Tables())
}

func TestAliasedImportAndShadowing(t *testing.T) {
	src := `package prog

import obj "github.com/nautilus-project/nautilus/pkg/objects"

type Wallet struct {
	Label string
}

//nautilus:instruction
func Label(w obj.Signer[obj.Wallet], info Wallet) error { return nil }
`
	disc, err := scanner.ScanSources("prog", map[string][]byte{"prog.go": []byte(src)})
	require.NoError(t, err)
	prog, err := Analyze(disc, Options{Name: "prog"})
	require.NoError(t, err)

	v := prog.Variants[0]
	assert.Equal(t, []string{"w"}, names(v.Accounts))
	require.Len(t, v.Args, 1)
	assert.Equal(t, "Wallet", v.Args[0].GoType)
	require.Len(t, prog.Types, 1)
	assert.Equal(t, "Wallet", prog.Types[0].Name)
}

func TestGenerationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"nested wrapper", `func A(x objects.Mut[objects.Signer[objects.Wallet]]) error { return nil }`, ErrUnsupportedWrapper},
		{"pointer to resource", `func A(x *objects.Wallet) error { return nil }`, ErrUnsupportedWrapper},
		{"slice of wrapped resource", `func A(x []objects.Mut[objects.Wallet]) error { return nil }`, ErrUnsupportedWrapper},
		{"bare program object", `func A(x Person) error { return nil }`, ErrUnsupportedWrapper},
		{"wrapper over unknown", `func A(x objects.Create[Missing]) error { return nil }`, ErrUnknownType},
		{"wrapper over plain", `func A(x objects.Mut[uint8]) error { return nil }`, ErrUnknownType},
		{"unknown objects type", `func A(x objects.Vault) error { return nil }`, ErrUnknownType},
		{"record over non-object", `func A(x objects.Record[uint8]) error { return nil }`, ErrUnknownType},
		{"undeclared plain type", `func A(x Missing) error { return nil }`, ErrUnknownType},
		{"platform int", `func A(x int) error { return nil }`, ErrUnsupportedType},
		{"map argument", `func A(x map[string]uint8) error { return nil }`, ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := analyze(t, "//nautilus:instruction\n"+tt.body+"\n")
			require.Error(t, err)
			assert.Nil(t, prog)
			assert.ErrorIs(t, err, tt.want)

			var genErr *GenerationError
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, "A", genErr.Handler)
		})
	}
}

func TestOneBadHandlerAbortsRun(t *testing.T) {
	prog, err := analyze(t, `
//nautilus:instruction
func Good(w objects.Wallet) error { return nil }

//nautilus:instruction
func Bad(w objects.Mut[objects.Mut[objects.Wallet]]) error { return nil }

//nautilus:instruction
func AlsoBad(x uintptr) error { return nil }
`)
	assert.Nil(t, prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad")
	assert.Contains(t, err.Error(), "AlsoBad")
}

func TestAssignDiscriminants(t *testing.T) {
	n := func(v int) *int { return &v }
	tests := []struct {
		name     string
		explicit []*int
		want     []uint8
		wantErr  bool
	}{
		{"sequential", []*int{nil, nil, nil}, []uint8{0, 1, 2}, false},
		{"explicit reserved first", []*int{nil, n(0), nil}, []uint8{1, 0, 2}, false},
		{"gaps filled lowest first", []*int{n(5), nil, n(1), nil}, []uint8{5, 0, 1, 2}, false},
		{"max value", []*int{n(255), nil}, []uint8{255, 0}, false},
		{"duplicate", []*int{n(3), n(3)}, nil, true},
		{"overflow", []*int{n(256)}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlers := make([]meta.Handler, len(tt.explicit))
			for i, d := range tt.explicit {
				handlers[i] = meta.Handler{Name: string(rune('A' + i)), Discriminant: d}
			}
			got, err := AssignDiscriminants(handlers)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDiscriminant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssignDiscriminantsExhausted(t *testing.T) {
	handlers := make([]meta.Handler, 257)
	for i := range handlers {
		handlers[i] = meta.Handler{Name: "H"}
	}
	_, err := AssignDiscriminants(handlers)
	assert.ErrorIs(t, err, ErrDiscriminant)
}

func TestCondenseProperties(t *testing.T) {
	prog := mustAnalyze(t, `
//nautilus:instruction
func Everything(
	w objects.Create[objects.Wallet],
	m objects.Create[objects.Mint],
	md objects.Create[objects.Metadata],
	tok objects.Create[objects.Token],
	ata objects.Create[objects.AssociatedTokenAccount],
	idx objects.Create[objects.Index],
	p objects.Create[objects.Record[Person]],
	feePayer objects.Signer[objects.Wallet],
	amount uint64,
) error {
	return nil
}

//nautilus:instruction discriminant=7
func Read(tok objects.Token, ata objects.AssociatedTokenAccount, p objects.Record[Person]) error { return nil }
`)
	seenDisc := map[uint8]bool{}
	for _, v := range prog.Variants {
		assert.False(t, seenDisc[v.Discriminant], "duplicate discriminant %d", v.Discriminant)
		seenDisc[v.Discriminant] = true

		set := map[string]bool{}
		for _, a := range v.Accounts {
			assert.False(t, set[a.Name], "%s listed twice in %s", a.Name, v.Name)
			set[a.Name] = true
		}
		for _, step := range v.Plan {
			for _, i := range append(step.Read, step.Create...) {
				assert.Less(t, i, len(v.Accounts))
			}
		}
	}

	fee := prog.Variants[0].Accounts[1]
	assert.Equal(t, "fee_payer", fee.Name)
	assert.True(t, fee.Signer)
	assert.True(t, fee.Mut)
}

func TestCreateRequirementsAreStrictSuperset(t *testing.T) {
	reg, err := registry.Build([]meta.ObjectDecl{{Name: "Person", Table: "person", Authorities: []string{"Owner"}}})
	require.NoError(t, err)
	for _, rt := range reg.Types() {
		t.Run(rt.Name, func(t *testing.T) {
			read := Resolve(rt, "x", meta.Caps{}, false)
			create := Resolve(rt, "x", meta.CapsFor(meta.CapCreate), true)
			assert.Greater(t, len(create), len(read))

			ids := map[string]bool{}
			for _, a := range create {
				ids[a.Name] = true
			}
			for _, a := range read {
				assert.True(t, ids[a.Name], "%s missing from create list", a.Name)
			}
			assert.Equal(t, "x", read[0].Name)
			assert.Equal(t, meta.SubtypeSelf, read[0].Subtype)
		})
	}
}

func TestCondenseMergesFlags(t *testing.T) {
	out, pos := Condense([]meta.RequiredAccount{
		{Name: "a", Subtype: meta.SubtypeSelf},
		{Name: "b", Subtype: meta.SubtypeShared},
		{Name: "a", Subtype: meta.SubtypeShared, Mut: true, Signer: true},
	})
	require.Len(t, out, 2)
	assert.Equal(t, []int{0, 1, 0}, pos)
	assert.Equal(t, meta.SubtypeSelf, out[0].Subtype)
	assert.True(t, out[0].Mut)
	assert.True(t, out[0].Signer)

	out, pos = Condense(nil)
	assert.Empty(t, out)
	assert.Empty(t, pos)
}

func TestBuildVariantUnresolved(t *testing.T) {
	reg := registry.New()
	h := meta.Handler{Name: "Broken"}
	_, err := BuildVariant(reg, h, []meta.Param{{Name: "x", Kind: meta.ParamResource, Resource: meta.NoType, Scope: Scope}}, 0)
	assert.ErrorIs(t, err, ErrUnresolved)

	_, err = BuildVariant(reg, h, []meta.Param{{Name: "x", Kind: meta.ParamResource, Resource: 0}}, 0)
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestDuplicateTable(t *testing.T) {
	_, err := analyze(t, `
//nautilus:object table=person
type Other struct{ ID uint32 }
`)
	assert.ErrorIs(t, err, ErrDuplicateTable)
}

func TestReachableTypesOnly(t *testing.T) {
	prog := mustAnalyze(t, `
type Kind uint8

const (
	KindA Kind = iota
	KindB
)

type Unused struct{ X uint8 }

type Payload struct {
	Kind  Kind
	Items []uint16
}

//nautilus:instruction
func Send(w objects.Wallet, p Payload) error { return nil }
`)
	var got []string
	for _, tp := range prog.Types {
		got = append(got, tp.Name)
	}
	assert.Equal(t, []string{"Payload", "Kind"}, got)
}
