// Package registry assigns every resource type known to one generation run a
// stable meta.TypeID. Built-in types from pkg/objects are registered first,
// followed by the program's own //nautilus:object types in discovery order.
// All later references resolve through (import path, name) keys, so a local
// type that shadows a built-in name stays a distinct type.
package registry

import (
	"errors"
	"fmt"

	"github.com/nautilus-project/nautilus/internal/codegen/common"
	"github.com/nautilus-project/nautilus/internal/codegen/meta"
)

// ObjectsPkg is the import path of the resource library.
const ObjectsPkg = "github.com/nautilus-project/nautilus/pkg/objects"

// ProgramPkg is the import path of the runtime package.
const ProgramPkg = "github.com/nautilus-project/nautilus/pkg/program"

// RecordCarrier is the generic objects type user objects are referenced through.
const RecordCarrier = "Record"

var ErrDuplicateType = errors.New("duplicate resource type")

// Key identifies a Go type by import path and name. Program-local types use
// an empty Pkg.
type Key struct {
	Pkg  string
	Name string
}

func (k Key) String() string {
	if k.Pkg == "" {
		return k.Name
	}
	return k.Pkg + "." + k.Name
}

// Registry is the type table of one run. It is filled in a single pass
// before any handler is classified and only read afterwards.
type Registry struct {
	types    []meta.ResourceType
	byKey    map[Key]meta.TypeID
	wrappers map[Key]meta.Capability
}

// New returns a registry holding the built-in resource types and wrappers.
func New() *Registry {
	r := &Registry{
		byKey: make(map[Key]meta.TypeID),
		wrappers: map[Key]meta.Capability{
			{ObjectsPkg, "Create"}: meta.CapCreate,
			{ObjectsPkg, "Signer"}: meta.CapSigner,
			{ObjectsPkg, "Mut"}:    meta.CapMut,
		},
	}
	for _, b := range builtins() {
		if _, err := r.register(Key{ObjectsPkg, b.Name}, b); err != nil {
			panic(err)
		}
	}
	return r
}

// Build registers the program's object declarations on top of the built-ins.
// Every duplicate is reported; the registry is still usable for the rest.
func Build(objs []meta.ObjectDecl) (*Registry, error) {
	r := New()
	var errs []error
	for _, o := range objs {
		if _, err := r.register(Key{Name: o.Name}, userObject(o)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Pos, err))
		}
	}
	return r, errors.Join(errs...)
}

func (r *Registry) register(k Key, rt meta.ResourceType) (meta.TypeID, error) {
	if _, ok := r.byKey[k]; ok {
		return meta.NoType, fmt.Errorf("%w: %s", ErrDuplicateType, k)
	}
	id := meta.TypeID(len(r.types))
	rt.ID = id
	rt.Pkg = k.Pkg
	r.types = append(r.types, rt)
	r.byKey[k] = id
	return id, nil
}

// Lookup resolves a type reference. Record carriers are not resource types on
// their own and never match.
func (r *Registry) Lookup(pkg, name string) (meta.TypeID, bool) {
	id, ok := r.byKey[Key{pkg, name}]
	return id, ok
}

// Wrapper reports whether (pkg, name) is a capability wrapper.
func (r *Registry) Wrapper(pkg, name string) (meta.Capability, bool) {
	c, ok := r.wrappers[Key{pkg, name}]
	return c, ok
}

// IsCarrier reports whether (pkg, name) is the user-object carrier.
func (r *Registry) IsCarrier(pkg, name string) bool {
	return pkg == ObjectsPkg && name == RecordCarrier
}

// Type returns the resource type with the given id.
func (r *Registry) Type(id meta.TypeID) (meta.ResourceType, bool) {
	if id < 0 || int(id) >= len(r.types) {
		return meta.ResourceType{}, false
	}
	return r.types[id], true
}

// Types returns all registered types indexed by TypeID.
func (r *Registry) Types() []meta.ResourceType {
	out := make([]meta.ResourceType, len(r.types))
	copy(out, r.types)
	return out
}

var (
	feePayer      = meta.SlotSpec{Name: "fee_payer", Subtype: meta.SubtypeShared, Mut: true, Signer: true, Field: "FeePayer", Desc: "pays for account creation"}
	systemProgram = meta.SlotSpec{Name: "system_program", Subtype: meta.SubtypeShared, Field: "SystemProgram", Desc: "system program"}
	rentSysvar    = meta.SlotSpec{Name: "rent", Subtype: meta.SubtypeShared, Field: "Rent", Desc: "rent sysvar"}
	mintAuthority = meta.SlotSpec{Suffix: "mint_authority", Subtype: meta.SubtypeAuthority, Signer: true, Field: "MintAuthority", Desc: "mint authority"}

	tokenProgram           = meta.SlotSpec{Name: "token_program", Subtype: meta.SubtypeShared, Desc: "token program"}
	tokenMetadataProgram   = meta.SlotSpec{Name: "token_metadata_program", Subtype: meta.SubtypeShared, Desc: "token metadata program"}
	associatedTokenProgram = meta.SlotSpec{Name: "associated_token_program", Subtype: meta.SubtypeShared, Desc: "associated token program"}
	nautilusIndex          = meta.SlotSpec{Name: "nautilus_index", Subtype: meta.SubtypeShared, Mut: true, Desc: "program record index"}
)

func builtins() []meta.ResourceType {
	mintExtras := []meta.SlotSpec{mintAuthority, feePayer, systemProgram, rentSysvar}
	basicExtras := []meta.SlotSpec{feePayer, systemProgram}
	return []meta.ResourceType{
		{Name: "Wallet", Kind: meta.KindWallet, Ctor: "NewWallet", CreateExtras: basicExtras, Builtin: true},
		{Name: "Mint", Kind: meta.KindMint, Ctor: "NewMint", Subs: []meta.SlotSpec{tokenProgram}, CreateExtras: mintExtras, Builtin: true},
		{Name: "Metadata", Kind: meta.KindMetadata, Ctor: "NewMetadata", Subs: []meta.SlotSpec{tokenMetadataProgram}, CreateExtras: mintExtras, Builtin: true},
		{
			Name: "Token", Kind: meta.KindToken, Ctor: "NewToken",
			Subs: []meta.SlotSpec{
				{Suffix: "metadata", Subtype: meta.SubtypePaired, Mut: true, Desc: "token metadata"},
				tokenProgram,
				tokenMetadataProgram,
			},
			CreateExtras: mintExtras,
			Builtin:      true,
		},
		{
			Name: "AssociatedTokenAccount", Kind: meta.KindAssociatedTokenAccount, Ctor: "NewAssociatedTokenAccount",
			Subs: []meta.SlotSpec{
				{Suffix: "mint", Subtype: meta.SubtypePlain, Desc: "mint of the token account"},
				tokenProgram,
				associatedTokenProgram,
			},
			CreateExtras: basicExtras,
			Builtin:      true,
		},
		{Name: "Index", Kind: meta.KindIndex, Ctor: "NewIndex", CreateExtras: basicExtras, Builtin: true},
	}
}

func userObject(o meta.ObjectDecl) meta.ResourceType {
	subs := []meta.SlotSpec{nautilusIndex}
	for _, a := range o.Authorities {
		subs = append(subs, meta.SlotSpec{
			Suffix:  common.ToSnakeCase(a),
			Subtype: meta.SubtypeAuthority,
			Signer:  true,
			Field:   a,
			Desc:    "authority stored in " + a,
		})
	}
	return meta.ResourceType{
		Name:         o.Name,
		Kind:         meta.KindRecord,
		Ctor:         "NewRecord",
		Subs:         subs,
		CreateExtras: []meta.SlotSpec{feePayer, systemProgram},
		Table:        o.Table,
		Fields:       o.Fields,
		Doc:          o.Doc,
	}
}
