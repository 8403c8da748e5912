package meta

// TypeID is the stable identifier the registry assigns to a resource type
// when it is discovered. All later references resolve through it.
type TypeID int

// NoType marks an unresolved resource reference.
const NoType TypeID = -1

// ObjectKind selects how a resource type is reconstructed at runtime.
type ObjectKind string

const (
	KindWallet                 ObjectKind = "wallet"
	KindMint                   ObjectKind = "mint"
	KindMetadata               ObjectKind = "metadata"
	KindToken                  ObjectKind = "token"
	KindAssociatedTokenAccount ObjectKind = "associatedTokenAccount"
	KindIndex                  ObjectKind = "index"
	KindRecord                 ObjectKind = "record"
)

// Subtype is the structural role of a required account.
type Subtype string

const (
	SubtypeSelf      Subtype = "self"
	SubtypePaired    Subtype = "paired"    // companion resource, e.g. a token's metadata
	SubtypeAuthority Subtype = "authority" // account that must sign for the resource
	SubtypeShared    Subtype = "shared"    // program-wide infrastructure, one per instruction
	SubtypePlain     Subtype = "plain"     // per-argument account with no special role
)

// SlotSpec declares one requirement of a resource type. Shared slots have a
// fixed Name; all others are named "<arg>_<Suffix>".
type SlotSpec struct {
	Name    string  `json:"name,omitempty"`
	Suffix  string  `json:"suffix,omitempty"`
	Subtype Subtype `json:"subtype"`
	Mut     bool    `json:"mut"`
	Signer  bool    `json:"signer"`
	Field   string  `json:"field,omitempty"` // constructor field fed by this slot (CreateAccounts, Authority)
	Desc    string  `json:"desc,omitempty"`
}

// ResourceType is a registered resource type together with its requirement
// tables. The self requirement is implicit and always comes first.
type ResourceType struct {
	ID           TypeID     `json:"id"`
	Name         string     `json:"name"`
	Pkg          string     `json:"pkg"` // import path; empty for program-local types
	Kind         ObjectKind `json:"kind"`
	Ctor         string     `json:"ctor"`
	Subs         []SlotSpec `json:"subs,omitempty"`
	CreateExtras []SlotSpec `json:"createExtras,omitempty"`
	Table        string     `json:"table,omitempty"`
	Fields       []Field    `json:"fields,omitempty"`
	Builtin      bool       `json:"builtin"`
	Doc          string     `json:"doc,omitempty"`
}

// RequiredAccount is one slot of a condensed account list.
type RequiredAccount struct {
	Name    string  `json:"name"` // identity
	Subtype Subtype `json:"subtype"`
	Mut     bool    `json:"mut"`
	Signer  bool    `json:"signer"`
	Field   string  `json:"field,omitempty"`
	Desc    string  `json:"desc,omitempty"`
}

// Capability is the wrapper a handler parameter uses over its resource type.
type Capability string

const (
	CapNone   Capability = ""
	CapCreate Capability = "Create"
	CapSigner Capability = "Signer"
	CapMut    Capability = "Mut"
)

// Caps are the capability flags of a resource argument.
type Caps struct {
	Create bool `json:"create"`
	Signer bool `json:"signer"`
	Mut    bool `json:"mut"`
}

// CapsFor derives flags from a wrapper; mut is implied by create and signer.
func CapsFor(c Capability) Caps {
	caps := Caps{Create: c == CapCreate, Signer: c == CapSigner, Mut: c == CapMut}
	caps.Mut = caps.Mut || caps.Create || caps.Signer
	return caps
}

// ParamKind distinguishes resource and plain handler parameters.
type ParamKind string

const (
	ParamResource ParamKind = "resource"
	ParamPlain    ParamKind = "plain"
)

// Param is a classified handler parameter.
type Param struct {
	Name     string     `json:"name"`
	Kind     ParamKind  `json:"kind"`
	Resource TypeID     `json:"resource"`
	Wrapper  Capability `json:"wrapper,omitempty"`
	Caps     Caps       `json:"caps"`
	Scope    string     `json:"scope,omitempty"` // per-call arena every wrapper layer is built in
	Field    Field      `json:"field"`           // plain parameters only
}

// StepKind distinguishes the two kinds of call plan entries.
type StepKind string

const (
	StepObject StepKind = "object"
	StepArg    StepKind = "arg"
)

// CallStep is one handler argument in declared order.
type CallStep struct {
	Kind  StepKind `json:"kind"`
	Param string   `json:"param"`
	// StepObject
	Resource TypeID     `json:"resource"`
	Wrapper  Capability `json:"wrapper,omitempty"`
	Caps     Caps       `json:"caps"`
	Scope    string     `json:"scope,omitempty"`
	Read     []int      `json:"read,omitempty"`   // indices into Variant.Accounts, self first
	Create   []int      `json:"create,omitempty"` // indices into Variant.Accounts
	// StepArg
	Arg int `json:"arg"` // index into Variant.Args
}

// Variant is one discriminant-tagged handler of the dispatcher.
type Variant struct {
	Discriminant uint8             `json:"discriminant"`
	Name         string            `json:"name"`    // PascalCase instruction name
	Handler      string            `json:"handler"` // Go function called
	Args         []Field           `json:"args"`
	Accounts     []RequiredAccount `json:"accounts"`
	Plan         []CallStep        `json:"plan"`
	Doc          string            `json:"doc,omitempty"`
}

// Program is the full analysis result consumed by every backend.
type Program struct {
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Package   string         `json:"package"`
	Dir       string         `json:"dir"`
	Resources []ResourceType `json:"resources"` // indexed by TypeID
	Types     []PlainType    `json:"types"`
	Variants  []Variant      `json:"variants"`
}

// Resource returns the resource type registered under id.
func (p *Program) Resource(id TypeID) (ResourceType, bool) {
	if id < 0 || int(id) >= len(p.Resources) {
		return ResourceType{}, false
	}
	return p.Resources[id], true
}

// Objects returns the program-local resource types.
func (p *Program) Objects() []ResourceType {
	var out []ResourceType
	for _, r := range p.Resources {
		if !r.Builtin {
			out = append(out, r)
		}
	}
	return out
}

// Tables lists the record tables of the program in registration order.
func (p *Program) Tables() []string {
	var out []string
	for _, r := range p.Objects() {
		if r.Kind == KindRecord {
			out = append(out, r.Table)
		}
	}
	return out
}
