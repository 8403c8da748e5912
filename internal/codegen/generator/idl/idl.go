// Package idl projects the dispatcher IR onto the schema document.
package idl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nautilus-project/nautilus/internal/codegen/meta"
	"github.com/nautilus-project/nautilus/pkg/idl"
)

// Origin tags documents produced by this tool.
const Origin = "nautilus"

var ErrInconsistent = errors.New("idl does not match dispatcher")

// Build creates the schema of prog, fingerprint included.
func Build(prog *meta.Program) (*idl.Document, error) {
	doc := &idl.Document{
		Version:      prog.Version,
		Name:         prog.Name,
		Instructions: make([]idl.Instruction, 0, len(prog.Variants)),
		Accounts:     []idl.TypeDef{},
		Types:        make([]idl.TypeDef, 0, len(prog.Types)),
		Metadata:     idl.Metadata{Origin: Origin},
	}

	for _, v := range prog.Variants {
		ix := idl.Instruction{
			Name:         v.Name,
			Docs:         docs(v.Doc),
			Accounts:     make([]idl.Account, 0, len(v.Accounts)),
			Args:         make([]idl.Arg, 0, len(v.Args)),
			Discriminant: idl.Discriminant{Type: "u8", Value: v.Discriminant},
		}
		for _, a := range v.Accounts {
			ix.Accounts = append(ix.Accounts, idl.Account{
				Name:     a.Name,
				IsMut:    a.Mut,
				IsSigner: a.Signer,
				Type:     string(a.Subtype),
				Desc:     a.Desc,
			})
		}
		for _, a := range v.Args {
			ix.Args = append(ix.Args, idl.Arg{Name: a.Name, Type: TypeOf(a.Shape)})
		}
		if err := check(v, ix); err != nil {
			return nil, err
		}
		doc.Instructions = append(doc.Instructions, ix)
	}

	for _, o := range prog.Objects() {
		doc.Accounts = append(doc.Accounts, idl.TypeDef{
			Name: o.Name,
			Docs: docs(o.Doc),
			Type: idl.TypeDefBody{Kind: idl.KindStruct, Fields: fields(o.Fields)},
		})
	}

	for _, t := range prog.Types {
		def := idl.TypeDef{Name: t.Name, Docs: docs(t.Doc)}
		switch t.Kind {
		case meta.PlainEnum:
			def.Type.Kind = idl.KindEnum
			for _, ev := range t.Variants {
				def.Type.Variants = append(def.Type.Variants, idl.Variant{Name: ev.Name, Value: ev.Value})
			}
		default:
			def.Type.Kind = idl.KindStruct
			def.Type.Fields = fields(t.Fields)
		}
		doc.Types = append(doc.Types, def)
	}

	fp, err := doc.Fingerprint()
	if err != nil {
		return nil, err
	}
	doc.Metadata.Fingerprint = fp
	return doc, nil
}

// check enforces that the instruction mirrors the variant slot for slot.
func check(v meta.Variant, ix idl.Instruction) error {
	if len(ix.Accounts) != len(v.Accounts) {
		return fmt.Errorf("%w: %s has %d accounts, dispatcher consumes %d", ErrInconsistent, v.Name, len(ix.Accounts), len(v.Accounts))
	}
	if len(ix.Args) != len(v.Args) {
		return fmt.Errorf("%w: %s has %d args, payload carries %d", ErrInconsistent, v.Name, len(ix.Args), len(v.Args))
	}
	return nil
}

// TypeOf maps a schema shape to its IDL type.
func TypeOf(t meta.TypeExpr) idl.Type {
	switch t.Kind {
	case meta.TypePrimitive:
		return idl.Primitive(t.Name)
	case meta.TypePubkey:
		return idl.Primitive("publicKey")
	case meta.TypeBytes:
		return idl.Primitive("bytes")
	case meta.TypeVec:
		return idl.VecOf(TypeOf(*t.Elem))
	case meta.TypeArray:
		return idl.ArrayOf(TypeOf(*t.Elem), t.Len)
	case meta.TypeOption:
		return idl.OptionOf(TypeOf(*t.Elem))
	case meta.TypeDefined:
		return idl.Defined(t.Name)
	default:
		return idl.Primitive(t.String())
	}
}

func fields(fs []meta.Field) []idl.Field {
	out := make([]idl.Field, 0, len(fs))
	for _, f := range fs {
		out = append(out, idl.Field{Name: f.Name, Type: TypeOf(f.Shape)})
	}
	return out
}

func docs(doc string) []string {
	if doc == "" {
		return nil
	}
	return strings.Split(doc, "\n")
}
