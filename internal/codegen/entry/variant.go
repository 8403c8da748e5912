package entry

import (
	"fmt"

	"github.com/nautilus-project/nautilus/internal/codegen/common"
	"github.com/nautilus-project/nautilus/internal/codegen/meta"
)

// BuildVariant assembles the payload shape, condensed account list and call
// plan of one handler from its classified parameters.
func BuildVariant(tt TypeTable, h meta.Handler, params []meta.Param, discriminant uint8) (meta.Variant, error) {
	v := meta.Variant{
		Discriminant: discriminant,
		Name:         common.ToIdentifier(h.Name),
		Handler:      h.Name,
		Doc:          h.Doc,
		Args:         []meta.Field{},
	}

	type span struct{ start, read, end int }
	var (
		all   []meta.RequiredAccount
		spans = make([]span, len(params))
	)
	idents := make(map[string]string, len(params))
	for i, p := range params {
		ident := common.ToSnakeCase(p.Name)
		if prev, ok := idents[ident]; ok {
			return meta.Variant{}, &GenerationError{Handler: h.Name, Pos: h.Pos, Type: p.Name, Err: ErrUnsupportedType, Reason: "collides with parameter " + prev}
		}
		idents[ident] = p.Name

		switch p.Kind {
		case meta.ParamResource:
			rt, ok := tt.Type(p.Resource)
			if !ok || p.Scope == "" || rt.Ctor == "" {
				return meta.Variant{}, &GenerationError{
					Handler: h.Name,
					Pos:     h.Pos,
					Type:    fmt.Sprintf("%s (type id %d)", p.Name, p.Resource),
					Err:     ErrUnresolved,
				}
			}
			reqs := Resolve(rt, common.ToSnakeCase(p.Name), p.Caps, p.Caps.Create)
			spans[i] = span{start: len(all), read: len(all) + 1 + len(rt.Subs), end: len(all) + len(reqs)}
			all = append(all, reqs...)
		case meta.ParamPlain:
			v.Args = append(v.Args, p.Field)
		default:
			return meta.Variant{}, &GenerationError{Handler: h.Name, Pos: h.Pos, Type: p.Name, Err: ErrUnresolved, Reason: "parameter was never classified"}
		}
	}

	var pos []int
	v.Accounts, pos = Condense(all)
	if v.Accounts == nil {
		v.Accounts = []meta.RequiredAccount{}
	}

	arg := 0
	for i, p := range params {
		if p.Kind == meta.ParamPlain {
			v.Plan = append(v.Plan, meta.CallStep{Kind: meta.StepArg, Param: p.Name, Resource: meta.NoType, Arg: arg})
			arg++
			continue
		}
		s := spans[i]
		v.Plan = append(v.Plan, meta.CallStep{
			Kind:     meta.StepObject,
			Param:    p.Name,
			Resource: p.Resource,
			Wrapper:  p.Wrapper,
			Caps:     p.Caps,
			Scope:    p.Scope,
			Read:     append([]int(nil), pos[s.start:s.read]...),
			Create:   append([]int(nil), pos[s.read:s.end]...),
		})
	}
	return v, nil
}
