package entry

import "github.com/nautilus-project/nautilus/internal/codegen/meta"

// Resolve lists the accounts one occurrence of rt needs: the self slot, the
// read sub-requirements in declared order and, for a creation, the creation
// extras last. arg is the snake_case parameter name the per-argument slots
// are named after.
func Resolve(rt meta.ResourceType, arg string, caps meta.Caps, create bool) []meta.RequiredAccount {
	out := make([]meta.RequiredAccount, 0, 1+len(rt.Subs)+len(rt.CreateExtras))
	out = append(out, meta.RequiredAccount{
		Name:    arg,
		Subtype: meta.SubtypeSelf,
		Mut:     caps.Mut,
		Signer:  caps.Signer,
		Desc:    rt.Name,
	})
	for _, s := range rt.Subs {
		out = append(out, slot(s, arg))
	}
	if create {
		for _, s := range rt.CreateExtras {
			out = append(out, slot(s, arg))
		}
	}
	return out
}

func slot(s meta.SlotSpec, arg string) meta.RequiredAccount {
	name := s.Name
	if name == "" {
		name = arg + "_" + s.Suffix
	}
	return meta.RequiredAccount{
		Name:    name,
		Subtype: s.Subtype,
		Mut:     s.Mut,
		Signer:  s.Signer,
		Field:   s.Field,
		Desc:    s.Desc,
	}
}
