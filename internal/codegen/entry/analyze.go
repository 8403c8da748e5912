// Package entry turns a scanner discovery into the dispatcher IR: it
// classifies handler parameters, resolves and condenses their account
// requirements, assigns discriminants and builds one variant per handler.
// Nothing here renders text.
package entry

import (
	"errors"
	"fmt"
	"math"

	"github.com/nautilus-project/nautilus/internal/codegen/meta"
	"github.com/nautilus-project/nautilus/internal/codegen/registry"
)

// Options carry the manifest values the IR is tagged with.
type Options struct {
	Name    string
	Version string
}

// Analyze runs every analysis pass over disc. All failures are collected and
// returned joined; a non-nil error means no usable program.
func Analyze(disc *meta.Discovery, opts Options) (*meta.Program, error) {
	var errs []error

	reg, err := registry.Build(disc.Objects)
	if err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, checkTables(disc.Objects)...)

	discs, err := AssignDiscriminants(disc.Handlers)
	if err != nil {
		errs = append(errs, err)
	}

	prog := &meta.Program{
		Name:     opts.Name,
		Version:  opts.Version,
		Package:  disc.Package,
		Dir:      disc.Dir,
		Variants: []meta.Variant{},
	}
	for i, h := range disc.Handlers {
		params := make([]meta.Param, 0, len(h.Params))
		ok := true
		for _, raw := range h.Params {
			p, err := Classify(reg, h, raw)
			if err != nil {
				errs = append(errs, err)
				ok = false
				continue
			}
			params = append(params, p)
		}
		if !ok || discs == nil {
			continue
		}
		v, err := BuildVariant(reg, h, params, discs[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		prog.Variants = append(prog.Variants, v)
	}

	prog.Resources = reg.Types()
	types, err := reachableTypes(disc, prog)
	if err != nil {
		errs = append(errs, err)
	}
	prog.Types = types

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return prog, nil
}

// AssignDiscriminants reserves every explicit discriminant first, then hands
// the lowest unused value to each remaining handler in declaration order.
func AssignDiscriminants(handlers []meta.Handler) ([]uint8, error) {
	out := make([]uint8, len(handlers))
	owner := make(map[int]string)
	var errs []error

	for i, h := range handlers {
		if h.Discriminant == nil {
			continue
		}
		d := *h.Discriminant
		if d < 0 || d > math.MaxUint8 {
			errs = append(errs, &GenerationError{Handler: h.Name, Pos: h.Pos, Err: ErrDiscriminant, Reason: fmt.Sprintf("%d does not fit in a u8", d)})
			continue
		}
		if prev, taken := owner[d]; taken {
			errs = append(errs, &GenerationError{Handler: h.Name, Pos: h.Pos, Err: ErrDiscriminant, Reason: fmt.Sprintf("%d is already used by %s", d, prev)})
			continue
		}
		owner[d] = h.Name
		out[i] = uint8(d)
	}

	next := 0
	for i, h := range handlers {
		if h.Discriminant != nil {
			continue
		}
		for {
			if _, taken := owner[next]; !taken {
				break
			}
			next++
		}
		if next > math.MaxUint8 {
			errs = append(errs, &GenerationError{Handler: h.Name, Pos: h.Pos, Err: ErrDiscriminant, Reason: "more than 256 instructions"})
			break
		}
		owner[next] = h.Name
		out[i] = uint8(next)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func checkTables(objs []meta.ObjectDecl) []error {
	var errs []error
	seen := make(map[string]string)
	for _, o := range objs {
		if prev, ok := seen[o.Table]; ok {
			errs = append(errs, &GenerationError{Pos: o.Pos, Type: o.Name, Err: ErrDuplicateTable, Reason: fmt.Sprintf("table %q is also used by %s", o.Table, prev)})
			continue
		}
		seen[o.Table] = o.Name
	}
	return errs
}

// reachableTypes returns the plain types referenced from instruction
// arguments and object fields, transitively, in discovery order. Every
// reference must name a discovered plain type and every shape must be
// representable.
func reachableTypes(disc *meta.Discovery, prog *meta.Program) ([]meta.PlainType, error) {
	byName := make(map[string]meta.PlainType, len(disc.Types))
	for _, t := range disc.Types {
		byName[t.Name] = t
	}

	var errs []error
	used := make(map[string]bool)
	var visit func(handler, owner string, f meta.Field)
	visit = func(handler, owner string, f meta.Field) {
		if hasUnknown(f.Shape) {
			errs = append(errs, &GenerationError{Handler: handler, Type: owner + "." + f.Name, Err: ErrUnsupportedType, Reason: f.GoType + " is not representable in account or instruction data"})
			return
		}
		for _, name := range f.Shape.Defined() {
			if used[name] {
				continue
			}
			t, ok := byName[name]
			if !ok {
				errs = append(errs, &GenerationError{Handler: handler, Type: owner + "." + f.Name, Err: ErrUnknownType, Reason: name + " is not a struct or enum declared in package " + disc.Package})
				continue
			}
			used[name] = true
			for _, tf := range t.Fields {
				visit(handler, t.Name, tf)
			}
		}
	}

	for _, v := range prog.Variants {
		for _, a := range v.Args {
			visit(v.Handler, v.Handler, a)
		}
	}
	for _, o := range disc.Objects {
		for _, f := range o.Fields {
			visit("", o.Name, f)
		}
	}

	out := []meta.PlainType{}
	for _, t := range disc.Types {
		if used[t.Name] {
			out = append(out, t)
		}
	}
	return out, errors.Join(errs...)
}
