package entry

import (
	"errors"
	"go/ast"
	"go/types"

	"github.com/nautilus-project/nautilus/internal/codegen/meta"
	"github.com/nautilus-project/nautilus/internal/codegen/registry"
)

// Scope is the per-call arena every reconstructed object and all of its
// wrapper layers are built in. The dispatcher declares it once per call.
const Scope = "ctx"

// TypeTable is the read side of the registry the analysis passes need.
type TypeTable interface {
	Lookup(pkg, name string) (meta.TypeID, bool)
	Wrapper(pkg, name string) (meta.Capability, bool)
	IsCarrier(pkg, name string) bool
	Type(id meta.TypeID) (meta.ResourceType, bool)
}

var errNotResource = errors.New("not a resource type")

type typeRef struct {
	pkg  string
	name string
	args []ast.Expr
}

func refOf(expr ast.Expr, imps meta.Imports) (typeRef, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		return typeRef{name: t.Name}, true
	case *ast.SelectorExpr:
		x, ok := t.X.(*ast.Ident)
		if !ok {
			return typeRef{}, false
		}
		pkg, ok := imps[x.Name]
		if !ok {
			pkg = x.Name
		}
		return typeRef{pkg: pkg, name: t.Sel.Name}, true
	case *ast.IndexExpr:
		ref, ok := refOf(t.X, imps)
		ref.args = []ast.Expr{t.Index}
		return ref, ok
	case *ast.IndexListExpr:
		ref, ok := refOf(t.X, imps)
		ref.args = t.Indices
		return ref, ok
	case *ast.ParenExpr:
		return refOf(t.X, imps)
	}
	return typeRef{}, false
}

// Classify decides whether one handler parameter is a resource argument or
// a plain payload argument. Failures are returned as *GenerationError.
func Classify(tt TypeTable, h meta.Handler, raw meta.RawParam) (meta.Param, error) {
	fail := func(sentinel error, reason string) (meta.Param, error) {
		return meta.Param{}, &GenerationError{Handler: h.Name, Pos: h.Pos, Type: raw.GoType, Reason: reason, Err: sentinel}
	}
	p := meta.Param{Name: raw.Name, Resource: meta.NoType}

	if ref, ok := refOf(raw.Type, h.Imports); ok {
		if c, isWrapper := tt.Wrapper(ref.pkg, ref.name); isWrapper {
			if len(ref.args) != 1 {
				return fail(ErrUnsupportedWrapper, "a wrapper takes exactly one type argument")
			}
			id, err := resourceOf(tt, ref.args[0], h.Imports)
			switch {
			case errors.Is(err, errNotResource):
				return fail(ErrUnknownType, types.ExprString(ref.args[0])+" is not a resource type")
			case err != nil:
				return fail(errors.Unwrap(err), err.Error())
			}
			p.Kind = meta.ParamResource
			p.Resource = id
			p.Wrapper = c
			p.Caps = meta.CapsFor(c)
			p.Scope = Scope
			return p, nil
		}
	}

	id, err := resourceOf(tt, raw.Type, h.Imports)
	switch {
	case err == nil:
		p.Kind = meta.ParamResource
		p.Resource = id
		p.Scope = Scope
		return p, nil
	case !errors.Is(err, errNotResource):
		return fail(errors.Unwrap(err), err.Error())
	}

	if mentionsResource(tt, raw.Type, h.Imports) {
		return fail(ErrUnsupportedWrapper, "resource types may only be used directly or inside one objects wrapper")
	}
	if hasUnknown(raw.Shape) {
		return fail(ErrUnsupportedType, "not representable in the instruction payload")
	}
	p.Kind = meta.ParamPlain
	p.Field = meta.Field{Name: raw.Name, GoType: raw.GoType, Shape: raw.Shape}
	return p, nil
}

type resourceError struct {
	sentinel error
	reason   string
}

func (e *resourceError) Error() string { return e.reason }
func (e *resourceError) Unwrap() error { return e.sentinel }

// resourceOf resolves a direct resource reference: a built-in object type or
// objects.Record[T] over a program object.
func resourceOf(tt TypeTable, expr ast.Expr, imps meta.Imports) (meta.TypeID, error) {
	ref, ok := refOf(expr, imps)
	if !ok {
		return meta.NoType, errNotResource
	}
	if _, isWrapper := tt.Wrapper(ref.pkg, ref.name); isWrapper {
		return meta.NoType, &resourceError{ErrUnsupportedWrapper, "wrappers cannot be nested"}
	}
	if tt.IsCarrier(ref.pkg, ref.name) {
		if len(ref.args) != 1 {
			return meta.NoType, &resourceError{ErrUnsupportedWrapper, "objects.Record takes exactly one type argument"}
		}
		inner, ok := refOf(ref.args[0], imps)
		if ok && inner.pkg == "" && len(inner.args) == 0 {
			if id, found := tt.Lookup("", inner.name); found {
				return id, nil
			}
		}
		return meta.NoType, &resourceError{ErrUnknownType, types.ExprString(ref.args[0]) + " is not a nautilus:object type"}
	}
	if len(ref.args) > 0 {
		return meta.NoType, errNotResource
	}
	if id, found := tt.Lookup(ref.pkg, ref.name); found {
		if ref.pkg == "" {
			return meta.NoType, &resourceError{ErrUnsupportedWrapper, "use objects.Record[" + ref.name + "] to receive a program object"}
		}
		return id, nil
	}
	if ref.pkg == registry.ObjectsPkg {
		return meta.NoType, &resourceError{ErrUnknownType, "objects." + ref.name + " is not a resource type"}
	}
	return meta.NoType, errNotResource
}

// mentionsResource reports whether expr refers to the objects package or a
// program object anywhere inside it.
func mentionsResource(tt TypeTable, expr ast.Expr, imps meta.Imports) bool {
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.SelectorExpr:
			if x, ok := t.X.(*ast.Ident); ok && imps[x.Name] == registry.ObjectsPkg {
				found = true
			}
			return false
		case *ast.Ident:
			if _, ok := tt.Lookup("", t.Name); ok {
				found = true
			}
		}
		return !found
	})
	return found
}

func hasUnknown(t meta.TypeExpr) bool {
	if t.Kind == meta.TypeUnknown {
		return true
	}
	if t.Elem != nil {
		return hasUnknown(*t.Elem)
	}
	return false
}
