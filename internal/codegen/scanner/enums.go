package scanner

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"github.com/nautilus-project/nautilus/internal/codegen/meta"
)

// typedConst is a constant whose declared (or implicitly repeated) type is
// a named type of the package.
type typedConst struct {
	Type  string
	Name  string
	Value int64
}

// extractTypedConstants evaluates a const block. Untyped and unevaluable
// constants are skipped; an enum is only built from what evaluates cleanly.
func extractTypedConstants(genDecl *ast.GenDecl) []typedConst {
	var (
		out      []typedConst
		lastType string
		lastExpr []ast.Expr
	)
	for idx, spec := range genDecl.Specs {
		valueSpec, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		if valueSpec.Type != nil || len(valueSpec.Values) > 0 {
			lastType = ""
			if id, ok := valueSpec.Type.(*ast.Ident); ok {
				lastType = id.Name
			} else if len(valueSpec.Values) > 0 {
				lastType = conversionType(valueSpec.Values[0])
			}
			lastExpr = valueSpec.Values
		}
		if lastType == "" {
			continue
		}
		for i, name := range valueSpec.Names {
			if name.Name == "_" || i >= len(lastExpr) {
				continue
			}
			v, err := evalConst(lastExpr[i], int64(idx))
			if err != nil {
				continue
			}
			out = append(out, typedConst{Type: lastType, Name: name.Name, Value: v})
		}
	}
	return out
}

// evalConst evaluates the integer constant expressions enums are written
// with: literals, iota and simple arithmetic over them.
func evalConst(expr ast.Expr, n int64) (int64, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.INT {
			return 0, fmt.Errorf("not an integer: %s", e.Value)
		}
		return strconv.ParseInt(e.Value, 0, 64)
	case *ast.Ident:
		if e.Name == "iota" {
			return n, nil
		}
	case *ast.ParenExpr:
		return evalConst(e.X, n)
	case *ast.UnaryExpr:
		x, err := evalConst(e.X, n)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case token.SUB:
			return -x, nil
		case token.ADD:
			return x, nil
		}
	case *ast.CallExpr:
		// Color(3)
		if len(e.Args) == 1 {
			return evalConst(e.Args[0], n)
		}
	case *ast.BinaryExpr:
		x, err := evalConst(e.X, n)
		if err != nil {
			return 0, err
		}
		y, err := evalConst(e.Y, n)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case token.ADD:
			return x + y, nil
		case token.SUB:
			return x - y, nil
		case token.MUL:
			return x * y, nil
		case token.SHL:
			return x << uint64(y), nil
		case token.OR:
			return x | y, nil
		}
	}
	return 0, fmt.Errorf("unsupported constant expression")
}

// buildEnums attaches typed constants to the integer types they belong to.
func buildEnums(enums map[string]*meta.PlainType, consts []typedConst) {
	for _, c := range consts {
		e, ok := enums[c.Type]
		if !ok {
			continue
		}
		e.Variants = append(e.Variants, meta.EnumVariant{Name: c.Name, Value: c.Value})
	}
}

// conversionType returns T for a constant written as T(x).
func conversionType(expr ast.Expr) string {
	call, ok := expr.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return ""
	}
	if id, ok := call.Fun.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}
