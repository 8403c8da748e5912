package scanner

import (
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"reflect"
	"strconv"
	"strings"

	"github.com/nautilus-project/nautilus/internal/codegen/meta"
)

// ProgramPkg is the import path whose Pubkey maps to the publicKey schema type.
const ProgramPkg = "github.com/nautilus-project/nautilus/pkg/program"

// ObjectsPkg is the import path of the resource library.
const ObjectsPkg = "github.com/nautilus-project/nautilus/pkg/objects"

// qualifiers are the package names generated code imports the runtime under.
var qualifiers = map[string]string{
	ProgramPkg: "program",
	ObjectsPkg: "objects",
}

// goType renders expr with runtime package qualifiers replaced by the names
// the generated dispatcher imports them under, so that aliased imports in
// the program's files stay valid outside them.
func goType(expr ast.Expr, imps meta.Imports) string {
	switch t := expr.(type) {
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			if q, ok := qualifiers[imps[x.Name]]; ok {
				return q + "." + t.Sel.Name
			}
		}
	case *ast.StarExpr:
		return "*" + goType(t.X, imps)
	case *ast.ParenExpr:
		return "(" + goType(t.X, imps) + ")"
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + goType(t.Elt, imps)
		}
		return "[" + types.ExprString(t.Len) + "]" + goType(t.Elt, imps)
	case *ast.IndexExpr:
		return goType(t.X, imps) + "[" + goType(t.Index, imps) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(t.Indices))
		for i, ix := range t.Indices {
			args[i] = goType(ix, imps)
		}
		return goType(t.X, imps) + "[" + strings.Join(args, ", ") + "]"
	}
	return types.ExprString(expr)
}

// fileImports maps local package names of one file to import paths.
func fileImports(f *ast.File) meta.Imports {
	imps := make(meta.Imports, len(f.Imports))
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imps[name] = p
	}
	return imps
}

// shapeOf converts a Go type expression to its schema shape. Anything the
// payload codec cannot carry comes back as meta.TypeUnknown.
func shapeOf(expr ast.Expr, imps meta.Imports) meta.TypeExpr {
	switch t := expr.(type) {
	case *ast.Ident:
		if p, ok := meta.PrimitiveOf(t.Name); ok {
			return meta.TypeExpr{Kind: meta.TypePrimitive, Name: p}
		}
		if types.Universe.Lookup(t.Name) != nil {
			return meta.TypeExpr{Kind: meta.TypeUnknown, Name: t.Name}
		}
		return meta.TypeExpr{Kind: meta.TypeDefined, Name: t.Name}
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok && imps[x.Name] == ProgramPkg && t.Sel.Name == "Pubkey" {
			return meta.TypeExpr{Kind: meta.TypePubkey}
		}
	case *ast.ArrayType:
		elem := shapeOf(t.Elt, imps)
		if t.Len == nil {
			if elem.Kind == meta.TypePrimitive && elem.Name == "u8" {
				return meta.TypeExpr{Kind: meta.TypeBytes}
			}
			return meta.TypeExpr{Kind: meta.TypeVec, Elem: &elem}
		}
		if lit, ok := t.Len.(*ast.BasicLit); ok && lit.Kind == token.INT {
			n, err := strconv.Atoi(lit.Value)
			if err == nil {
				return meta.TypeExpr{Kind: meta.TypeArray, Elem: &elem, Len: n}
			}
		}
	case *ast.StarExpr:
		elem := shapeOf(t.X, imps)
		return meta.TypeExpr{Kind: meta.TypeOption, Elem: &elem}
	case *ast.ParenExpr:
		return shapeOf(t.X, imps)
	}
	return meta.TypeExpr{Kind: meta.TypeUnknown, Name: types.ExprString(expr)}
}

// isPubkey reports whether expr names program.Pubkey.
func isPubkey(expr ast.Expr, imps meta.Imports) bool {
	return shapeOf(expr, imps).Kind == meta.TypePubkey
}

// structFields extracts the exported named fields of a struct.
func structFields(st *ast.StructType, imps meta.Imports) []meta.Field {
	var fields []meta.Field
	for _, field := range st.Fields.List {
		for _, name := range field.Names {
			if !name.IsExported() {
				continue
			}
			fields = append(fields, meta.Field{
				Name:   name.Name,
				GoType: goType(field.Type, imps),
				Shape:  shapeOf(field.Type, imps),
			})
		}
	}
	return fields
}

// primaryKey returns the field tagged nautilus:"primary_key", or the first field.
func primaryKey(st *ast.StructType) string {
	first := ""
	for _, field := range st.Fields.List {
		for _, name := range field.Names {
			if first == "" && name.IsExported() {
				first = name.Name
			}
			if field.Tag == nil {
				continue
			}
			tag, err := strconv.Unquote(field.Tag.Value)
			if err != nil {
				continue
			}
			if strings.Contains(structTag(tag, "nautilus"), "primary_key") {
				return name.Name
			}
		}
	}
	return first
}

func structTag(tag, key string) string {
	return reflect.StructTag(tag).Get(key)
}
