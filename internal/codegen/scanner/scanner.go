// Package scanner discovers //nautilus:object types, plain types, enums and
// //nautilus:instruction handlers in one Go package directory. It only reads
// syntax; resolving type references is left to the registry.
package scanner

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nautilus-project/nautilus/internal/codegen/common"
	"github.com/nautilus-project/nautilus/internal/codegen/meta"
)

// GeneratedFile is the dispatcher file name; it is never scanned.
const GeneratedFile = "nautilus_entry.go"

var ErrNoSources = errors.New("no Go source files")

// ScanPackage scans every non-test Go file in dir.
func ScanPackage(dir string) (*meta.Discovery, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make(map[string][]byte)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == GeneratedFile {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files[name] = data
	}
	return ScanSources(dir, files)
}

// ScanSources scans in-memory sources keyed by file name. Files are visited
// in name order so discovery order is stable across runs. Every problem
// found is reported in one joined error.
func ScanSources(dir string, files map[string][]byte) (*meta.Discovery, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoSources)
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &pkgScanner{
		fset:  token.NewFileSet(),
		enums: make(map[string]*meta.PlainType),
		disc:  &meta.Discovery{Dir: dir},
	}
	for _, name := range names {
		file, err := parseGoSource(s.fset, filepath.Join(dir, name), files[name])
		if err != nil {
			s.errs = append(s.errs, err)
			continue
		}
		s.scanFile(file)
	}

	buildEnums(s.enums, s.consts)
	for _, name := range s.enumOrder {
		e := s.enums[name]
		if len(e.Variants) > 0 {
			s.disc.Types = append(s.disc.Types, *e)
		}
	}
	return s.disc, errors.Join(s.errs...)
}

func parseGoSource(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fset, filename, src, parser.ParseComments)
}

type pkgScanner struct {
	fset      *token.FileSet
	disc      *meta.Discovery
	enums     map[string]*meta.PlainType
	enumOrder []string
	consts    []typedConst
	errs      []error
}

func (s *pkgScanner) errorf(pos token.Pos, format string, args ...any) {
	s.errs = append(s.errs, fmt.Errorf("%s: %s", s.fset.Position(pos), fmt.Sprintf(format, args...)))
}

func (s *pkgScanner) scanFile(file *ast.File) {
	if s.disc.Package == "" {
		s.disc.Package = file.Name.Name
	} else if file.Name.Name != s.disc.Package {
		s.errorf(file.Package, "package %s, expected %s", file.Name.Name, s.disc.Package)
		return
	}

	imps := fileImports(file)
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				s.scanTypes(d, imps)
			case token.CONST:
				s.consts = append(s.consts, extractTypedConstants(d)...)
			}
		case *ast.FuncDecl:
			s.scanFunc(d, imps)
		}
	}
}

func (s *pkgScanner) scanTypes(genDecl *ast.GenDecl, imps meta.Imports) {
	for _, spec := range genDecl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		doc := typeSpec.Doc
		if doc == nil && len(genDecl.Specs) == 1 {
			doc = genDecl.Doc
		}
		dir, err := findDirective(doc)
		if err != nil {
			s.errorf(typeSpec.Pos(), "%s: %v", typeSpec.Name.Name, err)
			continue
		}

		structType, isStruct := typeSpec.Type.(*ast.StructType)
		if dir != nil {
			if dir.Kind != DirectiveObject {
				s.errorf(typeSpec.Pos(), "%s: nautilus:%s is only valid on functions", typeSpec.Name.Name, dir.Kind)
				continue
			}
			if !isStruct || typeSpec.TypeParams != nil {
				s.errorf(typeSpec.Pos(), "%s: nautilus:object requires a non-generic struct type", typeSpec.Name.Name)
				continue
			}
			s.scanObject(typeSpec, structType, dir, doc, imps)
			continue
		}

		if !typeSpec.Name.IsExported() || typeSpec.TypeParams != nil {
			continue
		}
		switch t := typeSpec.Type.(type) {
		case *ast.StructType:
			s.disc.Types = append(s.disc.Types, meta.PlainType{
				Name:   typeSpec.Name.Name,
				Kind:   meta.PlainStruct,
				Fields: structFields(t, imps),
				Doc:    docText(doc),
			})
		case *ast.Ident:
			if typeSpec.Assign.IsValid() || !meta.IsIntegerRepr(t.Name) {
				continue
			}
			s.enums[typeSpec.Name.Name] = &meta.PlainType{
				Name: typeSpec.Name.Name,
				Kind: meta.PlainEnum,
				Repr: t.Name,
				Doc:  docText(doc),
			}
			s.enumOrder = append(s.enumOrder, typeSpec.Name.Name)
		}
	}
}

func (s *pkgScanner) scanObject(typeSpec *ast.TypeSpec, st *ast.StructType, dir *Directive, doc *ast.CommentGroup, imps meta.Imports) {
	name := typeSpec.Name.Name
	if err := dir.Only("table", "authority"); err != nil {
		s.errorf(typeSpec.Pos(), "%s: %v", name, err)
		return
	}
	obj := meta.ObjectDecl{
		Name:       name,
		Table:      common.ToSnakeCase(name),
		PrimaryKey: primaryKey(st),
		Fields:     structFields(st, imps),
		Doc:        docText(doc),
		Pos:        s.fset.Position(typeSpec.Pos()).String(),
	}
	switch tables := dir.Values("table"); len(tables) {
	case 0:
	case 1:
		obj.Table = tables[0]
	default:
		s.errorf(typeSpec.Pos(), "%s: table given %d times", name, len(tables))
		return
	}
	if len(obj.Fields) == 0 {
		s.errorf(typeSpec.Pos(), "%s: object has no exported fields", name)
		return
	}

	for _, a := range dir.Values("authority") {
		field := findField(st, a)
		if field == nil {
			s.errorf(typeSpec.Pos(), "%s: authority field %s does not exist", name, a)
			continue
		}
		if !isPubkey(field.Type, imps) {
			s.errorf(field.Pos(), "%s: authority field %s must be a program.Pubkey", name, a)
			continue
		}
		obj.Authorities = append(obj.Authorities, a)
	}
	s.disc.Objects = append(s.disc.Objects, obj)
}

func (s *pkgScanner) scanFunc(fn *ast.FuncDecl, imps meta.Imports) {
	dir, err := findDirective(fn.Doc)
	if err != nil {
		s.errorf(fn.Pos(), "%s: %v", fn.Name.Name, err)
		return
	}
	if dir == nil {
		return
	}
	name := fn.Name.Name
	if dir.Kind != DirectiveInstruction {
		s.errorf(fn.Pos(), "%s: nautilus:%s is only valid on struct types", name, dir.Kind)
		return
	}
	if fn.Recv != nil || fn.Type.TypeParams != nil {
		s.errorf(fn.Pos(), "%s: instruction handlers must be plain top-level functions", name)
		return
	}
	if err := dir.Only("discriminant"); err != nil {
		s.errorf(fn.Pos(), "%s: %v", name, err)
		return
	}
	disc, err := dir.discriminant()
	if err != nil {
		s.errorf(fn.Pos(), "%s: %v", name, err)
		return
	}
	if !returnsError(fn.Type) {
		s.errorf(fn.Pos(), "%s: instruction handlers must return exactly error", name)
		return
	}

	h := meta.Handler{
		Name:         name,
		Discriminant: disc,
		Imports:      imps,
		Doc:          docText(fn.Doc),
		Pos:          s.fset.Position(fn.Pos()).String(),
	}
	for _, field := range fn.Type.Params.List {
		if len(field.Names) == 0 {
			s.errorf(field.Pos(), "%s: parameters must be named", name)
			return
		}
		if _, ok := field.Type.(*ast.Ellipsis); ok {
			s.errorf(field.Pos(), "%s: variadic parameters are not supported", name)
			return
		}
		for _, n := range field.Names {
			if n.Name == "_" {
				s.errorf(n.Pos(), "%s: parameters must be named", name)
				return
			}
			h.Params = append(h.Params, meta.RawParam{
				Name:   n.Name,
				Type:   field.Type,
				GoType: goType(field.Type, imps),
				Shape:  shapeOf(field.Type, imps),
			})
		}
	}
	s.disc.Handlers = append(s.disc.Handlers, h)
}

func returnsError(ft *ast.FuncType) bool {
	if ft.Results == nil || len(ft.Results.List) != 1 || len(ft.Results.List[0].Names) > 1 {
		return false
	}
	id, ok := ft.Results.List[0].Type.(*ast.Ident)
	return ok && id.Name == "error"
}

func findField(st *ast.StructType, name string) *ast.Field {
	for _, field := range st.Fields.List {
		for _, n := range field.Names {
			if n.Name == name {
				return field
			}
		}
	}
	return nil
}

// docText returns the doc comment without directive lines.
func docText(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}
