package meta

import "go/ast"

// Discovery is the immutable result of scanning one program package.
// Later stages read it; nothing writes to it after the scanner returns.
type Discovery struct {
	Package  string       `json:"package"`  // Go package name of the program
	Dir      string       `json:"dir"`      // scanned directory
	Objects  []ObjectDecl `json:"objects"`  // //nautilus:object structs, in declaration order
	Types    []PlainType  `json:"types"`    // other structs and enums
	Handlers []Handler    `json:"handlers"` // //nautilus:instruction functions
}

// ObjectDecl is a user-defined resource type found in the program source.
type ObjectDecl struct {
	Name        string   `json:"name"`
	Table       string   `json:"table"`
	PrimaryKey  string   `json:"primaryKey"`
	Authorities []string `json:"authorities,omitempty"` // field names
	Fields      []Field  `json:"fields"`
	Doc         string   `json:"doc,omitempty"`
	Pos         string   `json:"pos"`
}

// PlainTypeKind distinguishes struct and enum plain types.
type PlainTypeKind string

const (
	PlainStruct PlainTypeKind = "struct"
	PlainEnum   PlainTypeKind = "enum"
)

// PlainType is a non-resource type carried into the schema.
type PlainType struct {
	Name     string        `json:"name"`
	Kind     PlainTypeKind `json:"kind"`
	Fields   []Field       `json:"fields,omitempty"`
	Variants []EnumVariant `json:"variants,omitempty"`
	Repr     string        `json:"repr,omitempty"` // underlying integer type of an enum
	Doc      string        `json:"doc,omitempty"`
}

// EnumVariant is one typed constant of an enum.
type EnumVariant struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Field is a struct field or a plain argument.
type Field struct {
	Name   string   `json:"name"`
	GoType string   `json:"goType"`
	Shape  TypeExpr `json:"shape"`
}

// Imports maps a file's local package names to import paths.
type Imports map[string]string

// Handler is a discovered instruction handler, before classification.
type Handler struct {
	Name         string     `json:"name"`
	Params       []RawParam `json:"params"`
	Discriminant *int       `json:"discriminant,omitempty"` // explicit discriminant=<n>
	Imports      Imports    `json:"-"`
	Doc          string     `json:"doc,omitempty"`
	Pos          string     `json:"pos"`
}

// RawParam is one declared handler parameter.
type RawParam struct {
	Name   string   `json:"name"`
	Type   ast.Expr `json:"-"`
	GoType string   `json:"goType"`
	Shape  TypeExpr `json:"shape"`
}
