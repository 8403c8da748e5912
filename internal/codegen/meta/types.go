package meta

import (
	"fmt"
	"strings"
)

// TypeKind is the schema-level shape of a Go type.
type TypeKind string

const (
	TypePrimitive TypeKind = "primitive" // Name holds the schema primitive (u8, string, ...)
	TypePubkey    TypeKind = "publicKey"
	TypeBytes     TypeKind = "bytes"
	TypeVec       TypeKind = "vec"
	TypeArray     TypeKind = "array"
	TypeOption    TypeKind = "option"
	TypeDefined   TypeKind = "defined" // Name holds the referenced type name
	TypeUnknown   TypeKind = "unknown"
)

// TypeExpr describes a type independent of Go syntax.
type TypeExpr struct {
	Kind TypeKind  `json:"kind"`
	Name string    `json:"name,omitempty"`
	Elem *TypeExpr `json:"elem,omitempty"`
	Len  int       `json:"len,omitempty"`
}

func (t TypeExpr) String() string {
	switch t.Kind {
	case TypePrimitive, TypeDefined:
		return t.Name
	case TypePubkey:
		return "publicKey"
	case TypeBytes:
		return "bytes"
	case TypeVec:
		return "vec<" + t.Elem.String() + ">"
	case TypeArray:
		return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Len)
	case TypeOption:
		return "option<" + t.Elem.String() + ">"
	default:
		return "unknown"
	}
}

// Defined lists every defined type name reachable from t.
func (t TypeExpr) Defined() []string {
	switch t.Kind {
	case TypeDefined:
		return []string{t.Name}
	case TypeVec, TypeArray, TypeOption:
		if t.Elem != nil {
			return t.Elem.Defined()
		}
	}
	return nil
}

var goPrimitives = map[string]string{
	"bool":    "bool",
	"uint8":   "u8",
	"byte":    "u8",
	"uint16":  "u16",
	"uint32":  "u32",
	"uint64":  "u64",
	"int8":    "i8",
	"int16":   "i16",
	"int32":   "i32",
	"int64":   "i64",
	"float32": "f32",
	"float64": "f64",
	"string":  "string",
}

// PrimitiveOf maps a predeclared Go type name to its schema primitive.
// Platform-sized integers are not part of the wire format and are rejected.
func PrimitiveOf(goName string) (string, bool) {
	p, ok := goPrimitives[goName]
	return p, ok
}

// IsIntegerRepr reports whether a Go type name can back an enum.
func IsIntegerRepr(goName string) bool {
	p, ok := goPrimitives[goName]
	return ok && (strings.HasPrefix(p, "u") || strings.HasPrefix(p, "i"))
}
