package idl

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Type is an IDL type reference. Exactly one of its fields is set. On the
// wire primitives are plain strings ("u64", "publicKey") and composites are
// single-key objects: {"vec": T}, {"option": T}, {"array": [T, n]},
// {"defined": "Name"}.
type Type struct {
	Primitive string
	Vec       *Type
	Option    *Type
	Array     *Type
	Len       int
	Defined   string
}

func Primitive(name string) Type    { return Type{Primitive: name} }
func Defined(name string) Type      { return Type{Defined: name} }
func VecOf(elem Type) Type          { return Type{Vec: &elem} }
func OptionOf(elem Type) Type       { return Type{Option: &elem} }
func ArrayOf(elem Type, n int) Type { return Type{Array: &elem, Len: n} }

func (t Type) String() string {
	switch {
	case t.Vec != nil:
		return "vec<" + t.Vec.String() + ">"
	case t.Option != nil:
		return "option<" + t.Option.String() + ">"
	case t.Array != nil:
		return fmt.Sprintf("[%s; %d]", t.Array.String(), t.Len)
	case t.Defined != "":
		return t.Defined
	default:
		return t.Primitive
	}
}

func (t Type) generic() any {
	switch {
	case t.Vec != nil:
		return map[string]any{"vec": t.Vec.generic()}
	case t.Option != nil:
		return map[string]any{"option": t.Option.generic()}
	case t.Array != nil:
		return map[string]any{"array": []any{t.Array.generic(), t.Len}}
	case t.Defined != "":
		return map[string]any{"defined": t.Defined}
	default:
		return t.Primitive
	}
}

func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.generic())
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := typeFromGeneric(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Type) MarshalYAML() (any, error) {
	return t.generic(), nil
}

func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	parsed, err := typeFromGeneric(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func typeFromGeneric(v any) (Type, error) {
	switch x := v.(type) {
	case string:
		return Primitive(x), nil
	case map[string]any:
		if len(x) != 1 {
			return Type{}, fmt.Errorf("idl type object must have exactly one key, got %d", len(x))
		}
		for k, inner := range x {
			switch k {
			case "defined":
				name, ok := inner.(string)
				if !ok {
					return Type{}, fmt.Errorf("defined type name must be a string")
				}
				return Defined(name), nil
			case "vec", "option":
				elem, err := typeFromGeneric(inner)
				if err != nil {
					return Type{}, err
				}
				if k == "vec" {
					return VecOf(elem), nil
				}
				return OptionOf(elem), nil
			case "array":
				pair, ok := inner.([]any)
				if !ok || len(pair) != 2 {
					return Type{}, fmt.Errorf("array type must be [type, length]")
				}
				elem, err := typeFromGeneric(pair[0])
				if err != nil {
					return Type{}, err
				}
				n, err := toInt(pair[1])
				if err != nil {
					return Type{}, err
				}
				return ArrayOf(elem, n), nil
			default:
				return Type{}, fmt.Errorf("unknown idl type %q", k)
			}
		}
	}
	return Type{}, fmt.Errorf("invalid idl type %v", v)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("invalid array length %v", v)
}
