package idl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding of the document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var ErrUnsupportedFormat = errors.New("unsupported idl format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat accepts a format name case-insensitively; "yml" is yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension used for f.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode renders d in format f.
func Encode(d *Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		generic, err := toGeneric(d)
		if err != nil {
			return nil, err
		}
		tree, err := toml.TreeFromMap(generic)
		if err != nil {
			return nil, fmt.Errorf("build toml tree: %w", err)
		}
		return tree.Marshal()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// Decode parses a JSON or YAML document.
func Decode(data []byte, f Format) (*Document, error) {
	var d Document
	switch f {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: cannot decode %s", ErrUnsupportedFormat, f)
	}
	return &d, nil
}

// toGeneric converts d to maps and slices via its JSON form. Integers stay
// integers so TOML does not print them as floats, and array types become
// {array = {type, len}} tables since TOML arrays cannot mix a type with a length.
func toGeneric(d *Document) (map[string]any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return normalizeNumbers(m).(map[string]any), nil
}

func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		if pair, ok := x["array"].([]any); ok && len(x) == 1 && len(pair) == 2 {
			x["array"] = map[string]any{"type": pair[0], "len": pair[1]}
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, _ := x.Float64()
		return f
	default:
		return v
	}
}
