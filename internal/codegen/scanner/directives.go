package scanner

import (
	"fmt"
	"go/ast"
	"regexp"
	"strconv"
	"strings"
)

// DirectiveKind names a nautilus source annotation.
type DirectiveKind string

const (
	DirectiveObject      DirectiveKind = "object"
	DirectiveInstruction DirectiveKind = "instruction"
)

// Directive is a parsed //nautilus:<kind> comment line.
type Directive struct {
	Kind DirectiveKind
	Args []DirectiveArg
}

// DirectiveArg is one key=value argument; keys may repeat.
type DirectiveArg struct {
	Key   string
	Value string
}

// directivePattern matches: nautilus:<kind> [key=value ...]
var directivePattern = regexp.MustCompile(`^nautilus:(\w+)(?:\s+(.*))?$`)

var argPattern = regexp.MustCompile(`^(\w+)=(\S+)$`)

// findDirective returns the nautilus directive of a doc comment group, or nil.
// A group carrying two directives is an error.
func findDirective(doc *ast.CommentGroup) (*Directive, error) {
	if doc == nil {
		return nil, nil
	}
	var found *Directive
	for _, c := range doc.List {
		d, err := parseDirective(c.Text)
		if err != nil {
			return nil, err
		}
		if d == nil {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("more than one nautilus directive")
		}
		found = d
	}
	return found, nil
}

// parseDirective parses a single comment. Directives use the Go directive
// form with no space after the slashes.
func parseDirective(comment string) (*Directive, error) {
	if !strings.HasPrefix(comment, "//nautilus:") {
		return nil, nil
	}
	m := directivePattern.FindStringSubmatch(strings.TrimSpace(strings.TrimPrefix(comment, "//")))
	if m == nil {
		return nil, fmt.Errorf("malformed directive %q", comment)
	}
	d := &Directive{Kind: DirectiveKind(m[1])}
	switch d.Kind {
	case DirectiveObject, DirectiveInstruction:
	default:
		return nil, fmt.Errorf("unknown directive nautilus:%s", m[1])
	}
	for _, f := range strings.Fields(m[2]) {
		am := argPattern.FindStringSubmatch(f)
		if am == nil {
			return nil, fmt.Errorf("malformed directive argument %q", f)
		}
		d.Args = append(d.Args, DirectiveArg{Key: am[1], Value: am[2]})
	}
	return d, nil
}

// Values returns every value given for key in order.
func (d *Directive) Values(key string) []string {
	var out []string
	for _, a := range d.Args {
		if a.Key == key {
			out = append(out, a.Value)
		}
	}
	return out
}

// Only fails when an argument other than the allowed keys is present.
func (d *Directive) Only(keys ...string) error {
	for _, a := range d.Args {
		ok := false
		for _, k := range keys {
			if a.Key == k {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("nautilus:%s does not take %q", d.Kind, a.Key)
		}
	}
	return nil
}

func (d *Directive) discriminant() (*int, error) {
	vals := d.Values("discriminant")
	switch len(vals) {
	case 0:
		return nil, nil
	case 1:
		n, err := strconv.Atoi(vals[0])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid discriminant %q", vals[0])
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("discriminant given %d times", len(vals))
	}
}
