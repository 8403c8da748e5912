// Package golang renders the dispatcher IR as Go source placed next to the
// program's handlers.
package golang

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"

	"github.com/nautilus-project/nautilus/internal/codegen/common"
	"github.com/nautilus-project/nautilus/internal/codegen/meta"
	"github.com/nautilus-project/nautilus/internal/codegen/scanner"
)

// FileName is the generated dispatcher file.
const FileName = scanner.GeneratedFile

const entryTemplate = `{{header}}

package {{.Package}}

import (
{{- if .NeedsObjects}}
	"github.com/nautilus-project/nautilus/pkg/objects"
{{- end}}
	"github.com/nautilus-project/nautilus/pkg/program"
)

// IDLFingerprint identifies the schema this dispatcher was generated with.
const IDLFingerprint = {{quote .Fingerprint}}

{{if .Variants -}}
const (
{{- range .Variants}}
	{{.Const}} uint8 = {{.Discriminant}}
{{- end}}
)
{{- end}}

{{range .Variants}}
// {{.ArgsType}} is the instruction payload of {{.Name}}.
type {{.ArgsType}} struct {
{{- range .Fields}}
	{{.Name}} {{.GoType}}
{{- end}}
}
{{end}}

// ProcessInstruction decodes data and runs the matching handler with its
// accounts taken from accounts in declared order.
func ProcessInstruction(programID program.Pubkey, accounts []*program.AccountInfo, data []byte) error {
	program.TraceInstruction(programID, data)
	tag, {{if .Variants}}payload{{else}}_{{end}}, err := program.SplitInstruction(data)
	if err != nil {
		return err
	}
	switch tag {
{{- range .Variants}}
	case {{.Const}}:
		return {{.Func}}(programID, accounts, payload)
{{- end}}
	default:
		return program.UnknownInstruction(tag)
	}
}
{{range .Variants}}
func {{.Func}}(programID program.Pubkey, accounts []*program.AccountInfo, payload []byte) error {
	var args {{.ArgsType}}
	if err := program.DecodeArgs(payload, &args); err != nil {
		return err
	}
	program.Log("Instruction", "name", {{quote .Name}})
{{- if .Accounts}}
	{{scope}} := program.NewContext(programID, accounts)
{{- range .Accounts}}
	{{.Var}}, err := {{scope}}.Next()
	if err != nil {
		return err
	}
{{- end}}
{{- end}}
{{- range .Objects}}
	{{.ObjVar}}, err := {{.Ctor}}({{.CtorArgs}})
	if err != nil {
		return err
	}
{{- if .Wrap}}
	{{.Var}} := {{.Wrap}}
{{- end}}
{{- if .Check}}
	if err := {{.Var}}.Check(); err != nil {
		return err
	}
{{- end}}
{{- end}}
	return program.WrapError(program.KindCustom, {{.Call}})
}
{{end}}`

type fileView struct {
	Package      string
	Fingerprint  string
	NeedsObjects bool
	Variants     []variantView
}

type variantView struct {
	Name         string
	Discriminant uint8
	Const        string
	ArgsType     string
	Func         string
	Fields       []fieldView
	Accounts     []accountView
	Objects      []objectView
	Call         string
}

type fieldView struct {
	Name   string
	GoType string
}

type accountView struct {
	Var  string
	Slot string
}

type objectView struct {
	Var      string
	ObjVar   string
	Ctor     string
	CtorArgs string
	Wrap     string
	Check    bool
}

// Render produces the gofmt-formatted dispatcher for prog.
func Render(prog *meta.Program, fingerprint string) ([]byte, error) {
	view := fileView{Package: prog.Package, Fingerprint: fingerprint}
	for _, v := range prog.Variants {
		vv, err := variant(prog, v)
		if err != nil {
			return nil, err
		}
		if len(vv.Objects) > 0 {
			view.NeedsObjects = true
		}
		view.Variants = append(view.Variants, vv)
	}

	version, err := common.GetVersion()
	if err != nil {
		return nil, err
	}
	funcMap := template.FuncMap{
		"header": func() string { return common.FileHeader("//", version) },
		"quote":  strconv.Quote,
		"scope":  func() string { return scopeVar(prog) },
	}
	tmpl, err := template.New("entry").Funcs(funcMap).Parse(entryTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// scopeVar is the per-call arena variable; all plan steps agree on it.
func scopeVar(prog *meta.Program) string {
	for _, v := range prog.Variants {
		for _, s := range v.Plan {
			if s.Scope != "" {
				return s.Scope
			}
		}
	}
	return "ctx"
}

func variant(prog *meta.Program, v meta.Variant) (variantView, error) {
	vv := variantView{
		Name:         v.Name,
		Discriminant: v.Discriminant,
		Const:        "Instruction" + v.Name,
		ArgsType:     v.Name + "Args",
		Func:         "process" + v.Name,
	}
	for _, a := range v.Args {
		vv.Fields = append(vv.Fields, fieldView{Name: fieldName(a.Name), GoType: a.GoType})
	}
	for _, a := range v.Accounts {
		vv.Accounts = append(vv.Accounts, accountView{Var: accountVar(a.Name), Slot: a.Name})
	}

	callArgs := make([]string, 0, len(v.Plan))
	for _, step := range v.Plan {
		if step.Kind == meta.StepArg {
			callArgs = append(callArgs, "args."+fieldName(v.Args[step.Arg].Name))
			continue
		}
		rt, ok := prog.Resource(step.Resource)
		if !ok {
			return vv, fmt.Errorf("%s: parameter %s references unregistered type %d", v.Name, step.Param, step.Resource)
		}
		ov, err := object(v, rt, step)
		if err != nil {
			return vv, err
		}
		vv.Objects = append(vv.Objects, ov)
		callArgs = append(callArgs, ov.Var)
	}
	vv.Call = v.Handler + "(" + strings.Join(callArgs, ", ") + ")"
	return vv, nil
}

func object(v meta.Variant, rt meta.ResourceType, step meta.CallStep) (objectView, error) {
	accs := func(idx []int) []string {
		out := make([]string, len(idx))
		for i, j := range idx {
			out[i] = accountVar(v.Accounts[j].Name)
		}
		return out
	}
	read := accs(step.Read)
	if len(read) != 1+len(rt.Subs) {
		return objectView{}, fmt.Errorf("%s: %s reads %d accounts, %s declares %d", v.Name, step.Param, len(read), rt.Name, 1+len(rt.Subs))
	}

	ident := common.ToIdentifier(step.Param)
	ov := objectView{Var: "arg" + ident, ObjVar: "arg" + ident}
	load := strconv.FormatBool(!step.Caps.Create)

	if rt.Kind == meta.KindRecord {
		var auths []string
		for i, s := range rt.Subs[1:] {
			auths = append(auths, fmt.Sprintf("{Field: %q, Account: %s}", s.Field, read[2+i]))
		}
		authorities := "nil"
		if len(auths) > 0 {
			authorities = "[]objects.Authority{" + strings.Join(auths, ", ") + "}"
		}
		ov.Ctor = "objects." + rt.Ctor + "[" + rt.Name + "]"
		ov.CtorArgs = strings.Join([]string{step.Scope, read[0], read[1], strconv.Quote(rt.Table), authorities, load}, ", ")
	} else {
		ov.Ctor = "objects." + rt.Ctor
		ov.CtorArgs = strings.Join(append(append([]string{step.Scope}, read...), load), ", ")
	}

	if step.Wrapper == meta.CapNone {
		return ov, nil
	}
	ov.ObjVar = "obj" + ident
	switch step.Wrapper {
	case meta.CapCreate:
		created := accs(step.Create)
		if len(created) != len(rt.CreateExtras) {
			return objectView{}, fmt.Errorf("%s: %s creates with %d accounts, %s declares %d", v.Name, step.Param, len(created), rt.Name, len(rt.CreateExtras))
		}
		var fields []string
		for i, s := range rt.CreateExtras {
			fields = append(fields, s.Field+": "+created[i])
		}
		ov.Wrap = fmt.Sprintf("objects.NewCreate(%s, %s, objects.CreateAccounts{%s})", step.Scope, ov.ObjVar, strings.Join(fields, ", "))
	case meta.CapSigner:
		ov.Wrap = fmt.Sprintf("objects.NewSigner(%s, %s)", step.Scope, ov.ObjVar)
		ov.Check = true
	case meta.CapMut:
		ov.Wrap = fmt.Sprintf("objects.NewMut(%s, %s)", step.Scope, ov.ObjVar)
		ov.Check = true
	default:
		return objectView{}, fmt.Errorf("%s: %s has unknown wrapper %q", v.Name, step.Param, step.Wrapper)
	}
	return ov, nil
}

func accountVar(slot string) string {
	return "acc" + common.ToIdentifier(slot)
}

func fieldName(arg string) string {
	return common.ToIdentifier(arg)
}
