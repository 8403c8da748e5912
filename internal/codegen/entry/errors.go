package entry

import (
	"errors"
	"strings"
)

var (
	ErrUnknownType        = errors.New("unknown type")
	ErrUnsupportedWrapper = errors.New("unsupported wrapper shape")
	ErrUnsupportedType    = errors.New("unsupported argument type")
	ErrUnresolved         = errors.New("unresolved capability configuration")
	ErrDiscriminant       = errors.New("discriminant conflict")
	ErrDuplicateTable     = errors.New("duplicate record table")
)

// GenerationError is a fatal analysis failure tied to one handler and, when
// known, the offending parameter type.
type GenerationError struct {
	Handler string
	Pos     string
	Type    string
	Reason  string
	Err     error // one of the sentinels above
}

func (e *GenerationError) Error() string {
	var parts []string
	for _, p := range []string{e.Pos, e.Handler, e.Type} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return strings.Join(parts, ": ")
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
