package program

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DispatchError.
type ErrorKind uint8

const (
	KindCustom ErrorKind = iota
	KindUnknownInstruction
	KindInvalidInstructionData
	KindNotEnoughAccountKeys
	KindInvalidAccountData
	KindMissingRequiredSignature
	KindAccountNotWritable
	KindInsufficientFunds
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnknownInstruction:
		return "unknown instruction"
	case KindInvalidInstructionData:
		return "invalid instruction data"
	case KindNotEnoughAccountKeys:
		return "not enough account keys"
	case KindInvalidAccountData:
		return "invalid account data"
	case KindMissingRequiredSignature:
		return "missing required signature"
	case KindAccountNotWritable:
		return "account not writable"
	case KindInsufficientFunds:
		return "insufficient funds"
	default:
		return "custom program error"
	}
}

// DispatchError is the single error type returned by generated dispatchers
// and by the object library. Errors are terminal for the call that raised them.
type DispatchError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *DispatchError) Error() string {
	switch {
	case e.Detail == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Detail == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Is matches any DispatchError of the same kind, so callers can compare
// against the sentinels below with errors.Is.
func (e *DispatchError) Is(target error) bool {
	t, ok := target.(*DispatchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrUnknownInstruction       = &DispatchError{Kind: KindUnknownInstruction}
	ErrInvalidInstructionData   = &DispatchError{Kind: KindInvalidInstructionData}
	ErrNotEnoughAccountKeys     = &DispatchError{Kind: KindNotEnoughAccountKeys}
	ErrInvalidAccountData       = &DispatchError{Kind: KindInvalidAccountData}
	ErrMissingRequiredSignature = &DispatchError{Kind: KindMissingRequiredSignature}
	ErrAccountNotWritable       = &DispatchError{Kind: KindAccountNotWritable}
	ErrInsufficientFunds        = &DispatchError{Kind: KindInsufficientFunds}
)

// NewError builds a DispatchError with a formatted detail.
func NewError(kind ErrorKind, format string, args ...any) *DispatchError {
	return &DispatchError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// WrapError attaches kind to err. A DispatchError is returned unchanged.
func WrapError(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var de *DispatchError
	if errors.As(err, &de) {
		return err
	}
	return &DispatchError{Kind: kind, Err: err}
}

// UnknownInstruction reports a discriminant no variant claims.
func UnknownInstruction(tag uint8) *DispatchError {
	return NewError(KindUnknownInstruction, "no instruction with discriminant %d", tag)
}
