package program

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/near/borsh-go"
)

// SplitInstruction separates the one-byte discriminant from the argument payload.
func SplitInstruction(data []byte) (uint8, []byte, error) {
	if len(data) == 0 {
		return 0, nil, NewError(KindInvalidInstructionData, "empty instruction data")
	}
	return data[0], data[1:], nil
}

// DecodeArgs decodes a borsh payload into v, which must be a pointer to the
// variant's argument struct. The payload must be the canonical encoding of
// the decoded value: truncated input and trailing bytes are both rejected.
func DecodeArgs(payload []byte, v any) (err error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode args: need non-nil pointer, got %T", v)
	}
	defer func() {
		if r := recover(); r != nil {
			err = NewError(KindInvalidInstructionData, "malformed payload: %v", r)
		}
	}()

	if err := borsh.Deserialize(v, payload); err != nil {
		return &DispatchError{Kind: KindInvalidInstructionData, Detail: "malformed payload", Err: err}
	}
	canonical, err := borsh.Serialize(rv.Elem().Interface())
	if err != nil {
		return &DispatchError{Kind: KindInvalidInstructionData, Detail: "re-encode payload", Err: err}
	}
	if !bytes.Equal(canonical, payload) {
		return NewError(KindInvalidInstructionData, "payload is %d bytes, decoded value encodes to %d", len(payload), len(canonical))
	}
	return nil
}

// EncodeInstruction builds instruction data for a variant: the discriminant
// followed by the borsh encoding of args. A nil args encodes no payload.
func EncodeInstruction(tag uint8, args any) ([]byte, error) {
	if args == nil {
		return []byte{tag}, nil
	}
	payload, err := borsh.Serialize(args)
	if err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	return append([]byte{tag}, payload...), nil
}

// DecodeAccountData loads borsh account state into v.
func DecodeAccountData(account *AccountInfo, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewError(KindInvalidAccountData, "account %s: %v", account.Key, r)
		}
	}()
	if len(account.Data) == 0 {
		return NewError(KindInvalidAccountData, "account %s holds no data", account.Key)
	}
	if err := borsh.Deserialize(v, account.Data); err != nil {
		return &DispatchError{Kind: KindInvalidAccountData, Detail: fmt.Sprintf("account %s", account.Key), Err: err}
	}
	return nil
}

// Encode returns the borsh encoding of v.
func Encode(v any) ([]byte, error) {
	data, err := borsh.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return data, nil
}

// EncodeAccountData replaces the account data with the borsh encoding of v.
func EncodeAccountData(account *AccountInfo, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("account %s: %w", account.Key, err)
	}
	account.Realloc(len(data))
	copy(account.Data, data)
	return nil
}
