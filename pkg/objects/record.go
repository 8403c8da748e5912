package objects

import (
	"reflect"

	"github.com/nautilus-project/nautilus/pkg/program"
)

// Authority binds a record field holding a pubkey to the account that must
// sign for it.
type Authority struct {
	Field   string
	Account *program.AccountInfo
}

// Record is a program-owned account storing one row of a user-defined table.
type Record[T any] struct {
	base
	Table       string
	Index       Index
	Authorities []Authority
	Data        T
}

// NewRecord builds a record of table over self, with the program index
// loaded from index. With load set, the stored row is decoded into Data.
func NewRecord[T any](ctx *program.Context, self, index *program.AccountInfo, table string, authorities []Authority, load bool) (Record[T], error) {
	idx, err := NewIndex(ctx, index, true)
	if err != nil {
		return Record[T]{}, err
	}
	r := Record[T]{
		base:        base{ctx: ctx, account: self},
		Table:       table,
		Index:       idx,
		Authorities: authorities,
	}
	if load {
		if self.Owner != ctx.ProgramID() {
			return r, program.NewError(program.KindInvalidAccountData, "record %s is not owned by the program", self.Key)
		}
		if err := program.DecodeAccountData(self, &r.Data); err != nil {
			return r, err
		}
	}
	return r, nil
}

// CheckAuthorities verifies every authority account signed and matches the
// pubkey stored in its field.
func (r Record[T]) CheckAuthorities() error {
	v := reflect.ValueOf(r.Data)
	for _, a := range r.Authorities {
		if a.Account == nil || !a.Account.IsSigner {
			return program.NewError(program.KindMissingRequiredSignature, "authority %s of %s must sign", a.Field, r.Key())
		}
		f := v.FieldByName(a.Field)
		if !f.IsValid() {
			return program.NewError(program.KindInvalidAccountData, "record %s has no field %s", r.Table, a.Field)
		}
		want, ok := f.Interface().(program.Pubkey)
		if !ok || want != a.Account.Key {
			return program.NewError(program.KindMissingRequiredSignature, "%s is not the %s of %s", a.Account.Key, a.Field, r.Key())
		}
	}
	return nil
}

// Save writes Data back to the record account.
func (r Record[T]) Save() error {
	if err := RequireWritable(r); err != nil {
		return err
	}
	return program.EncodeAccountData(r.account, r.Data)
}

// CreateRecord allocates and stores data under the next id of the record's
// table. The index count only moves once the account exists. setID, when not
// nil, receives the id before data is encoded.
func CreateRecord[T any](c *Create[Record[T]], data T, setID func(*T, uint32)) (uint32, error) {
	id, err := c.Self.Index.NextRecord(c.Self.Table)
	if err != nil {
		return 0, err
	}
	if setID != nil {
		setID(&data, id)
	}
	if err := initialize(c, c.ctx.ProgramID(), data); err != nil {
		return 0, err
	}
	if _, err := c.Self.Index.AddRecord(c.Self.Table); err != nil {
		return 0, err
	}
	c.Self.Data = data
	return id, nil
}
