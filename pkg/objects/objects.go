// Package objects is the resource library generated dispatchers build
// handler arguments from. Every object is constructed from accounts consumed
// out of one program.Context and keeps pointers into that call's account list.
package objects

import "github.com/nautilus-project/nautilus/pkg/program"

// Object is implemented by every resource type.
type Object interface {
	AccountInfo() *program.AccountInfo
	Key() program.Pubkey
	IsSigner() bool
	IsWritable() bool
	Lamports() uint64
	Span() int
}

// base carries the self account shared by all objects.
type base struct {
	ctx     *program.Context
	account *program.AccountInfo
}

func (b base) AccountInfo() *program.AccountInfo { return b.account }
func (b base) Key() program.Pubkey               { return b.account.Key }
func (b base) IsSigner() bool                    { return b.account.IsSigner }
func (b base) IsWritable() bool                  { return b.account.IsWritable }
func (b base) Lamports() uint64                  { return b.account.Lamports }
func (b base) Span() int                         { return b.account.DataLen() }

// TransferLamports moves lamports from one object to another.
func TransferLamports(from, to Object, amount uint64) error {
	return program.TransferLamports(from.AccountInfo(), to.AccountInfo(), amount)
}

// RequireSigner fails unless o's account signed the transaction.
func RequireSigner(o Object) error {
	if !o.IsSigner() {
		return program.NewError(program.KindMissingRequiredSignature, "%s must sign", o.Key())
	}
	return nil
}

// RequireWritable fails unless o's account is writable.
func RequireWritable(o Object) error {
	if !o.IsWritable() {
		return program.NewError(program.KindAccountNotWritable, "%s must be writable", o.Key())
	}
	return nil
}
