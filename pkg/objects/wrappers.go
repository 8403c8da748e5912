package objects

import "github.com/nautilus-project/nautilus/pkg/program"

// CreateAccounts are the accounts a creation needs on top of the object's own.
type CreateAccounts struct {
	FeePayer      *program.AccountInfo
	SystemProgram *program.AccountInfo
	Rent          *program.AccountInfo
	MintAuthority *program.AccountInfo
}

// Create wraps an object that does not exist yet and is created by the handler.
type Create[T Object] struct {
	Self T
	CreateAccounts
	ctx *program.Context
}

func NewCreate[T Object](ctx *program.Context, self T, accounts CreateAccounts) Create[T] {
	return Create[T]{Self: self, CreateAccounts: accounts, ctx: ctx}
}

func (c *Create[T]) Key() program.Pubkey { return c.Self.Key() }
func (c *Create[T]) IsSigner() bool      { return c.Self.IsSigner() }
func (c *Create[T]) IsWritable() bool    { return c.Self.IsWritable() }

// Allocate sizes the new account to space bytes, funds it to rent exemption
// from the fee payer and assigns it to owner.
func (c *Create[T]) Allocate(space int, owner program.Pubkey) error {
	if c.FeePayer == nil {
		return program.NewError(program.KindNotEnoughAccountKeys, "create %s: no fee payer", c.Self.Key())
	}
	if !c.FeePayer.IsSigner {
		return program.NewError(program.KindMissingRequiredSignature, "fee payer %s must sign", c.FeePayer.Key)
	}
	self := c.Self.AccountInfo()
	if len(self.Data) > 0 || self.Lamports > 0 {
		return program.NewError(program.KindInvalidAccountData, "account %s already in use", self.Key)
	}
	if err := program.TransferLamports(c.FeePayer, self, program.MinimumBalance(space)); err != nil {
		return err
	}
	self.Realloc(space)
	self.Owner = owner
	return nil
}

// initialize allocates the new account for the encoded state and stores it.
func initialize[T Object](c *Create[T], owner program.Pubkey, state any) error {
	data, err := program.Encode(state)
	if err != nil {
		return err
	}
	if err := c.Allocate(len(data), owner); err != nil {
		return err
	}
	copy(c.Self.AccountInfo().Data, data)
	return nil
}

// Signer wraps an object whose account must sign.
type Signer[T Object] struct {
	Self T
	ctx  *program.Context
}

func NewSigner[T Object](ctx *program.Context, self T) Signer[T] {
	return Signer[T]{Self: self, ctx: ctx}
}

func (s Signer[T]) Key() program.Pubkey { return s.Self.Key() }
func (s Signer[T]) IsSigner() bool      { return s.Self.IsSigner() }
func (s Signer[T]) IsWritable() bool    { return s.Self.IsWritable() }

// Check verifies the signature flag.
func (s Signer[T]) Check() error {
	return RequireSigner(s.Self)
}

// Mut wraps an object the handler modifies.
type Mut[T Object] struct {
	Self T
	ctx  *program.Context
}

func NewMut[T Object](ctx *program.Context, self T) Mut[T] {
	return Mut[T]{Self: self, ctx: ctx}
}

func (m Mut[T]) Key() program.Pubkey { return m.Self.Key() }
func (m Mut[T]) IsSigner() bool      { return m.Self.IsSigner() }
func (m Mut[T]) IsWritable() bool    { return m.Self.IsWritable() }

// authorized is implemented by objects guarded by authority signatures.
type authorized interface {
	CheckAuthorities() error
}

// Check verifies the writable flag and, for records, that every authority
// account signed and matches its stored field.
func (m Mut[T]) Check() error {
	if err := RequireWritable(m.Self); err != nil {
		return err
	}
	if a, ok := any(m.Self).(authorized); ok {
		return a.CheckAuthorities()
	}
	return nil
}
