package objects

import "github.com/nautilus-project/nautilus/pkg/program"

// Wallet is a system-owned account holding lamports.
type Wallet struct {
	base
}

// NewWallet builds a Wallet over self. Wallets carry no state, so load only
// checks ownership of an already funded account.
func NewWallet(ctx *program.Context, self *program.AccountInfo, load bool) (Wallet, error) {
	w := Wallet{base{ctx: ctx, account: self}}
	if load && self.Lamports > 0 && self.Owner != program.SystemProgramID {
		return w, program.NewError(program.KindInvalidAccountData, "wallet %s is owned by %s", self.Key, self.Owner)
	}
	return w, nil
}

// Transfer sends lamports to another object.
func (w Wallet) Transfer(to Object, amount uint64) error {
	return TransferLamports(w, to, amount)
}
