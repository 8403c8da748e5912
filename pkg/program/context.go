package program

// Context is the per-call arena of a dispatch. It owns the account list for
// the duration of one ProcessInstruction call and hands out the entries in
// order through a single cursor. Objects built during the call keep a
// reference to the Context and must not outlive it.
type Context struct {
	programID Pubkey
	accounts  []*AccountInfo
	next      int
}

// NewContext starts a dispatch over accounts.
func NewContext(programID Pubkey, accounts []*AccountInfo) *Context {
	return &Context{programID: programID, accounts: accounts}
}

func (c *Context) ProgramID() Pubkey {
	return c.programID
}

// Next consumes the next account. Once the list is exhausted every call
// fails with ErrNotEnoughAccountKeys.
func (c *Context) Next() (*AccountInfo, error) {
	if c.next >= len(c.accounts) {
		return nil, NewError(KindNotEnoughAccountKeys, "account %d requested, %d supplied", c.next+1, len(c.accounts))
	}
	acc := c.accounts[c.next]
	if acc == nil {
		return nil, NewError(KindNotEnoughAccountKeys, "account %d is nil", c.next+1)
	}
	c.next++
	return acc, nil
}

// Consumed reports how many accounts Next has handed out.
func (c *Context) Consumed() int {
	return c.next
}

// Remaining reports how many accounts are left.
func (c *Context) Remaining() int {
	return len(c.accounts) - c.next
}
