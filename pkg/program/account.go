package program

// AccountInfo is one entry of the resource list handed to a dispatcher.
// The dispatcher never copies it; every object built during a call points
// at the same AccountInfo.
type AccountInfo struct {
	Key        Pubkey
	Owner      Pubkey
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
	Executable bool
}

// DataLen returns the size of the account data.
func (a *AccountInfo) DataLen() int {
	return len(a.Data)
}

// Realloc resizes the account data, zero-filling any new bytes.
func (a *AccountInfo) Realloc(size int) {
	if size <= cap(a.Data) {
		old := len(a.Data)
		a.Data = a.Data[:size]
		clear(a.Data[min(old, size):])
		return
	}
	data := make([]byte, size)
	copy(data, a.Data)
	a.Data = data
}

const (
	lamportsPerByteYear    = 3480
	exemptionThresholdYear = 2
	accountStorageOverhead = 128
)

// MinimumBalance returns the rent-exempt balance for an account holding space bytes.
func MinimumBalance(space int) uint64 {
	return (uint64(space) + accountStorageOverhead) * lamportsPerByteYear * exemptionThresholdYear
}

// TransferLamports moves amount lamports between two accounts.
func TransferLamports(from, to *AccountInfo, amount uint64) error {
	if !from.IsWritable {
		return NewError(KindAccountNotWritable, "transfer source %s is not writable", from.Key)
	}
	if !to.IsWritable {
		return NewError(KindAccountNotWritable, "transfer destination %s is not writable", to.Key)
	}
	if from.Lamports < amount {
		return NewError(KindInsufficientFunds, "%s holds %d lamports, %d required", from.Key, from.Lamports, amount)
	}
	from.Lamports -= amount
	to.Lamports += amount
	return nil
}
