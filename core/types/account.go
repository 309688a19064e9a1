package types

import "math/big"

// Account is the balance and reputation record kept for every address the
// marketplace has seen. Reputation is additive only; the engines never
// subtract from it.
type Account struct {
	Nonce      uint64   `json:"nonce"`
	Balance    *big.Int `json:"balance"`
	Reputation uint64   `json:"reputation"`
}

// EnsureDefaults normalises nil big.Int fields so callers can mutate the
// account without nil checks.
func (a *Account) EnsureDefaults() *Account {
	if a == nil {
		return &Account{Balance: big.NewInt(0)}
	}
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	return a
}

// Clone returns a deep copy of the account so callers can safely mutate the
// copy without affecting the stored instance.
func (a *Account) Clone() *Account {
	if a == nil {
		return &Account{Balance: big.NewInt(0)}
	}
	clone := *a
	if a.Balance != nil {
		clone.Balance = new(big.Int).Set(a.Balance)
	} else {
		clone.Balance = big.NewInt(0)
	}
	return &clone
}
