package reputation

import (
	"errors"
	"fmt"
	"testing"

	"bountychain/core/types"
)

type mockStore struct {
	accounts map[[20]byte]*types.Account
}

func newMockStore() *mockStore {
	return &mockStore{accounts: make(map[[20]byte]*types.Account)}
}

func (m *mockStore) GetAccount(addr [20]byte) (*types.Account, error) {
	acc, ok := m.accounts[addr]
	if !ok {
		return (&types.Account{}).EnsureDefaults(), nil
	}
	return acc.Clone(), nil
}

func (m *mockStore) PutAccount(addr [20]byte, acc *types.Account) error {
	if acc == nil {
		return fmt.Errorf("nil account")
	}
	m.accounts[addr] = acc.Clone()
	return nil
}

func addr(fill byte) [20]byte {
	var out [20]byte
	for i := range out {
		out[i] = fill
	}
	return out
}

func TestScoreDefaultsToZero(t *testing.T) {
	ledger := NewLedger(newMockStore())
	score, err := ledger.Score(addr(0x01))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score != 0 {
		t.Fatalf("unknown account score = %d, want 0", score)
	}
}

func TestGrantRequiresAdmin(t *testing.T) {
	ledger := NewLedger(newMockStore())
	admin := addr(0xAD)
	ledger.SetAdmin(admin)

	if _, err := ledger.Grant(addr(0x01), addr(0x02), 10); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for non-admin, got %v", err)
	}
	score, err := ledger.Grant(admin, addr(0x02), 10)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if score != 10 {
		t.Fatalf("score = %d, want 10", score)
	}
}

func TestGrantWithoutAdminConfigured(t *testing.T) {
	ledger := NewLedger(newMockStore())
	if _, err := ledger.Grant(addr(0x01), addr(0x02), 10); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized with no admin configured, got %v", err)
	}
}

func TestGrantRejectsZeroAmount(t *testing.T) {
	ledger := NewLedger(newMockStore())
	admin := addr(0xAD)
	ledger.SetAdmin(admin)
	if _, err := ledger.Grant(admin, addr(0x02), 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

// Reference scenario: voter A granted 10, voter B granted 15, creator 5.
func TestGrantExactScores(t *testing.T) {
	store := newMockStore()
	ledger := NewLedger(store)
	admin := addr(0xAD)
	ledger.SetAdmin(admin)

	grants := map[[20]byte]uint64{
		addr(0x0A): 10,
		addr(0x0B): 15,
		addr(0x01): 5,
	}
	for account, amount := range grants {
		if _, err := ledger.Grant(admin, account, amount); err != nil {
			t.Fatalf("grant: %v", err)
		}
	}
	for account, want := range grants {
		got, err := ledger.Score(account)
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		if got != want {
			t.Fatalf("score = %d, want %d", got, want)
		}
	}
}

func TestIncrementIsAdditive(t *testing.T) {
	ledger := NewLedger(newMockStore())
	account := addr(0x02)

	prev := uint64(0)
	for _, amount := range []uint64{5, 2, 2, 50} {
		score, err := ledger.Increment(account, amount)
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if score != prev+amount {
			t.Fatalf("score = %d, want %d", score, prev+amount)
		}
		if score < prev {
			t.Fatalf("reputation decreased: %d -> %d", prev, score)
		}
		prev = score
	}
}
