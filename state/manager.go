package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"bountychain/core/types"
	"bountychain/storage"
)

var (
	accountPrefix = "account/"
	kvPrefix      = "kv/"
)

// Manager provides the JSON-codec keyed views over the raw key-value store
// that the native modules consume: account records plus typed KV entries.
type Manager struct {
	db storage.Database
}

// NewManager wraps the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func accountKey(addr [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", accountPrefix, addr))
}

// GetAccount loads the account stored for addr. Unknown addresses resolve to
// a fresh zero-balance account rather than an error.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	if m == nil || m.db == nil {
		return nil, errors.New("state: database not configured")
	}
	raw, err := m.db.Get(accountKey(addr))
	if errors.Is(err, storage.ErrNotFound) {
		return (&types.Account{}).EnsureDefaults(), nil
	}
	if err != nil {
		return nil, err
	}
	account := new(types.Account)
	if err := json.Unmarshal(raw, account); err != nil {
		return nil, fmt.Errorf("state: decode account: %w", err)
	}
	return account.EnsureDefaults(), nil
}

// PutAccount persists the account record for addr.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if m == nil || m.db == nil {
		return errors.New("state: database not configured")
	}
	if account == nil {
		return errors.New("state: nil account")
	}
	raw, err := json.Marshal(account.EnsureDefaults())
	if err != nil {
		return fmt.Errorf("state: encode account: %w", err)
	}
	return m.db.Put(accountKey(addr), raw)
}

// KVGet decodes the value stored under key into out, reporting whether the
// key was present.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if m == nil || m.db == nil {
		return false, errors.New("state: database not configured")
	}
	raw, err := m.db.Get(append([]byte(kvPrefix), key...))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

// KVPut stores value under key using the JSON codec.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if m == nil || m.db == nil {
		return errors.New("state: database not configured")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	return m.db.Put(append([]byte(kvPrefix), key...), raw)
}
