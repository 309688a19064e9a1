package reputation

import (
	"errors"
	"fmt"

	"bountychain/core/events"
	"bountychain/core/types"
)

var (
	// ErrUnauthorized marks grant attempts from accounts other than the
	// configured administrator.
	ErrUnauthorized = errors.New("reputation: unauthorized")
	// ErrInvalidAmount marks zero-valued grants.
	ErrInvalidAmount = errors.New("reputation: amount must be positive")

	errNoStore = errors.New("reputation: storage unavailable")
)

// storage abstracts the subset of state manager functionality required by the
// reputation ledger.
type storage interface {
	GetAccount(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
}

type reputationEvent struct {
	evt *types.Event
}

func (e reputationEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e reputationEvent) Event() *types.Event { return e.evt }

// Ledger is the only component that reads or mutates reputation scores.
// Scores are non-negative and additive only: the four defined events (grant,
// submission, vote, win) all route through Grant or Increment.
type Ledger struct {
	store   storage
	admin   [20]byte
	emitter events.Emitter
}

// NewLedger constructs a ledger bound to the provided storage backend.
func NewLedger(store storage) *Ledger {
	return &Ledger{store: store, emitter: events.NoopEmitter{}}
}

// SetAdmin configures the single identity allowed to issue administrative
// grants.
func (l *Ledger) SetAdmin(addr [20]byte) {
	if l == nil {
		return
	}
	l.admin = addr
}

// SetEmitter configures the event emitter used for grant notifications.
// Passing nil resets the emitter to a no-op implementation.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if l == nil {
		return
	}
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

// Score returns the current reputation of an account. Unknown accounts score
// zero.
func (l *Ledger) Score(account [20]byte) (uint64, error) {
	if l == nil || l.store == nil {
		return 0, errNoStore
	}
	acct, err := l.store.GetAccount(account)
	if err != nil {
		return 0, err
	}
	return acct.Reputation, nil
}

// Increment adds amount to the account's score and returns the new value.
// This is the internal entry point used by the bounty engine for submission,
// vote and win rewards; it performs no authorization.
func (l *Ledger) Increment(account [20]byte, amount uint64) (uint64, error) {
	if l == nil || l.store == nil {
		return 0, errNoStore
	}
	acct, err := l.store.GetAccount(account)
	if err != nil {
		return 0, err
	}
	acct.Reputation += amount
	if err := l.store.PutAccount(account, acct); err != nil {
		return 0, err
	}
	return acct.Reputation, nil
}

// Grant adds amount to the account's score on behalf of the administrator.
// Any other caller is rejected.
func (l *Ledger) Grant(caller, account [20]byte, amount uint64) (uint64, error) {
	if l == nil || l.store == nil {
		return 0, errNoStore
	}
	if l.admin == ([20]byte{}) || caller != l.admin {
		return 0, fmt.Errorf("%w: only the administrator can grant reputation", ErrUnauthorized)
	}
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	score, err := l.Increment(account, amount)
	if err != nil {
		return 0, err
	}
	l.emit(NewGrantedEvent(account, amount, score))
	return score, nil
}

func (l *Ledger) emit(event *types.Event) {
	if l == nil || l.emitter == nil || event == nil {
		return
	}
	l.emitter.Emit(reputationEvent{evt: event})
}
