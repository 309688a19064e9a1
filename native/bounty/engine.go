package bounty

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"bountychain/core/events"
	"bountychain/core/types"
	"bountychain/crypto"
)

// Domain constants fixed by the marketplace rules.
const (
	// VotingDuration is the length of the voting window in seconds, set
	// when a bounty enters the voting phase.
	VotingDuration int64 = 7 * 24 * 60 * 60
	// MinReputationToVote is the score a voter needs before its votes are
	// accepted.
	MinReputationToVote uint64 = 1
	// DefaultPlatformFeeBps is the platform cut in basis points applied at
	// payout unless the operator configures another value.
	DefaultPlatformFeeBps uint32 = 250
	// MaxFeeBps caps the configurable platform fee.
	MaxFeeBps uint32 = 10_000

	// Reputation rewards credited as operation side effects.
	SubmissionReward uint64 = 5
	VoteReward       uint64 = 2
	WinnerReward     uint64 = 50
)

// VaultLabel derives the module account holding every escrowed reward.
const VaultLabel = "bounty/vault"

var (
	errNilState      = errors.New("bounty engine: state not configured")
	errNilReputation = errors.New("bounty engine: reputation ledger not configured")
	errNilTreasury   = errors.New("bounty engine: fee treasury not configured")
)

type engineState interface {
	BountyPut(*Bounty) error
	BountyGet(id uint64) (*Bounty, bool, error)
	BountyCount() (uint64, error)
	BountyNextID() (uint64, error)
	SubmissionPut(*Submission) error
	SubmissionGet(id uint64) (*Submission, bool, error)
	SubmissionCount() (uint64, error)
	SubmissionNextID() (uint64, error)
	BountySubmissionsAppend(bountyID, submissionID uint64) error
	BountySubmissions(bountyID uint64) ([]uint64, error)
	VotePut(*VoteRecord) error
	VoteGet(bountyID uint64, voter [20]byte) (*VoteRecord, bool, error)
	BountyVotersAppend(bountyID uint64, voter [20]byte) error
	BountyVoters(bountyID uint64) ([][20]byte, error)
	GetAccount(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
}

// ReputationLedger is the slice of the reputation module the engine drives:
// weight reads at vote time and the additive rewards credited as operation
// side effects.
type ReputationLedger interface {
	Score(account [20]byte) (uint64, error)
	Increment(account [20]byte, amount uint64) (uint64, error)
}

type bountyEvent struct {
	evt *types.Event
}

func (e bountyEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e bountyEvent) Event() *types.Event { return e.evt }

// Engine owns the bounty lifecycle: creation and escrow, submissions,
// reputation-weighted voting and the payout fee split. All state access goes
// through the configured backend; all reputation effects go through the
// configured ledger.
type Engine struct {
	state       engineState
	reputation  ReputationLedger
	emitter     events.Emitter
	feeTreasury [20]byte
	feeBps      uint32
	vault       [20]byte
	nowFn       func() int64
}

// NewEngine creates a bounty engine with the default platform fee and a
// no-op emitter. Callers can override both via the setters.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		feeBps:  DefaultPlatformFeeBps,
		vault:   crypto.ModuleAddress(VaultLabel),
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetReputation configures the reputation ledger consulted for vote weights
// and credited with rewards.
func (e *Engine) SetReputation(ledger ReputationLedger) { e.reputation = ledger }

// SetFeeTreasury configures the address that receives the platform fee.
func (e *Engine) SetFeeTreasury(addr [20]byte) { e.feeTreasury = addr }

// SetFeeBps configures the platform fee in basis points.
func (e *Engine) SetFeeBps(bps uint32) error {
	if bps > MaxFeeBps {
		return fmt.Errorf("%w: fee bps out of range", ErrInvalidInput)
	}
	e.feeBps = bps
	return nil
}

// FeeBps returns the configured platform fee.
func (e *Engine) FeeBps() uint32 { return e.feeBps }

// VaultAddress returns the module account escrowed rewards are held in.
func (e *Engine) VaultAddress() [20]byte { return e.vault }

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(bountyEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func (e *Engine) loadBounty(id uint64) (*Bounty, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	b, ok, err := e.state.BountyGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBountyNotFound
	}
	return b, nil
}

func (e *Engine) loadSubmission(id uint64) (*Submission, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	sub, ok, err := e.state.SubmissionGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

// balanceOf reads an account balance without mutating state.
func (e *Engine) balanceOf(addr [20]byte) (*big.Int, error) {
	account, err := e.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return cloneBigInt(account.Balance), nil
}

// transfer moves amount between accounts, failing closed on insufficient
// balance.
func (e *Engine) transfer(from, to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	amt := cloneBigInt(amount)
	if amt.Sign() == 0 {
		return nil
	}
	if amt.Sign() < 0 {
		return fmt.Errorf("%w: negative transfer amount", ErrInvalidInput)
	}
	fromAcc, err := e.state.GetAccount(from)
	if err != nil {
		return err
	}
	toAcc, err := e.state.GetAccount(to)
	if err != nil {
		return err
	}
	if fromAcc.Balance.Cmp(amt) < 0 {
		return fmt.Errorf("%w: insufficient balance", ErrInvalidInput)
	}
	fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amt)
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amt)
	if err := e.state.PutAccount(from, fromAcc); err != nil {
		return err
	}
	return e.state.PutAccount(to, toAcc)
}

func (e *Engine) ensureTreasuryConfigured() error {
	if e == nil {
		return errNilTreasury
	}
	if e.feeTreasury == ([20]byte{}) {
		return errNilTreasury
	}
	return nil
}
