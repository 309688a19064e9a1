package core

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"bountychain/core/events"
	"bountychain/core/types"
	"bountychain/native/bounty"
	"bountychain/native/reputation"
	"bountychain/state"
	"bountychain/storage"
)

// OwnerInitialReputation is seeded to the platform owner at genesis.
const OwnerInitialReputation uint64 = 100

var genesisKey = []byte("genesis/done")

// GenesisAlloc pre-funds an account at first boot.
type GenesisAlloc struct {
	Address [20]byte
	Balance *big.Int
}

// NodeConfig carries the operator-chosen parameters for a node.
type NodeConfig struct {
	// Owner is the platform owner: reputation administrator and fee
	// treasury.
	Owner [20]byte
	// FeeBps overrides the default platform fee when non-nil.
	FeeBps *uint32
	// Genesis balances applied once, on first boot against an empty store.
	Genesis []GenesisAlloc
	// EventBuffer bounds the retained notification records.
	EventBuffer int
}

// Node owns the state manager and the native engines and serializes every
// operation: each call runs to completion under one lock, so callers observe
// a strict total order with no partial visibility of in-flight operations.
type Node struct {
	mu         sync.Mutex
	state      *state.Manager
	bounties   *bounty.Engine
	reputation *reputation.Ledger
	recorder   *events.Recorder
	owner      [20]byte
}

// NewNode wires a node over the provided database and applies genesis
// seeding on first boot.
func NewNode(db storage.Database, cfg NodeConfig) (*Node, error) {
	if db == nil {
		return nil, errors.New("core: database required")
	}
	if cfg.Owner == ([20]byte{}) {
		return nil, errors.New("core: owner address required")
	}
	manager := state.NewManager(db)
	recorder := events.NewRecorder(cfg.EventBuffer)

	ledger := reputation.NewLedger(manager)
	ledger.SetAdmin(cfg.Owner)
	ledger.SetEmitter(recorder)

	engine := bounty.NewEngine()
	engine.SetState(manager)
	engine.SetReputation(ledger)
	engine.SetFeeTreasury(cfg.Owner)
	engine.SetEmitter(recorder)
	if cfg.FeeBps != nil {
		if err := engine.SetFeeBps(*cfg.FeeBps); err != nil {
			return nil, err
		}
	}

	n := &Node{
		state:      manager,
		bounties:   engine,
		reputation: ledger,
		recorder:   recorder,
		owner:      cfg.Owner,
	}
	if err := n.applyGenesis(cfg); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) applyGenesis(cfg NodeConfig) error {
	done := false
	if _, err := n.state.KVGet(genesisKey, &done); err != nil {
		return err
	}
	if done {
		return nil
	}
	ownerAcct, err := n.state.GetAccount(cfg.Owner)
	if err != nil {
		return err
	}
	ownerAcct.Reputation = OwnerInitialReputation
	if err := n.state.PutAccount(cfg.Owner, ownerAcct); err != nil {
		return err
	}
	for _, alloc := range cfg.Genesis {
		if alloc.Balance == nil || alloc.Balance.Sign() <= 0 {
			return fmt.Errorf("core: genesis balance for %x must be positive", alloc.Address)
		}
		acct, err := n.state.GetAccount(alloc.Address)
		if err != nil {
			return err
		}
		acct.Balance = new(big.Int).Add(acct.Balance, alloc.Balance)
		if err := n.state.PutAccount(alloc.Address, acct); err != nil {
			return err
		}
	}
	return n.state.KVPut(genesisKey, true)
}

// Owner returns the platform owner address.
func (n *Node) Owner() [20]byte { return n.owner }

// VaultAddress returns the module account holding escrowed rewards.
func (n *Node) VaultAddress() [20]byte { return n.bounties.VaultAddress() }

// FeeBps returns the effective platform fee.
func (n *Node) FeeBps() uint32 { return n.bounties.FeeBps() }

// SetNowFunc overrides the engine clock. Intended for tests.
func (n *Node) SetNowFunc(now func() int64) { n.bounties.SetNowFunc(now) }

// --- state-changing operations ---

// CreateBounty escrows the reward and registers a new bounty.
func (n *Node) CreateBounty(creator [20]byte, title, description, metadataHash string, reward *big.Int, deadline int64, allowedRoles []string) (*bounty.Bounty, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.CreateBounty(creator, title, description, metadataHash, reward, deadline, allowedRoles)
}

// CancelBounty refunds and terminates a bounty without submissions.
func (n *Node) CancelBounty(caller [20]byte, bountyID uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.CancelBounty(caller, bountyID)
}

// StartVotingPhase opens the voting window on a bounty.
func (n *Node) StartVotingPhase(caller [20]byte, bountyID uint64) (*bounty.Bounty, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.StartVotingPhase(caller, bountyID)
}

// SubmitWork records a contribution against a bounty.
func (n *Node) SubmitWork(contributor [20]byte, bountyID uint64, contentHash string) (*bounty.Submission, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.SubmitWork(contributor, bountyID, contentHash)
}

// VoteOnSubmission casts a reputation-weighted vote.
func (n *Node) VoteOnSubmission(voter [20]byte, bountyID, submissionID uint64) (*bounty.VoteRecord, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.VoteOnSubmission(voter, bountyID, submissionID)
}

// SelectWinnerAndPayout settles a bounty whose voting window has closed.
func (n *Node) SelectWinnerAndPayout(caller [20]byte, bountyID uint64) (*bounty.PayoutResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.SelectWinnerAndPayout(caller, bountyID)
}

// GrantReputation issues an administrative reputation grant.
func (n *Node) GrantReputation(caller, account [20]byte, amount uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reputation.Grant(caller, account, amount)
}

// --- read views ---

// GetBounty returns a copy of the stored bounty.
func (n *Node) GetBounty(id uint64) (*bounty.Bounty, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.GetBounty(id)
}

// GetSubmission returns a copy of the stored submission.
func (n *Node) GetSubmission(id uint64) (*bounty.Submission, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.GetSubmission(id)
}

// BountySubmissions returns the submission ids attached to a bounty.
func (n *Node) BountySubmissions(bountyID uint64) ([]uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.BountySubmissions(bountyID)
}

// BountyVotes returns the vote records cast on a bounty.
func (n *Node) BountyVotes(bountyID uint64) ([]bounty.VoteRecord, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.BountyVotes(bountyID)
}

// ListBounties returns all bounties, optionally filtered by status.
func (n *Node) ListBounties(filter *bounty.Status) ([]*bounty.Bounty, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.ListBounties(filter)
}

// TotalBounties returns how many bounties have ever been created.
func (n *Node) TotalBounties() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.TotalBounties()
}

// TotalSubmissions returns how many submissions have ever been recorded.
func (n *Node) TotalSubmissions() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounties.TotalSubmissions()
}

// Reputation returns the current score of an account.
func (n *Node) Reputation(account [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reputation.Score(account)
}

// Balance returns the current balance of an account.
func (n *Node) Balance(account [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	acct, err := n.state.GetAccount(account)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(acct.Balance), nil
}

// Account returns a copy of the full account record.
func (n *Node) Account(account [20]byte) (*types.Account, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	acct, err := n.state.GetAccount(account)
	if err != nil {
		return nil, err
	}
	return acct.Clone(), nil
}

// LatestEvents returns up to limit retained notification records, newest
// last.
func (n *Node) LatestEvents(limit int) []events.Record {
	return n.recorder.Latest(limit)
}
