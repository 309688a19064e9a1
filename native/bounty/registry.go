package bounty

import (
	"fmt"
	"math/big"
	"strings"
)

// CreateBounty escrows the reward and registers a new bounty in the Active
// state. The reward moves from the creator to the module vault atomically
// with creation: a creation that cannot fund its escrow does not exist.
func (e *Engine) CreateBounty(creator [20]byte, title, description, metadataHash string, reward *big.Int, deadline int64, allowedRoles []string) (*Bounty, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	amt := cloneBigInt(reward)
	if amt.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reward amount must be greater than 0", ErrInvalidInput)
	}
	now := e.now()
	if deadline <= now {
		return nil, fmt.Errorf("%w: deadline must be in the future", ErrInvalidInput)
	}
	balance, err := e.balanceOf(creator)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(amt) < 0 {
		return nil, fmt.Errorf("%w: insufficient balance to escrow reward", ErrInvalidInput)
	}
	id, err := e.state.BountyNextID()
	if err != nil {
		return nil, err
	}
	b := &Bounty{
		ID:           id,
		Creator:      creator,
		Title:        trimmedTitle,
		Description:  description,
		MetadataHash: metadataHash,
		Reward:       amt,
		Deadline:     deadline,
		AllowedRoles: append([]string(nil), allowedRoles...),
		Status:       StatusActive,
		CreatedAt:    now,
	}
	if err := e.transfer(creator, e.vault, amt); err != nil {
		return nil, err
	}
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	e.emit(NewCreatedEvent(b))
	return b.Clone(), nil
}

// CancelBounty refunds the escrowed reward to the creator and terminates the
// bounty. Only the creator may cancel, and only while no work has been
// submitted.
func (e *Engine) CancelBounty(caller [20]byte, bountyID uint64) error {
	b, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if caller != b.Creator {
		return fmt.Errorf("%w: only the creator can cancel", ErrUnauthorized)
	}
	if b.Status != StatusActive {
		return fmt.Errorf("%w: cannot cancel in status %s", ErrState, b.Status)
	}
	if b.TotalSubmissions > 0 {
		return fmt.Errorf("%w: cannot cancel a bounty with submissions", ErrState)
	}
	if err := e.transfer(e.vault, b.Creator, b.Reward); err != nil {
		return err
	}
	b.Status = StatusCancelled
	if err := e.state.BountyPut(b); err != nil {
		return err
	}
	e.emit(NewCancelledEvent(b))
	return nil
}

// StartVotingPhase moves an Active bounty with at least one submission into
// the Voting state and opens the fixed voting window. The creator may start
// voting at any time; once the submission deadline has passed anyone may, so
// an absent creator cannot strand the escrow.
func (e *Engine) StartVotingPhase(caller [20]byte, bountyID uint64) (*Bounty, error) {
	b, err := e.loadBounty(bountyID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusActive {
		return nil, fmt.Errorf("%w: cannot start voting in status %s", ErrState, b.Status)
	}
	if b.TotalSubmissions == 0 {
		return nil, fmt.Errorf("%w: no submissions to vote on", ErrState)
	}
	now := e.now()
	if caller != b.Creator && now <= b.Deadline {
		return nil, fmt.Errorf("%w: only the creator can start voting before the deadline", ErrUnauthorized)
	}
	b.Status = StatusVoting
	b.VotingEndTime = now + VotingDuration
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	e.emit(NewVotingStartedEvent(b))
	return b.Clone(), nil
}

// GetBounty returns a copy of the stored bounty.
func (e *Engine) GetBounty(id uint64) (*Bounty, error) {
	b, err := e.loadBounty(id)
	if err != nil {
		return nil, err
	}
	return b.Clone(), nil
}

// TotalBounties returns how many bounties have ever been created.
func (e *Engine) TotalBounties() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.BountyCount()
}

// ListBounties returns copies of every bounty matching the filter. A nil
// filter matches everything. Results are ordered by ascending id.
func (e *Engine) ListBounties(filter *Status) ([]*Bounty, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	total, err := e.state.BountyCount()
	if err != nil {
		return nil, err
	}
	out := make([]*Bounty, 0, total)
	for id := uint64(1); id <= total; id++ {
		b, ok, err := e.state.BountyGet(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if filter != nil && b.Status != *filter {
			continue
		}
		out = append(out, b.Clone())
	}
	return out, nil
}
