package bounty

import (
	"fmt"
	"math/big"
)

// Status represents the lifecycle states of a bounty. Transitions only move
// forward: Active -> Voting -> Completed, or Active -> Cancelled.
type Status uint8

const (
	StatusActive Status = iota
	StatusVoting
	StatusCompleted
	StatusCancelled
)

// Valid reports whether the status value is within the supported range.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusVoting, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusVoting:
		return "voting"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Bounty captures the escrowed reward and runtime status of a single bounty.
// The reward is locked to the record at creation and conserved exactly at
// payout: payout + fee == reward.
type Bounty struct {
	ID                uint64   `json:"id"`
	Creator           [20]byte `json:"creator"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	MetadataHash      string   `json:"metadataHash"`
	Reward            *big.Int `json:"reward"`
	Deadline          int64    `json:"deadline"`
	AllowedRoles      []string `json:"allowedRoles,omitempty"`
	Status            Status   `json:"status"`
	CreatedAt         int64    `json:"createdAt"`
	VotingEndTime     int64    `json:"votingEndTime,omitempty"`
	TotalSubmissions  uint64   `json:"totalSubmissions"`
	WinningSubmission uint64   `json:"winningSubmissionId,omitempty"`
	FundsReleased     bool     `json:"fundsReleased"`
}

// Clone returns a deep copy of the bounty so callers can safely mutate the
// copy without affecting the stored instance.
func (b *Bounty) Clone() *Bounty {
	if b == nil {
		return nil
	}
	clone := *b
	if b.Reward != nil {
		clone.Reward = new(big.Int).Set(b.Reward)
	} else {
		clone.Reward = big.NewInt(0)
	}
	if b.AllowedRoles != nil {
		clone.AllowedRoles = append([]string(nil), b.AllowedRoles...)
	}
	return &clone
}

// Submission is a piece of work submitted against a bounty. VoteCount is the
// sum of the reputation-weighted votes cast for it.
type Submission struct {
	ID          uint64   `json:"id"`
	BountyID    uint64   `json:"bountyId"`
	Contributor [20]byte `json:"contributor"`
	ContentHash string   `json:"contentHash"`
	VoteCount   uint64   `json:"voteCount"`
	CreatedAt   int64    `json:"createdAt"`
}

// Clone returns a copy of the submission.
func (s *Submission) Clone() *Submission {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// VoteRecord pins the weight a voter added to a submission. One record exists
// per (bounty, voter) pair; its presence is the double-vote guard.
type VoteRecord struct {
	BountyID     uint64   `json:"bountyId"`
	Voter        [20]byte `json:"voter"`
	SubmissionID uint64   `json:"submissionId"`
	Weight       uint64   `json:"weight"`
	CastAt       int64    `json:"castAt"`
}
