package bounty

import (
	"encoding/hex"
	"strconv"
	"strings"

	"bountychain/core/types"
)

const (
	EventTypeBountyCreated      = "bounty.created"
	EventTypeBountyCancelled    = "bounty.cancelled"
	EventTypeVotingStarted      = "bounty.votingStarted"
	EventTypeSubmissionReceived = "bounty.submissionReceived"
	EventTypeVoteCast           = "bounty.voteCast"
	EventTypeWinnerPaid         = "bounty.winnerPaid"
)

// NewCreatedEvent returns the canonical event payload for a newly created
// bounty.
func NewCreatedEvent(b *Bounty) *types.Event { return newBountyEvent(EventTypeBountyCreated, b) }

// NewCancelledEvent returns the canonical event payload for a cancelled
// bounty.
func NewCancelledEvent(b *Bounty) *types.Event { return newBountyEvent(EventTypeBountyCancelled, b) }

// NewVotingStartedEvent returns the canonical event payload emitted when a
// bounty enters the voting phase.
func NewVotingStartedEvent(b *Bounty) *types.Event {
	evt := newBountyEvent(EventTypeVotingStarted, b)
	if b != nil {
		evt.Attributes["votingEndTime"] = strconv.FormatInt(b.VotingEndTime, 10)
	}
	return evt
}

// NewSubmissionReceivedEvent returns the canonical event payload for a work
// submission.
func NewSubmissionReceivedEvent(s *Submission) *types.Event {
	attrs := make(map[string]string)
	if s != nil {
		attrs["submissionId"] = strconv.FormatUint(s.ID, 10)
		attrs["bountyId"] = strconv.FormatUint(s.BountyID, 10)
		attrs["contributor"] = hex.EncodeToString(s.Contributor[:])
		attrs["contentHash"] = s.ContentHash
	}
	return &types.Event{Type: EventTypeSubmissionReceived, Attributes: attrs}
}

// NewVoteCastEvent returns the canonical event payload for a cast vote.
func NewVoteCastEvent(v *VoteRecord) *types.Event {
	attrs := make(map[string]string)
	if v != nil {
		attrs["bountyId"] = strconv.FormatUint(v.BountyID, 10)
		attrs["submissionId"] = strconv.FormatUint(v.SubmissionID, 10)
		attrs["voter"] = hex.EncodeToString(v.Voter[:])
		attrs["weight"] = strconv.FormatUint(v.Weight, 10)
	}
	return &types.Event{Type: EventTypeVoteCast, Attributes: attrs}
}

// NewWinnerPaidEvent returns the canonical event payload for a completed
// payout, carrying the exact split.
func NewWinnerPaidEvent(b *Bounty, r *PayoutResult) *types.Event {
	evt := newBountyEvent(EventTypeWinnerPaid, b)
	if r != nil {
		evt.Attributes["winningSubmissionId"] = strconv.FormatUint(r.WinningSubmissionID, 10)
		evt.Attributes["winner"] = hex.EncodeToString(r.Winner[:])
		if r.Payout != nil {
			evt.Attributes["payout"] = r.Payout.String()
		}
		if r.Fee != nil {
			evt.Attributes["fee"] = r.Fee.String()
		}
	}
	return evt
}

func newBountyEvent(eventType string, b *Bounty) *types.Event {
	attrs := make(map[string]string)
	if b == nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	attrs["id"] = strconv.FormatUint(b.ID, 10)
	attrs["creator"] = hex.EncodeToString(b.Creator[:])
	attrs["title"] = b.Title
	if b.Reward != nil {
		attrs["reward"] = b.Reward.String()
	}
	attrs["deadline"] = strconv.FormatInt(b.Deadline, 10)
	attrs["status"] = b.Status.String()
	if len(b.AllowedRoles) > 0 {
		attrs["allowedRoles"] = strings.Join(b.AllowedRoles, ",")
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}
