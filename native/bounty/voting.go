package bounty

import "fmt"

// VoteOnSubmission casts the voter's reputation-weighted vote for a
// submission on a bounty in the Voting state. The weight is the voter's
// reputation read before the vote reward is credited, so the +2 earned by
// this vote never inflates the vote itself. One vote per (bounty, voter).
func (e *Engine) VoteOnSubmission(voter [20]byte, bountyID, submissionID uint64) (*VoteRecord, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.reputation == nil {
		return nil, errNilReputation
	}
	b, err := e.loadBounty(bountyID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusVoting {
		return nil, fmt.Errorf("%w: bounty is not in voting phase", ErrState)
	}
	weight, err := e.reputation.Score(voter)
	if err != nil {
		return nil, err
	}
	if weight < MinReputationToVote {
		return nil, fmt.Errorf("%w: insufficient reputation to vote", ErrUnauthorized)
	}
	sub, err := e.loadSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.BountyID != bountyID {
		return nil, fmt.Errorf("%w: submission does not belong to bounty %d", ErrInvalidInput, bountyID)
	}
	if voter == sub.Contributor {
		return nil, fmt.Errorf("%w: cannot vote on own submission", ErrUnauthorized)
	}
	if _, voted, err := e.state.VoteGet(bountyID, voter); err != nil {
		return nil, err
	} else if voted {
		return nil, fmt.Errorf("%w: already voted on this bounty", ErrDuplicateAction)
	}
	record := &VoteRecord{
		BountyID:     bountyID,
		Voter:        voter,
		SubmissionID: submissionID,
		Weight:       weight,
		CastAt:       e.now(),
	}
	sub.VoteCount += weight
	if err := e.state.SubmissionPut(sub); err != nil {
		return nil, err
	}
	if err := e.state.VotePut(record); err != nil {
		return nil, err
	}
	if err := e.state.BountyVotersAppend(bountyID, voter); err != nil {
		return nil, err
	}
	if _, err := e.reputation.Increment(voter, VoteReward); err != nil {
		return nil, err
	}
	e.emit(NewVoteCastEvent(record))
	clone := *record
	return &clone, nil
}

// BountyVotes returns the vote records cast on a bounty in casting order.
func (e *Engine) BountyVotes(bountyID uint64) ([]VoteRecord, error) {
	if _, err := e.loadBounty(bountyID); err != nil {
		return nil, err
	}
	voters, err := e.state.BountyVoters(bountyID)
	if err != nil {
		return nil, err
	}
	out := make([]VoteRecord, 0, len(voters))
	for _, voter := range voters {
		record, ok, err := e.state.VoteGet(bountyID, voter)
		if err != nil {
			return nil, err
		}
		if !ok || record == nil {
			continue
		}
		out = append(out, *record)
	}
	return out, nil
}
