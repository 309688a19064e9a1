package bounty

import (
	"fmt"
	"strings"
)

// SubmitWork records a contribution against an Active bounty and credits the
// contributor's submission reward. Submission ids are sequential and global
// across bounties.
func (e *Engine) SubmitWork(contributor [20]byte, bountyID uint64, contentHash string) (*Submission, error) {
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
	if b.Status != StatusActive {
		return nil, fmt.Errorf("%w: bounty is not active", ErrState)
	}
	if e.now() > b.Deadline {
		return nil, fmt.Errorf("%w: bounty deadline has passed", ErrTiming)
	}
	if contributor == b.Creator {
		return nil, fmt.Errorf("%w: bounty creator cannot submit", ErrUnauthorized)
	}
	if strings.TrimSpace(contentHash) == "" {
		return nil, fmt.Errorf("%w: content hash cannot be empty", ErrInvalidInput)
	}
	id, err := e.state.SubmissionNextID()
	if err != nil {
		return nil, err
	}
	sub := &Submission{
		ID:          id,
		BountyID:    bountyID,
		Contributor: contributor,
		ContentHash: contentHash,
		CreatedAt:   e.now(),
	}
	if err := e.state.SubmissionPut(sub); err != nil {
		return nil, err
	}
	if err := e.state.BountySubmissionsAppend(bountyID, id); err != nil {
		return nil, err
	}
	b.TotalSubmissions++
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	if _, err := e.reputation.Increment(contributor, SubmissionReward); err != nil {
		return nil, err
	}
	e.emit(NewSubmissionReceivedEvent(sub))
	return sub.Clone(), nil
}

// GetSubmission returns a copy of the stored submission.
func (e *Engine) GetSubmission(id uint64) (*Submission, error) {
	sub, err := e.loadSubmission(id)
	if err != nil {
		return nil, err
	}
	return sub.Clone(), nil
}

// BountySubmissions returns the submission ids attached to a bounty in
// creation order.
func (e *Engine) BountySubmissions(bountyID uint64) ([]uint64, error) {
	if _, err := e.loadBounty(bountyID); err != nil {
		return nil, err
	}
	return e.state.BountySubmissions(bountyID)
}

// TotalSubmissions returns how many submissions have ever been recorded.
func (e *Engine) TotalSubmissions() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.SubmissionCount()
}
