package state

import (
	"errors"
	"fmt"

	"bountychain/native/bounty"
)

var (
	bountyCounterKey     = []byte("bounty/total")
	submissionCounterKey = []byte("submission/total")
)

func bountyKey(id uint64) []byte {
	return []byte(fmt.Sprintf("bounty/%d", id))
}

func submissionKey(id uint64) []byte {
	return []byte(fmt.Sprintf("submission/%d", id))
}

func bountySubmissionsKey(bountyID uint64) []byte {
	return []byte(fmt.Sprintf("bounty/%d/submissions", bountyID))
}

func voteKey(bountyID uint64, voter [20]byte) []byte {
	return []byte(fmt.Sprintf("bounty/%d/vote/%x", bountyID, voter))
}

func bountyVotersKey(bountyID uint64) []byte {
	return []byte(fmt.Sprintf("bounty/%d/voters", bountyID))
}

func (m *Manager) nextID(counterKey []byte) (uint64, error) {
	var counter uint64
	if _, err := m.KVGet(counterKey, &counter); err != nil {
		return 0, err
	}
	counter++
	if err := m.KVPut(counterKey, counter); err != nil {
		return 0, err
	}
	return counter, nil
}

func (m *Manager) readCounter(counterKey []byte) (uint64, error) {
	var counter uint64
	if _, err := m.KVGet(counterKey, &counter); err != nil {
		return 0, err
	}
	return counter, nil
}

// BountyPut persists a bounty record.
func (m *Manager) BountyPut(b *bounty.Bounty) error {
	if b == nil {
		return errors.New("state: nil bounty")
	}
	return m.KVPut(bountyKey(b.ID), b)
}

// BountyGet loads a bounty record by id.
func (m *Manager) BountyGet(id uint64) (*bounty.Bounty, bool, error) {
	b := new(bounty.Bounty)
	ok, err := m.KVGet(bountyKey(id), b)
	if err != nil || !ok {
		return nil, false, err
	}
	return b, true, nil
}

// BountyCount returns how many bounty ids have been issued.
func (m *Manager) BountyCount() (uint64, error) {
	return m.readCounter(bountyCounterKey)
}

// BountyNextID issues the next sequential bounty id, starting at 1.
func (m *Manager) BountyNextID() (uint64, error) {
	return m.nextID(bountyCounterKey)
}

// SubmissionPut persists a submission record.
func (m *Manager) SubmissionPut(s *bounty.Submission) error {
	if s == nil {
		return errors.New("state: nil submission")
	}
	return m.KVPut(submissionKey(s.ID), s)
}

// SubmissionGet loads a submission record by id.
func (m *Manager) SubmissionGet(id uint64) (*bounty.Submission, bool, error) {
	s := new(bounty.Submission)
	ok, err := m.KVGet(submissionKey(id), s)
	if err != nil || !ok {
		return nil, false, err
	}
	return s, true, nil
}

// SubmissionCount returns how many submission ids have been issued.
func (m *Manager) SubmissionCount() (uint64, error) {
	return m.readCounter(submissionCounterKey)
}

// SubmissionNextID issues the next sequential submission id, starting at 1.
func (m *Manager) SubmissionNextID() (uint64, error) {
	return m.nextID(submissionCounterKey)
}

// BountySubmissionsAppend links a submission to its bounty, preserving
// creation order.
func (m *Manager) BountySubmissionsAppend(bountyID, submissionID uint64) error {
	ids, err := m.BountySubmissions(bountyID)
	if err != nil {
		return err
	}
	return m.KVPut(bountySubmissionsKey(bountyID), append(ids, submissionID))
}

// BountySubmissions returns the submission ids linked to a bounty.
func (m *Manager) BountySubmissions(bountyID uint64) ([]uint64, error) {
	var ids []uint64
	if _, err := m.KVGet(bountySubmissionsKey(bountyID), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// VotePut persists the vote record for its (bounty, voter) pair.
func (m *Manager) VotePut(v *bounty.VoteRecord) error {
	if v == nil {
		return errors.New("state: nil vote record")
	}
	return m.KVPut(voteKey(v.BountyID, v.Voter), v)
}

// VoteGet loads the vote a voter cast on a bounty, if any.
func (m *Manager) VoteGet(bountyID uint64, voter [20]byte) (*bounty.VoteRecord, bool, error) {
	v := new(bounty.VoteRecord)
	ok, err := m.KVGet(voteKey(bountyID, voter), v)
	if err != nil || !ok {
		return nil, false, err
	}
	return v, true, nil
}

// BountyVotersAppend records a voter on a bounty, preserving casting order.
func (m *Manager) BountyVotersAppend(bountyID uint64, voter [20]byte) error {
	voters, err := m.BountyVoters(bountyID)
	if err != nil {
		return err
	}
	return m.KVPut(bountyVotersKey(bountyID), append(voters, voter))
}

// BountyVoters returns the voters who voted on a bounty.
func (m *Manager) BountyVoters(bountyID uint64) ([][20]byte, error) {
	var voters [][20]byte
	if _, err := m.KVGet(bountyVotersKey(bountyID), &voters); err != nil {
		return nil, err
	}
	return voters, nil
}
