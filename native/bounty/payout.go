package bounty

import (
	"fmt"
	"math/big"
)

// PayoutResult reports the settled amounts of a completed bounty. The split
// is exact: Payout + Fee == Reward.
type PayoutResult struct {
	BountyID            uint64   `json:"bountyId"`
	WinningSubmissionID uint64   `json:"winningSubmissionId"`
	Winner              [20]byte `json:"winner"`
	Payout              *big.Int `json:"payout"`
	Fee                 *big.Int `json:"fee"`
}

// SelectWinnerAndPayout closes voting on a bounty, picks the submission with
// the highest vote count and releases the escrowed reward minus the platform
// fee. On a tie the earliest submission (lowest id) wins; the scan order
// below is the tie-break. Bounty state is committed before any value moves so
// a reentrant call sees FundsReleased and is rejected by the duplicate guard.
func (e *Engine) SelectWinnerAndPayout(caller [20]byte, bountyID uint64) (*PayoutResult, error) {
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
	if b.FundsReleased {
		return nil, fmt.Errorf("%w: funds already released", ErrDuplicateAction)
	}
	if b.Status != StatusVoting {
		return nil, fmt.Errorf("%w: bounty is not in voting phase", ErrState)
	}
	if e.now() < b.VotingEndTime {
		return nil, fmt.Errorf("%w: voting period has not ended", ErrTiming)
	}
	if err := e.ensureTreasuryConfigured(); err != nil {
		return nil, err
	}
	ids, err := e.state.BountySubmissions(bountyID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no submissions to pay out", ErrState)
	}
	var winner *Submission
	for _, id := range ids {
		sub, ok, err := e.state.SubmissionGet(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSubmissionNotFound
		}
		if winner == nil || sub.VoteCount > winner.VoteCount {
			winner = sub
		}
	}
	total := cloneBigInt(b.Reward)
	if total.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reward amount must be positive", ErrInvalidInput)
	}
	fee := new(big.Int).Mul(total, new(big.Int).SetUint64(uint64(e.feeBps)))
	fee.Div(fee, big.NewInt(int64(MaxFeeBps)))
	payout := new(big.Int).Sub(total, fee)

	b.Status = StatusCompleted
	b.WinningSubmission = winner.ID
	b.FundsReleased = true
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	if payout.Sign() > 0 {
		if err := e.transfer(e.vault, winner.Contributor, payout); err != nil {
			return nil, err
		}
	}
	if fee.Sign() > 0 {
		if err := e.transfer(e.vault, e.feeTreasury, fee); err != nil {
			return nil, err
		}
	}
	if _, err := e.reputation.Increment(winner.Contributor, WinnerReward); err != nil {
		return nil, err
	}
	result := &PayoutResult{
		BountyID:            bountyID,
		WinningSubmissionID: winner.ID,
		Winner:              winner.Contributor,
		Payout:              payout,
		Fee:                 fee,
	}
	e.emit(NewWinnerPaidEvent(b, result))
	return result, nil
}
