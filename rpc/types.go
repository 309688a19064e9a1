package rpc

import (
	"encoding/json"

	"bountychain/crypto"
	"bountychain/native/bounty"
)

// RPCRequest is the JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

// RPCResponse is the JSON-RPC 2.0 response envelope.
type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError carries a machine-distinguishable code plus a human-readable
// message.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func encodeAddress(addr [20]byte) string {
	return crypto.NewAddress(crypto.BountyPrefix, addr[:]).String()
}

type bountyJSON struct {
	ID                  uint64   `json:"id"`
	Creator             string   `json:"creator"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	MetadataHash        string   `json:"metadataHash"`
	Reward              string   `json:"rewardAmount"`
	Deadline            int64    `json:"deadline"`
	AllowedRoles        []string `json:"allowedRoles,omitempty"`
	Status              string   `json:"status"`
	CreatedAt           int64    `json:"createdAt"`
	VotingEndTime       int64    `json:"votingEndTime,omitempty"`
	TotalSubmissions    uint64   `json:"totalSubmissions"`
	WinningSubmissionID uint64   `json:"winningSubmissionId,omitempty"`
	FundsReleased       bool     `json:"fundsReleased"`
}

func newBountyJSON(b *bounty.Bounty) *bountyJSON {
	if b == nil {
		return nil
	}
	out := &bountyJSON{
		ID:                  b.ID,
		Creator:             encodeAddress(b.Creator),
		Title:               b.Title,
		Description:         b.Description,
		MetadataHash:        b.MetadataHash,
		Deadline:            b.Deadline,
		AllowedRoles:        b.AllowedRoles,
		Status:              b.Status.String(),
		CreatedAt:           b.CreatedAt,
		VotingEndTime:       b.VotingEndTime,
		TotalSubmissions:    b.TotalSubmissions,
		WinningSubmissionID: b.WinningSubmission,
		FundsReleased:       b.FundsReleased,
	}
	if b.Reward != nil {
		out.Reward = b.Reward.String()
	}
	return out
}

type submissionJSON struct {
	ID          uint64 `json:"id"`
	BountyID    uint64 `json:"bountyId"`
	Contributor string `json:"contributor"`
	ContentHash string `json:"contentHash"`
	VoteCount   uint64 `json:"voteCount"`
	CreatedAt   int64  `json:"createdAt"`
}

func newSubmissionJSON(s *bounty.Submission) *submissionJSON {
	if s == nil {
		return nil
	}
	return &submissionJSON{
		ID:          s.ID,
		BountyID:    s.BountyID,
		Contributor: encodeAddress(s.Contributor),
		ContentHash: s.ContentHash,
		VoteCount:   s.VoteCount,
		CreatedAt:   s.CreatedAt,
	}
}

type voteJSON struct {
	BountyID     uint64 `json:"bountyId"`
	Voter        string `json:"voter"`
	SubmissionID uint64 `json:"submissionId"`
	Weight       uint64 `json:"weight"`
	CastAt       int64  `json:"castAt"`
}

func newVoteJSON(v bounty.VoteRecord) voteJSON {
	return voteJSON{
		BountyID:     v.BountyID,
		Voter:        encodeAddress(v.Voter),
		SubmissionID: v.SubmissionID,
		Weight:       v.Weight,
		CastAt:       v.CastAt,
	}
}

type payoutJSON struct {
	BountyID            uint64 `json:"bountyId"`
	WinningSubmissionID uint64 `json:"winningSubmissionId"`
	Winner              string `json:"winner"`
	Payout              string `json:"payout"`
	Fee                 string `json:"fee"`
}

func newPayoutJSON(r *bounty.PayoutResult) *payoutJSON {
	if r == nil {
		return nil
	}
	out := &payoutJSON{
		BountyID:            r.BountyID,
		WinningSubmissionID: r.WinningSubmissionID,
		Winner:              encodeAddress(r.Winner),
	}
	if r.Payout != nil {
		out.Payout = r.Payout.String()
	}
	if r.Fee != nil {
		out.Fee = r.Fee.String()
	}
	return out
}
