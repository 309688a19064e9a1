package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"bountychain/crypto"
	"bountychain/native/bounty"
)

func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return errors.New("expected a single parameter object")
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func parseAddress(field, value string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(value))
	if err != nil {
		return [20]byte{}, fmt.Errorf("invalid %s address: %w", field, err)
	}
	return addr.Raw(), nil
}

func parseAmount(field, value string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s: expected a decimal string", field)
	}
	return v, nil
}

type createBountyParams struct {
	Creator      string   `json:"creator"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	MetadataHash string   `json:"metadataHash"`
	Reward       string   `json:"rewardAmount"`
	Deadline     int64    `json:"deadline"`
	AllowedRoles []string `json:"allowedRoles"`
}

func (s *Server) handleBountyCreate(w http.ResponseWriter, req *RPCRequest) {
	var params createBountyParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	creator, err := parseAddress("creator", params.Creator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	reward, err := parseAmount("rewardAmount", params.Reward)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	b, err := s.node.CreateBounty(creator, params.Title, params.Description, params.MetadataHash, reward, params.Deadline, params.AllowedRoles)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	s.metrics.ObserveOperation(req.Method)
	s.publishEscrowGauge()
	writeResult(w, req.ID, newBountyJSON(b))
}

type bountyCallParams struct {
	Caller   string `json:"caller"`
	BountyID uint64 `json:"bountyId"`
}

func (s *Server) handleBountyCancel(w http.ResponseWriter, req *RPCRequest) {
	var params bountyCallParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.node.CancelBounty(caller, params.BountyID); err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	s.metrics.ObserveOperation(req.Method)
	s.publishEscrowGauge()
	writeResult(w, req.ID, map[string]interface{}{"bountyId": params.BountyID, "status": bounty.StatusCancelled.String()})
}

func (s *Server) handleBountyStartVoting(w http.ResponseWriter, req *RPCRequest) {
	var params bountyCallParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	b, err := s.node.StartVotingPhase(caller, params.BountyID)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	s.metrics.ObserveOperation(req.Method)
	writeResult(w, req.ID, newBountyJSON(b))
}

type submitWorkParams struct {
	Contributor string `json:"contributor"`
	BountyID    uint64 `json:"bountyId"`
	ContentHash string `json:"contentHash"`
}

func (s *Server) handleBountySubmitWork(w http.ResponseWriter, req *RPCRequest) {
	var params submitWorkParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	contributor, err := parseAddress("contributor", params.Contributor)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	sub, err := s.node.SubmitWork(contributor, params.BountyID, params.ContentHash)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	s.metrics.ObserveOperation(req.Method)
	writeResult(w, req.ID, newSubmissionJSON(sub))
}

type voteParams struct {
	Voter        string `json:"voter"`
	BountyID     uint64 `json:"bountyId"`
	SubmissionID uint64 `json:"submissionId"`
}

func (s *Server) handleBountyVote(w http.ResponseWriter, req *RPCRequest) {
	var params voteParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	voter, err := parseAddress("voter", params.Voter)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	record, err := s.node.VoteOnSubmission(voter, params.BountyID, params.SubmissionID)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	s.metrics.ObserveOperation(req.Method)
	writeResult(w, req.ID, newVoteJSON(*record))
}

func (s *Server) handleBountySelectWinner(w http.ResponseWriter, req *RPCRequest) {
	var params bountyCallParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	result, err := s.node.SelectWinnerAndPayout(caller, params.BountyID)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	s.metrics.ObserveOperation(req.Method)
	s.publishEscrowGauge()
	writeResult(w, req.ID, newPayoutJSON(result))
}

type idParams struct {
	ID uint64 `json:"id"`
}

func (s *Server) handleBountyGet(w http.ResponseWriter, req *RPCRequest) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	b, err := s.node.GetBounty(params.ID)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	writeResult(w, req.ID, newBountyJSON(b))
}

func (s *Server) handleBountyGetSubmission(w http.ResponseWriter, req *RPCRequest) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	sub, err := s.node.GetSubmission(params.ID)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	writeResult(w, req.ID, newSubmissionJSON(sub))
}

type bountyIDParams struct {
	BountyID uint64 `json:"bountyId"`
}

func (s *Server) handleBountyListSubmissions(w http.ResponseWriter, req *RPCRequest) {
	var params bountyIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	ids, err := s.node.BountySubmissions(params.BountyID)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	writeResult(w, req.ID, ids)
}

func (s *Server) handleBountyListVotes(w http.ResponseWriter, req *RPCRequest) {
	var params bountyIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	votes, err := s.node.BountyVotes(params.BountyID)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	out := make([]voteJSON, 0, len(votes))
	for _, v := range votes {
		out = append(out, newVoteJSON(v))
	}
	writeResult(w, req.ID, out)
}

type listParams struct {
	Status string `json:"status"`
}

func statusFilter(raw string) (*bounty.Status, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return nil, nil
	}
	for _, st := range []bounty.Status{bounty.StatusActive, bounty.StatusVoting, bounty.StatusCompleted, bounty.StatusCancelled} {
		if st.String() == trimmed {
			filter := st
			return &filter, nil
		}
	}
	return nil, fmt.Errorf("unknown status filter: %s", raw)
}

func (s *Server) handleBountyList(w http.ResponseWriter, req *RPCRequest) {
	var params listParams
	if len(req.Params) > 0 {
		if err := decodeParams(req, &params); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}
	filter, err := statusFilter(params.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	bounties, err := s.node.ListBounties(filter)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	out := make([]*bountyJSON, 0, len(bounties))
	for _, b := range bounties {
		out = append(out, newBountyJSON(b))
	}
	writeResult(w, req.ID, out)
}

func (s *Server) handleTotalBounties(w http.ResponseWriter, req *RPCRequest) {
	total, err := s.node.TotalBounties()
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	writeResult(w, req.ID, total)
}

func (s *Server) handleTotalSubmissions(w http.ResponseWriter, req *RPCRequest) {
	total, err := s.node.TotalSubmissions()
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	writeResult(w, req.ID, total)
}

type eventsParams struct {
	Limit int `json:"limit"`
}

func (s *Server) handleEventsLatest(w http.ResponseWriter, req *RPCRequest) {
	var params eventsParams
	if len(req.Params) > 0 {
		if err := decodeParams(req, &params); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}
	writeResult(w, req.ID, s.node.LatestEvents(params.Limit))
}
