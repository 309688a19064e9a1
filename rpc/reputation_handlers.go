package rpc

import "net/http"

type grantParams struct {
	Caller  string `json:"caller"`
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

func (s *Server) handleReputationGrant(w http.ResponseWriter, req *RPCRequest) {
	var params grantParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	account, err := parseAddress("account", params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	score, err := s.node.GrantReputation(caller, account, params.Amount)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	s.metrics.ObserveOperation(req.Method)
	writeResult(w, req.ID, map[string]interface{}{"account": params.Account, "reputation": score})
}

type accountParams struct {
	Account string `json:"account"`
}

func (s *Server) handleReputationGet(w http.ResponseWriter, req *RPCRequest) {
	var params accountParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	account, err := parseAddress("account", params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	score, err := s.node.Reputation(account)
	if err != nil {
		s.writeEngineError(w, req.Method, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"account": params.Account, "reputation": score})
}
