package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"bountychain/core"
	"bountychain/native/bounty"
	"bountychain/native/reputation"
	"bountychain/observability/metrics"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB

	ratePerSecond = 25
	rateBurst     = 50
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
	codeRateLimited    = -32020

	// Engine failure kinds.
	codeInvalidInput    = -32040
	codeStateError      = -32041
	codeUnauthorizedOp  = -32042
	codeTimingError     = -32043
	codeDuplicateAction = -32044
	codeNotFound        = -32045
)

// Server exposes the node's operations over JSON-RPC 2.0.
type Server struct {
	node      *core.Node
	authToken string
	log       *slog.Logger
	metrics   *metrics.MarketplaceMetrics

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewServer wires an RPC server for the node. authToken gates administrative
// methods; when empty they are rejected outright.
func NewServer(node *core.Node, authToken string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		node:      node,
		authToken: strings.TrimSpace(authToken),
		log:       logger,
		metrics:   metrics.Marketplace(),
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Router assembles the HTTP surface: the JSON-RPC endpoint plus health and
// metrics probes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/", s.handle)
	return r
}

// Start serves the router on addr and blocks.
func (s *Server) Start(addr string) error {
	s.log.Info("starting JSON-RPC server", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) limiterFor(source string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	lim, ok := s.limiters[source]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(ratePerSecond), rateBurst)
		s.limiters[source] = lim
	}
	return lim
}

func clientSource(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) authorized(r *http.Request) bool {
	if s.authToken == "" {
		return false
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) == 1
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.limiterFor(clientSource(r)).Allow() {
		writeError(w, http.StatusTooManyRequests, nil, codeRateLimited, "rate limit exceeded", nil)
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	var req RPCRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", nil)
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported JSON-RPC version", nil)
		return
	}
	s.dispatch(w, r, &req)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	switch req.Method {
	case "bounty_create":
		s.handleBountyCreate(w, req)
	case "bounty_cancel":
		s.handleBountyCancel(w, req)
	case "bounty_startVoting":
		s.handleBountyStartVoting(w, req)
	case "bounty_submitWork":
		s.handleBountySubmitWork(w, req)
	case "bounty_vote":
		s.handleBountyVote(w, req)
	case "bounty_selectWinner":
		s.handleBountySelectWinner(w, req)
	case "bounty_get":
		s.handleBountyGet(w, req)
	case "bounty_getSubmission":
		s.handleBountyGetSubmission(w, req)
	case "bounty_listSubmissions":
		s.handleBountyListSubmissions(w, req)
	case "bounty_listVotes":
		s.handleBountyListVotes(w, req)
	case "bounty_list":
		s.handleBountyList(w, req)
	case "bounty_totalBounties":
		s.handleTotalBounties(w, req)
	case "bounty_totalSubmissions":
		s.handleTotalSubmissions(w, req)
	case "rep_grant":
		if !s.authorized(r) {
			writeError(w, http.StatusUnauthorized, req.ID, codeUnauthorized, "unauthorized", nil)
			return
		}
		s.handleReputationGrant(w, req)
	case "rep_get":
		s.handleReputationGet(w, req)
	case "events_latest":
		s.handleEventsLatest(w, req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found", nil)
	}
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// publishEscrowGauge refreshes the escrow gauge after an operation that moved
// value in or out of the vault.
func (s *Server) publishEscrowGauge() {
	balance, err := s.node.Balance(s.node.VaultAddress())
	if err != nil {
		return
	}
	v, _ := new(big.Float).SetInt(balance).Float64()
	s.metrics.SetEscrowLocked(v)
}

// failureKind names the engine error class for metrics labels.
func failureKind(err error) string {
	switch {
	case errors.Is(err, bounty.ErrDuplicateAction):
		return "duplicate"
	case errors.Is(err, bounty.ErrTiming):
		return "timing"
	case errors.Is(err, bounty.ErrState):
		return "state"
	case errors.Is(err, bounty.ErrUnauthorized), errors.Is(err, reputation.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, bounty.ErrInvalidInput), errors.Is(err, reputation.ErrInvalidAmount):
		return "invalid_input"
	default:
		return "internal"
	}
}

// writeEngineError maps an engine failure onto the RPC error taxonomy.
func (s *Server) writeEngineError(w http.ResponseWriter, method string, id interface{}, err error) {
	s.metrics.ObserveFailure(method, failureKind(err))
	status := http.StatusBadRequest
	code := codeServerError
	switch {
	case errors.Is(err, bounty.ErrBountyNotFound), errors.Is(err, bounty.ErrSubmissionNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, bounty.ErrDuplicateAction):
		code = codeDuplicateAction
	case errors.Is(err, bounty.ErrTiming):
		code = codeTimingError
	case errors.Is(err, bounty.ErrState):
		code = codeStateError
	case errors.Is(err, bounty.ErrUnauthorized), errors.Is(err, reputation.ErrUnauthorized):
		status, code = http.StatusForbidden, codeUnauthorizedOp
	case errors.Is(err, bounty.ErrInvalidInput), errors.Is(err, reputation.ErrInvalidAmount):
		code = codeInvalidInput
	default:
		status = http.StatusInternalServerError
		s.log.Error("rpc operation failed", "method", method, "err", err)
	}
	writeError(w, status, id, code, err.Error(), nil)
}
