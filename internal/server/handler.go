package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
	"github.com/sheikh-saqib/bank-ledger-system/internal/relay"
)

// Server exposes the bank over HTTP. Handlers validate the request, call
// the bank, and on success let the relay forward what was committed to the
// archive and event stream.
type Server struct {
	bank  *ledger.Bank
	relay *relay.Relay
	log   *zap.Logger
}

func New(bank *ledger.Bank, r *relay.Relay, log *zap.Logger) *Server {
	return &Server{bank: bank, relay: r, log: log}
}

// sync drains committed transactions into the archive. The ledger operation
// has already succeeded at this point, so a failing archive is logged and
// retried on the next drain rather than surfaced to the client.
func (s *Server) sync(r *http.Request) {
	if err := s.relay.Drain(r.Context()); err != nil {
		s.log.Warn("journal drain failed", zap.Error(err))
	}
}

type openAccountRequest struct {
	Type           string           `json:"type"`
	ID             string           `json:"id"`
	OverdraftLimit *money.Amount    `json:"overdraft_limit"`
	FeePercent     *decimal.Decimal `json:"fee_percent"`
	MinFee         *money.Amount    `json:"min_fee"`
	RatePerPeriod  *decimal.Decimal `json:"rate_per_period"`
}

func (s *Server) openAccount(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	params := ledger.AccountParams{
		OverdraftLimit: req.OverdraftLimit,
		FeePercent:     req.FeePercent,
		MinFee:         req.MinFee,
		RatePerPeriod:  req.RatePerPeriod,
	}
	id, err := s.bank.OpenAccount(req.Type, req.ID, params)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := s.relay.RecordAccount(r.Context(), ledger.AccountRecord{ID: id, Kind: req.Type, Params: params}); err != nil {
		s.log.Warn("archive account failed", zap.String("account_id", id), zap.Error(err))
	}

	description, _ := s.bank.DescribeAccount(id)
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":          id,
		"description": description,
	})
}

func (s *Server) closeAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.bank.CloseAccount(mux.Vars(r)["id"]); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	balance, err := s.bank.Balance(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	description, _ := s.bank.DescribeAccount(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          id,
		"balance":     balance,
		"description": description,
	})
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount  money.Amount `json:"amount"`
		Purpose string       `json:"purpose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	txID, err := s.bank.DepositCash(mux.Vars(r)["id"], req.Amount, req.Purpose)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.sync(r)
	writeJSON(w, http.StatusCreated, map[string]int64{"transaction_id": txID})
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From    string       `json:"from"`
		To      string       `json:"to"`
		Amount  money.Amount `json:"amount"`
		Purpose string       `json:"purpose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	txIDs, err := s.bank.Transfer(req.From, req.To, req.Amount, req.Purpose)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.sync(r)
	writeJSON(w, http.StatusCreated, map[string][]int64{"transaction_ids": txIDs})
}

func (s *Server) accountEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.bank.AccountEntries(mux.Vars(r)["id"], limitParam(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) journal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bank.Journal(limitParam(r)))
}

func (s *Server) runInterest(w http.ResponseWriter, r *http.Request) {
	txIDs, err := s.bank.ApplyInterestToAllSavings()
	if err != nil {
		writeErr(w, err)
		return
	}
	s.sync(r)
	if txIDs == nil {
		txIDs = []int64{}
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"transaction_ids": txIDs})
}

func (s *Server) audit(w http.ResponseWriter, r *http.Request) {
	if err := s.bank.AuditJournal(); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// limitParam reads the optional ?limit= tail size; zero means everything.
func limitParam(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
