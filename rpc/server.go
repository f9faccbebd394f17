// Package rpc exposes the bridge contract queries as a JSON HTTP API.
package rpc

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"osmobridge/contracts/denom"
	"osmobridge/contracts/gateway"
	"osmobridge/contracts/liquidity"
)

// Querier is the read-only chain surface the API serves from. *chain.App
// satisfies it.
type Querier interface {
	Query(contractAddr string, msg interface{}, out interface{}) ([]byte, error)
}

// Contracts names the deployed instances the API fronts.
type Contracts struct {
	Gateway          string
	LiquidityManager string
	DenomManager     string
}

// Server is the HTTP query API.
type Server struct {
	querier   Querier
	contracts Contracts
	metrics   *Metrics
	log       *slog.Logger
}

// NewServer wires the API against a chain querier.
func NewServer(querier Querier, contracts Contracts, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		querier:   querier,
		contracts: contracts,
		metrics:   NewMetrics(),
		log:       log,
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.metrics.Middleware("root"))
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/gateway/config", s.handleGatewayConfig)
		v1.Get("/liquidity/config", s.handleLiquidityConfig)
		v1.Get("/liquidity/pause", s.handlePauseInfo)
		v1.Get("/liquidity/balances/{depositor}", s.handleBalances)
		v1.Get("/liquidity/bonds/{bonder}", s.handleBond)
		v1.Get("/liquidity/unbonds/{owner}", s.handleUnbondsByOwner)
		v1.Get("/liquidity/unbond/{id}", s.handleUnbond)
		v1.Get("/denoms/{token}", s.handleConvert)
	})

	r.Handle("/metrics", s.metrics.Handler())
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) handleGatewayConfig(w http.ResponseWriter, _ *http.Request) {
	var resp gateway.ConfigResponse
	if _, err := s.querier.Query(s.contracts.Gateway, gateway.QueryMsg{GetConfig: &gateway.GetConfigQuery{}}, &resp); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleLiquidityConfig(w http.ResponseWriter, _ *http.Request) {
	var resp liquidity.ConfigResponse
	if _, err := s.querier.Query(s.contracts.LiquidityManager, liquidity.QueryMsg{GetConfig: &liquidity.GetConfigQuery{}}, &resp); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handlePauseInfo(w http.ResponseWriter, _ *http.Request) {
	var resp liquidity.PauseInfoResponse
	if _, err := s.querier.Query(s.contracts.LiquidityManager, liquidity.QueryMsg{PauseInfo: &liquidity.PauseInfoQuery{}}, &resp); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	depositor := chi.URLParam(r, "depositor")
	var resp liquidity.GetBalanceResponse
	if _, err := s.querier.Query(s.contracts.LiquidityManager, liquidity.QueryMsg{
		GetBalance: &liquidity.GetBalanceQuery{Depositor: depositor},
	}, &resp); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleBond(w http.ResponseWriter, r *http.Request) {
	bonder := chi.URLParam(r, "bonder")
	var resp liquidity.GetBondResponse
	if _, err := s.querier.Query(s.contracts.LiquidityManager, liquidity.QueryMsg{
		GetBond: &liquidity.GetBondQuery{Bonder: bonder},
	}, &resp); err != nil {
		if errors.Is(err, liquidity.ErrUnbondingNotStarted) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleUnbond(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	var resp liquidity.UnbondResponse
	if _, err := s.querier.Query(s.contracts.LiquidityManager, liquidity.QueryMsg{
		GetUnbond: &liquidity.GetUnbondQuery{UnbondID: id},
	}, &resp); err != nil {
		if errors.Is(err, liquidity.ErrUnbondingNotStarted) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleUnbondsByOwner(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	var resp liquidity.GetUnbondsByOwnerResponse
	if _, err := s.querier.Query(s.contracts.LiquidityManager, liquidity.QueryMsg{
		GetUnbondsByOwner: &liquidity.GetUnbondsByOwnerQuery{Owner: owner},
	}, &resp); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var resp denom.ConvertResponse
	if _, err := s.querier.Query(s.contracts.DenomManager, denom.QueryMsg{
		Convert: &denom.ConvertQuery{Token: token},
	}, &resp); err != nil {
		var notFound *denom.DenomNotFoundError
		if errors.As(err, &notFound) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, resp)
}
