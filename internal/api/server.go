// Package api serves the loaded chain database over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"addition-chain-db/internal/chain"
)

// Server answers read-only queries against an immutable chain store.
type Server struct {
	store   *chain.Store
	logger  *zap.Logger
	metrics *Metrics
}

// NewServer creates a query server over the given store.
func NewServer(store *chain.Store, logger *zap.Logger, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{store: store, logger: logger, metrics: metrics}
}

// Routes builds the chi router with all query endpoints mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.metrics.instrument("healthz", s.handleHealth))
	r.Get("/stats", s.metrics.instrument("stats", s.handleStats))
	r.Get("/index", s.metrics.instrument("index_range", s.handleIndexRange))
	r.Get("/index/{n}", s.metrics.instrument("index", s.handleIndex))
	r.Get("/chains/{n}", s.metrics.instrument("chains", s.handleChains))
	r.Handle("/metrics", s.metrics.Handler())

	return r
}

// chainsResponse is the payload for GET /chains/{n}.
type chainsResponse struct {
	Index  chain.IndexRecord   `json:"index"`
	Chains []chain.ChainRecord `json:"chains"`
}

func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	n, ok := s.targetParam(w, r)
	if !ok {
		return
	}

	rec, chains, err := s.store.Query(n)
	if err != nil {
		s.writeQueryError(w, r, err)
		return
	}

	s.metrics.ChainsServed.Add(float64(len(chains)))
	s.writeJSON(w, http.StatusOK, chainsResponse{Index: rec, Chains: chains})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	n, ok := s.targetParam(w, r)
	if !ok {
		return
	}

	rec, err := s.store.Index(n)
	if err != nil {
		s.writeQueryError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleIndexRange(w http.ResponseWriter, r *http.Request) {
	from, to := 1, chain.MaxTarget
	var err error

	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = strconv.Atoi(v); err != nil {
			s.writeError(w, http.StatusBadRequest, "from must be an integer")
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = strconv.Atoi(v); err != nil {
			s.writeError(w, http.StatusBadRequest, "to must be an integer")
			return
		}
	}
	if from > to {
		s.writeError(w, http.StatusBadRequest, "from must not exceed to")
		return
	}

	records := make([]chain.IndexRecord, 0)
	s.store.AscendRange(from, to, func(rec chain.IndexRecord) bool {
		records = append(records, rec)
		return true
	})

	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// targetParam parses the {n} path parameter, writing a 400 on failure.
func (s *Server) targetParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "n")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		s.writeError(w, http.StatusBadRequest, "n must be a positive integer")
		return 0, false
	}
	return n, true
}

func (s *Server) writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	var nferr *chain.NotFoundError
	if errors.As(err, &nferr) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.logger.Error("query failed", zap.String("path", r.URL.Path), zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
