package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"claimflow-rag/internal/assistant"
	"claimflow-rag/internal/rag"
	"claimflow-rag/internal/savings"

	"github.com/rs/zerolog/log"
)

type answerRequest struct {
	Query         string  `json:"query"`
	K             int     `json:"k,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
	Language      string  `json:"language,omitempty"`
	Speech        bool    `json:"speech,omitempty"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp := s.answerer.Respond(r.Context(), req.Query, assistant.Options{
		K:             req.K,
		MinSimilarity: req.MinSimilarity,
		Language:      req.Language,
		Speech:        req.Speech,
	})
	s.respondJSON(w, http.StatusOK, resp)
}

type retrieveRequest struct {
	Query         string   `json:"query"`
	K             int      `json:"k,omitempty"`
	MinSimilarity *float64 `json:"min_similarity,omitempty"`
	Language      string   `json:"language,omitempty"`
	Speech        bool     `json:"speech,omitempty"`
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	opts := s.retrieval
	opts.Language, opts.Speech = req.Language, req.Speech
	if req.K > 0 {
		opts.K = req.K
	}
	if req.MinSimilarity != nil {
		opts.MinSimilarity = *req.MinSimilarity
	}
	c, err := s.searcher.Search(r.Context(), req.Query, opts)
	switch {
	case errors.Is(err, rag.ErrEmptyQuery):
		s.respondError(w, http.StatusBadRequest, "query is too short")
		return
	case errors.Is(err, rag.ErrIndexUnavailable):
		log.Error().Err(err).Msg("Retrieve: index unavailable")
		s.respondError(w, http.StatusServiceUnavailable, "knowledge store unavailable")
		return
	case err != nil:
		log.Error().Err(err).Msg("Retrieve failed")
		s.respondError(w, http.StatusInternalServerError, "retrieval failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"passages": c.Passages,
		"context":  c.Text(),
	})
}

type compoundRequest struct {
	Principal float64 `json:"principal"`
	Rate      float64 `json:"rate"`
	Years     int     `json:"years"`
	Frequency int     `json:"frequency,omitempty"`
}

func (s *Server) handleCompound(w http.ResponseWriter, r *http.Request) {
	var req compoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := savings.CompoundInterest(req.Principal, req.Rate, req.Years, req.Frequency)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	growth, err := savings.GrowthSeries(req.Principal, req.Rate, req.Years)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"result": result, "growth": growth})
}

type sipRequest struct {
	Monthly float64 `json:"monthly"`
	Rate    float64 `json:"rate"`
	Years   int     `json:"years"`
}

func (s *Server) handleSIP(w http.ResponseWriter, r *http.Request) {
	var req sipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := savings.SIP(req.Monthly, req.Rate, req.Years)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rows, err := savings.Compare(req.Principal, req.Years)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"comparison": rows,
		"note":       "Illustrative rates for education only, not financial advice.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
