// Package server exposes the scoring core over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/miracle380301/cryptoguardian/scoring"
	"github.com/miracle380301/cryptoguardian/store"
)

// DomainValidator is the scoring core as the server sees it.
type DomainValidator interface {
	Validate(ctx context.Context, domain string, rtype scoring.RequestType) (*scoring.ValidationResult, error)
}

// Server holds the HTTP handlers.
type Server struct {
	validator DomainValidator
	reports   store.Reports
	exchanges store.ExchangeRegistry
	log       zerolog.Logger
}

// New wires a server. reports and exchanges may be nil, disabling the
// corresponding endpoints with 503.
func New(validator DomainValidator, reports store.Reports, exchanges store.ExchangeRegistry, log zerolog.Logger) *Server {
	return &Server{
		validator: validator,
		reports:   reports,
		exchanges: exchanges,
		log:       log.With().Str("component", "http").Logger(),
	}
}

// Routes mounts the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Post("/api/validate", s.handleValidate)
	r.Post("/api/reports", s.handleReport)
	r.Get("/api/exchanges/{domain}", s.handleExchangeLookup)
	return r
}

type validateRequest struct {
	Domain string `json:"domain"`
	Type   string `json:"type,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Domain) == "" {
		writeError(w, http.StatusBadRequest, "domain required")
		return
	}

	rtype := scoring.RequestType(req.Type)
	switch rtype {
	case "", scoring.RequestGeneral, scoring.RequestCrypto:
	default:
		writeError(w, http.StatusBadRequest, "type must be general or crypto")
		return
	}

	res, err := s.validator.Validate(r.Context(), req.Domain, rtype)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidDomain) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("domain", req.Domain).Msg("validation failed")
		writeError(w, http.StatusInternalServerError, "validation failed")
		return
	}

	s.log.Info().Str("domain", res.Domain).Int("score", res.FinalScore).Str("status", string(res.Status)).Msg("validated")
	writeJSON(w, http.StatusOK, res)
}

type reportRequest struct {
	Domain   string `json:"domain"`
	Reason   string `json:"reason"`
	Category string `json:"category,omitempty"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report intake disabled")
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lower, _, err := scoring.NormalizeDomain(req.Domain)
	if err != nil {
		writeError(w, http.StatusBadRequest, "valid domain required")
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		writeError(w, http.StatusBadRequest, "reason required")
		return
	}

	rep := store.Report{
		ID:        uuid.NewString(),
		Domain:    lower,
		Reason:    req.Reason,
		Category:  req.Category,
		Status:    "pending",
		CreatedAt: time.Now(),
	}
	if err := s.reports.Insert(r.Context(), rep); err != nil {
		s.log.Error().Err(err).Str("domain", lower).Msg("report insert failed")
		writeError(w, http.StatusInternalServerError, "could not store report")
		return
	}

	writeJSON(w, http.StatusCreated, rep)
}

func (s *Server) handleExchangeLookup(w http.ResponseWriter, r *http.Request) {
	if s.exchanges == nil {
		writeError(w, http.StatusServiceUnavailable, "exchange registry disabled")
		return
	}

	lower, _, err := scoring.NormalizeDomain(chi.URLParam(r, "domain"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "valid domain required")
		return
	}

	rec, err := s.exchanges.Lookup(r.Context(), lower)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not a verified exchange")
			return
		}
		s.log.Error().Err(err).Str("domain", lower).Msg("exchange lookup failed")
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
