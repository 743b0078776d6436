// Package api serves the trade desk over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pmurley/ulb-tradedesk/internal/desk"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/negotiation"
	"github.com/pmurley/ulb-tradedesk/internal/trade"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

type contextKey string

const loggerContextKey contextKey = "logger"

type Server struct {
	desk *desk.Desk
	log  *logger.Logger
	mux  *chi.Mux
}

func New(d *desk.Desk, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		desk: d,
		log:  log,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(s.requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/league", s.handleLeague)
		r.Post("/league/reload", s.handleReload)
		r.Get("/teams/{tid}/offers", s.handleOffers)
		r.Post("/trades/value", s.handleValue)
		r.Post("/trades/make-it-work", s.handleMakeItWork)
		r.Get("/players/{pid}/contract-options", s.handleContractOptions)
	})
}

// requestID tags each request with a UUID, reusing the caller's when given,
// and attaches a request-scoped logger.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		log := s.log.With("request", id)
		log.Debugf("%s %s", r.Method, r.URL.Path)
		ctx := context.WithValue(r.Context(), loggerContextKey, log)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logger(ctx context.Context) *logger.Logger {
	if log, ok := ctx.Value(loggerContextKey).(*logger.Logger); ok {
		return log
	}
	return s.log
}

type leagueResponse struct {
	Version string              `json:"version"`
	State   models.GameState    `json:"state"`
	Config  models.LeagueConfig `json:"config"`
	Teams   []models.Team       `json:"teams"`
}

func (s *Server) handleLeague(w http.ResponseWriter, r *http.Request) {
	snap, err := s.desk.Snapshot(r.Context())
	if err != nil {
		s.writeDeskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leagueResponse{
		Version: snap.Version(),
		State:   snap.State(),
		Config:  snap.LeagueConfig(),
		Teams:   snap.Teams(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.desk.Reload(r.Context())
	if err != nil {
		s.writeDeskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"version": snap.Version()})
}

func (s *Server) handleOffers(w http.ResponseWriter, r *http.Request) {
	tid, err := strconv.Atoi(chi.URLParam(r, "tid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	offers, err := s.desk.Offers(r.Context(), tid)
	if err != nil {
		s.writeDeskError(w, r, err)
		return
	}
	if offers == nil {
		offers = []models.TradeSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"offers": offers})
}

// tradeRequest carries a proposal either as IDs or as text such as
// "Judge, NYY 2026 1st for Soto".
type tradeRequest struct {
	Proposal *models.TradeProposal `json:"proposal,omitempty"`
	Text     string                `json:"text,omitempty"`

	// make-it-work only
	MaxRounds int        `json:"maxRounds,omitempty"`
	Seed      int64      `json:"seed,omitempty"`
	Tolerance [2]float64 `json:"tolerance,omitempty"`
	Hold      [2]bool    `json:"hold,omitempty"`
}

func (s *Server) proposal(ctx context.Context, in tradeRequest) (models.TradeProposal, error) {
	switch {
	case in.Proposal != nil && in.Text != "":
		return models.TradeProposal{}, &desk.ParseError{Reason: "give either proposal or text, not both"}
	case in.Proposal != nil:
		if in.Proposal.Teams[0].TeamID == in.Proposal.Teams[1].TeamID {
			return models.TradeProposal{}, &desk.ParseError{Reason: "both sides belong to the same team"}
		}
		return *in.Proposal, nil
	case in.Text != "":
		snap, err := s.desk.Snapshot(ctx)
		if err != nil {
			return models.TradeProposal{}, err
		}
		return desk.ParseProposal(snap, in.Text)
	}
	return models.TradeProposal{}, &desk.ParseError{Reason: "missing proposal"}
}

func (s *Server) handleValue(w http.ResponseWriter, r *http.Request) {
	var in tradeRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.proposal(r.Context(), in)
	if err != nil {
		s.writeDeskError(w, r, err)
		return
	}
	summary, err := s.desk.Value(r.Context(), p)
	if err != nil {
		s.writeDeskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type makeItWorkResponse struct {
	Found   bool                 `json:"found"`
	Summary *models.TradeSummary `json:"summary,omitempty"`
}

func (s *Server) handleMakeItWork(w http.ResponseWriter, r *http.Request) {
	var in tradeRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.proposal(r.Context(), in)
	if err != nil {
		s.writeDeskError(w, r, err)
		return
	}

	opts := trade.DefaultOptions()
	if in.MaxRounds > 0 {
		opts.MaxRounds = in.MaxRounds
	}
	opts.Seed = in.Seed
	opts.Tolerance = in.Tolerance
	opts.Hold = in.Hold

	summary, err := s.desk.MakeItWork(r.Context(), p, opts)
	if err != nil {
		s.writeDeskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, makeItWorkResponse{Found: summary != nil, Summary: summary})
}

type contractOptionsResponse struct {
	PlayerID int                    `json:"pid"`
	TeamID   int                    `json:"tid"`
	Anchor   models.ContractTerms   `json:"anchor"`
	Options  []models.ContractOffer `json:"options"`
}

// handleContractOptions reads the team from ?tid= and an optional anchor from
// ?years= and ?amount=; without an anchor the player's asking contract is used.
func (s *Server) handleContractOptions(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}
	q := r.URL.Query()
	tid, err := strconv.Atoi(q.Get("tid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "tid query parameter is required")
		return
	}

	var anchor *models.ContractTerms
	if q.Has("years") || q.Has("amount") {
		years, yerr := strconv.Atoi(q.Get("years"))
		amount, aerr := strconv.Atoi(q.Get("amount"))
		if yerr != nil || aerr != nil {
			writeError(w, http.StatusBadRequest, "years and amount must both be integers")
			return
		}
		anchor = &models.ContractTerms{Years: years, Amount: amount}
	}

	offers, terms, err := s.desk.ContractOptions(r.Context(), pid, tid, anchor)
	if err != nil {
		s.writeDeskError(w, r, err)
		return
	}
	if offers == nil {
		offers = []models.ContractOffer{}
	}
	writeJSON(w, http.StatusOK, contractOptionsResponse{PlayerID: pid, TeamID: tid, Anchor: terms, Options: offers})
}

// writeDeskError maps engine errors to status codes. Unexpected errors are
// logged and reported as 500.
func (s *Server) writeDeskError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid *models.InvalidAssetError
		parse   *desk.ParseError
	)
	switch {
	case errors.As(err, &parse):
		writeError(w, http.StatusBadRequest, parse.Error())
	case errors.As(err, &invalid):
		writeError(w, http.StatusUnprocessableEntity, invalid.Error())
	case errors.Is(err, models.ErrPlayerNotFound), errors.Is(err, models.ErrTeamNotFound), errors.Is(err, models.ErrPickNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, negotiation.ErrNotNegotiable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger(r.Context()).Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("internal error: %v", err))
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
