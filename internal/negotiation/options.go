// Package negotiation builds the contract menu shown while negotiating with
// a player. It prices each allowed contract length around the player's
// desired (anchor) contract and marks the ones the player would refuse.
package negotiation

import (
	"fmt"
	"math"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/valuation"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

// Options tunes contract pricing.
type Options struct {
	// GrowthFactor is the per-year markup for lengths away from the anchor.
	GrowthFactor float64 `yaml:"growth_factor"`

	// GrowthJitter scales the per-player perturbation of GrowthFactor,
	// derived from the player's overall rating.
	GrowthJitter float64 `yaml:"growth_jitter"`

	// LengthAversion is the per-year markup the player asks for lengths away
	// from the anchor. Young players dislike long deals and veterans dislike
	// short ones.
	LengthAversion float64 `yaml:"length_aversion"`
	YoungAge       int     `yaml:"young_age"`
	VeteranAge     int     `yaml:"veteran_age"`

	// Rounding is the granularity of offered amounts, in thousands.
	Rounding int `yaml:"rounding"`
}

func DefaultOptions() Options {
	return Options{
		GrowthFactor:   0.08,
		GrowthJitter:   0.5,
		LengthAversion: 0.06,
		YoungAge:       26,
		VeteranAge:     31,
		Rounding:       10,
	}
}

type Generator struct {
	store  league.Store
	valuer *valuation.Valuer
	opts   Options
	log    *logger.Logger
}

func NewGenerator(v *valuation.Valuer, opts Options, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Rounding <= 0 {
		opts.Rounding = 1
	}
	return &Generator{store: v.Store(), valuer: v, opts: opts, log: log}
}

// DesiredContract is the contract a player opens negotiations with: roughly
// his market worth, short for young players and long for veterans.
func (g *Generator) DesiredContract(p models.Player) models.ContractTerms {
	cfg := g.store.LeagueConfig()
	years := 3
	switch {
	case p.Age < g.opts.YoungAge:
		years = 2
	case p.Age >= g.opts.VeteranAge:
		years = cfg.MaxContractLength
	}
	amount := g.round(float64(g.valuer.MarketWorth(p)))
	amount = min(max(amount, cfg.MinContract), cfg.MaxContract)
	return models.ContractTerms{Years: clampInt(years, cfg.MinContractLength, cfg.MaxContractLength), Amount: amount}
}

// ContractOptions lists one offer per allowed contract length for player pid
// negotiating with team tid. The anchor length, anchor clamped to the
// league's length limits, keeps anchor's amount and is never filtered or
// disabled. Other lengths are marked up by distance from the anchor, dropped
// when the league forbids the amount, and disabled with a reason when the
// player would not accept them.
func (g *Generator) ContractOptions(pid, tid int, anchor models.ContractTerms) ([]models.ContractOffer, error) {
	p, err := g.store.Player(pid)
	if err != nil {
		return nil, err
	}
	team, err := g.store.Team(tid)
	if err != nil {
		return nil, err
	}
	fin, err := g.store.FinancialState(tid)
	if err != nil {
		return nil, err
	}
	cfg := g.store.LeagueConfig()
	state := g.store.State()

	minYears := max(cfg.MinContractLength, 1)
	maxYears := max(cfg.MaxContractLength, minYears)
	anchorYears := clampInt(anchor.Years, minYears, maxYears)
	if anchorYears != anchor.Years {
		g.log.With("pid", pid).Debugf("anchor length %d clamped to %d", anchor.Years, anchorYears)
	}

	resigning := state.Phase == models.PhaseResignPlayers && p.TeamID == tid
	growth := g.growth(p.Ratings.Ovr)

	var offers []models.ContractOffer
	for years := minYears; years <= maxYears; years++ {
		isAnchor := years == anchorYears
		distance := math.Abs(float64(years - anchorYears))
		amount := anchor.Amount
		if !isAnchor {
			amount = g.round(float64(anchor.Amount) * (1 + distance*growth))
			if cfg.MaxContract > 0 && amount > cfg.MaxContract {
				continue
			}
			if cfg.ChallengeNoFreeAgents && state.Phase != models.PhaseResignPlayers && amount > cfg.MinContract {
				continue
			}
		}

		offer := models.ContractOffer{
			Years:    years,
			Amount:   amount,
			Exp:      expiration(state, years),
			IsAnchor: isAnchor,
		}
		if !isAnchor {
			ask := g.round(float64(anchor.Amount) * (1 + distance*g.aversion(p.Age, years-anchorYears)))
			reason, err := g.disabledReason(p, team, fin, cfg, resigning, offer, ask)
			if err != nil {
				return nil, err
			}
			offer.DisabledReason = reason
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func (g *Generator) disabledReason(p models.Player, team models.Team, fin models.FinancialState, cfg models.LeagueConfig, resigning bool, offer models.ContractOffer, ask int) (string, error) {
	if p.Mood.Refuses {
		return fmt.Sprintf("%s refuses to negotiate with the %s", p.Name, team.FullName()), nil
	}

	if cfg.SalaryCapType != models.CapNone {
		payroll := fin.Payroll
		if p.TeamID == team.ID {
			payroll -= p.Contract.Amount
		}
		over := payroll+offer.Amount > fin.CapFigure
		softException := cfg.SalaryCapType == models.CapSoft && (resigning || offer.Amount <= cfg.MinContract)
		if over && !softException {
			return "This contract would put you over the salary cap", nil
		}
	}

	dv, err := g.valuer.PlayerValueChange(p, team.ID,
		models.ContractAsset{Amount: offer.Amount, Years: offer.Years},
		models.ContractAsset{Amount: ask, Years: offer.Years})
	if err != nil {
		return "", err
	}
	if dv < 0 {
		return fmt.Sprintf("%s is not interested in a %d-year deal at this price", p.Name, offer.Years), nil
	}
	return "", nil
}

// growth perturbs GrowthFactor by the last digit of ovr, so players of
// different ratings get slightly different menus.
func (g *Generator) growth(ovr int) float64 {
	digit := float64(((ovr % 10) + 10) % 10)
	return g.opts.GrowthFactor * (1 + g.opts.GrowthJitter*(digit-4.5)/4.5)
}

// aversion is the player's markup per year for a contract delta years
// longer (positive) or shorter (negative) than the anchor.
func (g *Generator) aversion(age, delta int) float64 {
	a := g.opts.LengthAversion
	switch {
	case age < g.opts.YoungAge && delta > 0:
		return a * 1.5
	case age < g.opts.YoungAge && delta < 0:
		return a * 0.5
	case age >= g.opts.VeteranAge && delta < 0:
		return a * 1.5
	case age >= g.opts.VeteranAge && delta > 0:
		return a * 0.5
	}
	return a
}

func (g *Generator) round(amount float64) int {
	r := float64(g.opts.Rounding)
	return int(math.Round(amount/r) * r)
}

// expiration is the last season of a contract signed now. Deals signed after
// the playoffs start with next season.
func expiration(state models.GameState, years int) int {
	if state.Phase > models.PhasePlayoffs {
		return state.Season + years
	}
	return state.Season + years - 1
}

func clampInt(x, lo, hi int) int {
	return min(max(x, lo), hi)
}
