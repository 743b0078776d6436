// Package trade checks, adjusts and generates two-team trades on top of the
// valuation package. Every operation reads a league.Store snapshot and
// returns new values; nothing here mutates league state.
package trade

import (
	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/valuation"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

type Engine struct {
	store   league.Store
	valuer  *valuation.Valuer
	checker *Checker
	offers  OfferOptions
	log     *logger.Logger
}

func NewEngine(v *valuation.Valuer, offers OfferOptions, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		store:   v.Store(),
		valuer:  v,
		checker: NewChecker(v.Store()),
		offers:  offers.withDefaults(),
		log:     log,
	}
}

func (e *Engine) Checker() *Checker          { return e.checker }
func (e *Engine) Valuer() *valuation.Valuer  { return e.valuer }
func (e *Engine) OfferOptions() OfferOptions { return e.offers }

func (e *Engine) Check(p models.TradeProposal) ([]models.Warning, error) {
	return e.checker.Check(p)
}

// sideAssets resolves the assets a side sends away.
func (e *Engine) sideAssets(side models.TeamSide) ([]models.Asset, error) {
	assets := make([]models.Asset, 0, side.AssetCount())
	for _, pid := range side.PlayerIDs {
		p, err := e.store.Player(pid)
		if err != nil {
			return nil, &models.InvalidAssetError{Kind: models.AssetPlayer, ID: pid, TeamID: side.TeamID, Reason: "does not exist"}
		}
		assets = append(assets, models.PlayerAsset{Player: p})
	}
	for _, dpid := range side.PickIDs {
		dp, err := e.store.Pick(dpid)
		if err != nil {
			return nil, &models.InvalidAssetError{Kind: models.AssetPick, ID: dpid, TeamID: side.TeamID, Reason: "does not exist"}
		}
		assets = append(assets, models.PickAsset{Pick: dp})
	}
	return assets, nil
}

// ValueChanges returns each side's value change for p, in side order.
func (e *Engine) ValueChanges(p models.TradeProposal, opts ...valuation.EvalOption) ([2]float64, error) {
	var dv [2]float64
	var assets [2][]models.Asset
	for i, side := range p.Teams {
		a, err := e.sideAssets(side)
		if err != nil {
			return dv, err
		}
		assets[i] = a
	}
	for i, side := range p.Teams {
		v, err := e.valuer.ValueChange(side.TeamID, assets[1-i], assets[i], opts...)
		if err != nil {
			return dv, err
		}
		dv[i] = v
	}
	return dv, nil
}
