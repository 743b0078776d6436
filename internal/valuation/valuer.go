// Package valuation puts players, draft picks and contracts on one scale so
// that structurally different assets can be compared and traded.
//
// Player values run from 1 (replacement level) to about 100 (a star in his
// prime on a fair contract) before team-specific adjustments. Pick values are
// expressed on the same scale; cash converts at Params.CashPerPoint.
package valuation

import (
	"fmt"
	"math"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

// Memo stores evaluated trades between calls. internal/cache provides one
// backed by go-cache.
type Memo interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
}

// Valuer evaluates assets against a league store. It holds no league state of
// its own; everything is read from the store on each call.
type Valuer struct {
	store  league.Store
	params Params
	memo   Memo
	log    *logger.Logger
}

type Option func(*Valuer)

func WithMemo(m Memo) Option {
	return func(v *Valuer) { v.memo = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(v *Valuer) { v.log = l }
}

func New(store league.Store, params Params, opts ...Option) *Valuer {
	v := &Valuer{store: store, params: params, log: logger.Nop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Valuer) Store() league.Store { return v.store }
func (v *Valuer) Params() Params      { return v.params }

// AssetValue scores a single asset for team tid.
func (v *Valuer) AssetValue(a models.Asset, tid int) (float64, error) {
	switch a := a.(type) {
	case models.PlayerAsset:
		return v.PlayerValue(a.Player, tid)
	case models.PickAsset:
		return v.PickValue(a.Pick, tid)
	case models.ContractAsset:
		return v.CashValue(a), nil
	default:
		return 0, fmt.Errorf("unsupported asset %T", a)
	}
}

// PlayerValue scores p for team tid using tid's current roster as the
// positional context.
func (v *Valuer) PlayerValue(p models.Player, tid int) (float64, error) {
	team, err := v.store.Team(tid)
	if err != nil {
		return 0, err
	}
	roster, err := v.store.TeamRoster(tid)
	if err != nil {
		return 0, err
	}
	return v.playerValue(p, team, newTeamFit(roster.Players)), nil
}

func (v *Valuer) playerValue(p models.Player, team models.Team, fit teamFit) float64 {
	base := v.qualityScore(v.quality(p, team.Strategy))
	value := base *
		v.ageFactor(p.Age) *
		v.strategyFactor(p.Age, team.Strategy) *
		v.contractFactor(p) *
		v.fitFactor(p, fit)
	return value
}

// quality blends current and potential rating. Potential counts for more the
// further a player is from his peak, and more again for rebuilding teams.
func (v *Valuer) quality(p models.Player, strategy models.Strategy) float64 {
	span := float64(v.params.PeakAge - v.params.MinAge)
	youth := 0.0
	if span > 0 {
		youth = clamp(float64(v.params.PeakAge-p.Age)/span, 0, 1)
	}
	w := v.params.PotentialWeight * youth
	if strategy == models.StrategyRebuilding {
		w *= v.params.RebuildingPotentialBoost
	}
	w = clamp(w, 0, 0.9)

	ovr := float64(p.Ratings.Ovr)
	pot := math.Max(float64(p.Ratings.Pot), ovr)
	return (1-w)*ovr + w*pot
}

func (v *Valuer) qualityScore(q float64) float64 {
	span := v.params.StarLevel - v.params.ReplacementLevel
	if span <= 0 {
		return 1
	}
	x := clamp((q-v.params.ReplacementLevel)/span, 0, 1)
	return 1 + 99*math.Pow(x, v.params.QualityExponent)
}

func (v *Valuer) ageFactor(age int) float64 {
	if age <= v.params.DeclineAge {
		return 1
	}
	return math.Max(v.params.MinAgeFactor, 1-v.params.DeclinePerYear*float64(age-v.params.DeclineAge))
}

// strategyFactor: contenders pay for players at or past their peak,
// rebuilders for players still approaching it.
func (v *Valuer) strategyFactor(age int, strategy models.Strategy) float64 {
	switch strategy {
	case models.StrategyContending:
		if age >= v.params.PeakAge {
			return 1 + v.params.ContendingVetBonus
		}
	case models.StrategyRebuilding:
		if age < v.params.PeakAge {
			return 1 + v.params.RebuildingYouthBonus
		}
		if age >= v.params.DeclineAge {
			return 1 - v.params.RebuildingVetPenalty
		}
	}
	return 1
}

func (v *Valuer) contractFactor(p models.Player) float64 {
	years := p.YearsRemaining(v.store.State())
	if p.Contract.Amount <= 0 || years == 0 || v.params.ContractControlYears <= 0 {
		return 1
	}
	worth := v.marketWorth(p)
	amount := float64(p.Contract.Amount)
	surplus := (worth - amount) / math.Max(worth, amount)
	control := float64(min(years, v.params.ContractControlYears)) / float64(v.params.ContractControlYears)
	return 1 + v.params.ContractWeight*clamp(surplus, -1, 1)*control
}

// MarketWorth is the annual salary, in thousands, a neutral team would pay p.
func (v *Valuer) MarketWorth(p models.Player) int {
	return int(math.Round(v.marketWorth(p)))
}

func (v *Valuer) marketWorth(p models.Player) float64 {
	cfg := v.store.LeagueConfig()
	score := v.qualityScore(v.quality(p, "")) * v.ageFactor(p.Age)
	share := clamp((score-1)/99, 0, 1)
	return float64(cfg.MinContract) + float64(cfg.MaxContract-cfg.MinContract)*share
}

func (v *Valuer) fitFactor(p models.Player, fit teamFit) float64 {
	best, ok := fit.bestExcluding(p.PrimaryPosition(), p.ID)
	if !ok || p.Ratings.Ovr > best {
		return 1 + v.params.PositionNeedBonus
	}
	return 1 - v.params.PositionSurplusPenalty
}

// PickValue scores a draft pick for team tid. An expected slot better than
// the middle of the round is pulled toward the middle the further away the
// draft is; later slots are never pulled up. The curve value is then
// discounted for distance, so a pick never gains value by being further out.
func (v *Valuer) PickValue(dp models.DraftPick, tid int) (float64, error) {
	team, err := v.store.Team(tid)
	if err != nil {
		return 0, err
	}
	slot, err := v.store.ExpectedDraftPosition(dp.OriginalTeamID, dp.Season)
	if err != nil {
		return 0, fmt.Errorf("expected slot for pick %d: %w", dp.ID, err)
	}

	numTeams := v.numTeams()
	years := dp.YearsInFuture(v.store.State())
	if avg := float64(numTeams+1) / 2; v.params.PickDiscountYears > 0 && slot < avg {
		n := float64(min(years, v.params.PickDiscountYears))
		slot += (avg - slot) * n / float64(v.params.PickDiscountYears)
	}
	round := max(dp.Round, 1)
	overall := float64((round-1)*numTeams) + slot

	value := v.DiscountedPickValue(overall, years)
	switch team.Strategy {
	case models.StrategyContending:
		value *= v.params.ContendingPickMultiplier
	case models.StrategyRebuilding:
		value *= v.params.RebuildingPickMultiplier
	}
	return value, nil
}

func (v *Valuer) numTeams() int {
	if n := v.store.LeagueConfig().NumTeams; n > 0 {
		return n
	}
	return max(len(v.store.Teams()), 1)
}

// EstimatedPickValue is the undiscounted value of the overall-th selection.
// It falls steeply through the first picks and flattens toward the floor.
func (v *Valuer) EstimatedPickValue(overall float64) float64 {
	overall = math.Max(overall, 1)
	decay := math.Max(v.params.PickDecay, 1e-9)
	return v.params.PickFloorValue + (v.params.PickTopValue-v.params.PickFloorValue)*math.Exp(-(overall-1)/decay)
}

// PickDiscount is 1 for the current draft and shrinks by a fixed step per
// year until PickDiscountYears, after which it stays constant.
func (v *Valuer) PickDiscount(yearsInFuture int) float64 {
	n := clamp(float64(yearsInFuture), 0, float64(max(v.params.PickDiscountYears, 0)))
	return math.Max(1-v.params.PickDiscountPerYear*n, 0)
}

func (v *Valuer) DiscountedPickValue(overall float64, yearsInFuture int) float64 {
	return v.EstimatedPickValue(overall) * v.PickDiscount(yearsInFuture)
}

// ContractValue is what a contract is worth to the player receiving it, in
// thousands of dollars, with later seasons weighted down.
func (v *Valuer) ContractValue(c models.ContractAsset) float64 {
	total, weight := 0.0, 1.0
	for i := 0; i < c.Years; i++ {
		total += float64(c.Amount) * weight
		weight *= v.params.ContractYearWeight
	}
	return total
}

// CashValue converts a contract's money into team value points.
func (v *Valuer) CashValue(c models.ContractAsset) float64 {
	if v.params.CashPerPoint <= 0 {
		return 0
	}
	return v.ContractValue(c) / v.params.CashPerPoint
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}
