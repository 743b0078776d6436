package valuation

import (
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// Appeal is how attractive team is to p, around 1.0. Winners draw
// players who value winning, and loyal players favour their current team.
// Money-driven players care about the team half as much.
func (v *Valuer) Appeal(p models.Player, team models.Team) float64 {
	appeal := 1.0
	if p.Mood.Has(models.TraitWinning) {
		switch team.Strategy {
		case models.StrategyContending:
			appeal += v.params.WinningAppeal
		case models.StrategyRebuilding:
			appeal -= v.params.WinningAppeal
		}
	}
	if p.Mood.Has(models.TraitLoyalty) && p.TeamID == team.ID {
		appeal += v.params.LoyaltyAppeal
	}
	if p.Mood.Has(models.TraitMoney) {
		appeal = 1 + (appeal-1)/2
	}
	return appeal
}

// PlayerValueChange is the contract decision seen from the player's side:
// the offered deal, weighted by the team's appeal, against what the player
// asks for at that length. A negative result means the player says no.
// Values are in team value points so they compare with ValueChange.
func (v *Valuer) PlayerValueChange(p models.Player, tid int, offered, asked models.ContractAsset) (float64, error) {
	team, err := v.store.Team(tid)
	if err != nil {
		return 0, err
	}
	return v.CashValue(offered)*v.Appeal(p, team) - v.CashValue(asked), nil
}
