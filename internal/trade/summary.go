package trade

import (
	"fmt"

	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/valuation"
)

// Summarize projects p into a display summary: what each side sends and
// receives, payroll before and after, each side's value change and the
// legality warnings. The summary is recomputed on every call.
func (e *Engine) Summarize(p models.TradeProposal, opts ...valuation.EvalOption) (models.TradeSummary, error) {
	summary := models.TradeSummary{Proposal: p.Clone()}

	warnings, err := e.checker.Check(p)
	if err != nil {
		return summary, err
	}
	summary.Warnings = warnings
	if summary.Warnings == nil {
		summary.Warnings = []models.Warning{}
	}

	dv, err := e.ValueChanges(p, opts...)
	if err != nil {
		return summary, err
	}

	var assets [2][]models.Asset
	for i, side := range p.Teams {
		if assets[i], err = e.sideAssets(side); err != nil {
			return summary, err
		}
	}

	for i, side := range p.Teams {
		team, err := e.store.Team(side.TeamID)
		if err != nil {
			return summary, err
		}
		fin, err := e.store.FinancialState(side.TeamID)
		if err != nil {
			return summary, err
		}

		ss := models.SideSummary{
			TeamID:        team.ID,
			Abbrev:        team.Abbrev,
			Leaving:       []models.AssetSummary{},
			Arriving:      []models.AssetSummary{},
			PayrollBefore: fin.Payroll,
			PayrollAfter:  fin.Payroll,
			ValueChange:   dv[i],
		}
		for _, a := range assets[i] {
			row, err := e.assetSummary(a, team.ID)
			if err != nil {
				return summary, err
			}
			ss.Leaving = append(ss.Leaving, row)
			ss.PayrollAfter -= row.Salary
		}
		for _, a := range assets[1-i] {
			row, err := e.assetSummary(a, team.ID)
			if err != nil {
				return summary, err
			}
			ss.Arriving = append(ss.Arriving, row)
			ss.PayrollAfter += row.Salary
		}
		summary.Teams[i] = ss
	}
	return summary, nil
}

// assetSummary describes a for display, valued from team tid's side.
func (e *Engine) assetSummary(a models.Asset, tid int) (models.AssetSummary, error) {
	value, err := e.valuer.AssetValue(a, tid)
	if err != nil {
		return models.AssetSummary{}, err
	}
	row := models.AssetSummary{Kind: a.Kind().String(), Value: value, Salary: models.AssetSalary(a)}

	switch a := a.(type) {
	case models.PlayerAsset:
		p := a.Player
		row.ID = p.ID
		row.Name = p.Name
		row.Detail = fmt.Sprintf("%s, %d yo, %d/%d, %s thru %d",
			p.PrimaryPosition(), p.Age, p.Ratings.Ovr, p.Ratings.Pot, models.FormatMoney(p.Contract.Amount), p.Contract.Exp)
	case models.PickAsset:
		dp := a.Pick
		row.ID = dp.ID
		row.Name = fmt.Sprintf("%d %s round pick", dp.Season, ordinal(dp.Round))
		owner, err := e.store.Team(dp.OriginalTeamID)
		if err != nil {
			return row, err
		}
		row.Detail = owner.Abbrev
	}
	return row, nil
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
